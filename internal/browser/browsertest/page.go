// Package browsertest содержит фейковую страницу для юнит-тестов кода,
// который работает с browser.Page без настоящего браузера.
package browsertest

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"sync"
	"time"

	"siteE2E/internal/browser"
)

const pollInterval = 5 * time.Millisecond

// Element - программируемый элемент. Поля читаются и меняются под
// мьютексом страницы; снаружи менять их после старта теста через Update.
type Element struct {
	Visible bool
	Enabled bool
	Checked bool
	Text    string
	Value   string
	Attrs   map[string]string

	// ClickErr возвращается обычным кликом, ForceClickErr - принудительным.
	ClickErr      error
	ForceClickErr error
	// OnClick вызывается после успешного клика, без блокировки страницы.
	OnClick func(p *Page)

	Children map[string][]*Element

	Clicks      int
	ForceClicks int
	Filled      []string
	Selected    []string
	Scrolls     int
}

// NewElement возвращает видимый и доступный элемент.
func NewElement() *Element {
	return &Element{Visible: true, Enabled: true}
}

func (e *Element) WithText(text string) *Element {
	e.Text = text
	return e
}

func (e *Element) WithAttr(name, value string) *Element {
	if e.Attrs == nil {
		e.Attrs = make(map[string]string)
	}
	e.Attrs[name] = value
	return e
}

func (e *Element) Hidden() *Element {
	e.Visible = false
	return e
}

func (e *Element) Disabled() *Element {
	e.Enabled = false
	return e
}

func (e *Element) Child(sub string, els ...*Element) *Element {
	if e.Children == nil {
		e.Children = make(map[string][]*Element)
	}
	e.Children[sub] = append(e.Children[sub], els...)
	return e
}

// RoleKey - ключ, под которым регистрируются элементы для ByRole.
func RoleKey(role, name string) string {
	if name == "" {
		return "role=" + role
	}
	return fmt.Sprintf("role=%s[name=%q]", role, name)
}

func LabelKey(label string) string {
	return fmt.Sprintf("label=%q", label)
}

// FrameKey - ключ элемента внутри iframe.
func FrameKey(frame, inner string) string {
	return frame + " >> " + inner
}

// ChildKey - ключ потомка, найденного через Locator.Locator.
func ChildKey(parent, sub string) string {
	return parent + " >> " + sub
}

// Page - фейковая реализация browser.Page.
type Page struct {
	mu       sync.Mutex
	url      string
	title    string
	content  string
	elements map[string][]*Element
	width    int
	height   int
	closed   bool

	popups    chan *Page
	responses []func(browser.Response)

	// OnGoto вызывается после смены URL; может переопределить URL или вернуть ошибку.
	OnGoto func(p *Page, url string) error
	// OnEvaluate отвечает на Evaluate страницы и локаторов.
	OnEvaluate func(p *Page, script string, arg any) (any, error)

	gotos        []string
	evaluations  []string
	screenshots  []browser.ScreenshotOptions
	clearCookies int
}

var _ browser.Page = (*Page)(nil)

func New(url string) *Page {
	return &Page{
		url:      url,
		elements: make(map[string][]*Element),
		width:    browser.ViewportDesktop.Width,
		height:   browser.ViewportDesktop.Height,
		popups:   make(chan *Page, 4),
	}
}

// Add регистрирует элементы под ключом селектора.
func (p *Page) Add(key string, els ...*Element) *Page {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.elements[key] = append(p.elements[key], els...)
	return p
}

func (p *Page) Remove(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.elements, key)
}

func (p *Page) Show(key string) { p.setVisible(key, true) }

func (p *Page) Hide(key string) { p.setVisible(key, false) }

func (p *Page) setVisible(key string, v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, el := range p.elements[key] {
		el.Visible = v
	}
}

// Update меняет состояние элементов под блокировкой страницы.
func (p *Page) Update(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn()
}

func (p *Page) SetURL(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.url = url
}

func (p *Page) SetContent(title, html string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.title = title
	p.content = html
}

// OpenPopup имитирует открытие нового окна страницей.
func (p *Page) OpenPopup(child *Page) {
	select {
	case p.popups <- child:
	default:
	}
}

// Emit раздает ответ подписчикам OnResponse.
func (p *Page) Emit(r browser.Response) {
	p.mu.Lock()
	handlers := slices.Clone(p.responses)
	p.mu.Unlock()
	for _, fn := range handlers {
		fn(r)
	}
}

// Clicks - сумма всех успешных кликов по всем элементам страницы.
func (p *Page) Clicks() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	seen := make(map[*Element]bool)
	var walk func(els []*Element)
	walk = func(els []*Element) {
		for _, el := range els {
			if seen[el] {
				continue
			}
			seen[el] = true
			n += el.Clicks + el.ForceClicks
			for _, ch := range el.Children {
				walk(ch)
			}
		}
	}
	for _, els := range p.elements {
		walk(els)
	}
	return n
}

func (p *Page) Gotos() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.gotos...)
}

func (p *Page) Evaluations() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.evaluations...)
}

func (p *Page) Screenshots() []browser.ScreenshotOptions {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]browser.ScreenshotOptions(nil), p.screenshots...)
}

func (p *Page) CookiesCleared() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clearCookies
}

func (p *Page) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *Page) lookup(key string) func() []*Element {
	return func() []*Element {
		return p.elements[key]
	}
}

func (p *Page) Locator(selector string) browser.Locator {
	return &Locator{page: p, key: selector, resolve: p.lookup(selector)}
}

func (p *Page) ByRole(role, name string) browser.Locator {
	return p.Locator(RoleKey(role, name))
}

func (p *Page) ByLabel(label string) browser.Locator {
	return p.Locator(LabelKey(label))
}

func (p *Page) Frame(selector string) browser.Scope {
	return &frame{page: p, prefix: selector}
}

func (p *Page) Goto(ctx context.Context, url string, _ browser.WaitPolicy, _ time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	p.url = url
	p.gotos = append(p.gotos, url)
	hook := p.OnGoto
	p.mu.Unlock()

	if hook != nil {
		return hook(p, url)
	}
	return nil
}

func (p *Page) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

func (p *Page) Title(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.title, ctx.Err()
}

func (p *Page) Content(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.content, ctx.Err()
}

func (p *Page) Evaluate(ctx context.Context, script string, arg any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.evaluations = append(p.evaluations, script)
	hook := p.OnEvaluate
	p.mu.Unlock()

	if hook != nil {
		return hook(p, script, arg)
	}
	return nil, nil
}

func (p *Page) WaitForURL(ctx context.Context, match browser.URLMatcher, timeout time.Duration) error {
	return poll(ctx, timeout, "URL", func() (bool, error) {
		return match(p.URL()), nil
	})
}

func (p *Page) WaitForLoadState(ctx context.Context, _ browser.WaitPolicy, _ time.Duration) error {
	return ctx.Err()
}

// ExpectPopup выполняет action и ждет окно, переданное в OpenPopup.
func (p *Page) ExpectPopup(ctx context.Context, timeout time.Duration, action func() error) (browser.Page, error) {
	if action != nil {
		if err := action(); err != nil {
			return nil, err
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case child := <-p.popups:
		return child, nil
	case <-timer.C:
		return nil, fmt.Errorf("ожидание popup: %w", browser.ErrTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// PNG - содержимое всех фейковых скриншотов.
var PNG = []byte("\x89PNG\r\n\x1a\nfake")

func (p *Page) Screenshot(ctx context.Context, opts browser.ScreenshotOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.screenshots = append(p.screenshots, opts)
	p.mu.Unlock()
	return append([]byte(nil), PNG...), nil
}

func (p *Page) ViewportSize() (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.width, p.height
}

func (p *Page) SetViewportSize(ctx context.Context, width, height int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.width, p.height = width, height
	return nil
}

func (p *Page) OnResponse(fn func(browser.Response)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.responses = append(p.responses, fn)
}

func (p *Page) ClearCookies(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clearCookies++
	return ctx.Err()
}

func (p *Page) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

type frame struct {
	page   *Page
	prefix string
}

func (f *frame) Locator(selector string) browser.Locator {
	return f.page.Locator(FrameKey(f.prefix, selector))
}

func (f *frame) ByRole(role, name string) browser.Locator {
	return f.page.Locator(FrameKey(f.prefix, RoleKey(role, name)))
}

func (f *frame) ByLabel(label string) browser.Locator {
	return f.page.Locator(FrameKey(f.prefix, LabelKey(label)))
}

// poll проверяет условие до успеха, ошибки или таймаута.
func poll(ctx context.Context, timeout time.Duration, what string, cond func() (bool, error)) error {
	deadline := time.Now().Add(timeout)
	for {
		ok, err := cond()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("ожидание %s: %w", what, browser.ErrTimeout)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

func matchText(re *regexp.Regexp, text string) bool {
	return re != nil && re.MatchString(text)
}
