package browser

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/playwright-community/playwright-go"
)

type playwrightPage struct {
	page    playwright.Page
	bctx    playwright.BrowserContext
	ownsCtx bool
	cfg     Config
}

func newPage(page playwright.Page, bctx playwright.BrowserContext, ownsCtx bool, cfg Config) Page {
	return &playwrightPage{
		page:    page,
		bctx:    bctx,
		ownsCtx: ownsCtx,
		cfg:     cfg,
	}
}

// nameMatcher - имя роли как подстрока без учета регистра.
func nameMatcher(name string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(name))
}

func (p *playwrightPage) Locator(selector string) Locator {
	return &playwrightLocator{loc: p.page.Locator(selector), desc: selector, cfg: p.cfg}
}

func (p *playwrightPage) ByRole(role, name string) Locator {
	opts := playwright.PageGetByRoleOptions{}
	if name != "" {
		opts.Name = nameMatcher(name)
	}
	return &playwrightLocator{
		loc:  p.page.GetByRole(playwright.AriaRole(role), opts),
		desc: roleDesc(role, name),
		cfg:  p.cfg,
	}
}

func (p *playwrightPage) ByLabel(label string) Locator {
	return &playwrightLocator{
		loc:  p.page.GetByLabel(nameMatcher(label)),
		desc: fmt.Sprintf("label=%q", label),
		cfg:  p.cfg,
	}
}

func (p *playwrightPage) Frame(selector string) Scope {
	return &frameScope{fl: p.page.FrameLocator(selector), desc: selector, cfg: p.cfg}
}

func (p *playwrightPage) Goto(ctx context.Context, url string, wait WaitPolicy, timeout time.Duration) error {
	if timeout == 0 {
		timeout = p.cfg.NavigateTimeout
	}
	ms, err := boundTimeout(ctx, timeout)
	if err != nil {
		return err
	}

	_, err = p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: waitUntil(wait),
		Timeout:   ms,
	})
	return wrapTimeout("переход на "+url, err)
}

func (p *playwrightPage) URL() string {
	return p.page.URL()
}

func (p *playwrightPage) Title(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return p.page.Title()
}

func (p *playwrightPage) Content(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return p.page.Content()
}

func (p *playwrightPage) Evaluate(ctx context.Context, script string, arg any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if arg == nil {
		return p.page.Evaluate(script)
	}
	return p.page.Evaluate(script, arg)
}

func (p *playwrightPage) WaitForURL(ctx context.Context, match URLMatcher, timeout time.Duration) error {
	ms, err := boundTimeout(ctx, timeout)
	if err != nil {
		return err
	}
	err = p.page.WaitForURL(func(u string) bool { return match(u) }, playwright.PageWaitForURLOptions{
		Timeout:   ms,
		WaitUntil: playwright.WaitUntilStateCommit,
	})
	return wrapTimeout("ожидание URL", err)
}

func (p *playwrightPage) WaitForLoadState(ctx context.Context, wait WaitPolicy, timeout time.Duration) error {
	ms, err := boundTimeout(ctx, timeout)
	if err != nil {
		return err
	}
	err = p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   loadState(wait),
		Timeout: ms,
	})
	return wrapTimeout("ожидание загрузки "+string(wait), err)
}

// ExpectPopup регистрирует ожидание до вызова action, поэтому окно,
// открытое кликом, не теряется.
func (p *playwrightPage) ExpectPopup(ctx context.Context, timeout time.Duration, action func() error) (Page, error) {
	ms, err := boundTimeout(ctx, timeout)
	if err != nil {
		return nil, err
	}
	popup, err := p.page.ExpectPopup(action, playwright.PageExpectPopupOptions{
		Timeout: ms,
	})
	if err != nil {
		return nil, wrapTimeout("ожидание popup", err)
	}
	return newPage(popup, p.bctx, false, p.cfg), nil
}

func (p *playwrightPage) Screenshot(ctx context.Context, opts ScreenshotOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pwOpts := playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(opts.FullPage),
	}
	if opts.Clip != nil {
		pwOpts.Clip = &playwright.Rect{
			X:      opts.Clip.X,
			Y:      opts.Clip.Y,
			Width:  opts.Clip.Width,
			Height: opts.Clip.Height,
		}
	}
	png, err := p.page.Screenshot(pwOpts)
	if err != nil {
		return nil, fmt.Errorf("скриншот страницы: %w", err)
	}
	return png, nil
}

func (p *playwrightPage) ViewportSize() (int, int) {
	size := p.page.ViewportSize()
	if size == nil {
		return 0, 0
	}
	return size.Width, size.Height
}

func (p *playwrightPage) SetViewportSize(ctx context.Context, width, height int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.page.SetViewportSize(width, height)
}

// OnResponse не делает запросов к драйверу внутри колбэка: размер
// берется только из заголовка.
func (p *playwrightPage) OnResponse(fn func(Response)) {
	p.page.OnResponse(func(resp playwright.Response) {
		r := Response{
			URL:    resp.URL(),
			Status: resp.Status(),
			OK:     resp.Ok(),
		}
		if req := resp.Request(); req != nil {
			r.ResourceType = req.ResourceType()
		}
		if v, ok := resp.Headers()["content-length"]; ok {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				r.Size = n
			}
		}
		fn(r)
	})
}

func (p *playwrightPage) ClearCookies(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.bctx.ClearCookies()
}

func (p *playwrightPage) Close() error {
	if p.ownsCtx {
		return p.bctx.Close()
	}
	return p.page.Close()
}

type frameScope struct {
	fl   playwright.FrameLocator
	desc string
	cfg  Config
}

func (f *frameScope) Locator(selector string) Locator {
	return &playwrightLocator{
		loc:  f.fl.Locator(selector),
		desc: f.desc + " >> " + selector,
		cfg:  f.cfg,
	}
}

func (f *frameScope) ByRole(role, name string) Locator {
	opts := playwright.FrameLocatorGetByRoleOptions{}
	if name != "" {
		opts.Name = nameMatcher(name)
	}
	return &playwrightLocator{
		loc:  f.fl.GetByRole(playwright.AriaRole(role), opts),
		desc: f.desc + " >> " + roleDesc(role, name),
		cfg:  f.cfg,
	}
}

func (f *frameScope) ByLabel(label string) Locator {
	return &playwrightLocator{
		loc:  f.fl.GetByLabel(nameMatcher(label)),
		desc: fmt.Sprintf("%s >> label=%q", f.desc, label),
		cfg:  f.cfg,
	}
}

func roleDesc(role, name string) string {
	if name == "" {
		return "role=" + role
	}
	return fmt.Sprintf("role=%s[name=%q]", role, name)
}
