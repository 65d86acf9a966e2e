package browser

import (
	"context"
	"regexp"
	"strings"
	"time"
)

// State - состояние элемента, которого ждет WaitFor.
type State string

const (
	StateVisible  State = "visible"
	StateHidden   State = "hidden"
	StateAttached State = "attached"
	StateDetached State = "detached"
)

// WaitPolicy - событие загрузки, после которого навигация считается завершенной.
type WaitPolicy string

const (
	WaitLoad             WaitPolicy = "load"
	WaitDOMContentLoaded WaitPolicy = "domcontentloaded"
	WaitNetworkIdle      WaitPolicy = "networkidle"
	WaitCommit           WaitPolicy = "commit"
)

type ClickOptions struct {
	// Force пропускает проверки actionability (перекрытие, видимость).
	Force   bool
	Timeout time.Duration
}

// URLMatcher - предикат над URL страницы.
type URLMatcher func(url string) bool

func MatchURL(re *regexp.Regexp) URLMatcher {
	return func(url string) bool {
		return re.MatchString(url)
	}
}

func URLContains(part string) URLMatcher {
	return func(url string) bool {
		return strings.Contains(url, part)
	}
}

type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

type ScreenshotOptions struct {
	FullPage bool
	Clip     *Rect
}

type Response struct {
	URL          string
	Status       int
	OK           bool
	ResourceType string
	// Size берется из Content-Length; 0, если заголовка нет.
	Size int64
}

type Locator interface {
	String() string
	Count(ctx context.Context) (int, error)
	Nth(i int) Locator
	First() Locator
	Locator(selector string) Locator
	Filter(hasText *regexp.Regexp) Locator
	IsVisible(ctx context.Context) (bool, error)
	IsEnabled(ctx context.Context) (bool, error)
	IsChecked(ctx context.Context) (bool, error)
	Click(ctx context.Context, opts ClickOptions) error
	Fill(ctx context.Context, value string) error
	InputValue(ctx context.Context) (string, error)
	SelectOption(ctx context.Context, label string) error
	Check(ctx context.Context, force bool) error
	Uncheck(ctx context.Context) error
	WaitFor(ctx context.Context, state State, timeout time.Duration) error
	Text(ctx context.Context) (string, error)
	Attribute(ctx context.Context, name string) (string, error)
	Evaluate(ctx context.Context, script string) (any, error)
	ScrollIntoView(ctx context.Context) error
	Screenshot(ctx context.Context) ([]byte, error)
}

type Scope interface {
	Locator(selector string) Locator
	// ByRole ищет по ARIA-роли; name сравнивается без учета регистра как подстрока.
	ByRole(role, name string) Locator
	ByLabel(label string) Locator
}

type Page interface {
	Scope
	Frame(selector string) Scope
	Goto(ctx context.Context, url string, wait WaitPolicy, timeout time.Duration) error
	URL() string
	Title(ctx context.Context) (string, error)
	Content(ctx context.Context) (string, error)
	Evaluate(ctx context.Context, script string, arg any) (any, error)
	WaitForURL(ctx context.Context, match URLMatcher, timeout time.Duration) error
	WaitForLoadState(ctx context.Context, wait WaitPolicy, timeout time.Duration) error
	// ExpectPopup выполняет action и ждет окно, которое оно откроет.
	ExpectPopup(ctx context.Context, timeout time.Duration, action func() error) (Page, error)
	Screenshot(ctx context.Context, opts ScreenshotOptions) ([]byte, error)
	ViewportSize() (width, height int)
	SetViewportSize(ctx context.Context, width, height int) error
	OnResponse(fn func(Response))
	ClearCookies(ctx context.Context) error
	Close() error
}

type Viewport struct {
	Width  int
	Height int
}

var (
	ViewportDesktop = Viewport{Width: 1280, Height: 800}
	ViewportLarge   = Viewport{Width: 1920, Height: 1080}
	ViewportIPad    = Viewport{Width: 834, Height: 1194}
	ViewportIPhone  = Viewport{Width: 390, Height: 664}
)

type PageOptions struct {
	Viewport Viewport
	Locale   string
}

type Config struct {
	Engine          string
	Headless        bool
	SlowMo          time.Duration
	UserDataDir     string
	Display         string
	Timeout         time.Duration
	NavigateTimeout time.Duration
	ActionTimeout   time.Duration
}
