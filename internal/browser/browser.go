package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

type PlaywrightBrowser struct {
	mu         sync.Mutex
	pw         *playwright.Playwright
	browser    playwright.Browser
	persistent playwright.BrowserContext
	cfg        Config
}

func New(cfg Config) *PlaywrightBrowser {
	// Установка дефолтных таймаутов
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.NavigateTimeout == 0 {
		cfg.NavigateTimeout = 60 * time.Second // Navigate обычно дольше
	}
	if cfg.ActionTimeout == 0 {
		cfg.ActionTimeout = 10 * time.Second // Click/Type обычно быстрые
	}
	if cfg.Engine == "" {
		cfg.Engine = "chromium"
	}

	return &PlaywrightBrowser{
		cfg: cfg,
	}
}

func (b *PlaywrightBrowser) Config() Config {
	return b.cfg
}

func (b *PlaywrightBrowser) getEnvMap() map[string]string {
	if b.cfg.Display != "" {
		return map[string]string{
			"DISPLAY": b.cfg.Display,
		}
	}
	return nil
}

func (b *PlaywrightBrowser) browserType(pw *playwright.Playwright) (playwright.BrowserType, error) {
	switch b.cfg.Engine {
	case "chromium":
		return pw.Chromium, nil
	case "firefox":
		return pw.Firefox, nil
	case "webkit":
		return pw.WebKit, nil
	default:
		return nil, fmt.Errorf("неизвестный движок %q", b.cfg.Engine)
	}
}

func (b *PlaywrightBrowser) launchPersistent(bt playwright.BrowserType) error {
	opts := playwright.BrowserTypeLaunchPersistentContextOptions{
		Headless: playwright.Bool(b.cfg.Headless),
		SlowMo:   playwright.Float(float64(b.cfg.SlowMo.Milliseconds())),
	}

	if env := b.getEnvMap(); env != nil {
		opts.Env = env
	}

	browserContext, err := bt.LaunchPersistentContext(b.cfg.UserDataDir, opts)
	if err != nil {
		return err
	}

	b.persistent = browserContext
	return nil
}

func (b *PlaywrightBrowser) launchStandard(bt playwright.BrowserType) error {
	opts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(b.cfg.Headless),
		SlowMo:   playwright.Float(float64(b.cfg.SlowMo.Milliseconds())),
	}

	if env := b.getEnvMap(); env != nil {
		opts.Env = env
	}

	browser, err := bt.Launch(opts)
	if err != nil {
		return err
	}

	b.browser = browser
	return nil
}

func (b *PlaywrightBrowser) Launch(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pw != nil {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("запуск playwright: %w", err)
	}

	bt, err := b.browserType(pw)
	if err != nil {
		_ = pw.Stop()
		return err
	}

	if b.cfg.UserDataDir != "" {
		err = b.launchPersistent(bt)
	} else {
		err = b.launchStandard(bt)
	}
	if err != nil {
		_ = pw.Stop()
		return fmt.Errorf("запуск %s: %w", b.cfg.Engine, err)
	}

	b.pw = pw
	return nil
}

// NewPage открывает страницу в собственном контексте браузера, чтобы
// куки и storage не пересекались между сценариями. С UserDataDir
// контекст один на все страницы.
func (b *PlaywrightBrowser) NewPage(ctx context.Context, opts PageOptions) (Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	br, persistent := b.browser, b.persistent
	b.mu.Unlock()

	if br == nil && persistent == nil {
		return nil, fmt.Errorf("браузер не запущен")
	}

	var (
		bctx    playwright.BrowserContext
		ownsCtx bool
		err     error
	)

	viewport := opts.Viewport
	if viewport.Width == 0 || viewport.Height == 0 {
		viewport = ViewportDesktop
	}

	if persistent != nil {
		bctx = persistent
	} else {
		ctxOpts := playwright.BrowserNewContextOptions{
			Viewport: &playwright.Size{Width: viewport.Width, Height: viewport.Height},
		}
		if opts.Locale != "" {
			ctxOpts.Locale = playwright.String(opts.Locale)
		}
		bctx, err = br.NewContext(ctxOpts)
		if err != nil {
			return nil, fmt.Errorf("создание контекста: %w", err)
		}
		ownsCtx = true
	}

	bctx.SetDefaultTimeout(float64(b.cfg.Timeout.Milliseconds()))
	bctx.SetDefaultNavigationTimeout(float64(b.cfg.NavigateTimeout.Milliseconds()))

	page, err := bctx.NewPage()
	if err != nil {
		if ownsCtx {
			_ = bctx.Close()
		}
		return nil, fmt.Errorf("создание страницы: %w", err)
	}

	if persistent != nil {
		if err := page.SetViewportSize(viewport.Width, viewport.Height); err != nil {
			return nil, err
		}
	}

	return newPage(page, bctx, ownsCtx, b.cfg), nil
}

func (b *PlaywrightBrowser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.persistent != nil {
		if err := b.persistent.Close(); err != nil {
			return err
		}
		b.persistent = nil
	}
	if b.browser != nil {
		if err := b.browser.Close(); err != nil {
			return err
		}
		b.browser = nil
	}
	if b.pw != nil {
		err := b.pw.Stop()
		b.pw = nil
		return err
	}
	return nil
}
