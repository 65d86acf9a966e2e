package suite

import (
	"context"
	"regexp"
	"time"

	"go.uber.org/zap"

	"siteE2E/internal/browser"
	"siteE2E/internal/navigation"
	"siteE2E/internal/pages"
)

const (
	cookieBannerSelector   = `#onetrust-banner-sdk, .onetrust-consent-sdk, [aria-label*='cookie'], [id*='cookie-banner'], [class*='cookie-banner']`
	cookieSettingsSelector = `a:has-text("Cookie Settings"), button:has-text("Cookie Settings"), a:has-text("Privacy Settings")`
	cookieDialogSelector   = `#onetrust-pc-sdk, .onetrust-pc-dark-filter`
	cookieToggleSelector   = `.ot-switch, .ot-checkbox, [type="checkbox"], [role="switch"]`
	footerPrivacySelector  = `footer a[href*="privacy"]`
	footerCookieSelector   = `footer a:has-text("Cookie"), footer a:has-text("Privacy")`
)

var (
	acceptConsent = regexp.MustCompile(`(?i)accept|i agree|accept all`)
	privacyURL    = regexp.MustCompile(`privacy`)
	privacyText   = regexp.MustCompile(`(?i)privacy|data protection|GDPR`)
	cookieURL     = regexp.MustCompile(`cookie|privacy`)
)

func privacyScenarios() []Scenario {
	return []Scenario{
		{
			Name:         "privacy/cookie banner on first visit",
			Group:        GroupPrivacy,
			FreshCookies: true,
			Run: func(ctx context.Context, env *Env) error {
				if err := env.Open(ctx, "/"); err != nil {
					return err
				}
				banner := env.Page.Locator(cookieBannerSelector).First()
				if err := banner.WaitFor(ctx, browser.StateVisible, env.Session.Timeouts().Element); err != nil {
					return &pages.AssertionError{Page: "privacy", Expectation: "баннер cookies виден", Detail: banner.String(), Err: err}
				}
				return nil
			},
		},
		{
			Name:         "privacy/accept hides banner",
			Group:        GroupPrivacy,
			FreshCookies: true,
			Run: func(ctx context.Context, env *Env) error {
				if err := acceptCookies(ctx, env); err != nil {
					return err
				}
				return bannerHidden(ctx, env)
			},
		},
		{
			Name:  "privacy/policy page",
			Group: GroupPrivacy,
			Run: func(ctx context.Context, env *Env) error {
				if err := env.Home().Goto(ctx); err != nil {
					return err
				}
				link := env.Page.Locator(footerPrivacySelector).First()
				if err := env.Session.Click(ctx, link, navigation.URLMatches(privacyURL)); err != nil {
					return err
				}
				text, err := env.Page.Locator("body").Text(ctx)
				if err != nil {
					return err
				}
				if !privacyText.MatchString(text) {
					return &pages.AssertionError{Page: "privacy", Expectation: "текст политики упоминает " + privacyText.String()}
				}
				return nil
			},
		},
		{
			Name:         "privacy/consent persists across pages",
			Group:        GroupPrivacy,
			FreshCookies: true,
			Run: func(ctx context.Context, env *Env) error {
				if err := acceptCookies(ctx, env); err != nil {
					return err
				}
				if err := env.Home().NavigateToSearch(ctx); err != nil {
					return err
				}
				return bannerHidden(ctx, env)
			},
		},
		{
			Name:  "privacy/cookie preferences",
			Group: GroupPrivacy,
			Run:   cookiePreferences,
		},
	}
}

// acceptCookies открывает главную без гейта и принимает cookies.
// Без кнопки согласия сценарий пропускается.
func acceptCookies(ctx context.Context, env *Env) error {
	if err := env.Open(ctx, "/"); err != nil {
		return err
	}
	accept := env.Page.Locator("button").Filter(acceptConsent).First()
	if err := accept.WaitFor(ctx, browser.StateVisible, env.Session.Timeouts().Element); err != nil {
		return skip("кнопка согласия на cookies не найдена")
	}
	if err := navigation.ClickWithFallback(ctx, accept); err != nil {
		return err
	}
	return pause(ctx, 2*env.Session.Timeouts().Settle)
}

func bannerHidden(ctx context.Context, env *Env) error {
	banner := env.Page.Locator(cookieBannerSelector).First()
	if err := banner.WaitFor(ctx, browser.StateHidden, env.Session.Timeouts().Element); err != nil {
		return &pages.AssertionError{Page: "privacy", Expectation: "баннер cookies скрыт", Detail: banner.String(), Err: err}
	}
	return nil
}

// cookiePreferences открывает настройки cookies. Диалог OneTrust
// показывается не всегда, поэтому его отсутствие только логируется.
func cookiePreferences(ctx context.Context, env *Env) error {
	if err := env.Home().Goto(ctx); err != nil {
		return err
	}

	settings := env.Page.Locator(cookieSettingsSelector).First()
	if ok, _ := settings.IsVisible(ctx); !ok {
		footer := env.Page.Locator(footerCookieSelector).First()
		if ok, _ := footer.IsVisible(ctx); !ok {
			return skip("ссылка на настройки cookies не найдена")
		}
		return env.Session.Click(ctx, footer, navigation.URLMatches(cookieURL))
	}

	if err := navigation.ClickWithFallback(ctx, settings); err != nil {
		return err
	}
	dialog := env.Page.Locator(cookieDialogSelector).First()
	if err := dialog.WaitFor(ctx, browser.StateVisible, env.Session.Timeouts().Element); err != nil {
		env.Log.Warn("диалог настроек cookies не показан", zap.Error(err))
		return nil
	}
	toggles := dialog.Locator(cookieToggleSelector)
	n, err := toggles.Count(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		env.Log.Warn("в диалоге настроек cookies нет переключателей")
	}
	env.Measure("cookie_toggles", float64(n))
	return nil
}

func pause(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
