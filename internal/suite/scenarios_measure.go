package suite

import (
	"context"
	"time"

	"go.uber.org/zap"

	"siteE2E/internal/browser"
	"siteE2E/internal/navigation"
	"siteE2E/internal/visual"
)

// Ориентиры производительности. Превышение пишется в лог, сценарий не
// проваливается.
const (
	heroBudget      = 10 * time.Second
	tabSwitchBudget = 3 * time.Second
	pageWeightLimit = 15 << 20
)

func performanceScenarios() []Scenario {
	return []Scenario{
		{
			Name:  "performance/hero load time",
			Group: GroupPerformance,
			Run: func(ctx context.Context, env *Env) error {
				h := env.Home()
				start := time.Now()
				if err := h.Goto(ctx); err != nil {
					return err
				}
				if err := h.HeroTitle.WaitFor(ctx, browser.StateVisible, env.Session.Timeouts().Element); err != nil {
					return err
				}
				measureDuration(env, "hero_visible_ms", time.Since(start), heroBudget)
				return nil
			},
		},
		{
			Name:  "performance/tab switch",
			Group: GroupPerformance,
			Run: func(ctx context.Context, env *Env) error {
				h := env.Home()
				if err := h.Goto(ctx); err != nil {
					return err
				}
				env.Session.DismissOverlays(ctx)
				start := time.Now()
				if err := navigation.ClickWithFallback(ctx, h.ResourcesTab); err != nil {
					return err
				}
				if err := h.ResourcesHeading.WaitFor(ctx, browser.StateVisible, env.Session.Timeouts().Element); err != nil {
					return err
				}
				measureDuration(env, "tab_switch_ms", time.Since(start), tabSwitchBudget)
				return nil
			},
		},
		{
			Name:  "performance/page weight",
			Group: GroupPerformance,
			Run: func(ctx context.Context, env *Env) error {
				meter := browser.NewResponseMeter()
				meter.Attach(env.Page)
				if err := env.Home().Goto(ctx); err != nil {
					return err
				}
				if err := env.Page.WaitForLoadState(ctx, browser.WaitNetworkIdle, env.Session.Timeouts().Results); err != nil {
					env.Log.Info("сеть не успокоилась, вес посчитан по полученным ответам", zap.Error(err))
				}

				for _, st := range meter.Stats() {
					env.Measure("bytes_"+st.Type, float64(st.Bytes))
				}
				count, total := meter.Total()
				env.Measure("responses", float64(count))
				env.Measure("bytes_total", float64(total))
				if total > pageWeightLimit {
					env.Log.Warn("вес страницы выше ориентира", zap.String("by_type", meter.String()))
				}
				for _, r := range meter.Failed() {
					env.Log.Info("ответ с ошибкой", zap.String("url", r.URL), zap.Int("status", r.Status))
				}
				return nil
			},
		},
	}
}

func measureDuration(env *Env, name string, d, budget time.Duration) {
	env.Measure(name, float64(d.Milliseconds()))
	if d > budget {
		env.Log.Warn("время выше ориентира", zap.String("metric", name), zap.Duration("took", d), zap.Duration("budget", budget))
	}
}

func visualScenarios() []Scenario {
	shot := func(name string, run func(ctx context.Context, env *Env) error) Scenario {
		return Scenario{Name: "visual/" + name, Group: GroupVisual, Visual: true, Run: run}
	}
	return []Scenario{
		shot("homepage", func(ctx context.Context, env *Env) error {
			if err := env.Home().Goto(ctx); err != nil {
				return err
			}
			_, err := env.Visual.CaptureFullPage(ctx, env.Page, "homepage-"+env.Engine())
			return err
		}),
		shot("hero title", func(ctx context.Context, env *Env) error {
			h := env.Home()
			if err := h.Goto(ctx); err != nil {
				return err
			}
			_, err := env.Visual.CaptureElement(ctx, h.HeroTitle, "hero-title-"+env.Engine(), env.Options.UpdateBaseline)
			return err
		}),
		shot("navigation", func(ctx context.Context, env *Env) error {
			if err := env.Home().Goto(ctx); err != nil {
				return err
			}
			_, err := env.Visual.CaptureClip(ctx, env.Page, "navigation-"+env.Engine(), visual.NavigationClip(env.Page))
			return err
		}),
		shot("footer", func(ctx context.Context, env *Env) error {
			h := env.Home()
			if err := h.Goto(ctx); err != nil {
				return err
			}
			if err := browser.ScrollToBottom(ctx, env.Page); err != nil {
				return err
			}
			if err := h.FooterLinks.First().WaitFor(ctx, browser.StateVisible, env.Session.Timeouts().Element); err != nil {
				return err
			}
			_, err := env.Visual.CaptureClip(ctx, env.Page, "footer-"+env.Engine(), visual.FooterClip(env.Page))
			return err
		}),
		shot("contact page", func(ctx context.Context, env *Env) error {
			if err := env.Contact().Goto(ctx); err != nil {
				return err
			}
			_, err := env.Visual.CaptureFullPage(ctx, env.Page, "contact-"+env.Engine())
			return err
		}),
	}
}
