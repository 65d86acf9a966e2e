package suite

import (
	"context"
	"fmt"

	"siteE2E/internal/browser"
	"siteE2E/internal/pages"
	"siteE2E/internal/sitedata"
)

var viewportMobileLandscape = browser.Viewport{Width: 375, Height: 812}

func responsiveScenarios() []Scenario {
	return []Scenario{
		{
			Name:     "responsive/mobile menu",
			Group:    GroupResponsive,
			Viewport: browser.ViewportIPhone,
			Run: func(ctx context.Context, env *Env) error {
				h := env.Home()
				return sequence(ctx, h.Goto, h.OpenMobileMenu)
			},
		},
		{
			Name:     "responsive/mobile contact form",
			Group:    GroupResponsive,
			Viewport: browser.ViewportIPhone,
			Run: func(ctx context.Context, env *Env) error {
				c := env.Contact()
				return sequence(ctx, c.Goto, c.ValidateFormReachable)
			},
		},
		{
			Name:     "responsive/tablet homepage",
			Group:    GroupResponsive,
			Viewport: browser.ViewportIPad,
			Run: func(ctx context.Context, env *Env) error {
				h := env.Home()
				return sequence(ctx, h.Goto, h.ValidateHeroSection, h.ValidateNavigationTabs)
			},
		},
		{
			Name:     "responsive/large desktop",
			Group:    GroupResponsive,
			Viewport: browser.ViewportLarge,
			Run: func(ctx context.Context, env *Env) error {
				h := env.Home()
				return sequence(ctx, h.Goto, h.ValidateHeroSection, h.ValidateFooterIndustries, h.ValidateFooterLinks)
			},
		},
		{
			Name:  "responsive/viewport change",
			Group: GroupResponsive,
			Run: func(ctx context.Context, env *Env) error {
				h := env.Home()
				resize := func(v browser.Viewport) step {
					return func(ctx context.Context) error {
						return env.Page.SetViewportSize(ctx, v.Width, v.Height)
					}
				}
				return sequence(ctx,
					h.Goto,
					resize(viewportMobileLandscape),
					h.OpenMobileMenu,
					resize(browser.ViewportDesktop),
					h.CloseMobileMenu,
				)
			},
		},
	}
}

// dataDrivenScenarios - по сценарию на каждую строку таблиц sitedata.
// Страницы открываются напрямую, оверлеи прячутся скриптом.
func dataDrivenScenarios() []Scenario {
	var out []Scenario
	landing := func(kind, name, path, heading string) Scenario {
		return Scenario{
			Name:  fmt.Sprintf("data-driven/%s %s", kind, name),
			Group: GroupDataDriven,
			Run: func(ctx context.Context, env *Env) error {
				if err := env.Open(ctx, path); err != nil {
					return err
				}
				env.Session.ForceHide(ctx)
				l := env.Home().Layout
				return sequence(ctx, l.ValidateLogo, func(ctx context.Context) error {
					return l.ValidateHeadingContains(ctx, heading)
				})
			},
		}
	}
	for _, ind := range sitedata.Industries {
		out = append(out, landing("industry", ind.Name, ind.Path, ind.ExpectedHeading))
	}
	for _, sol := range sitedata.Solutions {
		out = append(out, landing("solution", sol.Name, sol.Path, sol.ExpectedHeading))
	}
	for _, q := range sitedata.SearchQueries {
		out = append(out, Scenario{
			Name:  "data-driven/search " + q.Query,
			Group: GroupDataDriven,
			Run: func(ctx context.Context, env *Env) error {
				p := env.Search()
				if err := p.Goto(ctx); err != nil {
					return err
				}
				if err := p.PerformSearch(ctx, q.Query, q.ExpectResults); err != nil {
					return err
				}
				if !q.ExpectResults {
					return nil
				}
				if err := p.ValidateSearchResults(ctx, true); err != nil {
					return err
				}
				return minResults(ctx, p, q)
			},
		})
	}
	return out
}

func minResults(ctx context.Context, p *pages.Search, q sitedata.SearchQuery) error {
	n, err := p.Results.Count(ctx)
	if err != nil {
		return err
	}
	if n < q.MinResults {
		return &pages.AssertionError{
			Page:        "search",
			Expectation: fmt.Sprintf("не меньше %d результатов по запросу %q", q.MinResults, q.Query),
			Detail:      fmt.Sprintf("найдено %d", n),
		}
	}
	return nil
}
