package suite

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"siteE2E/internal/audit"
	"siteE2E/internal/pages"
)

func accessibilityScenarios() []Scenario {
	onHome := func(name string, check func(env *Env, r *audit.Report) error) Scenario {
		return Scenario{Name: "accessibility/" + name, Group: GroupAccessibility, Run: func(ctx context.Context, env *Env) error {
			if err := env.Home().Goto(ctx); err != nil {
				return err
			}
			r, err := audit.Inspect(ctx, env.Page)
			if err != nil {
				return err
			}
			return check(env, r)
		}}
	}
	return []Scenario{
		onHome("heading hierarchy", func(env *Env, r *audit.Report) error {
			env.Log.Info("уровни заголовков", zap.Ints("levels", r.HeadingLevels), zap.Int("h1", r.H1Count))
			return findingsError(r, audit.CheckHeadings)
		}),
		onHome("image alt text", func(env *Env, r *audit.Report) error {
			env.Measure("alt_coverage", r.AltCoverage())
			return findingsError(r, audit.CheckAltText)
		}),
		onHome("keyboard navigation", func(env *Env, r *audit.Report) error {
			env.Log.Info("выборка фокусируемых элементов",
				zap.Int("interactive", r.Interactive),
				zap.Int("accessible", r.Accessible),
				zap.Int("sampled", r.Sampled))
			return findingsError(r, audit.CheckInteractive)
		}),
		{
			Name:  "accessibility/form labels",
			Group: GroupAccessibility,
			Run: func(ctx context.Context, env *Env) error {
				if err := env.Contact().Goto(ctx); err != nil {
					return err
				}
				r, err := audit.Inspect(ctx, env.Page)
				if err != nil {
					return err
				}
				return findingsError(r, audit.CheckLabels)
			},
		},
		{
			Name:  "accessibility/text styles",
			Group: GroupAccessibility,
			Run: func(ctx context.Context, env *Env) error {
				if err := env.Home().Goto(ctx); err != nil {
					return err
				}
				s, err := audit.SampleStyles(ctx, env.Page)
				if err != nil {
					return err
				}
				if s.Sampled == 0 {
					return &pages.AssertionError{Page: "accessibility", Expectation: "текстовые элементы на странице"}
				}
				env.Log.Info("стили текста", zap.Int("styled", s.Styled), zap.Int("sampled", s.Sampled))
				return nil
			},
		},
	}
}

// findingsError собирает нарушения одной проверки в AssertionError.
func findingsError(r *audit.Report, check string) error {
	found := r.Only(check)
	if len(found) == 0 {
		return nil
	}
	msgs := make([]string, len(found))
	for i, f := range found {
		msgs[i] = f.Message
	}
	return &pages.AssertionError{
		Page:        "accessibility",
		Expectation: "без нарушений " + check,
		Detail:      strings.Join(msgs, "; "),
	}
}
