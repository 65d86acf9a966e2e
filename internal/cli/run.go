package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"siteE2E/internal/cli/ui"
	"siteE2E/internal/overlay"
	"siteE2E/internal/suite"
	"siteE2E/internal/visual"
)

type runFlags struct {
	groups         []string
	workers        int
	visual         bool
	updateBaseline bool
}

func (c *CLI) runCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Запустить сценарии",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("workers") {
				f.workers = c.cfg.Suite.Workers
			}
			if !cmd.Flags().Changed("visual") {
				f.visual = c.cfg.Suite.Visual
			}
			if !cmd.Flags().Changed("update-baseline") {
				f.updateBaseline = c.cfg.Suite.UpdateBaseline
			}
			return c.run(cmd, f)
		},
	}
	cmd.Flags().StringSliceVarP(&f.groups, "group", "g", nil, "группы сценариев (по умолчанию все)")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", suite.DefaultWorkers, "параллельных сценариев")
	cmd.Flags().BoolVar(&f.visual, "visual", false, "включить визуальные сценарии")
	cmd.Flags().BoolVar(&f.updateBaseline, "update-baseline", false, "перезаписать эталонные скриншоты")
	return cmd
}

func (c *CLI) run(cmd *cobra.Command, f runFlags) error {
	ctx := cmd.Context()
	log := c.log.Logger

	groups, err := parseGroups(f.groups)
	if err != nil {
		return err
	}
	scenarios := c.registry.Select(groups...)
	if len(scenarios) == 0 {
		return fmt.Errorf("нет сценариев для групп %v", f.groups)
	}
	if f.workers < 1 {
		return fmt.Errorf("--workers должен быть >= 1, получено %d", f.workers)
	}

	store := visual.New(c.fs, c.cfg.Suite.ScreenshotsDir, log)
	if err := store.Init(); err != nil {
		return err
	}

	dismisser := overlay.New(log)
	if c.detector != nil {
		dismisser.WithDetector(c.detector).WithDetectorTimeout(c.cfg.OpenAI.Timeout)
	}

	if err := c.browser.Launch(ctx); err != nil {
		return fmt.Errorf("запуск браузера: %w", err)
	}
	defer func() {
		if err := c.browser.Close(); err != nil {
			log.Warn("Ошибка закрытия браузера", zap.Error(err))
		}
	}()

	log.Info("Запуск сценариев",
		zap.Int("scenarios", len(scenarios)),
		zap.Int("workers", f.workers),
		zap.Bool("visual", f.visual),
		zap.String("base_url", c.cfg.Site.BaseURL))

	runner := suite.NewRunner(c.browser, log, suite.Options{
		Workers:         f.workers,
		Visual:          f.visual,
		UpdateBaseline:  f.updateBaseline,
		BaseURL:         c.cfg.Site.BaseURL,
		Engine:          c.cfg.Browser.Engine,
		ScenarioTimeout: c.cfg.Suite.ScenarioTimeout,
		NavigateTimeout: c.cfg.Browser.NavigateTimeout,
	}, suite.WithRecorder(c.recorder), suite.WithDismisser(dismisser), suite.WithStore(store))

	sum, err := runner.Run(ctx, scenarios)
	ui.PrintSummary(cmd.OutOrStdout(), sum)
	if err != nil {
		return err
	}
	if sum.Failed > 0 {
		return fmt.Errorf("%w: %d из %d", ErrScenariosFailed, sum.Failed, len(sum.Results))
	}
	return nil
}

func parseGroups(names []string) ([]suite.Group, error) {
	groups := make([]suite.Group, 0, len(names))
	for _, name := range names {
		g, err := suite.ParseGroup(name)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}
