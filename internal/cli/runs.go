package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"siteE2E/internal/cli/ui"
)

var errNoJournal = errors.New("журнал прогонов не настроен: задайте DB_HOST")

func (c *CLI) runsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Показать последние прогоны из журнала",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c.runs == nil {
				return errNoJournal
			}
			if limit < 1 {
				return fmt.Errorf("--limit должен быть >= 1, получено %d", limit)
			}
			runs, err := c.runs.ListRuns(cmd.Context(), limit, 0)
			if err != nil {
				return fmt.Errorf("чтение журнала: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "Прогонов пока нет")
				return nil
			}
			for _, r := range runs {
				icon, color, text := ui.FormatStatus(r.Status)
				duration := "-"
				if r.FinishedAt != nil {
					duration = ui.FormatDuration(r.FinishedAt.Sub(r.StartedAt))
				}
				fmt.Fprintf(out, "%s%s %-11s%s %s %s %s%s%s  %d/%d/%d\n",
					color, icon, text, ui.ColorReset,
					r.UUID, r.StartedAt.Local().Format("2006-01-02 15:04:05"),
					ui.ColorGray, duration, ui.ColorReset,
					r.Passed, r.Failed, r.Skipped)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "сколько прогонов показать")
	return cmd
}
