package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"siteE2E/internal/cli/ui"
)

func (c *CLI) listCmd() *cobra.Command {
	var groups []string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Показать зарегистрированные сценарии",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gs, err := parseGroups(groups)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			scenarios := c.registry.Select(gs...)
			for _, s := range scenarios {
				mark := ""
				if s.Visual {
					mark = " " + ui.IconCamera
				}
				fmt.Fprintf(out, "%s%-14s%s %s%s\n", ui.ColorGray, s.Group, ui.ColorReset, s.Name, mark)
			}
			fmt.Fprintf(out, "\n%s %d сценариев\n", ui.IconList, len(scenarios))
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&groups, "group", "g", nil, "группы сценариев")
	return cmd
}
