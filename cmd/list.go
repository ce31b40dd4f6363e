package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/stagehand/internal/config"
	"github.com/xkilldash9x/stagehand/internal/scenarios"
)

// newListCmd creates the `list` command, which prints the available scenarios.
func newListCmd(deps dependencies) *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Lists the example scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()
			selected := scenarios.Filter(deps.suite(cfg.Targets), nil, cfg.Runner.Tags)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTAGS\tDESCRIPTION")
			for _, s := range selected {
				fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, strings.Join(s.Tags, ","), s.Description)
			}
			return w.Flush()
		},
	}
	listCmd.Flags().StringSliceP("tag", "t", nil, "Only list scenarios carrying one of these tags.")
	return listCmd
}
