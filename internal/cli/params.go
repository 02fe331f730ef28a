package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewParamsCommand creates the params command.
func NewParamsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "Print the effective automaton parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := rootOpts.newEngine()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, g := range eng.Parameters().Groups {
				fmt.Fprintf(tw, "[%s]\t%s\n", g.Name, g.Summary)
				for _, p := range g.Params {
					fmt.Fprintf(tw, "  %s\t%s\t%s\n", p.Key, p.Label, p.Value)
				}
			}
			return tw.Flush()
		},
	}
}
