package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"ring-ca/internal/sims/elementary"
)

// NewRuleCommand creates the rule command.
func NewRuleCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rule [code]",
		Short: "Print the neighborhood table of a rule",
		Long: `Print the output of every left/center/right neighborhood for a rule.
Without an argument the configured rule is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := rootOpts.Config.Automaton.Rule
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return WrapExitError(ExitCommandError, "invalid rule code", err)
				}
				code = n
			}
			table, err := elementary.NewRuleTable(code)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid rule code", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "rule %d\n", code)
			for n := elementary.NumNeighborhoods - 1; n >= 0; n-- {
				v, err := table.Lookup(n)
				if err != nil {
					return WrapExitError(ExitFailure, "lookup", err)
				}
				fmt.Fprintf(out, "%03b -> %d\n", n, v)
			}
			return nil
		},
	}
}
