package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"ring-ca/internal/app"
	"ring-ca/internal/sims/elementary"
)

// ViewOptions holds flags for the view command.
type ViewOptions struct {
	*RootOptions
	Scale int
	TPS   int
}

// NewViewCommand creates the view command.
func NewViewCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ViewOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Show the history buffer in a window",
		Long: `Open a window that draws the retained generations top to bottom.

Keys: space pauses, n steps once, r resets, s reseeds, up/down change speed,
q or escape quits. Requires a build with -tags ebiten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view := opts.Config.View
			if cmd.Flags().Changed("scale") {
				view.Scale = opts.Scale
			}
			if cmd.Flags().Changed("tps") {
				view.TPS = opts.TPS
			}
			ec := opts.Config.Engine()
			sim, err := elementary.NewSim(ec)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to create automaton", err)
			}
			err = app.Run(sim, app.Options{Scale: view.Scale, TPS: view.TPS, Seed: ec.RandomSeed})
			if errors.Is(err, app.ErrNoGUI) {
				return WrapExitError(ExitCommandError, "viewer unavailable", err)
			}
			if err != nil {
				return WrapExitError(ExitFailure, "viewer failed", err)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Scale, "scale", 3, "pixel scale multiplier")
	cmd.Flags().IntVar(&opts.TPS, "tps", 30, "generations per second")

	return cmd
}
