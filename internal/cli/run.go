package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"ring-ca/internal/render"
	"ring-ca/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Steps         int
	Database      string
	Chronological bool
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Advance an automaton and print its history buffer",
		Long: `Build an automaton, advance it and print the history buffer.

By default the buffer is filled to capacity and printed in slot order, one
"<slot> <cells>" line per written slot. --chronological prints the retained
generations oldest first, numbered by generation instead of slot.

Example:
  ca run --rule 90 --width 31 --generations 16
  ca run --steps 1000 --chronological --db ./ca.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAutomaton(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Steps, "steps", -1, "generations to advance (-1 fills the buffer)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "save a snapshot to this SQLite database")
	cmd.Flags().BoolVar(&opts.Chronological, "chronological", false, "print oldest generation first")

	return cmd
}

func runAutomaton(cmd *cobra.Command, opts *RunOptions) error {
	eng, err := opts.newEngine()
	if err != nil {
		return err
	}

	if opts.Steps < 0 {
		err = eng.FillToCapacity()
	} else {
		err = eng.Steps(opts.Steps)
	}
	if err != nil {
		return WrapExitError(ExitFailure, "advance failed", err)
	}
	opts.Logger.Debug("advanced", "total_produced", eng.TotalProduced(), "current_slot", eng.CurrentSlot())

	out := cmd.OutOrStdout()
	if opts.Chronological {
		first := max(eng.TotalProduced()-eng.Capacity()+1, 0)
		err = render.WriteHistory(out, eng.History(), first)
	} else {
		err = render.WriteBuffer(out, eng)
	}
	if err != nil {
		return WrapExitError(ExitFailure, "write output", err)
	}

	dbPath := opts.Database
	if dbPath == "" {
		dbPath = opts.Config.Database
	}
	if dbPath == "" {
		return nil
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			opts.Logger.Error("error closing database", "error", closeErr)
		}
	}()
	id, err := st.Save(cmd.Context(), eng)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to save snapshot", err)
	}
	opts.Logger.Info("snapshot saved", "id", id, "db", dbPath)
	fmt.Fprintf(cmd.ErrOrStderr(), "snapshot %s\n", id)
	return nil
}
