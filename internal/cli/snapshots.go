package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"ring-ca/internal/render"
	"ring-ca/internal/store"
)

// StoreOptions holds the database flag shared by snapshot commands.
type StoreOptions struct {
	*RootOptions
	Database string
}

func (o *StoreOptions) open() (*store.Store, error) {
	path := o.Database
	if path == "" {
		path = o.Config.Database
	}
	if path == "" {
		return nil, NewExitError(ExitCommandError, "no database: pass --db or set database in the config")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, WrapExitError(ExitCommandError, "database not found", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

// NewSnapshotsCommand creates the snapshots command.
func NewSnapshotsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StoreOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "List saved snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.open()
			if err != nil {
				return err
			}
			defer st.Close()

			list, err := st.List(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "failed to list snapshots", err)
			}
			for _, s := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "%s rule=%d width=%d generations=%d total=%d created=%s\n",
					s.ID, s.Rule, s.Width, s.Capacity, s.TotalProduced, s.CreatedAt.Format(time.RFC3339))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database")
	return cmd
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StoreOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <snapshot-id>",
		Short: "Print a saved snapshot in slot order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.open()
			if err != nil {
				return err
			}
			defer st.Close()

			snap, err := st.Load(cmd.Context(), args[0])
			if errors.Is(err, store.ErrNotFound) {
				return WrapExitError(ExitCommandError, "unknown snapshot", err)
			}
			if err != nil {
				return WrapExitError(ExitFailure, "failed to load snapshot", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# rule=%d width=%d generations=%d current_slot=%d total=%d\n",
				snap.Rule, snap.Width, snap.Capacity, snap.CurrentSlot, snap.TotalProduced)
			for slot, g := range snap.Rows {
				fmt.Fprintf(out, "%d %s\n", slot, render.FormatGeneration(g))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database")
	return cmd
}
