package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"ring-ca/internal/config"
	"ring-ca/internal/sims/elementary"
)

// RootOptions holds global flags and the configuration resolved from them.
type RootOptions struct {
	ConfigPath string
	Verbose    bool

	Rule        int
	Width       int
	Generations int
	Seed        string
	Position    int
	RandomSeed  int64

	Config config.Config
	Logger *slog.Logger
}

// NewRootCommand creates the root command for the ca CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	defaults := config.Default().Automaton

	cmd := &cobra.Command{
		Use:           "ca",
		Short:         "Elementary cellular automata on a ring",
		Long:          "Run Wolfram elementary cellular automata with a circular history of generations.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "path to a YAML config file")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose logging")
	flags.IntVarP(&opts.Rule, "rule", "r", defaults.Rule, "Wolfram rule code (0-255)")
	flags.IntVarP(&opts.Width, "width", "w", defaults.Width, "cells per generation")
	flags.IntVarP(&opts.Generations, "generations", "g", defaults.Generations, "history buffer capacity")
	flags.StringVar(&opts.Seed, "seed", defaults.Seed, "seed mode (single|random)")
	flags.IntVar(&opts.Position, "position", defaults.SeedPosition, "single seed position (-1 for width/2-1)")
	flags.Int64Var(&opts.RandomSeed, "random-seed", defaults.RandomSeed, "random seed for --seed=random")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewRuleCommand(opts))
	cmd.AddCommand(NewParamsCommand(opts))
	cmd.AddCommand(NewViewCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewSnapshotsCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))

	return cmd
}

// resolve loads the config file and environment, then applies explicitly
// set flags on top.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	level := slog.LevelInfo
	if o.Verbose {
		level = slog.LevelDebug
	}
	o.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(o.Logger)

	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	flags := cmd.Flags()
	a := &cfg.Automaton
	if flags.Changed("rule") {
		a.Rule = o.Rule
	}
	if flags.Changed("width") {
		a.Width = o.Width
	}
	if flags.Changed("generations") {
		a.Generations = o.Generations
	}
	if flags.Changed("seed") {
		a.Seed = o.Seed
	}
	if flags.Changed("position") {
		a.SeedPosition = o.Position
	}
	if flags.Changed("random-seed") {
		a.RandomSeed = o.RandomSeed
	}
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	}
	o.Config = cfg
	return nil
}

// newEngine builds an engine from the resolved configuration.
func (o *RootOptions) newEngine() (*elementary.Engine, error) {
	ec := o.Config.Engine()
	o.Logger.Info("initializing automaton",
		"rule", ec.Rule,
		"width", ec.Width,
		"generations", ec.Generations,
		"seed", ec.Seed,
		"position", ec.Position(),
	)
	eng, err := elementary.New(ec)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to create automaton", err)
	}
	return eng, nil
}
