// Package cli implements the barcut command line.
package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/piwi3910/barcut/internal/config"
	"github.com/piwi3910/barcut/internal/logger"
	"github.com/spf13/cobra"
)

// app carries global flags and the loaded config to every command.
type app struct {
	cfgFile string
	verbose bool
	noColor bool

	cfg config.Config
}

// NewRootCmd builds the command tree. Each call returns fresh flag state.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "barcut",
		Short:         "Cut list optimizer for bars, tubes and profiles",
		Long:          "barcut packs a list of required lengths into as few stock bars as possible, accounting for the saw kerf.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default .barcut.yaml in . or $HOME)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging to stderr")
	pf.BoolVar(&a.noColor, "no-color", false, "disable coloured output")

	root.AddCommand(
		newServeCmd(a),
		newPlanCmd(a),
		newCompareCmd(a),
		newEstimateCmd(a),
		newHistoryCmd(a),
		newPresetsCmd(a),
	)
	return root
}

// Execute runs the CLI and exits 1 on error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error:"), err)
		os.Exit(1)
	}
}

func (a *app) setup() error {
	if a.noColor {
		color.NoColor = true
	}
	if err := config.Init(a.cfgFile); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.cfg = cfg

	if err := logger.Init(logger.Config{Level: cfg.Log.Level, File: cfg.Log.File, Verbose: a.verbose}); err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	logger.Debug("config loaded", "file", a.cfgFile, "algorithm", cfg.Engine.Algorithm)
	return nil
}
