package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/lexid"
	"github.com/roach88/lexid/clock"
	"github.com/roach88/lexid/internal/config"
	"github.com/roach88/lexid/worker"
)

// RootOptions holds global flags for all commands, plus the hooks tests use
// to make generation deterministic.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// LookupEnv reads LEXID_* overrides. Nil means os.LookupEnv.
	LookupEnv func(string) (string, bool)

	// Resolver and PID replace host resolution for worker derivation.
	Resolver worker.Resolver
	PID      worker.PIDFunc

	// Clock and Jitter replace the wall clock and random jitter.
	Clock  clock.Source
	Jitter lexid.JitterFunc

	config *config.Config
	logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the lexid CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lexid",
		Short: "lexid - lexically ordered 128-bit identifiers",
		Long: "Mint, inspect and record 128-bit identifiers that sort by creation time.\n" +
			"Each identifier packs a microsecond timestamp, a random jitter and a worker id.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			_, err := opts.settings(cmd)
			return err
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a YAML config file")

	// Add subcommands
	cmd.AddCommand(NewNewCommand(opts))
	cmd.AddCommand(NewParseCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewWorkerCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// settings loads the config file (or defaults), applies environment
// overrides and builds the logger. Later calls return the cached result.
func (o *RootOptions) settings(cmd *cobra.Command) (config.Config, error) {
	if o.config != nil {
		return *o.config, nil
	}

	cfg := config.Default()
	if o.ConfigPath != "" {
		loaded, err := config.Load(o.ConfigPath)
		if err != nil {
			return config.Config{}, o.formatter(cmd).Fail(ExitCommandError, ErrCodeConfig, "invalid config", err)
		}
		cfg = loaded
	}

	lookup := o.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return config.Config{}, o.formatter(cmd).Fail(ExitCommandError, ErrCodeConfig, "invalid environment override", err)
	}
	if _, err := cfg.ParsedLayout(); err != nil {
		return config.Config{}, o.formatter(cmd).Fail(ExitCommandError, ErrCodeConfig, "invalid layout", err)
	}

	level := cfg.SlogLevel()
	if o.Verbose {
		level = slog.LevelDebug
	}
	o.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	o.config = &cfg

	o.logger.Debug("config loaded",
		"source", o.ConfigPath,
		"layout", cfg.Layout,
		"db", cfg.DB,
	)
	return cfg, nil
}

// formatter returns an OutputFormatter bound to the command's writers.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// workerProvider picks the worker id source: an explicit flag, then the
// config's pinned id, then derivation from the host.
func (o *RootOptions) workerProvider(cfg config.Config, flagSet bool, flagValue int32) *worker.Provider {
	popts := []worker.Option{
		worker.WithResolver(o.Resolver),
		worker.WithPID(o.PID),
		worker.WithLogger(o.logger),
	}
	switch {
	case flagSet:
		popts = append(popts, worker.WithFixed(flagValue))
	case cfg.WorkerID != nil:
		popts = append(popts, worker.WithFixed(*cfg.WorkerID))
	}
	return worker.NewProvider(popts...)
}

// layout resolves the --layout flag against the config.
func (o *RootOptions) layout(cfg config.Config, flag string) (lexid.Layout, error) {
	if flag != "" {
		return lexid.ParseLayoutName(flag)
	}
	return cfg.ParsedLayout()
}
