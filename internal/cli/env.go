package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/minelog/internal/config"
	"github.com/roach88/minelog/internal/logging"
	"github.com/roach88/minelog/internal/logstore"
)

// environment is what every command needs: resolved config, a diagnostic
// logger on stderr, and the store.
type environment struct {
	cfg       config.Config
	logger    *slog.Logger
	store     *logstore.Store
	formatter *OutputFormatter
}

// openEnvironment resolves configuration (file, then MINELOG_* variables,
// then flags) and opens the log store.
func openEnvironment(opts *RootOptions, cmd *cobra.Command) (*environment, error) {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	config.FromEnv(&cfg)
	if opts.DataDir != "" {
		cfg.DataDir = opts.DataDir
	}
	if opts.Verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "invalid config", err)
	}

	logger := logging.New(cfg.Logging, cmd.ErrOrStderr())
	logger.Debug("resolved config", "data_dir", cfg.DataDir, "sync", cfg.Store.Sync)

	st, err := logstore.Open(cfg.DataDir,
		logstore.WithLogger(logger),
		logstore.WithSync(cfg.Store.Sync),
	)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "failed to open log store", err)
	}

	return &environment{
		cfg:       cfg,
		logger:    logger,
		store:     st,
		formatter: formatter,
	}, nil
}
