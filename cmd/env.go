package cmd

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhisek/mathgrade/internal/config"
	"github.com/abhisek/mathgrade/internal/logging"
	"github.com/abhisek/mathgrade/internal/store"
	"github.com/abhisek/mathgrade/internal/submission"
)

// env bundles what the store-backed subcommands share.
type env struct {
	cfg         config.Config
	logger      zerolog.Logger
	store       *store.Store
	submissions *submission.Service
}

// openEnv loads config, logs to stderr and opens the store.
func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := logging.Console(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	logger.Debug().Str("db", dbPath).Msg("store opened")

	return &env{
		cfg:         cfg,
		logger:      logger,
		store:       st,
		submissions: submission.NewService(st.Submissions(), logger),
	}, nil
}

func (e *env) Close() error {
	return e.store.Close()
}
