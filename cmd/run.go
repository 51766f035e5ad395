package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathgrade/internal/app"
	"github.com/abhisek/mathgrade/internal/logging"
	"github.com/abhisek/mathgrade/internal/store"
	"github.com/abhisek/mathgrade/internal/submission"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	set, err := loadProblemSet(cmd)
	if err != nil {
		return err
	}

	logger, closer, err := logging.File(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	logger.Info().Str("db", dbPath).Str("set", set.Name).Int("problems", len(set.Problems)).Msg("starting practice")

	return app.Run(app.Options{
		Set:     set,
		Service: submission.NewService(st.Submissions(), logger),
		Logger:  logger,
	})
}
