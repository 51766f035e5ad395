package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathgrade/internal/config"
	"github.com/abhisek/mathgrade/internal/problemset"
	"github.com/abhisek/mathgrade/internal/store"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mathgrade",
		Short: "Grade math answers written in LaTeX",
		Long: `Mathgrade checks free-form math answers against canonical solutions.

Answers may be typed as LaTeX or plain arithmetic. Two answers are equal when
they evaluate to the same number, so \frac{2}{4}, 0.5 and 1/2 all match.
Run without a subcommand to practice a problem set in the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd)
		},
	}

	root.PersistentFlags().String("db", "", "Path to SQLite database file (overrides MATHGRADE_DB env var)")
	root.PersistentFlags().StringP("problems", "p", "", "Problem set JSON file")
	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides MATHGRADE_LOG_LEVEL)")

	root.AddCommand(newGradeCmd())
	root.AddCommand(newNormalizeCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newHistoryCmd())
	root.AddCommand(newContestCmd())
	root.AddCommand(versionCmd)
	return root
}

func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then MATHGRADE_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// loadProblemSet loads the file named by --problems.
func loadProblemSet(cmd *cobra.Command) (*problemset.Set, error) {
	path, _ := cmd.Flags().GetString("problems")
	if path == "" {
		return nil, fmt.Errorf("no problem set given: pass --problems <file>")
	}
	return problemset.Load(path)
}
