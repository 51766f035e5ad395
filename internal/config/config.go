package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultContestDuration is used when MATHGRADE_CONTEST_DURATION is unset.
const DefaultContestDuration = 2 * time.Hour

// Config holds runtime configuration values for the CLI and TUI.
type Config struct {
	// DBPath is the SQLite file. Empty means store.DefaultDBPath.
	DBPath string

	LogLevel string

	// LogFile receives logs in TUI mode. Empty discards them.
	LogFile string

	ContestDuration time.Duration
}

// Load reads configuration from MATHGRADE_* environment variables and an
// optional .env file in the working directory.
func Load() (Config, error) {
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (Config, error) {
	v.SetEnvPrefix("MATHGRADE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("log.level", "info")
	v.SetDefault("contest.duration", DefaultContestDuration.String())

	dur, err := time.ParseDuration(v.GetString("contest.duration"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid contest duration: %w", err)
	}
	if dur <= 0 {
		return Config{}, fmt.Errorf("contest duration must be positive, got %s", dur)
	}

	return Config{
		DBPath:          v.GetString("db"),
		LogLevel:        strings.ToLower(v.GetString("log.level")),
		LogFile:         v.GetString("log.file"),
		ContestDuration: dur,
	}, nil
}
