package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MATHGRADE_DB", "")
	t.Setenv("MATHGRADE_LOG_LEVEL", "")
	t.Setenv("MATHGRADE_CONTEST_DURATION", "")

	cfg, err := load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "", cfg.DBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DefaultContestDuration, cfg.ContestDuration)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("MATHGRADE_DB", "/tmp/grades.db")
	t.Setenv("MATHGRADE_LOG_LEVEL", "DEBUG")
	t.Setenv("MATHGRADE_LOG_FILE", "/tmp/mathgrade.log")
	t.Setenv("MATHGRADE_CONTEST_DURATION", "90m")

	cfg, err := load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "/tmp/grades.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/mathgrade.log", cfg.LogFile)
	assert.Equal(t, 90*time.Minute, cfg.ContestDuration)
}

func TestLoad_InvalidDuration(t *testing.T) {
	for _, d := range []string{"soon", "-5m", "0s"} {
		t.Setenv("MATHGRADE_CONTEST_DURATION", d)
		_, err := load(viper.New())
		assert.Error(t, err, "duration %q", d)
	}
}
