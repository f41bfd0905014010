package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/uniportal/internal/progression"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TELEGRAM_API_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://localhost/portal")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "token", cfg.TelegramAPIToken)
	assert.Equal(t, 20, cfg.DB.MaxConnections)
	assert.Equal(t, 30*time.Second, cfg.DB.MaxConnLifetime)
	assert.Equal(t, 10, cfg.Quiz.MaxQuestions)
	assert.Equal(t, 20, cfg.Quiz.MasteryMaxQuestions)
	assert.Equal(t, 2*time.Hour, cfg.Quiz.IdleTimeout)
	assert.Equal(t, "@every 10m", cfg.Quiz.SweepSchedule)
	assert.Equal(t, progression.DefaultScoringRules(), cfg.Progression.ScoringRules())
	assert.Equal(t, progression.DefaultWeaknessPolicy(), cfg.Progression.WeaknessPolicy())

	dsn, err := cfg.DB.DSN()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/portal", dsn)

	table, err := cfg.Progression.RankTable()
	require.NoError(t, err)
	assert.Equal(t, progression.DefaultTiers(), table.Tiers())
}

func TestLoad_FileOverrides(t *testing.T) {
	dir := writeConfig(t, `
env: production
quiz:
  max_questions: 5
progression:
  xp_per_correct: 10
  mastery_multiplier: 3
  weak_threshold: 50
  ranks:
    - { name: Freshman, min_xp: 0, color: green }
    - { name: Sophomore, min_xp: 100, color: blue }
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 5, cfg.Quiz.MaxQuestions)
	assert.Equal(t, progression.ScoringRules{XPPerCorrect: 10, MasteryMultiplier: 3}, cfg.Progression.ScoringRules())
	assert.Equal(t, 50.0, cfg.Progression.WeakThreshold)

	table, err := cfg.Progression.RankTable()
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, "Sophomore", table.Highest().Name)
	assert.Equal(t, 100, table.Highest().MinXP)
}

func TestLoad_MalformedRanksFail(t *testing.T) {
	dir := writeConfig(t, `
progression:
  ranks:
    - { name: Freshman, min_xp: 50 }
    - { name: Sophomore, min_xp: 100 }
`)

	_, err := Load(dir)
	var cfgErr *progression.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestLoad_InvalidMultiplier(t *testing.T) {
	dir := writeConfig(t, `
progression:
  mastery_multiplier: 0
`)

	_, err := Load(dir)
	require.Error(t, err)
}

func TestRequireTelegram(t *testing.T) {
	cfg := &Config{}
	require.ErrorIs(t, cfg.RequireTelegram(), ErrMissingEnvironmentVariables)

	_, err := cfg.DB.DSN()
	require.ErrorIs(t, err, ErrMissingEnvironmentVariables)

	cfg.TelegramAPIToken = "x"
	require.NoError(t, cfg.RequireTelegram())
}

func TestLoad_InvalidSweepSchedule(t *testing.T) {
	dir := writeConfig(t, `
quiz:
  sweep_schedule: "every now and then"
`)

	_, err := Load(dir)
	require.ErrorContains(t, err, "sweep_schedule")
}

func TestLoad_InvalidLeaderboardSize(t *testing.T) {
	for _, size := range []string{"0", "-1"} {
		dir := writeConfig(t, `
progression:
  leaderboard_size: `+size+`
`)

		_, err := Load(dir)
		require.ErrorContains(t, err, "leaderboard_size", "size %s", size)
	}
}
