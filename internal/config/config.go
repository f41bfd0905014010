package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"github.com/aliskhannn/uniportal/internal/domain/entities"
	"github.com/aliskhannn/uniportal/internal/progression"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string      `mapstructure:"env"` // current application environment (local, dev, production etc)
	TelegramAPIToken string      `mapstructure:"-"`   // Telegram API token loaded from environment
	DB               DB          `mapstructure:"database"`
	Quiz             Quiz        `mapstructure:"quiz"`
	Progression      Progression `mapstructure:"progression"`
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Quiz controls how many questions an attempt is seeded with.
type Quiz struct {
	MaxQuestions        int           `mapstructure:"max_questions"`         // chapter quiz length
	MasteryMaxQuestions int           `mapstructure:"mastery_max_questions"` // mastery exam length
	IdleTimeout         time.Duration `mapstructure:"idle_timeout"`          // unfinished attempts are dropped after this
	SweepSchedule       string        `mapstructure:"sweep_schedule"`        // cron schedule of the idle attempt sweep
}

// Progression holds the product-tunable XP and ranking values.
type Progression struct {
	XPPerCorrect      int                 `mapstructure:"xp_per_correct"`
	MasteryMultiplier int                 `mapstructure:"mastery_multiplier"`
	WeakThreshold     float64             `mapstructure:"weak_threshold"` // accuracy percent below which a subject is weak
	WeakTopN          int                 `mapstructure:"weak_top_n"`
	LeaderboardSize   int                 `mapstructure:"leaderboard_size"`
	Ranks             []entities.RankTier `mapstructure:"ranks"` // empty means the built-in ladder
}

// ScoringRules converts the config section into engine scoring rules.
func (p Progression) ScoringRules() progression.ScoringRules {
	return progression.ScoringRules{
		XPPerCorrect:      p.XPPerCorrect,
		MasteryMultiplier: p.MasteryMultiplier,
	}
}

// WeaknessPolicy converts the config section into the heatmap policy.
func (p Progression) WeaknessPolicy() progression.WeaknessPolicy {
	return progression.WeaknessPolicy{
		Threshold: p.WeakThreshold,
		TopN:      p.WeakTopN,
	}
}

// RankTable builds and validates the configured rank ladder.
func (p Progression) RankTable() (*progression.RankTable, error) {
	if len(p.Ranks) == 0 {
		return progression.DefaultRankTable(), nil
	}
	return progression.NewRankTable(p.Ranks)
}

// Load reads configuration from config files and environment variables.
// Secrets are not required here; callers check the ones they need.
func Load(paths ...string) (*Config, error) {
	// A missing .env file is fine, the environment may already be set.
	_ = godotenv.Load()

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"./config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	setDefaults(v)

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	cfg.DB.URL = v.GetString("database_url")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")

	v.SetDefault("quiz.max_questions", 10)
	v.SetDefault("quiz.mastery_max_questions", 20)
	v.SetDefault("quiz.idle_timeout", "2h")
	v.SetDefault("quiz.sweep_schedule", "@every 10m")

	rules := progression.DefaultScoringRules()
	policy := progression.DefaultWeaknessPolicy()
	v.SetDefault("progression.xp_per_correct", rules.XPPerCorrect)
	v.SetDefault("progression.mastery_multiplier", rules.MasteryMultiplier)
	v.SetDefault("progression.weak_threshold", policy.Threshold)
	v.SetDefault("progression.weak_top_n", policy.TopN)
	v.SetDefault("progression.leaderboard_size", 10)
}

func (c *Config) validate() error {
	switch {
	case c.Quiz.MaxQuestions <= 0 || c.Quiz.MasteryMaxQuestions <= 0:
		return fmt.Errorf("quiz lengths must be positive")
	case c.Quiz.IdleTimeout <= 0:
		return fmt.Errorf("quiz idle_timeout must be positive")
	case c.Progression.XPPerCorrect < 0 || c.Progression.MasteryMultiplier < 1:
		return fmt.Errorf("invalid xp settings: xp_per_correct=%d mastery_multiplier=%d",
			c.Progression.XPPerCorrect, c.Progression.MasteryMultiplier)
	case c.Progression.LeaderboardSize <= 0:
		return fmt.Errorf("leaderboard_size must be positive")
	case c.Progression.WeakTopN < 0:
		return fmt.Errorf("weak_top_n must not be negative")
	}

	if _, err := cron.ParseStandard(c.Quiz.SweepSchedule); err != nil {
		return fmt.Errorf("quiz sweep_schedule: %w", err)
	}

	// Fail at load time on a malformed ladder.
	if _, err := c.Progression.RankTable(); err != nil {
		return err
	}

	return nil
}

// RequireTelegram returns an error when the bot token is missing.
func (c *Config) RequireTelegram() error {
	if c.TelegramAPIToken == "" {
		return fmt.Errorf("%w: TELEGRAM_API_TOKEN", ErrMissingEnvironmentVariables)
	}
	return nil
}
