// Package config loads the scheduling core's runtime configuration from
// .env/environment/defaults, adapted from the teacher's viper+godotenv
// precedence chain but trimmed to the settings a batch CLI process
// actually needs: the optional Postgres/Redis ledger backends (C15), log
// shape, and the TT_* generation-tuning defaults from spec §6.
package config

import (
	"errors"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the top-level configuration for a `cmd/timetable` invocation.
type Config struct {
	Env string

	Database DatabaseConfig
	Redis    RedisConfig
	Log      LogConfig
	Generate GenerateConfig
	Metrics  MetricsConfig
}

// DatabaseConfig configures the optional Postgres ledger snapshot history
// (internal/ledgerstore.PostgresStore). Unused when no DB_* vars are set —
// the ledger runs purely in memory by default (spec §5).
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig configures the optional Redis ledger snapshot cache
// (internal/ledgerstore.RedisStore).
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// LogConfig controls zap's encoding and verbosity.
type LogConfig struct {
	Level  string
	Format string
}

// GenerateConfig carries the TT_* defaults from spec §6 that seed
// dto.Options when a CLI flag is left unset.
type GenerateConfig struct {
	Seed              uint64
	CSPTimeBudgetS    uint
	GGAMaxGenerations uint
}

// MetricsConfig controls the optional /metrics debug listener (C13)
// exposed during generate-all batch runs.
type MetricsConfig struct {
	Enabled bool
	Addr    string
}

// Load reads .env (if present), then the environment, then defaults, in
// that order of precedence — matching the teacher's pkg/config.Load.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{
		Env: v.GetString("ENV"),
		Database: DatabaseConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetInt("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Name:         v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSL_MODE"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Log: LogConfig{
			Level:  v.GetString("TT_LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Generate: GenerateConfig{
			Seed:              v.GetUint64("TT_SEED"),
			CSPTimeBudgetS:    v.GetUint("TT_CSP_TIMEOUT_S"),
			GGAMaxGenerations: v.GetUint("TT_GGA_GENERATIONS"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("TT_METRICS_ENABLED"),
			Addr:    v.GetString("TT_METRICS_ADDR"),
		},
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "timetable")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("TT_LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("TT_SEED", 1)
	v.SetDefault("TT_CSP_TIMEOUT_S", 300)
	v.SetDefault("TT_GGA_GENERATIONS", 500)

	v.SetDefault("TT_METRICS_ENABLED", false)
	v.SetDefault("TT_METRICS_ADDR", ":9090")
}
