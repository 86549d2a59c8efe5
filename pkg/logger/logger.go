// Package logger builds the zap.Logger every CLI subcommand and the
// generator.Service log through, adapted from the teacher's pkg/logger.
// The teacher's GinMiddleware counterpart is dropped: that helper logs
// one line per HTTP request at the gin boundary, and this core has no
// HTTP boundary to hang it on (internal/generator.Service logs its own
// per-run/per-phase lines directly instead).
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/campustt/timetable-core/pkg/config"
)

// New builds a zap.Logger whose shape (JSON vs console encoding,
// production vs development defaults, level) follows cfg.Env/cfg.Log.
func New(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Env == config.EnvProduction {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Log.Format {
	case "console":
		zapCfg.Encoding = "console"
	default:
		zapCfg.Encoding = "json"
	}

	if cfg.Log.Level != "" {
		if err := zapCfg.Level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		}
	}

	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zapCfg.Build()
}
