// internal/logger/logger.go
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/unclebandit/storefront-backend/internal/config"
)

// New builds the process logger. Development environments get a console
// encoder; everything else logs JSON.
func New(cfg config.LoggerConfig, appEnv string) (*zap.Logger, error) {
	return buildConfig(cfg, appEnv).Build()
}

func buildConfig(cfg config.LoggerConfig, appEnv string) zap.Config {
	var zcfg zap.Config
	if appEnv == "dev" || appEnv == "development" {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	if cfg.Encoding != "" {
		zcfg.Encoding = cfg.Encoding
	}

	return zcfg
}
