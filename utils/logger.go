package utils

import (
	"log"
	"sync"

	"instaquote/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Global logger instance
var (
	Logger     *zap.Logger
	loggerOnce sync.Once
)

// NewLogger builds a zap logger for env. Production logs JSON at info;
// anything else logs colored console output at debug. A parseable level
// overrides either default.
func NewLogger(env, level string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if level != "" {
		if lvl, err := zapcore.ParseLevel(level); err == nil {
			cfg.Level = zap.NewAtomicLevelAt(lvl)
		}
	}

	return cfg.Build(zap.Fields(zap.String("service", "instaquote")))
}

// InitializeLogger builds the global logger from AppConfig and installs it
// as zap's global.
func InitializeLogger() {
	loggerOnce.Do(func() {
		l, err := NewLogger(config.AppConfig.Env, config.AppConfig.LogLevel)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		Logger = l
		zap.ReplaceGlobals(Logger)
	})
}

// GetLogger retrieves the global logger
func GetLogger() *zap.Logger {
	InitializeLogger()
	return Logger
}
