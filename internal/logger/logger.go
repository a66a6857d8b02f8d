package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var global *zap.Logger

// Init builds the process-wide logger. Production emits JSON to stdout;
// anything else gets the colored console encoder for local work.
func Init(env string) {
	cfg := configFor(env)

	l, err := cfg.Build(zap.AddCaller(), zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}
	global = l
}

func configFor(env string) zap.Config {
	if env == "production" {
		cfg := zap.NewProductionConfig()
		cfg.Encoding = "json"
		cfg.OutputPaths = []string{"stdout"}
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.MessageKey = "message"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
		return cfg
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg
}

// L returns the global logger, initializing it on first use so tests and
// tools that never call Init still get output.
func L() *zap.Logger {
	if global == nil {
		Init(os.Getenv("APP_ENV"))
	}
	return global
}

// Sync flushes buffered entries. Safe to call before Init.
func Sync() {
	if global != nil {
		_ = global.Sync()
	}
}
