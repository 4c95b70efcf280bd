package logger

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "fishmart-be"

var (
	mu  sync.RWMutex
	log *zap.Logger
)

func configFor(env string) zap.Config {
	switch env {
	case "production":
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.MessageKey = "message"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.OutputPaths = []string{"stdout"}
		return cfg
	case "test":
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		return cfg
	default:
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return cfg
	}
}

// Init builds the process logger for env. A non-empty level such as
// "debug" or "warn" overrides the environment's default level.
func Init(env, level string) error {
	cfg := configFor(env)
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("log level: %w", err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	l, err := cfg.Build(zap.AddCaller(), zap.Fields(zap.String("service", serviceName)))
	if err != nil {
		return err
	}

	mu.Lock()
	log = l
	mu.Unlock()
	return nil
}

// L returns the process logger, building one from APP_ENV and LOG_LEVEL on
// first use.
func L() *zap.Logger {
	mu.RLock()
	l := log
	mu.RUnlock()
	if l != nil {
		return l
	}

	env := os.Getenv("APP_ENV")
	if err := Init(env, os.Getenv("LOG_LEVEL")); err != nil {
		_ = Init(env, "")
	}

	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Replace swaps the process logger and returns a func restoring the
// previous one.
func Replace(l *zap.Logger) func() {
	mu.Lock()
	prev := log
	log = l
	mu.Unlock()

	return func() {
		mu.Lock()
		log = prev
		mu.Unlock()
	}
}

func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	if log != nil {
		_ = log.Sync()
	}
}
