// Package logger configures the process-wide zap logger.
package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
)

var (
	mu     sync.RWMutex
	global *zap.Logger
)

// Init builds the global logger. level overrides LOG_LEVEL when non-nil.
func Init(level *string) error {
	env := os.Getenv("GO_ENV")

	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	resolved := os.Getenv("LOG_LEVEL")
	if level != nil {
		resolved = *level
	}
	if resolved == "" {
		resolved = "info"
	}

	switch resolved {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	built, err := cfg.Build()
	if err != nil {
		return err
	}

	mu.Lock()
	global = built
	mu.Unlock()
	return nil
}

// Get returns the global logger, falling back to a development logger
// if Init was never called (keeps tests from panicking on a nil logger).
func Get() *zap.Logger {
	mu.RLock()
	l := global
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if global == nil {
		global, _ = zap.NewDevelopment()
	}
	return global
}

// Sync flushes any buffered log entries.
func Sync() error {
	mu.RLock()
	l := global
	mu.RUnlock()
	if l == nil {
		return nil
	}
	return l.Sync()
}

// WithSession returns a logger annotated with session identity.
func WithSession(playerID uint64, token string) *zap.Logger {
	fields := make([]zap.Field, 0, 2)
	fields = append(fields, zap.Uint64("player_id", playerID))
	if token != "" {
		fields = append(fields, zap.String("token", token))
	}
	return Get().With(fields...)
}
