// Package logger holds the shared zap sugared logger. Level comes from
// LOG_LEVEL; ENVIRONMENT=production switches to the JSON production config.
package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.SugaredLogger
	once   sync.Once
)

func initLogger() {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(os.Getenv("LOG_LEVEL"))); err != nil {
		level = zapcore.InfoLevel
	}

	cfg := zap.NewDevelopmentConfig()
	if os.Getenv("ENVIRONMENT") == "production" {
		cfg = zap.NewProductionConfig()
		cfg.OutputPaths = []string{"stdout"}
		cfg.ErrorOutputPaths = []string{"stderr"}
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	zl, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	logger = zl.Sugar()
}

// GetLogger returns the process-wide logger, building it on first use.
func GetLogger() *zap.SugaredLogger {
	once.Do(initLogger)
	return logger
}

// Close flushes buffered entries. Call it before exit.
func Close() error {
	if logger == nil {
		return nil
	}
	if err := logger.Sync(); err != nil {
		fmt.Fprintf(os.Stderr, "error syncing logger: %v\n", err)
		return err
	}
	return nil
}

// MaskSecret keeps the first and last two characters of s. Short values
// are fully masked so their length is not revealed either.
func MaskSecret(s string) string {
	const keep = 2
	if s == "" {
		return ""
	}
	if len(s) < 2*keep+3 {
		return strings.Repeat("*", len(s))
	}
	return s[:keep] + "..." + s[len(s)-keep:]
}
