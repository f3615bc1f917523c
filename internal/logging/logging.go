// Package logging builds the CLI's zap logger.
package logging

import (
	"go.uber.org/zap"
)

// New constructs a logger. format is "console" (default for interactive
// use) or "json"; an unknown level falls back to info rather than failing
// the command.
func New(level, format string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
	}

	parsed, err := zap.ParseAtomicLevel(level)
	if err != nil {
		parsed = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.Level = parsed

	return cfg.Build()
}
