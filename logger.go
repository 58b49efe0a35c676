package main

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger builds the structured logger. Debug mode gets the human
// readable development encoder, everything else logs JSON.
func NewLogger(level, ginMode string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	if ginMode == "debug" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = lvl

	return cfg.Build()
}
