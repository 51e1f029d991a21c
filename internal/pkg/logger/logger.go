package logger

import (
	"go.uber.org/zap"
)

// New builds the process-wide zap logger. Production config, console-friendly
// when DEBUG is requested by the caller.
func New(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// NewNop is for tests and optional dependencies.
func NewNop() *zap.Logger {
	return zap.NewNop()
}
