// Package logging bootstraps the process-wide zap logger. Development
// output is enabled with DEBUG=true; production JSON output otherwise.
package logging

import (
	"os"

	"go.uber.org/zap"
)

var logger *zap.Logger

func init() {
	if os.Getenv("DEBUG") == "true" {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
}

// L returns the shared logger.
func L() *zap.Logger {
	return logger
}

// With returns the shared logger with extra fields attached.
func With(fields ...zap.Field) *zap.Logger {
	return logger.With(fields...)
}
