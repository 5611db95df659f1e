// Package logging builds the zap logger shared by the frontends.
package logging

import (
	"go.uber.org/zap"
)

// New builds a logger for level ("debug", "info", "warn" or "error";
// anything else is treated as "info"). Logs go to stdout unless paths name
// other sinks; internal zap errors always go to stderr.
func New(level string, paths ...string) (*zap.Logger, error) {
	var config zap.Config

	switch level {
	case "debug":
		config = zap.NewDevelopmentConfig()
	case "info":
		config = zap.NewProductionConfig()
	case "warn":
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		config = zap.NewProductionConfig()
	}

	config.OutputPaths = []string{"stdout"}
	if len(paths) > 0 {
		config.OutputPaths = paths
	}
	config.ErrorOutputPaths = []string{"stderr"}

	return config.Build()
}
