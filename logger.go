// logger.go
// Package nlgeval provides shared utilities for the go_nlg_eval package.
package nlgeval

import (
	"os"

	"github.com/baditaflorin/go_nlg_eval/internal/adapters/logger"
	"github.com/baditaflorin/go_nlg_eval/internal/ports"
	"github.com/baditaflorin/l"
)

// createDefaultLogger creates the logger used when no logger option is given.
// Diagnostics go to stderr so they never mix with the report on stdout.
func createDefaultLogger() (ports.Logger, error) {
	return logger.NewCustomStdLogger(l.Config{
		Output:      os.Stderr,
		JsonFormat:  false,
		AsyncWrite:  false,
		BufferSize:  1024 * 1024,      // 1MB buffer
		MaxFileSize: 10 * 1024 * 1024, // 10MB max file size
		MaxBackups:  5,
		AddSource:   false,
		Metrics:     false,
	}, logger.LevelWarn)
}
