package logger

import (
	"io"
	"os"

	"github.com/baditaflorin/go_nlg_eval/internal/ports"
	"github.com/baditaflorin/l"
)

// Level is the minimum severity a StdLogger forwards.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// StdLogger adapts the l.Logger to the ports.Logger interface.
type StdLogger struct {
	logger l.Logger
	level  Level
}

type stdLoggerConfig struct {
	output io.Writer
	json   bool
	async  bool
	level  Level
}

// Option configures NewStdLogger.
type Option func(*stdLoggerConfig)

// WithOutput sets the log destination. Defaults to os.Stderr.
func WithOutput(w io.Writer) Option {
	return func(cfg *stdLoggerConfig) {
		cfg.output = w
	}
}

// WithJSON switches to JSON formatted records.
func WithJSON(enable bool) Option {
	return func(cfg *stdLoggerConfig) {
		cfg.json = enable
	}
}

// WithAsyncWrite buffers records and writes them from a background goroutine.
// Close must be called to flush.
func WithAsyncWrite(enable bool) Option {
	return func(cfg *stdLoggerConfig) {
		cfg.async = enable
	}
}

// WithLevel drops records below level.
func WithLevel(level Level) Option {
	return func(cfg *stdLoggerConfig) {
		cfg.level = level
	}
}

// NewStdLogger creates a new standard logger adapter.
func NewStdLogger(opts ...Option) (ports.Logger, error) {
	cfg := stdLoggerConfig{
		output: os.Stderr,
		level:  LevelInfo,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	logger, err := l.NewStandardFactory().CreateLogger(l.Config{
		Output:      cfg.output,
		JsonFormat:  cfg.json,
		AsyncWrite:  cfg.async,
		BufferSize:  1024 * 1024,      // 1MB buffer
		MaxFileSize: 10 * 1024 * 1024, // 10MB max file size
		MaxBackups:  5,
		AddSource:   false,
		Metrics:     false,
	})
	if err != nil {
		return nil, err
	}

	return &StdLogger{logger: logger, level: cfg.level}, nil
}

// NewCustomStdLogger creates a new standard logger with custom configuration.
func NewCustomStdLogger(config l.Config, level Level) (ports.Logger, error) {
	logger, err := l.NewStandardFactory().CreateLogger(config)
	if err != nil {
		return nil, err
	}

	return &StdLogger{logger: logger, level: level}, nil
}

// FromExisting wraps an existing l.Logger. Every record is forwarded.
func FromExisting(logger l.Logger) ports.Logger {
	return &StdLogger{logger: logger, level: LevelDebug}
}

// Debug logs a debug message.
func (s *StdLogger) Debug(msg string, keysAndValues ...interface{}) {
	if s.level <= LevelDebug {
		s.logger.Debug(msg, keysAndValues...)
	}
}

// Info logs an info message.
func (s *StdLogger) Info(msg string, keysAndValues ...interface{}) {
	if s.level <= LevelInfo {
		s.logger.Info(msg, keysAndValues...)
	}
}

// Warn logs a warning message.
func (s *StdLogger) Warn(msg string, keysAndValues ...interface{}) {
	if s.level <= LevelWarn {
		s.logger.Warn(msg, keysAndValues...)
	}
}

// Error logs an error message.
func (s *StdLogger) Error(msg string, keysAndValues ...interface{}) {
	s.logger.Error(msg, keysAndValues...)
}

// Close flushes and closes the logger.
func (s *StdLogger) Close() error {
	return s.logger.Close()
}
