package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	nlgeval "github.com/baditaflorin/go_nlg_eval"
	"github.com/baditaflorin/go_nlg_eval/internal/adapters/logger"
	"github.com/baditaflorin/go_nlg_eval/internal/ports"
	"github.com/baditaflorin/l"
	"github.com/spf13/pflag"
	"github.com/valyala/fasthttp"
)

// Default configuration
const (
	DefaultPort           = 8080
	DefaultReadTimeout    = 30 * time.Second
	DefaultWriteTimeout   = 5 * time.Minute
	DefaultRequestTimeout = 5 * time.Minute
	DefaultMaxRequestSize = 64 * 1024 * 1024 // 64MB
	DefaultConcurrency    = 0                // 0 means fasthttp's default
)

func main() {
	// Parse command-line flags
	port := pflag.Int("port", DefaultPort, "HTTP server port")
	readTimeout := pflag.Duration("read-timeout", DefaultReadTimeout, "HTTP read timeout")
	writeTimeout := pflag.Duration("write-timeout", DefaultWriteTimeout, "HTTP write timeout")
	requestTimeout := pflag.Duration("request-timeout", DefaultRequestTimeout, "Scoring timeout per request")
	maxRequestSize := pflag.Int("max-request-size", DefaultMaxRequestSize, "Maximum request size in bytes")
	concurrency := pflag.Int("concurrency", DefaultConcurrency, "Maximum number of concurrent connections (0 = default)")
	warmUp := pflag.Bool("warm-up", false, "Warm up the scorers on startup")
	synonyms := pflag.String("synonyms", "", "YAML synonym table for METEOR")
	logFile := pflag.String("log-file", "", "Log file path (empty = stdout)")
	pflag.Parse()

	// Set up logger
	logger, err := createLogger(*logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	logger.Info("Starting scoring HTTP server",
		"port", *port,
		"read_timeout", *readTimeout,
		"write_timeout", *writeTimeout,
		"request_timeout", *requestTimeout,
		"max_request_size", *maxRequestSize,
		"concurrency", *concurrency,
	)

	// Initialize scorers
	opts := []nlgeval.Option{
		nlgeval.WithPortsLogger(logger),
		nlgeval.WithWarmUp(*warmUp),
	}
	if *synonyms != "" {
		opts = append(opts, nlgeval.WithSynonymsFile(*synonyms))
	}
	evaluator, err := nlgeval.New(opts...)
	if err != nil {
		logger.Error("Failed to initialize scorers", "error", err)
		os.Exit(1)
	}
	logger.Info("Scorers initialized successfully",
		"metrics", evaluator.Names(),
		"warm_up", *warmUp,
		"cpus", runtime.NumCPU(),
	)

	h := newHandler(evaluator, logger, *requestTimeout)

	// Create HTTP server with fasthttp
	server := &fasthttp.Server{
		Handler:               h.ServeHTTP,
		Name:                  "NLGEvalServer",
		ReadTimeout:           *readTimeout,
		WriteTimeout:          *writeTimeout,
		MaxRequestBodySize:    *maxRequestSize,
		Concurrency:           *concurrency,
		DisableKeepalive:      false,
		TCPKeepalive:          true,
		TCPKeepalivePeriod:    3 * time.Minute,
		MaxIdleWorkerDuration: 10 * time.Second,
		Logger:                fasthttpLogger{logger},
	}

	// Set up graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		logger.Info("Shutting down server...")
		if err := server.Shutdown(); err != nil {
			logger.Error("Error during server shutdown", "error", err)
		}
		close(idleConnsClosed)
	}()

	// Start server
	addr := fmt.Sprintf(":%d", *port)
	logger.Info("Server listening", "address", addr)
	if err := server.ListenAndServe(addr); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-idleConnsClosed
	logger.Info("Server stopped")
}

// fasthttpLogger routes fasthttp's internal messages to the service logger.
type fasthttpLogger struct {
	logger ports.Logger
}

func (f fasthttpLogger) Printf(format string, args ...interface{}) {
	f.logger.Warn(fmt.Sprintf(format, args...))
}

// createLogger creates and configures a logger
func createLogger(logFile string) (ports.Logger, error) {
	var output io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = file
	}

	lg, err := logger.NewCustomStdLogger(l.Config{
		Output:      output,
		JsonFormat:  true,
		AsyncWrite:  true,
		BufferSize:  1024 * 1024,       // 1MB
		MaxFileSize: 100 * 1024 * 1024, // 100MB
		MaxBackups:  5,
		AddSource:   true,
		Metrics:     true,
	}, logger.LevelInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return lg, nil
}
