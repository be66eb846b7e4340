// Package logging builds the diagnostic logger.
//
// The terminal belongs to the chat UI, so log entries go to a JSON file under
// the config directory instead of stderr.
package logging

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/diogo/geminichat/internal/config"
)

// Options configures the diagnostic logger
type Options struct {
	// Path is the log file. Empty means ~/.geminichat/geminichat.log.
	Path    string
	Verbose bool
}

// New builds a production zap logger writing to the log file.
// Every logger gets a session_id field so entries of one run can be grouped.
func New(opts Options) (*zap.Logger, error) {
	path := opts.Path
	if path == "" {
		if _, err := config.EnsureConfigDir(); err != nil {
			return nil, err
		}
		p, err := config.GetLogPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if opts.Verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return logger.With(zap.String("session_id", uuid.NewString())), nil
}

// NewOrNop returns New's logger, or a no-op logger when the file can't be opened.
// Losing diagnostics must never stop a chat session.
func NewOrNop(opts Options) *zap.Logger {
	logger, err := New(opts)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
