package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/diogo/geminichat/internal/api"
	"github.com/diogo/geminichat/internal/chat"
	"github.com/diogo/geminichat/internal/config"
)

// session bundles what every command needs to talk to the model
type session struct {
	cfg      config.Config
	settings config.Settings
	gen      api.Generator
	ctrl     *chat.Controller
	logger   *zap.Logger
}

// newSession loads configuration, applies flag overrides and builds the
// generator and controller. A broken config file is reported on stderr
// and the defaults are used.
func newSession(ctx context.Context, deps *Dependencies, flags *globalFlags) (*session, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "Warning: %v (using defaults)\n", err)
	}
	if flags.verbose {
		cfg.Verbose = true
	}

	settings := flags.apply(config.LoadSettings(cfg))

	logger := deps.NewLogger(loggingOptions(cfg))
	logger.Debug("session starting",
		zap.String("model", settings.Model),
		zap.String("backend", settings.Backend),
	)

	gen, err := deps.NewGenerator(ctx, settings)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	return &session{
		cfg:      cfg,
		settings: settings,
		gen:      gen,
		ctrl:     chat.NewController(gen, chat.WithLogger(logger)),
		logger:   logger,
	}, nil
}

// close releases the generator and flushes the log
func (s *session) close() {
	if err := s.gen.Close(); err != nil {
		s.logger.Warn("closing generator", zap.Error(err))
	}
	_ = s.logger.Sync()
}
