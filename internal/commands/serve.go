package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/okra-platform/rowview/internal/config"
	"github.com/okra-platform/rowview/internal/dataset"
	"github.com/okra-platform/rowview/internal/session"
	"github.com/okra-platform/rowview/internal/web"
)

// ServeOptions contains command-line overrides for the serve command
type ServeOptions struct {
	ConfigPath   string
	Addr         string
	UploadDir    string
	TemplatesDir string
}

// resolveConfig loads the config file and applies command-line overrides
func resolveConfig(opts ServeOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.ConfigPath != "" {
		cfg, err = config.LoadConfigFromPath(opts.ConfigPath)
	} else {
		cfg, _, err = config.LoadConfig()
	}
	if err != nil {
		return nil, err
	}

	if opts.Addr != "" {
		cfg.Addr = opts.Addr
	}
	if opts.UploadDir != "" {
		cfg.UploadDir = opts.UploadDir
	}
	if opts.TemplatesDir != "" {
		cfg.TemplatesDir = opts.TemplatesDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newServer wires the viewer components described by cfg
func newServer(cfg *config.Config, logger zerolog.Logger) (*web.Server, *web.Renderer, error) {
	store, err := dataset.NewStore(cfg.UploadDir, cfg.Extension, logger)
	if err != nil {
		return nil, nil, err
	}

	renderer, err := web.NewRenderer(cfg.TemplatesDir, cfg.Extension)
	if err != nil {
		return nil, nil, err
	}

	sessions := session.NewStore(session.Options{
		Secure: cfg.Cookie.Secure,
		MaxAge: cfg.Cookie.MaxAge,
	}, logger)

	server := web.NewServer(store, sessions, renderer, web.Options{
		Extension:      cfg.Extension,
		MaxUploadBytes: cfg.MaxUploadBytes(),
	}, logger)

	return server, renderer, nil
}

// Serve runs the viewer until interrupted
func (c *Controller) Serve(ctx context.Context, opts ServeOptions) error {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return err
	}

	logger := c.Logger
	server, renderer, err := newServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to set up viewer: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.TemplatesDir != "" {
		watcher, err := web.NewTemplateWatcher(cfg.TemplatesDir, renderer, logger)
		if err != nil {
			return err
		}
		defer watcher.Close()

		go func() {
			if err := watcher.Start(ctx); err != nil && ctx.Err() == nil {
				logger.Error().Err(err).Msg("template watcher stopped")
			}
		}()
	}

	logger.Info().
		Str("addr", cfg.Addr).
		Str("upload_dir", cfg.UploadDir).
		Str("templates_dir", cfg.TemplatesDir).
		Msg("starting viewer")

	if err := server.Start(ctx, cfg.Addr); err != nil {
		return fmt.Errorf("viewer server error: %w", err)
	}

	logger.Info().Msg("viewer shutdown complete")
	return nil
}
