package web

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// TemplateWatcher reloads a Renderer whenever a template file in its directory changes
type TemplateWatcher struct {
	watcher  *fsnotify.Watcher
	renderer *Renderer
	logger   zerolog.Logger
}

// NewTemplateWatcher watches dir for template changes
func NewTemplateWatcher(dir string, renderer *Renderer, logger zerolog.Logger) (*TemplateWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	return &TemplateWatcher{
		watcher:  watcher,
		renderer: renderer,
		logger:   logger.With().Str("component", "template-watcher").Logger(),
	}, nil
}

// Start begins watching for file changes and blocks until ctx is done
func (tw *TemplateWatcher) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-tw.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher channel closed")
			}
			if !tw.shouldReload(event) {
				continue
			}

			if err := tw.renderer.Reload(); err != nil {
				// Keep serving the previous templates
				tw.logger.Error().Err(err).Str("file", event.Name).Msg("template reload failed")
				continue
			}
			tw.logger.Info().Str("file", event.Name).Msg("templates reloaded")

		case err, ok := <-tw.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			if err != nil {
				tw.logger.Warn().Err(err).Msg("watcher error")
			}
		}
	}
}

// shouldReload reports whether event touched a template file
func (tw *TemplateWatcher) shouldReload(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	matched, _ := filepath.Match(templatePattern, filepath.Base(event.Name))
	return matched
}

// Close stops the watcher
func (tw *TemplateWatcher) Close() error {
	return tw.watcher.Close()
}
