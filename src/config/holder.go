package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/sofmeright/lintscope/src/logging"
	"github.com/sofmeright/lintscope/src/resolver"
)

const reloadDebounce = 500 * time.Millisecond

// Open loads, validates and builds the configuration at path in one step.
// An empty path searches the DefaultFiles.
func Open(path string) (*File, *resolver.Resolver, []string, error) {
	f, err := Load(path)
	if err != nil {
		return nil, nil, nil, err
	}
	warnings, err := Validate(f)
	if err != nil {
		return f, nil, warnings, fmt.Errorf("%s: %w", f.Path, err)
	}
	r, err := f.Build()
	if err != nil {
		return f, nil, warnings, fmt.Errorf("%s: %w", f.Path, err)
	}
	return f, r, warnings, nil
}

// Holder keeps the current Resolver for a config file and swaps it
// atomically on reload. A failed reload keeps the previous Resolver.
type Holder struct {
	mu      sync.RWMutex
	current *resolver.Resolver
	path    string
	watcher *fsnotify.Watcher
	logger  zerolog.Logger

	subMu       sync.Mutex
	subscribers []chan<- *resolver.Resolver

	timerMu  sync.Mutex
	debounce *time.Timer
	stopped  bool
}

// NewHolder creates a holder serving initial until the first reload.
func NewHolder(path string, initial *resolver.Resolver) *Holder {
	return &Holder{
		current: initial,
		path:    path,
		logger:  logging.WithComponent("config"),
	}
}

// Get returns the current resolver.
func (h *Holder) Get() *resolver.Resolver {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Reload re-reads the config file. Either the whole file is valid and
// applied, or the current resolver stays in place and an error is returned.
func (h *Holder) Reload(_ context.Context) error {
	h.logger.Debug().Str("event", "config.reload_start").Str("path", h.path).Msg("reloading configuration")

	_, r, warnings, err := Open(h.path)
	if err != nil {
		h.logger.Error().Err(err).Str("event", "config.reload_failed").Msg("keeping previous configuration")
		return fmt.Errorf("reload config: %w", err)
	}
	for _, w := range warnings {
		h.logger.Warn().Str("event", "config.warning").Msg(w)
	}

	h.mu.Lock()
	h.current = r
	h.mu.Unlock()

	h.notify(r)

	h.logger.Info().
		Str("event", "config.reload_success").
		Int("blocks", len(r.Blocks())).
		Msg("configuration reloaded")
	return nil
}

// StartWatcher reloads the configuration whenever the file changes, until
// ctx is cancelled or Stop is called. The file's directory is watched so
// editors that replace the file on save are handled.
func (h *Holder) StartWatcher(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(h.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch config dir: %w", err)
	}
	h.watcher = watcher

	h.logger.Info().Str("event", "config.watcher_started").Str("path", h.path).Msg("watching config file")
	go h.watchLoop(ctx, watcher)
	return nil
}

func (h *Holder) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	target := filepath.Clean(h.path)

	for {
		select {
		case <-ctx.Done():
			h.cancelReload()
			_ = watcher.Close()
			h.logger.Debug().Str("event", "config.watcher_stopped").Msg("config watcher stopped")
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			h.logger.Debug().Str("event", "config.file_changed").Str("op", event.Op.String()).Msg("config file changed")
			h.scheduleReload(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error().Err(err).Str("event", "config.watcher_error").Msg("config watcher error")
		}
	}
}

// scheduleReload (re)arms the debounce timer. Nothing is armed once the
// holder has been stopped.
func (h *Holder) scheduleReload(ctx context.Context) {
	h.timerMu.Lock()
	defer h.timerMu.Unlock()
	if h.stopped {
		return
	}
	if h.debounce != nil {
		h.debounce.Stop()
	}
	h.debounce = time.AfterFunc(reloadDebounce, func() {
		h.timerMu.Lock()
		stopped := h.stopped
		h.timerMu.Unlock()
		if !stopped {
			_ = h.Reload(ctx)
		}
	})
}

func (h *Holder) cancelReload() {
	h.timerMu.Lock()
	defer h.timerMu.Unlock()
	h.stopped = true
	if h.debounce != nil {
		h.debounce.Stop()
		h.debounce = nil
	}
}

// Stop stops the watcher, if running, and drops any pending reload.
func (h *Holder) Stop() {
	h.cancelReload()
	if h.watcher != nil {
		_ = h.watcher.Close()
	}
}

// Subscribe registers ch to receive every successfully reloaded resolver.
// Sends never block; a subscriber that is not ready misses that reload.
func (h *Holder) Subscribe(ch chan<- *resolver.Resolver) {
	h.subMu.Lock()
	defer h.subMu.Unlock()
	h.subscribers = append(h.subscribers, ch)
}

func (h *Holder) notify(r *resolver.Resolver) {
	h.subMu.Lock()
	defer h.subMu.Unlock()
	for _, ch := range h.subscribers {
		select {
		case ch <- r:
		default:
			h.logger.Warn().Str("event", "config.subscriber_slow").Msg("subscriber not ready, dropping reload notification")
		}
	}
}
