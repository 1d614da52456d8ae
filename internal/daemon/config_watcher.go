package daemon

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docpress/internal/foundation/errors"
	"git.home.luguber.info/inful/docpress/internal/logfields"
)

// DefaultDebounce coalesces bursts of editor writes into one change.
const DefaultDebounce = 2 * time.Second

// ConfigWatcher calls onChange after the configuration file was written,
// created or renamed into place.
type ConfigWatcher struct {
	configPath string
	debounce   time.Duration
	onChange   func()
	watcher    *fsnotify.Watcher
	done       chan struct{}
}

// NewConfigWatcher creates a watcher for configPath.
func NewConfigWatcher(configPath string, debounce time.Duration, onChange func()) (*ConfigWatcher, error) {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, errors.ConfigError("failed to resolve config path").
			WithCause(err).
			WithContext("path", configPath).
			Build()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.InternalError("failed to create file watcher").WithCause(err).Build()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &ConfigWatcher{
		configPath: absPath,
		debounce:   debounce,
		onChange:   onChange,
		watcher:    watcher,
		done:       make(chan struct{}),
	}, nil
}

// Start watches the directory holding the config file, which survives
// editors replacing the file.
func (cw *ConfigWatcher) Start(ctx context.Context) error {
	dir := filepath.Dir(cw.configPath)
	if err := cw.watcher.Add(dir); err != nil {
		_ = cw.watcher.Close()
		return errors.FileSystemError("failed to watch config directory").
			WithCause(err).
			WithContext("path", dir).
			Build()
	}
	slog.Info("Watching configuration", logfields.Path(cw.configPath))
	go cw.loop(ctx)
	return nil
}

// Stop closes the watcher and waits for the loop to exit.
func (cw *ConfigWatcher) Stop() {
	_ = cw.watcher.Close()
	<-cw.done
}

func (cw *ConfigWatcher) loop(ctx context.Context) {
	defer close(cw.done)
	name := filepath.Base(cw.configPath)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				if event.Has(fsnotify.Remove) {
					slog.Warn("Config file removed", logfields.Path(event.Name))
				}
				continue
			}
			slog.Debug("Config file change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(cw.debounce)
			} else {
				timer.Reset(cw.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			cw.onChange()
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Config watcher error", logfields.Error(err))
		}
	}
}
