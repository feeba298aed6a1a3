// Hot reloading of configuration in development.
package config

import (
	"fmt"
	"os"
	"reflect"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher watches the config overlay for changes and hot reloads it. Only
// enabled in development; production config is immutable for the process
// lifetime.
type Watcher struct {
	config    *Config
	callbacks []func(*Config)
	mu        sync.RWMutex
	logger    *zap.Logger
	watcher   *fsnotify.Watcher
	stopCh    chan struct{}
	stopOnce  sync.Once
}

// NewWatcher creates a configuration watcher around the initial config
func NewWatcher(initial *Config, logger *zap.Logger) (*Watcher, error) {
	w := &Watcher{
		config: initial,
		logger: logger,
		stopCh: make(chan struct{}),
	}

	overlay := os.Getenv("CONFIG_FILE")
	if !initial.IsDevelopment() || overlay == "" {
		logger.Info("configuration hot reloading disabled",
			zap.String("environment", initial.Environment),
		)
		return w, nil
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err := fsWatcher.Add(overlay); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("watching %s: %w", overlay, err)
	}
	w.watcher = fsWatcher

	go w.watchLoop()
	logger.Info("configuration hot reloading enabled", zap.String("file", overlay))
	return w, nil
}

func (w *Watcher) watchLoop() {
	defer w.watcher.Close()

	// Debounce, editors often fire several events per save
	var debounce *time.Timer
	const debounceDelay = 500 * time.Millisecond

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.logger.Info("configuration file changed",
					zap.String("file", event.Name),
					zap.String("operation", event.Op.String()),
				)
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(debounceDelay, w.reload)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", zap.Error(err))

		case <-w.stopCh:
			return
		}
	}
}

func (w *Watcher) reload() {
	newConfig, err := LoadConfig()
	if err != nil {
		w.logger.Error("invalid configuration after reload", zap.Error(err))
		return
	}

	w.mu.Lock()
	if reflect.DeepEqual(w.config, newConfig) {
		w.mu.Unlock()
		w.logger.Debug("configuration unchanged after reload")
		return
	}
	w.config = newConfig
	callbacks := make([]func(*Config), len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	for _, cb := range callbacks {
		cb(newConfig)
	}
	w.logger.Info("configuration reloaded",
		zap.Int("callbacks_notified", len(callbacks)),
	)
}

// OnChange registers a callback invoked after every successful reload
func (w *Watcher) OnChange(callback func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Current returns the latest configuration
func (w *Watcher) Current() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config
}

// Stop stops the watcher
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}
