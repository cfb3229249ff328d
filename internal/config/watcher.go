package config

import (
	"fmt"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"llmpanel/pkg/logger"
)

// ModelSetter is implemented by any provider that supports runtime model name
// updates. Manager uses this interface to push per-provider model overrides
// after each successful reload, keeping provider packages decoupled from this
// package. Credentials are never pushed: keys are injected once at startup.
type ModelSetter interface {
	SetDefaultModel(model string)
}

// Manager watches the config file and provides thread-safe access to the most
// recently loaded snapshot. Only the per-provider default model names are
// propagated on reload.
type Manager struct {
	path      string
	current   atomic.Value // underlying type is *Config
	providers map[string]ModelSetter
	watcher   *fsnotify.Watcher
	done      chan struct{}
}

// NewManager initialises a Manager for the given config path.
// providers is an optional map of ModelSetter implementations; pass nil if not needed.
func NewManager(path string, initial *Config, providers map[string]ModelSetter) *Manager {
	m := &Manager{
		path:      path,
		providers: providers,
		done:      make(chan struct{}),
	}
	if initial == nil {
		initial = &Config{}
	}
	m.current.Store(initial)
	return m
}

// Start begins watching the config file for writes. Reload failures are
// logged and the previous snapshot stays active.
func (m *Manager) Start() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	if err := w.Add(m.path); err != nil {
		w.Close()
		return fmt.Errorf("failed to watch config file: %w", err)
	}
	m.watcher = w

	go func() {
		for {
			select {
			case <-m.done:
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := m.Reload(); err != nil {
					logger.Error("Config reload failed", "error", err, "path", m.path)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Error("Config watcher error", "error", err)
			}
		}
	}()
	return nil
}

// Stop terminates the watch goroutine and releases the watcher.
func (m *Manager) Stop() {
	close(m.done)
	if m.watcher != nil {
		m.watcher.Close()
	}
}

// Reload re-reads the config file and pushes per-provider model overrides.
// It is exported so tests and SIGHUP-style triggers can invoke it directly.
func (m *Manager) Reload() error {
	conf, err := Read(m.path)
	if err != nil {
		return err
	}
	conf.applyDefaults()
	m.current.Store(conf)
	logger.Info("Config reloaded", "path", m.path, "providers", len(conf.Providers))

	m.applyProviderModels(conf.Providers)
	return nil
}

// applyProviderModels propagates non-empty model names to the registered
// ModelSetter implementations. Empty values are intentionally skipped so that
// providers retain their current (or compile-time default) model names.
func (m *Manager) applyProviderModels(providers map[string]ProviderConfig) {
	if len(providers) == 0 || len(m.providers) == 0 {
		return
	}
	for name, pc := range providers {
		if pc.Model == "" {
			continue // empty is a no-op; do not clear an existing override
		}
		if setter, ok := m.providers[name]; ok {
			setter.SetDefaultModel(pc.Model)
			logger.Info("Updated provider default model", "provider", name, "model", pc.Model)
		}
	}
}

// Current returns the latest config snapshot atomically.
func (m *Manager) Current() *Config {
	val := m.current.Load()
	if val == nil {
		return &Config{}
	}
	return val.(*Config)
}
