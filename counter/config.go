package counter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/odvcencio/furry-store/runtime"
	"github.com/odvcencio/furry-store/state"
)

const defaultDebounce = 150 * time.Millisecond

// Config holds the counter settings read from a YAML or TOML file.
type Config struct {
	Initial int    `yaml:"initial" toml:"initial"`
	Step    int    `yaml:"step" toml:"step"`
	Theme   string `yaml:"theme" toml:"theme"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Initial: 0,
		Step:    1,
		Theme:   "monokai",
	}
}

// Validate rejects settings the app cannot use.
func (c Config) Validate() error {
	if c.Step <= 0 {
		return fmt.Errorf("step must be positive, got %d", c.Step)
	}
	return nil
}

// State returns the initial application state.
func (c Config) State() State {
	return State{Count: c.Initial, Step: c.Step}
}

// LoadConfig reads path over the defaults. The format follows the file
// extension: .toml for TOML, anything else YAML.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// ConfigWatcher reloads a config file when it changes on disk.
type ConfigWatcher struct {
	path     string
	logger   *slog.Logger
	debounce time.Duration
	onChange func(Config)

	mu    sync.Mutex
	timer *time.Timer
}

// NewConfigWatcher creates a watcher calling onChange with each valid reload.
// onChange runs on a timer goroutine, not the app loop.
func NewConfigWatcher(path string, logger *slog.Logger, onChange func(Config)) *ConfigWatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConfigWatcher{
		path:     path,
		logger:   logger.With("config", path),
		debounce: defaultDebounce,
		onChange: onChange,
	}
}

// SetDebounce changes how long writes settle before a reload.
func (w *ConfigWatcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// ConfigReloadedMsg names the CustomMsg a watcher effect posts with each
// reloaded Config as its payload.
const ConfigReloadedMsg = "counter.config-reloaded"

// Effect runs the watcher on the app task context. Reloads are posted to
// the loop as a ConfigReloadedMsg rather than applied on the watcher's
// goroutine; ApplyReloads turns them into store writes.
func (w *ConfigWatcher) Effect() runtime.Effect {
	return runtime.Effect{Run: func(ctx context.Context, post runtime.PostFunc) {
		err := w.watch(ctx, func(cfg Config) {
			if !post(runtime.CustomMsg{Name: ConfigReloadedMsg, Payload: cfg}) {
				w.logger.Warn("config reload dropped, app inbox full")
			}
			if w.onChange != nil {
				w.onChange(cfg)
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			w.logger.Error("config watcher stopped", "error", err)
		}
	}}
}

// ApplyReloads wraps next so a ConfigReloadedMsg updates the step of store
// on the loop goroutine. If next is nil, runtime.DefaultUpdate is used.
func ApplyReloads(store *state.Store[State], next runtime.UpdateFunc) runtime.UpdateFunc {
	if next == nil {
		next = runtime.DefaultUpdate
	}
	return func(app *runtime.App, msg runtime.Message) bool {
		if m, ok := msg.(runtime.CustomMsg); ok && m.Name == ConfigReloadedMsg {
			if cfg, ok := m.Payload.(Config); ok {
				store.Update(WithStep(cfg.Step))
			}
			return false
		}
		return next(app, msg)
	}
}

// Run watches the file's directory until ctx ends. Editors often replace
// files on save, so the directory is watched rather than the file.
func (w *ConfigWatcher) Run(ctx context.Context) error {
	return w.watch(ctx, w.onChange)
}

func (w *ConfigWatcher) watch(ctx context.Context, onChange func(Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	name := filepath.Base(w.path)
	w.logger.Debug("watching config")

	defer w.stopTimer()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.trigger(onChange)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func (w *ConfigWatcher) trigger(onChange func(Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() { w.reload(onChange) })
}

func (w *ConfigWatcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *ConfigWatcher) reload(onChange func(Config)) {
	cfg, err := LoadConfig(w.path)
	if err != nil {
		w.logger.Warn("config reload failed", "error", err)
		return
	}
	w.logger.Info("config reloaded", "step", cfg.Step)
	if onChange != nil {
		onChange(cfg)
	}
}
