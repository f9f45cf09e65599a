package config

import (
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/zeebo/errs"
	"gopkg.in/yaml.v3"
)

// Error is the error class for configuration failures. These are fatal at
// startup; nothing in the per-request path raises them.
var Error = errs.Class("config")

// APIKeyEnv overrides the api_key file value when set, keeping the secret
// out of the config file.
const APIKeyEnv = "AMPTRACK_API_KEY"

// Loader reads a YAML config file and watches it for changes. Reloads only
// ever affect the ignore list; all other fields stay as loaded at startup.
type Loader struct {
	path     string
	mu       sync.RWMutex
	current  *Config
	onChange []func(*Config)
	watcher  *fsnotify.Watcher
}

// NewLoader creates a Loader and performs the initial load.
func NewLoader(path string) (*Loader, error) {
	l := &Loader{path: path}
	cfg, err := l.load()
	if err != nil {
		return nil, err
	}
	l.current = cfg
	return l, nil
}

// Config returns the current (latest) configuration.
func (l *Loader) Config() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// OnChange registers a callback invoked whenever the config reloads.
func (l *Loader) OnChange(fn func(*Config)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = append(l.onChange, fn)
}

// Watch starts a background goroutine that reloads the config on file
// changes. Call the returned stop function to clean up.
func (l *Loader) Watch() (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, Error.Wrap(err)
	}
	if err := w.Add(l.path); err != nil {
		_ = w.Close()
		return nil, Error.Wrap(err)
	}
	l.watcher = w

	done := make(chan struct{})
	go func() {
		defer func() { _ = w.Close() }()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					cfg, err := l.load()
					if err != nil {
						// Keep the old config.
						continue
					}
					l.swap(cfg)
				}
			case <-w.Errors:
				// Ignore watcher errors.
			case <-done:
				return
			}
		}
	}()

	return func() { close(done) }, nil
}

// Reload forces an immediate re-read of the config file.
func (l *Loader) Reload() (*Config, error) {
	cfg, err := l.load()
	if err != nil {
		return nil, err
	}
	l.swap(cfg)
	return cfg, nil
}

func (l *Loader) swap(cfg *Config) {
	l.mu.Lock()
	l.current = cfg
	callbacks := make([]func(*Config), len(l.onChange))
	copy(callbacks, l.onChange)
	l.mu.Unlock()
	for _, fn := range callbacks {
		fn(cfg)
	}
}

func (l *Loader) load() (*Config, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, Error.New("read %s: %w", l.path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, Error.New("parse %s: %w", l.path, err)
	}
	if v := os.Getenv(APIKeyEnv); v != "" {
		cfg.APIKey = v
	}
	// Apply defaults.
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Session.Cookie == "" {
		cfg.Session.Cookie = "amptrack_session"
	}
	if cfg.Session.MaxAge == 0 {
		cfg.Session.MaxAge = 1209600 // two weeks
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	return &cfg, nil
}
