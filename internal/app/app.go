package app

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/dshills/keycalc/internal/calc"
	"github.com/dshills/keycalc/internal/config"
	"github.com/dshills/keycalc/internal/config/watcher"
	"github.com/dshills/keycalc/internal/input/keymap"
	"github.com/dshills/keycalc/internal/logging"
	"github.com/dshills/keycalc/internal/plugin/lua"
	"github.com/dshills/keycalc/internal/renderer"
	"github.com/dshills/keycalc/internal/renderer/backend"
)

// Application is the central coordinator for all keycalc components.
// It manages component lifecycles, wiring, and the main event loop.
type Application struct {
	mu sync.RWMutex

	// Core infrastructure
	config    *config.Config
	logger    *logging.Logger
	logCloser io.Closer
	session   string
	metrics   *Metrics

	// Calculator components
	engine *calc.Engine
	keymap *keymap.Keymap

	// Terminal components, nil in headless mode
	backend  backend.Backend
	renderer *renderer.Renderer

	// Extension components, nil when unused
	plugins *lua.Host
	watcher *watcher.Watcher

	// UI state shown with the next frame
	active  string
	message string

	// State
	running   atomic.Bool
	done      chan struct{}
	doneOnce  sync.Once
	closeOnce sync.Once

	// Options
	opts Options
}

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file. Empty means
	// defaults and environment only.
	ConfigPath string

	// Config is used as is when set, skipping ConfigPath.
	Config *config.Config

	// ConfigOptions are passed to every config load, including reloads.
	ConfigOptions []config.Option

	// Backend is the terminal. Nil is valid for headless use.
	Backend backend.Backend

	// Logger overrides the logger built from the configuration.
	Logger *logging.Logger

	// LogLevel overrides the configured level when set.
	LogLevel string

	// Scripts are loaded after the configured plugin scripts.
	Scripts []string

	// ScriptOutput receives print output from Lua scripts.
	ScriptOutput io.Writer

	// Watch reloads the configuration when its file changes.
	Watch bool
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:    opts,
		done:    make(chan struct{}),
		metrics: NewMetrics(),
	}

	if err := newBootstrapper(app, opts).bootstrap(); err != nil {
		return nil, err
	}

	return app, nil
}

// Shutdown initiates graceful shutdown. It is safe to call more than
// once and from any goroutine.
func (app *Application) Shutdown() {
	app.doneOnce.Do(func() {
		close(app.done)
	})

	if app.running.Load() {
		// Wake the event loop; it cleans up on exit
		app.backend.PostEvent(backend.Event{Type: backend.EventInterrupt})
		return
	}
	app.close()
}

// close releases components in reverse initialization order.
func (app *Application) close() {
	app.closeOnce.Do(func() {
		if app.watcher != nil {
			if err := app.watcher.Close(); err != nil {
				app.logger.Warn("closing watcher: %v", err)
			}
		}
		if app.plugins != nil {
			_ = app.plugins.Close()
		}

		s := app.metrics.Snapshot()
		app.logger.Info("session ended after %v: %d keys, %d clicks, %d computations, %d reloads",
			s.Uptime.Round(1e6), s.KeyCount, s.ClickCount, s.Computations, s.Reloads)

		if app.logCloser != nil {
			_ = app.logCloser.Close()
		}
	})
}

// IsRunning returns true if the event loop is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Engine returns the calculator engine.
func (app *Application) Engine() *calc.Engine {
	return app.engine
}

// Config returns the active configuration.
func (app *Application) Config() *config.Config {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.config
}

// Keymap returns the active keymap.
func (app *Application) Keymap() *keymap.Keymap {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.keymap
}

// Renderer returns the renderer (nil without a backend).
func (app *Application) Renderer() *renderer.Renderer {
	return app.renderer
}

// Plugins returns the Lua host (may be nil).
func (app *Application) Plugins() *lua.Host {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.plugins
}

// Logger returns the application logger.
func (app *Application) Logger() *logging.Logger {
	return app.logger
}

// Session returns the session identifier attached to every log line.
func (app *Application) Session() string {
	return app.session
}

// Message returns the status message shown in the hint row.
func (app *Application) Message() string {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.message
}

func (app *Application) setMessage(msg string) {
	app.mu.Lock()
	app.message = msg
	app.mu.Unlock()
}
