package app

import (
	"github.com/google/uuid"

	"github.com/dshills/keycalc/internal/calc"
	"github.com/dshills/keycalc/internal/config"
	"github.com/dshills/keycalc/internal/config/watcher"
	"github.com/dshills/keycalc/internal/input/keymap"
	"github.com/dshills/keycalc/internal/logging"
	"github.com/dshills/keycalc/internal/plugin/lua"
	"github.com/dshills/keycalc/internal/renderer"
)

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app       *Application
	opts      Options
	initOrder []string
}

// newBootstrapper creates a new bootstrapper for the application.
func newBootstrapper(app *Application, opts Options) *bootstrapper {
	return &bootstrapper{
		app:       app,
		opts:      opts,
		initOrder: make([]string, 0, 6),
	}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []struct {
		name string
		init func() error
	}{
		{"config", b.initConfig},
		{"logger", b.initLogger},
		{"engine", b.initEngine},
		{"keymap", b.initKeymap},
		{"renderer", b.initRenderer},
		{"plugins", b.initPlugins},
		{"watcher", b.initWatcher},
	}

	for _, step := range steps {
		if err := step.init(); err != nil {
			b.cleanup()
			return err
		}
		b.initOrder = append(b.initOrder, step.name)
	}

	b.app.logger.Debug("bootstrap complete: %v", b.initOrder)
	return nil
}

// initConfig loads the configuration unless one was supplied.
func (b *bootstrapper) initConfig() error {
	if b.opts.Config != nil {
		b.app.config = b.opts.Config
		return nil
	}

	cfg, err := config.Load(b.opts.ConfigPath, b.opts.ConfigOptions...)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	b.app.config = cfg
	return nil
}

// initLogger builds the session logger.
func (b *bootstrapper) initLogger() error {
	levelName := b.app.config.Logging.Level
	if b.opts.LogLevel != "" {
		levelName = b.opts.LogLevel
	}
	level := logging.ParseLevel(levelName)

	logger := b.opts.Logger
	switch {
	case logger != nil:
	case b.app.config.Logging.File != "":
		l, closer, err := logging.OpenFile(b.app.config.Logging.File, level)
		if err != nil {
			return &InitError{Component: "logger", Err: err}
		}
		logger, b.app.logCloser = l, closer
	default:
		logger = logging.Null
	}
	if logger != logging.Null && (b.opts.Logger == nil || b.opts.LogLevel != "") {
		logger.SetLevel(level)
	}

	b.app.session = uuid.NewString()
	b.app.logger = logger.WithField("session", b.app.session)

	if src := b.app.config.Source; src != "" {
		b.app.logger.Info("loaded config %s", src)
	}
	return nil
}

// initEngine creates the calculator engine.
func (b *bootstrapper) initEngine() error {
	engineLog := b.app.logger.WithComponent("calc")
	b.app.engine = calc.New(
		calc.WithHistoryLimit(b.app.config.History.Limit),
		calc.WithComputeHook(func(c calc.Computation) {
			b.app.metrics.RecordComputation()
			engineLog.Debug("computed %s", c.Entry)
		}),
	)
	return nil
}

// initKeymap builds the default keymap with user overrides applied.
func (b *bootstrapper) initKeymap() error {
	km, err := buildKeymap(b.app.config)
	if err != nil {
		// Config validation already rejected unknown targets; anything
		// left is a malformed key name.
		b.app.logger.Warn("keymap: %v", err)
	}
	b.app.keymap = km
	return nil
}

// initRenderer creates the renderer when a backend is present.
func (b *bootstrapper) initRenderer() error {
	if b.opts.Backend == nil {
		return nil
	}

	theme, err := renderer.ThemeByName(b.app.config.UI.Theme)
	if err != nil {
		return &InitError{Component: "renderer", Err: err}
	}

	b.app.backend = b.opts.Backend
	b.app.renderer = renderer.New(b.app.backend,
		renderer.WithTheme(theme),
		renderer.WithHistory(b.app.config.UI.ShowHistory),
	)
	return nil
}

// initPlugins loads configured Lua scripts. Script failures are
// reported in the status line rather than aborting startup.
func (b *bootstrapper) initPlugins() error {
	scripts := append(append([]string(nil), b.app.config.Plugins.Scripts...), b.opts.Scripts...)
	if len(scripts) == 0 {
		return nil
	}

	host := b.app.ensurePlugins()
	if err := host.LoadScripts(scripts); err != nil {
		b.app.message = "script error: " + firstLine(err.Error())
	}
	return nil
}

// initWatcher starts watching the config file for changes.
func (b *bootstrapper) initWatcher() error {
	src := b.app.config.Source
	if !b.opts.Watch || src == "" {
		return nil
	}

	w, err := watcher.New()
	if err != nil {
		b.app.logger.Warn("config watcher unavailable: %v", err)
		return nil
	}
	w.OnChange(func(ev watcher.Event) {
		if ev.Op == watcher.OpRemove {
			b.app.logger.Warn("config %s removed, keeping current settings", ev.Path)
			return
		}
		_ = b.app.Reload()
	})
	w.OnError(func(err error) {
		b.app.logger.Warn("config watcher: %v", err)
	})
	if err := w.Watch(src); err != nil {
		_ = w.Close()
		b.app.logger.Warn("watching %s: %v", src, err)
		return nil
	}

	b.app.watcher = w
	b.app.logger.Debug("watching %s", src)
	return nil
}

// cleanup performs cleanup in reverse initialization order.
// Called when bootstrap fails partway through.
func (b *bootstrapper) cleanup() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		b.cleanupComponent(b.initOrder[i])
	}
}

// cleanupComponent cleans up a single component.
func (b *bootstrapper) cleanupComponent(component string) {
	switch component {
	case "logger":
		if b.app.logCloser != nil {
			_ = b.app.logCloser.Close()
			b.app.logCloser = nil
		}
	case "plugins":
		if b.app.plugins != nil {
			_ = b.app.plugins.Close()
			b.app.plugins = nil
		}
	case "watcher":
		if b.app.watcher != nil {
			_ = b.app.watcher.Close()
			b.app.watcher = nil
		}
	}
}

// ensurePlugins returns the Lua host, creating it on first use.
func (app *Application) ensurePlugins() *lua.Host {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.plugins == nil {
		opts := []lua.HostOption{
			lua.WithLogger(app.logger),
		}
		if app.config.Plugins.Timeout > 0 {
			opts = append(opts, lua.WithTimeout(app.config.Plugins.Timeout))
		}
		if app.opts.ScriptOutput != nil {
			opts = append(opts, lua.WithOutput(app.opts.ScriptOutput))
		}
		app.plugins = lua.NewHost(app.engine, opts...)
	}
	return app.plugins
}

// buildKeymap returns the default keymap with cfg's overrides applied.
func buildKeymap(cfg *config.Config) (*keymap.Keymap, error) {
	km := keymap.Default()
	return km, km.Apply(cfg.Keymap)
}
