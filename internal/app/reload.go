package app

import (
	"path/filepath"

	"github.com/dshills/keycalc/internal/config"
	"github.com/dshills/keycalc/internal/logging"
	"github.com/dshills/keycalc/internal/renderer"
	"github.com/dshills/keycalc/internal/renderer/backend"
)

// Reload reads the configuration file again and applies the theme,
// history settings, keymap and log level. On error the current
// settings stay in place.
func (app *Application) Reload() error {
	path := app.Config().Source
	if path == "" {
		path = app.opts.ConfigPath
	}

	cfg, err := config.Load(path, app.opts.ConfigOptions...)
	if err != nil {
		app.logger.Warn("reload %s: %v", path, err)
		app.setMessage("config: " + firstLine(err.Error()))
		app.wake()
		return NewOperationError("reload", path, err)
	}

	if err := app.applyConfig(cfg); err != nil {
		app.logger.Warn("reload %s: %v", path, err)
		app.setMessage("config: " + firstLine(err.Error()))
		app.wake()
		return NewOperationError("reload", path, err)
	}

	app.metrics.RecordReload()
	app.logger.Info("reloaded config %s", path)
	app.setMessage("reloaded " + filepath.Base(path))
	app.wake()
	return nil
}

// applyConfig switches every reloadable setting to cfg.
func (app *Application) applyConfig(cfg *config.Config) error {
	theme, err := renderer.ThemeByName(cfg.UI.Theme)
	if err != nil {
		return err
	}
	km, err := buildKeymap(cfg)
	if err != nil {
		return err
	}

	app.mu.Lock()
	app.config = cfg
	app.keymap = km
	app.mu.Unlock()

	if app.renderer != nil {
		app.renderer.SetTheme(theme)
		app.renderer.SetShowHistory(cfg.UI.ShowHistory)
	}
	app.engine.SetHistoryLimit(cfg.History.Limit)

	if app.opts.LogLevel == "" {
		app.logger.SetLevel(logging.ParseLevel(cfg.Logging.Level))
	}
	return nil
}

// wake makes a running event loop redraw.
func (app *Application) wake() {
	if app.running.Load() {
		app.backend.PostEvent(backend.Event{Type: backend.EventInterrupt})
	}
}
