// Package handlers implements the /api surface of the wrapper: Docker
// state probes, TAK server lifecycle, configuration, desktop integrations,
// and the websocket status/terminal endpoints.
package handlers

import (
	"sync"

	"github.com/JShadowNull/TAK-Wrapper/internal/dockerenv"
	"github.com/JShadowNull/TAK-Wrapper/internal/models"
	"github.com/JShadowNull/TAK-Wrapper/internal/takserver"
	"github.com/JShadowNull/TAK-Wrapper/internal/terminal"
)

// App holds shared dependencies for all handlers.
type App struct {
	Config  *models.ConfigStore
	Docker  dockerenv.Client
	Terms   *terminal.Manager
	Version string
	Dev     bool

	// project caches the located compose project; invalidated when the
	// configuration changes or the install dir is modified on disk.
	projectMu sync.Mutex
	project   *takserver.Project

	// statusDirty wakes status websocket pollers early after a relevant
	// change (config save, install dir event).
	dirtyMu     sync.Mutex
	statusDirty []chan struct{}
}

// Project returns the located TAK compose project, resolving and caching
// it on first use.
func (app *App) Project() (*takserver.Project, error) {
	app.projectMu.Lock()
	defer app.projectMu.Unlock()

	if app.project != nil {
		return app.project, nil
	}

	installDir, err := app.Config.InstallDir()
	if err != nil {
		return nil, err
	}
	p, err := takserver.Locate(installDir)
	if err != nil {
		return nil, err
	}
	app.project = p
	return p, nil
}

// InvalidateProject drops the cached project so the next use re-reads the
// install dir. Also wakes status watchers.
func (app *App) InvalidateProject() {
	app.projectMu.Lock()
	app.project = nil
	app.projectMu.Unlock()
	app.notifyStatus()
}

// subscribeStatus registers a wake-up channel for a status websocket.
// The returned cancel func must be called when the connection ends.
func (app *App) subscribeStatus() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	app.dirtyMu.Lock()
	app.statusDirty = append(app.statusDirty, ch)
	app.dirtyMu.Unlock()

	cancel := func() {
		app.dirtyMu.Lock()
		for i, c := range app.statusDirty {
			if c == ch {
				app.statusDirty = append(app.statusDirty[:i], app.statusDirty[i+1:]...)
				break
			}
		}
		app.dirtyMu.Unlock()
	}
	return ch, cancel
}

// notifyStatus nudges every status websocket to re-poll immediately.
func (app *App) notifyStatus() {
	app.dirtyMu.Lock()
	for _, ch := range app.statusDirty {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	app.dirtyMu.Unlock()
}
