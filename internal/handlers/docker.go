package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/JShadowNull/TAK-Wrapper/internal/takserver"
)

const (
	probeTimeout = 5 * time.Second
	// composeTimeout bounds docker compose up, which may pull images on
	// first start.
	composeTimeout = 5 * time.Minute
)

// startResponse is the start-container result shape. Failures the server
// itself diagnoses (daemon down, bad install dir, compose error) are
// reported in-band with Success false rather than as HTTP errors.
type startResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Port    string `json:"port,omitempty"`
}

func RegisterDockerHandlers(app *App, mux *http.ServeMux) {
	mux.HandleFunc("GET /api/check-docker-installed", app.handleCheckInstalled)
	mux.HandleFunc("GET /api/check-docker-running", app.handleCheckRunning)
	mux.HandleFunc("POST /api/start-container", app.handleStartContainer)
	mux.HandleFunc("POST /api/stop-container", app.handleStopContainer)
}

func (app *App) handleCheckInstalled(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"installed": app.Docker.Installed()})
}

func (app *App) handleCheckRunning(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	running := app.Docker.Ping(ctx) == nil
	writeJSON(w, http.StatusOK, map[string]bool{"running": running})
}

func (app *App) handleStartContainer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), composeTimeout)
	defer cancel()

	if err := app.Docker.Ping(ctx); err != nil {
		writeJSON(w, http.StatusOK, startResponse{Success: false, Error: "Docker is not running"})
		return
	}

	project, err := app.Project()
	if err != nil {
		writeJSON(w, http.StatusOK, startResponse{Success: false, Error: err.Error()})
		return
	}

	// Already up: report success with the known port.
	c, err := app.Docker.FindContainer(ctx, project.ContainerName)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "%v", err)
		return
	}
	if c.Running() {
		writeJSON(w, http.StatusOK, startResponse{Success: true, Port: app.serverPort(project)})
		return
	}

	slog.Info("starting tak server", "dir", project.Dir, "service", project.Service)
	if err := project.Up(ctx, nil); err != nil {
		slog.Warn("start tak server", "err", err)
		writeJSON(w, http.StatusOK, startResponse{Success: false, Error: err.Error()})
		return
	}

	app.notifyStatus()
	writeJSON(w, http.StatusOK, startResponse{Success: true, Port: app.serverPort(project)})
}

func (app *App) handleStopContainer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), composeTimeout)
	defer cancel()

	if err := app.Docker.Ping(ctx); err != nil {
		writeDetail(w, http.StatusServiceUnavailable, "Docker is not running")
		return
	}

	project, err := app.Project()
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "%v", err)
		return
	}

	c, err := app.Docker.FindContainer(ctx, project.ContainerName)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "%v", err)
		return
	}
	if !c.Running() {
		// Nothing to stop; stopping twice is not an error.
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
		return
	}

	slog.Info("stopping tak server", "container", project.ContainerName)
	if err := project.Stop(ctx, nil); err != nil {
		slog.Warn("stop tak server", "err", err)
		writeDetail(w, http.StatusInternalServerError, "%v", err)
		return
	}

	app.notifyStatus()
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// serverPort resolves the TAK server port: the persisted setting wins,
// falling back to the port published in the compose file.
func (app *App) serverPort(project *takserver.Project) string {
	if port, err := app.Config.Port(); err == nil && port != "" {
		return port
	}
	return project.Port
}
