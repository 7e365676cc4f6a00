package handlers

import (
	"net/http"
	"os"
	"strconv"

	"github.com/JShadowNull/TAK-Wrapper/internal/models"
)

// configRecord is the wire shape of the persisted configuration. The port
// is a string on the wire.
type configRecord struct {
	InstallDir string `json:"install_dir"`
	Port       string `json:"port"`
}

func RegisterSettingsHandlers(app *App, mux *http.ServeMux) {
	mux.HandleFunc("GET /api/config", app.handleGetConfig)
	mux.HandleFunc("POST /api/config", app.handleSaveConfig)
}

func (app *App) handleGetConfig(w http.ResponseWriter, _ *http.Request) {
	installDir, err := app.Config.Get(models.KeyInstallDir)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "%v", err)
		return
	}
	port, err := app.Config.Get(models.KeyPort)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "%v", err)
		return
	}
	writeJSON(w, http.StatusOK, configRecord{InstallDir: installDir, Port: port})
}

func (app *App) handleSaveConfig(w http.ResponseWriter, r *http.Request) {
	var rec configRecord
	if err := decodeJSON(r, &rec); err != nil {
		writeDetail(w, http.StatusBadRequest, "%v", err)
		return
	}

	if rec.InstallDir == "" {
		writeDetail(w, http.StatusBadRequest, "install_dir is required")
		return
	}
	if info, err := os.Stat(rec.InstallDir); err != nil || !info.IsDir() {
		writeDetail(w, http.StatusBadRequest, "install_dir %s is not a directory", rec.InstallDir)
		return
	}
	if rec.Port != "" {
		n, err := strconv.Atoi(rec.Port)
		if err != nil || n < 1 || n > 65535 {
			writeDetail(w, http.StatusBadRequest, "port %q is not a valid port number", rec.Port)
			return
		}
	}

	if err := app.Config.SetAll(rec.InstallDir, rec.Port); err != nil {
		writeDetail(w, http.StatusInternalServerError, "%v", err)
		return
	}

	// The install dir may have changed; re-locate the project lazily.
	app.InvalidateProject()
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
