package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/JShadowNull/TAK-Wrapper/internal/system"
)

func RegisterSystemHandlers(app *App, mux *http.ServeMux) {
	mux.HandleFunc("POST /api/open-external-url", app.handleOpenURL)
	mux.HandleFunc("GET /api/select-directory", app.handleSelectDirectory)
}

func (app *App) handleOpenURL(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL string `json:"url"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeDetail(w, http.StatusBadRequest, "%v", err)
		return
	}
	if body.URL == "" {
		writeDetail(w, http.StatusBadRequest, "url is required")
		return
	}

	if err := system.OpenURL(body.URL); err != nil {
		slog.Warn("open url", "url", body.URL, "err", err)
		writeDetail(w, http.StatusBadRequest, "%v", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (app *App) handleSelectDirectory(w http.ResponseWriter, r *http.Request) {
	dir, err := system.SelectDirectory(r.Context())
	if err != nil {
		if errors.Is(err, system.ErrNoPicker) {
			writeDetail(w, http.StatusNotImplemented, "%v", err)
			return
		}
		slog.Warn("select directory", "err", err)
		writeDetail(w, http.StatusInternalServerError, "%v", err)
		return
	}
	// Empty directory means the user cancelled the picker.
	writeJSON(w, http.StatusOK, map[string]string{"directory": dir})
}
