package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
)

const (
	wsWriteTimeout = 10 * time.Second
	statusInterval = 3 * time.Second
	terminalName   = "takserver"
)

var connIDCounter uint64

func RegisterWSHandlers(app *App, mux *http.ServeMux) {
	mux.HandleFunc("GET /api/ws/status", app.handleStatusWS)
	mux.HandleFunc("GET /api/ws/terminal", app.handleTerminalWS)
}

// statusPayload is pushed to the frontend whenever the environment state
// changes, and on every poll tick where it differs from the last push.
type statusPayload struct {
	Installed bool             `json:"installed"`
	Running   bool             `json:"running"`
	Container *containerStatus `json:"container,omitempty"`
	Port      string           `json:"port,omitempty"`
}

type containerStatus struct {
	Name   string `json:"name"`
	State  string `json:"state"`
	Health string `json:"health,omitempty"`
}

// currentStatus assembles one snapshot of the environment.
func (app *App) currentStatus(ctx context.Context) statusPayload {
	st := statusPayload{Installed: app.Docker.Installed()}

	pingCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	st.Running = app.Docker.Ping(pingCtx) == nil
	if !st.Running {
		return st
	}

	project, err := app.Project()
	if err != nil {
		return st
	}
	st.Port = app.serverPort(project)

	c, err := app.Docker.FindContainer(pingCtx, project.ContainerName)
	if err != nil || c == nil {
		return st
	}
	st.Container = &containerStatus{Name: c.Name, State: c.State, Health: c.Health}
	return st
}

// handleStatusWS pushes environment snapshots over a one-way websocket.
// The first snapshot is sent immediately; afterwards only changes go out.
func (app *App) handleStatusWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"localhost:*", "127.0.0.1:*"},
	})
	if err != nil {
		slog.Warn("status ws accept", "err", err)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ctx := r.Context()
	dirty, cancel := app.subscribeStatus()
	defer cancel()

	// Reads are discarded, but the read loop surfaces client closes.
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	var last []byte
	push := func() bool {
		st := app.currentStatus(ctx)
		data, err := json.Marshal(st)
		if err != nil {
			slog.Error("status marshal", "err", err)
			return true
		}
		if string(data) == string(last) {
			return true
		}
		writeCtx, cancelWrite := context.WithTimeout(ctx, wsWriteTimeout)
		defer cancelWrite()
		if err := conn.Write(writeCtx, websocket.MessageText, data); err != nil {
			return false
		}
		last = data
		return true
	}

	if !push() {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-readDone:
			return
		case <-dirty:
			if !push() {
				return
			}
		case <-ticker.C:
			if !push() {
				return
			}
		}
	}
}

// terminalInput is the client-to-server message on the terminal socket.
type terminalInput struct {
	Type string `json:"type"` // "input" or "resize"
	Data string `json:"data,omitempty"`
	Cols uint16 `json:"cols,omitempty"`
	Rows uint16 `json:"rows,omitempty"`
}

// handleTerminalWS bridges a websocket to a shell inside the TAK server
// container. Output flows out as text messages; input and resize come in
// as JSON.
func (app *App) handleTerminalWS(w http.ResponseWriter, r *http.Request) {
	project, err := app.Project()
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "%v", err)
		return
	}

	probeCtx, cancelProbe := context.WithTimeout(r.Context(), probeTimeout)
	c, err := app.Docker.FindContainer(probeCtx, project.ContainerName)
	cancelProbe()
	if err != nil || !c.Running() {
		writeDetail(w, http.StatusConflict, "TAK server container is not running")
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"localhost:*", "127.0.0.1:*"},
	})
	if err != nil {
		slog.Warn("terminal ws accept", "err", err)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	session, err := app.Terms.GetOrCreate(terminalName, project.ContainerName)
	if err != nil {
		slog.Warn("terminal session", "err", err)
		conn.Close(websocket.StatusInternalError, "terminal unavailable")
		return
	}

	ctx := r.Context()
	writerID := "c" + strconv.FormatUint(atomic.AddUint64(&connIDCounter, 1), 10)
	session.AddWriter(writerID, func(data string) {
		writeCtx, cancelWrite := context.WithTimeout(ctx, wsWriteTimeout)
		defer cancelWrite()
		_ = conn.Write(writeCtx, websocket.MessageText, []byte(data))
	})
	defer session.RemoveWriter(writerID)

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		var msg terminalInput
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "input":
			if err := session.WriteInput([]byte(msg.Data)); err != nil {
				return
			}
		case "resize":
			if msg.Cols > 0 && msg.Rows > 0 {
				_ = session.Resize(msg.Cols, msg.Rows)
			}
		}
	}
}
