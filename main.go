package main

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/JShadowNull/TAK-Wrapper/internal/config"
	"github.com/JShadowNull/TAK-Wrapper/internal/db"
	"github.com/JShadowNull/TAK-Wrapper/internal/dockerenv"
	"github.com/JShadowNull/TAK-Wrapper/internal/handlers"
	"github.com/JShadowNull/TAK-Wrapper/internal/models"
	"github.com/JShadowNull/TAK-Wrapper/internal/terminal"
	"github.com/JShadowNull/TAK-Wrapper/internal/watcher"
)

// version is set at build time via -ldflags="-X main.version=..."
var version = "dev"

func main() {
	// Quick healthcheck mode — used by packaging scripts to probe a running
	// wrapper without needing wget/curl.
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		port := "8000"
		if v := os.Getenv("TAK_WRAPPER_PORT"); v != "" {
			port = v
		}
		resp, err := http.Get("http://127.0.0.1:" + port + "/healthz")
		if err != nil || resp.StatusCode != 200 {
			os.Exit(1)
		}
		os.Exit(0)
	}

	cfg := config.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})))

	slog.Info("starting tak-wrapper",
		"version", version,
		"port", cfg.Port,
		"dataDir", cfg.DataDir,
		"dev", cfg.Dev,
		"mock", cfg.Mock,
		"logLevel", cfg.LogLevel,
	)

	// Open database
	database, err := db.Open(cfg.DataDir)
	if err != nil {
		slog.Error("database", "err", err)
		os.Exit(1)
	}
	defer database.Close()

	configStore := models.NewConfigStore(database)
	if cfg.InstallDir != "" {
		if err := configStore.Seed(cfg.InstallDir, ""); err != nil {
			slog.Warn("seed install dir", "err", err)
		}
	}

	// Docker client — the SDK connects to whatever DOCKER_HOST points to;
	// the mock needs no daemon at all.
	var dockerClient dockerenv.Client
	if cfg.Mock {
		slog.Warn("using in-memory Docker mock (--mock)")
		dockerClient = dockerenv.NewMockClient()
	} else {
		sdk, err := dockerenv.NewSDKClient()
		if err != nil {
			slog.Error("docker client", "err", err)
			os.Exit(1)
		}
		dockerClient = sdk
	}
	defer dockerClient.Close()

	app := &handlers.App{
		Config:  configStore,
		Docker:  dockerClient,
		Terms:   terminal.NewManager(),
		Version: version,
		Dev:     cfg.Dev,
	}

	// HTTP mux
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	handlers.RegisterDockerHandlers(app, mux)
	handlers.RegisterSettingsHandlers(app, mux)
	handlers.RegisterSystemHandlers(app, mux)
	handlers.RegisterWSHandlers(app, mux)

	// Frontend SPA handler
	var frontendFS fs.FS
	if cfg.Dev {
		// Serve from filesystem (for Vite HMR, point Vite proxy at this port)
		distPath := filepath.Join("web", "dist")
		slog.Info("dev mode: serving frontend from filesystem", "path", distPath)
		frontendFS = os.DirFS(distPath)
	} else {
		sub, err := fs.Sub(staticFiles, "web/dist")
		if err != nil {
			slog.Error("embed frontend", "err", err)
			os.Exit(1)
		}
		frontendFS = sub
	}
	mux.Handle("/", gzipMiddleware(spaHandler(frontendFS)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Watch the install dir so config edits and upgrades are picked up
	// without a restart. Best effort: no install dir yet is fine.
	if installDir, err := configStore.InstallDir(); err == nil && installDir != "" {
		if err := watcher.Start(ctx, installDir, app.InvalidateProject); err != nil {
			slog.Warn("install dir watcher failed to start", "err", err)
		}
	}

	// Start HTTP server — loopback only; this is a local desktop wrapper.
	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		slog.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	srv.Shutdown(shutdownCtx)
}

// spaHandler serves static files from the given FS. If the requested file
// doesn't exist, it falls back to index.html for client-side routing.
func spaHandler(fsys fs.FS) http.Handler {
	fileServer := http.FileServer(http.FS(fsys))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/")
		if path == "" {
			path = "index.html"
		}

		f, err := fsys.Open(path)
		if err != nil {
			// File not found — serve index.html for SPA routing
			r.URL.Path = "/"
			fileServer.ServeHTTP(w, r)
			return
		}
		f.Close()

		fileServer.ServeHTTP(w, r)
	})
}

// gzipPool reuses gzip.Writer instances (~256KB internal state each).
var gzipPool = sync.Pool{
	New: func() any {
		w, _ := gzip.NewWriterLevel(nil, gzip.DefaultCompression)
		return w
	},
}

// gzipMiddleware compresses responses on the fly for clients that accept it.
func gzipMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		// Skip compression for small/binary responses
		switch filepath.Ext(r.URL.Path) {
		case ".png", ".jpg", ".jpeg", ".gif", ".ico", ".woff", ".woff2", ".br", ".gz":
			next.ServeHTTP(w, r)
			return
		}

		gz := gzipPool.Get().(*gzip.Writer)
		gz.Reset(w)
		defer func() {
			gz.Close()
			gzipPool.Put(gz)
		}()

		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Del("Content-Length")

		next.ServeHTTP(&gzipResponseWriter{Writer: gz, ResponseWriter: w}, r)
	})
}

type gzipResponseWriter struct {
	io.Writer
	http.ResponseWriter
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	return w.Writer.Write(b)
}
