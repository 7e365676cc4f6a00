package handlers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/JShadowNull/TAK-Wrapper/internal/db"
	"github.com/JShadowNull/TAK-Wrapper/internal/dockerenv"
	"github.com/JShadowNull/TAK-Wrapper/internal/models"
	"github.com/JShadowNull/TAK-Wrapper/internal/terminal"
)

// testEnv holds a fully wired test application with a temp DB and the mock
// Docker client.
type testEnv struct {
	App    *App
	Mock   *dockerenv.MockClient
	Server *httptest.Server
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	database, err := db.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { database.Close() })

	mock := dockerenv.NewMockClient()
	app := &App{
		Config:  models.NewConfigStore(database),
		Docker:  mock,
		Terms:   terminal.NewManager(),
		Version: "test",
	}

	mux := http.NewServeMux()
	RegisterDockerHandlers(app, mux)
	RegisterSettingsHandlers(app, mux)
	RegisterSystemHandlers(app, mux)
	RegisterWSHandlers(app, mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return &testEnv{App: app, Mock: mock, Server: srv}
}

// writeComposeProject creates an install dir with a minimal TAK compose
// file and points the config store at it.
func (env *testEnv) writeComposeProject(t *testing.T) string {
	t.Helper()

	installDir := t.TempDir()
	compose := `services:
  tak-manager:
    image: tak-manager:latest
    container_name: tak-manager
    ports:
      - "8443:8443"
`
	if err := os.WriteFile(filepath.Join(installDir, "docker-compose.yml"), []byte(compose), 0644); err != nil {
		t.Fatal(err)
	}
	if err := env.App.Config.SetAll(installDir, ""); err != nil {
		t.Fatal(err)
	}
	return installDir
}
