package takserver

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCompose(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLocate(t *testing.T) {
	t.Parallel()

	t.Run("compose file in install dir", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeCompose(t, dir, "docker-compose.yml", `services:
  tak-manager:
    image: tak-manager:1.0
    container_name: tak-manager
    ports:
      - "8443:8443"
`)

		p, err := Locate(dir)
		if err != nil {
			t.Fatal(err)
		}
		if p.Service != "tak-manager" {
			t.Errorf("Service = %q", p.Service)
		}
		if p.ContainerName != "tak-manager" {
			t.Errorf("ContainerName = %q", p.ContainerName)
		}
		if p.Port != "8443" {
			t.Errorf("Port = %q", p.Port)
		}
		if p.Dir != dir {
			t.Errorf("Dir = %q", p.Dir)
		}
	})

	t.Run("compose file in versioned subdirectory", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		sub := filepath.Join(dir, "tak-manager-2.1.0")
		if err := os.Mkdir(sub, 0755); err != nil {
			t.Fatal(err)
		}
		writeCompose(t, sub, "compose.yaml", `services:
  tak-manager:
    image: tak-manager:2.1.0
    container_name: tak-manager
`)

		p, err := Locate(dir)
		if err != nil {
			t.Fatal(err)
		}
		if p.Dir != sub {
			t.Errorf("Dir = %q, want %q", p.Dir, sub)
		}
	})

	t.Run("empty install dir", func(t *testing.T) {
		t.Parallel()
		if _, err := Locate(""); err == nil {
			t.Error("expected error for unconfigured dir")
		}
	})

	t.Run("missing install dir", func(t *testing.T) {
		t.Parallel()
		if _, err := Locate(filepath.Join(t.TempDir(), "nope")); err == nil {
			t.Error("expected error for missing dir")
		}
	})

	t.Run("no compose file", func(t *testing.T) {
		t.Parallel()
		if _, err := Locate(t.TempDir()); err == nil {
			t.Error("expected error when no compose file exists")
		}
	})
}

func TestParseProjectDefaults(t *testing.T) {
	t.Parallel()

	t.Run("default container name from directory", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeCompose(t, dir, "docker-compose.yml", `services:
  server:
    image: tak:latest
`)

		p, err := Locate(dir)
		if err != nil {
			t.Fatal(err)
		}
		want := filepath.Base(dir) + "-server-1"
		if p.ContainerName != want {
			t.Errorf("ContainerName = %q, want %q", p.ContainerName, want)
		}
	})

	t.Run("compose name key wins for project name", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeCompose(t, dir, "docker-compose.yml", `name: takmgr
services:
  server:
    image: tak:latest
`)

		p, err := Locate(dir)
		if err != nil {
			t.Fatal(err)
		}
		if p.ContainerName != "takmgr-server-1" {
			t.Errorf("ContainerName = %q", p.ContainerName)
		}
	})

	t.Run("preferred service picked among several", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeCompose(t, dir, "docker-compose.yml", `services:
  db:
    image: postgres:16
  tak-manager:
    image: tak:latest
    container_name: tak-manager
`)

		p, err := Locate(dir)
		if err != nil {
			t.Fatal(err)
		}
		if p.Service != "tak-manager" {
			t.Errorf("Service = %q", p.Service)
		}
	})

	t.Run("alphabetical fallback is deterministic", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeCompose(t, dir, "docker-compose.yml", `services:
  zulu:
    image: z
  alpha:
    image: a
`)

		p, err := Locate(dir)
		if err != nil {
			t.Fatal(err)
		}
		if p.Service != "alpha" {
			t.Errorf("Service = %q", p.Service)
		}
	})
}

func TestPortParsing(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		ports string
		want  string
	}{
		{"short form", `
      - "8443:8443"`, "8443"},
		{"short form with bind ip", `
      - "127.0.0.1:9443:8443"`, "9443"},
		{"short form with protocol", `
      - "8443:8443/tcp"`, "8443"},
		{"container port only publishes nothing", `
      - "8443"`, ""},
		{"long form", `
      - published: 8443
        target: 8443`, "8443"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			writeCompose(t, dir, "docker-compose.yml", `services:
  tak-manager:
    image: tak:latest
    ports:`+tc.ports+"\n")

			p, err := Locate(dir)
			if err != nil {
				t.Fatal(err)
			}
			if p.Port != tc.want {
				t.Errorf("Port = %q, want %q", p.Port, tc.want)
			}
		})
	}
}
