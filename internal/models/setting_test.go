package models

import (
	"testing"

	"github.com/JShadowNull/TAK-Wrapper/internal/db"
)

func newStore(t *testing.T) *ConfigStore {
	t.Helper()
	database, err := db.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { database.Close() })
	return NewConfigStore(database)
}

func TestConfigStoreRoundTrip(t *testing.T) {
	t.Parallel()
	s := newStore(t)

	// Unset keys read as empty
	if v, err := s.InstallDir(); err != nil || v != "" {
		t.Errorf("InstallDir = %q, %v", v, err)
	}

	if err := s.SetAll("/opt/tak", "8443"); err != nil {
		t.Fatal(err)
	}

	if v, _ := s.InstallDir(); v != "/opt/tak" {
		t.Errorf("InstallDir = %q", v)
	}
	if v, _ := s.Port(); v != "8443" {
		t.Errorf("Port = %q", v)
	}
}

func TestConfigStoreSeed(t *testing.T) {
	t.Parallel()
	s := newStore(t)

	if err := s.Seed("/first", "1111"); err != nil {
		t.Fatal(err)
	}
	if v, _ := s.InstallDir(); v != "/first" {
		t.Errorf("InstallDir = %q", v)
	}

	// Seeding again must not overwrite an existing configuration
	if err := s.Seed("/second", "2222"); err != nil {
		t.Fatal(err)
	}
	if v, _ := s.InstallDir(); v != "/first" {
		t.Errorf("InstallDir after reseed = %q, want /first", v)
	}
	if v, _ := s.Port(); v != "1111" {
		t.Errorf("Port after reseed = %q, want 1111", v)
	}
}

func TestConfigStoreCacheInvalidation(t *testing.T) {
	t.Parallel()
	s := newStore(t)

	if err := s.Set(KeyPort, "8443"); err != nil {
		t.Fatal(err)
	}
	if v, _ := s.Get(KeyPort); v != "8443" {
		t.Errorf("Port = %q", v)
	}

	s.InvalidateCache()

	// Value survives a cache flush (re-read from the DB)
	if v, _ := s.Get(KeyPort); v != "8443" {
		t.Errorf("Port after invalidate = %q", v)
	}
}
