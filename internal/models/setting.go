package models

import (
	"fmt"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/JShadowNull/TAK-Wrapper/internal/db"
)

const settingCacheTTL = 60 * time.Second

// Setting keys for the persisted wrapper configuration.
const (
	KeyInstallDir = "installDir"
	KeyPort       = "port"
)

// ConfigStore persists the wrapper configuration record (install dir and
// TAK server port) in the settings bucket. The port is stored as a string
// to match the wire contract.
type ConfigStore struct {
	db    *bolt.DB
	mu    sync.RWMutex
	cache map[string]settingEntry
}

type settingEntry struct {
	value   string
	expires time.Time
}

func NewConfigStore(database *bolt.DB) *ConfigStore {
	return &ConfigStore{
		db:    database,
		cache: make(map[string]settingEntry),
	}
}

// Get retrieves a setting value by key. Returns "" if not found.
func (s *ConfigStore) Get(key string) (string, error) {
	// Check cache
	s.mu.RLock()
	if entry, ok := s.cache[key]; ok && time.Now().Before(entry.expires) {
		s.mu.RUnlock()
		return entry.value, nil
	}
	s.mu.RUnlock()

	// Read from DB
	var val string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(db.BucketSettings)
		v := b.Get([]byte(key))
		if v != nil {
			val = string(v)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}

	// Update cache
	s.mu.Lock()
	s.cache[key] = settingEntry{value: val, expires: time.Now().Add(settingCacheTTL)}
	s.mu.Unlock()

	return val, nil
}

// Set stores a setting value (upsert).
func (s *ConfigStore) Set(key, value string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(db.BucketSettings).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}

	// Update cache
	s.mu.Lock()
	s.cache[key] = settingEntry{value: value, expires: time.Now().Add(settingCacheTTL)}
	s.mu.Unlock()

	return nil
}

// InstallDir returns the persisted TAK Manager install directory ("" if unset).
func (s *ConfigStore) InstallDir() (string, error) {
	return s.Get(KeyInstallDir)
}

// Port returns the persisted TAK server port ("" if unset).
func (s *ConfigStore) Port() (string, error) {
	return s.Get(KeyPort)
}

// SetAll writes the full configuration record in one transaction.
func (s *ConfigStore) SetAll(installDir, port string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(db.BucketSettings)
		if err := b.Put([]byte(KeyInstallDir), []byte(installDir)); err != nil {
			return err
		}
		return b.Put([]byte(KeyPort), []byte(port))
	})
	if err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	s.mu.Lock()
	s.cache[KeyInstallDir] = settingEntry{value: installDir, expires: time.Now().Add(settingCacheTTL)}
	s.cache[KeyPort] = settingEntry{value: port, expires: time.Now().Add(settingCacheTTL)}
	s.mu.Unlock()

	return nil
}

// Seed writes initial values only when the store has no configuration yet.
// Used on first run when -install-dir is given on the command line.
func (s *ConfigStore) Seed(installDir, port string) error {
	existing, err := s.InstallDir()
	if err != nil {
		return err
	}
	if existing != "" {
		return nil
	}
	return s.SetAll(installDir, port)
}

// InvalidateCache clears the settings cache.
func (s *ConfigStore) InvalidateCache() {
	s.mu.Lock()
	s.cache = make(map[string]settingEntry)
	s.mu.Unlock()
}
