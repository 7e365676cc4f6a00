package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherFiresOnChange(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := make(chan struct{}, 1)
	err := Start(ctx, dir, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(dir, "docker-compose.yml"), []byte("services:\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not fire after file write")
	}
}

func TestWatcherDebouncesBursts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := make(chan struct{}, 16)
	if err := Start(ctx, dir, func() { fired <- struct{}{} }); err != nil {
		t.Fatal(err)
	}

	// A burst of writes inside the debounce window collapses to one callback.
	path := filepath.Join(dir, "f")
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte{byte(i)}, 0644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not fire")
	}

	select {
	case <-fired:
		t.Error("burst produced more than one callback")
	case <-time.After(debounce * 2):
	}
}

func TestWatcherMissingDir(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := Start(ctx, filepath.Join(t.TempDir(), "nope"), func() {})
	if err == nil {
		t.Error("expected error for missing dir")
	}
}
