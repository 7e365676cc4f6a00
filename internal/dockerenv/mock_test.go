package dockerenv

import (
	"context"
	"testing"
)

func TestMockLifecycle(t *testing.T) {
	t.Parallel()

	m := NewMockClient()
	ctx := context.Background()

	if !m.Installed() {
		t.Error("mock defaults to installed")
	}
	if err := m.Ping(ctx); err != nil {
		t.Errorf("mock defaults to daemon up: %v", err)
	}

	m.AddContainer(Container{ID: "abc", Name: "tak-manager", State: "exited"})

	c, err := m.FindContainer(ctx, "tak-manager")
	if err != nil {
		t.Fatal(err)
	}
	if c.Running() {
		t.Error("container should start exited")
	}

	if err := m.StartContainer(ctx, "abc"); err != nil {
		t.Fatal(err)
	}
	c, _ = m.FindContainer(ctx, "tak-manager")
	if !c.Running() {
		t.Error("container should be running after start")
	}

	if err := m.StopContainer(ctx, "abc"); err != nil {
		t.Fatal(err)
	}
	c, _ = m.FindContainer(ctx, "tak-manager")
	if c.Running() {
		t.Error("container should be stopped after stop")
	}
}

func TestMockUnknownContainer(t *testing.T) {
	t.Parallel()

	m := NewMockClient()
	ctx := context.Background()

	c, err := m.FindContainer(ctx, "nope")
	if err != nil {
		t.Fatal(err)
	}
	if c != nil {
		t.Error("unknown container should be nil")
	}
	if err := m.StartContainer(ctx, "nope"); err == nil {
		t.Error("starting an unknown container should fail")
	}
}

func TestMockCopiesContainers(t *testing.T) {
	t.Parallel()

	m := NewMockClient()
	ctx := context.Background()
	m.AddContainer(Container{ID: "abc", Name: "tak-manager", State: "running"})

	c, _ := m.FindContainer(ctx, "tak-manager")
	c.State = "mangled"

	again, _ := m.FindContainer(ctx, "tak-manager")
	if again.State != "running" {
		t.Error("mutating a returned container must not affect mock state")
	}
}
