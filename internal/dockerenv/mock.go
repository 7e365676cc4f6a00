package dockerenv

import (
	"context"
	"fmt"
	"sync"
)

// MockClient implements Client as a pure in-memory mock for tests and
// development environments without a real Docker daemon. Container state
// lives in a map guarded by a mutex; start/stop flip the State field.
type MockClient struct {
	mu         sync.Mutex
	installed  bool
	daemonUp   bool
	containers map[string]*Container // keyed by name
}

// NewMockClient returns a mock with Docker installed, the daemon up, and
// no containers. Use the setters to shape failure scenarios.
func NewMockClient() *MockClient {
	return &MockClient{
		installed:  true,
		daemonUp:   true,
		containers: make(map[string]*Container),
	}
}

// SetInstalled controls the Installed() probe result.
func (m *MockClient) SetInstalled(v bool) {
	m.mu.Lock()
	m.installed = v
	m.mu.Unlock()
}

// SetDaemonUp controls whether Ping succeeds.
func (m *MockClient) SetDaemonUp(v bool) {
	m.mu.Lock()
	m.daemonUp = v
	m.mu.Unlock()
}

// AddContainer registers a container. The mock copies the value so callers
// cannot mutate internal state through the original pointer.
func (m *MockClient) AddContainer(c Container) {
	m.mu.Lock()
	cp := c
	m.containers[c.Name] = &cp
	m.mu.Unlock()
}

func (m *MockClient) Installed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.installed
}

func (m *MockClient) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.daemonUp {
		return fmt.Errorf("docker ping: daemon not running")
	}
	return nil
}

func (m *MockClient) FindContainer(ctx context.Context, name string) (*Container, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.containers[name]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *MockClient) StartContainer(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.containers {
		if c.ID == id {
			c.State = "running"
			return nil
		}
	}
	return fmt.Errorf("container start: no such container %q", id)
}

func (m *MockClient) StopContainer(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.containers {
		if c.ID == id {
			c.State = "exited"
			c.Health = ""
			return nil
		}
	}
	return fmt.Errorf("container stop: no such container %q", id)
}

func (m *MockClient) Close() error { return nil }
