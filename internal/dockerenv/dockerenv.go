// Package dockerenv probes the local Docker installation and manages the
// TAK server container through a narrow client interface. The SDK-backed
// implementation talks to the real daemon; the mock runs entirely in memory
// for tests and daemon-less development.
package dockerenv

import "context"

// Container holds the fields the wrapper needs from a running or stopped
// container.
type Container struct {
	ID     string
	Name   string
	Image  string
	State  string // running, exited, created, paused, dead, ...
	Health string // healthy, unhealthy, starting, or "" (no healthcheck)
}

// Running reports whether the container is in the running state.
func (c *Container) Running() bool {
	return c != nil && c.State == "running"
}

// Client is the Docker surface used by the handlers.
type Client interface {
	// Installed reports whether a docker binary is available on PATH.
	// It does not require a running daemon.
	Installed() bool

	// Ping checks connectivity to the Docker daemon.
	Ping(ctx context.Context) error

	// FindContainer looks a container up by exact name, running or not.
	// Returns (nil, nil) when no such container exists.
	FindContainer(ctx context.Context, name string) (*Container, error)

	// StartContainer starts an existing (stopped) container.
	StartContainer(ctx context.Context, id string) error

	// StopContainer stops a running container, waiting for it to exit.
	StopContainer(ctx context.Context, id string) error

	// Close releases client resources.
	Close() error
}
