package dockerenv

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
)

// SDKClient implements Client using the Docker Engine SDK.
type SDKClient struct {
	cli *client.Client
}

// NewSDKClient creates an SDKClient that connects to the Docker daemon
// via the default socket (DOCKER_HOST or /var/run/docker.sock).
func NewSDKClient() (*SDKClient, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("docker sdk: %w", err)
	}
	return &SDKClient{cli: cli}, nil
}

// Installed checks for a docker binary on PATH. A missing binary means
// Docker Desktop / Engine was never installed; a present binary with a
// failing Ping means it is installed but not running.
func (s *SDKClient) Installed() bool {
	_, err := exec.LookPath("docker")
	return err == nil
}

func (s *SDKClient) Ping(ctx context.Context) error {
	if _, err := s.cli.Ping(ctx); err != nil {
		return fmt.Errorf("docker ping: %w", err)
	}
	return nil
}

func (s *SDKClient) FindContainer(ctx context.Context, name string) (*Container, error) {
	raw, err := s.cli.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("name", name)),
	})
	if err != nil {
		return nil, fmt.Errorf("container list: %w", err)
	}

	// The name filter matches substrings; require an exact name.
	for _, c := range raw {
		for _, n := range c.Names {
			if strings.TrimPrefix(n, "/") == name {
				return &Container{
					ID:     c.ID,
					Name:   name,
					Image:  c.Image,
					State:  c.State,
					Health: parseHealthFromStatus(c.State, c.Status),
				}, nil
			}
		}
	}
	return nil, nil
}

func (s *SDKClient) StartContainer(ctx context.Context, id string) error {
	if err := s.cli.ContainerStart(ctx, id, container.StartOptions{}); err != nil {
		return fmt.Errorf("container start: %w", err)
	}
	return nil
}

func (s *SDKClient) StopContainer(ctx context.Context, id string) error {
	if err := s.cli.ContainerStop(ctx, id, container.StopOptions{}); err != nil {
		return fmt.Errorf("container stop: %w", err)
	}
	return nil
}

func (s *SDKClient) Close() error {
	return s.cli.Close()
}

// parseHealthFromStatus extracts the health status from Docker's
// human-readable Status string (e.g. "Up 2 hours (unhealthy)"). Returns
// "healthy", "unhealthy", "starting", or "" if no healthcheck is configured.
func parseHealthFromStatus(state, status string) string {
	if state != "running" || status == "" {
		return ""
	}
	lower := strings.ToLower(status)
	if strings.HasSuffix(lower, "(unhealthy)") {
		return "unhealthy"
	}
	if strings.HasSuffix(lower, "(healthy)") {
		return "healthy"
	}
	if strings.HasSuffix(lower, "(health: starting)") {
		return "starting"
	}
	return ""
}
