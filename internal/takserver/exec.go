package takserver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
)

// Up runs `docker compose up -d` for the project. Command output is
// streamed to w when non-nil. Returns when the command completes.
func (p *Project) Up(ctx context.Context, w io.Writer) error {
	return p.run(ctx, w, "up", "-d")
}

// Stop runs `docker compose stop` for the project.
func (p *Project) Stop(ctx context.Context, w io.Writer) error {
	return p.run(ctx, w, "stop")
}

// Down runs `docker compose down` for the project.
func (p *Project) Down(ctx context.Context, w io.Writer) error {
	return p.run(ctx, w, "down")
}

// run executes a docker compose subcommand in the project directory.
// stderr is captured separately so failures carry compose's own message.
func (p *Project) run(ctx context.Context, w io.Writer, args ...string) error {
	full := append([]string{"compose", "-f", p.ComposeFile}, args...)
	cmd := exec.CommandContext(ctx, "docker", full...)
	cmd.Dir = p.Dir

	var stderr bytes.Buffer
	if w != nil {
		cmd.Stdout = w
	}
	cmd.Stderr = &stderr

	slog.Debug("compose", "dir", p.Dir, "args", args)
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return fmt.Errorf("docker compose %s: %w", strings.Join(args, " "), err)
		}
		return fmt.Errorf("docker compose %s: %s", strings.Join(args, " "), msg)
	}
	return nil
}
