// Package docker reaches the sldl downloader running inside its Docker
// container: it locates the container, forwards commands via docker
// exec, and brings the compose stack up and down. Docker itself is an
// external collaborator driven through its CLI only.
package docker

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes an external command and returns its combined output.
// The production implementation shells out; tests substitute a fake.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func (f RunnerFunc) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return f(ctx, name, args...)
}

// ExecRunner runs commands through os/exec.
func ExecRunner() Runner {
	return RunnerFunc(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return exec.CommandContext(ctx, name, args...).CombinedOutput()
	})
}

// ErrContainerNotRunning is returned when no sldl container is up.
var ErrContainerNotRunning = errors.New("sldl container is not running (try `docker compose up -d`)")

// Client drives the docker CLI.
type Client struct {
	Runner Runner
	// Container is the configured container name. Detection also
	// accepts compose-style names such as project-sldl-1.
	Container string
	// ComposeFile is passed to docker compose when set.
	ComposeFile string
}

// NewClient builds a Client over the real docker binary.
func NewClient(container, composeFile string) *Client {
	return &Client{Runner: ExecRunner(), Container: container, ComposeFile: composeFile}
}

// FindContainer returns the name of the running container matching the
// configured name, either exactly or as a compose-generated variant.
func (c *Client) FindContainer(ctx context.Context) (string, error) {
	out, err := c.Runner.Run(ctx, "docker", "ps", "--format", "{{.Names}}")
	if err != nil {
		return "", fmt.Errorf("list containers: %w", err)
	}
	for _, name := range strings.Fields(string(out)) {
		if name == c.Container {
			return name, nil
		}
		// Compose names look like <project>-sldl-1 or <project>_sldl_1.
		if strings.Contains(name, "-"+c.Container+"-") ||
			strings.Contains(name, "_"+c.Container+"_") {
			return name, nil
		}
	}
	return "", ErrContainerNotRunning
}

// Exec runs argv inside the named container and returns its combined
// output.
func (c *Client) Exec(ctx context.Context, container string, argv []string) ([]byte, error) {
	args := append([]string{"exec", "-i", container}, argv...)
	return c.Runner.Run(ctx, "docker", args...)
}

// RunImage runs a one-off container from image, mounting musicDir at
// /music, and forwards argv to the image's entrypoint.
func (c *Client) RunImage(ctx context.Context, image, musicDir string, argv []string) ([]byte, error) {
	args := []string{"run", "--rm", "-i"}
	if musicDir != "" {
		args = append(args, "-v", musicDir+":/music")
	}
	args = append(args, image)
	args = append(args, argv...)
	return c.Runner.Run(ctx, "docker", args...)
}

// ComposeUp starts the stack in the background.
func (c *Client) ComposeUp(ctx context.Context) error {
	if out, err := c.Runner.Run(ctx, "docker", c.composeArgs("up", "-d")...); err != nil {
		return fmt.Errorf("docker compose up: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// ComposeDown stops the stack.
func (c *Client) ComposeDown(ctx context.Context) error {
	if out, err := c.Runner.Run(ctx, "docker", c.composeArgs("down")...); err != nil {
		return fmt.Errorf("docker compose down: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (c *Client) composeArgs(args ...string) []string {
	out := []string{"compose"}
	if c.ComposeFile != "" {
		out = append(out, "-f", c.ComposeFile)
	}
	return append(out, args...)
}
