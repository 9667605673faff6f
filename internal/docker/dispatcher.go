package docker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/toolcrate/toolcrate/internal/config"
	"github.com/toolcrate/toolcrate/internal/queue"
)

// Dispatcher runs one sldl invocation per queue entry inside the
// container, bounded by the profile's entry timeout. It satisfies
// queue.Dispatcher.
type Dispatcher struct {
	client    *Client
	profile   config.Profile
	log       *slog.Logger
	container string
}

// NewDispatcher locates the running container once up front so a
// stopped stack fails the whole run immediately instead of once per
// entry.
func NewDispatcher(ctx context.Context, client *Client, profile config.Profile, log *slog.Logger) (*Dispatcher, error) {
	container, err := client.FindContainer(ctx)
	if err != nil {
		return nil, err
	}
	return &Dispatcher{client: client, profile: profile, log: log, container: container}, nil
}

// Dispatch hands the entry to sldl and blocks until it finishes or the
// entry timeout elapses. The entry text is a single positional argument;
// no shell is involved, so no quoting rules apply.
func (d *Dispatcher) Dispatch(ctx context.Context, e queue.Entry) error {
	timeout := d.profile.EntryTimeout
	if timeout <= 0 {
		timeout = time.Hour
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	argv := make([]string, 0, 5+len(d.profile.Flags))
	argv = append(argv, "sldl", "-c", d.profile.ConfPath, e.Text, "-p", d.profile.DownloadDir)
	argv = append(argv, d.profile.Flags...)

	d.log.Debug("dispatching entry", "container", d.container, "argv", argv)
	out, err := d.client.Exec(ctx, d.container, argv)
	if err == nil {
		return nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &queue.DispatchError{ExitCode: -1, TimedOut: true, Output: queue.OutputTail(out)}
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &queue.DispatchError{ExitCode: exitErr.ExitCode(), Output: queue.OutputTail(out)}
	}
	if tail := queue.OutputTail(out); tail != "" {
		return fmt.Errorf("run download tool: %w: %s", err, tail)
	}
	return fmt.Errorf("run download tool: %w", err)
}
