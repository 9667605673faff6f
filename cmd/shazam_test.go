package cmd

import (
	"context"
	"strings"
	"testing"

	"github.com/toolcrate/toolcrate/internal/docker"
)

// recordingRunner captures docker invocations made by passthrough
// commands.
type recordingRunner struct {
	calls [][]string
}

func (r *recordingRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	return []byte("ok\n"), nil
}

func useRecordingDocker(t *testing.T) *recordingRunner {
	t.Helper()
	r := &recordingRunner{}
	orig := newDockerClient
	newDockerClient = func(container, composeFile string) *docker.Client {
		return &docker.Client{Runner: r, Container: container, ComposeFile: composeFile}
	}
	t.Cleanup(func() { newDockerClient = orig })
	return r
}

func TestShazamForwardsArgs(t *testing.T) {
	useTestConfig(t)
	r := useRecordingDocker(t)

	ctx := newTestContext(t, "shazam", "recognize", "/music/unknown.mp3")
	if err := shazamRun(ctx); err != nil {
		t.Fatal(err)
	}

	if len(r.calls) != 1 {
		t.Fatalf("expected one docker call, got %d", len(r.calls))
	}
	got := strings.Join(r.calls[0], " ")
	want := "docker run --rm -i -v /home/u/Music:/music shazam-tool recognize /music/unknown.mp3"
	if got != want {
		t.Errorf("argv mismatch:\nwant %q\ngot  %q", want, got)
	}
}

func TestShazamNoArgsStillRuns(t *testing.T) {
	useTestConfig(t)
	r := useRecordingDocker(t)

	if err := shazamRun(newTestContext(t, "shazam")); err != nil {
		t.Fatal(err)
	}
	if len(r.calls) != 1 {
		t.Fatalf("expected the tool to run with no args, got %d calls", len(r.calls))
	}
}
