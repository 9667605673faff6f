package cmd

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestProfileAddAppendsEntry(t *testing.T) {
	fs := useTestConfig(t)

	ctx := newTestContext(t, "add", "artist", "-", "song")
	if err := profileAdd(ctx, "queue"); err != nil {
		t.Fatal(err)
	}

	data, err := afero.ReadFile(fs, "queue.txt")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "artist - song") {
		t.Errorf("entry missing from queue file:\n%s", data)
	}
}

func TestProfileAddHelpIsVerbatim(t *testing.T) {
	fs := useTestConfig(t)

	// A line is queued verbatim; "help" is a valid search term.
	ctx := newTestContext(t, "add", "help")
	if err := profileAdd(ctx, "queue"); err != nil {
		t.Fatal(err)
	}

	data, err := afero.ReadFile(fs, "queue.txt")
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "help" {
			found = true
		}
	}
	if !found {
		t.Errorf("entry %q should be queued, not treated as a help request:\n%s", "help", data)
	}
}

func TestProfileAddRejectsEmpty(t *testing.T) {
	useTestConfig(t)

	// No args; the action prints command help instead of writing.
	ctx := newTestContext(t, "add")
	if err := profileAdd(ctx, "queue"); err != nil {
		t.Fatal(err)
	}
}

func TestProfileClearForced(t *testing.T) {
	fs := useTestConfig(t)
	if err := afero.WriteFile(fs, "queue.txt", []byte("one\ntwo\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	forceClear = true
	defer func() { forceClear = false }()

	if err := profileClear(newTestContext(t, "clear"), "queue"); err != nil {
		t.Fatal(err)
	}
	data, err := afero.ReadFile(fs, "queue.txt")
	if err != nil {
		t.Fatal(err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			t.Errorf("unexpected surviving entry %q", line)
		}
	}
}

func TestProfileStatusMissingFiles(t *testing.T) {
	useTestConfig(t)

	// No queue, backup or lock file on disk yet.
	if err := profileStatus(newTestContext(t, "status"), "queue"); err != nil {
		t.Fatal(err)
	}
}

func TestProfileListEmpty(t *testing.T) {
	useTestConfig(t)

	if err := profileList(newTestContext(t, "list"), "wishlist"); err != nil {
		t.Fatal(err)
	}
}
