package cmd

import (
	"context"
	"strings"
	"testing"

	"github.com/toolcrate/toolcrate/internal/cron"
)

// fakeCrontab simulates the crontab binary: -l prints the stored text,
// - replaces it from stdin.
type fakeCrontab struct {
	content string
}

func (f *fakeCrontab) run(_ context.Context, stdin string, _ string, args ...string) ([]byte, error) {
	if len(args) > 0 && args[0] == "-" {
		f.content = stdin
		return nil, nil
	}
	return []byte(f.content), nil
}

func useFakeCrontab(t *testing.T) *fakeCrontab {
	t.Helper()
	f := &fakeCrontab{}
	origCron, origExe := newCrontab, executable
	newCrontab = func() *cron.Crontab { return &cron.Crontab{RunCommand: f.run} }
	executable = func() (string, error) { return "/usr/local/bin/toolcrate", nil }
	t.Cleanup(func() {
		newCrontab, executable = origCron, origExe
		schedFrequency, schedExpr = "", ""
	})
	return f
}

func TestScheduleSetHourly(t *testing.T) {
	f := useFakeCrontab(t)
	schedFrequency = "hourly"

	if err := scheduleSet(newTestContext(t, "set", "queue")); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(f.content, "0 * * * * /usr/local/bin/toolcrate queue run --no-progress") {
		t.Errorf("unexpected crontab:\n%s", f.content)
	}
}

func TestScheduleSetWishlistOffset(t *testing.T) {
	f := useFakeCrontab(t)
	schedFrequency = "daily"

	if err := scheduleSet(newTestContext(t, "set", "wishlist")); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(f.content, "30 0 * * * /usr/local/bin/toolcrate wishlist run --no-progress") {
		t.Errorf("wishlist job should run 30 minutes offset:\n%s", f.content)
	}
}

func TestScheduleSetRawExpr(t *testing.T) {
	f := useFakeCrontab(t)
	schedExpr = "15 3 * * 1"

	if err := scheduleSet(newTestContext(t, "set", "queue")); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(f.content, "15 3 * * 1 ") {
		t.Errorf("raw expression not installed:\n%s", f.content)
	}
}

func TestScheduleSetRejectsBadExpr(t *testing.T) {
	f := useFakeCrontab(t)
	schedExpr = "not a cron expr"

	if err := scheduleSet(newTestContext(t, "set", "queue")); err != nil {
		t.Fatal(err)
	}
	if f.content != "" {
		t.Errorf("invalid expression must not touch the crontab:\n%s", f.content)
	}
}

func TestScheduleSetQuotesSpacedPaths(t *testing.T) {
	f := useFakeCrontab(t)
	executable = func() (string, error) { return "/opt/my tools/toolcrate", nil }
	origPath := cfgPath
	cfgPath = "/home/u/my config/toolcrate.yaml"
	t.Cleanup(func() { cfgPath = origPath })
	schedFrequency = "hourly"

	if err := scheduleSet(newTestContext(t, "set", "queue")); err != nil {
		t.Fatal(err)
	}
	want := `0 * * * * "/opt/my tools/toolcrate" --config "/home/u/my config/toolcrate.yaml" queue run --no-progress`
	if !strings.Contains(f.content, want) {
		t.Errorf("spaced paths must be quoted:\n%s", f.content)
	}
}

func TestScheduleRemove(t *testing.T) {
	f := useFakeCrontab(t)
	schedFrequency = "hourly"
	if err := scheduleSet(newTestContext(t, "set", "queue")); err != nil {
		t.Fatal(err)
	}

	if err := scheduleRemove(newTestContext(t, "remove", "queue")); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(f.content, "queue run") {
		t.Errorf("job should be gone:\n%s", f.content)
	}
}

func TestScheduleSetUnknownProfile(t *testing.T) {
	f := useFakeCrontab(t)
	schedFrequency = "hourly"

	if err := scheduleSet(newTestContext(t, "set", "mixtape")); err != nil {
		t.Fatal(err)
	}
	if f.content != "" {
		t.Errorf("unknown profile must not touch the crontab:\n%s", f.content)
	}
}
