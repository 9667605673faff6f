package queue

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
)

func fixedClock() func() time.Time {
	at := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestRecordSuccessMovesEntry(t *testing.T) {
	fs := afero.NewMemMapFs()
	live := "# comment\nhttps://example.com/a\nsearch term B\n"
	if err := afero.WriteFile(fs, "queue.txt", []byte(live), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := NewRecorder(fs, "queue.txt", "processed.txt", fixedClock())
	if err := rec.RecordSuccess(Entry{Line: 2, Text: "https://example.com/a"}); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	got, _ := afero.ReadFile(fs, "queue.txt")
	want := "# comment\nsearch term B\n"
	if string(got) != want {
		t.Errorf("live file mismatch:\nwant %q\ngot  %q", want, got)
	}

	backup, _ := afero.ReadFile(fs, "processed.txt")
	if !strings.Contains(string(backup), "# Processed at 2025-06-01T09:00:00Z") {
		t.Errorf("expected Processed timestamp comment, got:\n%s", backup)
	}
	if !strings.Contains(string(backup), "https://example.com/a") {
		t.Errorf("expected entry in backup, got:\n%s", backup)
	}
}

func TestRecordSuccessPreservesCommentsAndOrder(t *testing.T) {
	fs := afero.NewMemMapFs()
	live := strings.Join([]string{
		"# top comment",
		"entry one",
		"",
		"# middle comment",
		"entry two",
		"entry three",
		"# bottom comment",
		"",
	}, "\n")
	if err := afero.WriteFile(fs, "queue.txt", []byte(live), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := NewRecorder(fs, "queue.txt", "processed.txt", fixedClock())
	if err := rec.RecordSuccess(Entry{Line: 5, Text: "entry two"}); err != nil {
		t.Fatal(err)
	}

	got, _ := afero.ReadFile(fs, "queue.txt")
	want := strings.Join([]string{
		"# top comment",
		"entry one",
		"",
		"# middle comment",
		"entry three",
		"# bottom comment",
		"",
	}, "\n")
	if string(got) != want {
		t.Errorf("comments/order not preserved:\nwant %q\ngot  %q", want, got)
	}
}

func TestRecordSuccessRemovesSingleOccurrence(t *testing.T) {
	fs := afero.NewMemMapFs()
	live := "dup entry\nother\ndup entry\n"
	if err := afero.WriteFile(fs, "queue.txt", []byte(live), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := NewRecorder(fs, "queue.txt", "processed.txt", fixedClock())
	if err := rec.RecordSuccess(Entry{Line: 1, Text: "dup entry"}); err != nil {
		t.Fatal(err)
	}

	got, _ := afero.ReadFile(fs, "queue.txt")
	// The second copy stays: duplicated lines are processed independently.
	want := "other\ndup entry\n"
	if string(got) != want {
		t.Errorf("expected one occurrence removed:\nwant %q\ngot  %q", want, got)
	}
}

func TestRecordSuccessBackupBeforeRewrite(t *testing.T) {
	// Read-only live file: the rewrite fails, but the backup append must
	// already have happened. The entry then exists in both files, never
	// in neither.
	base := afero.NewMemMapFs()
	if err := afero.WriteFile(base, "queue.txt", []byte("entry one\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	fs := &renameFailFs{Fs: base}

	rec := NewRecorder(fs, "queue.txt", "processed.txt", fixedClock())
	err := rec.RecordSuccess(Entry{Line: 1, Text: "entry one"})
	if err == nil {
		t.Fatal("expected rewrite failure")
	}

	backup, _ := afero.ReadFile(base, "processed.txt")
	if !strings.Contains(string(backup), "entry one") {
		t.Errorf("backup must be written before the live rewrite, got:\n%s", backup)
	}
	live, _ := afero.ReadFile(base, "queue.txt")
	if !strings.Contains(string(live), "entry one") {
		t.Errorf("live file must be untouched after failed rewrite, got:\n%s", live)
	}
}

func TestRecordSuccessMissingLiveFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	rec := NewRecorder(fs, "queue.txt", "processed.txt", fixedClock())
	// Live file vanished between parse and record: backup still written,
	// removal is a no-op.
	if err := rec.RecordSuccess(Entry{Line: 1, Text: "ghost"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	backup, _ := afero.ReadFile(fs, "processed.txt")
	if !strings.Contains(string(backup), "ghost") {
		t.Errorf("expected backup entry, got:\n%s", backup)
	}
}

// renameFailFs fails every Rename, simulating a crash mid-rewrite.
type renameFailFs struct {
	afero.Fs
}

func (f *renameFailFs) Rename(oldname, newname string) error {
	return afero.ErrFileClosed
}
