package queue

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/afero"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAcquireLockExclusive(t *testing.T) {
	fs := afero.NewMemMapFs()
	log := discardLogger()

	lock, err := AcquireLock(fs, "run.lock", time.Hour, log)
	if err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}

	_, err = AcquireLock(fs, "run.lock", time.Hour, log)
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked for fresh lock, got %v", err)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if _, err := AcquireLock(fs, "run.lock", time.Hour, log); err != nil {
		t.Fatalf("acquire after release failed: %v", err)
	}
}

func TestAcquireLockReclaimsStale(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "run.lock", []byte("pid 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-2 * time.Hour)
	if err := fs.Chtimes("run.lock", old, old); err != nil {
		t.Fatal(err)
	}

	lock, err := AcquireLock(fs, "run.lock", time.Hour, discardLogger())
	if err != nil {
		t.Fatalf("expected stale lock to be reclaimed, got %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatal(err)
	}
	if ok, _ := afero.Exists(fs, "run.lock"); ok {
		t.Error("lock file should be gone after release")
	}
}

func TestReclaimLeavesNoResidue(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "run.lock", []byte("pid 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-2 * time.Hour)
	if err := fs.Chtimes("run.lock", old, old); err != nil {
		t.Fatal(err)
	}

	lock, err := AcquireLock(fs, "run.lock", time.Hour, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer lock.Release()

	files, err := afero.ReadDir(fs, ".")
	if err != nil {
		t.Fatal(err)
	}
	for _, fi := range files {
		if fi.Name() != "run.lock" {
			t.Errorf("reclaim left %q behind", fi.Name())
		}
	}
}

func TestReclaimSparesFreshenedSentinel(t *testing.T) {
	fs := afero.NewMemMapFs()
	// The sentinel looks fresh by the time the reclaimer moves it
	// aside, as if another run replaced it after the initial stat.
	if err := afero.WriteFile(fs, "run.lock", []byte("pid 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := reclaimStale(fs, "run.lock", time.Hour, discardLogger())
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked for a live sentinel, got %v", err)
	}
	if ok, _ := afero.Exists(fs, "run.lock"); !ok {
		t.Error("live sentinel must be restored, not deleted")
	}
}

func TestReclaimSentinelAlreadyGone(t *testing.T) {
	fs := afero.NewMemMapFs()

	// Another contender reclaimed it between stat and rename.
	if err := reclaimStale(fs, "run.lock", time.Hour, discardLogger()); err != nil {
		t.Fatalf("missing sentinel must not fail the reclaim, got %v", err)
	}
}

func TestReleaseIdempotent(t *testing.T) {
	fs := afero.NewMemMapFs()
	lock, err := AcquireLock(fs, "run.lock", time.Hour, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("first release failed: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("second release must be a no-op, got %v", err)
	}

	var nilLock *FileLock
	if err := nilLock.Release(); err != nil {
		t.Fatalf("nil release must be a no-op, got %v", err)
	}
}

func TestLockDefaultStaleness(t *testing.T) {
	fs := afero.NewMemMapFs()
	log := discardLogger()

	if _, err := AcquireLock(fs, "run.lock", 0, log); err != nil {
		t.Fatal(err)
	}
	// Fresh lock, default threshold: second acquire must fail.
	if _, err := AcquireLock(fs, "run.lock", 0, log); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestLockTouchPreventsReclaim(t *testing.T) {
	fs := afero.NewMemMapFs()
	log := discardLogger()

	lock, err := AcquireLock(fs, "run.lock", time.Hour, log)
	if err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-2 * time.Hour)
	if err := fs.Chtimes("run.lock", old, old); err != nil {
		t.Fatal(err)
	}
	lock.Touch()

	if _, err := AcquireLock(fs, "run.lock", time.Hour, log); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected touched lock to stay held, got %v", err)
	}
}
