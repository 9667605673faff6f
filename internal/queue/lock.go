package queue

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// ErrLocked is returned by AcquireLock when another run holds a fresh
// lock. Callers surface it with a distinct exit code so schedulers can
// tell "skipped due to overlap" apart from "ran and failed".
var ErrLocked = errors.New("queue is locked by another run")

// DefaultLockStaleAfter is the age beyond which a lock sentinel is
// presumed abandoned by a crashed run and may be reclaimed.
const DefaultLockStaleAfter = 6 * time.Hour

// FileLock is a sentinel-file advisory lock: existence means locked, the
// sentinel's mtime is the staleness signal. The content (pid and start
// time) is written for diagnostics only.
type FileLock struct {
	fs   afero.Fs
	path string
	held bool
}

// AcquireLock takes the lock at path. It fails with ErrLocked if a
// sentinel younger than staleAfter exists; an older sentinel is treated
// as abandoned, logged as a warning and reclaimed. staleAfter <= 0 uses
// DefaultLockStaleAfter.
func AcquireLock(fs afero.Fs, path string, staleAfter time.Duration, log *slog.Logger) (*FileLock, error) {
	if staleAfter <= 0 {
		staleAfter = DefaultLockStaleAfter
	}
	fi, err := fs.Stat(path)
	switch {
	case err == nil:
		age := time.Since(fi.ModTime())
		if age < staleAfter {
			return nil, fmt.Errorf("%w (held for %s)", ErrLocked, age.Round(time.Second))
		}
		if err := reclaimStale(fs, path, staleAfter, log); err != nil {
			return nil, err
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("stat lock file: %w", err)
	}

	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}
	f, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			// Raced with another run between stat and create.
			return nil, ErrLocked
		}
		return nil, fmt.Errorf("create lock file: %w", err)
	}
	fmt.Fprintf(f, "pid %d started %s\n", os.Getpid(), time.Now().Format(time.RFC3339))
	if err := f.Close(); err != nil {
		fs.Remove(path)
		return nil, fmt.Errorf("write lock file: %w", err)
	}
	return &FileLock{fs: fs, path: path, held: true}, nil
}

// reclaimStale removes an abandoned sentinel without ever deleting a
// live one. The sentinel is moved aside with a rename, which only one
// contender can win; its age is re-checked afterwards in case another
// run replaced the sentinel between the caller's stat and the rename.
func reclaimStale(fs afero.Fs, path string, staleAfter time.Duration, log *slog.Logger) error {
	aside := fmt.Sprintf("%s.reclaim-%d", path, os.Getpid())
	if err := fs.Rename(path, aside); err != nil {
		if os.IsNotExist(err) {
			// Another contender won the rename.
			return nil
		}
		return fmt.Errorf("reclaim stale lock: %w", err)
	}
	fi, err := fs.Stat(aside)
	if err == nil {
		age := time.Since(fi.ModTime())
		if age < staleAfter {
			// The sentinel belongs to a run that started after our
			// stat; restore it.
			fs.Rename(aside, path)
			return fmt.Errorf("%w (held for %s)", ErrLocked, age.Round(time.Second))
		}
		log.Warn("reclaiming stale queue lock", "path", path, "age", age.Round(time.Second))
	}
	if err := fs.Remove(aside); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reclaim stale lock: %w", err)
	}
	return nil
}

// Touch refreshes the sentinel's mtime so a long-running holder is not
// mistaken for a stale lock.
func (l *FileLock) Touch() {
	if l == nil || !l.held {
		return
	}
	now := time.Now()
	l.fs.Chtimes(l.path, now, now)
}

// Release removes the lock sentinel. It is idempotent: releasing an
// already-released lock is a no-op.
func (l *FileLock) Release() error {
	if l == nil || !l.held {
		return nil
	}
	l.held = false
	if err := l.fs.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove lock file: %w", err)
	}
	return nil
}
