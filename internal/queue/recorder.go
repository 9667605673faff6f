package queue

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// Recorder mutates the live and backup files after an entry has been
// dispatched. The backup append always happens before the live-file
// rewrite, so a crash in between leaves the entry in both files (a
// harmless re-attempt) but never in neither.
type Recorder struct {
	fs         afero.Fs
	livePath   string
	backupPath string
	now        func() time.Time

	// KeepLive leaves successful entries in the live file. The wishlist
	// profile sets this: its entries are re-checked on every run for
	// better quality copies, and the backup file serves as a ledger only.
	KeepLive bool
}

// NewRecorder builds a Recorder over the given live and backup files.
// now may be nil, defaulting to time.Now.
func NewRecorder(fs afero.Fs, livePath, backupPath string, now func() time.Time) *Recorder {
	if now == nil {
		now = time.Now
	}
	return &Recorder{fs: fs, livePath: livePath, backupPath: backupPath, now: now}
}

// RecordSuccess appends a timestamped copy of the entry to the backup
// file and then removes it from the live file. All other lines,
// including comments and blanks, keep their original order and
// formatting.
func (r *Recorder) RecordSuccess(e Entry) error {
	if err := r.appendBackup(e); err != nil {
		return err
	}
	if r.KeepLive {
		return nil
	}
	return r.removeFromLive(e)
}

func (r *Recorder) appendBackup(e Entry) error {
	if err := r.fs.MkdirAll(filepath.Dir(r.backupPath), 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}
	f, err := r.fs.OpenFile(r.backupPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open backup file: %w", err)
	}
	defer f.Close()
	rec := fmt.Sprintf("# Processed at %s\n%s\n\n", r.now().Format(time.RFC3339), e.Text)
	if _, err := f.WriteString(rec); err != nil {
		return fmt.Errorf("append backup entry: %w", err)
	}
	return nil
}

// removeFromLive rewrites the live file without the first line whose
// trimmed content equals the entry text. Only one occurrence is removed
// so that a deliberately duplicated entry is still processed on its own.
// The rewrite goes through a temp file and rename, never an in-place
// truncation.
func (r *Recorder) removeFromLive(e Entry) error {
	data, err := afero.ReadFile(r.fs, r.livePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read queue file: %w", err)
	}

	lines := strings.Split(string(data), "\n")
	removed := false
	kept := lines[:0]
	for _, line := range lines {
		if !removed && strings.TrimSpace(line) == e.Text {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	if !removed {
		return nil
	}

	tmp := r.livePath + ".tmp"
	if err := afero.WriteFile(r.fs, tmp, []byte(strings.Join(kept, "\n")), 0o644); err != nil {
		return fmt.Errorf("write queue temp file: %w", err)
	}
	if err := r.fs.Rename(tmp, r.livePath); err != nil {
		r.fs.Remove(tmp)
		return fmt.Errorf("replace queue file: %w", err)
	}
	return nil
}
