package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/afero"
)

// Outcome is the per-entry result of a run. Err is nil for a successful
// dispatch and the dispatcher's error otherwise.
type Outcome struct {
	Entry Entry
	Err   error
}

// RunResult summarizes one processing run.
type RunResult struct {
	Attempted int
	Succeeded int
	Failed    int
	Outcomes  []Outcome
}

// Processor drives one run over a queue file: lock, parse, dispatch each
// entry in order, record outcomes, release. Entries are dispatched
// strictly one at a time; only one session with the download service may
// be open at once.
type Processor struct {
	FS         afero.Fs
	LivePath   string
	BackupPath string
	LockPath   string
	// LockStaleAfter is the lock staleness threshold; zero means
	// DefaultLockStaleAfter.
	LockStaleAfter time.Duration
	// KeepOnSuccess leaves successful entries in the live file (wishlist
	// semantics); they are still appended to the backup ledger.
	KeepOnSuccess bool
	Dispatcher    Dispatcher
	Log           *slog.Logger

	// OnEntry, when set, is called after each entry finishes. i is
	// 0-based, total is the number of entries in this run.
	OnEntry func(i, total int, e Entry, err error)

	// Now overrides the clock in tests.
	Now func() time.Time
}

// Run performs one synchronous processing run. Per-entry dispatch
// failures are recorded and never abort the run; lock and file I/O
// failures do. The lock is released on every return path.
func (p *Processor) Run(ctx context.Context) (*RunResult, error) {
	lock, err := AcquireLock(p.FS, p.LockPath, p.LockStaleAfter, p.Log)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	entries, err := ReadEntries(p.FS, p.LivePath)
	if err != nil {
		return nil, err
	}
	res := &RunResult{}
	if len(entries) == 0 {
		p.Log.Info("queue is empty, nothing to process", "file", p.LivePath)
		return res, nil
	}

	rec := NewRecorder(p.FS, p.LivePath, p.BackupPath, p.Now)
	rec.KeepLive = p.KeepOnSuccess
	p.Log.Info("processing queue", "file", p.LivePath, "entries", len(entries))

	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			p.Log.Warn("run interrupted, remaining entries stay queued",
				"processed", res.Attempted, "remaining", len(entries)-i)
			return res, fmt.Errorf("run interrupted: %w", err)
		}

		res.Attempted++
		err := p.Dispatcher.Dispatch(ctx, e)
		if err == nil {
			if rerr := rec.RecordSuccess(e); rerr != nil {
				// File-shape invariants cannot be guaranteed once
				// I/O is failing; abort rather than recover partially.
				return res, rerr
			}
			res.Succeeded++
			p.Log.Info("entry processed", "line", e.Line, "entry", e.Text)
		} else {
			res.Failed++
			p.Log.Warn("entry failed, kept in queue for next run",
				"line", e.Line, "entry", e.Text, "err", err)
		}
		res.Outcomes = append(res.Outcomes, Outcome{Entry: e, Err: err})
		if p.OnEntry != nil {
			p.OnEntry(i, len(entries), e, err)
		}
		// A long run must not look like an abandoned lock.
		lock.Touch()
	}

	p.Log.Info("queue run complete",
		"attempted", res.Attempted, "succeeded", res.Succeeded, "failed", res.Failed)
	return res, nil
}
