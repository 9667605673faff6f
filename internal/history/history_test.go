package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/toolcrate/toolcrate/internal/queue"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordRunAndRecent(t *testing.T) {
	s := openTestStore(t)
	runAt := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	res := &queue.RunResult{
		Attempted: 3,
		Succeeded: 2,
		Failed:    1,
		Outcomes: []queue.Outcome{
			{Entry: queue.Entry{Line: 1, Text: "artist one - song"}},
			{Entry: queue.Entry{Line: 2, Text: "ghost track"}, Err: errors.New("no results")},
			{Entry: queue.Entry{Line: 3, Text: "artist two - song"}},
		},
	}
	if err := s.RecordRun(context.Background(), "queue", runAt, res); err != nil {
		t.Fatal(err)
	}

	records, err := s.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	// Newest first, so the last outcome comes back first.
	if records[0].Entry != "artist two - song" || records[0].Outcome != "success" {
		t.Errorf("unexpected first record: %+v", records[0])
	}
	if records[1].Entry != "ghost track" || records[1].Outcome != "failure" || records[1].Detail != "no results" {
		t.Errorf("unexpected failure record: %+v", records[1])
	}
	if records[0].Profile != "queue" {
		t.Errorf("expected profile queue, got %q", records[0].Profile)
	}
}

func TestRecordRunEmptyResultIsNoop(t *testing.T) {
	s := openTestStore(t)

	if err := s.RecordRun(context.Background(), "queue", time.Now(), &queue.RunResult{}); err != nil {
		t.Fatal(err)
	}
	records, err := s.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty ledger, got %d records", len(records))
	}
}

func TestRecentHonorsLimit(t *testing.T) {
	s := openTestStore(t)
	res := &queue.RunResult{Outcomes: []queue.Outcome{
		{Entry: queue.Entry{Line: 1, Text: "a"}},
		{Entry: queue.Entry{Line: 2, Text: "b"}},
		{Entry: queue.Entry{Line: 3, Text: "c"}},
	}}
	if err := s.RecordRun(context.Background(), "wishlist", time.Now(), res); err != nil {
		t.Fatal(err)
	}

	records, err := s.Recent(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Entry != "c" {
		t.Errorf("expected newest record first, got %q", records[0].Entry)
	}
}
