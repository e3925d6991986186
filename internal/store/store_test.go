package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"flowtrack/internal/track"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewAt(filepath.Join(t.TempDir(), "sub", "intervals.json"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func sampleLog() track.Log {
	start := time.Date(2023, 6, 15, 9, 0, 0, 0, time.UTC)
	return track.Log{Intervals: []track.Interval{
		{Start: start, End: start.Add(25 * time.Minute), Kind: track.Focus},
		{Start: start.Add(25 * time.Minute), End: start.Add(30 * time.Minute), Kind: track.Idle},
	}}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	want := sampleLog()

	if err := s.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(got.Intervals) != len(want.Intervals) {
		t.Fatalf("got %d intervals, want %d", len(got.Intervals), len(want.Intervals))
	}
	for i := range want.Intervals {
		w, g := want.Intervals[i], got.Intervals[i]
		if !g.Start.Equal(w.Start) || !g.End.Equal(w.End) || g.Kind != w.Kind {
			t.Errorf("interval %d: got %+v, want %+v", i, g, w)
		}
	}
}

func TestLoadMissingFileIsEmptyLog(t *testing.T) {
	s := newTestStore(t)

	log, err := s.Load()
	if err != nil {
		t.Fatalf("load on fresh install: %v", err)
	}
	if len(log.Intervals) != 0 {
		t.Fatalf("fresh install log has %d intervals", len(log.Intervals))
	}
}

func TestLoadCorruptFile(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(s.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Load(); err == nil {
		t.Fatal("corrupt log file loaded without error")
	}
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(sampleLog()); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(s.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Fatal("temp file left behind after save")
	}
}

func TestSaveReplacesExistingFile(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(sampleLog()); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(track.Log{}); err != nil {
		t.Fatal(err)
	}

	log, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(log.Intervals) != 0 {
		t.Fatalf("got %d intervals after overwrite, want 0", len(log.Intervals))
	}
}
