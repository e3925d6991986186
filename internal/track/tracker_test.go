package track

import (
	"errors"
	"testing"
	"time"
)

// fakePersister is an in-memory Persister that counts saves and can be
// made to fail.
type fakePersister struct {
	log   Log
	saves int
	fail  error
}

func (p *fakePersister) Load() (Log, error) { return p.log, nil }

func (p *fakePersister) Save(l Log) error {
	if p.fail != nil {
		return p.fail
	}
	p.log = Log{Intervals: append([]Interval(nil), l.Intervals...)}
	p.saves++
	return nil
}

var base = time.Date(2023, 1, 1, 10, 0, 0, 0, time.UTC)

func newTestTracker(t *testing.T) (*Tracker, *fakePersister) {
	t.Helper()
	p := &fakePersister{}
	tr, err := New(p, 5*time.Minute, base)
	if err != nil {
		t.Fatalf("new tracker: %v", err)
	}
	return tr, p
}

// tick fails the test on error, for the many cases where persistence
// cannot fail.
func tick(t *testing.T, tr *Tracker, idleSecs float64, now time.Time) {
	t.Helper()
	if err := tr.Tick(idleSecs, now); err != nil {
		t.Fatalf("tick at %v: %v", now, err)
	}
}

// checkLog asserts the exact sequence of intervals in the tracker.
func checkLog(t *testing.T, tr *Tracker, want []Interval) {
	t.Helper()
	got := tr.Snapshot()
	if len(got) != len(want) {
		t.Fatalf("got %d intervals, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if !got[i].Start.Equal(want[i].Start) || !got[i].End.Equal(want[i].End) || got[i].Kind != want[i].Kind {
			t.Errorf("interval %d: got %v..%v %s, want %v..%v %s",
				i, got[i].Start, got[i].End, got[i].Kind,
				want[i].Start, want[i].End, want[i].Kind)
		}
	}
}

// ============================================================
// Classification and log mutation
// ============================================================

func TestFirstTickSeedsLog(t *testing.T) {
	tr, _ := newTestTracker(t)
	tick(t, tr, 0, base)

	checkLog(t, tr, []Interval{{Start: base, End: base, Kind: Focus}})
}

func TestContinuationExtendsLastInterval(t *testing.T) {
	tr, _ := newTestTracker(t)
	tick(t, tr, 0, base)
	tick(t, tr, 0, base.Add(5*time.Second))
	tick(t, tr, 0, base.Add(10*time.Second))

	checkLog(t, tr, []Interval{{Start: base, End: base.Add(10 * time.Second), Kind: Focus}})
}

func TestGapStartsNewInterval(t *testing.T) {
	tr, _ := newTestTracker(t)
	tick(t, tr, 0, base)
	tick(t, tr, 0, base.Add(5*time.Second))

	// 11s of silence: suspend or loop stall, never attributed.
	resumed := base.Add(16 * time.Second)
	tick(t, tr, 0, resumed)

	checkLog(t, tr, []Interval{
		{Start: base, End: base.Add(5 * time.Second), Kind: Focus},
		{Start: resumed, End: resumed, Kind: Focus},
	})
}

func TestGapExactlyAtThresholdContinues(t *testing.T) {
	tr, _ := newTestTracker(t)
	tick(t, tr, 0, base)
	tick(t, tr, 0, base.Add(10*time.Second))

	checkLog(t, tr, []Interval{{Start: base, End: base.Add(10 * time.Second), Kind: Focus}})
}

func TestIdleBackdateSplitsFocusInterval(t *testing.T) {
	tr, _ := newTestTracker(t)
	for i := 0; i <= 120; i++ {
		tick(t, tr, 0, base.Add(time.Duration(i)*5*time.Second))
	}
	// Focus interval now spans base..base+600s. The oracle reports the
	// user has been idle for the last 300s, so the split lands mid-way.
	now := base.Add(600 * time.Second)
	tick(t, tr, 300, now)

	boundary := base.Add(300 * time.Second)
	checkLog(t, tr, []Interval{
		{Start: base, End: boundary, Kind: Focus},
		{Start: boundary, End: now, Kind: Idle},
	})
}

func TestIdleBackdateCollapsesWholeInterval(t *testing.T) {
	tr, _ := newTestTracker(t)
	for i := 0; i <= 60; i++ {
		tick(t, tr, 0, base.Add(time.Duration(i)*5*time.Second))
	}
	// Idle since base itself: the whole interval is reclassified rather
	// than split into a zero-length Focus plus an Idle.
	now := base.Add(300 * time.Second)
	tick(t, tr, 300, now)

	checkLog(t, tr, []Interval{{Start: base, End: now, Kind: Idle}})
}

func TestIdleBackdateBeyondIntervalStartCollapses(t *testing.T) {
	tr, _ := newTestTracker(t)
	tick(t, tr, 0, base)
	tick(t, tr, 0, base.Add(5*time.Second))

	// Reported idle reaches further back than the interval: still a
	// single reclassified interval, never a negative-length split.
	now := base.Add(10 * time.Second)
	tick(t, tr, 600, now)

	checkLog(t, tr, []Interval{{Start: base, End: now, Kind: Idle}})
}

func TestIdleToFocusClosesAndOpens(t *testing.T) {
	tr, _ := newTestTracker(t)
	tick(t, tr, 600, base)
	tick(t, tr, 605, base.Add(5*time.Second))

	now := base.Add(10 * time.Second)
	tick(t, tr, 0, now)

	checkLog(t, tr, []Interval{
		{Start: base, End: now, Kind: Idle},
		{Start: now, End: now, Kind: Focus},
	})
}

func TestNegativeIdleSecondsIsFocus(t *testing.T) {
	tr, _ := newTestTracker(t)
	tick(t, tr, -1, base)

	kind, seen := tr.State()
	if !seen || kind != Focus {
		t.Fatalf("got state %v seen=%v, want Focus", kind, seen)
	}
}

func TestLogStaysSortedWithoutOverlap(t *testing.T) {
	tr, _ := newTestTracker(t)
	idle := []float64{0, 0, 0, 400, 405, 0, 0, 320, 0}
	now := base
	for _, secs := range idle {
		now = now.Add(5 * time.Second)
		tick(t, tr, secs, now)
	}

	log := tr.Snapshot()
	for i := 1; i < len(log); i++ {
		if log[i].Start.Before(log[i-1].End) {
			t.Errorf("interval %d starts at %v before previous end %v", i, log[i].Start, log[i-1].End)
		}
	}
	for i, iv := range log {
		if iv.End.Before(iv.Start) {
			t.Errorf("interval %d has negative duration: %v..%v", i, iv.Start, iv.End)
		}
	}
}

// ============================================================
// Save policy
// ============================================================

func TestSaveForcedOnTransition(t *testing.T) {
	tr, p := newTestTracker(t)
	tick(t, tr, 0, base) // first tick is a transition
	if p.saves != 1 {
		t.Fatalf("after first tick: %d saves, want 1", p.saves)
	}

	tick(t, tr, 0, base.Add(5*time.Second)) // same state, within interval
	if p.saves != 1 {
		t.Fatalf("after continuation: %d saves, want 1", p.saves)
	}

	tick(t, tr, 600, base.Add(10*time.Second)) // Focus -> Idle
	if p.saves != 2 {
		t.Fatalf("after transition: %d saves, want 2", p.saves)
	}
}

func TestPeriodicSave(t *testing.T) {
	tr, p := newTestTracker(t)
	tick(t, tr, 0, base)

	// 30s since the last save is not yet "more than".
	tick(t, tr, 0, base.Add(30*time.Second))
	if p.saves != 1 {
		t.Fatalf("at 30s: %d saves, want 1", p.saves)
	}

	tick(t, tr, 0, base.Add(35*time.Second))
	if p.saves != 2 {
		t.Fatalf("at 35s: %d saves, want 2", p.saves)
	}
}

func TestPersistErrorPropagates(t *testing.T) {
	tr, p := newTestTracker(t)
	boom := errors.New("disk full")
	p.fail = boom

	if err := tr.Tick(0, base); !errors.Is(err, boom) {
		t.Fatalf("got %v, want %v", err, boom)
	}
}

func TestPruneOnSave(t *testing.T) {
	old := base.Add(-31 * 24 * time.Hour)
	recent := base.Add(-29 * 24 * time.Hour)
	p := &fakePersister{log: Log{Intervals: []Interval{
		{Start: old, End: old.Add(time.Hour), Kind: Focus},
		{Start: recent, End: recent.Add(time.Hour), Kind: Focus},
	}}}
	tr, err := New(p, 5*time.Minute, base)
	if err != nil {
		t.Fatal(err)
	}

	tick(t, tr, 0, base)

	for _, iv := range p.log.Intervals {
		if iv.Start.Equal(old) {
			t.Fatal("interval older than the retention horizon survived a save")
		}
	}
	found := false
	for _, iv := range p.log.Intervals {
		if iv.Start.Equal(recent) {
			found = true
		}
	}
	if !found {
		t.Fatal("interval within the retention horizon was pruned")
	}
}

func TestFlushSaves(t *testing.T) {
	tr, p := newTestTracker(t)
	tick(t, tr, 0, base)
	tick(t, tr, 0, base.Add(5*time.Second))

	if err := tr.Flush(base.Add(5 * time.Second)); err != nil {
		t.Fatal(err)
	}
	if p.saves != 2 {
		t.Fatalf("got %d saves, want 2", p.saves)
	}
	if got := p.log.Intervals[0].End; !got.Equal(base.Add(5 * time.Second)) {
		t.Fatalf("flushed end %v, want %v", got, base.Add(5*time.Second))
	}
}

func TestResetClearsLog(t *testing.T) {
	tr, p := newTestTracker(t)
	tick(t, tr, 0, base)

	if err := tr.Reset(); err != nil {
		t.Fatal(err)
	}
	if len(tr.Snapshot()) != 0 {
		t.Fatal("log not empty after reset")
	}
	if len(p.log.Intervals) != 0 {
		t.Fatal("persisted log not empty after reset")
	}
}

// ============================================================
// Tracking window
// ============================================================

func localTime(hour, min int) time.Time {
	return time.Date(2023, 6, 15, hour, min, 0, 0, time.Local)
}

func TestShouldTrackBeforeStartTime(t *testing.T) {
	tr, _ := newTestTracker(t)
	start := DayClock{Hour: 9, Minute: 0}
	tr.SetWindow(&start, nil, 0)

	if tr.ShouldTrack(localTime(8, 59)) {
		t.Error("tracking before the configured start time")
	}
	if !tr.ShouldTrack(localTime(9, 0)) {
		t.Error("not tracking at the configured start time")
	}
}

func TestShouldTrackDefault(t *testing.T) {
	tr, _ := newTestTracker(t)
	if !tr.ShouldTrack(localTime(0, 0)) {
		t.Error("not tracking with no window configured")
	}
}

func TestShouldStopAtEndTime(t *testing.T) {
	tr, _ := newTestTracker(t)
	end := DayClock{Hour: 17, Minute: 30}
	tr.SetWindow(nil, &end, 0)

	if tr.ShouldStop(localTime(17, 29)) {
		t.Error("stopped before the configured end time")
	}
	if !tr.ShouldStop(localTime(17, 30)) {
		t.Error("did not stop at the configured end time")
	}
}

func TestShouldStopOnTimeout(t *testing.T) {
	p := &fakePersister{}
	tr, err := New(p, 5*time.Minute, base)
	if err != nil {
		t.Fatal(err)
	}
	tr.SetWindow(nil, nil, time.Hour)

	if tr.ShouldStop(base.Add(59 * time.Minute)) {
		t.Error("stopped before the timeout")
	}
	if !tr.ShouldStop(base.Add(time.Hour)) {
		t.Error("did not stop at the timeout")
	}
}

// ============================================================
// DayClock
// ============================================================

func TestParseDayClock(t *testing.T) {
	c, err := ParseDayClock("09:30")
	if err != nil {
		t.Fatal(err)
	}
	if c.Hour != 9 || c.Minute != 30 {
		t.Fatalf("got %+v, want 09:30", c)
	}
	if c.String() != "09:30" {
		t.Fatalf("String() = %q", c.String())
	}

	for _, bad := range []string{"", "9", "25:00", "12:60", "noon"} {
		if _, err := ParseDayClock(bad); err == nil {
			t.Errorf("ParseDayClock(%q) accepted", bad)
		}
	}
}
