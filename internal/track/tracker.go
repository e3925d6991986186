// Package track maintains a persisted log of focus/idle intervals from
// periodic idle-time samples.
package track

import (
	"fmt"
	"time"
)

const (
	// gapThreshold is the longest silence between samples that still
	// extends the current interval. Anything longer means the sampling
	// loop itself stalled, and the stall must not be attributed to
	// either state.
	gapThreshold = 10 * time.Second

	// saveInterval caps how long recorded time may sit unpersisted.
	saveInterval = 30 * time.Second

	// retention is the horizon beyond which intervals are pruned on
	// every save.
	retention = 30 * 24 * time.Hour
)

// Persister stores and retrieves the interval log. Implemented by
// store.Store; tests substitute an in-memory fake.
type Persister interface {
	Load() (Log, error)
	Save(Log) error
}

// DayClock is a recurring local wall-clock time.
type DayClock struct {
	Hour   int
	Minute int
}

// ParseDayClock parses a local clock time in "HH:MM" form.
func ParseDayClock(s string) (DayClock, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return DayClock{}, fmt.Errorf("invalid clock time %q (want HH:MM)", s)
	}
	return DayClock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c DayClock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c DayClock) minutes() int {
	return c.Hour*60 + c.Minute
}

// Tracker consumes idle-time samples and mutates the interval log. It
// owns the log exclusively for the duration of a tracking run and is
// not safe for concurrent use: the scheduling loop must call Tick
// strictly sequentially with non-decreasing timestamps.
type Tracker struct {
	persist   Persister
	threshold time.Duration

	log Log

	runStart   time.Time
	lastKind   Kind
	kindSeen   bool
	stateStart time.Time
	lastSave   time.Time

	startAt *DayClock     // don't record before this local time
	endAt   *DayClock     // stop once this local time passes
	timeout time.Duration // stop after this much wall time, 0 = never
}

// New loads the persisted log and returns a tracker ready to tick.
func New(p Persister, threshold time.Duration, now time.Time) (*Tracker, error) {
	log, err := p.Load()
	if err != nil {
		return nil, err
	}
	return &Tracker{
		persist:    p,
		threshold:  threshold,
		log:        log,
		runStart:   now,
		stateStart: now,
		lastSave:   now,
	}, nil
}

// SetWindow bounds the tracking run: an optional local start and end
// clock time, and an optional maximum duration.
func (t *Tracker) SetWindow(startAt, endAt *DayClock, timeout time.Duration) {
	t.startAt = startAt
	t.endAt = endAt
	t.timeout = timeout
}

func (t *Tracker) SetThreshold(d time.Duration) { t.threshold = d }

func (t *Tracker) Threshold() time.Duration { return t.threshold }
func (t *Tracker) RunStart() time.Time      { return t.runStart }
func (t *Tracker) StartAt() *DayClock       { return t.startAt }
func (t *Tracker) EndAt() *DayClock         { return t.endAt }
func (t *Tracker) Timeout() time.Duration   { return t.timeout }

// State returns the classification of the previous tick, and whether
// any tick has happened yet this run.
func (t *Tracker) State() (Kind, bool) {
	return t.lastKind, t.kindSeen
}

// StateStart is when the current classification began.
func (t *Tracker) StateStart() time.Time {
	return t.stateStart
}

// Snapshot hands a read-only copy of the log to the aggregation and
// presentation layers.
func (t *Tracker) Snapshot() []Interval {
	return t.log.Snapshot()
}

// Tick classifies one sample and folds it into the log. A save is
// forced whenever the classification changed since the previous tick,
// and otherwise whenever more than saveInterval has elapsed since the
// last save. Persistence errors are returned unchanged, never retried.
func (t *Tracker) Tick(idleSeconds float64, now time.Time) error {
	kind := Focus
	if idleSeconds >= t.threshold.Seconds() {
		kind = Idle
	}

	t.apply(kind, idleSeconds, now)

	transition := !t.kindSeen || kind != t.lastKind
	if transition {
		t.stateStart = now
		t.lastKind = kind
		t.kindSeen = true
	}

	if transition || now.Sub(t.lastSave) > saveInterval {
		return t.save(now)
	}
	return nil
}

// apply mutates the log for a single classified sample.
func (t *Tracker) apply(kind Kind, idleSeconds float64, now time.Time) {
	if len(t.log.Intervals) == 0 {
		t.log.Intervals = append(t.log.Intervals, Interval{Start: now, End: now, Kind: kind})
		return
	}

	last := &t.log.Intervals[len(t.log.Intervals)-1]

	switch {
	case now.Sub(last.End) > gapThreshold:
		// The loop stalled (suspend, heavy load). Start fresh rather
		// than attributing the stall to either state.
		t.log.Intervals = append(t.log.Intervals, Interval{Start: now, End: now, Kind: kind})

	case kind == last.Kind:
		last.End = now

	case kind == Idle:
		// The oracle reports how long the user has already been idle,
		// so the true boundary sits idleSeconds in the past.
		idleStart := now.Add(-time.Duration(idleSeconds * float64(time.Second)))
		if !idleStart.After(last.Start) {
			// The whole last interval was idle from its own start:
			// reclassify in place instead of splitting.
			last.Kind = Idle
			last.End = now
		} else {
			last.End = idleStart
			t.log.Intervals = append(t.log.Intervals, Interval{Start: idleStart, End: now, Kind: Idle})
		}

	default: // Idle -> Focus
		last.End = now
		t.log.Intervals = append(t.log.Intervals, Interval{Start: now, End: now, Kind: Focus})
	}

	// Drop anything with a negative duration that slipped through.
	kept := t.log.Intervals[:0]
	for _, iv := range t.log.Intervals {
		if !iv.End.Before(iv.Start) {
			kept = append(kept, iv)
		}
	}
	t.log.Intervals = kept
}

func (t *Tracker) save(now time.Time) error {
	t.log.Prune(now.Add(-retention))
	if err := t.persist.Save(t.log); err != nil {
		return err
	}
	t.lastSave = now
	return nil
}

// Flush forces a save, for shutdown after the closing tick.
func (t *Tracker) Flush(now time.Time) error {
	return t.save(now)
}

// Reset clears the whole log and persists the empty state.
func (t *Tracker) Reset() error {
	t.log.Intervals = nil
	return t.persist.Save(t.log)
}

// ShouldTrack reports whether sampling is active at now. It is false
// only while waiting for a configured start time.
func (t *Tracker) ShouldTrack(now time.Time) bool {
	if t.startAt == nil {
		return true
	}
	local := now.Local()
	return local.Hour()*60+local.Minute() >= t.startAt.minutes()
}

// ShouldStop reports whether the run hit its configured end time or
// maximum duration.
func (t *Tracker) ShouldStop(now time.Time) bool {
	if t.timeout > 0 && now.Sub(t.runStart) >= t.timeout {
		return true
	}
	if t.endAt != nil {
		local := now.Local()
		if local.Hour()*60+local.Minute() >= t.endAt.minutes() {
			return true
		}
	}
	return false
}
