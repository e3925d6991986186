package track

import "time"

// Kind classifies a span of time as focused or idle.
type Kind string

const (
	Focus Kind = "focus"
	Idle  Kind = "idle"
)

// Interval is a maximal contiguous span of time carrying a single
// classification. Timestamps are UTC; End never precedes Start in a
// well-formed log.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Kind  Kind      `json:"kind"`
}

func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Log is the ordered sequence of recorded intervals, sorted by start
// time with no overlaps. Gaps are permitted where sampling was paused.
type Log struct {
	Intervals []Interval `json:"intervals"`
}

// Prune drops intervals that ended before the horizon. Intervals ending
// exactly at the horizon are kept.
func (l *Log) Prune(horizon time.Time) {
	kept := l.Intervals[:0]
	for _, iv := range l.Intervals {
		if !iv.End.Before(horizon) {
			kept = append(kept, iv)
		}
	}
	l.Intervals = kept
}

// Snapshot returns a copy of the intervals that is safe to hand to
// readers while the tracker keeps mutating the log.
func (l *Log) Snapshot() []Interval {
	out := make([]Interval, len(l.Intervals))
	copy(out, l.Intervals)
	return out
}
