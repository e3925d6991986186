// Package stats derives reporting summaries from a snapshot of the
// interval log. Everything here is pure: no persistence, no mutation of
// the snapshot, recomputed per request.
package stats

import (
	"sort"
	"time"

	"flowtrack/internal/track"
)

// DateLayout keys the daily buckets; lexical order is chronological.
const DateLayout = "2006-01-02"

// Summary aggregates interval durations for one reporting window. The
// max/min fields are meaningful only when the matching count is
// nonzero.
type Summary struct {
	TotalFocus time.Duration
	TotalIdle  time.Duration
	FocusCount int
	IdleCount  int
	MaxFocus   time.Duration
	MinFocus   time.Duration
	MaxIdle    time.Duration
	MinIdle    time.Duration
}

// DayStats accumulates totals for one local calendar day.
type DayStats struct {
	TotalFocus    time.Duration
	TotalIdle     time.Duration
	FocusSessions int
	IdleSessions  int
}

// Stats is the full derived view over the interval log.
type Stats struct {
	// Daily buckets intervals by the local calendar date of their
	// start, keyed in DateLayout form.
	Daily map[string]DayStats

	Session Summary
	Today   Summary
	Week    Summary

	// TodayKey is the Daily key for now's local date.
	TodayKey string
	// WeekStart is local midnight of the most recent Monday.
	WeekStart time.Time
}

// Dates returns the bucketed days in chronological order.
func (s Stats) Dates() []string {
	out := make([]string, 0, len(s.Daily))
	for d := range s.Daily {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Summarize folds intervals into a Summary. Negative-duration
// intervals are skipped defensively.
func Summarize(intervals []track.Interval) Summary {
	var s Summary
	for _, iv := range intervals {
		d := iv.Duration()
		if d < 0 {
			continue
		}
		switch iv.Kind {
		case track.Focus:
			s.TotalFocus += d
			s.FocusCount++
			if s.FocusCount == 1 || d > s.MaxFocus {
				s.MaxFocus = d
			}
			if s.FocusCount == 1 || d < s.MinFocus {
				s.MinFocus = d
			}
		case track.Idle:
			s.TotalIdle += d
			s.IdleCount++
			if s.IdleCount == 1 || d > s.MaxIdle {
				s.MaxIdle = d
			}
			if s.IdleCount == 1 || d < s.MinIdle {
				s.MinIdle = d
			}
		}
	}
	return s
}

// Compute derives all reporting windows from a snapshot of the log.
// "Today" and the week bounds come from now's local date, so two calls
// at different moments may bucket differently; the result is
// deterministic for a fixed now. The session window starts at runStart,
// which is process launch time, not the last transition and not a
// calendar boundary.
func Compute(intervals []track.Interval, runStart, now time.Time) Stats {
	nowLocal := now.Local()
	today := midnight(nowLocal)
	weekStart := today.AddDate(0, 0, -daysFromMonday(nowLocal.Weekday()))
	weekEnd := weekStart.AddDate(0, 0, 7) // exclusive

	st := Stats{
		Daily:     make(map[string]DayStats),
		TodayKey:  today.Format(DateLayout),
		WeekStart: weekStart,
	}

	var session, todays, week []track.Interval
	for _, iv := range intervals {
		if iv.End.Before(iv.Start) {
			continue
		}
		day := midnight(iv.Start.Local())
		key := day.Format(DateLayout)

		ds := st.Daily[key]
		switch iv.Kind {
		case track.Focus:
			ds.TotalFocus += iv.Duration()
			ds.FocusSessions++
		case track.Idle:
			ds.TotalIdle += iv.Duration()
			ds.IdleSessions++
		}
		st.Daily[key] = ds

		if !iv.Start.Before(runStart) {
			session = append(session, iv)
		}
		if day.Equal(today) {
			todays = append(todays, iv)
		}
		if !day.Before(weekStart) && day.Before(weekEnd) {
			week = append(week, iv)
		}
	}

	st.Session = Summarize(session)
	st.Today = Summarize(todays)
	st.Week = Summarize(week)
	return st
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func daysFromMonday(w time.Weekday) int {
	return (int(w) + 6) % 7
}
