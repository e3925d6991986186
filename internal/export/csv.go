// Package export dumps the interval log to files that outside tooling
// can consume.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"flowtrack/internal/track"
)

// ToCSV writes one row per interval.
func ToCSV(intervals []track.Interval, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"Start", "End", "Kind", "Duration (s)", "Duration"}); err != nil {
		return err
	}

	for _, iv := range intervals {
		secs := int64(iv.Duration().Seconds())
		row := []string{
			iv.Start.UTC().Format(time.RFC3339),
			iv.End.UTC().Format(time.RFC3339),
			string(iv.Kind),
			fmt.Sprintf("%d", secs),
			formatDuration(secs),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func formatDuration(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
