package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"flowtrack/internal/track"
)

type jsonExport struct {
	ExportedAt string         `json:"exported_at"`
	Count      int            `json:"count"`
	Intervals  []jsonInterval `json:"intervals"`
}

type jsonInterval struct {
	Start       string `json:"start"`
	End         string `json:"end"`
	Kind        string `json:"kind"`
	DurationSec int64  `json:"duration_seconds"`
	Duration    string `json:"duration"`
}

// ToJSON writes the intervals with both machine and human readable
// durations.
func ToJSON(intervals []track.Interval, path string) error {
	out := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(intervals),
	}

	for _, iv := range intervals {
		secs := int64(iv.Duration().Seconds())
		out.Intervals = append(out.Intervals, jsonInterval{
			Start:       iv.Start.UTC().Format(time.RFC3339),
			End:         iv.End.UTC().Format(time.RFC3339),
			Kind:        string(iv.Kind),
			DurationSec: secs,
			Duration:    formatDuration(secs),
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
