package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"flowtrack/internal/config"
	"flowtrack/internal/export"
	"flowtrack/internal/idle"
	"flowtrack/internal/report"
	"flowtrack/internal/stats"
	"flowtrack/internal/store"
	"flowtrack/internal/track"
	"flowtrack/internal/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "flowtrack",
		Short:         "Track focus and idle time from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newStartCmd(), newReportCmd(), newExportCmd(), newResetCmd())
	return root
}

func newStartCmd() *cobra.Command {
	var thresholdMins int
	var startTime, endTime, timeout string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start tracking focus/idle time",
		RunE: func(_ *cobra.Command, _ []string) error {
			dir, err := config.Dir()
			if err != nil {
				return err
			}
			cfg, err := config.Load(dir)
			if err != nil {
				return err
			}
			session, err := cfg.Resolve(thresholdMins, startTime, endTime, timeout)
			if err != nil {
				return err
			}

			// One tracking session per interval log.
			lock, err := store.AcquireLock(filepath.Join(dir, "flowtrack.lock"))
			if err != nil {
				return err
			}
			defer lock.Release()

			st, err := store.New()
			if err != nil {
				return err
			}

			now := time.Now().UTC()
			tracker, err := track.New(st, session.Threshold, now)
			if err != nil {
				return err
			}
			tracker.SetWindow(session.StartAt, session.EndAt, session.Timeout)

			oracle := idle.Probe()
			p := tea.NewProgram(tui.NewApp(tracker, oracle, dir), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return err
			}

			// Closing tick and forced save, so the final interval's end
			// reflects the real stop time.
			now = time.Now().UTC()
			if tracker.ShouldTrack(now) {
				if err := tracker.Tick(oracle(), now); err != nil {
					return err
				}
			}
			if err := tracker.Flush(now); err != nil {
				return err
			}

			fmt.Println("\nSession ended.")
			return printReport(st)
		},
	}
	cmd.Flags().IntVarP(&thresholdMins, "threshold", "t", 0, "idle threshold in minutes")
	cmd.Flags().StringVar(&startTime, "start-time", "", "don't record before this local time (HH:MM)")
	cmd.Flags().StringVar(&endTime, "end-time", "", "stop tracking at this local time (HH:MM)")
	cmd.Flags().StringVar(&timeout, "timeout", "", "stop tracking after this duration (e.g. 8h, 30m)")
	return cmd
}

func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print a report of recorded focus/idle time",
		RunE: func(_ *cobra.Command, _ []string) error {
			st, err := store.New()
			if err != nil {
				return err
			}
			return printReport(st)
		},
	}
}

func printReport(st *store.Store) error {
	log, err := st.Load()
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	report.Write(os.Stdout, stats.Compute(log.Intervals, now, now))
	return nil
}

func newExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:       "export <csv|json|sqlite>",
		Short:     "Export the interval log for outside analysis",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"csv", "json", "sqlite"},
		RunE: func(_ *cobra.Command, args []string) error {
			st, err := store.New()
			if err != nil {
				return err
			}
			log, err := st.Load()
			if err != nil {
				return err
			}

			format := args[0]
			path := out
			if path == "" {
				ext := format
				if format == "sqlite" {
					ext = "db"
				}
				path = fmt.Sprintf("flowtrack-export-%s.%s", time.Now().Format("2006-01-02"), ext)
			}

			switch format {
			case "csv":
				err = export.ToCSV(log.Intervals, path)
			case "json":
				err = export.ToJSON(log.Intervals, path)
			case "sqlite":
				err = export.ToSQLite(log.Intervals, path)
			default:
				return fmt.Errorf("unknown export format %q", format)
			}
			if err != nil {
				return err
			}

			fmt.Printf("exported %d intervals to %s\n", len(log.Intervals), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file path")
	return cmd
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear the recorded interval log",
		RunE: func(_ *cobra.Command, _ []string) error {
			st, err := store.New()
			if err != nil {
				return err
			}
			if err := st.Save(track.Log{}); err != nil {
				return err
			}
			fmt.Println("interval log cleared")
			return nil
		},
	}
}
