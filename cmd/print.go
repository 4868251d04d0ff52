package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/kilianp07/planner/core/planner"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	overColor    = color.New(color.FgRed, color.Bold)
	pendingColor = color.New(color.FgYellow)
	dimColor     = color.New(color.Faint)
)

// printSchedule writes a human readable listing of the schedule.
func printSchedule(w io.Writer, s planner.Snapshot) {
	fmt.Fprintf(w, "strategy %s, run %s, %d errors\n", s.Strategy, s.RunID, s.Errors)
	for _, d := range s.Days {
		line := fmt.Sprintf("%s %-9s %4.1f/%4.1fh", d.Date, d.Weekday, d.Filled, d.Capacity)
		if d.Filled > d.Capacity {
			overColor.Fprintln(w, line+" overbooked")
		} else {
			headerColor.Fprintln(w, line)
		}
		if len(d.Allocations) == 0 {
			dimColor.Fprintln(w, "  (free)")
			continue
		}
		for _, a := range d.Allocations {
			fmt.Fprintf(w, "  %s-%s  %-24s %4.1fh\n", a.Start.Format("15:04"), a.End.Format("15:04"), a.Name, a.Hours)
		}
	}
	if len(s.Pending) > 0 {
		pendingColor.Fprintln(w, "unscheduled:")
		printTasks(w, s.Pending)
	}
}

func printTasks(w io.Writer, tasks []planner.TaskView) {
	for _, t := range tasks {
		fmt.Fprintf(w, "  #%-3d %-24s %4.1fh left of %4.1fh, due %s\n", t.ID, t.Name, t.Remaining, t.Hours, t.Due)
	}
}
