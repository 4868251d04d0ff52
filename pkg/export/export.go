// Package export writes a schedule snapshot in machine readable formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/kilianp07/planner/core/planner"
)

// Formats accepted by Write.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Write encodes s in the given format.
func Write(w io.Writer, format string, s planner.Snapshot) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, s)
	case FormatCSV:
		return WriteCSV(w, s)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// WriteJSON writes the snapshot as indented JSON.
func WriteJSON(w io.Writer, s planner.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteCSV writes one row per allocation, in schedule order.
func WriteCSV(w io.Writer, s planner.Snapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "task_id", "task", "start", "end", "hours"}); err != nil {
		return err
	}
	for _, d := range s.Days {
		for _, a := range d.Allocations {
			rec := []string{
				d.Date,
				strconv.Itoa(a.TaskID),
				a.Name,
				a.Start.Format(time.RFC3339),
				a.End.Format(time.RFC3339),
				strconv.FormatFloat(a.Hours, 'f', -1, 64),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
