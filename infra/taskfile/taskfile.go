// Package taskfile reads a task backlog from a YAML or JSON file.
//
//	tasks:
//	  - name: report
//	    hours: 6
//	    due_in_days: 3
//	  - name: review
//	    hours: 2
//	    due: 2025-06-10
package taskfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/planner/core/clock"
)

// DateLayout is the accepted format of absolute due dates.
const DateLayout = "2006-01-02"

// Entry is one task of the backlog. Exactly one of DueInDays or Due is used;
// Due wins when both are given.
type Entry struct {
	Name      string  `yaml:"name" json:"name"`
	Hours     float64 `yaml:"hours" json:"hours"`
	DueInDays *int    `yaml:"due_in_days,omitempty" json:"due_in_days,omitempty"`
	Due       string  `yaml:"due,omitempty" json:"due,omitempty"`
}

// File is the document layout.
type File struct {
	Tasks []Entry `yaml:"tasks" json:"tasks"`
}

// Spec is a resolved task ready to be handed to the planner.
type Spec struct {
	Name  string
	Hours float64
	Due   time.Time
}

// Load reads path, choosing the decoder from its extension, and resolves
// relative due dates against now.
func Load(path string, now time.Time) ([]Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	specs, err := Parse(bytes.NewReader(data), format, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return specs, nil
}

// Parse decodes a backlog in the given format ("yaml", "yml" or "json").
func Parse(r io.Reader, format string, now time.Time) ([]Spec, error) {
	var f File
	switch format {
	case "yaml", "yml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case "json":
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported task file format %q", format)
	}
	return f.Resolve(now)
}

// Resolve validates the entries and turns them into specs.
func (f File) Resolve(now time.Time) ([]Spec, error) {
	today := clock.StartOfDay(now)
	specs := make([]Spec, 0, len(f.Tasks))
	for i, e := range f.Tasks {
		if e.Name == "" {
			return nil, fmt.Errorf("task %d: name required", i)
		}
		if e.Hours <= 0 {
			return nil, fmt.Errorf("task %q: hours must be positive", e.Name)
		}
		var due time.Time
		switch {
		case e.Due != "":
			d, err := time.ParseInLocation(DateLayout, e.Due, now.Location())
			if err != nil {
				return nil, fmt.Errorf("task %q: %w", e.Name, err)
			}
			due = d
		case e.DueInDays != nil:
			if *e.DueInDays < 0 {
				return nil, fmt.Errorf("task %q: due_in_days must not be negative", e.Name)
			}
			due = clock.AddDays(today, *e.DueInDays)
		default:
			return nil, fmt.Errorf("task %q: due or due_in_days required", e.Name)
		}
		specs = append(specs, Spec{Name: e.Name, Hours: e.Hours, Due: due})
	}
	return specs, nil
}
