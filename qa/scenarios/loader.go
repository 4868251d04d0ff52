// Package scenarios replays planner scenarios described in YAML files and
// checks the resulting schedules.
package scenarios

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/planner/core/model"
)

// NowLayout is the format of Scenario.Now, read in local time.
const NowLayout = "2006-01-02T15:04"

type ConfigDef struct {
	Week        []float64 `yaml:"week,omitempty"`
	Range       []int     `yaml:"range,omitempty"`
	MinHours    float64   `yaml:"min_hours,omitempty"`
	MaxDays     int       `yaml:"max_days,omitempty"`
	FitDay      bool      `yaml:"fit_day,omitempty"`
	ArchiveDays *int      `yaml:"archive_days,omitempty"`
	Algorithm   string    `yaml:"algorithm,omitempty"`
}

func (c ConfigDef) ToModel() model.UserConfig {
	cfg := model.UserConfig{
		Week:        c.Week,
		Range:       c.Range,
		MinHours:    c.MinHours,
		MaxDays:     c.MaxDays,
		FitDay:      c.FitDay,
		ArchiveDays: c.ArchiveDays,
		Algorithm:   c.Algorithm,
	}
	cfg.SetDefaults()
	return cfg
}

type TaskDef struct {
	Name      string  `yaml:"name"`
	Hours     float64 `yaml:"hours"`
	DueInDays int     `yaml:"due_in_days"`
}

// DayExpect lists the task names allocated on a day, in order.
type DayExpect struct {
	Tasks  []string `yaml:"tasks"`
	Filled float64  `yaml:"filled"`
}

type Expected struct {
	Errors  int         `yaml:"errors"`
	Pending []string    `yaml:"pending,omitempty"`
	Days    []DayExpect `yaml:"days"`
}

type Scenario struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description,omitempty"`
	Now         string    `yaml:"now"`
	Config      ConfigDef `yaml:"config"`
	Tasks       []TaskDef `yaml:"tasks"`
	Expected    Expected  `yaml:"expected"`
}

// Start parses Now.
func (s *Scenario) Start() (time.Time, error) {
	t, err := time.ParseInLocation(NowLayout, s.Now, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("scenario %s: now: %w", s.Name, err)
	}
	return t, nil
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("%s: name required", path)
	}
	return &sc, nil
}
