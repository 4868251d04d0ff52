package scenarios

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/planner/core/clock"
	"github.com/kilianp07/planner/core/planner"
)

// Result is the observable outcome of a scenario.
type Result struct {
	Days    []DayExpect
	Errors  int
	Pending []string
}

// Run builds the scenario schedule once.
func Run(sc *Scenario) (Result, error) {
	now, err := sc.Start()
	if err != nil {
		return Result{}, err
	}
	m, err := planner.NewManager(sc.Config.ToModel(), planner.WithClock(clock.Fixed(now)))
	if err != nil {
		return Result{}, err
	}
	for _, td := range sc.Tasks {
		if _, err := m.AddTask(td.Name, td.Hours, td.DueInDays); err != nil {
			return Result{}, err
		}
	}
	m.BuildSchedule()

	snap := m.Snapshot()
	res := Result{Errors: snap.Errors}
	for _, d := range snap.Days {
		de := DayExpect{Filled: d.Filled}
		for _, a := range d.Allocations {
			de.Tasks = append(de.Tasks, a.Name)
		}
		res.Days = append(res.Days, de)
	}
	for _, t := range snap.Pending {
		res.Pending = append(res.Pending, t.Name)
	}
	return res, nil
}

func RunScenario(t *testing.T, sc *Scenario) {
	t.Helper()
	res, err := Run(sc)
	require.NoError(t, err)

	assert.Equal(t, sc.Expected.Errors, res.Errors, "errors")
	assert.ElementsMatch(t, sc.Expected.Pending, res.Pending, "pending")
	require.Len(t, res.Days, len(sc.Expected.Days), "days")
	for i, want := range sc.Expected.Days {
		assert.Equal(t, want.Tasks, res.Days[i].Tasks, "day %d tasks", i)
		assert.InDelta(t, want.Filled, res.Days[i].Filled, 1e-9, "day %d filled", i)
	}
}
