package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sumHours(d *Day) float64 {
	var s float64
	for _, a := range d.Allocations() {
		s += a.Hours
	}
	return s
}

func TestDayAddAllocation(t *testing.T) {
	day := NewDay(0, 8, created)
	day.StartAt(time.Date(2025, 6, 2, 9, 0, 0, 0, time.Local))
	a, _ := NewTask(1, "a", 5, created, 1)
	b, _ := NewTask(2, "b", 6, created, 1)

	require.True(t, day.AddAllocation(a, 5))
	assert.Equal(t, 3.0, day.SpareHours())
	assert.False(t, day.AddAllocation(b, 4), "exceeds spare hours")
	assert.Equal(t, 6.0, b.Remaining())
	require.True(t, day.AddAllocation(b, 3))

	assert.Equal(t, 8.0, day.HoursFilled())
	assert.Equal(t, 0.0, day.SpareHours())
	assert.Equal(t, 3.0, b.Remaining())
	assert.Equal(t, day.HoursFilled(), sumHours(day))
	assert.Equal(t, 2, day.NumAllocations())

	second := day.Allocation(1)
	assert.Equal(t, time.Date(2025, 6, 2, 14, 0, 0, 0, time.Local), second.Start)
	assert.Equal(t, time.Date(2025, 6, 2, 17, 0, 0, 0, time.Local), second.End)
}

func TestDayRejectsInvalidHours(t *testing.T) {
	day := NewDay(0, 8, created)
	a, _ := NewTask(1, "a", 2, created, 1)
	assert.False(t, day.AddAllocation(a, 0))
	assert.False(t, day.AddAllocation(a, -1))
	assert.False(t, day.AddAllocation(a, 3), "more than remaining")
	assert.False(t, day.AddAllocation(nil, 1))
	assert.Equal(t, 0, day.NumAllocations())
	assert.Equal(t, 2.0, a.Remaining())
}

func TestDayForceAllocationOverbooks(t *testing.T) {
	day := NewDay(1, 8, created)
	c, _ := NewTask(1, "c", 4, created, 0)
	d, _ := NewTask(2, "d", 6, created, 0)
	require.True(t, day.AddAllocation(c, 4))
	assert.False(t, day.AddAllocation(d, 6))
	require.True(t, day.ForceAllocation(d, 6))

	assert.Equal(t, 10.0, day.HoursFilled())
	assert.Equal(t, 0.0, day.SpareHours())
	assert.True(t, day.Overbooked())
	assert.Equal(t, day.HoursFilled(), sumHours(day))
}

func TestDayParentTasks(t *testing.T) {
	day := NewDay(0, 10, created)
	a, _ := NewTask(1, "a", 4, created, 1)
	b, _ := NewTask(2, "b", 4, created, 1)
	require.True(t, day.AddAllocation(a, 2))
	require.True(t, day.AddAllocation(b, 2))
	require.True(t, day.AddAllocation(a, 2))
	parents := day.ParentTasks()
	require.Len(t, parents, 2)
	assert.Equal(t, "a", parents[0].Name)
	assert.Equal(t, "b", parents[1].Name)
}
