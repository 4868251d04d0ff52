package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var created = time.Date(2025, 6, 2, 14, 45, 0, 0, time.Local)

func TestNewTask(t *testing.T) {
	task, err := NewTask(3, "report", 6, created, 2)
	require.NoError(t, err)
	assert.Equal(t, 6.0, task.TotalHours())
	assert.Equal(t, 6.0, task.Remaining())
	assert.Equal(t, time.Date(2025, 6, 4, 0, 0, 0, 0, time.Local), task.DueDate())
	assert.False(t, task.Finished())
}

func TestNewTaskInvalid(t *testing.T) {
	_, err := NewTask(1, "zero", 0, created, 1)
	assert.Error(t, err)
	_, err = NewTask(1, "past", 2, created, -1)
	assert.Error(t, err)
	_, err = NewTaskDue(1, "nodue", 2, time.Time{})
	assert.Error(t, err)
}

func TestTaskResetRestoresHours(t *testing.T) {
	task, err := NewTask(1, "a", 5, created, 0)
	require.NoError(t, err)
	day := NewDay(0, 8, created)
	require.True(t, day.AddAllocation(task, 5))
	assert.True(t, task.Finished())
	task.Reset()
	assert.Equal(t, 5.0, task.Remaining())
}

func TestTaskLess(t *testing.T) {
	early, _ := NewTask(9, "early", 1, created, 0)
	late, _ := NewTask(1, "late", 1, created, 3)
	tieA, _ := NewTask(4, "tieA", 1, created, 3)
	assert.True(t, early.Less(late))
	assert.False(t, late.Less(early))
	assert.True(t, late.Less(tieA), "equal due dates fall back to id")
}
