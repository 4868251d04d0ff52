package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSameDate(t *testing.T) {
	a := time.Date(2025, 3, 10, 23, 59, 0, 0, time.Local)
	b := time.Date(2025, 3, 10, 0, 1, 0, 0, time.Local)
	c := time.Date(2025, 4, 10, 0, 1, 0, 0, time.Local)
	assert.True(t, SameDate(a, b))
	assert.False(t, SameDate(a, c), "same day of month in another month")
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2025, 12, 30, 22, 0, 0, 0, time.Local)
	cases := []struct {
		b    time.Time
		want int
	}{
		{time.Date(2025, 12, 30, 1, 0, 0, 0, time.Local), 0},
		{time.Date(2025, 12, 31, 0, 0, 0, 0, time.Local), 1},
		{time.Date(2026, 1, 2, 0, 0, 0, 0, time.Local), 3},
		{time.Date(2025, 12, 28, 12, 0, 0, 0, time.Local), -2},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, DaysBetween(a, c.b), c.b.String())
	}
}

func TestAddDaysAndStartOfDay(t *testing.T) {
	now := time.Date(2025, 2, 27, 15, 30, 0, 0, time.Local)
	assert.Equal(t, time.Date(2025, 2, 27, 0, 0, 0, 0, time.Local), StartOfDay(now))
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local), AddDays(now, 2))
	assert.Equal(t, time.Date(2025, 2, 27, 8, 30, 0, 0, time.Local), AtHour(now, 8.5))
}

func TestFixed(t *testing.T) {
	at := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	var c Clock = Fixed(at)
	assert.True(t, c.Now().Equal(at))
}
