package planner

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary reports how the latest schedule uses the available hours.
type Summary struct {
	Days        int     `json:"days"`
	Capacity    float64 `json:"capacity"`
	Filled      float64 `json:"filled"`
	Spare       float64 `json:"spare"`
	Utilization float64 `json:"utilization"`
	MeanFilled  float64 `json:"mean_filled"`
	StdFilled   float64 `json:"std_filled"`
	PeakFilled  float64 `json:"peak_filled"`
	Overbooked  int     `json:"overbooked"`
	Errors      int     `json:"errors"`
	Pending     int     `json:"pending"`
}

// Summary computes utilisation statistics over the latest schedule.
func (m *Manager) Summary() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Summary{Days: len(m.days), Errors: m.errors, Pending: m.pending.Len()}
	if len(m.days) == 0 {
		return s
	}
	filled := make([]float64, len(m.days))
	capacity := make([]float64, len(m.days))
	spare := make([]float64, len(m.days))
	for i, d := range m.days {
		filled[i] = d.HoursFilled()
		capacity[i] = d.Capacity()
		spare[i] = d.SpareHours()
		if d.Overbooked() {
			s.Overbooked++
		}
	}
	s.Filled = floats.Sum(filled)
	s.Capacity = floats.Sum(capacity)
	s.Spare = floats.Sum(spare)
	s.PeakFilled = floats.Max(filled)
	if s.Capacity > 0 {
		s.Utilization = s.Filled / s.Capacity
	}
	if len(filled) > 1 {
		s.MeanFilled, s.StdFilled = stat.MeanStdDev(filled, nil)
	} else {
		s.MeanFilled = filled[0]
	}
	return s
}
