// Package forecast maps provider forecast samples onto fixed display slots.
package forecast

import (
	"errors"
	"fmt"
	"math"
)

// ErrInsufficientData is returned when there are no samples to align against.
var ErrInsufficientData = errors.New("insufficient forecast data")

// DefaultCondition is used when the provider omits weather condition data.
const DefaultCondition = "Clear"

// Sample is one provider forecast point.
type Sample struct {
	Timestamp   int64   `json:"timestamp"` // epoch seconds
	Temperature float64 `json:"temperatureC"`
	FeelsLike   float64 `json:"feelsLikeC"`

	// PrecipProbability is a fraction in [0,1]; nil means the provider left it out.
	PrecipProbability *float64 `json:"precipProbability,omitempty"`
	Condition         string   `json:"condition,omitempty"`
}

// Slot is a display instant that should be filled with the nearest sample.
type Slot struct {
	Label     string `json:"label"`
	Timestamp int64  `json:"timestamp"` // epoch milliseconds
}

// Hourly is a sample projected onto a slot.
type Hourly struct {
	Label                string  `json:"label"`
	TemperatureC         float64 `json:"temperatureC"`
	FeelsLikeC           float64 `json:"feelsLikeC"`
	PrecipitationPercent int     `json:"precipitationPercent"`
	Precipitation        string  `json:"precipitation"`
	Condition            string  `json:"condition"`
}

// Align selects, for every slot, the sample closest in time and projects it
// into an Hourly record. The output has one entry per slot, in slot order.
//
// Sample timestamps are compared in milliseconds. When two samples share a
// timestamp the later one in the input replaces the earlier one. When two
// timestamps are equally distant from a slot the one inserted first wins.
func Align(samples []Sample, slots []Slot) ([]Hourly, error) {
	if len(samples) == 0 {
		return nil, ErrInsufficientData
	}

	byTS := make(map[int64]Sample, len(samples))
	order := make([]int64, 0, len(samples))
	for _, s := range samples {
		ts := s.Timestamp * 1000
		if _, seen := byTS[ts]; !seen {
			order = append(order, ts)
		}
		byTS[ts] = s
	}

	out := make([]Hourly, 0, len(slots))
	for _, slot := range slots {
		ts, ok := nearest(order, slot.Timestamp)
		if !ok {
			continue
		}
		out = append(out, project(slot, byTS[ts]))
	}
	return out, nil
}

// nearest returns the candidate with the smallest absolute distance to
// target. Ties keep the earliest candidate in the slice.
func nearest(candidates []int64, target int64) (int64, bool) {
	if len(candidates) == 0 {
		return 0, false
	}
	best := candidates[0]
	bestDiff := absDiff(best, target)
	for _, c := range candidates[1:] {
		if d := absDiff(c, target); d < bestDiff {
			best, bestDiff = c, d
		}
	}
	return best, true
}

func absDiff(a, b int64) int64 {
	if a > b {
		return a - b
	}
	return b - a
}

func project(slot Slot, s Sample) Hourly {
	pct := 0
	if s.PrecipProbability != nil {
		pct = int(math.Round(*s.PrecipProbability * 100))
	}
	cond := s.Condition
	if cond == "" {
		cond = DefaultCondition
	}
	return Hourly{
		Label:                slot.Label,
		TemperatureC:         s.Temperature,
		FeelsLikeC:           s.FeelsLike,
		PrecipitationPercent: pct,
		Precipitation:        fmt.Sprintf("%d%%", pct),
		Condition:            cond,
	}
}
