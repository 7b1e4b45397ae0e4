// Package outdoor derives qualitative outdoor risk levels from a current
// weather observation. The levels are heuristics, not measured values.
package outdoor

import "strings"

// Level is a qualitative risk level.
type Level string

const (
	LevelLow     Level = "Low"
	LevelMedium  Level = "Medium"
	LevelHigh    Level = "High"
	LevelUnknown Level = "Unknown"
)

// Display colors. Unknown shares the Medium color.
const (
	ColorRed    = "#F44336"
	ColorOrange = "#FFA500"
	ColorGreen  = "#4CAF50"
)

// Color returns the indicator color for the level.
func (l Level) Color() string {
	switch l {
	case LevelHigh:
		return ColorRed
	case LevelLow:
		return ColorGreen
	default:
		return ColorOrange
	}
}

// Observation is the subset of current weather the classifier reads.
// Nil temperature or humidity means the field was not reported.
type Observation struct {
	TemperatureC *float64
	HumidityPct  *float64
	Condition    string
}

// Assessment is one derived risk value ready for display.
type Assessment struct {
	Level Level  `json:"level"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// Report groups the three independent assessments for one observation.
type Report struct {
	AirQuality Assessment `json:"airQuality"`
	UV         Assessment `json:"uv"`
	Health     Assessment `json:"health"`
}

// reading is an Observation with its required fields resolved.
type reading struct {
	temp      float64
	humidity  float64
	condition string
}

type rule struct {
	when  func(reading) bool
	level Level
}

func always(reading) bool { return true }

var airQualityRules = []rule{
	{when: func(r reading) bool { return r.temp > 30 || r.humidity > 80 }, level: LevelHigh},
	{when: func(r reading) bool { return r.temp > 25 || r.humidity > 70 }, level: LevelMedium},
	{when: always, level: LevelLow},
}

var uvRules = []rule{
	{when: func(r reading) bool { return r.condition == "clear" }, level: LevelHigh},
	{when: func(r reading) bool { return r.condition == "clouds" }, level: LevelMedium},
	{when: always, level: LevelLow},
}

var healthRules = []rule{
	{when: func(r reading) bool { return r.temp > 35 || r.temp < -10 || r.condition == "storm" }, level: LevelHigh},
	{when: func(r reading) bool { return r.temp > 30 || r.temp < 0 || r.condition == "rain" }, level: LevelMedium},
	{when: always, level: LevelLow},
}

// evaluate returns the level of the first matching rule.
func evaluate(rules []rule, r reading) Level {
	for _, rl := range rules {
		if rl.when(r) {
			return rl.level
		}
	}
	return LevelUnknown
}

// Classify derives air quality, UV and health assessments. It never fails:
// a nil observation, or one without temperature or humidity, yields Unknown
// for all three.
func Classify(obs *Observation) Report {
	if obs == nil || obs.TemperatureC == nil || obs.HumidityPct == nil {
		unknown := riskAssessment(LevelUnknown)
		return Report{AirQuality: unknown, UV: plainAssessment(LevelUnknown), Health: unknown}
	}

	r := reading{
		temp:      *obs.TemperatureC,
		humidity:  *obs.HumidityPct,
		condition: strings.ToLower(obs.Condition),
	}

	return Report{
		AirQuality: riskAssessment(evaluate(airQualityRules, r)),
		UV:         plainAssessment(evaluate(uvRules, r)),
		Health:     riskAssessment(evaluate(healthRules, r)),
	}
}

func riskAssessment(l Level) Assessment {
	label := string(l)
	if l != LevelUnknown {
		label += " Risk"
	}
	return Assessment{Level: l, Label: label, Color: l.Color()}
}

func plainAssessment(l Level) Assessment {
	return Assessment{Level: l, Label: string(l), Color: l.Color()}
}
