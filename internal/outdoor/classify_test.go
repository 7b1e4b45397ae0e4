package outdoor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func f(v float64) *float64 { return &v }

func obs(temp, humidity float64, cond string) *Observation {
	return &Observation{TemperatureC: f(temp), HumidityPct: f(humidity), Condition: cond}
}

func TestClassify_Examples(t *testing.T) {
	r := Classify(obs(31, 50, "Clear"))
	assert.Equal(t, LevelHigh, r.AirQuality.Level)
	assert.Equal(t, LevelHigh, r.UV.Level)
	// Above 30°C is Medium health risk.
	assert.Equal(t, LevelMedium, r.Health.Level)

	r = Classify(obs(-15, 40, "Snow"))
	assert.Equal(t, LevelLow, r.AirQuality.Level)
	assert.Equal(t, LevelLow, r.UV.Level)
	assert.Equal(t, LevelHigh, r.Health.Level)
}

func TestClassify_Unknown(t *testing.T) {
	cases := map[string]*Observation{
		"nil observation":  nil,
		"no temperature":   {HumidityPct: f(40), Condition: "Clear"},
		"no humidity":      {TemperatureC: f(20), Condition: "Clear"},
		"nothing reported": {},
	}
	for name, o := range cases {
		t.Run(name, func(t *testing.T) {
			r := Classify(o)
			for _, a := range []Assessment{r.AirQuality, r.UV, r.Health} {
				assert.Equal(t, LevelUnknown, a.Level)
				assert.Equal(t, "Unknown", a.Label)
				assert.Equal(t, ColorOrange, a.Color)
			}
		})
	}
}

func TestClassify_AirQualityThresholds(t *testing.T) {
	tests := []struct {
		temp, humidity float64
		want           Level
	}{
		{30, 80, LevelMedium},
		{30.1, 0, LevelHigh},
		{0, 80.5, LevelHigh},
		{25.5, 10, LevelMedium},
		{20, 71, LevelMedium},
		{25, 70, LevelLow},
		{-30, 0, LevelLow},
	}
	for _, tt := range tests {
		got := Classify(obs(tt.temp, tt.humidity, "")).AirQuality.Level
		assert.Equal(t, tt.want, got, "temp=%v humidity=%v", tt.temp, tt.humidity)
	}
}

func TestClassify_UVIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, LevelHigh, Classify(obs(10, 10, "CLEAR")).UV.Level)
	assert.Equal(t, LevelMedium, Classify(obs(10, 10, "Clouds")).UV.Level)
	assert.Equal(t, LevelLow, Classify(obs(10, 10, "cloudy")).UV.Level)
	assert.Equal(t, LevelLow, Classify(obs(10, 10, "")).UV.Level)
}

func TestClassify_Health(t *testing.T) {
	tests := []struct {
		name string
		temp float64
		cond string
		want Level
	}{
		{"hot", 35.5, "Clear", LevelHigh},
		{"very cold", -10.5, "Clear", LevelHigh},
		{"storm", 20, "Storm", LevelHigh},
		{"warm", 31, "Clear", LevelMedium},
		{"freezing", -1, "Snow", LevelMedium},
		{"rain", 15, "rain", LevelMedium},
		{"thunderstorm label is not storm", 15, "Thunderstorm", LevelLow},
		{"upper bound", 30, "Clouds", LevelLow},
		{"lower bound", 0, "Clouds", LevelLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(obs(tt.temp, 50, tt.cond)).Health.Level)
		})
	}
}

func TestAssessmentLabelsAndColors(t *testing.T) {
	r := Classify(obs(36, 90, "Clear"))
	assert.Equal(t, Assessment{Level: LevelHigh, Label: "High Risk", Color: ColorRed}, r.AirQuality)
	assert.Equal(t, Assessment{Level: LevelHigh, Label: "High", Color: ColorRed}, r.UV)
	assert.Equal(t, Assessment{Level: LevelHigh, Label: "High Risk", Color: ColorRed}, r.Health)

	r = Classify(obs(10, 10, "Fog"))
	assert.Equal(t, Assessment{Level: LevelLow, Label: "Low Risk", Color: ColorGreen}, r.AirQuality)
	assert.Equal(t, Assessment{Level: LevelLow, Label: "Low", Color: ColorGreen}, r.UV)

	assert.Equal(t, LevelMedium.Color(), LevelUnknown.Color())
}
