package weather

import (
	"errors"
	"math"
	"time"

	"github.com/i474232898/observatory/internal/outdoor"
)

var (
	// ErrUnknownCity is returned for a city name outside the catalog.
	ErrUnknownCity = errors.New("unknown city")
	// ErrUnknownUnit is returned for an unsupported temperature unit.
	ErrUnknownUnit = errors.New("unknown temperature unit")
)

// Details is the "detailed observations" panel for a snapshot.
type Details struct {
	Location    Location   `json:"location"`
	Sunrise     *time.Time `json:"sunrise,omitempty"`
	Sunset      *time.Time `json:"sunset,omitempty"`
	WindMS      int        `json:"windMs"`
	Humidity    int        `json:"humidityPercent"`
	DewPointC   int        `json:"dewPointC"`
	Temperature string     `json:"temperature"`
}

// DewPoint approximates the dew point from temperature and relative
// humidity: T - (100 - RH) / 5, rounded.
func DewPoint(tempC, humidityPct float64) int {
	return int(math.Round(tempC - (100-humidityPct)/5))
}

// NewDetails derives the details panel from a snapshot.
func NewDetails(s WeatherSnapshot, unit TemperatureUnit) Details {
	d := Details{
		Location:    s.Location,
		WindMS:      int(math.Round(s.WindSpeed)),
		Humidity:    int(math.Round(s.Humidity)),
		DewPointC:   DewPoint(s.Temperature, s.Humidity),
		Temperature: unit.Format(s.Temperature),
	}
	if !s.Sunrise.IsZero() {
		t := s.Sunrise
		d.Sunrise = &t
	}
	if !s.Sunset.IsZero() {
		t := s.Sunset
		d.Sunset = &t
	}
	return d
}

// Observation extracts the classifier input from a snapshot.
func (s WeatherSnapshot) Observation() *outdoor.Observation {
	temp, humidity := s.Temperature, s.Humidity
	label := s.ConditionLabel
	if label == "" {
		label = s.Condition.Label()
	}
	return &outdoor.Observation{
		TemperatureC: &temp,
		HumidityPct:  &humidity,
		Condition:    label,
	}
}
