package weather

import (
	"context"
	"time"

	"github.com/i474232898/observatory/internal/forecast"
)

// ProviderReading represents a single provider's normalized reading
// that can be aggregated into a WeatherSnapshot.
type ProviderReading struct {
	ProviderName string
	Timestamp    time.Time

	TemperatureC float64
	FeelsLikeC   float64
	HumidityPct  float64
	WindSpeedMS  float64
	PressureHpa  float64
	PrecipMm     float64
	Condition    Condition

	// ConditionLabel is the provider's own short label. Providers without
	// one use Condition.Label().
	ConditionLabel string
	Description    string

	Sunrise time.Time
	Sunset  time.Time
}

// Provider abstracts a weather data source (e.g. OpenWeatherMap, WeatherAPI, Open-Meteo).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, loc Location) (ProviderReading, error)
}

// ForecastProvider is implemented by providers that can return one
// reading per forecast day.
type ForecastProvider interface {
	FetchForecast(ctx context.Context, loc Location, days int) ([]ProviderReading, error)
}

// SampleProvider is implemented by providers that expose the raw
// timestamped forecast list used by the hourly view.
type SampleProvider interface {
	FetchSamples(ctx context.Context, loc Location) ([]forecast.Sample, error)
}

// Store is the contract the in-memory store (and any future persistent store) must satisfy.
type Store interface {
	SaveSnapshot(loc Location, snapshot WeatherSnapshot)
	GetLatest(loc Location) (WeatherSnapshot, error)
	GetRange(loc Location, from, to time.Time) ([]WeatherSnapshot, error)

	SaveSamples(loc Location, samples []forecast.Sample)
	GetSamples(loc Location) ([]forecast.Sample, error)
}
