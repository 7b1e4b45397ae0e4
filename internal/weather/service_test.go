package weather_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/observatory/internal/forecast"
	"github.com/i474232898/observatory/internal/outdoor"
	"github.com/i474232898/observatory/internal/store"
	"github.com/i474232898/observatory/internal/weather"
)

type fakeProvider struct {
	name     string
	reading  weather.ProviderReading
	err      error
	samples  []forecast.Sample
	daily    []weather.ProviderReading
	sampleN  int32
	fetchErr error
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Fetch(ctx context.Context, loc weather.Location) (weather.ProviderReading, error) {
	if f.err != nil {
		return weather.ProviderReading{}, f.err
	}
	r := f.reading
	r.ProviderName = f.name
	return r, nil
}

func (f *fakeProvider) FetchSamples(ctx context.Context, loc weather.Location) ([]forecast.Sample, error) {
	atomic.AddInt32(&f.sampleN, 1)
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.samples, nil
}

func (f *fakeProvider) FetchForecast(ctx context.Context, loc weather.Location, days int) ([]weather.ProviderReading, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.daily, nil
}

var calgary = weather.DefaultCities[0].Location()

func TestService_FetchAndStoreAggregates(t *testing.T) {
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	a := &fakeProvider{name: "b-provider", reading: weather.ProviderReading{
		Timestamp: ts, TemperatureC: 20, HumidityPct: 40, Condition: weather.ConditionCloudy, ConditionLabel: "Clouds",
	}}
	b := &fakeProvider{name: "a-provider", reading: weather.ProviderReading{
		Timestamp: ts.Add(time.Minute), TemperatureC: 22, HumidityPct: 60, Condition: weather.ConditionClear,
		ConditionLabel: "Clear", Sunrise: ts.Add(-6 * time.Hour),
	}}
	broken := &fakeProvider{name: "broken", err: errors.New("boom")}

	mem := store.NewMemoryStore(10, 0)
	svc := weather.NewService(mem, []weather.Provider{a, b, broken})

	require.NoError(t, svc.FetchAndStore(context.Background(), calgary))

	snap, err := svc.GetLatest(calgary)
	require.NoError(t, err)
	assert.Equal(t, 21.0, snap.Temperature)
	assert.Equal(t, 50.0, snap.Humidity)
	// One vote each: the first reading in provider-name order wins.
	assert.Equal(t, weather.ConditionClear, snap.Condition)
	assert.Equal(t, "Clear", snap.ConditionLabel)
	assert.Equal(t, ts.Add(time.Minute), snap.Timestamp)
	assert.Equal(t, ts.Add(-6*time.Hour), snap.Sunrise)
	require.Len(t, snap.Providers, 2)
	assert.Equal(t, "a-provider", snap.Providers[0].ProviderName)
}

func TestService_FetchAndStoreKeepsLastGoodSnapshot(t *testing.T) {
	p := &fakeProvider{name: "p", reading: weather.ProviderReading{TemperatureC: 5, Timestamp: time.Now().UTC()}}
	mem := store.NewMemoryStore(10, 0)
	svc := weather.NewService(mem, []weather.Provider{p})
	require.NoError(t, svc.FetchAndStore(context.Background(), calgary))

	p.err = errors.New("down")
	require.NoError(t, svc.FetchAndStore(context.Background(), calgary))

	snap, err := svc.GetLatest(calgary)
	require.NoError(t, err)
	assert.Equal(t, 5.0, snap.Temperature)
}

func TestService_NoProviders(t *testing.T) {
	svc := weather.NewService(store.NewMemoryStore(10, 0), nil)
	assert.ErrorIs(t, svc.FetchAndStore(context.Background(), calgary), weather.ErrNoProviders)

	_, err := svc.GetHourly(context.Background(), calgary, time.Now())
	assert.ErrorIs(t, err, weather.ErrNoProviders)
}

func TestService_GetHourly(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	var samples []forecast.Sample
	for i := 0; i < 8; i++ {
		samples = append(samples, forecast.Sample{
			Timestamp:   now.Add(time.Duration(i) * 3 * time.Hour).Unix(),
			Temperature: float64(10 + i),
			Condition:   "Clouds",
		})
	}
	p := &fakeProvider{name: "p", samples: samples}
	svc := weather.NewService(store.NewMemoryStore(10, 0), []weather.Provider{p}, weather.WithDisplayZone(time.UTC))

	hourly, err := svc.GetHourly(context.Background(), calgary, now)
	require.NoError(t, err)
	require.Len(t, hourly, forecast.DefaultSlotCount)
	assert.Equal(t, "12:00", hourly[0].Label)
	assert.Equal(t, 10.0, hourly[0].TemperatureC)
	assert.Equal(t, "22:00", hourly[5].Label)

	// Second call is served from the store.
	_, err = svc.GetHourly(context.Background(), calgary, now)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&p.sampleN))
}

func TestService_GetHourlyInsufficientData(t *testing.T) {
	p := &fakeProvider{name: "p", samples: nil}
	svc := weather.NewService(store.NewMemoryStore(10, 0), []weather.Provider{p})

	_, err := svc.GetHourly(context.Background(), calgary, time.Now())
	assert.ErrorIs(t, err, forecast.ErrInsufficientData)
}

func TestService_RefreshSamplesFallsThrough(t *testing.T) {
	bad := &fakeProvider{name: "bad", fetchErr: errors.New("503")}
	good := &fakeProvider{name: "good", samples: []forecast.Sample{{Timestamp: 1}}}
	svc := weather.NewService(store.NewMemoryStore(10, 0), []weather.Provider{bad, good})

	got, err := svc.RefreshSamples(context.Background(), calgary)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	svc = weather.NewService(store.NewMemoryStore(10, 0), []weather.Provider{bad})
	_, err = svc.RefreshSamples(context.Background(), calgary)
	assert.ErrorContains(t, err, "503")
}

func TestService_GetOutdoor(t *testing.T) {
	p := &fakeProvider{name: "p", reading: weather.ProviderReading{
		Timestamp: time.Now().UTC(), TemperatureC: 31, HumidityPct: 50,
		Condition: weather.ConditionClear, ConditionLabel: "Clear",
	}}
	svc := weather.NewService(store.NewMemoryStore(10, 0), []weather.Provider{p})

	unknown := svc.GetOutdoor(calgary)
	assert.Equal(t, outdoor.LevelUnknown, unknown.AirQuality.Level)

	require.NoError(t, svc.FetchAndStore(context.Background(), calgary))
	r := svc.GetOutdoor(calgary)
	assert.Equal(t, outdoor.LevelHigh, r.AirQuality.Level)
	assert.Equal(t, outdoor.LevelHigh, r.UV.Level)
	assert.Equal(t, outdoor.LevelMedium, r.Health.Level)
}

func TestService_GetCitiesAndDetails(t *testing.T) {
	p := &fakeProvider{name: "p", reading: weather.ProviderReading{
		Timestamp: time.Now().UTC(), TemperatureC: 21.6, HumidityPct: 60, WindSpeedMS: 3.4,
		Condition: weather.ConditionRain, ConditionLabel: "Drizzle",
	}}
	svc := weather.NewService(store.NewMemoryStore(10, 0), []weather.Provider{p})
	require.NoError(t, svc.FetchAndStore(context.Background(), calgary))

	cities := svc.GetCities(weather.Fahrenheit)
	require.Len(t, cities, len(weather.DefaultCities))
	assert.Equal(t, weather.CitySummary{City: "Calgary", Region: "Alberta", Temperature: "72°F", Icon: "cloud"}, cities[0])
	assert.Equal(t, "-", cities[1].Temperature)

	d, err := svc.GetDetails(calgary, weather.Celsius)
	require.NoError(t, err)
	assert.Equal(t, 14, d.DewPointC)
	assert.Equal(t, 3, d.WindMS)
	assert.Equal(t, "22°C", d.Temperature)
	assert.Nil(t, d.Sunrise)

	_, err = svc.GetDetails(weather.DefaultCities[1].Location(), weather.Celsius)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestService_GetForecast(t *testing.T) {
	day1 := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)
	p := &fakeProvider{name: "p", daily: []weather.ProviderReading{
		{ProviderName: "p", Timestamp: day1, TemperatureC: 10, Condition: weather.ConditionRain},
		{ProviderName: "p", Timestamp: day1.Add(3 * time.Hour), TemperatureC: 14, Condition: weather.ConditionRain},
		{ProviderName: "p", Timestamp: day2, TemperatureC: 20, Condition: weather.ConditionClear},
	}}
	svc := weather.NewService(store.NewMemoryStore(10, 0), []weather.Provider{p})

	fc, err := svc.GetForecast(context.Background(), calgary, 1)
	require.NoError(t, err)
	require.Len(t, fc, 1)
	assert.Equal(t, 12.0, fc[0].Temperature)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), fc[0].Timestamp)

	fc, err = svc.GetForecast(context.Background(), calgary, 7)
	require.NoError(t, err)
	assert.Len(t, fc, 2)

	_, err = svc.GetForecast(context.Background(), calgary, 0)
	assert.Error(t, err)
}
