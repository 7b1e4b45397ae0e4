package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/observatory/internal/forecast"
	"github.com/i474232898/observatory/internal/weather"
)

var calgary = weather.Location{City: "Calgary", Country: "CA"}

func TestMemoryStore_LatestAndRange(t *testing.T) {
	s := NewMemoryStore(0, 0)

	_, err := s.GetLatest(calgary)
	assert.ErrorIs(t, err, ErrNotFound)

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		s.SaveSnapshot(calgary, weather.WeatherSnapshot{
			Location:    calgary,
			Timestamp:   base.Add(time.Duration(i) * time.Hour),
			Temperature: float64(i),
		})
	}

	latest, err := s.GetLatest(calgary)
	require.NoError(t, err)
	assert.Equal(t, 3.0, latest.Temperature)

	got, err := s.GetRange(calgary, base.Add(time.Hour), base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1.0, got[0].Temperature)
	assert.Equal(t, 2.0, got[1].Temperature)

	_, err = s.GetRange(calgary, base.Add(10*time.Hour), base.Add(11*time.Hour))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_RetentionByCount(t *testing.T) {
	s := NewMemoryStore(2, 0)
	now := time.Now().UTC()
	for i := 0; i < 5; i++ {
		s.SaveSnapshot(calgary, weather.WeatherSnapshot{Timestamp: now, Temperature: float64(i)})
	}

	got, err := s.GetRange(calgary, now, now)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 3.0, got[0].Temperature)
	assert.Equal(t, 4.0, got[1].Temperature)
}

func TestMemoryStore_RetentionByAge(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(0, time.Hour)
	s.now = func() time.Time { return now }

	s.SaveSnapshot(calgary, weather.WeatherSnapshot{Timestamp: now.Add(-3 * time.Hour), Temperature: 1})
	s.SaveSnapshot(calgary, weather.WeatherSnapshot{Timestamp: now.Add(-10 * time.Minute), Temperature: 2})

	got, err := s.GetRange(calgary, now.Add(-24*time.Hour), now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2.0, got[0].Temperature)
}

func TestMemoryStore_Samples(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(0, time.Hour)
	s.now = func() time.Time { return now }

	_, err := s.GetSamples(calgary)
	assert.ErrorIs(t, err, ErrNotFound)

	in := []forecast.Sample{{Timestamp: 1, Temperature: 4}, {Timestamp: 2, Temperature: 5}}
	s.SaveSamples(calgary, in)
	in[0].Temperature = 99

	got, err := s.GetSamples(calgary)
	require.NoError(t, err)
	assert.Equal(t, 4.0, got[0].Temperature)

	got[1].Temperature = 42
	again, err := s.GetSamples(calgary)
	require.NoError(t, err)
	assert.Equal(t, 5.0, again[1].Temperature)

	now = now.Add(2 * time.Hour)
	_, err = s.GetSamples(calgary)
	assert.ErrorIs(t, err, ErrNotFound)

	s.SaveSamples(calgary, nil)
	_, err = s.GetSamples(calgary)
	assert.ErrorIs(t, err, ErrNotFound)
}
