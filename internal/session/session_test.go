package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/observatory/internal/weather"
)

func newStore() *Store {
	return NewStore(weather.NewCatalog(weather.DefaultCities))
}

func TestLogin(t *testing.T) {
	s := newStore()

	_, err := s.Login(Credentials{Username: "ana"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Login(Credentials{Password: "pw"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	sess, err := s.Login(Credentials{Username: "ana", Password: "pw"})
	require.NoError(t, err)
	_, err = uuid.Parse(sess.Token)
	assert.NoError(t, err)
	assert.Equal(t, "ana", sess.Username)
	assert.Equal(t, weather.DefaultCity, sess.City)
	assert.Equal(t, weather.Celsius, sess.Unit)

	got, err := s.Get(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess, got)
}

func TestLogout(t *testing.T) {
	s := newStore()
	sess, err := s.Login(Credentials{Username: "ana", Password: "pw"})
	require.NoError(t, err)

	require.NoError(t, s.Logout(sess.Token))
	_, err = s.Get(sess.Token)
	assert.ErrorIs(t, err, ErrUnknownSession)
	assert.ErrorIs(t, s.Logout(sess.Token), ErrUnknownSession)
}

func TestUpdate(t *testing.T) {
	s := newStore()
	sess, err := s.Login(Credentials{Username: "ana", Password: "pw"})
	require.NoError(t, err)

	got, err := s.Update(sess.Token, Settings{City: "hong kong"})
	require.NoError(t, err)
	assert.Equal(t, "Hong Kong", got.City)
	assert.Equal(t, weather.Celsius, got.Unit)

	got, err = s.Update(sess.Token, Settings{Unit: "F"})
	require.NoError(t, err)
	assert.Equal(t, "Hong Kong", got.City)
	assert.Equal(t, weather.Fahrenheit, got.Unit)

	_, err = s.Update(sess.Token, Settings{City: "Atlantis"})
	assert.ErrorIs(t, err, weather.ErrUnknownCity)
	_, err = s.Update(sess.Token, Settings{Unit: "kelvin"})
	assert.ErrorIs(t, err, weather.ErrUnknownUnit)
	_, err = s.Update("nope", Settings{Unit: "celsius"})
	assert.ErrorIs(t, err, ErrUnknownSession)

	// Failed updates leave the session alone.
	final, err := s.Get(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "Hong Kong", final.City)
	assert.Equal(t, weather.Fahrenheit, final.Unit)
}

func TestSessionExpiry(t *testing.T) {
	clock := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(weather.NewCatalog(weather.DefaultCities), WithTTL(time.Hour))
	s.now = func() time.Time { return clock }

	old, err := s.Login(Credentials{Username: "ana", Password: "pw"})
	require.NoError(t, err)

	clock = clock.Add(59 * time.Minute)
	_, err = s.Get(old.Token)
	require.NoError(t, err)

	clock = clock.Add(2 * time.Minute)
	_, err = s.Get(old.Token)
	assert.ErrorIs(t, err, ErrUnknownSession)
	_, err = s.Update(old.Token, Settings{Unit: "f"})
	assert.ErrorIs(t, err, ErrUnknownSession)

	// The next login sweeps the expired session.
	assert.Equal(t, 1, s.Len())
	fresh, err := s.Login(Credentials{Username: "bo", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())

	_, err = s.Get(fresh.Token)
	assert.NoError(t, err)
}

func TestSessionWithoutTTL(t *testing.T) {
	clock := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(weather.NewCatalog(weather.DefaultCities), WithTTL(0))
	s.now = func() time.Time { return clock }

	sess, err := s.Login(Credentials{Username: "ana", Password: "pw"})
	require.NoError(t, err)

	clock = clock.Add(365 * 24 * time.Hour)
	_, err = s.Get(sess.Token)
	assert.NoError(t, err)
}
