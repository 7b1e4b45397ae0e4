// Package session is a local login stub. Any non-empty username and
// password pair is accepted; sessions live in memory and carry the user's
// selected city and temperature unit.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/i474232898/observatory/internal/weather"
)

var (
	// ErrUnknownSession is returned for a token that was never issued, was
	// logged out or has expired.
	ErrUnknownSession = errors.New("unknown session")
	// ErrInvalidCredentials is returned when username or password is missing.
	ErrInvalidCredentials = errors.New("please enter both username and password")
)

var validate = validator.New()

// Credentials is the login request body.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Session is one logged-in user and their settings.
type Session struct {
	Token     string                  `json:"token"`
	Username  string                  `json:"username"`
	City      string                  `json:"city"`
	Unit      weather.TemperatureUnit `json:"unit"`
	CreatedAt time.Time               `json:"createdAt"`
}

// DefaultTTL is how long a session lives after login.
const DefaultTTL = 24 * time.Hour

// Store keeps sessions in memory. Sessions older than the TTL are treated
// as logged out and swept on the next login.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]Session
	catalog  *weather.Catalog
	ttl      time.Duration
	now      func() time.Time
	newToken func() string
}

// Option customizes a Store.
type Option func(*Store)

// WithTTL sets the session lifetime. A non-positive ttl never expires sessions.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// NewStore creates a session store; selectable cities come from catalog.
func NewStore(catalog *weather.Catalog, opts ...Option) *Store {
	s := &Store{
		sessions: make(map[string]Session),
		catalog:  catalog,
		ttl:      DefaultTTL,
		now:      time.Now,
		newToken: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) expired(sess Session) bool {
	return s.ttl > 0 && s.now().Sub(sess.CreatedAt) > s.ttl
}

// Login starts a session for the given credentials.
func (s *Store) Login(creds Credentials) (Session, error) {
	if err := validate.Struct(creds); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	sess := Session{
		Token:     s.newToken(),
		Username:  creds.Username,
		City:      weather.DefaultCity,
		Unit:      weather.Celsius,
		CreatedAt: s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for token, old := range s.sessions {
		if s.expired(old) {
			delete(s.sessions, token)
		}
	}
	s.sessions[sess.Token] = sess

	return sess, nil
}

// Len reports how many sessions are held, expired ones included until swept.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Get returns the session for token.
func (s *Store) Get(token string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[token]
	if !ok || s.expired(sess) {
		return Session{}, ErrUnknownSession
	}
	return sess, nil
}

// Logout ends the session for token.
func (s *Store) Logout(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[token]; !ok {
		return ErrUnknownSession
	}
	delete(s.sessions, token)
	return nil
}

// Settings is a partial settings update; empty fields are left unchanged.
type Settings struct {
	City string `json:"city"`
	Unit string `json:"unit"`
}

// Update applies settings to the session for token and returns the result.
func (s *Store) Update(token string, in Settings) (Session, error) {
	var (
		city string
		unit weather.TemperatureUnit
	)
	if in.City != "" {
		c, ok := s.catalog.Lookup(in.City)
		if !ok {
			return Session{}, fmt.Errorf("%w: %s", weather.ErrUnknownCity, in.City)
		}
		city = c.Name
	}
	if in.Unit != "" {
		u, err := weather.ParseUnit(in.Unit)
		if err != nil {
			return Session{}, err
		}
		unit = u
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok || s.expired(sess) {
		return Session{}, ErrUnknownSession
	}
	if city != "" {
		sess.City = city
	}
	if unit != "" {
		sess.Unit = unit
	}
	s.sessions[token] = sess
	return sess, nil
}
