package httpapi

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/observatory/internal/session"
	"github.com/i474232898/observatory/internal/weather"
)

// locationQuery holds query parameters for identifying a location.
type locationQuery struct {
	City    string `validate:"required"`
	Country string
}

// parseLocationQuery reads city/country. Without a city it falls back to
// the session's selected city, then to the default city.
func parseLocationQuery(c *fiber.Ctx, sess *session.Session) (locationQuery, error) {
	var q locationQuery

	q.City = strings.TrimSpace(c.Query("city"))
	q.Country = strings.TrimSpace(c.Query("country"))

	if q.City == "" {
		q.City = weather.DefaultCity
		if sess != nil {
			q.City = sess.City
		}
	}

	if err := validate.Struct(q); err != nil {
		return q, err
	}

	return q, nil
}

// toLocation prefers the catalog entry, which carries coordinates. Cities
// outside the catalog need a country.
func (l locationQuery) toLocation(catalog *weather.Catalog) (weather.Location, error) {
	if city, ok := catalog.Lookup(l.City); ok {
		if l.Country == "" || strings.EqualFold(l.Country, city.Country) {
			return city.Location(), nil
		}
	}
	if l.Country == "" {
		return weather.Location{}, weather.ErrUnknownCity
	}
	return weather.Location{City: l.City, Country: l.Country}, nil
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	Location locationQuery
	From     time.Time `validate:"required"`
	To       time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx, sess *session.Session) error {
	loc, err := parseLocationQuery(c, sess)
	if err != nil {
		return err
	}
	h.Location = loc

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// forecastQuery holds query parameters for the daily forecast endpoint.
type forecastQuery struct {
	Days int `validate:"required,min=1,max=7"`
}

func (f *forecastQuery) bind(c *fiber.Ctx) error {
	s := c.Query("days")
	if s == "" {
		return errors.New("days query parameter is required")
	}
	days, err := strconv.Atoi(s)
	if err != nil {
		return errors.New("days must be an integer")
	}
	f.Days = days
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}

// resolveUnit returns the ?unit= value, else the session unit, else Celsius.
func resolveUnit(c *fiber.Ctx, sess *session.Session) (weather.TemperatureUnit, error) {
	if raw := c.Query("unit"); raw != "" {
		return weather.ParseUnit(raw)
	}
	if sess != nil {
		return sess.Unit, nil
	}
	return weather.Celsius, nil
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}
