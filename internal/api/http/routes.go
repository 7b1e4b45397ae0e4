package httpapi

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/observatory/internal/forecast"
	"github.com/i474232898/observatory/internal/logger"
	"github.com/i474232898/observatory/internal/session"
	"github.com/i474232898/observatory/internal/store"
	"github.com/i474232898/observatory/internal/weather"
)

var validate = validator.New()

type handler struct {
	service  *weather.Service
	sessions *session.Store
	now      func() time.Time
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, sessions *session.Store) {
	registerWith(app, &handler{service: service, sessions: sessions, now: time.Now})
}

func registerWith(app *fiber.App, h *handler) {
	v1 := app.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.Post("/login", h.login)
	auth.Post("/logout", h.requireSession, h.logout)

	v1.Get("/settings", h.requireSession, h.getSettings)
	v1.Put("/settings", h.requireSession, h.putSettings)

	v1.Get("/cities", h.optionalSession, h.cities)

	w := v1.Group("/weather", h.optionalSession)
	w.Get("/current", h.current)
	w.Get("/history", h.history)
	w.Get("/details", h.details)
	w.Get("/hourly", h.hourly)
	w.Get("/outdoor", h.outdoor)
	w.Get("/forecast", h.forecast)
}

// location resolves the request's location and answers 400 on failure.
func (h *handler) location(c *fiber.Ctx) (weather.Location, error) {
	q, err := parseLocationQuery(c, sessionFrom(c))
	if err != nil {
		return weather.Location{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	loc, err := q.toLocation(h.service.Catalog())
	if err != nil {
		return weather.Location{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return loc, nil
}

func (h *handler) current(c *fiber.Ctx) error {
	loc, err := h.location(c)
	if err != nil {
		return err
	}

	snapshot, err := h.service.GetLatest(loc)
	if err != nil {
		return toHTTPError(err, "no weather data for requested location", "failed to fetch weather data")
	}

	return c.JSON(snapshot)
}

func (h *handler) history(c *fiber.Ctx) error {
	var req historyQuery
	if err := req.bind(c, sessionFrom(c)); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	loc, err := req.Location.toLocation(h.service.Catalog())
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	snapshots, err := h.service.GetRange(loc, req.From, req.To)
	if err != nil {
		return toHTTPError(err, "no weather history for requested range", "failed to fetch weather history")
	}

	return c.JSON(fiber.Map{
		"location":  loc,
		"from":      req.From,
		"to":        req.To,
		"snapshots": snapshots,
	})
}

func (h *handler) details(c *fiber.Ctx) error {
	loc, err := h.location(c)
	if err != nil {
		return err
	}
	unit, err := resolveUnit(c, sessionFrom(c))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	d, err := h.service.GetDetails(loc, unit)
	if err != nil {
		return toHTTPError(err, "no weather data for requested location", "failed to fetch weather data")
	}
	return c.JSON(d)
}

// hourlyView adds display fields to an aligned forecast entry.
type hourlyView struct {
	forecast.Hourly
	Temp      string `json:"temp"`
	FeelsLike string `json:"feelsLike"`
	Icon      string `json:"icon"`
}

func (h *handler) hourly(c *fiber.Ctx) error {
	loc, err := h.location(c)
	if err != nil {
		return err
	}
	unit, err := resolveUnit(c, sessionFrom(c))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	entries, err := h.service.GetHourly(c.UserContext(), loc, h.now())
	if err != nil {
		return toHTTPError(err, "no forecast data for requested location", "failed to fetch forecast data")
	}

	views := make([]hourlyView, 0, len(entries))
	for _, e := range entries {
		views = append(views, hourlyView{
			Hourly:    e,
			Temp:      unit.Format(e.TemperatureC),
			FeelsLike: "Feels " + unit.Format(e.FeelsLikeC),
			Icon:      weather.IconFor(e.Condition),
		})
	}

	return c.JSON(fiber.Map{
		"location": loc,
		"hourly":   views,
	})
}

func (h *handler) outdoor(c *fiber.Ctx) error {
	loc, err := h.location(c)
	if err != nil {
		return err
	}

	report := h.service.GetOutdoor(loc)
	return c.JSON(fiber.Map{
		"location":   loc,
		"airQuality": report.AirQuality,
		"uv":         report.UV,
		"health":     report.Health,
	})
}

func (h *handler) forecast(c *fiber.Ctx) error {
	var req forecastQuery
	if err := req.bind(c); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	loc, err := h.location(c)
	if err != nil {
		return err
	}

	fc, err := h.service.GetForecast(c.UserContext(), loc, req.Days)
	if err != nil {
		return toHTTPError(err, "no forecast data for requested location", "failed to fetch forecast data")
	}

	return c.JSON(fiber.Map{
		"location": loc,
		"days":     req.Days,
		"forecast": fc,
	})
}

func (h *handler) cities(c *fiber.Ctx) error {
	unit, err := resolveUnit(c, sessionFrom(c))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(fiber.Map{
		"unit":   unit,
		"cities": h.service.GetCities(unit),
	})
}

// toHTTPError maps domain errors onto HTTP statuses. Anything unexpected
// is logged and reported with the generic failure message.
func toHTTPError(err error, notFoundMsg, failMsg string) error {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, forecast.ErrInsufficientData):
		return fiber.NewError(fiber.StatusNotFound, notFoundMsg)
	case errors.Is(err, weather.ErrUnknownCity), errors.Is(err, weather.ErrUnknownUnit):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrUnknownSession):
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, weather.ErrNoProviders):
		return fiber.NewError(fiber.StatusServiceUnavailable, failMsg)
	default:
		logger.GetLogger().Warnw("request failed", "error", err)
		return fiber.NewError(fiber.StatusBadGateway, failMsg)
	}
}
