package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/i474232898/observatory/internal/forecast"
	"github.com/i474232898/observatory/internal/weather"
)

const openMeteoBaseURL = "https://api.open-meteo.com/v1"

// OpenMeteoProvider implements the weather.Provider interface for Open-Meteo.
// It needs no API key but only works with coordinates.
type OpenMeteoProvider struct {
	base
}

func NewOpenMeteoProvider(client *http.Client, opts ...Option) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		base: newBase("openmeteo", openMeteoBaseURL, client, opts),
	}
}

// get queries the forecast endpoint for loc with extra parameters and
// decodes the response into out.
func (p *OpenMeteoProvider) get(ctx context.Context, loc weather.Location, extra url.Values, out any) error {
	if !loc.HasCoordinates() {
		return fmt.Errorf("openmeteo: %w", errNoCoordinates)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", strconv.FormatFloat(*loc.Lat, 'f', -1, 64))
		values.Set("longitude", strconv.FormatFloat(*loc.Lon, 'f', -1, 64))
		values.Set("timeformat", "unixtime")
		for k, v := range extra {
			values[k] = v
		}

		u := fmt.Sprintf("%s/forecast?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := p.do(ctx, buildRequest)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode openmeteo response: %w", err)
	}
	return nil
}

func (p *OpenMeteoProvider) Fetch(ctx context.Context, loc weather.Location) (weather.ProviderReading, error) {
	var payload struct {
		Current struct {
			Time        int64   `json:"time"`
			Temperature float64 `json:"temperature_2m"`
			Apparent    float64 `json:"apparent_temperature"`
			Humidity    float64 `json:"relative_humidity_2m"`
			WindSpeed   float64 `json:"wind_speed_10m"`
			Pressure    float64 `json:"surface_pressure"`
			Precip      float64 `json:"precipitation"`
			WeatherCode int     `json:"weather_code"`
		} `json:"current"`
	}

	extra := url.Values{}
	extra.Set("current", "temperature_2m,apparent_temperature,relative_humidity_2m,wind_speed_10m,surface_pressure,precipitation,weather_code")
	extra.Set("wind_speed_unit", "ms")
	if err := p.get(ctx, loc, extra, &payload); err != nil {
		return weather.ProviderReading{}, err
	}

	ts := time.Now().UTC()
	if payload.Current.Time > 0 {
		ts = time.Unix(payload.Current.Time, 0).UTC()
	}

	cond := mapOpenMeteoCondition(payload.Current.WeatherCode)

	return weather.ProviderReading{
		ProviderName:   p.name,
		Timestamp:      ts,
		TemperatureC:   payload.Current.Temperature,
		FeelsLikeC:     payload.Current.Apparent,
		HumidityPct:    payload.Current.Humidity,
		WindSpeedMS:    payload.Current.WindSpeed,
		PressureHpa:    payload.Current.Pressure,
		PrecipMm:       payload.Current.Precip,
		Condition:      cond,
		ConditionLabel: cond.Label(),
	}, nil
}

// FetchSamples returns the hourly forecast for today and tomorrow. The
// hourly arrays are parallel; a null precipitation probability stays nil.
func (p *OpenMeteoProvider) FetchSamples(ctx context.Context, loc weather.Location) ([]forecast.Sample, error) {
	var payload struct {
		Hourly struct {
			Time        []int64    `json:"time"`
			Temperature []float64  `json:"temperature_2m"`
			Apparent    []float64  `json:"apparent_temperature"`
			PrecipProb  []*float64 `json:"precipitation_probability"`
			WeatherCode []int      `json:"weather_code"`
		} `json:"hourly"`
	}

	extra := url.Values{}
	extra.Set("hourly", "temperature_2m,apparent_temperature,precipitation_probability,weather_code")
	extra.Set("forecast_days", strconv.Itoa(samplesDays))
	if err := p.get(ctx, loc, extra, &payload); err != nil {
		return nil, err
	}

	h := payload.Hourly
	samples := make([]forecast.Sample, 0, len(h.Time))
	for i, ts := range h.Time {
		s := forecast.Sample{Timestamp: ts}
		if i < len(h.Temperature) {
			s.Temperature = h.Temperature[i]
		}
		if i < len(h.Apparent) {
			s.FeelsLike = h.Apparent[i]
		}
		if i < len(h.PrecipProb) && h.PrecipProb[i] != nil {
			frac := *h.PrecipProb[i] / 100
			s.PrecipProbability = &frac
		}
		if i < len(h.WeatherCode) {
			s.Condition = mapOpenMeteoCondition(h.WeatherCode[i]).Label()
		}
		samples = append(samples, s)
	}
	return samples, nil
}

func mapOpenMeteoCondition(code int) weather.Condition {
	// Mapping based on Open-Meteo WMO weather codes (simplified).
	switch {
	case code == 0:
		return weather.ConditionClear
	case code >= 1 && code <= 3:
		return weather.ConditionCloudy
	case code == 45 || code == 48:
		return weather.ConditionMist
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82):
		return weather.ConditionRain
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return weather.ConditionSnow
	case code >= 95:
		return weather.ConditionStorm
	default:
		return weather.ConditionUnknown
	}
}
