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

const openWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

// OpenWeatherProvider implements weather.Provider, weather.ForecastProvider
// and weather.SampleProvider for OpenWeatherMap.
type OpenWeatherProvider struct {
	base
	apiKey string
}

func NewOpenWeatherProvider(client *http.Client, apiKey string, opts ...Option) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		base:   newBase("openweathermap", openWeatherBaseURL, client, opts),
		apiKey: apiKey,
	}
}

type owmCondition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

type owmCurrentPayload struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
		Pressure  float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Rain struct {
		OneH   float64 `json:"1h"`
		ThreeH float64 `json:"3h"`
	} `json:"rain"`
	Sys struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"sys"`
	Weather []owmCondition `json:"weather"`
}

type owmForecastPayload struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  float64 `json:"humidity"`
			Pressure  float64 `json:"pressure"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Rain struct {
			ThreeH float64 `json:"3h"`
		} `json:"rain"`
		Pop     *float64       `json:"pop"`
		Weather []owmCondition `json:"weather"`
	} `json:"list"`
}

func (p *OpenWeatherProvider) get(ctx context.Context, endpoint string, loc weather.Location, out any) error {
	if p.apiKey == "" {
		return fmt.Errorf("openweather %w", errMissingAPIKey)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("appid", p.apiKey)
		values.Set("units", "metric")

		if loc.HasCoordinates() {
			values.Set("lat", strconv.FormatFloat(*loc.Lat, 'f', -1, 64))
			values.Set("lon", strconv.FormatFloat(*loc.Lon, 'f', -1, 64))
		} else {
			// city,country
			q := loc.City
			if loc.Country != "" {
				q = fmt.Sprintf("%s,%s", loc.City, loc.Country)
			}
			values.Set("q", q)
		}

		u := fmt.Sprintf("%s/%s?%s", p.baseURL, endpoint, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := p.do(ctx, buildRequest)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode openweather %s response: %w", endpoint, err)
	}
	return nil
}

func (p *OpenWeatherProvider) Fetch(ctx context.Context, loc weather.Location) (weather.ProviderReading, error) {
	var payload owmCurrentPayload
	if err := p.get(ctx, "weather", loc, &payload); err != nil {
		return weather.ProviderReading{}, err
	}

	ts := time.Now().UTC()
	if payload.Dt > 0 {
		ts = time.Unix(payload.Dt, 0).UTC()
	}

	precip := payload.Rain.OneH
	if precip == 0 {
		precip = payload.Rain.ThreeH
	}

	label, desc := firstCondition(payload.Weather)

	return weather.ProviderReading{
		ProviderName:   p.name,
		Timestamp:      ts,
		TemperatureC:   payload.Main.Temp,
		FeelsLikeC:     payload.Main.FeelsLike,
		HumidityPct:    payload.Main.Humidity,
		WindSpeedMS:    payload.Wind.Speed,
		PressureHpa:    payload.Main.Pressure,
		PrecipMm:       precip,
		Condition:      mapOpenWeatherCondition(label),
		ConditionLabel: label,
		Description:    desc,
		Sunrise:        unixOrZero(payload.Sys.Sunrise),
		Sunset:         unixOrZero(payload.Sys.Sunset),
	}, nil
}

// FetchSamples returns the 3-hourly forecast list as aligner samples.
func (p *OpenWeatherProvider) FetchSamples(ctx context.Context, loc weather.Location) ([]forecast.Sample, error) {
	var payload owmForecastPayload
	if err := p.get(ctx, "forecast", loc, &payload); err != nil {
		return nil, err
	}

	samples := make([]forecast.Sample, 0, len(payload.List))
	for _, item := range payload.List {
		label, _ := firstCondition(item.Weather)
		samples = append(samples, forecast.Sample{
			Timestamp:         item.Dt,
			Temperature:       item.Main.Temp,
			FeelsLike:         item.Main.FeelsLike,
			PrecipProbability: item.Pop,
			Condition:         label,
		})
	}
	return samples, nil
}

// FetchForecast returns one reading per 3-hour forecast entry for the
// requested number of days; the service buckets them per day.
func (p *OpenWeatherProvider) FetchForecast(ctx context.Context, loc weather.Location, days int) ([]weather.ProviderReading, error) {
	var payload owmForecastPayload
	if err := p.get(ctx, "forecast", loc, &payload); err != nil {
		return nil, err
	}

	// 8 entries per day at 3-hour steps.
	maxEntries := days * 8
	if maxEntries > len(payload.List) {
		maxEntries = len(payload.List)
	}

	readings := make([]weather.ProviderReading, 0, maxEntries)
	for _, item := range payload.List[:maxEntries] {
		label, desc := firstCondition(item.Weather)
		readings = append(readings, weather.ProviderReading{
			ProviderName:   p.name,
			Timestamp:      time.Unix(item.Dt, 0).UTC(),
			TemperatureC:   item.Main.Temp,
			FeelsLikeC:     item.Main.FeelsLike,
			HumidityPct:    item.Main.Humidity,
			WindSpeedMS:    item.Wind.Speed,
			PressureHpa:    item.Main.Pressure,
			PrecipMm:       item.Rain.ThreeH,
			Condition:      mapOpenWeatherCondition(label),
			ConditionLabel: label,
			Description:    desc,
		})
	}
	return readings, nil
}

func firstCondition(items []owmCondition) (label, description string) {
	if len(items) == 0 {
		return "", ""
	}
	return items[0].Main, items[0].Description
}

func unixOrZero(sec int64) time.Time {
	if sec <= 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

func mapOpenWeatherCondition(main string) weather.Condition {
	switch main {
	case "Clear":
		return weather.ConditionClear
	case "Clouds":
		return weather.ConditionCloudy
	case "Rain", "Drizzle":
		return weather.ConditionRain
	case "Snow":
		return weather.ConditionSnow
	case "Thunderstorm":
		return weather.ConditionStorm
	case "Mist", "Smoke", "Haze", "Fog":
		return weather.ConditionMist
	default:
		return weather.ConditionUnknown
	}
}
