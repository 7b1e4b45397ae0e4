package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/observatory/internal/common"
	"github.com/i474232898/observatory/internal/forecast"
	"github.com/i474232898/observatory/internal/weather"
)

const weatherAPIBaseURL = "https://api.weatherapi.com/v1"

// samplesDays covers the hourly view (ten hours ahead) across midnight.
const samplesDays = 2

// WeatherAPIProvider implements weather.Provider, weather.ForecastProvider
// and weather.SampleProvider for WeatherAPI.com.
type WeatherAPIProvider struct {
	base
	apiKey string
}

func NewWeatherAPIProvider(client *http.Client, apiKey string, opts ...Option) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		base:   newBase("weatherapi", weatherAPIBaseURL, client, opts),
		apiKey: apiKey,
	}
}

type wapiCondition struct {
	Text string `json:"text"`
}

type wapiForecastPayload struct {
	Forecast struct {
		Forecastday []struct {
			DateEpoch int64 `json:"date_epoch"`
			Day       struct {
				AvgTempC      float64       `json:"avgtemp_c"`
				AvgHumidity   float64       `json:"avghumidity"`
				MaxWindKph    float64       `json:"maxwind_kph"`
				TotalPrecipMm float64       `json:"totalprecip_mm"`
				Condition     wapiCondition `json:"condition"`
			} `json:"day"`
			Hour []struct {
				TimeEpoch    int64         `json:"time_epoch"`
				TempC        float64       `json:"temp_c"`
				FeelsLikeC   float64       `json:"feelslike_c"`
				ChanceOfRain *float64      `json:"chance_of_rain"`
				Condition    wapiCondition `json:"condition"`
			} `json:"hour"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

func (p *WeatherAPIProvider) get(ctx context.Context, endpoint string, loc weather.Location, extra url.Values, out any) error {
	if p.apiKey == "" {
		return fmt.Errorf("weatherapi %w", errMissingAPIKey)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		// WeatherAPI uses "q" for location; it accepts "city,country" or "lat,lon".
		if loc.HasCoordinates() {
			values.Set("q", strconv.FormatFloat(*loc.Lat, 'f', -1, 64)+","+strconv.FormatFloat(*loc.Lon, 'f', -1, 64))
		} else {
			q := loc.City
			if loc.Country != "" {
				q = fmt.Sprintf("%s,%s", loc.City, loc.Country)
			}
			values.Set("q", q)
		}
		for k, vs := range extra {
			for _, v := range vs {
				values.Add(k, v)
			}
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
		return fmt.Errorf("decode weatherapi %s response: %w", endpoint, err)
	}
	return nil
}

func (p *WeatherAPIProvider) Fetch(ctx context.Context, loc weather.Location) (weather.ProviderReading, error) {
	var payload struct {
		Location struct {
			LocaltimeEpoch int64 `json:"localtime_epoch"`
		} `json:"location"`
		Current struct {
			TempC      float64       `json:"temp_c"`
			FeelsLikeC float64       `json:"feelslike_c"`
			Humidity   float64       `json:"humidity"`
			WindKph    float64       `json:"wind_kph"`
			PressureMb float64       `json:"pressure_mb"`
			PrecipMm   float64       `json:"precip_mm"`
			Condition  wapiCondition `json:"condition"`
		} `json:"current"`
	}

	if err := p.get(ctx, "current.json", loc, nil, &payload); err != nil {
		return weather.ProviderReading{}, err
	}

	ts := time.Now().UTC()
	if payload.Location.LocaltimeEpoch > 0 {
		ts = time.Unix(payload.Location.LocaltimeEpoch, 0).UTC()
	}

	cond := mapWeatherAPICondition(payload.Current.Condition.Text)

	return weather.ProviderReading{
		ProviderName:   p.name,
		Timestamp:      ts,
		TemperatureC:   payload.Current.TempC,
		FeelsLikeC:     payload.Current.FeelsLikeC,
		HumidityPct:    payload.Current.Humidity,
		WindSpeedMS:    kphToMS(payload.Current.WindKph),
		PressureHpa:    payload.Current.PressureMb,
		PrecipMm:       payload.Current.PrecipMm,
		Condition:      cond,
		ConditionLabel: cond.Label(),
		Description:    payload.Current.Condition.Text,
	}, nil
}

// FetchForecast returns one reading per forecast day.
func (p *WeatherAPIProvider) FetchForecast(ctx context.Context, loc weather.Location, days int) ([]weather.ProviderReading, error) {
	var payload wapiForecastPayload
	extra := url.Values{"days": []string{strconv.Itoa(days)}}
	if err := p.get(ctx, "forecast.json", loc, extra, &payload); err != nil {
		return nil, err
	}

	readings := make([]weather.ProviderReading, 0, len(payload.Forecast.Forecastday))
	for _, fd := range payload.Forecast.Forecastday {
		cond := mapWeatherAPICondition(fd.Day.Condition.Text)
		readings = append(readings, weather.ProviderReading{
			ProviderName:   p.name,
			Timestamp:      time.Unix(fd.DateEpoch, 0).UTC(),
			TemperatureC:   fd.Day.AvgTempC,
			FeelsLikeC:     fd.Day.AvgTempC,
			HumidityPct:    fd.Day.AvgHumidity,
			WindSpeedMS:    kphToMS(fd.Day.MaxWindKph),
			PrecipMm:       fd.Day.TotalPrecipMm,
			Condition:      cond,
			ConditionLabel: cond.Label(),
			Description:    fd.Day.Condition.Text,
		})
	}
	return readings, nil
}

// FetchSamples returns the hourly forecast as aligner samples. The
// percentage chance of rain is converted to a fraction.
func (p *WeatherAPIProvider) FetchSamples(ctx context.Context, loc weather.Location) ([]forecast.Sample, error) {
	var payload wapiForecastPayload
	extra := url.Values{"days": []string{strconv.Itoa(samplesDays)}}
	if err := p.get(ctx, "forecast.json", loc, extra, &payload); err != nil {
		return nil, err
	}

	var samples []forecast.Sample
	for _, fd := range payload.Forecast.Forecastday {
		for _, h := range fd.Hour {
			var pop *float64
			if h.ChanceOfRain != nil {
				v := *h.ChanceOfRain / 100
				pop = &v
			}
			samples = append(samples, forecast.Sample{
				Timestamp:         h.TimeEpoch,
				Temperature:       h.TempC,
				FeelsLike:         h.FeelsLikeC,
				PrecipProbability: pop,
				Condition:         mapWeatherAPICondition(h.Condition.Text).Label(),
			})
		}
	}
	return samples, nil
}

// Convert wind from kph to m/s (approx).
func kphToMS(kph float64) float64 {
	return kph / 3.6
}

func mapWeatherAPICondition(text string) weather.Condition {
	l := strings.ToLower(text)
	switch {
	case l == "":
		return weather.ConditionUnknown
	case common.HasAny(l, "thunder", "storm"):
		return weather.ConditionStorm
	case common.HasAny(l, "rain", "shower", "drizzle"):
		return weather.ConditionRain
	case common.HasAny(l, "snow", "sleet", "blizzard"):
		return weather.ConditionSnow
	case common.HasAny(l, "cloud", "overcast"):
		return weather.ConditionCloudy
	case common.HasAny(l, "sunny", "clear"):
		return weather.ConditionClear
	case common.HasAny(l, "mist", "fog", "haze"):
		return weather.ConditionMist
	default:
		return weather.ConditionUnknown
	}
}
