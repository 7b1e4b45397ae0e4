package weather

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/i474232898/observatory/internal/forecast"
	"github.com/i474232898/observatory/internal/logger"
	"github.com/i474232898/observatory/internal/outdoor"
)

// ErrNoProviders is returned when no configured provider can serve a request.
var ErrNoProviders = errors.New("no weather providers configured")

// Service orchestrates fetching from multiple providers and persisting snapshots.
type Service struct {
	store       Store
	providers   []Provider
	catalog     *Catalog
	displayZone *time.Location
}

// Option customizes a Service.
type Option func(*Service)

// WithCatalog replaces the built-in city list.
func WithCatalog(c *Catalog) Option {
	return func(s *Service) { s.catalog = c }
}

// WithDisplayZone sets the zone used for hourly slot labels.
func WithDisplayZone(loc *time.Location) Option {
	return func(s *Service) { s.displayZone = loc }
}

// NewService creates a new Service.
func NewService(store Store, providers []Provider, opts ...Option) *Service {
	s := &Service{
		store:       store,
		providers:   providers,
		catalog:     NewCatalog(DefaultCities),
		displayZone: time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the cities this service tracks.
func (s *Service) Catalog() *Catalog {
	return s.catalog
}

// Locations returns the lookup location of every tracked city.
func (s *Service) Locations() []Location {
	cities := s.catalog.Cities()
	locs := make([]Location, 0, len(cities))
	for _, c := range cities {
		locs = append(locs, c.Location())
	}
	return locs
}

// FetchAndStore fetches data from all providers concurrently for the given location,
// aggregates successful readings, and stores a snapshot.
func (s *Service) FetchAndStore(ctx context.Context, loc Location) error {
	log := logger.GetLogger()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		readings []ProviderReading
	)

	log.Debugw("fetching current weather", "location", loc.Key(), "providers", len(s.providers))
	if len(s.providers) == 0 {
		log.Errorw("no providers available to fetch weather data", "location", loc.Key())
		return ErrNoProviders
	}

	for _, p := range s.providers {
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()

			r, err := p.Fetch(ctx, loc)
			if err != nil {
				// Log and continue; we want partial success when possible.
				log.Warnw("provider fetch failed", "provider", p.Name(), "location", loc.Key(), "error", err)
				return
			}

			mu.Lock()
			readings = append(readings, r)
			mu.Unlock()
		}()
	}

	wg.Wait()

	if len(readings) == 0 {
		// No providers succeeded; do not overwrite last good snapshot.
		log.Warnw("no successful provider readings; keeping last good snapshot", "location", loc.Key())
		return nil
	}

	// Goroutines finish in any order; aggregate in a stable one.
	sort.SliceStable(readings, func(i, j int) bool {
		return readings[i].ProviderName < readings[j].ProviderName
	})

	snapshot := AggregateReadings(loc, readings)
	if snapshot.Timestamp.IsZero() {
		snapshot.Timestamp = time.Now().UTC()
	}
	s.store.SaveSnapshot(loc, snapshot)
	return nil
}

// RefreshSamples fetches the raw forecast list from the first sample
// provider that answers and stores it.
func (s *Service) RefreshSamples(ctx context.Context, loc Location) ([]forecast.Sample, error) {
	log := logger.GetLogger()

	var lastErr error
	for _, p := range s.providers {
		sp, ok := p.(SampleProvider)
		if !ok {
			continue
		}
		samples, err := sp.FetchSamples(ctx, loc)
		if err != nil {
			log.Warnw("provider sample fetch failed", "provider", p.Name(), "location", loc.Key(), "error", err)
			lastErr = err
			continue
		}
		s.store.SaveSamples(loc, samples)
		log.Debugw("stored forecast samples", "provider", p.Name(), "location", loc.Key(), "count", len(samples))
		return samples, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("fetch forecast samples for %s: %w", loc.Key(), lastErr)
	}
	return nil, ErrNoProviders
}

// GetHourly aligns the stored forecast samples for loc onto six slots two
// hours apart starting at now. Samples are fetched when none are stored.
func (s *Service) GetHourly(ctx context.Context, loc Location, now time.Time) ([]forecast.Hourly, error) {
	samples, err := s.store.GetSamples(loc)
	if err != nil {
		samples, err = s.RefreshSamples(ctx, loc)
		if err != nil {
			return nil, err
		}
	}

	slots := forecast.NewSlots(now, forecast.DefaultSlotCount, forecast.DefaultSlotStep, s.displayZone)
	return forecast.Align(samples, slots)
}

// GetOutdoor classifies the latest snapshot for loc. Without a snapshot
// every assessment is Unknown.
func (s *Service) GetOutdoor(loc Location) outdoor.Report {
	snap, err := s.store.GetLatest(loc)
	if err != nil {
		return outdoor.Classify(nil)
	}
	return outdoor.Classify(snap.Observation())
}

// GetDetails returns the detailed observations for the latest snapshot.
func (s *Service) GetDetails(loc Location, unit TemperatureUnit) (Details, error) {
	snap, err := s.store.GetLatest(loc)
	if err != nil {
		return Details{}, err
	}
	return NewDetails(snap, unit), nil
}

// GetCities summarizes every tracked city in catalog order. Cities without
// a snapshot yet show "-" as their temperature.
func (s *Service) GetCities(unit TemperatureUnit) []CitySummary {
	cities := s.catalog.Cities()
	out := make([]CitySummary, 0, len(cities))
	for _, c := range cities {
		sum := CitySummary{City: c.Name, Region: c.Region, Temperature: "-", Icon: IconFor("")}
		if snap, err := s.store.GetLatest(c.Location()); err == nil {
			sum.Temperature = unit.Format(snap.Temperature)
			label := snap.ConditionLabel
			if label == "" {
				label = snap.Condition.Label()
			}
			sum.Icon = IconFor(label)
		}
		out = append(out, sum)
	}
	return out
}

// GetForecast fetches multi-day forecasts from providers that support it,
// aggregates them per day, and returns a normalized Forecast.
func (s *Service) GetForecast(ctx context.Context, loc Location, days int) (Forecast, error) {
	if days <= 0 {
		return nil, fmt.Errorf("days must be greater than zero")
	}

	log := logger.GetLogger()
	log.Debugw("fetching daily forecast", "location", loc.Key(), "days", days)

	// Use a bounded context for outbound provider calls.
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	type dayKey string

	var (
		wg            sync.WaitGroup
		mu            sync.Mutex
		dayReadings   = make(map[dayKey][]ProviderReading)
		dayTimestamps = make(map[dayKey]time.Time)
	)

	for _, p := range s.providers {
		fp, ok := p.(ForecastProvider)
		if !ok {
			continue
		}

		providerName := p.Name()

		wg.Add(1)
		go func(fp ForecastProvider, providerName string) {
			defer wg.Done()

			readings, err := fp.FetchForecast(ctx, loc, days)
			if err != nil {
				log.Warnw("provider forecast failed", "provider", providerName, "location", loc.Key(), "error", err)
				return
			}

			if len(readings) == 0 {
				return
			}

			mu.Lock()
			defer mu.Unlock()

			for _, r := range readings {
				ts := r.Timestamp.UTC()
				k := dayKey(ts.Format("2006-01-02"))

				dayReadings[k] = append(dayReadings[k], r)

				if _, exists := dayTimestamps[k]; !exists {
					dayTimestamps[k] = time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
				}
			}
		}(fp, providerName)
	}

	wg.Wait()

	if len(dayReadings) == 0 {
		log.Warnw("no successful forecast readings", "location", loc.Key())
		return nil, fmt.Errorf("no forecast data available")
	}

	// Collect and sort all date keys.
	keys := make([]string, 0, len(dayReadings))
	for k := range dayReadings {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)

	forecastDays := make(Forecast, 0, days)

	for _, k := range keys {
		if len(forecastDays) >= days {
			break
		}

		dk := dayKey(k)
		readings := dayReadings[dk]
		if len(readings) == 0 {
			continue
		}

		sort.SliceStable(readings, func(i, j int) bool {
			return readings[i].ProviderName < readings[j].ProviderName
		})

		snapshot := AggregateReadings(loc, readings)
		if ts, ok := dayTimestamps[dk]; ok {
			snapshot.Timestamp = ts
		}

		forecastDays = append(forecastDays, snapshot)
	}

	return forecastDays, nil
}

// GetLatest delegates to the underlying store.
func (s *Service) GetLatest(loc Location) (WeatherSnapshot, error) {
	return s.store.GetLatest(loc)
}

// GetRange delegates to the underlying store.
func (s *Service) GetRange(loc Location, from, to time.Time) ([]WeatherSnapshot, error) {
	return s.store.GetRange(loc, from, to)
}
