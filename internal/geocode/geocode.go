// Package geocode fills in coordinates for cities configured by name only.
package geocode

import (
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/observatory/internal/logger"
	"github.com/i474232898/observatory/internal/weather"
)

// LookupFunc resolves an address to coordinates.
type LookupFunc func(geocoder.Address) (geocoder.Location, error)

// Resolver looks up missing city coordinates with the Google geocoding API.
type Resolver struct {
	lookup LookupFunc
}

var setKey sync.Once

// NewResolver returns a resolver backed by the Google geocoding API. An
// empty apiKey yields a resolver that leaves cities untouched.
func NewResolver(apiKey string) *Resolver {
	if apiKey == "" {
		return &Resolver{}
	}
	// The library keeps the key in a package variable.
	setKey.Do(func() { geocoder.ApiKey = apiKey })
	return &Resolver{lookup: geocoder.Geocoding}
}

// NewResolverWithLookup uses fn instead of the remote API.
func NewResolverWithLookup(fn LookupFunc) *Resolver {
	return &Resolver{lookup: fn}
}

// Resolve returns cities with coordinates filled in where they were zero.
// Cities that cannot be resolved keep their zero coordinates; providers
// fall back to a city,country query for them.
func (r *Resolver) Resolve(cities []weather.City) []weather.City {
	log := logger.GetLogger()

	out := make([]weather.City, len(cities))
	copy(out, cities)
	if r == nil || r.lookup == nil {
		return out
	}

	for i, c := range out {
		if c.Lat != 0 || c.Lon != 0 {
			continue
		}
		loc, err := r.lookup(geocoder.Address{City: c.Name, Country: c.Country})
		if err != nil {
			log.Warnw("geocoding failed", "city", c.Name, "country", c.Country, "error", err)
			continue
		}
		out[i].Lat = loc.Latitude
		out[i].Lon = loc.Longitude
		log.Infow("geocoded city", "city", c.Name, "lat", loc.Latitude, "lon", loc.Longitude)
	}
	return out
}
