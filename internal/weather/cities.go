package weather

import (
	"fmt"
	"strings"

	"github.com/i474232898/observatory/internal/common"
)

// City is a selectable city with the region shown next to its name.
type City struct {
	Name    string  `json:"city"`
	Country string  `json:"country"`
	Region  string  `json:"region"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Location converts the city into a provider lookup location. Zero
// coordinates are treated as unknown.
func (c City) Location() Location {
	loc := Location{City: c.Name, Country: c.Country}
	if c.Lat != 0 || c.Lon != 0 {
		lat, lon := c.Lat, c.Lon
		loc.Lat, loc.Lon = &lat, &lon
	}
	return loc
}

// DefaultCity is selected for new sessions and used when a request names no city.
const DefaultCity = "Calgary"

// DefaultCities is the built-in city list, in display order.
var DefaultCities = []City{
	{Name: "Calgary", Country: "CA", Region: "Alberta", Lat: 51.0460954, Lon: -114.065465},
	{Name: "Vancouver", Country: "CA", Region: "British Columbia", Lat: 49.2827, Lon: -123.1207},
	{Name: "Hong Kong", Country: "HK", Region: "Hong Kong SAR", Lat: 22.3193, Lon: 114.1694},
	{Name: "Regina", Country: "CA", Region: "Saskatchewan", Lat: 50.4452, Lon: -104.6189},
	{Name: "Toronto", Country: "CA", Region: "Ontario", Lat: 43.6532, Lon: -79.3832},
}

// Catalog is an ordered, name-indexed set of cities.
type Catalog struct {
	cities []City
	byName map[string]int
}

// NewCatalog builds a catalog. Later duplicates of a name are ignored.
func NewCatalog(cities []City) *Catalog {
	c := &Catalog{byName: make(map[string]int, len(cities))}
	for _, city := range cities {
		key := strings.ToLower(city.Name)
		if _, dup := c.byName[key]; dup {
			continue
		}
		if city.Region == "" {
			city.Region = city.Country
		}
		c.byName[key] = len(c.cities)
		c.cities = append(c.cities, city)
	}
	return c
}

// Cities returns the cities in display order.
func (c *Catalog) Cities() []City {
	out := make([]City, len(c.cities))
	copy(out, c.cities)
	return out
}

// Lookup finds a city by case-insensitive name.
func (c *Catalog) Lookup(name string) (City, bool) {
	i, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return City{}, false
	}
	return c.cities[i], true
}

// Resolve returns the catalog location for name, or an error naming the
// unknown city.
func (c *Catalog) Resolve(name string) (Location, error) {
	city, ok := c.Lookup(name)
	if !ok {
		return Location{}, fmt.Errorf("%w: %s", ErrUnknownCity, name)
	}
	return city.Location(), nil
}

// CitySummary is one row of the city list.
type CitySummary struct {
	City        string `json:"city"`
	Region      string `json:"region"`
	Temperature string `json:"temp"`
	Icon        string `json:"icon"`
}

// IconFor picks a list icon from a provider condition label.
func IconFor(label string) string {
	l := strings.ToLower(label)
	switch {
	case common.HasAny(l, "clear"):
		return "wb-sunny"
	case common.HasAny(l, "cloud"):
		return "cloud"
	case common.HasAny(l, "rain"):
		return "grain"
	case common.HasAny(l, "snow"):
		return "ac-unit"
	default:
		return "cloud"
	}
}
