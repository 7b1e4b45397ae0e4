package geocode

import (
	"errors"
	"testing"

	"github.com/kelvins/geocoder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/observatory/internal/weather"
)

func TestResolver_FillsMissingCoordinates(t *testing.T) {
	var asked []geocoder.Address
	r := NewResolverWithLookup(func(a geocoder.Address) (geocoder.Location, error) {
		asked = append(asked, a)
		if a.City == "Nowhere" {
			return geocoder.Location{}, errors.New("ZERO_RESULTS")
		}
		return geocoder.Location{Latitude: 48.8566, Longitude: 2.3522}, nil
	})

	in := []weather.City{
		{Name: "Calgary", Country: "CA", Lat: 51.0460954, Lon: -114.065465},
		{Name: "Paris", Country: "FR"},
		{Name: "Nowhere", Country: "ZZ"},
	}
	out := r.Resolve(in)
	require.Len(t, out, 3)

	require.Len(t, asked, 2)
	assert.Equal(t, geocoder.Address{City: "Paris", Country: "FR"}, asked[0])

	assert.Equal(t, 51.0460954, out[0].Lat)
	assert.Equal(t, 48.8566, out[1].Lat)
	assert.Equal(t, 2.3522, out[1].Lon)
	assert.False(t, out[2].Location().HasCoordinates())

	// Input is left alone.
	assert.Zero(t, in[1].Lat)
}

func TestResolver_WithoutKeyIsNoop(t *testing.T) {
	in := []weather.City{{Name: "Paris", Country: "FR"}}
	out := NewResolver("").Resolve(in)
	assert.Equal(t, in, out)

	var nilResolver *Resolver
	assert.Equal(t, in, nilResolver.Resolve(in))
}
