package providers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kelvins/geocoder"
)

var errGeocoderKey = errors.New("geocoder api key is not configured")

// ResolveCoordinates looks up the latitude and longitude of city, country
// with the Google geocoding API.
func ResolveCoordinates(apiKey, city, country string) (float64, float64, error) {
	if apiKey == "" {
		return 0, 0, errGeocoderKey
	}
	city = strings.TrimSpace(city)
	if city == "" {
		return 0, 0, fmt.Errorf("geocoding requires a city")
	}

	geocoder.ApiKey = apiKey
	loc, err := geocoder.Geocoding(geocoder.Address{
		City:    city,
		Country: strings.TrimSpace(country),
	})
	if err != nil {
		return 0, 0, fmt.Errorf("geocoding %s,%s: %w", city, country, err)
	}
	return loc.Latitude, loc.Longitude, nil
}
