package services

import (
	"context"
	"os"
	"sync"
	"time"

	"googlemaps.github.io/maps"

	"alloplombier-be/config"
)

// geocodeTimeout bounds every call to the geocoding provider.
const geocodeTimeout = 10 * time.Second

var (
	mapsClient *maps.Client
	mapsOnce   sync.Once
)

func getMapsClient() *maps.Client {
	mapsOnce.Do(func() {
		key := os.Getenv("MAPS_API_KEY")
		if key == "" {
			config.Logger.Warn("MAPS_API_KEY not set, geocoding disabled")
			return
		}
		c, err := maps.NewClient(maps.WithAPIKey(key))
		if err != nil {
			config.Logger.WithError(err).Error("Failed to create geocoding client")
			return
		}
		mapsClient = c
	})
	return mapsClient
}

// GeoPoint is a forward-geocoding result.
type GeoPoint struct {
	Latitude  float64
	Longitude float64
	City      *string
}

// Place is a reverse-geocoding result.
type Place struct {
	Address string
	City    *string
}

// Geocode resolves a free-text address to coordinates and a city. A nil
// result is a normal outcome (no match, provider down, no API key) and is
// never an error: callers fall back to an ungeocoded request.
func Geocode(ctx context.Context, address string) *GeoPoint {
	c := getMapsClient()
	if c == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, geocodeTimeout)
	defer cancel()

	results, err := c.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		config.Logger.WithError(err).WithField("address", address).Warn("Geocoding lookup failed")
		return nil
	}
	if len(results) == 0 {
		return nil
	}

	loc := results[0].Geometry.Location
	return &GeoPoint{
		Latitude:  loc.Lat,
		Longitude: loc.Lng,
		City:      cityFromComponents(results[0].AddressComponents),
	}
}

// ReverseGeocode resolves coordinates to a formatted address and city, with
// the same nil-on-no-match contract as Geocode.
func ReverseGeocode(ctx context.Context, lat, lng float64) *Place {
	c := getMapsClient()
	if c == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, geocodeTimeout)
	defer cancel()

	results, err := c.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: lat, Lng: lng},
	})
	if err != nil {
		config.Logger.WithError(err).Warn("Reverse geocoding lookup failed")
		return nil
	}
	if len(results) == 0 {
		return nil
	}

	return &Place{
		Address: results[0].FormattedAddress,
		City:    cityFromComponents(results[0].AddressComponents),
	}
}

// cityFromComponents scans the structured address components in priority
// order and returns the first long name present. Locality is the most
// specific human-meaningful city name, so it wins over the administrative
// areas.
func cityFromComponents(components []maps.AddressComponent) *string {
	priority := []string{
		"locality",
		"administrative_area_level_2",
		"administrative_area_level_1",
	}
	for _, want := range priority {
		for _, component := range components {
			for _, t := range component.Types {
				if t == want && component.LongName != "" {
					name := component.LongName
					return &name
				}
			}
		}
	}
	return nil
}
