package utils

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// earthRadiusKm is the mean Earth radius used by the haversine formula.
	earthRadiusKm = 6371.0
	// avgSpeedKmh is the assumed urban travel speed for ETA estimates.
	avgSpeedKmh = 28.0
)

// Distances are shown to a French-speaking audience.
var printer = message.NewPrinter(language.French)

// DistanceKm returns the great-circle distance in kilometers between two
// coordinates, using the haversine formula.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := deg2rad(lat2 - lat1)
	dLng := deg2rad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(lat1))*math.Cos(deg2rad(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func deg2rad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// ETAMinutes estimates travel time in whole minutes at avgSpeedKmh,
// rounded to the nearest minute and never below one minute.
func ETAMinutes(distanceKm float64) int {
	minutes := int(math.Round(distanceKm / avgSpeedKmh * 60))
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// FormatDistance renders a distance for display: below 100 m it switches to
// meters, otherwise kilometers with one decimal and locale-aware separators.
func FormatDistance(km float64) string {
	if km < 0.1 {
		return printer.Sprintf("%d m", int(math.Round(km*1000)))
	}
	return printer.Sprintf("%.1f km", km)
}

// FormatETA renders an ETA in minutes, switching to h+min past one hour.
func FormatETA(minutes int) string {
	if minutes < 60 {
		return printer.Sprintf("%d min", minutes)
	}
	return printer.Sprintf("%dh%02d", minutes/60, minutes%60)
}
