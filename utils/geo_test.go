package utils

import (
	"math"
	"testing"
)

func TestDistanceKmSymmetricAndZero(t *testing.T) {
	t.Parallel()

	pairs := [][4]float64{
		{33.5731, -7.5898, 33.5892, -7.6039},
		{48.8566, 2.3522, 40.7128, -74.0060},
		{-33.8688, 151.2093, 35.6762, 139.6503},
	}

	for _, p := range pairs {
		ab := DistanceKm(p[0], p[1], p[2], p[3])
		ba := DistanceKm(p[2], p[3], p[0], p[1])
		if math.Abs(ab-ba) > 1e-9 {
			t.Fatalf("distance not symmetric: %v vs %v", ab, ba)
		}
		if d := DistanceKm(p[0], p[1], p[0], p[1]); d != 0 {
			t.Fatalf("distance to self should be 0, got %v", d)
		}
	}
}

func TestDistanceKmCasablanca(t *testing.T) {
	t.Parallel()

	// Two points in central Casablanca, roughly 2.2 km apart.
	got := DistanceKm(33.5731, -7.5898, 33.5892, -7.6039)
	if math.Abs(got-2.2) > 0.1 {
		t.Fatalf("unexpected distance: got %v, want about 2.2", got)
	}

	eta := ETAMinutes(got)
	if eta < 4 || eta > 5 {
		t.Fatalf("unexpected ETA for %v km: got %d", got, eta)
	}
}

func TestETAMinutes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		km   float64
		want int
	}{
		{2.0, 4},   // 4.29 rounds down
		{0, 1},     // floor of one minute
		{0.2, 1},   // rounds to 0, floored to 1
		{28.0, 60}, // one hour at cruising speed
		{14.0, 30},
	}
	for _, tc := range cases {
		if got := ETAMinutes(tc.km); got != tc.want {
			t.Fatalf("ETAMinutes(%v) = %d, want %d", tc.km, got, tc.want)
		}
	}
}

func TestFormatDistance(t *testing.T) {
	t.Parallel()

	if got := FormatDistance(0.05); got != "50 m" {
		t.Fatalf("FormatDistance(0.05) = %q, want %q", got, "50 m")
	}
	if got := FormatDistance(0.0999); got != "100 m" {
		t.Fatalf("FormatDistance(0.0999) = %q, want %q", got, "100 m")
	}
	// French locale: decimal comma.
	if got := FormatDistance(2.16); got != "2,2 km" {
		t.Fatalf("FormatDistance(2.16) = %q, want %q", got, "2,2 km")
	}
}

func TestFormatETA(t *testing.T) {
	t.Parallel()

	if got := FormatETA(4); got != "4 min" {
		t.Fatalf("FormatETA(4) = %q, want %q", got, "4 min")
	}
	if got := FormatETA(90); got != "1h30" {
		t.Fatalf("FormatETA(90) = %q, want %q", got, "1h30")
	}
	if got := FormatETA(60); got != "1h00" {
		t.Fatalf("FormatETA(60) = %q, want %q", got, "1h00")
	}
}
