package services

import (
	"testing"

	"googlemaps.github.io/maps"
)

func TestCityFromComponentsLocalityWins(t *testing.T) {
	t.Parallel()

	components := []maps.AddressComponent{
		{LongName: "Casablanca-Settat", Types: []string{"administrative_area_level_1", "political"}},
		{LongName: "Préfecture de Casablanca", Types: []string{"administrative_area_level_2", "political"}},
		{LongName: "Casablanca", Types: []string{"locality", "political"}},
	}

	got := cityFromComponents(components)
	if got == nil || *got != "Casablanca" {
		t.Fatalf("expected locality to win, got %v", got)
	}
}

func TestCityFromComponentsAdminLevel2Fallback(t *testing.T) {
	t.Parallel()

	components := []maps.AddressComponent{
		{LongName: "Casablanca-Settat", Types: []string{"administrative_area_level_1", "political"}},
		{LongName: "Préfecture de Casablanca", Types: []string{"administrative_area_level_2", "political"}},
	}

	got := cityFromComponents(components)
	if got == nil || *got != "Préfecture de Casablanca" {
		t.Fatalf("expected administrative_area_level_2, got %v", got)
	}
}

func TestCityFromComponentsAdminLevel1Fallback(t *testing.T) {
	t.Parallel()

	// A reverse lookup around (33.5892, -7.6039) can come back without any
	// locality; the region name is still a usable city.
	components := []maps.AddressComponent{
		{LongName: "Maroc", Types: []string{"country", "political"}},
		{LongName: "Casablanca-Settat", Types: []string{"administrative_area_level_1", "political"}},
	}

	got := cityFromComponents(components)
	if got == nil || *got != "Casablanca-Settat" {
		t.Fatalf("expected administrative_area_level_1, got %v", got)
	}
}

func TestCityFromComponentsNoMatch(t *testing.T) {
	t.Parallel()

	components := []maps.AddressComponent{
		{LongName: "Maroc", Types: []string{"country", "political"}},
		{LongName: "20000", Types: []string{"postal_code"}},
	}

	if got := cityFromComponents(components); got != nil {
		t.Fatalf("expected nil, got %q", *got)
	}
}

func TestCityFromComponentsSkipsEmptyNames(t *testing.T) {
	t.Parallel()

	components := []maps.AddressComponent{
		{LongName: "", Types: []string{"locality"}},
		{LongName: "Casablanca-Settat", Types: []string{"administrative_area_level_1"}},
	}

	got := cityFromComponents(components)
	if got == nil || *got != "Casablanca-Settat" {
		t.Fatalf("expected fallback past the empty locality, got %v", got)
	}
}
