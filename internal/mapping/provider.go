package mapping

import (
	"context"
	"errors"

	"github.com/UnknownOlympus/jharkhand/internal/models"
)

// Category is a kind of point of interest a nearby search looks for.
type Category string

const (
	CategoryFuel     Category = "fuel"
	CategoryHospital Category = "hospital"
	CategoryPolice   Category = "police"
	CategoryPharmacy Category = "pharmacy"
)

// Categories lists the supported nearby-search categories.
var Categories = []Category{CategoryFuel, CategoryHospital, CategoryPolice, CategoryPharmacy}

// NearbyRequest describes a radius search around a point.
type NearbyRequest struct {
	Location     models.Coordinates
	RadiusMeters int
	Category     Category
}

// Common errors shared by all providers.
var (
	// ErrEmptyResponse is returned when the provider answers without any result.
	ErrEmptyResponse = errors.New("mapping provider returned empty response")
	// ErrUnavailable is returned by every call when no provider could be configured.
	ErrUnavailable = errors.New("mapping provider is unavailable")
	// ErrUnsupportedCategory is returned for a nearby category the provider cannot search.
	ErrUnsupportedCategory = errors.New("unsupported nearby category")
)

// Provider is the subset of a mapping platform the site consumes: geocoding and
// autocomplete for typed destinations, driving directions, and radius searches.
type Provider interface {
	Geocode(ctx context.Context, address string) (*models.Coordinates, error)
	Autocomplete(ctx context.Context, input string) ([]models.Suggestion, error)
	Directions(ctx context.Context, origin, destination models.Coordinates) (*models.Route, error)
	NearbySearch(ctx context.Context, req NearbyRequest) ([]models.Station, error)
}

// Unavailable stands in for a provider that could not be created, typically because
// its credentials are missing. Every call fails with ErrUnavailable.
type Unavailable struct {
	Reason string
}

func (u Unavailable) Geocode(context.Context, string) (*models.Coordinates, error) {
	return nil, ErrUnavailable
}

func (u Unavailable) Autocomplete(context.Context, string) ([]models.Suggestion, error) {
	return nil, ErrUnavailable
}

func (u Unavailable) Directions(context.Context, models.Coordinates, models.Coordinates) (*models.Route, error) {
	return nil, ErrUnavailable
}

func (u Unavailable) NearbySearch(context.Context, NearbyRequest) ([]models.Station, error) {
	return nil, ErrUnavailable
}
