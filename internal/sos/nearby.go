package sos

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/jharkhand/internal/mapping"
	"github.com/UnknownOlympus/jharkhand/internal/models"
)

// DefaultNearbyRadius is used for emergency lookups when no radius is requested.
const DefaultNearbyRadius = 5000

// Nearby finds emergency services of a category around the visitor, nearest first.
func Nearby(
	ctx context.Context,
	provider mapping.Provider,
	at models.Coordinates,
	category mapping.Category,
	radius int,
) ([]models.Station, error) {
	if radius <= 0 {
		radius = DefaultNearbyRadius
	}

	stations, err := provider.NearbySearch(ctx, mapping.NearbyRequest{
		Location:     at,
		RadiusMeters: radius,
		Category:     category,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find nearby %s: %w", category, err)
	}

	result := Dedupe(stations)
	SortByDistance(result, &at)

	return result, nil
}
