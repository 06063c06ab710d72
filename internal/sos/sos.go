// Package sos implements the helpers of the emergency panel: the route-proximity
// fuel-station search, nearby emergency services, helpline contacts and deep links.
package sos

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/UnknownOlympus/jharkhand/internal/mapping"
	"github.com/UnknownOlympus/jharkhand/internal/models"
)

var (
	ErrMissingOrigin      = errors.New("origin is required")
	ErrMissingDestination = errors.New("destination is required")
)

// Waypoint is a trip endpoint given either as coordinates (device geolocation)
// or as free text typed by the visitor. Coordinates win when both are set.
type Waypoint struct {
	Text        string
	Coordinates *models.Coordinates
}

// IsZero reports whether the waypoint carries neither coordinates nor text.
func (w Waypoint) IsZero() bool {
	return w.Coordinates == nil && strings.TrimSpace(w.Text) == ""
}

// Strategy finds points of interest for a trip, ordered nearest first.
type Strategy interface {
	Search(ctx context.Context, origin, destination Waypoint) ([]models.Station, error)
}

// resolve turns a waypoint into coordinates, geocoding text through the provider.
func resolve(ctx context.Context, provider mapping.Provider, w Waypoint) (models.Coordinates, error) {
	if w.Coordinates != nil {
		return *w.Coordinates, nil
	}

	coords, err := provider.Geocode(ctx, strings.TrimSpace(w.Text))
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("failed to resolve %q: %w", w.Text, err)
	}

	return *coords, nil
}
