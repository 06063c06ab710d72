package mapping

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/jharkhand/internal/models"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// ErrInvalidCoordinates is returned for a "lat,lng" pair that cannot be parsed or is out of range.
var ErrInvalidCoordinates = errors.New("invalid coordinates")

// Point converts coordinates to an orb point (longitude first).
func Point(c models.Coordinates) orb.Point {
	return orb.Point{c.Longitude, c.Latitude}
}

// LineString converts a route path to an orb line string.
func LineString(path []models.Coordinates) orb.LineString {
	line := make(orb.LineString, 0, len(path))
	for _, c := range path {
		line = append(line, Point(c))
	}

	return line
}

// FromPoint converts an orb point back to coordinates.
func FromPoint(p orb.Point) models.Coordinates {
	return models.Coordinates{Longitude: p.Lon(), Latitude: p.Lat()}
}

// Distance returns the great-circle distance in metres between two coordinates.
func Distance(a, b models.Coordinates) float64 {
	return geo.DistanceHaversine(Point(a), Point(b))
}

// ParseCoordinates parses a "lat,lng" pair as sent by browsers' geolocation.
func ParseCoordinates(value string) (models.Coordinates, error) {
	latStr, lngStr, found := strings.Cut(value, ",")
	if !found {
		return models.Coordinates{}, fmt.Errorf("%w: %q", ErrInvalidCoordinates, value)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("%w: latitude %q", ErrInvalidCoordinates, latStr)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("%w: longitude %q", ErrInvalidCoordinates, lngStr)
	}

	const maxLat, maxLng = 90, 180
	if math.IsNaN(lat) || math.IsNaN(lng) ||
		lat < -maxLat || lat > maxLat || lng < -maxLng || lng > maxLng {
		return models.Coordinates{}, fmt.Errorf("%w: %q out of range", ErrInvalidCoordinates, value)
	}

	return models.Coordinates{Latitude: lat, Longitude: lng}, nil
}
