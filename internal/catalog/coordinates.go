package catalog

import (
	"hash/fnv"
	"strings"

	"github.com/UnknownOlympus/jharkhand/internal/models"
)

// jitterDegrees bounds how far a derived marker may sit from its district centre.
const jitterDegrees = 0.05

// districtCentres are the headquarters of the districts used in place locations.
var districtCentres = []struct {
	name   string
	centre models.Coordinates
}{
	{"West Singhbhum", models.Coordinates{Latitude: 22.55, Longitude: 85.8}},
	{"East Singhbhum", models.Coordinates{Latitude: 22.8046, Longitude: 86.2029}},
	{"Seraikela-Kharsawan", models.Coordinates{Latitude: 22.6, Longitude: 85.93}},
	{"Ranchi", models.Coordinates{Latitude: 23.3441, Longitude: 85.3096}},
	{"Latehar", models.Coordinates{Latitude: 23.7445, Longitude: 84.5}},
	{"Khunti", models.Coordinates{Latitude: 23.0717, Longitude: 85.2789}},
	{"Giridih", models.Coordinates{Latitude: 24.19, Longitude: 86.3}},
	{"Hazaribagh", models.Coordinates{Latitude: 23.9925, Longitude: 85.3637}},
	{"Ramgarh", models.Coordinates{Latitude: 23.63, Longitude: 85.52}},
	{"Dhanbad", models.Coordinates{Latitude: 23.7957, Longitude: 86.4304}},
	{"Koderma", models.Coordinates{Latitude: 24.467, Longitude: 85.6}},
	{"Deoghar", models.Coordinates{Latitude: 24.4823, Longitude: 86.695}},
	{"Palamu", models.Coordinates{Latitude: 24.03, Longitude: 84.07}},
	{"Dumka", models.Coordinates{Latitude: 24.2676, Longitude: 87.2497}},
	{"Bokaro", models.Coordinates{Latitude: 23.6693, Longitude: 86.1511}},
	{"Gumla", models.Coordinates{Latitude: 23.0441, Longitude: 84.5391}},
}

// ResolveCoordinates returns the literal coordinates of a place. When none are given,
// the centre of the district named in its location is used, offset by a jitter derived
// from the place id so that places in one district do not share a marker.
// The boolean is false when no coordinates can be resolved.
func ResolveCoordinates(place models.Place) (models.Coordinates, bool) {
	if place.Coordinates != nil {
		return *place.Coordinates, true
	}

	location := strings.ToLower(place.Location)
	for _, district := range districtCentres {
		if !strings.Contains(location, strings.ToLower(district.name)) {
			continue
		}

		dLat, dLng := jitter(place.ID)
		return models.Coordinates{
			Latitude:  district.centre.Latitude + dLat,
			Longitude: district.centre.Longitude + dLng,
		}, true
	}

	return models.Coordinates{}, false
}

// jitter maps id to a stable offset in [-jitterDegrees, jitterDegrees) on both axes.
func jitter(id string) (float64, float64) {
	hash := fnv.New64a()
	_, _ = hash.Write([]byte(id))
	sum := hash.Sum64()

	const span = 1 << 16
	lat := float64(sum&(span-1))/span*2 - 1
	lng := float64((sum>>16)&(span-1))/span*2 - 1

	return lat * jitterDegrees, lng * jitterDegrees
}
