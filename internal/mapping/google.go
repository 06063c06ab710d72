package mapping

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/UnknownOlympus/jharkhand/internal/models"
	"googlemaps.github.io/maps"
)

// regionIndia biases Google results towards India.
const regionIndia = "in"

// GoogleProvider is a struct that holds the client for Google Maps API
// and a logger for logging purposes. It is used to interact with the
// Google Maps geocoding, directions and places services.
type GoogleProvider struct {
	client GoogleAPIClient // client is the Google Maps API client
	log    *slog.Logger    // log is the logger for logging operations
}

// GoogleAPIClient is the part of *maps.Client the provider calls.
type GoogleAPIClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
	Directions(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error)
	NearbySearch(ctx context.Context, r *maps.NearbySearchRequest) (maps.PlacesSearchResponse, error)
	PlaceAutocomplete(ctx context.Context, r *maps.PlaceAutocompleteRequest) (maps.AutocompleteResponse, error)
}

var googlePlaceTypes = map[Category]maps.PlaceType{
	CategoryFuel:     maps.PlaceTypeGasStation,
	CategoryHospital: maps.PlaceTypeHospital,
	CategoryPolice:   maps.PlaceTypePolice,
	CategoryPharmacy: maps.PlaceTypePharmacy,
}

// NewGoogleProvider wraps an initialised Google Maps client.
func NewGoogleProvider(client GoogleAPIClient, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, log: log}
}

// Geocode takes a context and an address string as input, and returns the geographical coordinates
// (longitude and latitude) of the provided address using the Google Maps Geocoding API.
// If the address cannot be geocoded or if the response is empty, it returns an appropriate error.
func (gp *GoogleProvider) Geocode(ctx context.Context, address string) (*models.Coordinates, error) {
	gp.log.DebugContext(ctx, "Geocoding using Google Maps", "address", address)

	req := maps.GeocodingRequest{Address: address, Region: regionIndia}
	geocodeResponse, err := gp.client.Geocode(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("failed to geocode address: %w", err)
	}

	if len(geocodeResponse) == 0 {
		return nil, ErrEmptyResponse
	}
	coords := geocodeResponse[0].Geometry.Location

	return &models.Coordinates{Longitude: coords.Lng, Latitude: coords.Lat}, nil
}

// Autocomplete returns place predictions for partially typed input, restricted to India.
func (gp *GoogleProvider) Autocomplete(ctx context.Context, input string) ([]models.Suggestion, error) {
	gp.log.DebugContext(ctx, "Autocomplete using Google Places", "input", input)

	req := maps.PlaceAutocompleteRequest{
		Input:      input,
		Components: map[maps.Component][]string{maps.ComponentCountry: {regionIndia}},
	}
	resp, err := gp.client.PlaceAutocomplete(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("failed to autocomplete input: %w", err)
	}

	suggestions := make([]models.Suggestion, 0, len(resp.Predictions))
	for _, prediction := range resp.Predictions {
		suggestions = append(suggestions, models.Suggestion{
			PlaceID:     prediction.PlaceID,
			Description: prediction.Description,
		})
	}

	return suggestions, nil
}

// Directions requests a driving route and decodes its overview polyline.
func (gp *GoogleProvider) Directions(
	ctx context.Context,
	origin, destination models.Coordinates,
) (*models.Route, error) {
	gp.log.DebugContext(ctx, "Directions using Google Maps", "origin", origin, "destination", destination)

	req := maps.DirectionsRequest{
		Origin:      latLngString(origin),
		Destination: latLngString(destination),
		Mode:        maps.TravelModeDriving,
		Region:      regionIndia,
	}
	routes, _, err := gp.client.Directions(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("failed to get directions: %w", err)
	}

	if len(routes) == 0 {
		return nil, ErrEmptyResponse
	}

	points, err := routes[0].OverviewPolyline.Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode route polyline: %w", err)
	}

	route := &models.Route{
		Summary: routes[0].Summary,
		Path:    make([]models.Coordinates, 0, len(points)),
	}
	for _, point := range points {
		route.Path = append(route.Path, models.Coordinates{Latitude: point.Lat, Longitude: point.Lng})
	}
	for _, leg := range routes[0].Legs {
		route.Distance += leg.Distance.Meters
		route.Duration += int(leg.Duration.Seconds())
	}

	return route, nil
}

// NearbySearch finds places of a category within a radius using the Places API.
func (gp *GoogleProvider) NearbySearch(ctx context.Context, nearby NearbyRequest) ([]models.Station, error) {
	placeType, ok := googlePlaceTypes[nearby.Category]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCategory, nearby.Category)
	}

	gp.log.DebugContext(ctx, "Nearby search using Google Places",
		"location", nearby.Location, "radius", nearby.RadiusMeters, "type", placeType)

	req := maps.NearbySearchRequest{
		Location: &maps.LatLng{Lat: nearby.Location.Latitude, Lng: nearby.Location.Longitude},
		Radius:   uint(nearby.RadiusMeters),
		Type:     placeType,
	}
	resp, err := gp.client.NearbySearch(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("failed to search nearby places: %w", err)
	}

	stations := make([]models.Station, 0, len(resp.Results))
	for _, result := range resp.Results {
		station := models.Station{
			ID:       result.PlaceID,
			Name:     result.Name,
			Address:  firstNonEmpty(result.Vicinity, result.FormattedAddress),
			Category: string(nearby.Category),
			Coordinates: models.Coordinates{
				Latitude:  result.Geometry.Location.Lat,
				Longitude: result.Geometry.Location.Lng,
			},
		}
		if result.OpeningHours != nil {
			station.OpenNow = result.OpeningHours.OpenNow
		}
		stations = append(stations, station)
	}

	return stations, nil
}

func latLngString(c models.Coordinates) string {
	return fmt.Sprintf("%f,%f", c.Latitude, c.Longitude)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}

	return ""
}
