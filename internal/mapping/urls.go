package mapping

import (
	"fmt"
	"net/url"

	"github.com/UnknownOlympus/jharkhand/internal/models"
)

const (
	googleMapsURL    = "https://www.google.com/maps"
	streetViewAPIURL = "https://maps.googleapis.com/maps/api/streetview"
	osmSearchURL     = "https://www.openstreetmap.org/search"
	osmDirectionsURL = "https://www.openstreetmap.org/directions"
)

// Links groups the web links shown next to a place.
type Links struct {
	Embed      string `json:"embed"`
	StreetView string `json:"street_view,omitempty"`
	Directions string `json:"directions"`
	Fallback   string `json:"fallback"`
}

// PlaceLinks builds the embed, street view and directions links for a place query.
// Street view needs coordinates and is left empty without them.
func PlaceLinks(providerType ProviderType, query string, at *models.Coordinates, apiKey string) Links {
	links := Links{
		Embed:      EmbedURL(query),
		Directions: DirectionsURL(providerType, nil, query),
		Fallback:   FallbackURL(providerType, query),
	}
	if at != nil {
		links.StreetView = StreetViewURL(*at, apiKey)
	}

	return links
}

// EmbedURL returns a keyless iframe URL showing the query on a map.
func EmbedURL(query string) string {
	params := url.Values{}
	params.Set("q", query)
	params.Set("output", "embed")

	return "https://maps.google.com/maps?" + params.Encode()
}

// StreetViewURL returns a static street view image when an API key is configured,
// otherwise the panorama viewer on the Google Maps site.
func StreetViewURL(at models.Coordinates, apiKey string) string {
	location := fmt.Sprintf("%f,%f", at.Latitude, at.Longitude)
	params := url.Values{}

	if apiKey == "" {
		params.Set("api", "1")
		params.Set("map_action", "pano")
		params.Set("viewpoint", location)

		return googleMapsURL + "/@?" + params.Encode()
	}

	params.Set("size", "640x400")
	params.Set("location", location)
	params.Set("key", apiKey)

	return streetViewAPIURL + "?" + params.Encode()
}

// DirectionsURL opens driving directions on the provider's site. A nil origin lets the
// site use the visitor's current location.
func DirectionsURL(providerType ProviderType, origin *models.Coordinates, destination string) string {
	params := url.Values{}

	if providerType == ProviderTypeOSM {
		params.Set("engine", "fossgis_osrm_car")
		if origin != nil {
			params.Set("from", fmt.Sprintf("%f,%f", origin.Latitude, origin.Longitude))
		}
		params.Set("to", destination)

		return osmDirectionsURL + "?" + params.Encode()
	}

	params.Set("api", "1")
	if origin != nil {
		params.Set("origin", fmt.Sprintf("%f,%f", origin.Latitude, origin.Longitude))
	}
	params.Set("destination", destination)
	params.Set("travelmode", "driving")

	return googleMapsURL + "/dir/?" + params.Encode()
}

// FallbackURL is the static link shown when the provider API cannot be used.
func FallbackURL(providerType ProviderType, query string) string {
	params := url.Values{}

	if providerType == ProviderTypeOSM {
		params.Set("query", query)

		return osmSearchURL + "?" + params.Encode()
	}

	params.Set("api", "1")
	params.Set("query", query)

	return googleMapsURL + "/search/?" + params.Encode()
}
