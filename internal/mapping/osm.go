package mapping

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/jharkhand/internal/models"
	"golang.org/x/time/rate"
)

// Public endpoints of the OpenStreetMap services.
const (
	NominatimBaseURL = "https://nominatim.openstreetmap.org/search"
	OSRMBaseURL      = "https://router.project-osrm.org/route/v1/driving"
	OverpassBaseURL  = "https://overpass-api.de/api/interpreter"
)

// osmUserAgent identifies the site as required by the Nominatim usage policy.
const osmUserAgent = "Jharkhand-Tourism/1.0 (https://github.com/UnknownOlympus/jharkhand)"

// autocompleteLimit caps the number of predictions returned for typed input.
const autocompleteLimit = 5

// OSMProvider implements Provider on top of free OpenStreetMap services:
// Nominatim for geocoding, OSRM for driving routes and Overpass for nearby amenities.
// These services allow about one request per second for fair use.
type OSMProvider struct {
	client    HTTPClient    // HTTP client for making requests
	endpoints OSMEndpoints  // Base URLs of the services
	log       *slog.Logger  // Logger for logging operations
	limiter   *rate.Limiter // Shared limiter for all outgoing calls
	userAgent string
}

// OSMEndpoints holds the base URLs used by OSMProvider.
type OSMEndpoints struct {
	Nominatim string
	OSRM      string
	Overpass  string
}

// DefaultOSMEndpoints points at the public instances.
func DefaultOSMEndpoints() OSMEndpoints {
	return OSMEndpoints{Nominatim: NominatimBaseURL, OSRM: OSRMBaseURL, Overpass: OverpassBaseURL}
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Errors specific to the OSM provider.
var (
	ErrOSMInvalidCoords = errors.New("osm API returned invalid coordinates")
	ErrOSMRouteNotFound = errors.New("osrm found no route")
)

var osmAmenities = map[Category]string{
	CategoryFuel:     "fuel",
	CategoryHospital: "hospital",
	CategoryPolice:   "police",
	CategoryPharmacy: "pharmacy",
}

type nominatimResult struct {
	PlaceID     int64  `json:"place_id"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"` // [lon, lat]
		} `json:"geometry"`
		Legs []struct {
			Summary string `json:"summary"`
		} `json:"legs"`
	} `json:"routes"`
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	Type   string  `json:"type"`
	ID     int64   `json:"id"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Center *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"center"`
	Tags map[string]string `json:"tags"`
}

// NewOSMProvider creates a provider against the public OpenStreetMap endpoints.
func NewOSMProvider(rateLimit int, log *slog.Logger) *OSMProvider {
	const timeout = 25

	return NewOSMProviderWithClient(
		&http.Client{Timeout: timeout * time.Second},
		DefaultOSMEndpoints(),
		rate.NewLimiter(rate.Limit(rateLimit), 1),
		log,
	)
}

// NewOSMProviderWithClient creates a provider with a custom HTTP client, endpoints and limiter.
// Useful for testing with mocked HTTP clients.
func NewOSMProviderWithClient(
	client HTTPClient,
	endpoints OSMEndpoints,
	limiter *rate.Limiter,
	log *slog.Logger,
) *OSMProvider {
	return &OSMProvider{
		client:    client,
		endpoints: endpoints,
		log:       log,
		limiter:   limiter,
		userAgent: osmUserAgent,
	}
}

// Geocode converts an address to geographic coordinates using the Nominatim API.
//
// Uses a progressive fallback strategy for village addresses:
// 1. Try the full address
// 2. Drop the last component
// 3. Drop the last two components
// 4. Try the first component only (village/town name)
func (op *OSMProvider) Geocode(ctx context.Context, address string) (*models.Coordinates, error) {
	op.log.DebugContext(ctx, "Geocoding using Nominatim", "address", address)

	addressVariations := generateAddressFallbacks(address)

	for idx, addrVariation := range addressVariations {
		results, err := op.searchNominatim(ctx, addrVariation, 1)
		if err == nil && len(results) == 0 {
			err = ErrEmptyResponse
		}
		if err == nil {
			if idx > 0 {
				op.log.InfoContext(ctx, "Geocoded using fallback address",
					"original", address,
					"fallback", addrVariation,
					"fallback_level", idx)
			}
			return parseNominatimCoords(results[0])
		}

		// If it's not an empty response error, return immediately (API error, invalid coords, etc.)
		if !errors.Is(err, ErrEmptyResponse) {
			return nil, err
		}

		op.log.DebugContext(ctx, "Address variation returned no results, trying fallback",
			"variation", addrVariation,
			"fallback_level", idx)
	}

	op.log.WarnContext(ctx, "All address fallbacks exhausted",
		"address", address,
		"variations_tried", len(addressVariations))

	return nil, ErrEmptyResponse
}

// Autocomplete returns up to five Nominatim matches for the typed input.
func (op *OSMProvider) Autocomplete(ctx context.Context, input string) ([]models.Suggestion, error) {
	results, err := op.searchNominatim(ctx, input, autocompleteLimit)
	if err != nil {
		return nil, err
	}

	suggestions := make([]models.Suggestion, 0, len(results))
	for _, result := range results {
		suggestions = append(suggestions, models.Suggestion{
			PlaceID:     strconv.FormatInt(result.PlaceID, 10),
			Description: result.DisplayName,
		})
	}

	return suggestions, nil
}

// Directions requests the fastest driving route from OSRM with full geometry.
func (op *OSMProvider) Directions(
	ctx context.Context,
	origin, destination models.Coordinates,
) (*models.Route, error) {
	reqURL := fmt.Sprintf("%s/%f,%f;%f,%f?overview=full&geometries=geojson",
		strings.TrimRight(op.endpoints.OSRM, "/"),
		origin.Longitude, origin.Latitude, destination.Longitude, destination.Latitude)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	body, err := op.do(ctx, req, "osrm")
	if err != nil {
		return nil, err
	}

	var result osrmResponse
	if err = json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode osrm response: %w", err)
	}

	if result.Code != "Ok" || len(result.Routes) == 0 {
		return nil, fmt.Errorf("%w: code %s", ErrOSMRouteNotFound, result.Code)
	}

	best := result.Routes[0]
	route := &models.Route{
		Distance: int(best.Distance),
		Duration: int(best.Duration),
		Path:     make([]models.Coordinates, 0, len(best.Geometry.Coordinates)),
	}
	for _, leg := range best.Legs {
		if leg.Summary != "" {
			route.Summary = leg.Summary
			break
		}
	}

	const coordsListLength = 2
	for _, pair := range best.Geometry.Coordinates {
		if len(pair) != coordsListLength {
			return nil, ErrOSMInvalidCoords
		}
		route.Path = append(route.Path, models.Coordinates{Longitude: pair[0], Latitude: pair[1]})
	}

	return route, nil
}

// NearbySearch queries Overpass for amenities of the category around a point.
// Ways such as large fuel stations are reported at their centre.
func (op *OSMProvider) NearbySearch(ctx context.Context, nearby NearbyRequest) ([]models.Station, error) {
	amenity, ok := osmAmenities[nearby.Category]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCategory, nearby.Category)
	}

	lat, lon := nearby.Location.Latitude, nearby.Location.Longitude
	query := fmt.Sprintf(`[out:json][timeout:25];
(
  node["amenity"="%[1]s"](around:%[2]d,%[3]f,%[4]f);
  way["amenity"="%[1]s"](around:%[2]d,%[3]f,%[4]f);
);
out center;`, amenity, nearby.RadiusMeters, lat, lon)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, op.endpoints.Overpass,
		strings.NewReader("data="+url.QueryEscape(query)))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := op.do(ctx, req, "overpass")
	if err != nil {
		return nil, err
	}

	var result overpassResponse
	if err = json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode overpass response: %w", err)
	}

	stations := make([]models.Station, 0, len(result.Elements))
	for _, el := range result.Elements {
		point := models.Coordinates{Latitude: el.Lat, Longitude: el.Lon}
		if el.Center != nil {
			point = models.Coordinates{Latitude: el.Center.Lat, Longitude: el.Center.Lon}
		}

		name := el.Tags["name"]
		if name == "" {
			name = el.Tags["brand"]
		}
		if name == "" {
			continue
		}

		stations = append(stations, models.Station{
			ID:          fmt.Sprintf("osm:%s/%d", el.Type, el.ID),
			Name:        name,
			Address:     osmAddress(el.Tags),
			Category:    string(nearby.Category),
			Coordinates: point,
		})
	}

	return stations, nil
}

func (op *OSMProvider) searchNominatim(ctx context.Context, query string, limit int) ([]nominatimResult, error) {
	reqURL, err := url.Parse(op.endpoints.Nominatim)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	params := reqURL.Query()
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(limit))
	params.Set("countrycodes", regionIndia)
	params.Set("accept-language", "en")
	reqURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	body, err := op.do(ctx, req, "nominatim")
	if err != nil {
		return nil, err
	}

	var results []nominatimResult
	if err = json.Unmarshal(body, &results); err != nil {
		op.log.ErrorContext(ctx, "Failed to parse Nominatim response", "error", err, "body", string(body))
		return nil, fmt.Errorf("failed to decode nominatim response: %w", err)
	}

	return results, nil
}

// do waits for the rate limiter, sends the request and returns the body of a 200 response.
func (op *OSMProvider) do(ctx context.Context, req *http.Request, service string) ([]byte, error) {
	if err := op.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	req.Header.Set("User-Agent", op.userAgent)
	req.Header.Set("Accept", "application/json")

	op.log.DebugContext(ctx, "OSM request", "service", service, "url", req.URL.String())

	resp, err := op.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute %s request: %w", service, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		op.log.ErrorContext(ctx, "OSM API error", "service", service, "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("%s API returned status %d: %s", service, resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}

func parseNominatimCoords(result nominatimResult) (*models.Coordinates, error) {
	lat, err := strconv.ParseFloat(result.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid latitude: %s", ErrOSMInvalidCoords, result.Lat)
	}
	lon, err := strconv.ParseFloat(result.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid longitude: %s", ErrOSMInvalidCoords, result.Lon)
	}

	return &models.Coordinates{Latitude: lat, Longitude: lon}, nil
}

// generateAddressFallbacks creates a list of progressively simpler address variations.
func generateAddressFallbacks(address string) []string {
	if address == "" {
		return []string{""}
	}

	seen := make(map[string]bool)
	variations := []string{}

	addVariation := func(v string) {
		if v != "" && !seen[v] {
			seen[v] = true
			variations = append(variations, v)
		}
	}

	addVariation(address)

	parts := strings.Split(address, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if len(parts) > 1 {
		addVariation(strings.Join(parts[:len(parts)-1], ", "))

		const lenComponents = 2
		if len(parts) > lenComponents {
			addVariation(strings.Join(parts[:len(parts)-2], ", "))
		}

		addVariation(parts[0])
	}

	return variations
}

func osmAddress(tags map[string]string) string {
	parts := []string{}
	street := tags["addr:street"]
	if n := tags["addr:housenumber"]; n != "" && street != "" {
		street = n + " " + street
	}
	for _, part := range []string{street, tags["addr:city"], tags["addr:postcode"]} {
		if part != "" {
			parts = append(parts, part)
		}
	}

	return strings.Join(parts, ", ")
}
