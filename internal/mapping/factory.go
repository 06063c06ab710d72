package mapping

import (
	"errors"
	"fmt"
	"log/slog"

	"googlemaps.github.io/maps"
)

// ProviderType represents the type of mapping provider.
type ProviderType string

const (
	// ProviderTypeGoogle represents the Google Maps platform.
	ProviderTypeGoogle ProviderType = "google"
	// ProviderTypeOSM represents the keyless OpenStreetMap stack (Nominatim, OSRM, Overpass).
	ProviderTypeOSM ProviderType = "osm"
)

// defaultOSMRate is the fair-use limit of the public OpenStreetMap services.
const defaultOSMRate = 1

// ErrMissingAPIKey is returned when a provider that needs credentials has none.
var ErrMissingAPIKey = errors.New("API key is required for Google provider")

// ProviderConfig holds configuration for creating a mapping provider.
type ProviderConfig struct {
	Type      ProviderType // Type of provider to create
	APIKey    string       // API key (used by Google provider)
	RateLimit int          // Rate limit for requests per second
	Logger    *slog.Logger // Logger for the provider
}

// NewProvider creates a mapping provider based on the provided configuration.
//
// Supported provider types:
// - "google": Google Maps Platform (requires API key)
// - "osm": OpenStreetMap services (free, no API key required)
//
// Returns an error if the provider type is unsupported or if provider creation fails.
func NewProvider(config ProviderConfig) (Provider, error) {
	switch config.Type {
	case ProviderTypeGoogle:
		return newGoogleProvider(config)
	case ProviderTypeOSM:
		return newOSMProvider(config), nil
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", config.Type)
	}
}

// newGoogleProvider creates a Google Maps provider.
func newGoogleProvider(config ProviderConfig) (Provider, error) {
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	clientOpts := []maps.ClientOption{
		maps.WithAPIKey(config.APIKey),
	}

	if config.RateLimit > 0 {
		clientOpts = append(clientOpts, maps.WithRateLimit(config.RateLimit))
	}

	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return NewGoogleProvider(client, config.Logger), nil
}

// newOSMProvider creates an OpenStreetMap provider.
func newOSMProvider(config ProviderConfig) Provider {
	if config.RateLimit <= 0 || config.RateLimit > defaultOSMRate {
		config.Logger.Warn("Rate limit for OSM services lowered to fair-use value",
			"requested", config.RateLimit, "value", defaultOSMRate)
		config.RateLimit = defaultOSMRate
	}

	return NewOSMProvider(config.RateLimit, config.Logger)
}
