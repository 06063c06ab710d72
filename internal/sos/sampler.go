package sos

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/UnknownOlympus/jharkhand/internal/mapping"
	"github.com/UnknownOlympus/jharkhand/internal/metrics"
	"github.com/UnknownOlympus/jharkhand/internal/models"
	"github.com/paulmach/orb"
)

// Defaults of the route sampling heuristic.
const (
	DefaultDivisions    = 25
	DefaultMaxSamples   = 20
	DefaultRadiusMeters = 3000
)

// Options tunes the route sampling heuristic.
type Options struct {
	Divisions    int              // stride is the polyline length divided by this
	MaxSamples   int              // upper bound on nearby searches per trip
	RadiusMeters int              // nearby search radius around each sample
	Category     mapping.Category // what to look for along the route
}

// DefaultOptions returns the fuel-station settings.
func DefaultOptions() Options {
	return Options{
		Divisions:    DefaultDivisions,
		MaxSamples:   DefaultMaxSamples,
		RadiusMeters: DefaultRadiusMeters,
		Category:     mapping.CategoryFuel,
	}
}

// RouteSampler approximates "stations near my route" by running a nearby search
// around evenly spaced points of the driving route. Searches run one at a time.
type RouteSampler struct {
	provider mapping.Provider
	opts     Options
	log      *slog.Logger
	metrics  *metrics.Metrics
}

// NewRouteSampler creates a sampler; zero option fields fall back to the defaults.
func NewRouteSampler(provider mapping.Provider, opts Options, log *slog.Logger, m *metrics.Metrics) *RouteSampler {
	defaults := DefaultOptions()
	if opts.Divisions <= 0 {
		opts.Divisions = defaults.Divisions
	}
	if opts.MaxSamples <= 0 {
		opts.MaxSamples = defaults.MaxSamples
	}
	if opts.RadiusMeters <= 0 {
		opts.RadiusMeters = defaults.RadiusMeters
	}
	if opts.Category == "" {
		opts.Category = defaults.Category
	}

	return &RouteSampler{provider: provider, opts: opts, log: log, metrics: m}
}

// Options returns the effective settings.
func (rs *RouteSampler) Options() Options {
	return rs.opts
}

// Search resolves both endpoints, requests a driving route and collects the stations
// found around the sampled route points, deduplicated and sorted by distance from origin.
// When a nearby search fails after the first one, the loop stops and the stations found
// so far are returned; only a failing first search is an error.
func (rs *RouteSampler) Search(ctx context.Context, origin, destination Waypoint) ([]models.Station, error) {
	stations, partial, err := rs.search(ctx, origin, destination)

	switch {
	case errors.Is(err, ErrMissingOrigin), errors.Is(err, ErrMissingDestination):
		rs.metrics.FuelSearches.WithLabelValues("invalid").Inc()
	case err != nil:
		rs.metrics.FuelSearches.WithLabelValues("error").Inc()
	case partial:
		rs.metrics.FuelSearches.WithLabelValues("partial").Inc()
	case len(stations) == 0:
		rs.metrics.FuelSearches.WithLabelValues("empty").Inc()
	default:
		rs.metrics.FuelSearches.WithLabelValues("found").Inc()
	}

	return stations, err
}

func (rs *RouteSampler) search(
	ctx context.Context,
	origin, destination Waypoint,
) ([]models.Station, bool, error) {
	if origin.IsZero() {
		return nil, false, ErrMissingOrigin
	}
	if destination.IsZero() {
		return nil, false, ErrMissingDestination
	}

	from, err := resolve(ctx, rs.provider, origin)
	if err != nil {
		return nil, false, fmt.Errorf("origin: %w", err)
	}
	to, err := resolve(ctx, rs.provider, destination)
	if err != nil {
		return nil, false, fmt.Errorf("destination: %w", err)
	}

	route, err := rs.provider.Directions(ctx, from, to)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get route: %w", err)
	}

	samples := SamplePoints(mapping.LineString(route.Path), rs.opts.Divisions, rs.opts.MaxSamples)
	rs.metrics.FuelSamples.Observe(float64(len(samples)))
	rs.log.DebugContext(ctx, "Sampled route for nearby search",
		"path_points", len(route.Path), "samples", len(samples), "category", rs.opts.Category)

	var found []models.Station
	partial := false
	for i, sample := range samples {
		stations, err := rs.provider.NearbySearch(ctx, mapping.NearbyRequest{
			Location:     mapping.FromPoint(sample),
			RadiusMeters: rs.opts.RadiusMeters,
			Category:     rs.opts.Category,
		})
		if err != nil {
			if i == 0 {
				return nil, false, fmt.Errorf("failed to search near route: %w", err)
			}
			rs.log.WarnContext(ctx, "Nearby search failed, keeping stations found so far",
				"sample", i, "samples", len(samples), "collected", len(found), "error", err)
			partial = true

			break
		}
		found = append(found, stations...)
	}

	result := Dedupe(found)
	SortByDistance(result, &from)

	rs.log.InfoContext(ctx, "Route search completed",
		"samples", len(samples), "stations", len(result), "partial", partial)

	return result, partial, nil
}

// SamplePoints picks every stride-th point of the line, where stride is the number of
// points divided by divisions (at least 1), and keeps at most limit of them.
func SamplePoints(line orb.LineString, divisions, limit int) []orb.Point {
	if len(line) == 0 || limit <= 0 {
		return nil
	}

	stride := 1
	if divisions > 0 && len(line)/divisions > 1 {
		stride = len(line) / divisions
	}

	samples := make([]orb.Point, 0, min(limit, len(line)))
	for i := 0; i < len(line) && len(samples) < limit; i += stride {
		samples = append(samples, line[i])
	}

	return samples
}

// Dedupe keeps the first station for every identifier, preserving order.
func Dedupe(stations []models.Station) []models.Station {
	seen := make(map[string]struct{}, len(stations))
	result := make([]models.Station, 0, len(stations))

	for _, station := range stations {
		if _, ok := seen[station.ID]; ok {
			continue
		}
		seen[station.ID] = struct{}{}
		result = append(result, station)
	}

	return result
}

// SortByDistance fills in each station's distance from origin and sorts ascending.
// Without an origin the order is left as is.
func SortByDistance(stations []models.Station, origin *models.Coordinates) {
	if origin == nil {
		return
	}

	for i := range stations {
		stations[i].Distance = mapping.Distance(*origin, stations[i].Coordinates)
	}

	slices.SortStableFunc(stations, func(a, b models.Station) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
}
