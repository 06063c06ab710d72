package mapping

import (
	"context"
	"time"

	"github.com/UnknownOlympus/jharkhand/internal/metrics"
	"github.com/UnknownOlympus/jharkhand/internal/models"
)

// Instrumented records request duration and errors of the wrapped provider.
type Instrumented struct {
	next    Provider
	name    string
	metrics *metrics.Metrics
}

// NewInstrumented wraps a provider; name is used as the provider label.
func NewInstrumented(next Provider, name string, m *metrics.Metrics) *Instrumented {
	return &Instrumented{next: next, name: name, metrics: m}
}

func (i *Instrumented) Geocode(ctx context.Context, address string) (*models.Coordinates, error) {
	defer i.observe("geocode", time.Now())
	coords, err := i.next.Geocode(ctx, address)
	i.countError("geocode", err)

	return coords, err
}

func (i *Instrumented) Autocomplete(ctx context.Context, input string) ([]models.Suggestion, error) {
	defer i.observe("autocomplete", time.Now())
	suggestions, err := i.next.Autocomplete(ctx, input)
	i.countError("autocomplete", err)

	return suggestions, err
}

func (i *Instrumented) Directions(
	ctx context.Context,
	origin, destination models.Coordinates,
) (*models.Route, error) {
	defer i.observe("directions", time.Now())
	route, err := i.next.Directions(ctx, origin, destination)
	i.countError("directions", err)

	return route, err
}

func (i *Instrumented) NearbySearch(ctx context.Context, req NearbyRequest) ([]models.Station, error) {
	defer i.observe("nearby", time.Now())
	stations, err := i.next.NearbySearch(ctx, req)
	i.countError("nearby", err)

	return stations, err
}

func (i *Instrumented) observe(operation string, start time.Time) {
	i.metrics.ProviderSeconds.WithLabelValues(i.name, operation).Observe(time.Since(start).Seconds())
}

func (i *Instrumented) countError(operation string, err error) {
	if err != nil {
		i.metrics.ProviderErrors.WithLabelValues(i.name, operation).Inc()
	}
}
