package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/UnknownOlympus/jharkhand/internal/mapping"
	"github.com/UnknownOlympus/jharkhand/internal/metrics"
	"github.com/UnknownOlympus/jharkhand/internal/models"
	"github.com/UnknownOlympus/jharkhand/internal/repository"
)

// placeBatch is the number of places picked up per polling round.
const placeBatch = 100

// GeocodingService backfills coordinates for stored places that have none,
// so the site can drop the approximate district-centre position for them.
type GeocodingService struct {
	log            *slog.Logger         // Logger for logging service activities
	repo           repository.Interface // Interface for data repository access
	provider       mapping.Provider     // Mapping provider used to geocode places
	metrics        *metrics.Metrics     // Metrics for tracking service performance
	numWorkers     int                  // Number of concurrent workers for processing
	pollInterval   time.Duration        // Interval between polling rounds
	addressSuffix  string               // Appended to every query to keep results in the state
	unavailableLog sync.Once            // Reports a provider without credentials once
}

// NewGeocodingService creates a new instance of GeocodingService.
func NewGeocodingService(
	log *slog.Logger,
	repo repository.Interface,
	provider mapping.Provider,
	metrics *metrics.Metrics,
	numWorkers int,
	pollInterval time.Duration,
	addressSuffix string,
) *GeocodingService {
	return &GeocodingService{
		log:           log,
		repo:          repo,
		provider:      provider,
		metrics:       metrics,
		numWorkers:    max(numWorkers, 1),
		pollInterval:  pollInterval,
		addressSuffix: addressSuffix,
	}
}

// Run periodically polls for places without coordinates until ctx is cancelled.
func (gs *GeocodingService) Run(ctx context.Context) {
	ticker := time.NewTicker(gs.pollInterval)
	defer ticker.Stop()

	gs.log.InfoContext(ctx, "Geocoding service started...")

	for {
		select {
		case <-ctx.Done():
			gs.log.InfoContext(ctx, "Geocoding service stopped.")
			return
		case <-ticker.C:
			gs.log.InfoContext(ctx, "Polling for places without coordinates...")
			gs.processPlaces(ctx)
		}
	}
}

// processPlaces fetches a batch of places and geocodes them with a worker pool.
func (gs *GeocodingService) processPlaces(ctx context.Context) {
	places, err := gs.repo.FetchPlacesForGeocoding(ctx, placeBatch)
	if err != nil {
		gs.log.ErrorContext(ctx, "Failed to fetch places", "error", err)
		return
	}
	if len(places) == 0 {
		gs.log.InfoContext(ctx, "No places to geocode.")
		return
	}

	gs.log.InfoContext(ctx, "Found places to geocode. Starting worker pool.",
		"jobs", len(places),
		"num_workers", gs.numWorkers)

	jobs := make(chan models.Place, len(places))
	var wgr sync.WaitGroup

	for i := 1; i <= gs.numWorkers; i++ {
		wgr.Add(1)
		go gs.worker(ctx, i, &wgr, jobs)
	}

	for _, place := range places {
		jobs <- place
	}
	close(jobs)

	wgr.Wait()
	gs.log.InfoContext(ctx, "Geocoding batch finished")
}

// worker geocodes places from the jobs channel. A failure is recorded against
// the place so it is retried a limited number of times.
func (gs *GeocodingService) worker(ctx context.Context, idx int, wg *sync.WaitGroup, jobs <-chan models.Place) {
	defer wg.Done()
	for place := range jobs {
		gs.metrics.ActiveWorkers.Inc()
		gs.geocode(ctx, idx, place)
		gs.metrics.ActiveWorkers.Dec()
	}
}

func (gs *GeocodingService) geocode(ctx context.Context, idx int, place models.Place) {
	query := place.Name + ", " + place.Location + gs.addressSuffix
	gs.log.DebugContext(ctx, "Geocoding place", "worker", idx, "place", place.ID, "query", query)

	coords, err := gs.provider.Geocode(ctx, query)
	if errors.Is(err, mapping.ErrUnavailable) {
		// The failure count is left alone so the place is retried once credentials exist.
		gs.unavailableLog.Do(func() {
			gs.log.WarnContext(ctx, "Mapping provider is unavailable, coordinate backfill is paused", "error", err)
		})
		gs.metrics.GeocodedPlaces.WithLabelValues("skipped").Inc()

		return
	}
	if err != nil {
		gs.log.ErrorContext(ctx, "Failed to geocode", "worker", idx, "place", place.ID, "error", err)
		gs.metrics.GeocodedPlaces.WithLabelValues("failure").Inc()

		if err = gs.repo.IncrementFailureCount(ctx, place.Kind, place.ID, err.Error()); err != nil {
			gs.log.ErrorContext(ctx, "Could not update failure count for place",
				"worker", idx,
				"place", place.ID,
				"error", err)
		}
		return
	}

	gs.metrics.GeocodedPlaces.WithLabelValues("success").Inc()

	if err = gs.repo.UpdatePlaceCoordinates(ctx, place.Kind, place.ID, *coords); err != nil {
		gs.log.ErrorContext(ctx, "Failed to update coordinates for place",
			"worker", idx,
			"place", place.ID,
			"error", err)
		return
	}

	gs.log.DebugContext(ctx, "Worker successfully geocoded the place", "worker", idx, "place", place.ID)
}
