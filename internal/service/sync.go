package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/jharkhand/internal/catalog"
	"github.com/UnknownOlympus/jharkhand/internal/metrics"
	"github.com/UnknownOlympus/jharkhand/internal/repository"
	"github.com/robfig/cron/v3"
)

// SyncService keeps the in-memory catalog in step with the places table.
// The bundled dataset stays in use until the first successful sync and whenever
// the table is empty or unreachable.
type SyncService struct {
	log      *slog.Logger
	repo     repository.Interface
	store    *catalog.Store
	metrics  *metrics.Metrics
	schedule string
}

// NewSyncService creates a sync service running on a cron schedule such as "@every 10m".
func NewSyncService(
	log *slog.Logger,
	repo repository.Interface,
	store *catalog.Store,
	metrics *metrics.Metrics,
	schedule string,
) *SyncService {
	return &SyncService{log: log, repo: repo, store: store, metrics: metrics, schedule: schedule}
}

// Seed creates the places table and fills it with the bundled places when it is empty.
func (ss *SyncService) Seed(ctx context.Context) error {
	if err := ss.repo.Migrate(ctx); err != nil {
		return err
	}

	count, err := ss.repo.CountPlaces(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		ss.log.InfoContext(ctx, "Places table already populated, skipping seed", "count", count)
		return nil
	}

	places := ss.store.Current().AllPlaces()
	if err = ss.repo.UpsertPlaces(ctx, places); err != nil {
		return fmt.Errorf("failed to seed places: %w", err)
	}

	ss.log.InfoContext(ctx, "Places table seeded with bundled dataset", "count", len(places))

	return nil
}

// Sync loads the stored places and installs them in the catalog. An empty table or
// a failed query leaves the current catalog untouched.
func (ss *SyncService) Sync(ctx context.Context) error {
	places, err := ss.repo.FetchPlaces(ctx)
	if err != nil {
		ss.metrics.CatalogSyncs.WithLabelValues("failure").Inc()
		return fmt.Errorf("failed to sync catalog: %w", err)
	}

	if len(places) == 0 {
		ss.metrics.CatalogSyncs.WithLabelValues("empty").Inc()
		ss.log.WarnContext(ctx, "Places table is empty, keeping current catalog")
		return nil
	}

	next := ss.store.Current().WithPlaces(places)
	if errValidate := next.Validate(); errValidate != nil {
		ss.log.WarnContext(ctx, "Synced places have data issues", "error", errValidate)
	}

	ss.store.SwapPlaces(places)
	ss.metrics.CatalogSyncs.WithLabelValues("success").Inc()
	ss.metrics.CatalogPlaces.Set(float64(len(places)))
	ss.log.InfoContext(ctx, "Catalog synced from database", "places", len(places))

	return nil
}

// Run syncs once, then on every tick of the schedule until ctx is cancelled.
func (ss *SyncService) Run(ctx context.Context) error {
	logger := cronLogger{log: ss.log}
	scheduler := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	_, err := scheduler.AddFunc(ss.schedule, func() {
		if errSync := ss.Sync(ctx); errSync != nil {
			ss.log.ErrorContext(ctx, "Scheduled catalog sync failed", "error", errSync)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid sync schedule %q: %w", ss.schedule, err)
	}

	if err = ss.Sync(ctx); err != nil {
		ss.log.ErrorContext(ctx, "Initial catalog sync failed", "error", err)
	}

	ss.log.InfoContext(ctx, "Catalog sync scheduled", "schedule", ss.schedule)
	scheduler.Start()

	<-ctx.Done()
	<-scheduler.Stop().Done()
	ss.log.InfoContext(ctx, "Catalog sync stopped.")

	return nil
}

// cronLogger routes scheduler messages to slog.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
