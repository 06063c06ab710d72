package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	HTTPRequests    *prometheus.CounterVec
	HTTPSeconds     *prometheus.HistogramVec
	ProviderSeconds *prometheus.HistogramVec
	ProviderErrors  *prometheus.CounterVec
	FuelSearches    *prometheus.CounterVec
	FuelSamples     prometheus.Histogram
	CatalogSyncs    *prometheus.CounterVec
	CatalogPlaces   prometheus.Gauge
	FavoriteToggles *prometheus.CounterVec
	GeocodedPlaces  *prometheus.CounterVec
	ActiveWorkers   prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		HTTPRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "tourism_http_requests_total",
			Help: "Total number of API requests by route and status code.",
		}, []string{"route", "method", "status"}),
		HTTPSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tourism_http_request_duration_seconds",
			Help:    "Duration of API requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		ProviderSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tourism_provider_request_duration_seconds",
			Help:    "Duration of requests to the mapping provider API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider", "operation"}),
		ProviderErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "tourism_provider_api_errors_total",
			Help: "Total number of errors received from the mapping provider API.",
		}, []string{"provider", "operation"}),
		FuelSearches: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "tourism_fuel_searches_total",
			Help: "Total number of route fuel-station searches by outcome.",
		}, []string{"outcome"}),
		FuelSamples: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "tourism_fuel_search_samples",
			Help:    "Number of route points queried per fuel-station search.",
			Buckets: prometheus.LinearBuckets(0, 5, 5),
		}),
		CatalogSyncs: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "tourism_catalog_syncs_total",
			Help: "Total number of catalog synchronisations from the database by status.",
		}, []string{"status"}),
		CatalogPlaces: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "tourism_catalog_places",
			Help: "Current number of places served from the catalog.",
		}),
		FavoriteToggles: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "tourism_favorite_toggles_total",
			Help: "Total number of favorite toggles by resulting state.",
		}, []string{"state"}),
		GeocodedPlaces: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "tourism_places_geocoded_total",
			Help: "Total number of places processed by the coordinate backfill.",
		}, []string{"status"}),
		ActiveWorkers: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "tourism_geocoding_active_workers",
			Help: "Current number of active workers geocoding places.",
		}),
	}
}
