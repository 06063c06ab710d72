// Package server exposes the tourism catalog and the emergency helpers as a JSON API.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/jharkhand/internal/carousel"
	"github.com/UnknownOlympus/jharkhand/internal/catalog"
	"github.com/UnknownOlympus/jharkhand/internal/favorites"
	"github.com/UnknownOlympus/jharkhand/internal/mapping"
	"github.com/UnknownOlympus/jharkhand/internal/metrics"
	"github.com/UnknownOlympus/jharkhand/internal/sos"
	"github.com/gin-gonic/gin"
)

// Config carries the dependencies of the API handlers.
type Config struct {
	Log              *slog.Logger
	Catalog          *catalog.Store
	Favorites        favorites.Store
	Provider         mapping.Provider
	ProviderType     mapping.ProviderType
	APIKey           string // used for street view links only
	FuelSearch       sos.Strategy
	CarouselInterval time.Duration
	Metrics          *metrics.Metrics
}

// Server serves the public API.
type Server struct {
	log              *slog.Logger
	catalog          *catalog.Store
	favorites        favorites.Store
	provider         mapping.Provider
	providerType     mapping.ProviderType
	apiKey           string
	fuel             sos.Strategy
	carouselInterval time.Duration
	highlight        *carousel.Carousel
	metrics          *metrics.Metrics
}

// New creates a Server from cfg.
func New(cfg Config) *Server {
	return &Server{
		log:              cfg.Log,
		catalog:          cfg.Catalog,
		favorites:        cfg.Favorites,
		provider:         cfg.Provider,
		providerType:     cfg.ProviderType,
		apiKey:           cfg.APIKey,
		fuel:             cfg.FuelSearch,
		carouselInterval: cfg.CarouselInterval,
		highlight:        carousel.New(len(highlights(cfg.Catalog.Current()))),
		metrics:          cfg.Metrics,
	}
}

// Router builds the gin engine with middleware and every API route.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), RequestLogging(s.log), Instrument(s.metrics), Recovery(s.log))

	router.GET("/health", s.health)

	api := router.Group("/api")

	places := api.Group("/places")
	places.GET("", s.searchPlaces)
	places.GET("/:kind", s.listPlaces)
	places.GET("/:kind/categories", s.placeCategories)
	places.GET("/:kind/:id", s.getPlace)
	places.GET("/:kind/:id/images", s.placeImage)
	places.GET("/:kind/:id/map", s.placeMap)

	api.GET("/highlights", s.getHighlight)
	api.GET("/cities", s.listCities)
	api.GET("/cities/:id", s.getCity)
	api.GET("/heritage", s.listHeritage)
	api.GET("/heritage/:id", s.getHeritage)
	api.GET("/cuisine", s.listCuisine)
	api.GET("/faq", s.searchFAQ)

	favs := api.Group("/favorites", Visitor())
	favs.GET("", s.listFavorites)
	favs.PUT("/:id", s.toggleFavorite)

	emergency := api.Group("/sos")
	emergency.GET("/contacts", s.contacts)
	emergency.GET("/links", s.links)
	emergency.GET("/autocomplete", s.autocomplete)
	emergency.GET("/nearby", s.nearby)
	emergency.GET("/fuel", s.fuelSearch)

	return router
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"places":   len(s.catalog.Current().AllPlaces()),
		"provider": s.providerType,
	})
}
