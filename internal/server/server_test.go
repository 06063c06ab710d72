package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/UnknownOlympus/jharkhand/internal/catalog"
	"github.com/UnknownOlympus/jharkhand/internal/favorites"
	"github.com/UnknownOlympus/jharkhand/internal/mapping"
	"github.com/UnknownOlympus/jharkhand/internal/metrics"
	"github.com/UnknownOlympus/jharkhand/internal/models"
	"github.com/UnknownOlympus/jharkhand/internal/server"
	"github.com/UnknownOlympus/jharkhand/internal/sos"
	"github.com/UnknownOlympus/jharkhand/test/mocks"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router   *gin.Engine
	provider *mocks.Provider
	fuel     *mocks.Strategy
	metrics  *metrics.Metrics
}

func newTestServer(t *testing.T, providerType mapping.ProviderType) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cat, err := catalog.Load()
	require.NoError(t, err)

	ts := &testServer{
		provider: mocks.NewProvider(t),
		fuel:     mocks.NewStrategy(t),
		metrics:  metrics.NewMetrics(prometheus.NewRegistry()),
	}
	ts.router = server.New(server.Config{
		Log:              slog.New(slog.NewTextHandler(io.Discard, nil)),
		Catalog:          catalog.NewStore(cat),
		Favorites:        favorites.NewMemoryStore(),
		Provider:         ts.provider,
		ProviderType:     providerType,
		FuelSearch:       ts.fuel,
		CarouselInterval: 5 * time.Second,
		Metrics:          ts.metrics,
	}).Router()

	return ts
}

func (ts *testServer) do(t *testing.T, method, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequestWithContext(t.Context(), method, target, nil)
	for key, values := range header {
		req.Header[key] = values
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))

	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, mapping.ProviderTypeOSM)

	rec := ts.do(t, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "osm", body["provider"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDIsPropagated(t *testing.T) {
	ts := newTestServer(t, mapping.ProviderTypeOSM)

	rec := ts.do(t, http.MethodGet, "/health", http.Header{"X-Request-Id": {"req-42"}})

	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
}

func TestListPlaces(t *testing.T) {
	ts := newTestServer(t, mapping.ProviderTypeGoogle)

	t.Run("min rating on waterfalls", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/places/waterfall?min_rating=4.5", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		places := decode[[]models.Place](t, rec)
		names := make([]string, 0, len(places))
		for _, p := range places {
			names = append(names, p.Name)
		}
		assert.ElementsMatch(t, []string{"Hundru Falls", "Lodh Falls"}, names)
	})

	t.Run("category filter", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/places/waterfall?category=seasonal", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		for _, p := range decode[[]models.Place](t, rec) {
			assert.Equal(t, "seasonal", p.Category)
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/places/volcano", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid rating", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/places/waterfall?min_rating=six", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSearchPlaces(t *testing.T) {
	ts := newTestServer(t, mapping.ProviderTypeGoogle)

	rec := ts.do(t, http.MethodGet, "/api/places?q=hundru&kind=waterfall", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	places := decode[[]models.Place](t, rec)
	require.NotEmpty(t, places)
	for _, p := range places {
		assert.Equal(t, models.KindWaterfall, p.Kind)
	}

	rec = ts.do(t, http.MethodGet, "/api/places?kind=volcano", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlaceCategories(t *testing.T) {
	ts := newTestServer(t, mapping.ProviderTypeGoogle)

	rec := ts.do(t, http.MethodGet, "/api/places/waterfall/categories", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	categories := decode[[]string](t, rec)
	assert.Equal(t, catalog.CategoryAll, categories[0])
	assert.Contains(t, categories, "major")
}

func TestGetPlace(t *testing.T) {
	ts := newTestServer(t, mapping.ProviderTypeGoogle)

	t.Run("found", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/places/waterfall/hundru-falls", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decode[map[string]any](t, rec)
		assert.Equal(t, "Hundru Falls", body["name"])
		assert.NotContains(t, body, "approximate_location")
	})

	t.Run("coordinates resolved from district", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/places/waterfall/sita-falls", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decode[map[string]any](t, rec)
		assert.Equal(t, true, body["approximate_location"])
		assert.NotNil(t, body["coordinates"])
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/places/waterfall/niagara", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestPlaceImage(t *testing.T) {
	ts := newTestServer(t, mapping.ProviderTypeGoogle)

	tests := []struct {
		name      string
		query     string
		wantCode  int
		wantIndex int
	}{
		{name: "first image", query: "", wantCode: http.StatusOK, wantIndex: 0},
		{name: "next", query: "?index=0&dir=next", wantCode: http.StatusOK, wantIndex: 1},
		{name: "next wraps", query: "?index=2&dir=next", wantCode: http.StatusOK, wantIndex: 0},
		{name: "prev wraps", query: "?index=0&dir=prev", wantCode: http.StatusOK, wantIndex: 2},
		{name: "bad index", query: "?index=x", wantCode: http.StatusBadRequest},
		{name: "bad direction", query: "?dir=up", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodGet, "/api/places/waterfall/hundru-falls/images"+tt.query, nil)

			require.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode != http.StatusOK {
				return
			}
			body := decode[map[string]any](t, rec)
			assert.InDelta(t, tt.wantIndex, body["index"], 0)
			assert.InDelta(t, 3, body["total"], 0)
			assert.InDelta(t, 5000, body["autoplay_ms"], 0)
		})
	}
}

func TestPlaceMap(t *testing.T) {
	ts := newTestServer(t, mapping.ProviderTypeOSM)

	rec := ts.do(t, http.MethodGet, "/api/places/waterfall/hundru-falls/map", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Coordinates *models.Coordinates `json:"coordinates"`
		Links       mapping.Links       `json:"links"`
	}](t, rec)
	require.NotNil(t, body.Coordinates)
	assert.InDelta(t, 23.4503, body.Coordinates.Latitude, 1e-9)
	assert.Contains(t, body.Links.Embed, "output=embed")
	assert.Contains(t, body.Links.Directions, "openstreetmap.org/directions")
	assert.Contains(t, body.Links.StreetView, "map_action=pano")
}

func TestCities(t *testing.T) {
	ts := newTestServer(t, mapping.ProviderTypeGoogle)

	rec := ts.do(t, http.MethodGet, "/api/cities/ranchi", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ranchi", decode[models.City](t, rec).ID)

	rec = ts.do(t, http.MethodGet, "/api/cities/atlantis", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/api/cities", rec.Header().Get("Location"))
}

func TestHeritageAndCuisine(t *testing.T) {
	ts := newTestServer(t, mapping.ProviderTypeGoogle)

	rec := ts.do(t, http.MethodGet, "/api/heritage/sohrai", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sohrai", decode[models.Heritage](t, rec).ID)

	rec = ts.do(t, http.MethodGet, "/api/heritage/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/cuisine", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[[]models.Dish](t, rec))
}

func TestSearchFAQ(t *testing.T) {
	ts := newTestServer(t, mapping.ProviderTypeGoogle)

	type faqBody struct {
		Categories []string     `json:"categories"`
		Results    []models.FAQ `json:"results"`
	}

	rec := ts.do(t, http.MethodGet, "/api/faq?q=WATERFALLS", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[faqBody](t, rec)
	assert.Len(t, body.Results, 2)
	assert.Contains(t, body.Categories, "safety")

	rec = ts.do(t, http.MethodGet, "/api/faq?popular=true&category=travel", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	for _, record := range decode[faqBody](t, rec).Results {
		assert.True(t, record.Popular)
		assert.Equal(t, "travel", record.Category)
	}

	rec = ts.do(t, http.MethodGet, "/api/faq?popular=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFavorites(t *testing.T) {
	ts := newTestServer(t, mapping.ProviderTypeGoogle)
	visitor := http.Header{"X-Visitor-Id": {"visitor-1"}}

	rec := ts.do(t, http.MethodPut, "/api/favorites/hundru-falls", visitor)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[map[string]any](t, rec)["favorite"].(bool))

	rec = ts.do(t, http.MethodGet, "/api/favorites", visitor)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"hundru-falls"}, decode[map[string]any](t, rec)["favorites"])

	rec = ts.do(t, http.MethodPut, "/api/favorites/hundru-falls", visitor)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[map[string]any](t, rec)["favorite"].(bool))

	assert.InDelta(t, 1, testutil.ToFloat64(ts.metrics.FavoriteToggles.WithLabelValues("added")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(ts.metrics.FavoriteToggles.WithLabelValues("removed")), 0)
}

func TestFavoritesUnknownPlace(t *testing.T) {
	ts := newTestServer(t, mapping.ProviderTypeGoogle)
	visitor := http.Header{"X-Visitor-Id": {"visitor-1"}}

	rec := ts.do(t, http.MethodPut, "/api/favorites/no-such-place", visitor)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/favorites", visitor)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[map[string]any](t, rec)["favorites"])
	assert.InDelta(t, 0, testutil.ToFloat64(ts.metrics.FavoriteToggles.WithLabelValues("added")), 0)
}

func TestPanicIsCountedAndRecovered(t *testing.T) {
	ts := newTestServer(t, mapping.ProviderTypeGoogle)
	ts.router.GET("/boom", func(*gin.Context) { panic("boom") })

	rec := ts.do(t, http.MethodGet, "/boom", nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, decode[map[string]string](t, rec)["request_id"])
	assert.InDelta(t, 1, testutil.ToFloat64(ts.metrics.HTTPRequests.WithLabelValues("/boom", http.MethodGet, "500")), 0)
}

func TestFavoritesIssueVisitorID(t *testing.T) {
	ts := newTestServer(t, mapping.ProviderTypeGoogle)

	rec := ts.do(t, http.MethodGet, "/api/favorites", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	id := rec.Header().Get("X-Visitor-ID")
	assert.NotEmpty(t, id)
	require.NotEmpty(t, rec.Result().Cookies())
	assert.Equal(t, id, rec.Result().Cookies()[0].Value)

	rec = ts.do(t, http.MethodGet, "/api/favorites", http.Header{"Cookie": {"visitor_id=from-cookie"}})
	assert.Equal(t, "from-cookie", rec.Header().Get("X-Visitor-ID"))
}

func TestSOSContactsAndLinks(t *testing.T) {
	ts := newTestServer(t, mapping.ProviderTypeGoogle)

	rec := ts.do(t, http.MethodGet, "/api/sos/contacts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tel:112", decode[[]sos.Contact](t, rec)[0].CallLink)

	rec = ts.do(t, http.MethodGet, "/api/sos/links?phone=98765%2043210&message=help", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	links := decode[map[string]string](t, rec)
	assert.Equal(t, "tel:9876543210", links["call"])
	assert.Equal(t, "https://wa.me/919876543210?text=help", links["message"])

	rec = ts.do(t, http.MethodGet, "/api/sos/links?phone=9876543210&at=23.3441,85.3096", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec)["message"], "23.344100")

	rec = ts.do(t, http.MethodGet, "/api/sos/links?phone=none", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAutocomplete(t *testing.T) {
	ts := newTestServer(t, mapping.ProviderTypeGoogle)
	ts.provider.On("Autocomplete", mock.Anything, "Ranchi").
		Return([]models.Suggestion{{PlaceID: "p1", Description: "Ranchi, Jharkhand"}}, nil).Once()

	rec := ts.do(t, http.MethodGet, "/api/sos/autocomplete?input=Ranchi", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "p1", decode[[]models.Suggestion](t, rec)[0].PlaceID)

	rec = ts.do(t, http.MethodGet, "/api/sos/autocomplete", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAutocompleteUnavailable(t *testing.T) {
	ts := newTestServer(t, mapping.ProviderTypeGoogle)
	ts.provider.On("Autocomplete", mock.Anything, "Ranchi").Return(nil, mapping.ErrUnavailable).Once()

	rec := ts.do(t, http.MethodGet, "/api/sos/autocomplete?input=Ranchi", nil)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "https://www.google.com/maps/search/?api=1&query=Ranchi",
		decode[map[string]string](t, rec)["fallback_url"])
}

func TestNearby(t *testing.T) {
	ts := newTestServer(t, mapping.ProviderTypeGoogle)
	at := models.Coordinates{Latitude: 23.3441, Longitude: 85.3096}
	far := models.Station{ID: "far", Name: "Far", Coordinates: models.Coordinates{Latitude: 23.40, Longitude: 85.40}}
	near := models.Station{ID: "near", Name: "Near", Coordinates: models.Coordinates{Latitude: 23.345, Longitude: 85.31}}

	ts.provider.On("NearbySearch", mock.Anything, mapping.NearbyRequest{
		Location: at, RadiusMeters: 2000, Category: mapping.CategoryPharmacy,
	}).Return([]models.Station{far, near}, nil).Once()

	rec := ts.do(t, http.MethodGet, "/api/sos/nearby?at=23.3441,85.3096&type=pharmacy&radius=2000", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	stations := decode[struct {
		Results []models.Station `json:"results"`
	}](t, rec).Results
	require.Len(t, stations, 2)
	assert.Equal(t, "near", stations[0].ID)
}

func TestNearbyValidation(t *testing.T) {
	ts := newTestServer(t, mapping.ProviderTypeGoogle)

	for _, target := range []string{
		"/api/sos/nearby",
		"/api/sos/nearby?at=north",
		"/api/sos/nearby?at=NaN,NaN",
		"/api/sos/nearby?at=23.3,85.3&type=zoo",
		"/api/sos/nearby?at=23.3,85.3&radius=-1",
	} {
		rec := ts.do(t, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestNearbyEmpty(t *testing.T) {
	ts := newTestServer(t, mapping.ProviderTypeGoogle)
	ts.provider.On("NearbySearch", mock.Anything, mock.Anything).Return([]models.Station{}, nil).Once()

	rec := ts.do(t, http.MethodGet, "/api/sos/nearby?at=23.3441,85.3096", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "No hospital found nearby.", decode[map[string]any](t, rec)["message"])
}

func TestFuelSearch(t *testing.T) {
	ts := newTestServer(t, mapping.ProviderTypeGoogle)
	origin := models.Coordinates{Latitude: 23.3441, Longitude: 85.3096}
	stations := []models.Station{{ID: "s1", Name: "HP Petrol Pump"}}

	ts.fuel.On("Search", mock.Anything,
		sos.Waypoint{Coordinates: &origin}, sos.Waypoint{Text: "Jamshedpur"},
	).Return(stations, nil).Once()

	rec := ts.do(t, http.MethodGet, "/api/sos/fuel?origin=23.3441,85.3096&destination=Jamshedpur", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Results []models.Station `json:"results"`
		Message string           `json:"message"`
	}](t, rec)
	assert.Equal(t, stations, body.Results)
	assert.Empty(t, body.Message)
}

func TestFuelSearchErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "missing origin", err: sos.ErrMissingOrigin, wantCode: http.StatusBadRequest},
		{name: "missing destination", err: sos.ErrMissingDestination, wantCode: http.StatusBadRequest},
		{name: "no credentials", err: mapping.ErrUnavailable, wantCode: http.StatusServiceUnavailable},
		{name: "unknown destination", err: mapping.ErrEmptyResponse, wantCode: http.StatusNotFound},
		{name: "provider down", err: errors.New("connection refused"), wantCode: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, mapping.ProviderTypeGoogle)
			ts.fuel.On("Search", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			rec := ts.do(t, http.MethodGet, "/api/sos/fuel?destination=Jamshedpur", nil)

			require.Equal(t, tt.wantCode, rec.Code)
			assert.NotEmpty(t, decode[map[string]string](t, rec)["error"])
		})
	}
}

func TestFuelSearchEmpty(t *testing.T) {
	ts := newTestServer(t, mapping.ProviderTypeGoogle)
	ts.fuel.On("Search", mock.Anything, mock.Anything, mock.Anything).Return([]models.Station{}, nil).Once()

	rec := ts.do(t, http.MethodGet, "/api/sos/fuel?origin=23.3441,85.3096&destination=Jamshedpur", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "No fuel stations found along your route.", decode[map[string]any](t, rec)["message"])
}

func TestInstrumentCountsRoutes(t *testing.T) {
	ts := newTestServer(t, mapping.ProviderTypeGoogle)

	ts.do(t, http.MethodGet, "/api/cuisine", nil)
	ts.do(t, http.MethodGet, "/nowhere", nil)

	assert.InDelta(t, 1, testutil.ToFloat64(ts.metrics.HTTPRequests.WithLabelValues("/api/cuisine", "GET", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(ts.metrics.HTTPRequests.WithLabelValues("unmatched", "GET", "404")), 0)
}

func TestHighlight(t *testing.T) {
	ts := newTestServer(t, mapping.ProviderTypeGoogle)

	rec := ts.do(t, http.MethodGet, "/api/highlights", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Index int          `json:"index"`
		Total int          `json:"total"`
		Place models.Place `json:"place"`
	}](t, rec)
	assert.Equal(t, 0, body.Index)
	assert.Positive(t, body.Total)
	assert.GreaterOrEqual(t, body.Place.Rating, 4.5)
}

func TestRunHighlightsStopsOnCancel(t *testing.T) {
	cat, err := catalog.Load()
	require.NoError(t, err)

	srv := server.New(server.Config{
		Log:              slog.New(slog.NewTextHandler(io.Discard, nil)),
		Catalog:          catalog.NewStore(cat),
		CarouselInterval: time.Millisecond,
		Metrics:          metrics.NewMetrics(prometheus.NewRegistry()),
	})

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan struct{})
	go func() {
		srv.RunHighlights(ctx)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("highlights rotation did not stop")
	}
}
