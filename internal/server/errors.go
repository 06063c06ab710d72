package server

import (
	"errors"
	"net/http"

	"github.com/UnknownOlympus/jharkhand/internal/catalog"
	"github.com/UnknownOlympus/jharkhand/internal/favorites"
	"github.com/UnknownOlympus/jharkhand/internal/mapping"
	"github.com/UnknownOlympus/jharkhand/internal/sos"
	"github.com/gin-gonic/gin"
)

var errInvalidQuery = errors.New("invalid query parameter")

// fail maps err to a status code and writes the error body. Provider errors carry a
// static map link for query so the visitor can continue on the provider's site.
func (s *Server) fail(c *gin.Context, err error, query string) {
	body := gin.H{"error": err.Error()}
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, catalog.ErrUnknownKind):
		status = http.StatusNotFound
	case errors.Is(err, errInvalidQuery),
		errors.Is(err, sos.ErrMissingOrigin),
		errors.Is(err, sos.ErrMissingDestination),
		errors.Is(err, sos.ErrInvalidPhone),
		errors.Is(err, mapping.ErrInvalidCoordinates),
		errors.Is(err, mapping.ErrUnsupportedCategory),
		errors.Is(err, favorites.ErrEmptyKey):
		status = http.StatusBadRequest
	case errors.Is(err, mapping.ErrUnavailable):
		status = http.StatusServiceUnavailable
		body["error"] = "maps are unavailable, use the link to open the map instead"
		body["fallback_url"] = mapping.FallbackURL(s.providerType, query)
	case errors.Is(err, mapping.ErrEmptyResponse), errors.Is(err, mapping.ErrOSMRouteNotFound):
		status = http.StatusNotFound
		body["error"] = "no results found for the given location"
	default:
		if isProviderFailure(err) {
			status = http.StatusBadGateway
			body["error"] = "failed to reach the maps service, please try again"
			body["fallback_url"] = mapping.FallbackURL(s.providerType, query)
		}
	}

	if status >= http.StatusInternalServerError {
		s.log.ErrorContext(c.Request.Context(), "Request failed",
			"request_id", c.GetString(requestIDKey), "status", status, "error", err)
	}

	c.AbortWithStatusJSON(status, body)
}

// providerFailure marks errors returned by the mapping provider.
type providerFailure struct {
	err error
}

func (p providerFailure) Error() string { return p.err.Error() }

func (p providerFailure) Unwrap() error { return p.err }

func fromProvider(err error) error {
	if err == nil {
		return nil
	}

	return providerFailure{err: err}
}

func isProviderFailure(err error) bool {
	var pf providerFailure

	return errors.As(err, &pf)
}
