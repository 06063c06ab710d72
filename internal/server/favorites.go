package server

import (
	"context"
	"fmt"
	"net/http"
	"slices"

	"github.com/UnknownOlympus/jharkhand/internal/catalog"
	"github.com/UnknownOlympus/jharkhand/internal/models"
	"github.com/gin-gonic/gin"
)

type toggleResponse struct {
	ID       string `json:"id"`
	Favorite bool   `json:"favorite"`
}

func (s *Server) listFavorites(c *gin.Context) {
	ids, err := s.favorites.List(c.Request.Context(), c.GetString(visitorKey))
	if err != nil {
		s.fail(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"visitor_id": c.GetString(visitorKey), "favorites": ids})
}

// toggleFavorite flips the favorite state of a place for the current visitor.
// Ids outside the catalog are rejected unless the visitor already holds them, so stale entries can still be removed.
func (s *Server) toggleFavorite(c *gin.Context) {
	id := c.Param("id")

	if err := s.knownFavorite(c.Request.Context(), c.GetString(visitorKey), id); err != nil {
		s.fail(c, err, "")
		return
	}

	favorite, err := s.favorites.Toggle(c.Request.Context(), c.GetString(visitorKey), id)
	if err != nil {
		s.fail(c, err, "")
		return
	}

	state := "removed"
	if favorite {
		state = "added"
	}
	s.metrics.FavoriteToggles.WithLabelValues(state).Inc()

	c.JSON(http.StatusOK, toggleResponse{ID: id, Favorite: favorite})
}

func (s *Server) knownFavorite(ctx context.Context, visitor, id string) error {
	if slices.ContainsFunc(s.catalog.Current().AllPlaces(), func(p models.Place) bool { return p.ID == id }) {
		return nil
	}

	held, err := s.favorites.Contains(ctx, visitor, id)
	if err != nil {
		return err
	}
	if held {
		return nil
	}

	return fmt.Errorf("%w: place %q", catalog.ErrNotFound, id)
}
