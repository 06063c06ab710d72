package server

import (
	"context"
	"fmt"
	"net/http"
	"slices"

	"github.com/UnknownOlympus/jharkhand/internal/carousel"
	"github.com/UnknownOlympus/jharkhand/internal/catalog"
	"github.com/UnknownOlympus/jharkhand/internal/models"
	"github.com/gin-gonic/gin"
)

// highlightRating is the minimum rating of a place shown on the landing page.
const highlightRating = 4.5

type highlightResponse struct {
	Index int          `json:"index"`
	Total int          `json:"total"`
	Place models.Place `json:"place"`
}

// RunHighlights rotates the highlighted place every carousel interval until ctx is done.
func (s *Server) RunHighlights(ctx context.Context) {
	s.log.InfoContext(ctx, "Highlights rotation started", "interval", s.carouselInterval)
	s.highlight.Autoplay(ctx, s.carouselInterval, func(index int) {
		s.log.DebugContext(ctx, "Highlight advanced", "index", index)
	})
	s.log.InfoContext(ctx, "Highlights rotation stopped")
}

func (s *Server) getHighlight(c *gin.Context) {
	places := highlights(s.catalog.Current())
	if len(places) == 0 {
		s.fail(c, fmt.Errorf("%w: no highlighted places", catalog.ErrNotFound), "")
		return
	}

	// The place set may have changed size since the carousel was created.
	index := carousel.Step(len(places), s.highlight.Index(), "")
	c.JSON(http.StatusOK, highlightResponse{Index: index, Total: len(places), Place: places[index]})
}

func highlights(cat *catalog.Catalog) []models.Place {
	return slices.DeleteFunc(cat.AllPlaces(), func(p models.Place) bool {
		return p.Rating < highlightRating
	})
}
