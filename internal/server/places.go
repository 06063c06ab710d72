package server

import (
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/jharkhand/internal/carousel"
	"github.com/UnknownOlympus/jharkhand/internal/catalog"
	"github.com/UnknownOlympus/jharkhand/internal/mapping"
	"github.com/UnknownOlympus/jharkhand/internal/models"
	"github.com/gin-gonic/gin"
)

type placeResponse struct {
	models.Place
	Approximate bool `json:"approximate_location,omitempty"`
}

type imageResponse struct {
	Index      int    `json:"index"`
	Total      int    `json:"total"`
	Image      string `json:"image"`
	AutoplayMS int64  `json:"autoplay_ms"`
}

type mapResponse struct {
	Coordinates *models.Coordinates `json:"coordinates,omitempty"`
	Approximate bool                `json:"approximate_location,omitempty"`
	Links       mapping.Links       `json:"links"`
}

// searchPlaces serves GET /api/places with optional kind, category, min_rating and q filters.
func (s *Server) searchPlaces(c *gin.Context) {
	minRating, err := parseRating(c.Query("min_rating"))
	if err != nil {
		s.fail(c, err, "")
		return
	}

	kind := models.Kind(c.Query("kind"))
	if kind != "" && !slices.Contains(models.Kinds, kind) {
		s.fail(c, fmt.Errorf("%w: unknown kind %q", errInvalidQuery, kind), "")
		return
	}

	category := strings.TrimSpace(c.Query("category"))
	allCategories := category == "" || strings.EqualFold(category, catalog.CategoryAll)

	places := slices.DeleteFunc(s.catalog.Current().Search(c.Query("q")), func(p models.Place) bool {
		return (kind != "" && p.Kind != kind) ||
			(!allCategories && !strings.EqualFold(p.Category, category)) ||
			p.Rating < minRating
	})

	c.JSON(http.StatusOK, places)
}

// listPlaces serves GET /api/places/:kind?category=&min_rating=.
func (s *Server) listPlaces(c *gin.Context) {
	kind := models.Kind(c.Param("kind"))
	cat := s.catalog.Current()

	raw := c.Query("min_rating")
	if raw == "" {
		places, err := cat.Filter(kind, c.Query("category"))
		if err != nil {
			s.fail(c, err, "")
			return
		}
		c.JSON(http.StatusOK, places)

		return
	}

	minRating, err := parseRating(raw)
	if err != nil {
		s.fail(c, err, "")
		return
	}

	places, err := cat.FilterMinRating(kind, minRating)
	if err != nil {
		s.fail(c, err, "")
		return
	}

	category := strings.TrimSpace(c.Query("category"))
	if category != "" && !strings.EqualFold(category, catalog.CategoryAll) {
		places = slices.DeleteFunc(places, func(p models.Place) bool {
			return !strings.EqualFold(p.Category, category)
		})
	}

	c.JSON(http.StatusOK, places)
}

func (s *Server) placeCategories(c *gin.Context) {
	categories, err := s.catalog.Current().Categories(models.Kind(c.Param("kind")))
	if err != nil {
		s.fail(c, err, "")
		return
	}

	c.JSON(http.StatusOK, append([]string{catalog.CategoryAll}, categories...))
}

// getPlace returns one place with its coordinates resolved.
func (s *Server) getPlace(c *gin.Context) {
	place, err := s.catalog.Current().Place(models.Kind(c.Param("kind")), c.Param("id"))
	if err != nil {
		s.fail(c, err, "")
		return
	}

	resp := placeResponse{Place: *place}
	if place.Coordinates == nil {
		if coords, ok := catalog.ResolveCoordinates(*place); ok {
			resp.Coordinates = &coords
			resp.Approximate = true
		}
	}

	c.JSON(http.StatusOK, resp)
}

// placeImage serves GET /api/places/:kind/:id/images?index=&dir=next|prev and returns
// the image reached from index, wrapping around the gallery.
func (s *Server) placeImage(c *gin.Context) {
	place, err := s.catalog.Current().Place(models.Kind(c.Param("kind")), c.Param("id"))
	if err != nil {
		s.fail(c, err, "")
		return
	}

	index := 0
	if raw := c.Query("index"); raw != "" {
		index, err = strconv.Atoi(raw)
		if err != nil {
			s.fail(c, fmt.Errorf("%w: index must be an integer", errInvalidQuery), "")
			return
		}
	}

	dir := carousel.Direction(c.Query("dir"))
	if dir != "" && dir != carousel.Next && dir != carousel.Prev {
		s.fail(c, fmt.Errorf("%w: dir must be next or prev", errInvalidQuery), "")
		return
	}

	if len(place.Images) == 0 {
		s.fail(c, fmt.Errorf("%w: %s has no images", catalog.ErrNotFound, place.ID), "")
		return
	}

	index = carousel.Step(len(place.Images), index, dir)
	c.JSON(http.StatusOK, imageResponse{
		Index:      index,
		Total:      len(place.Images),
		Image:      place.Images[index],
		AutoplayMS: s.carouselInterval.Milliseconds(),
	})
}

// placeMap returns the embed, street view and directions links of a place.
func (s *Server) placeMap(c *gin.Context) {
	place, err := s.catalog.Current().Place(models.Kind(c.Param("kind")), c.Param("id"))
	if err != nil {
		s.fail(c, err, "")
		return
	}

	resp := mapResponse{}
	if coords, ok := catalog.ResolveCoordinates(*place); ok {
		resp.Coordinates = &coords
		resp.Approximate = place.Coordinates == nil
	}
	resp.Links = mapping.PlaceLinks(s.providerType, placeQuery(*place), resp.Coordinates, s.apiKey)

	c.JSON(http.StatusOK, resp)
}

func placeQuery(place models.Place) string {
	if place.Location == "" {
		return place.Name
	}

	return place.Name + ", " + place.Location
}

func parseRating(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}

	rating, err := strconv.ParseFloat(raw, 64)
	if err != nil || rating < 0 || rating > 5 {
		return 0, fmt.Errorf("%w: min_rating must be a number between 0 and 5", errInvalidQuery)
	}

	return rating, nil
}
