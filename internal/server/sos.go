package server

import (
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/jharkhand/internal/mapping"
	"github.com/UnknownOlympus/jharkhand/internal/models"
	"github.com/UnknownOlympus/jharkhand/internal/sos"
	"github.com/gin-gonic/gin"
)

type linksResponse struct {
	Call    string `json:"call"`
	Message string `json:"message"`
}

type stationsResponse struct {
	Results []models.Station `json:"results"`
	Message string           `json:"message,omitempty"`
}

func (s *Server) contacts(c *gin.Context) {
	c.JSON(http.StatusOK, sos.Contacts())
}

// links serves GET /api/sos/links?phone=&message=&at=. Without a message the
// visitor's location, when given, is shared.
func (s *Server) links(c *gin.Context) {
	phone := c.Query("phone")

	call, err := sos.CallLink(phone)
	if err != nil {
		s.fail(c, err, "")
		return
	}

	text := c.Query("message")
	if text == "" {
		var at *models.Coordinates
		if raw := c.Query("at"); raw != "" {
			coords, err := mapping.ParseCoordinates(raw)
			if err != nil {
				s.fail(c, err, "")
				return
			}
			at = &coords
		}
		text = sos.ShareLocationText(at)
	}

	message, err := sos.MessageLink(phone, text)
	if err != nil {
		s.fail(c, err, "")
		return
	}

	c.JSON(http.StatusOK, linksResponse{Call: call, Message: message})
}

func (s *Server) autocomplete(c *gin.Context) {
	input := strings.TrimSpace(c.Query("input"))
	if input == "" {
		s.fail(c, fmt.Errorf("%w: input is required", errInvalidQuery), "")
		return
	}

	suggestions, err := s.provider.Autocomplete(c.Request.Context(), input)
	if err != nil {
		s.fail(c, fromProvider(err), input)
		return
	}

	c.JSON(http.StatusOK, suggestions)
}

// nearby serves GET /api/sos/nearby?at=lat,lng&type=hospital&radius=.
func (s *Server) nearby(c *gin.Context) {
	at, err := mapping.ParseCoordinates(c.Query("at"))
	if err != nil {
		s.fail(c, err, "")
		return
	}

	category := mapping.Category(c.DefaultQuery("type", string(mapping.CategoryHospital)))
	if !slices.Contains(mapping.Categories, category) {
		s.fail(c, fmt.Errorf("%w: %s", mapping.ErrUnsupportedCategory, category), "")
		return
	}

	radius := 0
	if raw := c.Query("radius"); raw != "" {
		radius, err = strconv.Atoi(raw)
		if err != nil || radius < 0 {
			s.fail(c, fmt.Errorf("%w: radius must be a positive integer", errInvalidQuery), "")
			return
		}
	}

	stations, err := sos.Nearby(c.Request.Context(), s.provider, at, category, radius)
	if err != nil {
		s.fail(c, fromProvider(err), fmt.Sprintf("%s near %f,%f", category, at.Latitude, at.Longitude))
		return
	}

	resp := stationsResponse{Results: stations}
	if len(stations) == 0 {
		resp.Message = fmt.Sprintf("No %s found nearby.", category)
	}

	c.JSON(http.StatusOK, resp)
}

// fuelSearch serves GET /api/sos/fuel?origin=&destination=. Each endpoint is either a
// "lat,lng" pair or a place name.
func (s *Server) fuelSearch(c *gin.Context) {
	destination := c.Query("destination")

	stations, err := s.fuel.Search(c.Request.Context(), waypoint(c.Query("origin")), waypoint(destination))
	if err != nil {
		s.fail(c, fromProvider(err), "petrol pump near "+destination)
		return
	}

	resp := stationsResponse{Results: stations}
	if len(stations) == 0 {
		resp.Message = "No fuel stations found along your route."
	}

	c.JSON(http.StatusOK, resp)
}

func waypoint(raw string) sos.Waypoint {
	raw = strings.TrimSpace(raw)
	if coords, err := mapping.ParseCoordinates(raw); err == nil {
		return sos.Waypoint{Coordinates: &coords}
	}

	return sos.Waypoint{Text: raw}
}
