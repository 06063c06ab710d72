package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/UnknownOlympus/jharkhand/internal/catalog"
	"github.com/UnknownOlympus/jharkhand/internal/faq"
	"github.com/UnknownOlympus/jharkhand/internal/models"
	"github.com/gin-gonic/gin"
)

const citiesPath = "/api/cities"

type faqResponse struct {
	Categories []string     `json:"categories"`
	Results    []models.FAQ `json:"results"`
}

func (s *Server) listCities(c *gin.Context) {
	c.JSON(http.StatusOK, s.catalog.Current().Cities())
}

// getCity returns a city; unknown ids are sent back to the city listing.
func (s *Server) getCity(c *gin.Context) {
	city, err := s.catalog.Current().City(c.Param("id"))
	if errors.Is(err, catalog.ErrNotFound) {
		c.Redirect(http.StatusFound, citiesPath)
		return
	}
	if err != nil {
		s.fail(c, err, "")
		return
	}

	c.JSON(http.StatusOK, city)
}

func (s *Server) listHeritage(c *gin.Context) {
	c.JSON(http.StatusOK, s.catalog.Current().Heritage())
}

func (s *Server) getHeritage(c *gin.Context) {
	item, err := s.catalog.Current().HeritageItem(c.Param("id"))
	if err != nil {
		s.fail(c, err, "")
		return
	}

	c.JSON(http.StatusOK, item)
}

func (s *Server) listCuisine(c *gin.Context) {
	c.JSON(http.StatusOK, s.catalog.Current().Cuisine())
}

// searchFAQ serves GET /api/faq?q=&category=&popular=.
func (s *Server) searchFAQ(c *gin.Context) {
	records := s.catalog.Current().FAQs()
	resp := faqResponse{Categories: faq.Categories(records)}

	if raw := c.Query("popular"); raw != "" {
		popular, err := strconv.ParseBool(raw)
		if err != nil {
			s.fail(c, fmt.Errorf("%w: popular must be a boolean", errInvalidQuery), "")
			return
		}
		if popular {
			records = faq.Popular(records)
		}
	}

	resp.Results = faq.Search(faq.ByCategory(records, c.Query("category")), c.Query("q"))
	c.JSON(http.StatusOK, resp)
}
