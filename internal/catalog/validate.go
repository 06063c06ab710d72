package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/UnknownOlympus/jharkhand/internal/models"
)

const (
	minRating = 0.0
	maxRating = 5.0
)

// ErrInvalidPlace marks a place record that breaks the content rules.
var ErrInvalidPlace = errors.New("invalid place")

// Validate checks every place for a rating in [0, 5] and a non-empty name, location
// and category. All problems are reported together; nil means the dataset is clean.
func (c *Catalog) Validate() error {
	var errs []error
	for _, place := range c.places {
		if err := ValidatePlace(place); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// ValidatePlace checks a single place record.
func ValidatePlace(place models.Place) error {
	var problems []string

	if strings.TrimSpace(place.Name) == "" {
		problems = append(problems, "empty name")
	}
	if strings.TrimSpace(place.Location) == "" {
		problems = append(problems, "empty location")
	}
	if strings.TrimSpace(place.Category) == "" {
		problems = append(problems, "empty category")
	}
	if place.Rating < minRating || place.Rating > maxRating {
		problems = append(problems, fmt.Sprintf("rating %.1f out of range", place.Rating))
	}

	if len(problems) == 0 {
		return nil
	}

	return fmt.Errorf("%w %q: %s", ErrInvalidPlace, place.ID, strings.Join(problems, ", "))
}
