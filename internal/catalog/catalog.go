// Package catalog holds the bundled tourism content: places, cities, FAQs,
// cultural heritage and cuisine. The content is read-only once loaded; a new
// place set is installed by building a fresh Catalog and swapping it into a Store.
package catalog

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/UnknownOlympus/jharkhand/internal/models"
)

//go:embed data/*.json
var bundled embed.FS

// CategoryAll selects every record of a kind.
const CategoryAll = "all"

var (
	// ErrNotFound is returned when no record matches the requested identifier.
	ErrNotFound = errors.New("record not found")
	// ErrUnknownKind is returned for a place kind the catalog does not serve.
	ErrUnknownKind = errors.New("unknown place kind")
)

// Catalog is an immutable snapshot of the site content.
type Catalog struct {
	places   []models.Place
	byKind   map[models.Kind][]models.Place
	cities   []models.City
	faqs     []models.FAQ
	heritage []models.Heritage
	cuisine  []models.Dish
}

// Load parses the dataset bundled into the binary.
func Load() (*Catalog, error) {
	sub, err := fs.Sub(bundled, "data")
	if err != nil {
		return nil, fmt.Errorf("failed to open bundled dataset: %w", err)
	}

	return LoadFS(sub)
}

// LoadDir parses a dataset laid out like the bundled one from a directory on disk.
func LoadDir(dir string) (*Catalog, error) {
	return LoadFS(os.DirFS(dir))
}

// LoadFS parses places.json, cities.json, faqs.json, heritage.json and cuisine.json from fsys.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	var (
		places   []models.Place
		cities   []models.City
		faqs     []models.FAQ
		heritage []models.Heritage
		cuisine  []models.Dish
	)

	files := []struct {
		name string
		dst  any
	}{
		{"places.json", &places},
		{"cities.json", &cities},
		{"faqs.json", &faqs},
		{"heritage.json", &heritage},
		{"cuisine.json", &cuisine},
	}

	for _, file := range files {
		body, err := fs.ReadFile(fsys, file.name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file.name, err)
		}
		if err = json.Unmarshal(body, file.dst); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", file.name, err)
		}
	}

	return New(places, cities, faqs, heritage, cuisine), nil
}

// New builds a catalog from already decoded records.
func New(
	places []models.Place,
	cities []models.City,
	faqs []models.FAQ,
	heritage []models.Heritage,
	cuisine []models.Dish,
) *Catalog {
	cat := &Catalog{
		cities:   cities,
		faqs:     faqs,
		heritage: heritage,
		cuisine:  cuisine,
	}
	cat.setPlaces(places)

	return cat
}

// WithPlaces returns a copy of the catalog that serves the given places instead.
func (c *Catalog) WithPlaces(places []models.Place) *Catalog {
	next := &Catalog{
		cities:   c.cities,
		faqs:     c.faqs,
		heritage: c.heritage,
		cuisine:  c.cuisine,
	}
	next.setPlaces(places)

	return next
}

func (c *Catalog) setPlaces(places []models.Place) {
	c.places = places
	c.byKind = make(map[models.Kind][]models.Place, len(models.Kinds))
	for _, place := range places {
		c.byKind[place.Kind] = append(c.byKind[place.Kind], place)
	}
}

// AllPlaces returns every place regardless of kind.
func (c *Catalog) AllPlaces() []models.Place {
	return slices.Clone(c.places)
}

// Places returns the places of one kind in dataset order.
func (c *Catalog) Places(kind models.Kind) ([]models.Place, error) {
	if !validKind(kind) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	return slices.Clone(c.byKind[kind]), nil
}

// Place looks up a single place by kind and id.
func (c *Catalog) Place(kind models.Kind, id string) (*models.Place, error) {
	places, err := c.Places(kind)
	if err != nil {
		return nil, err
	}

	for i := range places {
		if places[i].ID == id {
			return &places[i], nil
		}
	}

	return nil, fmt.Errorf("%w: %s %q", ErrNotFound, kind, id)
}

// Filter returns the places of a kind whose category equals category, ignoring case.
// An empty category or CategoryAll returns every place of the kind.
func (c *Catalog) Filter(kind models.Kind, category string) ([]models.Place, error) {
	places, err := c.Places(kind)
	if err != nil {
		return nil, err
	}

	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, CategoryAll) {
		return places, nil
	}

	return slices.DeleteFunc(places, func(p models.Place) bool {
		return !strings.EqualFold(p.Category, category)
	}), nil
}

// FilterMinRating returns the places of a kind rated at least minRating.
func (c *Catalog) FilterMinRating(kind models.Kind, minRating float64) ([]models.Place, error) {
	places, err := c.Places(kind)
	if err != nil {
		return nil, err
	}

	return slices.DeleteFunc(places, func(p models.Place) bool {
		return p.Rating < minRating
	}), nil
}

// Categories lists the distinct categories of a kind in first-seen order.
func (c *Catalog) Categories(kind models.Kind) ([]string, error) {
	places, err := c.Places(kind)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	categories := []string{}
	for _, place := range places {
		key := strings.ToLower(place.Category)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		categories = append(categories, place.Category)
	}

	return categories, nil
}

// Search returns every place whose name, location or description contains query, ignoring case.
func (c *Catalog) Search(query string) []models.Place {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return c.AllPlaces()
	}

	return slices.DeleteFunc(c.AllPlaces(), func(p models.Place) bool {
		return !strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Location), query) &&
			!strings.Contains(strings.ToLower(p.Description), query)
	})
}

func (c *Catalog) Cities() []models.City {
	return slices.Clone(c.cities)
}

// City looks up a city by id.
func (c *Catalog) City(id string) (*models.City, error) {
	for i := range c.cities {
		if c.cities[i].ID == id {
			city := c.cities[i]
			return &city, nil
		}
	}

	return nil, fmt.Errorf("%w: city %q", ErrNotFound, id)
}

func (c *Catalog) FAQs() []models.FAQ {
	return slices.Clone(c.faqs)
}

func (c *Catalog) Heritage() []models.Heritage {
	return slices.Clone(c.heritage)
}

// HeritageItem looks up a heritage record by id.
func (c *Catalog) HeritageItem(id string) (*models.Heritage, error) {
	for i := range c.heritage {
		if c.heritage[i].ID == id {
			item := c.heritage[i]
			return &item, nil
		}
	}

	return nil, fmt.Errorf("%w: heritage %q", ErrNotFound, id)
}

func (c *Catalog) Cuisine() []models.Dish {
	return slices.Clone(c.cuisine)
}

func validKind(kind models.Kind) bool {
	return slices.Contains(models.Kinds, kind)
}
