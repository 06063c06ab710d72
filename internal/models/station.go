package models

// Station is a point of interest returned by a nearby search, e.g. a fuel pump or hospital.
type Station struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Address     string      `json:"address"`
	Category    string      `json:"category,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
	Distance    float64     `json:"distance_m,omitempty"` // Distance from origin in metres, 0 when unknown.
	OpenNow     *bool       `json:"open_now,omitempty"`
}

// Route is a driving route between two points.
type Route struct {
	Summary  string        `json:"summary"`
	Distance int           `json:"distance_m"`
	Duration int           `json:"duration_s"`
	Path     []Coordinates `json:"path"`
}

// Suggestion is a single autocomplete prediction.
type Suggestion struct {
	PlaceID     string `json:"place_id"`
	Description string `json:"description"`
}
