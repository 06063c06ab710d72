package models

// Kind groups places into the sections of the site.
type Kind string

const (
	KindWaterfall    Kind = "waterfall"
	KindHillStation  Kind = "hill-station"
	KindDam          Kind = "dam"
	KindLake         Kind = "lake"
	KindHistoricSite Kind = "historic-site"
)

// Kinds lists every place kind in display order.
var Kinds = []Kind{KindWaterfall, KindHillStation, KindDam, KindLake, KindHistoricSite}

// Place is a single tourist destination.
type Place struct {
	ID            string       `json:"id"`
	Kind          Kind         `json:"kind"`
	Name          string       `json:"name"`
	Location      string       `json:"location"`
	Category      string       `json:"category"`
	Rating        float64      `json:"rating"`
	Images        []string     `json:"images"`
	Description   string       `json:"description"`
	History       string       `json:"history,omitempty"`
	Significance  string       `json:"significance,omitempty"`
	Timings       string       `json:"timings,omitempty"`
	BestTime      string       `json:"best_time,omitempty"`
	Nearby        []string     `json:"nearby,omitempty"`
	Facilities    []string     `json:"facilities,omitempty"`
	Coordinates   *Coordinates `json:"coordinates,omitempty"`
	ContactNumber string       `json:"contact_number,omitempty"`
}
