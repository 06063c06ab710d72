package models

// City is a destination city with embedded stays, food and transport listings.
type City struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Tagline     string       `json:"tagline"`
	Description string       `json:"description"`
	Images      []string     `json:"images"`
	BestTime    string       `json:"best_time"`
	Coordinates Coordinates  `json:"coordinates"`
	Attractions []Attraction `json:"attractions"`
	Hotels      []Hotel      `json:"hotels"`
	Food        []FoodPlace  `json:"food"`
	Transport   []Transport  `json:"transport"`
	Reviews     []Review     `json:"reviews"`
}

type Attraction struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Rating      float64 `json:"rating"`
	Image       string  `json:"image"`
}

type Hotel struct {
	Name      string   `json:"name"`
	Price     string   `json:"price"`
	Category  string   `json:"category"`
	Amenities []string `json:"amenities"`
	Rating    float64  `json:"rating"`
}

type FoodPlace struct {
	Name      string  `json:"name"`
	Cuisine   string  `json:"cuisine"`
	Specialty string  `json:"specialty"`
	Price     string  `json:"price"`
	Rating    float64 `json:"rating"`
}

type Transport struct {
	Mode    string `json:"mode"`
	Details string `json:"details"`
}

type Review struct {
	Name    string  `json:"name"`
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
	Date    string  `json:"date"`
}
