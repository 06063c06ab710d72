package models

// FAQ is a frequently asked question shown on the help page.
type FAQ struct {
	ID       int      `json:"id"`
	Category string   `json:"category"`
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Popular  bool     `json:"popular"`
	Tags     []string `json:"tags"`
}

// Heritage describes one cultural tradition of the state.
type Heritage struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Community   string     `json:"community"`
	Description string     `json:"description"`
	History     string     `json:"history"`
	Practices   []Practice `json:"practices"`
	Gallery     []Image    `json:"gallery"`
}

// Practice is a technique together with why it matters then and now.
type Practice struct {
	Technique       string `json:"technique"`
	Significance    string `json:"significance"`
	ModernRelevance string `json:"modern_relevance"`
}

type Image struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

// Dish is a regional food item.
type Dish struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients"`
	Image       string   `json:"image"`
	Vegetarian  bool     `json:"vegetarian"`
}
