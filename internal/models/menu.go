// Package models defines the domain types for Café Fausse.
package models

// MenuItem is a single dish on the menu. Name doubles as the logical
// identifier for update and delete operations; Price is a free-form display
// string (e.g. "$12.00"), not a numeric amount.
type MenuItem struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Image       string `json:"image"`
}

// MenuSection is a named grouping that owns an ordered sequence of items.
type MenuSection struct {
	ID          string     `json:"id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Items       []MenuItem `json:"items"`
}
