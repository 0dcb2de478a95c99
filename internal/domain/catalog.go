package domain

import "time"

// Category represents one node of the feed's category tree.
// ParentID references another Category by id; the tree is kept flat,
// no traversal happens beyond direct lookup.
type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parent_id,omitempty"`
}

// Product represents a single sellable item built from a feed offer.
// Products are constructed once per refresh and never mutated afterwards.
type Product struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Price        float64           `json:"price"`
	URL          string            `json:"url"`
	CategoryID   string            `json:"category_id"`
	CategoryName string            `json:"category_name,omitempty"` // empty when the category id is unknown
	Description  string            `json:"description"`
	Params       map[string]string `json:"params"` // e.g. "Brand", "User count"
}

// Snapshot is an immutable, internally consistent view of the whole catalog.
// Exactly one snapshot is current at any time; a refresh replaces it wholesale
// or not at all.
type Snapshot struct {
	Categories map[string]Category `json:"categories"`
	Products   []Product           `json:"products"`
	FetchedAt  time.Time           `json:"fetched_at"`
}

// EmptySnapshot returns a snapshot with no data, used before the first
// successful refresh so readers never observe a nil snapshot.
func EmptySnapshot() *Snapshot {
	return &Snapshot{
		Categories: map[string]Category{},
		Products:   []Product{},
	}
}
