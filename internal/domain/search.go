package domain

// SearchRequest carries the query and the optional filters for a catalog search.
// All filters combine with AND semantics; nil price bounds mean "no bound".
type SearchRequest struct {
	Query      string            `json:"q,omitempty"`
	CategoryID string            `json:"category_id,omitempty"`
	MinPrice   *float64          `json:"min_price,omitempty"`
	MaxPrice   *float64          `json:"max_price,omitempty"`
	Params     map[string]string `json:"params,omitempty"` // exact-match attribute filters
	Limit      int               `json:"limit,omitempty"`
}

// SearchResult is the ranked, length-bounded answer to a SearchRequest.
type SearchResult struct {
	Results    []Product `json:"results"`
	TotalFound int       `json:"total_found"`
	Query      string    `json:"query"`
}
