package usecase

import (
	"log"
	"sort"
	"strings"

	"github.com/septicstore/backend/internal/domain"
)

// Per-word tier scores. Each query word is awarded points for the first
// tier it is found in, never for more than one tier.
const (
	scoreName        = 10 // word appears in the product name
	scoreBrand       = 8  // word appears in the brand attribute
	scoreCategory    = 5  // word appears in the resolved category name
	scoreParams      = 3  // word appears in any other attribute value
	scoreDescription = 1  // word appears in the description
)

// nameSubstringBonus is added when the whole query string appears verbatim
// (case-insensitive) inside the product name.
const nameSubstringBonus = 20

// SearchConfig holds configuration for the search service
type SearchConfig struct {
	BrandParam         string // attribute name holding the brand, e.g. "Brand"
	DefaultLimit       int
	MaxLimit           int
	EnableDebugLogging bool
}

// SearchService answers ranked keyword/filter queries over the current
// catalog snapshot. It has no state of its own beyond configuration.
type SearchService struct {
	snapshots          domain.SnapshotProvider
	brandParam         string
	defaultLimit       int
	maxLimit           int
	enableDebugLogging bool
}

// NewSearchService creates a search service with the given configuration
func NewSearchService(snapshots domain.SnapshotProvider, config SearchConfig) *SearchService {
	brandParam := config.BrandParam
	if brandParam == "" {
		brandParam = "Brand"
	}

	defaultLimit := config.DefaultLimit
	if defaultLimit <= 0 {
		defaultLimit = 10
	}

	maxLimit := config.MaxLimit
	if maxLimit <= 0 {
		maxLimit = 200
	}

	return &SearchService{
		snapshots:          snapshots,
		brandParam:         brandParam,
		defaultLimit:       defaultLimit,
		maxLimit:           maxLimit,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// scoredProduct pairs a candidate with its query score during ranking
type scoredProduct struct {
	product domain.Product
	score   int
}

// Search filters, scores, and ranks products from the current snapshot.
// Filters combine with AND; a non-empty query additionally requires a
// score above zero. Results are ordered by score descending, then by
// price ascending, and truncated to the request limit.
func (s *SearchService) Search(req *domain.SearchRequest) (*domain.SearchResult, error) {
	if req == nil {
		return nil, domain.ErrInvalidRequest
	}
	if req.MinPrice != nil && *req.MinPrice < 0 {
		return nil, domain.ErrInvalidRequest
	}
	if req.MaxPrice != nil && *req.MaxPrice < 0 {
		return nil, domain.ErrInvalidRequest
	}

	snapshot := s.snapshots.Current()

	queryLower := strings.ToLower(strings.TrimSpace(req.Query))
	words := strings.Fields(queryLower)

	var candidates []scoredProduct
	for _, product := range snapshot.Products {
		if !s.matchesFilters(&product, req) {
			continue
		}

		score := 0
		if len(words) > 0 {
			score = s.scoreProduct(&product, words, queryLower)
			if score == 0 {
				continue
			}
		}

		candidates = append(candidates, scoredProduct{product: product, score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].product.Price < candidates[j].product.Price
	})

	limit := s.normalizeLimit(req.Limit)
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	results := make([]domain.Product, len(candidates))
	for i, c := range candidates {
		results[i] = c.product
	}

	if s.enableDebugLogging {
		log.Printf("[SEARCH] query=%q filters=%d candidates=%d returned=%d",
			req.Query, countFilters(req), len(snapshot.Products), len(results))
	}

	return &domain.SearchResult{
		Results:    results,
		TotalFound: len(results),
		Query:      req.Query,
	}, nil
}

// GetProduct looks up a single product by exact id
func (s *SearchService) GetProduct(id string) (*domain.Product, error) {
	if id == "" {
		return nil, domain.ErrInvalidRequest
	}

	snapshot := s.snapshots.Current()
	for i := range snapshot.Products {
		if snapshot.Products[i].ID == id {
			return &snapshot.Products[i], nil
		}
	}
	return nil, domain.ErrProductNotFound
}

// ListCategories returns every category in the current snapshot.
// Order is not significant.
func (s *SearchService) ListCategories() []domain.Category {
	snapshot := s.snapshots.Current()
	categories := make([]domain.Category, 0, len(snapshot.Categories))
	for _, cat := range snapshot.Categories {
		categories = append(categories, cat)
	}
	return categories
}

// matchesFilters checks the structured constraints: category, inclusive
// price range, and exact-match attribute filters.
func (s *SearchService) matchesFilters(p *domain.Product, req *domain.SearchRequest) bool {
	if req.CategoryID != "" && p.CategoryID != req.CategoryID {
		return false
	}
	if req.MinPrice != nil && p.Price < *req.MinPrice {
		return false
	}
	if req.MaxPrice != nil && p.Price > *req.MaxPrice {
		return false
	}
	for name, want := range req.Params {
		if p.Params[name] != want {
			return false
		}
	}
	return true
}

// scoreProduct computes the tiered relevance score for one product.
// For each query word the tiers are probed in priority order and only the
// first hit counts: name, brand attribute, category name, remaining
// attribute values, description.
func (s *SearchService) scoreProduct(p *domain.Product, words []string, queryLower string) int {
	nameLower := strings.ToLower(p.Name)
	brandLower := strings.ToLower(p.Params[s.brandParam])
	categoryLower := strings.ToLower(p.CategoryName)
	descriptionLower := strings.ToLower(p.Description)

	total := 0
	for _, word := range words {
		switch {
		case strings.Contains(nameLower, word):
			total += scoreName
		case brandLower != "" && strings.Contains(brandLower, word):
			total += scoreBrand
		case categoryLower != "" && strings.Contains(categoryLower, word):
			total += scoreCategory
		case paramsContain(p.Params, word):
			total += scoreParams
		case strings.Contains(descriptionLower, word):
			total += scoreDescription
		}
	}

	if total > 0 && strings.Contains(nameLower, queryLower) {
		total += nameSubstringBonus
	}

	return total
}

// paramsContain reports whether any attribute value contains the word.
// Values are checked one by one so a word can never match across the
// boundary of two unrelated attributes.
func paramsContain(params map[string]string, word string) bool {
	for _, value := range params {
		if strings.Contains(strings.ToLower(value), word) {
			return true
		}
	}
	return false
}

// normalizeLimit applies the default and the defensive cap
func (s *SearchService) normalizeLimit(limit int) int {
	if limit <= 0 {
		return s.defaultLimit
	}
	if limit > s.maxLimit {
		return s.maxLimit
	}
	return limit
}

// countFilters counts the structured constraints present on a request
func countFilters(req *domain.SearchRequest) int {
	n := len(req.Params)
	if req.CategoryID != "" {
		n++
	}
	if req.MinPrice != nil {
		n++
	}
	if req.MaxPrice != nil {
		n++
	}
	return n
}
