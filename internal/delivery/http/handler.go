package http

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/septicstore/backend/internal/domain"
	"github.com/septicstore/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	search         *usecase.SearchService
	userCountParam string // attribute name the user_count filter maps to
}

// NewHandler creates a new HTTP handler
func NewHandler(search *usecase.SearchService, userCountParam string) *Handler {
	if userCountParam == "" {
		userCountParam = "User count"
	}
	return &Handler{
		search:         search,
		userCountParam: userCountParam,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "septicstore-backend",
		"version": "1.0.0",
	})
}

// ListCategories returns all categories of the current snapshot
func (h *Handler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": h.search.ListCategories(),
	})
}

// SearchProducts handles GET /search with query-string parameters
func (h *Handler) SearchProducts(c *gin.Context) {
	req := &domain.SearchRequest{
		Query:      c.Query("q"),
		CategoryID: c.Query("category_id"),
	}

	minPrice, err := parseOptionalFloat(c.Query("min_price"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "min_price must be a number"})
		return
	}
	req.MinPrice = minPrice

	maxPrice, err := parseOptionalFloat(c.Query("max_price"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "max_price must be a number"})
		return
	}
	req.MaxPrice = maxPrice

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		req.Limit = limit
	}

	if userCount := c.Query("user_count"); userCount != "" {
		req.Params = map[string]string{h.userCountParam: userCount}
	}

	h.respondSearch(c, req)
}

// SearchProductsJSON handles POST /search with a JSON body
func (h *Handler) SearchProductsJSON(c *gin.Context) {
	var req domain.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	h.respondSearch(c, &req)
}

// FindProducts handles GET /find/:query, a path-based search alias
func (h *Handler) FindProducts(c *gin.Context) {
	h.respondSearch(c, &domain.SearchRequest{
		Query: c.Param("query"),
	})
}

// GetProduct handles GET /product/:id
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.search.GetProduct(c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, product)
}

// Ask is the lenient catch-all endpoint: it digs a query string out of an
// arbitrary JSON payload and delegates to the typed search operation. The
// heuristic lives here, it never leaks into the search engine's contract.
func (h *Handler) Ask(c *gin.Context) {
	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	query, ok := extractQuery(payload)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no query string found in payload"})
		return
	}

	h.respondSearch(c, &domain.SearchRequest{Query: query})
}

// respondSearch runs the search and writes the shared response shape
func (h *Handler) respondSearch(c *gin.Context, req *domain.SearchRequest) {
	result, err := h.search.Search(req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// wellKnownQueryKeys are checked first, in order, by extractQuery
var wellKnownQueryKeys = []string{"q", "query", "search", "text", "message", "prompt", "input", "name"}

// extractQuery pulls a plausible query string out of arbitrary JSON:
// well-known keys first, then the first string value at the top level,
// then one level deep. Keys are visited in sorted order so the choice is
// deterministic for a given payload.
func extractQuery(payload map[string]interface{}) (string, bool) {
	if q, ok := pickQuery(payload); ok {
		return q, true
	}

	for _, key := range sortedKeys(payload) {
		nested, ok := payload[key].(map[string]interface{})
		if !ok {
			continue
		}
		if q, ok := pickQuery(nested); ok {
			return q, true
		}
	}

	return "", false
}

// pickQuery checks well-known keys, then any string value, within one object
func pickQuery(obj map[string]interface{}) (string, bool) {
	for _, key := range wellKnownQueryKeys {
		if s, ok := obj[key].(string); ok && strings.TrimSpace(s) != "" {
			return s, true
		}
	}
	for _, key := range sortedKeys(obj) {
		if s, ok := obj[key].(string); ok && strings.TrimSpace(s) != "" {
			return s, true
		}
	}
	return "", false
}

// sortedKeys returns the map keys in sorted order
func sortedKeys(obj map[string]interface{}) []string {
	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// parseOptionalFloat parses an optional numeric query parameter
func parseOptionalFloat(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &value, nil
}
