package feed

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/septicstore/backend/internal/domain"
)

// xmlCategory is a <category id=".." parentId="..">Name</category> record
type xmlCategory struct {
	ID       string `xml:"id,attr"`
	ParentID string `xml:"parentId,attr"`
	Name     string `xml:",chardata"`
}

// xmlOffer is one <offer> record from the feed
type xmlOffer struct {
	ID          string     `xml:"id,attr"`
	Available   string     `xml:"available,attr"`
	Name        string     `xml:"name"`
	Price       string     `xml:"price"`
	URL         string     `xml:"url"`
	CategoryID  string     `xml:"categoryId"`
	Description string     `xml:"description"`
	Params      []xmlParam `xml:"param"`
}

// xmlParam is a <param name="..">value</param> attribute pair
type xmlParam struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

// ParseCatalog decodes a YML-style catalog document into a Snapshot.
// Category and offer elements are collected wherever they appear in the
// document, so exporter quirks in the surrounding structure don't matter.
func ParseCatalog(r io.Reader) (*domain.Snapshot, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charsetReader

	var categories []xmlCategory
	var offers []xmlOffer

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrFeedMalformed, err)
		}

		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "category":
			var cat xmlCategory
			if err := decoder.DecodeElement(&cat, &start); err != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrFeedMalformed, err)
			}
			categories = append(categories, cat)
		case "offer":
			var offer xmlOffer
			if err := decoder.DecodeElement(&offer, &start); err != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrFeedMalformed, err)
			}
			offers = append(offers, offer)
		}
	}

	return buildSnapshot(categories, offers), nil
}

// buildSnapshot normalizes raw feed records into the domain model.
// Categories go first so offers can resolve their category name; source
// order of the category elements is irrelevant.
func buildSnapshot(categories []xmlCategory, offers []xmlOffer) *domain.Snapshot {
	categoryIndex := make(map[string]domain.Category, len(categories))
	for _, cat := range categories {
		if cat.ID == "" {
			continue
		}
		categoryIndex[cat.ID] = domain.Category{
			ID:       cat.ID,
			Name:     CleanText(cat.Name),
			ParentID: cat.ParentID,
		}
	}

	products := make([]domain.Product, 0, len(offers))
	for _, offer := range offers {
		// Default-exclude: only offers explicitly marked available are kept
		if offer.Available != "true" {
			continue
		}
		if offer.ID == "" {
			continue
		}

		product := domain.Product{
			ID:          offer.ID,
			Name:        CleanText(offer.Name),
			Price:       parsePrice(offer.Price),
			URL:         strings.TrimSpace(offer.URL),
			CategoryID:  strings.TrimSpace(offer.CategoryID),
			Description: CleanText(offer.Description),
			Params:      make(map[string]string, len(offer.Params)),
		}

		for _, param := range offer.Params {
			name := strings.TrimSpace(param.Name)
			value := strings.TrimSpace(param.Value)
			if name == "" || value == "" {
				continue
			}
			product.Params[name] = value
		}

		if cat, ok := categoryIndex[product.CategoryID]; ok {
			product.CategoryName = cat.Name
		}

		products = append(products, product)
	}

	return &domain.Snapshot{
		Categories: categoryIndex,
		Products:   products,
		FetchedAt:  time.Now().UTC(),
	}
}

// parsePrice converts the feed's price text to a number.
// A missing or malformed price degrades to 0 instead of dropping the offer.
func parsePrice(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil || price < 0 {
		return 0
	}
	return price
}
