package domain

import (
	"strings"
	"time"
)

// ProductCategory enumerates the catalog taxonomy.
type ProductCategory string

const (
	CategoryRings     ProductCategory = "RINGS"
	CategoryNecklaces ProductCategory = "NECKLACES"
	CategoryEarrings  ProductCategory = "EARRINGS"
	CategoryBracelets ProductCategory = "BRACELETS"
	CategoryWatches   ProductCategory = "WATCHES"
	CategoryBrooches  ProductCategory = "BROOCHES"
	CategoryPendants  ProductCategory = "PENDANTS"
	CategorySets      ProductCategory = "SETS"
	CategoryOther     ProductCategory = "OTHER"
)

// ParseCategory validates a raw category string against the known set.
func ParseCategory(raw string) (ProductCategory, bool) {
	candidate := ProductCategory(strings.ToUpper(strings.TrimSpace(raw)))
	switch candidate {
	case CategoryRings, CategoryNecklaces, CategoryEarrings, CategoryBracelets,
		CategoryWatches, CategoryBrooches, CategoryPendants, CategorySets, CategoryOther:
		return candidate, true
	default:
		return "", false
	}
}

// Product is the aggregate for catalog entries.
type Product struct {
	ID          string
	Name        string
	Description *string
	Price       float64
	Category    ProductCategory
	Material    *string
	Weight      *float64
	Dimensions  *string
	Gemstone    *string
	Images      []string
	Stock       int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
