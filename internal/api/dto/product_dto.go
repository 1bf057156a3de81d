package dto

import (
	"time"

	"github.com/spec-kit/jewelry-store/internal/domain"
	"github.com/spec-kit/jewelry-store/internal/service"
)

// CreateProductRequest payload. Arrives as JSON or multipart form fields.
type CreateProductRequest struct {
	Name        string   `json:"name" form:"name"`
	Description *string  `json:"description" form:"description"`
	Price       float64  `json:"price" form:"price"`
	Category    string   `json:"category" form:"category"`
	Material    *string  `json:"material" form:"material"`
	Weight      *float64 `json:"weight" form:"weight"`
	Dimensions  *string  `json:"dimensions" form:"dimensions"`
	Gemstone    *string  `json:"gemstone" form:"gemstone"`
	Stock       *int     `json:"stock" form:"stock"`
	IsActive    *bool    `json:"isActive" form:"isActive"`
}

// UpdateProductRequest payload; nil fields are left untouched.
type UpdateProductRequest struct {
	Name          *string  `json:"name" form:"name"`
	Description   *string  `json:"description" form:"description"`
	Price         *float64 `json:"price" form:"price"`
	Category      *string  `json:"category" form:"category"`
	Material      *string  `json:"material" form:"material"`
	Weight        *float64 `json:"weight" form:"weight"`
	Dimensions    *string  `json:"dimensions" form:"dimensions"`
	Gemstone      *string  `json:"gemstone" form:"gemstone"`
	Stock         *int     `json:"stock" form:"stock"`
	IsActive      *bool    `json:"isActive" form:"isActive"`
	ReplaceImages *bool    `json:"replaceImages" form:"replaceImages"`
}

// ProductResponse is the public product shape.
type ProductResponse struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description *string                `json:"description"`
	Price       float64                `json:"price"`
	Category    domain.ProductCategory `json:"category"`
	Material    *string                `json:"material"`
	Weight      *float64               `json:"weight"`
	Dimensions  *string                `json:"dimensions"`
	Gemstone    *string                `json:"gemstone"`
	Images      []string               `json:"images"`
	Stock       int                    `json:"stock"`
	IsActive    bool                   `json:"isActive"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

// ProductListResponse bundles a page of products with pagination metadata.
type ProductListResponse struct {
	Products   []ProductResponse  `json:"products"`
	Pagination service.Pagination `json:"pagination"`
}

// NewProductResponse maps a domain product.
func NewProductResponse(product *domain.Product) ProductResponse {
	images := product.Images
	if images == nil {
		images = []string{}
	}
	return ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Category:    product.Category,
		Material:    product.Material,
		Weight:      product.Weight,
		Dimensions:  product.Dimensions,
		Gemstone:    product.Gemstone,
		Images:      images,
		Stock:       product.Stock,
		IsActive:    product.IsActive,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

// NewProductListResponse maps a page of products.
func NewProductListResponse(products []domain.Product, pagination service.Pagination) ProductListResponse {
	items := make([]ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, NewProductResponse(&products[i]))
	}
	return ProductListResponse{Products: items, Pagination: pagination}
}
