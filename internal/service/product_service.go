package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/jewelry-store/internal/domain"
	"github.com/spec-kit/jewelry-store/internal/events"
	"github.com/spec-kit/jewelry-store/internal/persistence"
	"github.com/spec-kit/jewelry-store/internal/repository"
	apperrors "github.com/spec-kit/jewelry-store/pkg/util"
)

// ProductCreateInput captures fields for a new catalog entry.
type ProductCreateInput struct {
	Name        string
	Description *string
	Price       float64
	Category    string
	Material    *string
	Weight      *float64
	Dimensions  *string
	Gemstone    *string
	Images      []string
	Stock       int
	IsActive    bool
}

// ProductUpdateInput captures a partial update; nil fields are left untouched.
type ProductUpdateInput struct {
	Name          *string
	Description   *string
	Price         *float64
	Category      *string
	Material      *string
	Weight        *float64
	Dimensions    *string
	Gemstone      *string
	Stock         *int
	IsActive      *bool
	Images        []string
	ReplaceImages bool
}

// ProductListQuery captures catalog browse parameters.
type ProductListQuery struct {
	Category  *string
	IsActive  *bool
	Search    *string
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// Pagination describes a result page.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	Total       int64 `json:"total"`
	Limit       int   `json:"limit"`
}

// ProductService coordinates catalog reads and writes.
type ProductService struct {
	products   repository.ProductRepository
	cache      *persistence.ProductCache
	dispatcher events.Dispatcher
}

// NewProductService builds the service.
func NewProductService(products repository.ProductRepository, cache *persistence.ProductCache, dispatcher events.Dispatcher) *ProductService {
	return &ProductService{products: products, cache: cache, dispatcher: dispatcher}
}

// Create validates and persists a new product.
func (s *ProductService) Create(ctx context.Context, input ProductCreateInput) (*domain.Product, error) {
	if input.Name == "" || input.Price == 0 || input.Category == "" {
		return nil, apperrors.NewValidationError("name, price, and category are required", nil)
	}
	if input.Price <= 0 {
		return nil, apperrors.NewValidationError("price must be greater than 0", nil)
	}
	if input.Stock < 0 {
		return nil, apperrors.NewValidationError("stock cannot be negative", nil)
	}
	category, ok := domain.ParseCategory(input.Category)
	if !ok {
		return nil, apperrors.NewValidationError("invalid category", map[string]any{"category": input.Category})
	}

	images := input.Images
	if images == nil {
		images = []string{}
	}

	product := &domain.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    category,
		Material:    input.Material,
		Weight:      input.Weight,
		Dimensions:  input.Dimensions,
		Gemstone:    input.Gemstone,
		Images:      images,
		Stock:       input.Stock,
		IsActive:    input.IsActive,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	s.publishProductEvent(ctx, events.EventProductCreated, product)
	return product, nil
}

// List returns a filtered, sorted page of products plus pagination metadata.
func (s *ProductService) List(ctx context.Context, query ProductListQuery) ([]domain.Product, Pagination, error) {
	filter := repository.ProductFilter{
		IsActive:   query.IsActive,
		SearchTerm: query.Search,
		SortBy:     query.SortBy,
		SortDesc:   query.SortOrder != "asc",
	}
	if query.Category != nil && *query.Category != "" {
		// Unknown categories are queried as-is and yield an empty page rather
		// than a 400; the public contract predates category validation.
		category := domain.ProductCategory(*query.Category)
		filter.Category = &category
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = 10
	}
	filter.Limit = limit
	filter.Offset = (page - 1) * limit

	products, err := s.products.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, Pagination{}, err
	}
	total, err := s.products.CountWithFilter(ctx, filter)
	if err != nil {
		return nil, Pagination{}, err
	}

	return products, buildPagination(page, limit, total), nil
}

// ListByCategory returns active products for a category path segment. The
// segment is uppercased before querying.
func (s *ProductService) ListByCategory(ctx context.Context, category string, page, limit int) ([]domain.Product, Pagination, error) {
	upper := strings.ToUpper(strings.TrimSpace(category))
	active := true
	return s.List(ctx, ProductListQuery{
		Category: &upper,
		IsActive: &active,
		Page:     page,
		Limit:    limit,
	})
}

// GetByID fetches a single product, consulting the cache first.
func (s *ProductService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if cached, err := s.cache.Get(ctx, id); err == nil && cached != nil {
		return cached, nil
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("product", nil)
		}
		return nil, err
	}

	_ = s.cache.Set(ctx, product)
	return product, nil
}

// Update applies a partial update to an existing product.
func (s *ProductService) Update(ctx context.Context, id string, input ProductUpdateInput) (*domain.Product, error) {
	if input.Price != nil && *input.Price <= 0 {
		return nil, apperrors.NewValidationError("price must be greater than 0", nil)
	}
	if input.Stock != nil && *input.Stock < 0 {
		return nil, apperrors.NewValidationError("stock cannot be negative", nil)
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("product", nil)
		}
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Category != nil {
		category, ok := domain.ParseCategory(*input.Category)
		if !ok {
			return nil, apperrors.NewValidationError("invalid category", map[string]any{"category": *input.Category})
		}
		product.Category = category
	}
	if input.Material != nil {
		product.Material = input.Material
	}
	if input.Weight != nil {
		product.Weight = input.Weight
	}
	if input.Dimensions != nil {
		product.Dimensions = input.Dimensions
	}
	if input.Gemstone != nil {
		product.Gemstone = input.Gemstone
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if len(input.Images) > 0 {
		if input.ReplaceImages {
			product.Images = input.Images
		} else {
			product.Images = append(product.Images, input.Images...)
		}
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}

	_ = s.cache.Invalidate(ctx, id)
	s.publishProductEvent(ctx, events.EventProductUpdated, product)
	return product, nil
}

// Delete removes a product.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("product", nil)
		}
		return err
	}

	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("product", nil)
		}
		return err
	}

	_ = s.cache.Invalidate(ctx, id)
	s.publishProductEvent(ctx, events.EventProductDeleted, product)
	return nil
}

func (s *ProductService) publishProductEvent(ctx context.Context, eventType events.EventType, product *domain.Product) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload: events.ProductEventPayload{
			ProductID: product.ID,
			Name:      product.Name,
			Category:  product.Category,
		},
	})
}

func buildPagination(page, limit int, total int64) Pagination {
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		Total:       total,
		Limit:       limit,
	}
}
