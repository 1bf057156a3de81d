package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/jewelry-store/internal/api/dto"
	"github.com/spec-kit/jewelry-store/internal/service"
	"github.com/spec-kit/jewelry-store/internal/storage"
	apperrors "github.com/spec-kit/jewelry-store/pkg/util"
)

// ProductsHandler exposes catalog endpoints.
type ProductsHandler struct {
	service *service.ProductService
	images  storage.ImageStore
}

// NewProductsHandler constructs handler.
func NewProductsHandler(productService *service.ProductService, images storage.ImageStore) *ProductsHandler {
	return &ProductsHandler{service: productService, images: images}
}

// List handles GET /api/products.
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	query := service.ProductListQuery{
		Page:      parseInt(c.Query("page"), 1),
		Limit:     parseInt(c.Query("limit"), 10),
		SortBy:    c.Query("sortBy", "createdAt"),
		SortOrder: c.Query("sortOrder", "desc"),
	}
	if category := c.Query("category"); category != "" {
		query.Category = &category
	}
	if isActive := c.Query("isActive"); isActive != "" {
		active := isActive == "true"
		query.IsActive = &active
	}
	if search := c.Query("search"); search != "" {
		query.Search = &search
	}

	products, pagination, err := h.service.List(c.Context(), query)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Products retrieved successfully",
		dto.NewProductListResponse(products, pagination))
}

// ListByCategory handles GET /api/products/category/:category.
func (h *ProductsHandler) ListByCategory(c *fiber.Ctx) error {
	products, pagination, err := h.service.ListByCategory(c.Context(),
		c.Params("category"),
		parseInt(c.Query("page"), 1),
		parseInt(c.Query("limit"), 10),
	)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Products retrieved successfully",
		dto.NewProductListResponse(products, pagination))
}

// GetByID handles GET /api/products/:id.
func (h *ProductsHandler) GetByID(c *fiber.Ctx) error {
	product, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Product retrieved successfully", dto.NewProductResponse(product))
}

// Create handles POST /api/products.
func (h *ProductsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	imageURLs, err := h.saveUploadedImages(c)
	if err != nil {
		return err
	}

	input := service.ProductCreateInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Material:    req.Material,
		Weight:      req.Weight,
		Dimensions:  req.Dimensions,
		Gemstone:    req.Gemstone,
		Images:      imageURLs,
		IsActive:    true,
	}
	if req.Stock != nil {
		input.Stock = *req.Stock
	}
	if req.IsActive != nil {
		input.IsActive = *req.IsActive
	}

	product, err := h.service.Create(c.Context(), input)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Product created successfully", dto.NewProductResponse(product))
}

// Update handles PUT /api/products/:id.
func (h *ProductsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	imageURLs, err := h.saveUploadedImages(c)
	if err != nil {
		return err
	}

	input := service.ProductUpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Material:    req.Material,
		Weight:      req.Weight,
		Dimensions:  req.Dimensions,
		Gemstone:    req.Gemstone,
		Stock:       req.Stock,
		IsActive:    req.IsActive,
		Images:      imageURLs,
	}
	if req.ReplaceImages != nil {
		input.ReplaceImages = *req.ReplaceImages
	}

	product, err := h.service.Update(c.Context(), c.Params("id"), input)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Product updated successfully", dto.NewProductResponse(product))
}

// Delete handles DELETE /api/products/:id.
func (h *ProductsHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Product deleted successfully", nil)
}

// saveUploadedImages stores multipart images and returns their public URLs.
// Non-multipart requests yield no images.
func (h *ProductsHandler) saveUploadedImages(c *fiber.Ctx) ([]string, error) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil, nil
	}

	files := form.File["images"]
	if len(files) == 0 {
		return nil, nil
	}
	if len(files) > storage.MaxImagesPerRequest {
		return nil, apperrors.NewValidationError("too many images", map[string]any{"max": storage.MaxImagesPerRequest})
	}

	urls := make([]string, 0, len(files))
	for _, file := range files {
		src, err := file.Open()
		if err != nil {
			return nil, err
		}
		url, err := h.images.Save(c.Context(), file.Filename, file.Header.Get("Content-Type"), src)
		src.Close()
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func parseInt(val string, fallback int) int {
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed < 1 {
		return fallback
	}
	return parsed
}
