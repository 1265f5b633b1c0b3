package handlers

import (
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/welldanyogia/webrana-attachments/internal/api/response"
	"github.com/welldanyogia/webrana-attachments/internal/logger"
	"github.com/welldanyogia/webrana-attachments/internal/models"
	"github.com/welldanyogia/webrana-attachments/internal/repository"
	"github.com/welldanyogia/webrana-attachments/internal/upload"
	"github.com/welldanyogia/webrana-attachments/internal/validator"
)

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	productRepo repository.ProductRepository
	receiver    *upload.Receiver
	fields      []string
	events      *logger.EventLogger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productRepo repository.ProductRepository, receiver *upload.Receiver, fields []string, events *logger.EventLogger) *ProductHandler {
	return &ProductHandler{
		productRepo: productRepo,
		receiver:    receiver,
		fields:      fields,
		events:      events,
	}
}

// Create handles POST /api/products
func (h *ProductHandler) Create(c echo.Context) error {
	if err := validator.ValidateSKU(c.FormValue("sku")); err != nil {
		return response.BadRequest(c, "invalid sku")
	}
	title, err := validator.ValidateName(c.FormValue("title"))
	if err != nil {
		return response.BadRequest(c, "title is required")
	}

	uploads, err := h.receiver.FromRequest(c, h.fields)
	if err != nil {
		return response.BadRequest(c, "invalid multipart form")
	}
	defer discardUploads(c, h.events, uploads)

	product := &models.Product{
		SKU:   validator.NormalizeSKU(c.FormValue("sku")),
		Title: title,
	}
	if err := h.productRepo.Create(c.Request().Context(), product, uploads); err != nil {
		return saveError(c, h.events, uploads, "product", err)
	}

	return response.Created(c, product)
}

// List handles GET /api/products
func (h *ProductHandler) List(c echo.Context) error {
	limit, offset := parsePagination(c)

	products, total, err := h.productRepo.List(c.Request().Context(), limit, offset)
	if err != nil {
		return response.InternalError(c, "failed to list products")
	}

	return response.Paginated(c, products, total, limit, offset)
}

// Get handles GET /api/products/:id
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return loadError(c, "product", err)
	}

	product, err := h.productRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return loadError(c, "product", err)
	}

	return response.Success(c, product)
}

// Delete handles DELETE /api/products/:id
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "invalid product ID")
	}

	if err := h.productRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "product not found")
		}
		return response.InternalError(c, "failed to delete product")
	}

	return response.NoContent(c)
}
