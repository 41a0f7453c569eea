package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mrops-br/storefront-cart/internal/app/dto"
	"github.com/mrops-br/storefront-cart/internal/domain"
	"github.com/mrops-br/storefront-cart/internal/infrastructure/http/response"
)

// errNoMatch is the search answer when nothing matches
var errNoMatch = errors.New("No products found")

// ProductHandler handles HTTP requests for products
type ProductHandler struct {
	products domain.ProductRepository
	logger   *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(products domain.ProductRepository, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		logger:   logger,
	}
}

// ListProducts handles GET /products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.FindAll(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to list products",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	response.JSON(w, http.StatusOK, dto.ToProductResponseList(products))
}

// SearchProducts handles GET /products/search?value=
func (h *ProductHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("value")

	products, err := h.products.Search(r.Context(), query)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to search products",
			slog.String("query", query),
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusInternalServerError, err)
		return
	}
	if len(products) == 0 {
		response.Error(w, http.StatusNotFound, errNoMatch)
		return
	}

	response.JSON(w, http.StatusOK, dto.ToProductResponseList(products))
}
