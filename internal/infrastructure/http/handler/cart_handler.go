package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mrops-br/storefront-cart/internal/app/dto"
	"github.com/mrops-br/storefront-cart/internal/domain"
	"github.com/mrops-br/storefront-cart/internal/infrastructure/http/middleware"
	"github.com/mrops-br/storefront-cart/internal/infrastructure/http/response"
)

// CartHandler handles HTTP requests for the authenticated account's cart
type CartHandler struct {
	carts    domain.CartRepository
	products domain.ProductRepository
	logger   *slog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts domain.CartRepository, products domain.ProductRepository, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		carts:    carts,
		products: products,
		logger:   logger,
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	account, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, domain.ErrSessionNotFound)
		return
	}

	refs, err := h.carts.Get(r.Context(), account.ID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	response.JSON(w, http.StatusOK, dto.ToCartItems(refs))
}

// UpdateCart handles POST /cart. The body's qty is the absolute quantity;
// the response is the complete cart.
func (h *CartHandler) UpdateCart(w http.ResponseWriter, r *http.Request) {
	account, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, domain.ErrSessionNotFound)
		return
	}

	var req dto.CartItem
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusBadRequest, err)
		return
	}
	if req.ProductID == "" {
		response.Error(w, http.StatusBadRequest, domain.ErrInvalidCartReference)
		return
	}

	if _, err := h.products.FindByID(r.Context(), req.ProductID); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			response.Error(w, http.StatusNotFound, err)
		} else {
			response.Error(w, http.StatusInternalServerError, err)
		}
		return
	}

	refs, err := h.carts.SetQty(r.Context(), account.ID, req.ProductID, req.Qty)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Cart updated",
		slog.String("account_id", account.ID),
		slog.String("product_id", req.ProductID),
		slog.Int("qty", req.Qty),
	)
	response.JSON(w, http.StatusOK, dto.ToCartItems(refs))
}
