package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Lixing-Zhang/wataburguer/backend/internal/cart"
	"github.com/Lixing-Zhang/wataburguer/backend/internal/models"
	"github.com/Lixing-Zhang/wataburguer/backend/internal/order"
	"github.com/Lixing-Zhang/wataburguer/backend/internal/repository"
	"github.com/Lixing-Zhang/wataburguer/backend/internal/service"
	"github.com/go-chi/chi/v5"
)

// CartHandler handles cart HTTP requests
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(service *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger,
	}
}

// CartResponse is the cart with its derived totals
type CartResponse struct {
	Items          []models.CartItem `json:"items"`
	Total          int64             `json:"total"`
	TotalFormatted string            `json:"totalFormatted"`
	ItemCount      int               `json:"itemCount"`
}

// AddItemRequest is the body of POST /api/cart/items
type AddItemRequest struct {
	ProductID string `json:"productId"`
}

// AdjustItemRequest is the body of PATCH /api/cart/items/{productId}
type AdjustItemRequest struct {
	Delta *int `json:"delta"`
}

func newCartResponse(c models.Cart) CartResponse {
	items := c.Items
	if items == nil {
		items = []models.CartItem{}
	}
	total := cart.Total(c)
	return CartResponse{
		Items:          items,
		Total:          total,
		TotalFormatted: order.FormatGuarani(total),
		ItemCount:      cart.ItemCount(c),
	}
}

// GetCart handles GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, newCartResponse(h.service.Cart()), h.logger)
}

// AddItem handles POST /api/cart/items
// - 200: cart after adding one unit
// - 400: Invalid input
// - 404: Product not found
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warn("invalid add item request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid input", h.logger)
		return
	}

	productID := strings.TrimSpace(req.ProductID)
	if productID == "" {
		WriteError(w, http.StatusBadRequest, "Invalid input: productId is required", h.logger)
		return
	}

	c, err := h.service.AddProduct(r.Context(), productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			WriteError(w, http.StatusNotFound, "Product not found", h.logger)
			return
		}
		h.logger.Error("failed to add cart item", "productId", productID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, newCartResponse(c), h.logger)
}

// AdjustItem handles PATCH /api/cart/items/{productId}
// A quantity that reaches zero removes the line; unknown IDs leave the cart unchanged.
func (h *CartHandler) AdjustItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	var req AdjustItemRequest
	if err := decodeJSON(w, r, &req); err != nil || req.Delta == nil {
		h.logger.Warn("invalid adjust request", "productId", productID, "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid input: delta is required", h.logger)
		return
	}
	if *req.Delta > cart.MaxQuantity || *req.Delta < -cart.MaxQuantity {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid input: delta must be between -%d and %d", cart.MaxQuantity, cart.MaxQuantity), h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, newCartResponse(h.service.Adjust(productID, *req.Delta)), h.logger)
}

// ClearCart handles DELETE /api/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, newCartResponse(h.service.Clear()), h.logger)
}
