package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Lixing-Zhang/wataburguer/backend/internal/models"
	"github.com/Lixing-Zhang/wataburguer/backend/internal/order"
	"github.com/Lixing-Zhang/wataburguer/backend/internal/service"
)

const (
	defaultQRSize = 256
	minQRSize     = 64
	maxQRSize     = 1024
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(service *service.CartService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger,
	}
}

// OrderResponse is a checked-out order with its display total
type OrderResponse struct {
	models.Order
	TotalFormatted string `json:"totalFormatted"`
}

// Checkout handles POST /api/order/checkout
// - 200: order message and WhatsApp link
// - 400: Cart is empty
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.Checkout()
	if err != nil {
		h.writeCheckoutError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, OrderResponse{
		Order:          *o,
		TotalFormatted: order.FormatGuarani(o.Total),
	}, h.logger)
}

// QRCode handles GET /api/order/qrcode?size=N and returns the checkout link as a PNG
func (h *OrderHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	size := defaultQRSize
	if raw := r.URL.Query().Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < minQRSize || n > maxQRSize {
			WriteError(w, http.StatusBadRequest, "Invalid input: size must be between 64 and 1024", h.logger)
			return
		}
		size = n
	}

	png, err := h.service.CheckoutQRCode(size)
	if err != nil {
		h.writeCheckoutError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		h.logger.Error("failed to write QR code", "error", err)
	}
}

func (h *OrderHandler) writeCheckoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyCart):
		WriteError(w, http.StatusBadRequest, "Cart is empty", h.logger)
	default:
		h.logger.Error("checkout failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
	}
}
