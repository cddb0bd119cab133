package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/wataburguer/backend/internal/models"
	"github.com/Lixing-Zhang/wataburguer/backend/internal/repository"
	"github.com/Lixing-Zhang/wataburguer/backend/internal/service"
	"github.com/Lixing-Zhang/wataburguer/backend/internal/session"
	"github.com/Lixing-Zhang/wataburguer/backend/internal/view"
	"github.com/go-chi/chi/v5"
)

// AdminHandler handles the admin login and catalog management endpoints
type AdminHandler struct {
	sessions *session.Manager
	products *service.ProductService
	drafts   *service.DraftService
	view     *view.Controller
	logger   *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(sessions *session.Manager, products *service.ProductService, drafts *service.DraftService, controller *view.Controller, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		sessions: sessions,
		products: products,
		drafts:   drafts,
		view:     controller,
		logger:   logger,
	}
}

// LoginRequest is the body of POST /api/admin/login
type LoginRequest struct {
	PIN string `json:"pin"`
}

// LoginResponse carries the admin bearer token
type LoginResponse struct {
	Token string `json:"token"`
}

// SessionResponse reports the persisted admin session flag
type SessionResponse struct {
	Authenticated bool `json:"authenticated"`
}

// DescriptionResult is the draft after a description request
type DescriptionResult struct {
	service.DraftState
	Applied bool `json:"applied"`
}

// Login handles POST /api/admin/login
// - 200: {token}
// - 400: Invalid input
// - 401: PIN Incorrecto.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid input", h.logger)
		return
	}

	token, err := h.sessions.Login(r.Context(), req.PIN)
	if err != nil {
		if errors.Is(err, session.ErrInvalidPIN) {
			WriteError(w, http.StatusUnauthorized, "PIN Incorrecto.", h.logger)
			return
		}
		h.logger.Error("admin login failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, LoginResponse{Token: token}, h.logger)
}

// Logout handles POST /api/admin/logout and returns the view to the menu
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context()); err != nil {
		h.logger.Error("admin logout failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}
	h.view.OnLogout()

	w.WriteHeader(http.StatusNoContent)
}

// Session handles GET /api/admin/session
func (h *AdminHandler) Session(w http.ResponseWriter, r *http.Request) {
	authenticated, err := h.sessions.IsAuthenticated(r.Context())
	if err != nil {
		h.logger.Warn("failed to read admin session", "error", err)
	}
	WriteJSON(w, http.StatusOK, SessionResponse{Authenticated: authenticated}, h.logger)
}

// AddProduct handles POST /api/admin/products
// - 201: the stored product
// - 400: body fails the draft schema or lacks name/price
func (h *AdminHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.readDraft(w, r)
	if !ok {
		return
	}

	product, err := h.products.AddProduct(r.Context(), draft)
	if err != nil {
		h.writeProductError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, product, h.logger)
}

// DeleteProduct handles DELETE /api/admin/products/{productId}
// Removing an unknown ID succeeds without changes.
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	if err := h.products.RemoveProduct(r.Context(), productID); err != nil {
		h.logger.Error("failed to remove product", "productId", productID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetDraft handles GET /api/admin/draft
func (h *AdminHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.drafts.State(), h.logger)
}

// UpdateDraft handles PUT /api/admin/draft
func (h *AdminHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.readDraft(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, h.drafts.Update(draft), h.logger)
}

// ResetDraft handles DELETE /api/admin/draft
func (h *AdminHandler) ResetDraft(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.drafts.Reset(), h.logger)
}

// GenerateDraftDescription handles POST /api/admin/draft/description.
// Assistant failures still answer 200 with a fallback sentence.
func (h *AdminHandler) GenerateDraftDescription(w http.ResponseWriter, r *http.Request) {
	state, applied, err := h.drafts.GenerateDescription(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrNameRequired) {
			WriteError(w, http.StatusBadRequest, "Invalid input: name is required", h.logger)
			return
		}
		h.logger.Error("draft description failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, DescriptionResult{DraftState: state, Applied: applied}, h.logger)
}

// SubmitDraft handles POST /api/admin/draft/submit
func (h *AdminHandler) SubmitDraft(w http.ResponseWriter, r *http.Request) {
	product, err := h.drafts.Submit(r.Context())
	if err != nil {
		h.writeProductError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, product, h.logger)
}

func (h *AdminHandler) readDraft(w http.ResponseWriter, r *http.Request) (models.ProductDraft, bool) {
	var draft models.ProductDraft

	body, err := readBody(w, r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid input", h.logger)
		return draft, false
	}

	if err := validateJSONSchema(productDraftLoader, body); err != nil {
		h.logger.Warn("product draft rejected", "error", err)
		WriteError(w, http.StatusBadRequest, err.Error(), h.logger)
		return draft, false
	}

	if err := json.Unmarshal(body, &draft); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid input", h.logger)
		return draft, false
	}
	return draft, true
}

func (h *AdminHandler) writeProductError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrInvalidProduct):
		WriteError(w, http.StatusBadRequest, err.Error(), h.logger)
	default:
		h.logger.Error("failed to add product", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
	}
}
