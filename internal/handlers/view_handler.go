package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/wataburguer/backend/internal/session"
	"github.com/Lixing-Zhang/wataburguer/backend/internal/view"
	"github.com/go-chi/chi/v5"
)

// ViewHandler exposes the screen state machine
type ViewHandler struct {
	view     *view.Controller
	sessions *session.Manager
	logger   *slog.Logger
}

// NewViewHandler creates a new view handler
func NewViewHandler(controller *view.Controller, sessions *session.Manager, logger *slog.Logger) *ViewHandler {
	return &ViewHandler{
		view:     controller,
		sessions: sessions,
		logger:   logger,
	}
}

// GetView handles GET /api/view
func (h *ViewHandler) GetView(w http.ResponseWriter, r *http.Request) {
	h.writeState(w, r)
}

// ApplyAction handles POST /api/view/{action}
func (h *ViewHandler) ApplyAction(w http.ResponseWriter, r *http.Request) {
	action := chi.URLParam(r, "action")
	if err := h.view.Apply(action); err != nil {
		h.logger.Warn("unknown view action", "action", action)
		WriteError(w, http.StatusBadRequest, "Unknown view action", h.logger)
		return
	}
	h.writeState(w, r)
}

func (h *ViewHandler) writeState(w http.ResponseWriter, r *http.Request) {
	authenticated, err := h.sessions.IsAuthenticated(r.Context())
	if err != nil {
		// an unreadable session slot reads as logged out
		h.logger.Warn("failed to read admin session", "error", err)
	}
	WriteJSON(w, http.StatusOK, h.view.Snapshot(authenticated), h.logger)
}
