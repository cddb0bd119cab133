package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Lixing-Zhang/wataburguer/backend/internal/assistant"
)

// DescriptionHandler exposes the text generator to remote clients
type DescriptionHandler struct {
	generator assistant.Generator
	timeout   time.Duration
	logger    *slog.Logger
}

// NewDescriptionHandler creates the handler. A nil generator means the
// server has no credentials and every request fails with 500.
func NewDescriptionHandler(generator assistant.Generator, timeout time.Duration, logger *slog.Logger) *DescriptionHandler {
	return &DescriptionHandler{
		generator: generator,
		timeout:   timeout,
		logger:    logger,
	}
}

// ServeHTTP handles /api/generate-description
// - 200: {text}
// - 400: malformed body or blank product name
// - 405: any method other than POST
// - 500: generator not configured, or the generation failed
func (h *DescriptionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		WriteError(w, http.StatusMethodNotAllowed, "Acceso no autorizado", h.logger)
		return
	}

	var req assistant.DescriptionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warn("invalid description request", "error", err)
		WriteError(w, http.StatusBadRequest, "Solicitud inválida", h.logger)
		return
	}

	name := strings.TrimSpace(req.ProductName)
	if name == "" {
		WriteError(w, http.StatusBadRequest, "Solicitud inválida: productName es obligatorio", h.logger)
		return
	}

	if h.generator == nil {
		h.logger.Error("description requested but generator is not configured")
		WriteError(w, http.StatusInternalServerError, "Error de configuración en el servidor", h.logger)
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	text, err := h.generator.Generate(ctx, name)
	if err != nil {
		h.logger.Error("description generation failed", "product_name", name, "error", err)
		WriteError(w, http.StatusInternalServerError, "Error interno en la generación", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, assistant.DescriptionResponse{Text: text}, h.logger)
}
