package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

// TokenVerifier checks an admin bearer token
type TokenVerifier interface {
	Verify(ctx context.Context, token string) error
}

// RequireAdmin rejects requests without a valid admin bearer token
func RequireAdmin(verifier TokenVerifier, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				unauthorized(w, "Unauthorized: admin token required")
				return
			}

			if err := verifier.Verify(r.Context(), strings.TrimPrefix(auth, "Bearer ")); err != nil {
				logger.Warn("admin token rejected", "path", r.URL.Path, "error", err)
				unauthorized(w, "Unauthorized: invalid or expired admin session")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
