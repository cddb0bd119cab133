package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Lixing-Zhang/wataburguer/backend/internal/assistant"
	"github.com/Lixing-Zhang/wataburguer/backend/internal/middleware"
	"github.com/Lixing-Zhang/wataburguer/backend/internal/models"
	"github.com/Lixing-Zhang/wataburguer/backend/internal/order"
	"github.com/Lixing-Zhang/wataburguer/backend/internal/repository"
	"github.com/Lixing-Zhang/wataburguer/backend/internal/service"
	"github.com/Lixing-Zhang/wataburguer/backend/internal/session"
	"github.com/Lixing-Zhang/wataburguer/backend/internal/storage"
	"github.com/Lixing-Zhang/wataburguer/backend/internal/view"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

const testPIN = "1234"

type staticDescriber string

func (d staticDescriber) Describe(context.Context, string) string { return string(d) }

type stubGenerator struct {
	text string
	err  error
}

func (g stubGenerator) Generate(context.Context, string) (string, error) { return g.text, g.err }

type testServer struct {
	router   chi.Router
	store    storage.Store
	sessions *session.Manager
	view     *view.Controller
	drafts   *service.DraftService
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestServer wires the full /api surface on an in-memory store
func newTestServer(t *testing.T, generator assistant.Generator) *testServer {
	t.Helper()
	log := discardLogger()
	store := storage.NewMemoryStore()

	repo := repository.NewCatalogRepository(store, log)
	products := service.NewProductService(repo, log)

	formatter := order.NewFormatter("WATABURGUER", "WATA", time.UTC)
	formatter.Now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }
	formatter.IntN = func(int) int { return 234 }
	carts := service.NewCartService(products, formatter, order.NewLinkBuilder(""), "5511981637762", log)

	drafts := service.NewDraftService(staticDescriber("Jugosa y dorada."), products,
		models.ProductDraft{Category: models.CategorySignature, Image: repository.DefaultImage}, log)

	sessions := session.NewManager(store, session.Config{
		PIN:      testPIN,
		Secret:   "test-secret",
		Issuer:   "wataburguer",
		TokenTTL: time.Hour,
	}, log)
	controller := view.NewController()

	api := &API{
		Products:     NewProductHandler(products, log),
		Cart:         NewCartHandler(carts, log),
		Orders:       NewOrderHandler(carts, log),
		Description:  NewDescriptionHandler(generator, time.Second, log),
		View:         NewViewHandler(controller, sessions, log),
		Admin:        NewAdminHandler(sessions, products, drafts, controller, log),
		RequireAdmin: middleware.RequireAdmin(sessions, log),
	}

	r := chi.NewRouter()
	r.Route("/api", api.Routes)

	return &testServer{
		router:   r,
		store:    store,
		sessions: sessions,
		view:     controller,
		drafts:   drafts,
	}
}

func (s *testServer) do(method, path, body, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T) string {
	t.Helper()
	token, err := s.sessions.Login(context.Background(), testPIN)
	require.NoError(t, err)
	return token
}

// failingPinger is a storage backend that cannot be reached
type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }
