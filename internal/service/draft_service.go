package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/Lixing-Zhang/wataburguer/backend/internal/assistant"
	"github.com/Lixing-Zhang/wataburguer/backend/internal/models"
)

var ErrNameRequired = errors.New("product name is required")

// DraftState is the admin's working product form
type DraftState struct {
	Draft      models.ProductDraft `json:"draft"`
	Generating bool                `json:"generating"`
	Generation uint64              `json:"generation"`
}

// DraftService keeps the admin's product draft. Every change bumps a
// generation counter; a description that arrives for an older generation is
// dropped instead of overwriting newer input.
type DraftService struct {
	describer assistant.Describer
	products  *ProductService
	defaults  models.ProductDraft
	logger    *slog.Logger

	mu         sync.Mutex
	draft      models.ProductDraft
	generation uint64
	generating bool
}

// NewDraftService creates a draft service; new drafts start from defaults
func NewDraftService(describer assistant.Describer, products *ProductService, defaults models.ProductDraft, logger *slog.Logger) *DraftService {
	return &DraftService{
		describer: describer,
		products:  products,
		defaults:  defaults,
		logger:    logger,
		draft:     defaults,
	}
}

// State returns the current draft
func (s *DraftService) State() DraftState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state()
}

// Update replaces the draft
func (s *DraftService) Update(draft models.ProductDraft) DraftState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = draft
	s.bump()
	return s.state()
}

// Reset discards the draft
func (s *DraftService) Reset() DraftState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = s.defaults
	s.bump()
	return s.state()
}

// GenerateDescription asks the assistant for a description of the draft's
// name. applied is false when the draft changed while the request was in flight.
func (s *DraftService) GenerateDescription(ctx context.Context) (state DraftState, applied bool, err error) {
	s.mu.Lock()
	name := strings.TrimSpace(s.draft.Name)
	if name == "" {
		s.mu.Unlock()
		return DraftState{}, false, ErrNameRequired
	}
	s.bump()
	gen := s.generation
	s.generating = true
	s.mu.Unlock()

	text := s.describer.Describe(ctx, name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		s.logger.Info("discarding superseded description", "product_name", name, "generation", gen, "current", s.generation)
		return s.state(), false, nil
	}

	s.draft.Description = text
	s.generating = false
	return s.state(), true, nil
}

// Submit adds the draft to the catalog and resets it. Edits made while the
// product is being stored are kept.
func (s *DraftService) Submit(ctx context.Context) (*models.Product, error) {
	s.mu.Lock()
	draft := s.draft
	gen := s.generation
	s.mu.Unlock()

	product, err := s.products.AddProduct(ctx, draft)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.generation {
		s.draft = s.defaults
		s.bump()
	}
	return product, nil
}

func (s *DraftService) bump() {
	s.generation++
	s.generating = false
}

func (s *DraftService) state() DraftState {
	return DraftState{
		Draft:      s.draft,
		Generating: s.generating,
		Generation: s.generation,
	}
}
