package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Lixing-Zhang/wataburguer/backend/internal/assistant"
	"github.com/Lixing-Zhang/wataburguer/backend/internal/models"
	"github.com/Lixing-Zhang/wataburguer/backend/internal/repository"
	"github.com/Lixing-Zhang/wataburguer/backend/internal/storage"
	"github.com/Lixing-Zhang/wataburguer/backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedDescriber answers only after release is closed
type gatedDescriber struct {
	started chan string
	release chan struct{}
	text    string
}

func newGatedDescriber(text string) *gatedDescriber {
	return &gatedDescriber{
		started: make(chan string, 1),
		release: make(chan struct{}),
		text:    text,
	}
}

func (g *gatedDescriber) Describe(ctx context.Context, productName string) string {
	g.started <- productName
	<-g.release
	return g.text
}

// staticDescriber always returns the same text
type staticDescriber string

func (s staticDescriber) Describe(ctx context.Context, productName string) string {
	return string(s)
}

var draftDefaults = models.ProductDraft{Category: models.CategorySignature, Image: repository.DefaultImage}

func newDraftService(t *testing.T, d assistant.Describer) *DraftService {
	t.Helper()
	return NewDraftService(d, newProductService(t), draftDefaults, logger.New("error"))
}

func TestDraftService_GenerateDescription(t *testing.T) {
	svc := newDraftService(t, staticDescriber("Fuego y queso."))

	_, _, err := svc.GenerateDescription(context.Background())
	assert.ErrorIs(t, err, ErrNameRequired)

	svc.Update(models.ProductDraft{Name: "Wata-Fuego", Price: priceOf(40000)})
	state, applied, err := svc.GenerateDescription(context.Background())
	require.NoError(t, err)
	assert.True(t, applied)
	assert.False(t, state.Generating)
	assert.Equal(t, "Fuego y queso.", state.Draft.Description)
	assert.Equal(t, "Wata-Fuego", state.Draft.Name)
}

func TestDraftService_FallbackIsApplied(t *testing.T) {
	svc := newDraftService(t, assistant.New(nil, 0, logger.New("error")))
	svc.Update(models.ProductDraft{Name: "Wata-Fuego"})

	state, applied, err := svc.GenerateDescription(context.Background())
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, assistant.FallbackDescription, state.Draft.Description)
}

func TestDraftService_SupersededDescriptionIsDropped(t *testing.T) {
	gated := newGatedDescriber("Descripción vieja.")
	svc := newDraftService(t, gated)
	svc.Update(models.ProductDraft{Name: "Primera"})

	var wg sync.WaitGroup
	var applied bool
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, applied, _ = svc.GenerateDescription(context.Background())
	}()

	select {
	case name := <-gated.started:
		assert.Equal(t, "Primera", name)
	case <-time.After(2 * time.Second):
		t.Fatal("describer was not called")
	}
	assert.True(t, svc.State().Generating)

	// the admin leaves the form while the request is pending
	svc.Reset()
	close(gated.release)
	wg.Wait()

	assert.False(t, applied)
	state := svc.State()
	assert.Empty(t, state.Draft.Description)
	assert.Empty(t, state.Draft.Name)
	assert.False(t, state.Generating)
	assert.Equal(t, models.CategorySignature, state.Draft.Category)
}

func TestDraftService_Submit(t *testing.T) {
	ctx := context.Background()
	svc := newDraftService(t, staticDescriber("x"))

	_, err := svc.Submit(ctx)
	assert.ErrorIs(t, err, repository.ErrInvalidProduct)

	svc.Update(models.ProductDraft{Name: "Wata-Veggie", Price: priceOf(32000), Category: models.CategoryClassic})
	product, err := svc.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Wata-Veggie", product.Name)
	assert.Equal(t, repository.DefaultDescription, product.Description)

	state := svc.State()
	assert.Equal(t, draftDefaults, state.Draft, "submit resets the form")
}

// gatedRepository holds Add until release is closed
type gatedRepository struct {
	repository.ProductRepository
	started chan struct{}
	release chan struct{}
}

func (g *gatedRepository) Add(ctx context.Context, draft models.ProductDraft) (*models.Product, []models.Product, error) {
	close(g.started)
	<-g.release
	return g.ProductRepository.Add(ctx, draft)
}

func TestDraftService_SubmitKeepsEditsMadeMeanwhile(t *testing.T) {
	log := logger.New("error")
	repo := &gatedRepository{
		ProductRepository: repository.NewCatalogRepository(storage.NewMemoryStore(), log),
		started:           make(chan struct{}),
		release:           make(chan struct{}),
	}
	svc := NewDraftService(staticDescriber("x"), NewProductService(repo, log), draftDefaults, log)
	svc.Update(models.ProductDraft{Name: "Wata-Veggie", Price: priceOf(32000)})

	var wg sync.WaitGroup
	var product *models.Product
	var err error
	wg.Add(1)
	go func() {
		defer wg.Done()
		product, err = svc.Submit(context.Background())
	}()

	select {
	case <-repo.started:
	case <-time.After(2 * time.Second):
		t.Fatal("submit did not reach the repository")
	}

	// the admin starts the next product before the first one is stored
	next := models.ProductDraft{Name: "Wata-Picante", Price: priceOf(41000)}
	svc.Update(next)
	close(repo.release)
	wg.Wait()

	require.NoError(t, err)
	assert.Equal(t, "Wata-Veggie", product.Name)
	assert.Equal(t, next, svc.State().Draft)
}
