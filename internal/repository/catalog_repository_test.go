package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Lixing-Zhang/wataburguer/backend/internal/models"
	"github.com/Lixing-Zhang/wataburguer/backend/internal/storage"
	"github.com/Lixing-Zhang/wataburguer/backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStore reads like an empty store and refuses writes
type failingStore struct{}

func (failingStore) Get(ctx context.Context, key string) (string, error) {
	return "", errors.New("connection refused")
}

func (failingStore) Set(ctx context.Context, key, value string) error {
	return errors.New("connection refused")
}

func (failingStore) Delete(ctx context.Context, key string) error {
	return errors.New("connection refused")
}

func price(v int64) *int64 {
	return &v
}

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func newRepo(t *testing.T, store storage.Store) *CatalogRepository {
	t.Helper()
	return NewCatalogRepository(store, logger.New("error"), WithClock(fixedClock(1700000000000)))
}

func TestLoad_SeedWhenEmpty(t *testing.T) {
	repo := newRepo(t, storage.NewMemoryStore())

	products, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 4)
	assert.Equal(t, "Wata-Beast Special", products[0].Name)
	assert.Equal(t, "Wata-Shake Gold", products[3].Name)
}

func TestLoad_SeedWhenUnparsable(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"garbage", "{not json"},
		{"wrong shape", `{"id":"1"}`},
		{"null", "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storage.NewMemoryStore()
			require.NoError(t, store.Set(context.Background(), storage.CatalogKey, tt.raw))

			products := newRepo(t, store).Load(context.Background())
			assert.Equal(t, SeedCatalog(), products)
		})
	}
}

func TestLoad_SeedWhenStoreFails(t *testing.T) {
	products := newRepo(t, failingStore{}).Load(context.Background())
	assert.Equal(t, SeedCatalog(), products)
}

func TestLoad_EmptyCatalogIsKept(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), storage.CatalogKey, "[]"))

	products := newRepo(t, store).Load(context.Background())
	assert.Empty(t, products)
}

func TestAdd_DefaultsAndPersistence(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	repo := newRepo(t, store)

	product, products, err := repo.Add(ctx, models.ProductDraft{Name: "  Wata-Chicken ", Price: price(30000)})
	require.NoError(t, err)

	assert.Equal(t, "1700000000000", product.ID)
	assert.Equal(t, "Wata-Chicken", product.Name)
	assert.Equal(t, int64(30000), product.Price)
	assert.Equal(t, DefaultDescription, product.Description)
	assert.Equal(t, DefaultImage, product.Image)
	assert.Equal(t, models.CategoryClassic, product.Category)

	require.Len(t, products, 5)
	assert.Equal(t, *product, products[4], "new products are appended at the end")

	raw, err := store.Get(ctx, storage.CatalogKey)
	require.NoError(t, err)
	var persisted []models.Product
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	assert.Equal(t, products, persisted)
}

func TestAdd_KeepsProvidedFields(t *testing.T) {
	repo := NewCatalogRepository(storage.NewMemoryStore(), logger.New("error"),
		WithClock(fixedClock(1)), WithDefaultImage("https://cdn.example/burger.jpg"))

	product, _, err := repo.Add(context.Background(), models.ProductDraft{
		Name:        "Wata-Cola",
		Price:       price(0),
		Description: "Bien fría.",
		Image:       "data:image/png;base64,AAAA",
		Category:    models.CategoryDrinks,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), product.Price)
	assert.Equal(t, "Bien fría.", product.Description)
	assert.Equal(t, "data:image/png;base64,AAAA", product.Image)
	assert.Equal(t, models.CategoryDrinks, product.Category)

	other, _, err := repo.Add(context.Background(), models.ProductDraft{Name: "Wata-Agua", Price: price(5000)})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/burger.jpg", other.Image)
}

func TestAdd_UniqueIDsOnSameTick(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t, storage.NewMemoryStore())

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		product, _, err := repo.Add(ctx, models.ProductDraft{Name: "Combo", Price: price(1000)})
		require.NoError(t, err)
		assert.False(t, seen[product.ID], "duplicate id %s", product.ID)
		seen[product.ID] = true
	}
}

func TestAdd_Validation(t *testing.T) {
	tests := []struct {
		name  string
		draft models.ProductDraft
	}{
		{"missing name", models.ProductDraft{Price: price(100)}},
		{"blank name", models.ProductDraft{Name: "   ", Price: price(100)}},
		{"missing price", models.ProductDraft{Name: "Burger"}},
		{"negative price", models.ProductDraft{Name: "Burger", Price: price(-1)}},
		{"unknown category", models.ProductDraft{Name: "Burger", Price: price(100), Category: "Desserts"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storage.NewMemoryStore()
			_, _, err := newRepo(t, store).Add(context.Background(), tt.draft)
			assert.ErrorIs(t, err, ErrInvalidProduct)

			_, getErr := store.Get(context.Background(), storage.CatalogKey)
			assert.ErrorIs(t, getErr, storage.ErrNotFound, "rejected drafts must not be persisted")
		})
	}
}

func TestAdd_PersistFailure(t *testing.T) {
	_, _, err := newRepo(t, failingStore{}).Add(context.Background(), models.ProductDraft{Name: "Burger", Price: price(1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist catalog")
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t, storage.NewMemoryStore())

	products, err := repo.Remove(ctx, "3")
	require.NoError(t, err)
	require.Len(t, products, 3)
	for _, p := range products {
		assert.NotEqual(t, "3", p.ID)
	}

	_, err = repo.GetByID(ctx, "3")
	assert.ErrorIs(t, err, ErrProductNotFound)

	// unknown ids are a no-op
	again, err := repo.Remove(ctx, "does-not-exist")
	require.NoError(t, err)
	assert.Equal(t, products, again)
}

func TestAddThenRemove_RoundTrip(t *testing.T) {
	drafts := []models.ProductDraft{
		{Name: "A", Price: price(1)},
		{Name: "B", Price: price(99999), Category: models.CategorySides},
		{Name: "C", Price: price(0), Description: "x", Image: "y", Category: models.CategorySignature},
	}

	for _, draft := range drafts {
		t.Run(draft.Name, func(t *testing.T) {
			ctx := context.Background()
			repo := newRepo(t, storage.NewMemoryStore())
			before, err := repo.GetAll(ctx)
			require.NoError(t, err)

			product, _, err := repo.Add(ctx, draft)
			require.NoError(t, err)

			after, err := repo.Remove(ctx, product.ID)
			require.NoError(t, err)
			assert.Equal(t, before, after)
		})
	}
}

func TestGetByID(t *testing.T) {
	repo := newRepo(t, storage.NewMemoryStore())

	product, err := repo.GetByID(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "Classic Wata-Cheese", product.Name)
	assert.Equal(t, int64(35000), product.Price)

	_, err = repo.GetByID(context.Background(), "999")
	assert.ErrorIs(t, err, ErrProductNotFound)
}
