package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Lixing-Zhang/wataburguer/backend/internal/models"
	"github.com/Lixing-Zhang/wataburguer/backend/internal/storage"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidProduct  = errors.New("invalid product")
)

const (
	// DefaultDescription fills in drafts submitted without a description
	DefaultDescription = "Deliciosa hamburguesa artesanal."
	// DefaultImage is used for drafts submitted without an image
	DefaultImage = "https://images.unsplash.com/photo-1550547660-d9450f859349?auto=format&fit=crop&q=80&w=800"
)

// ProductRepository defines the interface for catalog data access
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Add(ctx context.Context, draft models.ProductDraft) (*models.Product, []models.Product, error)
	Remove(ctx context.Context, id string) ([]models.Product, error)
}

// CatalogRepository keeps the whole catalog as one JSON document in a storage slot.
// Reads fall back to the seed catalog when the slot is empty or unreadable;
// every mutation rewrites the full document.
type CatalogRepository struct {
	store        storage.Store
	logger       *slog.Logger
	now          func() time.Time
	defaultImage string

	// serializes read-modify-write cycles
	mu sync.Mutex
}

// Option configures a CatalogRepository
type Option func(*CatalogRepository)

// WithClock overrides the clock used to derive product IDs
func WithClock(now func() time.Time) Option {
	return func(r *CatalogRepository) {
		r.now = now
	}
}

// WithDefaultImage overrides the image given to drafts without one
func WithDefaultImage(url string) Option {
	return func(r *CatalogRepository) {
		if url != "" {
			r.defaultImage = url
		}
	}
}

// NewCatalogRepository creates a catalog repository on top of a slot store
func NewCatalogRepository(store storage.Store, logger *slog.Logger, opts ...Option) *CatalogRepository {
	r := &CatalogRepository{
		store:        store,
		logger:       logger,
		now:          time.Now,
		defaultImage: DefaultImage,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SeedCatalog returns a fresh copy of the catalog shown before the admin changes anything
func SeedCatalog() []models.Product {
	return []models.Product{
		{
			ID:          "1",
			Name:        "Wata-Beast Special",
			Price:       45000,
			Description: "Doble carne madurada, triple cheddar fundido, cebolla crispy y nuestra legendaria salsa secreta Wata.",
			Image:       "https://images.unsplash.com/photo-1568901346375-23c9450c58cd?auto=format&fit=crop&q=80&w=800",
			Category:    models.CategorySignature,
		},
		{
			ID:          "2",
			Name:        "Classic Wata-Cheese",
			Price:       35000,
			Description: "La esencia original: Res seleccionada, queso americano, pepinillos premium y pan brioche artesanal.",
			Image:       "https://images.unsplash.com/photo-1571091718767-18b5b1457add?auto=format&fit=crop&q=80&w=800",
			Category:    models.CategoryClassic,
		},
		{
			ID:          "3",
			Name:        "Truffle Wata-Fries",
			Price:       18000,
			Description: "Papas cortadas a mano con doble cocción, aceite de trufa blanca y lluvia de parmesano.",
			Image:       "https://images.unsplash.com/photo-1573080496219-bb080dd4f877?auto=format&fit=crop&q=80&w=800",
			Category:    models.CategorySides,
		},
		{
			ID:          "4",
			Name:        "Wata-Shake Gold",
			Price:       22000,
			Description: "Batido de vainilla Bourbon con hilos de caramelo salado y trozos de brownie húmedo.",
			Image:       "https://images.unsplash.com/photo-1572490122747-3968b75cc699?auto=format&fit=crop&q=80&w=800",
			Category:    models.CategoryDrinks,
		},
	}
}

// Load reads the persisted catalog, falling back to the seed catalog
func (r *CatalogRepository) Load(ctx context.Context) []models.Product {
	raw, err := r.store.Get(ctx, storage.CatalogKey)
	if errors.Is(err, storage.ErrNotFound) {
		return SeedCatalog()
	}
	if err != nil {
		r.logger.Warn("failed to read catalog, using seed catalog", "error", err)
		return SeedCatalog()
	}

	var products []models.Product
	if err := json.Unmarshal([]byte(raw), &products); err != nil {
		r.logger.Warn("persisted catalog is not valid JSON, using seed catalog", "error", err)
		return SeedCatalog()
	}
	if products == nil {
		return SeedCatalog()
	}

	return products
}

// GetAll returns all products in insertion order
func (r *CatalogRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	return r.Load(ctx), nil
}

// GetByID returns a product by its ID
func (r *CatalogRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	for _, product := range r.Load(ctx) {
		if product.ID == id {
			return &product, nil
		}
	}
	return nil, ErrProductNotFound
}

// Add validates a draft, fills in defaults, appends it and persists the catalog
func (r *CatalogRepository) Add(ctx context.Context, draft models.ProductDraft) (*models.Product, []models.Product, error) {
	if err := ValidateDraft(draft); err != nil {
		return nil, nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	products := r.Load(ctx)

	product := models.Product{
		ID:          nextID(products, r.now()),
		Name:        strings.TrimSpace(draft.Name),
		Price:       *draft.Price,
		Description: draft.Description,
		Image:       draft.Image,
		Category:    draft.Category,
	}
	if strings.TrimSpace(product.Description) == "" {
		product.Description = DefaultDescription
	}
	if product.Image == "" {
		product.Image = r.defaultImage
	}
	if product.Category == "" {
		product.Category = models.CategoryClassic
	}

	products = append(products, product)
	if err := r.save(ctx, products); err != nil {
		return nil, nil, err
	}

	return &product, products, nil
}

// Remove drops the product with the given ID (no-op if absent) and persists the catalog
func (r *CatalogRepository) Remove(ctx context.Context, id string) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.Load(ctx)
	products := make([]models.Product, 0, len(current))
	for _, product := range current {
		if product.ID != id {
			products = append(products, product)
		}
	}

	if err := r.save(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *CatalogRepository) save(ctx context.Context, products []models.Product) error {
	raw, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := r.store.Set(ctx, storage.CatalogKey, string(raw)); err != nil {
		return fmt.Errorf("persist catalog: %w", err)
	}
	return nil
}

// ValidateDraft checks the fields required to create a product
func ValidateDraft(draft models.ProductDraft) error {
	if strings.TrimSpace(draft.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if draft.Price == nil {
		return fmt.Errorf("%w: price is required", ErrInvalidProduct)
	}
	if *draft.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	}
	if draft.Category != "" && !draft.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidProduct, draft.Category)
	}
	return nil
}

// nextID derives an ID from the clock, bumping it until no product uses it
func nextID(products []models.Product, now time.Time) string {
	taken := make(map[string]bool, len(products))
	for _, p := range products {
		taken[p.ID] = true
	}

	candidate := now.UnixMilli()
	for taken[strconv.FormatInt(candidate, 10)] {
		candidate++
	}
	return strconv.FormatInt(candidate, 10)
}

var _ ProductRepository = (*CatalogRepository)(nil)
