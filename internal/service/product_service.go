package service

import (
	"context"
	"log/slog"

	"github.com/Lixing-Zhang/wataburguer/backend/internal/models"
	"github.com/Lixing-Zhang/wataburguer/backend/internal/repository"
)

// ProductService handles business logic for the catalog
type ProductService struct {
	repo   repository.ProductRepository
	logger *slog.Logger
}

// NewProductService creates a new product service
func NewProductService(repo repository.ProductRepository, logger *slog.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		logger: logger,
	}
}

// ListProducts returns the catalog in insertion order
func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProduct returns a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// AddProduct creates a product from an admin draft
func (s *ProductService) AddProduct(ctx context.Context, draft models.ProductDraft) (*models.Product, error) {
	product, products, err := s.repo.Add(ctx, draft)
	if err != nil {
		return nil, err
	}

	s.logger.Info("product added", "product_id", product.ID, "name", product.Name, "catalog_size", len(products))
	return product, nil
}

// RemoveProduct deletes a product; unknown IDs are ignored
func (s *ProductService) RemoveProduct(ctx context.Context, id string) error {
	products, err := s.repo.Remove(ctx, id)
	if err != nil {
		return err
	}

	s.logger.Info("product removed", "product_id", id, "catalog_size", len(products))
	return nil
}
