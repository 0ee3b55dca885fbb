package service

import (
	"context"

	"sweetiegarden/config"
	"sweetiegarden/internal/models"
	"sweetiegarden/internal/store"
	"sweetiegarden/internal/util"

	"go.uber.org/zap"
)

// CatalogService serves the product catalog
type CatalogService struct {
	store  *store.Store
	shop   config.ShopConfig
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(st *store.Store, shop config.ShopConfig) *CatalogService {
	return &CatalogService{store: st, shop: shop, logger: util.GetLogger()}
}

// ListProducts returns a page of the catalog. Non-admin callers only see
// active products.
func (s *CatalogService) ListProducts(ctx context.Context, identity models.Identity, f store.ProductFilter) ([]models.Product, int, error) {
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = s.shop.ProductsPerPage
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if !identity.IsAdmin() {
		f.AllStatuses = false
		f.Status = models.ProductStatusActive
	}
	return s.store.ListProducts(ctx, f)
}

// GetProduct fetches a product by slug and bumps its view counter.
// Inactive products are hidden from non-admin callers.
func (s *CatalogService) GetProduct(ctx context.Context, identity models.Identity, slug string) (*models.Product, error) {
	product, err := s.store.GetProductBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if product.Status != models.ProductStatusActive && !identity.IsAdmin() {
		return nil, store.ErrProductNotFound
	}

	// View count is best effort
	if err := s.store.IncrementProductViews(ctx, product.ID); err != nil {
		s.logger.Warn("Failed to increment product views",
			zap.Int64("product_id", product.ID), zap.Error(err))
	}

	return product, nil
}

// ListCategories returns the active categories
func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.store.ListCategories(ctx)
}
