package service

import (
	"context"

	"github.com/agstore/storefront/internal/models"
)

// ProductRepository is interface for interacting with product-related data
type ProductRepository interface {
	// CreateProduct inserts new product to database
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	// GetProducts returns all products
	GetProducts(ctx context.Context) ([]models.Product, error)
	// GetProductByProductID returns product by its human-assigned identifier
	GetProductByProductID(ctx context.Context, productID string) (*models.Product, error)
	// SearchProducts returns products matching query
	SearchProducts(ctx context.Context, query string) ([]models.Product, error)
	// UpdateProduct updates product fields by product id
	UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	// DeleteProduct removes product by product id
	DeleteProduct(ctx context.Context, productID string) error
}

// CatalogService implements CatalogService interface
type CatalogService struct {
	repo ProductRepository
}

// NewCatalogService creates new CatalogService instance
func NewCatalogService(repo ProductRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// Create adds a product to the catalog. Admin only.
func (cs *CatalogService) Create(ctx context.Context, payload *models.TokenPayload, product *models.Product) (*models.Product, error) {
	if !payload.IsAdmin() {
		return nil, models.ErrNotAllowed
	}

	return cs.repo.CreateProduct(ctx, product)
}

// List returns all catalog products
func (cs *CatalogService) List(ctx context.Context) ([]models.Product, error) {
	return cs.repo.GetProducts(ctx)
}

// GetProductByProductID returns a single product by product id. It also
// satisfies the order assembler's CatalogStore interface.
func (cs *CatalogService) GetProductByProductID(ctx context.Context, productID string) (*models.Product, error) {
	return cs.repo.GetProductByProductID(ctx, productID)
}

// Search returns products whose name or description matches query
func (cs *CatalogService) Search(ctx context.Context, query string) ([]models.Product, error) {
	return cs.repo.SearchProducts(ctx, query)
}

// Update replaces product fields. Admin only.
func (cs *CatalogService) Update(ctx context.Context, payload *models.TokenPayload, product *models.Product) (*models.Product, error) {
	if !payload.IsAdmin() {
		return nil, models.ErrNotAllowed
	}

	return cs.repo.UpdateProduct(ctx, product)
}

// Delete removes a product from the catalog. Admin only.
func (cs *CatalogService) Delete(ctx context.Context, payload *models.TokenPayload, productID string) error {
	if !payload.IsAdmin() {
		return models.ErrNotAllowed
	}

	return cs.repo.DeleteProduct(ctx, productID)
}
