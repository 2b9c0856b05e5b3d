package repository

import (
	"context"
	"errors"

	"github.com/agstore/storefront/internal/models"
	"github.com/agstore/storefront/internal/repository/postgres"
	"github.com/jackc/pgx/v5"
)

const (
	insertProductQuery = `
						INSERT INTO products (product_id, name, alt_names, description, labelled_price, price, images, stock, is_available)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
						RETURNING id, created_at, updated_at
`
	selectProductsQuery = `
						SELECT id, product_id, name, alt_names, description, labelled_price, price, images, stock, is_available, created_at, updated_at
						FROM products
						ORDER BY created_at DESC
`
	selectProductByProductIDQuery = `
						SELECT id, product_id, name, alt_names, description, labelled_price, price, images, stock, is_available, created_at, updated_at
						FROM products
						WHERE product_id = $1
`
	searchProductsQuery = `
						SELECT id, product_id, name, alt_names, description, labelled_price, price, images, stock, is_available, created_at, updated_at
						FROM products
						WHERE name ILIKE $1 OR description ILIKE $1
						ORDER BY created_at DESC
`
	updateProductQuery = `
						UPDATE products
						SET name = $2, alt_names = $3, description = $4, labelled_price = $5, price = $6, images = $7, stock = $8, is_available = $9, updated_at = now()
						WHERE product_id = $1
						RETURNING id, product_id, name, alt_names, description, labelled_price, price, images, stock, is_available, created_at, updated_at
`
	deleteProductQuery = `
						DELETE FROM products
						WHERE product_id = $1
`
)

// ProductRepository implements CatalogStore interface
type ProductRepository struct {
	db *postgres.DB
}

// NewProductRepository creates new ProductRepository instance
func NewProductRepository(db *postgres.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// CreateProduct inserts new product to database
func (pr *ProductRepository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	err := pr.db.QueryRow(ctx, insertProductQuery,
		product.ProductID, product.Name, product.AltNames, product.Description,
		product.LabelledPrice, product.Price, product.Images, product.Stock, product.IsAvailable,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if errCode := pr.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	return product, nil
}

// GetProducts returns all products
func (pr *ProductRepository) GetProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := pr.db.Query(ctx, selectProductsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProducts(rows)
}

// GetProductByProductID returns product by its human-assigned identifier
func (pr *ProductRepository) GetProductByProductID(ctx context.Context, productID string) (*models.Product, error) {
	product := models.Product{}
	err := pr.db.QueryRow(ctx, selectProductByProductIDQuery, productID).Scan(
		&product.ID, &product.ProductID, &product.Name, &product.AltNames, &product.Description,
		&product.LabelledPrice, &product.Price, &product.Images, &product.Stock, &product.IsAvailable,
		&product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &product, nil
}

// SearchProducts returns products whose name or description matches query
func (pr *ProductRepository) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	rows, err := pr.db.Query(ctx, searchProductsQuery, "%"+query+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProducts(rows)
}

// UpdateProduct updates product fields by product id
func (pr *ProductRepository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	updated := models.Product{}
	err := pr.db.QueryRow(ctx, updateProductQuery,
		product.ProductID, product.Name, product.AltNames, product.Description,
		product.LabelledPrice, product.Price, product.Images, product.Stock, product.IsAvailable,
	).Scan(
		&updated.ID, &updated.ProductID, &updated.Name, &updated.AltNames, &updated.Description,
		&updated.LabelledPrice, &updated.Price, &updated.Images, &updated.Stock, &updated.IsAvailable,
		&updated.CreatedAt, &updated.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &updated, nil
}

// DeleteProduct removes product by product id
func (pr *ProductRepository) DeleteProduct(ctx context.Context, productID string) error {
	cmd, err := pr.db.Exec(ctx, deleteProductQuery, productID)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

func scanProducts(rows pgx.Rows) ([]models.Product, error) {
	products := []models.Product{}

	for rows.Next() {
		product := models.Product{}
		err := rows.Scan(
			&product.ID, &product.ProductID, &product.Name, &product.AltNames, &product.Description,
			&product.LabelledPrice, &product.Price, &product.Images, &product.Stock, &product.IsAvailable,
			&product.CreatedAt, &product.UpdatedAt,
		)
		if err != nil {
			continue
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}
