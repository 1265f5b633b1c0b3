package repository

import (
	"context"

	"github.com/welldanyogia/webrana-attachments/internal/attachment"
	"github.com/welldanyogia/webrana-attachments/internal/models"
	"gorm.io/gorm"
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product, uploads attachment.Uploads) error
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	List(ctx context.Context, limit, offset int) ([]models.Product, int64, error)
	Delete(ctx context.Context, id uint) error
}

type productRepository struct {
	store recordStore[models.Product, *models.Product]
}

// NewProductRepository creates a new ProductRepository instance
func NewProductRepository(db *gorm.DB, manager *attachment.Manager) ProductRepository {
	return &productRepository{
		store: newRecordStore[models.Product, *models.Product](db, manager, "product"),
	}
}

// Create inserts a product and stores its image
func (r *productRepository) Create(ctx context.Context, product *models.Product, uploads attachment.Uploads) error {
	return r.store.create(ctx, product, uploads)
}

// GetByID retrieves a product by ID
func (r *productRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	return r.store.getByID(ctx, id)
}

// List returns a page of products ordered by ID, with the total count
func (r *productRepository) List(ctx context.Context, limit, offset int) ([]models.Product, int64, error) {
	return r.store.list(ctx, limit, offset)
}

// Delete removes a product and its stored image
func (r *productRepository) Delete(ctx context.Context, id uint) error {
	return r.store.delete(ctx, id)
}
