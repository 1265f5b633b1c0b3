package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/welldanyogia/webrana-attachments/internal/attachment"
	"github.com/welldanyogia/webrana-attachments/internal/models"
)

// MockProfileRepository implements repository.ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

// Create creates a new profile
func (m *MockProfileRepository) Create(ctx context.Context, profile *models.Profile, uploads attachment.Uploads) error {
	args := m.Called(ctx, profile, uploads)
	return args.Error(0)
}

// GetByID retrieves a profile by its ID
func (m *MockProfileRepository) GetByID(ctx context.Context, id uint) (*models.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

// List retrieves a page of profiles
func (m *MockProfileRepository) List(ctx context.Context, limit, offset int) ([]models.Profile, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Profile), args.Get(1).(int64), args.Error(2)
}

// Update updates an existing profile
func (m *MockProfileRepository) Update(ctx context.Context, profile *models.Profile, uploads attachment.Uploads) error {
	args := m.Called(ctx, profile, uploads)
	return args.Error(0)
}

// Delete deletes a profile by its ID
func (m *MockProfileRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProductRepository implements repository.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

// Create creates a new product
func (m *MockProductRepository) Create(ctx context.Context, product *models.Product, uploads attachment.Uploads) error {
	args := m.Called(ctx, product, uploads)
	return args.Error(0)
}

// GetByID retrieves a product by its ID
func (m *MockProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

// List retrieves a page of products
func (m *MockProductRepository) List(ctx context.Context, limit, offset int) ([]models.Product, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Product), args.Get(1).(int64), args.Error(2)
}

// Delete deletes a product by its ID
func (m *MockProductRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
