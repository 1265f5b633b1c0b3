package repository

import (
	"context"

	"github.com/welldanyogia/webrana-attachments/internal/attachment"
	"github.com/welldanyogia/webrana-attachments/internal/models"
	"gorm.io/gorm"
)

// ProfileRepository defines the interface for profile data access
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile, uploads attachment.Uploads) error
	GetByID(ctx context.Context, id uint) (*models.Profile, error)
	List(ctx context.Context, limit, offset int) ([]models.Profile, int64, error)
	Update(ctx context.Context, profile *models.Profile, uploads attachment.Uploads) error
	Delete(ctx context.Context, id uint) error
}

// profileRepository implements ProfileRepository using GORM
type profileRepository struct {
	store recordStore[models.Profile, *models.Profile]
}

// NewProfileRepository creates a new ProfileRepository instance
func NewProfileRepository(db *gorm.DB, manager *attachment.Manager) ProfileRepository {
	return &profileRepository{
		store: newRecordStore[models.Profile, *models.Profile](db, manager, "profile"),
	}
}

// Create inserts a profile and stores its uploads
func (r *profileRepository) Create(ctx context.Context, profile *models.Profile, uploads attachment.Uploads) error {
	return r.store.create(ctx, profile, uploads)
}

// GetByID retrieves a profile by its ID
func (r *profileRepository) GetByID(ctx context.Context, id uint) (*models.Profile, error) {
	return r.store.getByID(ctx, id)
}

// List retrieves a page of profiles and the total count
func (r *profileRepository) List(ctx context.Context, limit, offset int) ([]models.Profile, int64, error) {
	return r.store.list(ctx, limit, offset)
}

// Update saves profile changes and any replaced or cleared attachments
func (r *profileRepository) Update(ctx context.Context, profile *models.Profile, uploads attachment.Uploads) error {
	return r.store.update(ctx, profile, uploads)
}

// Delete deletes a profile and removes its stored files
func (r *profileRepository) Delete(ctx context.Context, id uint) error {
	return r.store.delete(ctx, id)
}
