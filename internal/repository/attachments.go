package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/welldanyogia/webrana-attachments/internal/attachment"
	"gorm.io/gorm"
)

// recordPtr is a pointer to a gorm model that carries attachment fields
type recordPtr[T any] interface {
	*T
	attachment.Record
}

// recordStore persists one model type and drives its attachment stages around
// every insert, update and delete.
type recordStore[T any, PT recordPtr[T]] struct {
	db      *gorm.DB
	manager *attachment.Manager
	name    string
}

func newRecordStore[T any, PT recordPtr[T]](db *gorm.DB, manager *attachment.Manager, name string) recordStore[T, PT] {
	return recordStore[T, PT]{db: db, manager: manager, name: name}
}

// save validates uploads, then in one transaction writes the row (so it has
// an id to name files after), moves the files and stores their paths. Files
// the record no longer references are removed once the transaction commits.
func (s *recordStore[T, PT]) save(ctx context.Context, rec PT, uploads attachment.Uploads, persist func(tx *gorm.DB) error) error {
	if errs := s.manager.Validate(rec, uploads); len(errs) > 0 {
		return errs
	}

	var result *attachment.CommitResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := persist(tx); err != nil {
			if isDuplicateKeyError(err) {
				return fmt.Errorf("%s already exists: %w", s.name, ErrDuplicateEntry)
			}
			return fmt.Errorf("failed to save %s: %w", s.name, err)
		}

		var err error
		result, err = s.manager.Commit(rec, uploads)
		if err != nil {
			return err
		}

		if err := tx.Model(rec).Select(s.manager.FieldNames()).Updates(rec).Error; err != nil {
			return fmt.Errorf("failed to store %s attachments: %w", s.name, err)
		}
		return nil
	})
	if err != nil {
		if result != nil {
			// row was rolled back; its new files must not outlive it
			_ = s.manager.Discard(result)
		}
		return err
	}

	// failures are reported by the manager and never fail the save
	_ = s.manager.FinalizeDeletion(s.manager.Superseded(result))
	return nil
}

func (s *recordStore[T, PT]) create(ctx context.Context, rec PT, uploads attachment.Uploads) error {
	return s.save(ctx, rec, uploads, func(tx *gorm.DB) error {
		return tx.Create(rec).Error
	})
}

func (s *recordStore[T, PT]) update(ctx context.Context, rec PT, uploads attachment.Uploads) error {
	if rec.RecordID() == "" {
		return fmt.Errorf("%s has no id: %w", s.name, ErrInvalidInput)
	}
	return s.save(ctx, rec, uploads, func(tx *gorm.DB) error {
		return tx.Save(rec).Error
	})
}

func (s *recordStore[T, PT]) getByID(ctx context.Context, id uint) (PT, error) {
	var rec T
	result := s.db.WithContext(ctx).First(&rec, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s by ID: %w", s.name, result.Error)
	}
	return PT(&rec), nil
}

func (s *recordStore[T, PT]) list(ctx context.Context, limit, offset int) ([]T, int64, error) {
	var records []T
	var total int64

	query := s.db.WithContext(ctx).Model(new(T))
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count %s records: %w", s.name, err)
	}

	result := s.db.WithContext(ctx).Order("id ASC").Limit(limit).Offset(offset).Find(&records)
	if result.Error != nil {
		return nil, 0, fmt.Errorf("failed to list %s records: %w", s.name, result.Error)
	}
	return records, total, nil
}

// delete captures the record's files while the row still exists, removes
// the row, then removes the files. Cleanup failures are reported by the
// manager and do not fail the delete.
func (s *recordStore[T, PT]) delete(ctx context.Context, id uint) error {
	rec, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}

	captured := s.manager.CaptureForDeletion(rec)

	result := s.db.WithContext(ctx).Delete(rec)
	if result.Error != nil {
		return fmt.Errorf("failed to delete %s: %w", s.name, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	_ = s.manager.FinalizeDeletion(captured)
	return nil
}
