package attachment

import (
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/welldanyogia/webrana-attachments/internal/errors"
)

// ErrUnknownRecordType is returned by the registry for types never configured.
var ErrUnknownRecordType = errors.New("record type has no attachment configuration")

// ValidationKind classifies a rejected upload.
type ValidationKind string

const (
	KindInvalidExtension ValidationKind = "invalid_extension"
	KindUploadFailed     ValidationKind = "upload_failed"
	KindFileTooLarge     ValidationKind = "file_too_large"
)

const (
	msgInvalidExtension = "Please supply a valid file"
	msgUploadFailed     = "Something went wrong with the upload"
	msgFileTooLarge     = "The file is too large"
)

// ValidationError rejects one field of a save before any file is moved.
type ValidationError struct {
	Field   string         `json:"field"`
	Kind    ValidationKind `json:"kind"`
	Message string         `json:"message"`
	// Upload is set for KindUploadFailed.
	Upload UploadError `json:"-"`
}

func (e ValidationError) Error() string {
	if e.Kind == KindUploadFailed {
		return fmt.Sprintf("%s: %s (%s)", e.Field, e.Message, e.Upload)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e ValidationError) Unwrap() error {
	switch e.Kind {
	case KindInvalidExtension:
		return apperrors.ErrInvalidExtension
	case KindUploadFailed:
		return apperrors.ErrUploadFailed
	case KindFileTooLarge:
		return apperrors.ErrFileTooLarge
	default:
		return nil
	}
}

// ValidationErrors is every violation found by Validate.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return "attachment validation failed: " + strings.Join(msgs, "; ")
}

func (errs ValidationErrors) Unwrap() []error {
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}
	return out
}

// ForField returns the violations recorded for field.
func (errs ValidationErrors) ForField(field string) ValidationErrors {
	var out ValidationErrors
	for _, e := range errs {
		if e.Field == field {
			out = append(out, e)
		}
	}
	return out
}

// StorageError aborts a commit. The record is left unchanged.
type StorageError struct {
	Field string
	Op    string
	Err   error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("attachment %s: %s failed: %v", e.Field, e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error {
	return []error{apperrors.ErrStorage, e.Err}
}

// CleanupError reports a stored file that could not be removed after its
// record was deleted. It never undoes the deletion.
type CleanupError struct {
	Field string
	Path  string
	Err   error
}

func (e *CleanupError) Error() string {
	return fmt.Sprintf("attachment %s: remove %s: %v", e.Field, e.Path, e.Err)
}

func (e *CleanupError) Unwrap() []error {
	return []error{apperrors.ErrCleanup, e.Err}
}
