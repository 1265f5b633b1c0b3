package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAppError_CreatesErrorWithCorrectFields(t *testing.T) {
	baseErr := errors.New("base error")
	appErr := NewAppError(baseErr, "custom message", CodeNotFound)

	assert.Equal(t, baseErr, appErr.Err)
	assert.Equal(t, "custom message", appErr.Message)
	assert.Equal(t, CodeNotFound, appErr.Code)
}

func TestAppError_Error_ReturnsMessage(t *testing.T) {
	appErr := NewAppError(errors.New("base error"), "custom message", CodeNotFound)

	assert.Equal(t, "custom message", appErr.Error())
}

func TestAppError_Error_ReturnsBaseErrorWhenNoMessage(t *testing.T) {
	appErr := NewAppError(errors.New("base error"), "", CodeNotFound)

	assert.Equal(t, "base error", appErr.Error())
}

func TestAppError_Unwrap_ReturnsWrappedError(t *testing.T) {
	appErr := NewAppError(ErrStorage, "move failed", "")

	assert.ErrorIs(t, appErr, ErrStorage)
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not found", ErrNotFound, CodeNotFound},
		{"invalid input", ErrInvalidInput, CodeInvalidInput},
		{"invalid extension", ErrInvalidExtension, CodeInvalidExtension},
		{"upload failed", ErrUploadFailed, CodeUploadFailed},
		{"too large", ErrFileTooLarge, CodeFileTooLarge},
		{"storage", fmt.Errorf("move: %w", ErrStorage), CodeStorageError},
		{"destination exists wins over storage", fmt.Errorf("%w: %w", ErrStorage, ErrDestinationExists), CodeDestinationExists},
		{"traversal", ErrPathTraversal, CodePathTraversal},
		{"cleanup", ErrCleanup, CodeCleanupError},
		{"explicit app code", NewAppError(ErrStorage, "x", CodeValidationFailed), CodeValidationFailed},
		{"unknown", errors.New("boom"), CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetErrorCode(tt.err))
		})
	}
}
