package errors

import (
	"errors"
)

// Domain-specific error types
var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrDuplicateEntry indicates a unique constraint violation
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrInvalidInput indicates invalid input data
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidExtension indicates an uploaded file extension is not in the allow-list
	ErrInvalidExtension = errors.New("invalid file extension")

	// ErrUploadFailed indicates the upload transport reported an error for a file
	ErrUploadFailed = errors.New("upload failed")

	// ErrFileTooLarge indicates an uploaded file exceeds the configured size limit
	ErrFileTooLarge = errors.New("file exceeds size limit")

	// ErrStorage indicates a file could not be moved into the web root
	ErrStorage = errors.New("storage error")

	// ErrCleanup indicates a stored file could not be removed after its record was deleted
	ErrCleanup = errors.New("cleanup error")

	// ErrDestinationExists indicates a destination file exists and the collision policy forbids overwriting
	ErrDestinationExists = errors.New("destination already exists")

	// ErrPathTraversal indicates a path escaped the storage root
	ErrPathTraversal = errors.New("path traversal detected")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal server error")
)

// Error codes for API responses
const (
	CodeNotFound          = "NOT_FOUND"
	CodeDuplicateEntry    = "DUPLICATE_ENTRY"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeInvalidExtension  = "INVALID_EXTENSION"
	CodeUploadFailed      = "UPLOAD_FAILED"
	CodeFileTooLarge      = "FILE_TOO_LARGE"
	CodeValidationFailed  = "VALIDATION_FAILED"
	CodeStorageError      = "STORAGE_ERROR"
	CodeCleanupError      = "CLEANUP_ERROR"
	CodeDestinationExists = "DESTINATION_EXISTS"
	CodePathTraversal     = "PATH_TRAVERSAL"
	CodeInternalError     = "INTERNAL_ERROR"
)

// AppError represents an application error with context
type AppError struct {
	Err     error
	Message string
	Code    string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(err error, message string, code string) *AppError {
	return &AppError{
		Err:     err,
		Message: message,
		Code:    code,
	}
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidInput checks if the error is an invalid input error
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// codeOrder lists sentinels from most to least specific. A StorageError
// wraps both ErrStorage and its cause, so the cause is checked first.
var codeOrder = []struct {
	err  error
	code string
}{
	{ErrNotFound, CodeNotFound},
	{ErrDuplicateEntry, CodeDuplicateEntry},
	{ErrInvalidInput, CodeInvalidInput},
	{ErrInvalidExtension, CodeInvalidExtension},
	{ErrUploadFailed, CodeUploadFailed},
	{ErrFileTooLarge, CodeFileTooLarge},
	{ErrDestinationExists, CodeDestinationExists},
	{ErrPathTraversal, CodePathTraversal},
	{ErrStorage, CodeStorageError},
	{ErrCleanup, CodeCleanupError},
}

// GetErrorCode returns the API error code for err. An AppError with a code
// wins over the sentinels it wraps.
func GetErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != "" {
		return appErr.Code
	}

	for _, c := range codeOrder {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeInternalError
}
