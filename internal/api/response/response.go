// Package response writes the JSON envelopes returned by every API route.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
	apperrors "github.com/welldanyogia/webrana-attachments/internal/errors"
)

// APIResponse wraps a successful payload
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse describes a failed request. Fields is set only when
// individual form fields were rejected.
type ErrorResponse struct {
	Success bool         `json:"success"`
	Error   string       `json:"error"`
	Code    string       `json:"code,omitempty"`
	Fields  []FieldError `json:"fields,omitempty"`
}

// FieldError is one rejected field of a validation failure
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PaginatedResponse wraps one page of a listing
type PaginatedResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Meta    Meta        `json:"meta"`
}

// Meta contains pagination metadata
type Meta struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

var statusByCode = map[string]int{
	apperrors.CodeNotFound:          http.StatusNotFound,
	apperrors.CodeInvalidInput:      http.StatusBadRequest,
	apperrors.CodeDuplicateEntry:    http.StatusConflict,
	apperrors.CodeDestinationExists: http.StatusConflict,
	apperrors.CodeInvalidExtension:  http.StatusUnprocessableEntity,
	apperrors.CodeUploadFailed:      http.StatusUnprocessableEntity,
	apperrors.CodeFileTooLarge:      http.StatusUnprocessableEntity,
	apperrors.CodeValidationFailed:  http.StatusUnprocessableEntity,
}

// Success returns 200 with data
func Success(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// Created returns 201 with the stored record
func Created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// NoContent returns 204
func NoContent(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// Paginated returns one page of data with its totals
func Paginated(c echo.Context, data interface{}, total int64, limit, offset int) error {
	return c.JSON(http.StatusOK, PaginatedResponse{
		Success: true,
		Data:    data,
		Meta:    Meta{Total: total, Limit: limit, Offset: offset},
	})
}

// Error derives the status and code from err
func Error(c echo.Context, err error) error {
	code := apperrors.GetErrorCode(err)
	return fail(c, getHTTPStatus(code), code, err.Error())
}

// BadRequest returns 400
func BadRequest(c echo.Context, message string) error {
	return fail(c, http.StatusBadRequest, apperrors.CodeInvalidInput, message)
}

// NotFound returns 404
func NotFound(c echo.Context, message string) error {
	return fail(c, http.StatusNotFound, apperrors.CodeNotFound, message)
}

// Conflict returns 409
func Conflict(c echo.Context, message string) error {
	return fail(c, http.StatusConflict, apperrors.CodeDuplicateEntry, message)
}

// InternalError returns 500
func InternalError(c echo.Context, message string) error {
	return fail(c, http.StatusInternalServerError, apperrors.CodeInternalError, message)
}

// ValidationFailed returns 422 listing every rejected field
func ValidationFailed(c echo.Context, message string, fields []FieldError) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:  message,
		Code:   apperrors.CodeValidationFailed,
		Fields: fields,
	})
}

func fail(c echo.Context, status int, code, message string) error {
	return c.JSON(status, ErrorResponse{Error: message, Code: code})
}

// getHTTPStatus maps error codes to HTTP status codes; unknown codes are 500
func getHTTPStatus(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
