package handlers

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/welldanyogia/webrana-attachments/internal/api/response"
	"github.com/welldanyogia/webrana-attachments/internal/attachment"
	apperrors "github.com/welldanyogia/webrana-attachments/internal/errors"
	"github.com/welldanyogia/webrana-attachments/internal/logger"
	"github.com/welldanyogia/webrana-attachments/internal/repository"
	"github.com/welldanyogia/webrana-attachments/internal/upload"
	"github.com/welldanyogia/webrana-attachments/internal/validator"
)

// parseID reads the :id path parameter
func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.ErrInvalidInput
	}
	return uint(id), nil
}

// parsePagination reads limit and offset query parameters
func parsePagination(c echo.Context) (int, int) {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	return validator.ValidatePagination(limit, offset)
}

// loadError writes the response for a failed lookup by :id
func loadError(c echo.Context, name string, err error) error {
	switch {
	case apperrors.IsInvalidInput(err):
		return response.BadRequest(c, "invalid "+name+" ID")
	case apperrors.IsNotFound(err):
		return response.NotFound(c, name+" not found")
	}
	return response.InternalError(c, "failed to get "+name)
}

var kindCodes = map[attachment.ValidationKind]string{
	attachment.KindInvalidExtension: apperrors.CodeInvalidExtension,
	attachment.KindUploadFailed:     apperrors.CodeUploadFailed,
	attachment.KindFileTooLarge:     apperrors.CodeFileTooLarge,
}

// saveError writes the response for a failed create or update. Rejected
// uploads are also recorded as security events.
func saveError(c echo.Context, events *logger.EventLogger, uploads attachment.Uploads, name string, err error) error {
	var verrs attachment.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]response.FieldError, 0, len(verrs))
		for _, v := range verrs {
			fields = append(fields, response.FieldError{
				Field:   v.Field,
				Code:    kindCodes[v.Kind],
				Message: v.Message,
			})
			if events != nil && v.Kind != attachment.KindUploadFailed {
				filename := ""
				if up := uploads[v.Field]; up != nil {
					filename = up.OriginalName
				}
				events.BlockedFileUpload(c.RealIP(), v.Field, filename, string(v.Kind))
			}
		}
		return response.ValidationFailed(c, "attachment validation failed", fields)
	}

	switch {
	case errors.Is(err, repository.ErrDuplicateEntry):
		return response.Conflict(c, name+" already exists")
	case errors.Is(err, repository.ErrNotFound):
		return response.NotFound(c, name+" not found")
	case errors.Is(err, repository.ErrInvalidInput):
		return response.BadRequest(c, "invalid "+name)
	}

	var storageErr *attachment.StorageError
	if errors.As(err, &storageErr) {
		return response.Error(c, apperrors.NewAppError(err, "failed to store "+storageErr.Field, apperrors.GetErrorCode(err)))
	}
	return response.InternalError(c, "failed to save "+name)
}

// discardUploads removes spooled files left after a request
func discardUploads(c echo.Context, events *logger.EventLogger, uploads attachment.Uploads) {
	if err := upload.Discard(uploads); err != nil && events != nil {
		events.UploadDiscardFailed(c.RealIP(), err)
	}
}
