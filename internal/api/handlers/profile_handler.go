package handlers

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path"

	"github.com/labstack/echo/v4"
	"github.com/welldanyogia/webrana-attachments/internal/api/response"
	"github.com/welldanyogia/webrana-attachments/internal/logger"
	"github.com/welldanyogia/webrana-attachments/internal/models"
	"github.com/welldanyogia/webrana-attachments/internal/repository"
	"github.com/welldanyogia/webrana-attachments/internal/storage"
	"github.com/welldanyogia/webrana-attachments/internal/upload"
	"github.com/welldanyogia/webrana-attachments/internal/validator"
)

// ProfileHandler handles profile-related HTTP requests
type ProfileHandler struct {
	profileRepo repository.ProfileRepository
	receiver    *upload.Receiver
	fileStorage storage.FileStorage
	fields      []string
	events      *logger.EventLogger
}

// NewProfileHandler creates a new ProfileHandler. fields are the attachment
// fields read from multipart requests.
func NewProfileHandler(
	profileRepo repository.ProfileRepository,
	receiver *upload.Receiver,
	fileStorage storage.FileStorage,
	fields []string,
	events *logger.EventLogger,
) *ProfileHandler {
	return &ProfileHandler{
		profileRepo: profileRepo,
		receiver:    receiver,
		fileStorage: fileStorage,
		fields:      fields,
		events:      events,
	}
}

// Create handles POST /api/profiles
func (h *ProfileHandler) Create(c echo.Context) error {
	name, err := validator.ValidateName(c.FormValue("name"))
	if err != nil {
		return response.BadRequest(c, "name is required")
	}
	if err := validator.ValidateEmail(c.FormValue("email")); err != nil {
		return response.BadRequest(c, "invalid email")
	}

	uploads, err := h.receiver.FromRequest(c, h.fields)
	if err != nil {
		return response.BadRequest(c, "invalid multipart form")
	}
	// moved files are gone from the spool; anything left is discarded
	defer discardUploads(c, h.events, uploads)

	profile := &models.Profile{
		Name:  name,
		Email: validator.NormalizeEmail(c.FormValue("email")),
	}
	if err := h.profileRepo.Create(c.Request().Context(), profile, uploads); err != nil {
		return saveError(c, h.events, uploads, "profile", err)
	}

	return response.Created(c, profile)
}

// List handles GET /api/profiles
func (h *ProfileHandler) List(c echo.Context) error {
	limit, offset := parsePagination(c)

	profiles, total, err := h.profileRepo.List(c.Request().Context(), limit, offset)
	if err != nil {
		return response.InternalError(c, "failed to list profiles")
	}

	return response.Paginated(c, profiles, total, limit, offset)
}

// Get handles GET /api/profiles/:id
func (h *ProfileHandler) Get(c echo.Context) error {
	profile, err := h.load(c)
	if err != nil {
		return loadError(c, "profile", err)
	}
	return response.Success(c, profile)
}

// Update handles PUT /api/profiles/:id. Omitted text fields and attachment
// fields are left unchanged; an attachment field sent without a file clears
// it when the field is optional.
func (h *ProfileHandler) Update(c echo.Context) error {
	profile, err := h.load(c)
	if err != nil {
		return loadError(c, "profile", err)
	}

	if raw := c.FormValue("name"); raw != "" {
		name, err := validator.ValidateName(raw)
		if err != nil {
			return response.BadRequest(c, "invalid name")
		}
		profile.Name = name
	}
	if raw := c.FormValue("email"); raw != "" {
		if err := validator.ValidateEmail(raw); err != nil {
			return response.BadRequest(c, "invalid email")
		}
		profile.Email = validator.NormalizeEmail(raw)
	}

	uploads, err := h.receiver.FromRequest(c, h.fields)
	if err != nil {
		return response.BadRequest(c, "invalid multipart form")
	}
	defer discardUploads(c, h.events, uploads)

	if err := h.profileRepo.Update(c.Request().Context(), profile, uploads); err != nil {
		return saveError(c, h.events, uploads, "profile", err)
	}

	return response.Success(c, profile)
}

// Delete handles DELETE /api/profiles/:id
func (h *ProfileHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "invalid profile ID")
	}

	if err := h.profileRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "profile not found")
		}
		return response.InternalError(c, "failed to delete profile")
	}

	return response.NoContent(c)
}

// Download handles GET /api/profiles/:id/files/:field
func (h *ProfileHandler) Download(c echo.Context) error {
	profile, err := h.load(c)
	if err != nil {
		return loadError(c, "profile", err)
	}

	field := c.Param("field")
	if !profile.HasField(field) {
		return response.NotFound(c, "unknown attachment field")
	}
	stored := profile.Field(field)
	if stored == "" {
		return response.NotFound(c, "no file stored for "+field)
	}

	file, err := h.fileStorage.Get(stored)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrFileNotFound):
			return response.NotFound(c, "file not found")
		case errors.Is(err, storage.ErrPathTraversal):
			if h.events != nil {
				h.events.PathTraversalAttempt(c.RealIP(), c.Request().URL.Path, stored)
			}
			return response.BadRequest(c, "invalid file path")
		}
		return response.InternalError(c, "failed to retrieve file")
	}
	defer file.Close()

	contentType := mime.TypeByExtension(path.Ext(stored))
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, path.Base(stored)))
	return c.Stream(http.StatusOK, contentType, file)
}

// load fetches the profile named by :id
func (h *ProfileHandler) load(c echo.Context) (*models.Profile, error) {
	id, err := parseID(c)
	if err != nil {
		return nil, err
	}
	return h.profileRepo.GetByID(c.Request().Context(), id)
}
