// Package upload spools multipart file parts into a temporary directory and
// describes each one as an attachment.PendingUpload.
package upload

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/welldanyogia/webrana-attachments/internal/attachment"
	"github.com/welldanyogia/webrana-attachments/internal/validator"
)

// MaxFileSizeField is the optional form value that caps each file's size
// below the server limit.
const MaxFileSizeField = "MAX_FILE_SIZE"

// Receiver writes uploaded parts to tempDir under random names.
type Receiver struct {
	tempDir string
	maxSize int64
}

// NewReceiver creates tempDir if needed. maxSize <= 0 disables the server
// size limit.
func NewReceiver(tempDir string, maxSize int64) (*Receiver, error) {
	if tempDir == "" {
		tempDir = filepath.Join(os.TempDir(), "attachments")
	}
	abs, err := filepath.Abs(tempDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0750); err != nil {
		return nil, err
	}
	return &Receiver{tempDir: abs, maxSize: maxSize}, nil
}

// TempDir returns the absolute spool directory.
func (r *Receiver) TempDir() string {
	return r.tempDir
}

// Receive spools one part. It never returns nil; failures are described by
// the upload's Error and leave no file behind.
func (r *Receiver) Receive(fh *multipart.FileHeader) *attachment.PendingUpload {
	return r.receive(fh, 0)
}

func (r *Receiver) receive(fh *multipart.FileHeader, formLimit int64) *attachment.PendingUpload {
	if fh == nil || fh.Filename == "" {
		return &attachment.PendingUpload{Error: attachment.UploadErrorNoFile}
	}

	up := &attachment.PendingUpload{
		OriginalName: validator.SanitizeFilename(fh.Filename),
		ContentType:  fh.Header.Get("Content-Type"),
		Size:         fh.Size,
	}
	if r.maxSize > 0 && fh.Size > r.maxSize {
		up.Error = attachment.UploadErrorIniSize
		return up
	}
	if formLimit > 0 && fh.Size > formLimit {
		up.Error = attachment.UploadErrorFormSize
		return up
	}
	if info, err := os.Stat(r.tempDir); err != nil || !info.IsDir() {
		up.Error = attachment.UploadErrorNoTmpDir
		return up
	}

	src, err := fh.Open()
	if err != nil {
		up.Error = attachment.UploadErrorPartial
		return up
	}
	defer src.Close()

	path := filepath.Join(r.tempDir, uuid.NewString())
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		up.Error = attachment.UploadErrorCantWrite
		return up
	}

	n, copyErr := io.Copy(dst, src)
	closeErr := dst.Close()
	switch {
	case copyErr != nil:
		up.Error = attachment.UploadErrorCantWrite
	case closeErr != nil:
		up.Error = attachment.UploadErrorCantWrite
	case n != fh.Size:
		up.Error = attachment.UploadErrorPartial
	}
	if up.Error != attachment.UploadErrorNone {
		os.Remove(path)
		return up
	}

	up.TemporaryPath = path
	return up
}

// FromRequest receives the named file fields of a multipart request. A field
// absent from the form is left out of the result; a field submitted without
// a file becomes an empty upload. Requests that are not multipart carry no
// uploads.
func (r *Receiver) FromRequest(c echo.Context, fields []string) (attachment.Uploads, error) {
	uploads := make(attachment.Uploads)

	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return uploads, nil
		}
		return nil, err
	}

	var formLimit int64
	if v := form.Value[MaxFileSizeField]; len(v) > 0 {
		if n, err := strconv.ParseInt(v[0], 10, 64); err == nil && n > 0 {
			formLimit = n
		}
	}

	for _, field := range fields {
		if files := form.File[field]; len(files) > 0 {
			uploads[field] = r.receive(files[0], formLimit)
			continue
		}
		if _, ok := form.Value[field]; ok {
			uploads[field] = &attachment.PendingUpload{Error: attachment.UploadErrorNoFile}
		}
	}
	return uploads, nil
}

// Discard removes spooled files that were never moved into the web root.
func Discard(uploads attachment.Uploads) error {
	var errs []error
	for _, up := range uploads {
		if up.Empty() {
			continue
		}
		if err := os.Remove(up.TemporaryPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
