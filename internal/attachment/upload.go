package attachment

import (
	"path/filepath"
	"strings"
)

// UploadError is the transport-level status of a received file.
type UploadError int

const (
	UploadErrorNone UploadError = iota
	UploadErrorIniSize
	UploadErrorFormSize
	UploadErrorPartial
	UploadErrorNoFile
	UploadErrorNoTmpDir
	UploadErrorCantWrite
	UploadErrorExtension
)

var uploadErrorNames = map[UploadError]string{
	UploadErrorNone:      "none",
	UploadErrorIniSize:   "exceeds server size limit",
	UploadErrorFormSize:  "exceeds form size limit",
	UploadErrorPartial:   "partially uploaded",
	UploadErrorNoFile:    "no file uploaded",
	UploadErrorNoTmpDir:  "missing temporary directory",
	UploadErrorCantWrite: "failed to write to disk",
	UploadErrorExtension: "stopped by extension",
}

func (e UploadError) String() string {
	if name, ok := uploadErrorNames[e]; ok {
		return name
	}
	return "unknown upload error"
}

// PendingUpload describes a file already received into a temporary location.
// It lives for one save operation and is never persisted.
type PendingUpload struct {
	TemporaryPath string
	OriginalName  string
	ContentType   string
	Size          int64
	Error         UploadError
}

// Empty reports whether the upload carries no file to move.
func (u *PendingUpload) Empty() bool {
	return u == nil || u.TemporaryPath == ""
}

// clears reports whether the upload is an empty submission that asks to
// clear an optional field. A failed transfer never clears.
func (u *PendingUpload) clears() bool {
	return u != nil && u.Empty() && (u.Error == UploadErrorNone || u.Error == UploadErrorNoFile)
}

// Extension returns the lower-cased text after the last dot of the original name.
func (u *PendingUpload) Extension() string {
	if u == nil {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(u.OriginalName), "."))
}

// Uploads maps field names to the uploads submitted with a save.
type Uploads map[string]*PendingUpload
