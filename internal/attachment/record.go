package attachment

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// Record is the entity owning attachment fields. The manager reads and writes
// the named string fields and never persists the record itself.
type Record interface {
	RecordType() string
	RecordID() string
	HasField(field string) bool
	Field(field string) string
	SetField(field, value string)
}

// FilenameGenerator is implemented by records that choose their own stored
// file names. The result must be deterministic for the record's current values
// and must be a bare file name.
type FilenameGenerator interface {
	GenerateFilename(field string, upload *PendingUpload) (string, error)
}

// FilenameFunc generates a stored file name for records without their own generator.
type FilenameFunc func(rec Record, field string, upload *PendingUpload) (string, error)

// ErrNoRecordID is returned when a file name must be derived from a record that has no identifier yet.
var ErrNoRecordID = errors.New("record has no identifier")

// HashFilename names a file after a digest of the record type, id and field,
// keeping the upload's original extension.
func HashFilename(rec Record, field string, upload *PendingUpload) (string, error) {
	id := rec.RecordID()
	if id == "" {
		return "", ErrNoRecordID
	}
	sum := sha256.Sum256([]byte(rec.RecordType() + ":" + id + ":" + field))
	name := hex.EncodeToString(sum[:10])
	if ext := upload.Extension(); ext != "" {
		name += "." + ext
	}
	return name, nil
}
