package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/welldanyogia/webrana-attachments/internal/attachment"
)

// ProfileRecordType names profiles in the attachment registry
const ProfileRecordType = "profile"

// Profile attachment field names
const (
	ProfileFieldAvatar = "avatar"
	ProfileFieldResume = "resume"
)

// Profile is a user profile with an avatar image and an optional resume
type Profile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Avatar    string    `gorm:"size:500" json:"avatar"`
	Resume    string    `gorm:"size:500" json:"resume,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for Profile
func (Profile) TableName() string {
	return "profiles"
}

// ProfileAttachmentFields returns the compiled-in attachment configuration for profiles
func ProfileAttachmentFields() []attachment.FieldConfig {
	return []attachment.FieldConfig{
		{
			Field:             ProfileFieldAvatar,
			AllowedExtensions: []string{"gif", "jpeg", "jpg", "png"},
			Required:          true,
			UploadDir:         "avatars/",
		},
		{
			Field:             ProfileFieldResume,
			AllowedExtensions: []string{"pdf"},
			Required:          false,
			UploadDir:         "resumes/",
			MaxSize:           10 * 1024 * 1024,
		},
	}
}

// RecordType returns ProfileRecordType
func (p *Profile) RecordType() string { return ProfileRecordType }

// RecordID returns the primary key as a string, empty before the first insert
func (p *Profile) RecordID() string {
	if p.ID == 0 {
		return ""
	}
	return strconv.FormatUint(uint64(p.ID), 10)
}

// HasField reports whether field is one of the profile attachment columns
func (p *Profile) HasField(field string) bool {
	return field == ProfileFieldAvatar || field == ProfileFieldResume
}

// Field returns the stored relative path of an attachment field
func (p *Profile) Field(field string) string {
	switch field {
	case ProfileFieldAvatar:
		return p.Avatar
	case ProfileFieldResume:
		return p.Resume
	}
	return ""
}

// SetField sets the relative path of an attachment field; unknown fields are ignored
func (p *Profile) SetField(field, value string) {
	switch field {
	case ProfileFieldAvatar:
		p.Avatar = value
	case ProfileFieldResume:
		p.Resume = value
	}
}

// GenerateFilename names profile files "<id>-<digest>.<ext>", the digest
// covering the id and field so each field gets its own stable name.
func (p *Profile) GenerateFilename(field string, upload *attachment.PendingUpload) (string, error) {
	id := p.RecordID()
	if id == "" {
		return "", attachment.ErrNoRecordID
	}
	sum := sha256.Sum256([]byte(ProfileRecordType + ":" + id + ":" + field))
	name := fmt.Sprintf("%s-%s", id, hex.EncodeToString(sum[:6]))
	if ext := upload.Extension(); ext != "" {
		name += "." + ext
	}
	return name, nil
}
