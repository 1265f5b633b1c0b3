package attachment

import (
	"fmt"
	"path"
	"slices"
	"strings"
)

// Built-in defaults applied when a record type registers no fields, and to
// any field that leaves extensions or upload directory unset.
const (
	DefaultField     = "image"
	DefaultUploadDir = "files/"
)

// DefaultExtensions is the allow-list used when a field names none.
var DefaultExtensions = []string{"gif", "jpeg", "jpg", "png"}

// FieldConfig configures one attachment field of a record type.
type FieldConfig struct {
	Field             string   `yaml:"-"`
	AllowedExtensions []string `yaml:"allowed_extensions"`
	Required          bool     `yaml:"required"`
	UploadDir         string   `yaml:"upload_dir"`
	// MaxSize in bytes; zero falls back to the manager's limit.
	MaxSize int64 `yaml:"max_size"`
}

// DefaultFieldConfig returns the configuration of the built-in image field.
func DefaultFieldConfig() FieldConfig {
	return FieldConfig{
		Field:             DefaultField,
		AllowedExtensions: slices.Clone(DefaultExtensions),
		Required:          true,
		UploadDir:         DefaultUploadDir,
	}
}

// Allows reports whether ext (without dot, any case) is in the allow-list.
func (c FieldConfig) Allows(ext string) bool {
	if ext == "" {
		return false
	}
	return slices.Contains(c.AllowedExtensions, strings.ToLower(ext))
}

// mergeDefaults returns the effective field list for a record type.
func mergeDefaults(fields []FieldConfig) ([]FieldConfig, error) {
	if len(fields) == 0 {
		return []FieldConfig{DefaultFieldConfig()}, nil
	}

	merged := make([]FieldConfig, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		f.Field = strings.TrimSpace(f.Field)
		if f.Field == "" {
			return nil, fmt.Errorf("attachment field name is required")
		}
		if seen[f.Field] {
			return nil, fmt.Errorf("attachment field %q configured twice", f.Field)
		}
		seen[f.Field] = true

		exts := f.AllowedExtensions
		if len(exts) == 0 {
			exts = DefaultExtensions
		}
		f.AllowedExtensions = normalizeExtensions(exts)

		dir, err := normalizeUploadDir(f.UploadDir)
		if err != nil {
			return nil, fmt.Errorf("attachment field %q: %w", f.Field, err)
		}
		f.UploadDir = dir

		if f.MaxSize < 0 {
			return nil, fmt.Errorf("attachment field %q: max size must not be negative", f.Field)
		}
		merged = append(merged, f)
	}
	return merged, nil
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" && !slices.Contains(out, ext) {
			out = append(out, ext)
		}
	}
	return out
}

// normalizeUploadDir turns dir into a clean, relative, slash-terminated path.
func normalizeUploadDir(dir string) (string, error) {
	dir = strings.TrimSpace(strings.ReplaceAll(dir, "\\", "/"))
	if dir == "" {
		return DefaultUploadDir, nil
	}
	if strings.HasPrefix(dir, "/") {
		return "", fmt.Errorf("upload dir %q must be relative to the web root", dir)
	}
	clean := path.Clean(dir)
	if clean == "." {
		return "", nil
	}
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("upload dir %q escapes the web root", dir)
	}
	return clean + "/", nil
}
