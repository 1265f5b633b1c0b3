package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr error
	}{
		// Valid emails
		{"valid simple email", "test@example.com", nil},
		{"valid with subdomain", "user@mail.example.com", nil},
		{"valid with plus", "user+tag@example.com", nil},
		{"valid uppercase normalized", "TEST@EXAMPLE.COM", nil},
		{"valid with whitespace trimmed", "  test@example.com  ", nil},

		// Invalid emails
		{"empty string", "", ErrEmptyInput},
		{"whitespace only", "   ", ErrEmptyInput},
		{"missing @", "testexample.com", ErrInvalidEmail},
		{"missing domain", "test@", ErrInvalidEmail},
		{"double @", "test@@example.com", ErrInvalidEmail},
		{"display name form", "Ada <ada@example.com>", ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail_TooLong(t *testing.T) {
	longEmail := strings.Repeat("a", 250) + "@example.com"
	assert.ErrorIs(t, ValidateEmail(longEmail), ErrInputTooLong)
}

func TestValidateSKU(t *testing.T) {
	tests := []struct {
		sku     string
		wantErr error
	}{
		{"LAMP-001", nil},
		{"lamp-001", nil},
		{"A1", nil},
		{"", ErrEmptyInput},
		{"-LAMP", ErrInvalidSKU},
		{"LAMP--1", ErrInvalidSKU},
		{"LAMP 1", ErrInvalidSKU},
		{"../LAMP", ErrInvalidSKU},
		{strings.Repeat("A", 65), ErrInputTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.sku, func(t *testing.T) {
			err := ValidateSKU(tt.sku)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	name, err := ValidateName("  Ada\tLovelace ")
	require.NoError(t, err)
	assert.Equal(t, "AdaLovelace", name)

	_, err = ValidateName(" \n ")
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = ValidateName("a\x00b")
	assert.ErrorIs(t, err, ErrInvalidCharacter)

	_, err = ValidateName(strings.Repeat("x", MaxNameLength+1))
	assert.ErrorIs(t, err, ErrInputTooLong)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"normal filename", "avatar.png", "avatar.png"},
		{"with spaces", "my resume.pdf", "my resume.pdf"},
		{"path traversal dots", "../../../etc/passwd", "______etc_passwd"},
		{"forward slash", "path/to/file.png", "path_to_file.png"},
		{"backslash", "C:\\Users\\me.png", "C:_Users_me.png"},
		{"control chars", "file\x00name.png", "filename.png"},
		{"newline", "file\nname.png", "filename.png"},
		{"empty string", "", "unnamed"},
		{"whitespace only", "   ", "unnamed"},
		{"double dots", "file..png", "file_png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestSanitizeFilename_LongFilenameKeepsExtension(t *testing.T) {
	result := SanitizeFilename(strings.Repeat("a", 300) + ".png")
	assert.Len(t, result, 255)
	assert.True(t, strings.HasSuffix(result, ".png"))
}

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		maxLength int
		expected  string
	}{
		{"normal string", "hello world", 0, "hello world"},
		{"with control chars", "hello\x00world", 0, "helloworld"},
		{"trim whitespace", "  hello  ", 0, "hello"},
		{"enforce max length", "hello world", 5, "hello"},
		{"empty string", "", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeString(tt.input, tt.maxLength))
		})
	}
}

func TestValidatePagination(t *testing.T) {
	tests := []struct {
		name           string
		inputLimit     int
		inputOffset    int
		expectedLimit  int
		expectedOffset int
	}{
		{"valid values", 10, 20, 10, 20},
		{"zero limit uses default", 0, 0, DefaultLimit, 0},
		{"limit exceeds max", 200, 0, MaxLimit, 0},
		{"negative offset becomes zero", 10, -5, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset := ValidatePagination(tt.inputLimit, tt.inputOffset)
			assert.Equal(t, tt.expectedLimit, limit)
			assert.Equal(t, tt.expectedOffset, offset)
		})
	}
}
