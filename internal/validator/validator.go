// Package validator checks and sanitizes the text fields submitted alongside
// attachment uploads.
package validator

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validation errors
var (
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrInvalidSKU       = errors.New("invalid SKU format")
	ErrInputTooLong     = errors.New("input exceeds maximum length")
	ErrInvalidCharacter = errors.New("input contains invalid characters")
	ErrEmptyInput       = errors.New("input cannot be empty")
)

// MaxNameLength bounds profile names and product titles
const MaxNameLength = 255

// SKU: upper-case alphanumeric groups joined by single hyphens, max 64 chars
var skuRegex = regexp.MustCompile(`^[A-Z0-9]+(-[A-Z0-9]+)*$`)

// NormalizeEmail lower-cases and trims an address.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// ValidateEmail validates email address format according to RFC 5322.
// Returns nil if valid, or an appropriate error.
func ValidateEmail(email string) error {
	email = NormalizeEmail(email)

	if email == "" {
		return ErrEmptyInput
	}

	// RFC 5321 specifies max email length of 254 characters
	if utf8.RuneCountInString(email) > 254 {
		return ErrInputTooLong
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}

	return nil
}

// NormalizeSKU upper-cases and trims a SKU.
func NormalizeSKU(sku string) string {
	return strings.TrimSpace(strings.ToUpper(sku))
}

// ValidateSKU validates a product SKU such as "LAMP-001".
func ValidateSKU(sku string) error {
	sku = NormalizeSKU(sku)

	if sku == "" {
		return ErrEmptyInput
	}
	if len(sku) > 64 {
		return ErrInputTooLong
	}
	if !skuRegex.MatchString(sku) {
		return ErrInvalidSKU
	}
	return nil
}

// ValidateName sanitizes a display name and rejects empty or overlong input.
func ValidateName(name string) (string, error) {
	if strings.ContainsRune(name, '\x00') {
		return "", ErrInvalidCharacter
	}
	if utf8.RuneCountInString(strings.TrimSpace(name)) > MaxNameLength {
		return "", ErrInputTooLong
	}
	name = SanitizeString(name, MaxNameLength)
	if name == "" {
		return "", ErrEmptyInput
	}
	return name, nil
}

// Pagination constants
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ValidatePagination validates and sanitizes pagination parameters.
// Returns sanitized limit and offset values.
func ValidatePagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}

// SanitizeFilename strips path components and control characters from a
// client-supplied filename. Only its extension survives into stored names,
// but the original is kept for logging.
func SanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "/", "_")
	filename = strings.ReplaceAll(filename, "\\", "_")
	filename = strings.ReplaceAll(filename, "..", "_")
	filename = stripControl(filename)
	filename = strings.TrimSpace(filename)

	// common filesystem limit
	if utf8.RuneCountInString(filename) > 255 {
		runes := []rune(filename)
		filename = string(runes[len(runes)-255:])
	}

	if filename == "" {
		return "unnamed"
	}
	return filename
}

// SanitizeString removes control characters, trims whitespace and enforces
// maxLength when it is positive.
func SanitizeString(input string, maxLength int) string {
	input = strings.TrimSpace(stripControl(input))

	if maxLength > 0 && utf8.RuneCountInString(input) > maxLength {
		runes := []rune(input)
		input = string(runes[:maxLength])
	}

	return input
}

// stripControl drops ASCII 0-31 and 127
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, s)
}
