// Package logger provides structured event logging for the attachment service.
package logger

import (
	"log/slog"
	"os"
	"strings"
	"time"
)

// EventLogger logs attachment lifecycle and security events as structured records.
// It never logs request credentials.
type EventLogger struct {
	logger *slog.Logger
}

// NewEventLogger creates a new EventLogger with JSON output at level.
func NewEventLogger(level slog.Level) *EventLogger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	return &EventLogger{
		logger: slog.New(handler),
	}
}

// NewEventLoggerWithHandler creates an EventLogger with a custom handler.
func NewEventLoggerWithHandler(handler slog.Handler) *EventLogger {
	return &EventLogger{
		logger: slog.New(handler),
	}
}

// ParseLevel maps a LOG_LEVEL value to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Event types; each is also the log message of its entry.
const (
	EventAttachmentStored  = "attachment_stored"
	EventAttachmentCleared = "attachment_cleared"
	EventAttachmentRemoved = "attachment_removed"
	EventCleanupFailed     = "cleanup_failed"
	EventUploadDiscard     = "upload_discard_failed"
	EventPathTraversal     = "path_traversal_attempt"
	EventBlockedUpload     = "blocked_file_upload"
)

// AttachmentStored logs a file moved into the web root.
func (l *EventLogger) AttachmentStored(recordType, recordID, field, path string) {
	l.logger.Info(EventAttachmentStored,
		slog.String("event_type", EventAttachmentStored),
		slog.String("record_type", recordType),
		slog.String("record_id", recordID),
		slog.String("field", field),
		slog.String("path", path),
		slog.Time("timestamp", time.Now().UTC()),
	)
}

// AttachmentCleared logs an optional field emptied by a save.
func (l *EventLogger) AttachmentCleared(recordType, recordID, field string) {
	l.logger.Info(EventAttachmentCleared,
		slog.String("event_type", EventAttachmentCleared),
		slog.String("record_type", recordType),
		slog.String("record_id", recordID),
		slog.String("field", field),
		slog.Time("timestamp", time.Now().UTC()),
	)
}

// AttachmentRemoved logs a stored file removed after deletion or replacement.
func (l *EventLogger) AttachmentRemoved(field, path string) {
	l.logger.Info(EventAttachmentRemoved,
		slog.String("event_type", EventAttachmentRemoved),
		slog.String("field", field),
		slog.String("path", path),
		slog.Time("timestamp", time.Now().UTC()),
	)
}

// CleanupFailed logs a file that could not be removed. The owning record's
// deletion has already happened.
func (l *EventLogger) CleanupFailed(field, path string, err error) {
	l.logger.Warn(EventCleanupFailed,
		slog.String("event_type", EventCleanupFailed),
		slog.String("field", field),
		slog.String("path", path),
		slog.String("error", err.Error()),
		slog.Time("timestamp", time.Now().UTC()),
	)
}

// UploadDiscardFailed logs spooled upload files that could not be removed
// after a request.
func (l *EventLogger) UploadDiscardFailed(ip string, err error) {
	l.logger.Warn(EventUploadDiscard,
		slog.String("event_type", EventUploadDiscard),
		slog.String("ip", ip),
		slog.String("error", err.Error()),
		slog.Time("timestamp", time.Now().UTC()),
	)
}

// PathTraversalAttempt logs a path traversal attempt.
func (l *EventLogger) PathTraversalAttempt(ip, path, attemptedPath string) {
	l.logger.Warn(EventPathTraversal,
		slog.String("event_type", EventPathTraversal),
		slog.String("ip", ip),
		slog.String("path", path),
		slog.String("attempted_path", attemptedPath),
		slog.Time("timestamp", time.Now().UTC()),
	)
}

// BlockedFileUpload logs an upload rejected during validation.
func (l *EventLogger) BlockedFileUpload(ip, field, filename, reason string) {
	l.logger.Warn(EventBlockedUpload,
		slog.String("event_type", EventBlockedUpload),
		slog.String("ip", ip),
		slog.String("field", field),
		slog.String("filename", filename),
		slog.String("reason", reason),
		slog.Time("timestamp", time.Now().UTC()),
	)
}

// Event logs a generic event, dropping sensitive keys.
func (l *EventLogger) Event(eventType string, details map[string]string) {
	attrs := []any{
		slog.String("event_type", eventType),
		slog.Time("timestamp", time.Now().UTC()),
	}

	for k, v := range details {
		if isSensitiveKey(k) {
			continue
		}
		attrs = append(attrs, slog.String(k, v))
	}

	l.logger.Info("event", attrs...)
}

// GetLogger returns the underlying slog.Logger for use with middleware.
func (l *EventLogger) GetLogger() *slog.Logger {
	return l.logger
}

// isSensitiveKey checks if a key might contain sensitive data.
func isSensitiveKey(key string) bool {
	switch strings.ToLower(key) {
	case "password", "api_key", "apikey", "token", "secret", "authorization",
		"auth", "credential", "credentials", "session", "cookie":
		return true
	}
	return false
}
