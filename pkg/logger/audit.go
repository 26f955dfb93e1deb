package logger

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// AuditEvent represents a security-relevant portal event
type AuditEvent struct {
	EventType     string
	Email         string
	ClientIP      string
	Success       bool
	FailureReason string
	Metadata      map[string]string
}

// AuditLogger writes structured audit entries for login and file-access
// events. Entries carry a unique event id so operators can reference a
// single attempt across log pipelines.
type AuditLogger struct {
	logger *slog.Logger
}

// NewAuditLogger creates a new audit logger
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return &AuditLogger{
		logger: logger,
	}
}

// LogLoginAttempt logs the outcome of a login attempt. The email is masked
// before it reaches the log stream.
func (al *AuditLogger) LogLoginAttempt(event AuditEvent) {
	attrs := []slog.Attr{
		slog.String("audit_type", "login"),
		slog.String("event_id", uuid.New().String()),
		slog.String("event_type", event.EventType),
		slog.Bool("success", event.Success),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}

	if event.Email != "" {
		attrs = append(attrs, slog.String("email", SanitizedEmail(event.Email)))
	}
	if event.ClientIP != "" {
		attrs = append(attrs, slog.String("client_ip", event.ClientIP))
	}
	if event.FailureReason != "" {
		attrs = append(attrs, slog.String("failure_reason", event.FailureReason))
	}
	for key, val := range event.Metadata {
		attrs = append(attrs, slog.String(key, val))
	}

	if event.Success {
		al.logger.LogAttrs(context.Background(), slog.LevelInfo, "audit", attrs...)
	} else {
		al.logger.LogAttrs(context.Background(), slog.LevelWarn, "audit", attrs...)
	}
}

// LogFileAccess logs a document being opened by an authenticated visitor
func (al *AuditLogger) LogFileAccess(email, fileName, clientIP string, backendLogged bool) {
	attrs := []slog.Attr{
		slog.String("audit_type", "file_access"),
		slog.String("event_id", uuid.New().String()),
		slog.String("event_type", "file_opened"),
		slog.String("email", SanitizedEmail(email)),
		slog.String("file_name", fileName),
		slog.Bool("backend_logged", backendLogged),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}

	if clientIP != "" {
		attrs = append(attrs, slog.String("client_ip", clientIP))
	}

	al.logger.LogAttrs(context.Background(), slog.LevelInfo, "audit", attrs...)
}
