package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/clearharbor/vaultgate/internal/gscript"
	pkglogger "github.com/clearharbor/vaultgate/pkg/logger"
)

// AccessCounter reads per-email access totals from the backend log
type AccessCounter interface {
	GetAccessCount(ctx context.Context, email string) (*gscript.AccessCountResponse, error)
}

// AccessBackend combines the backend operations the access service needs
type AccessBackend interface {
	AccessRecorder
	AccessCounter
}

// AccessResult is a recorded access event
type AccessResult struct {
	AccessCount int
	Timestamp   string
}

// AccessLogService records file-open events in the backend's access log.
// Unlike the login flow, the standalone log-access endpoint treats a
// backend failure as the request's outcome.
type AccessLogService struct {
	backend AccessBackend
	logger  *slog.Logger
	audit   *pkglogger.AuditLogger
}

// NewAccessLogService creates a new AccessLogService
func NewAccessLogService(backend AccessBackend, logger *slog.Logger, audit *pkglogger.AuditLogger) *AccessLogService {
	return &AccessLogService{
		backend: backend,
		logger:  logger,
		audit:   audit,
	}
}

// RecordAccess logs that email opened fileName
func (s *AccessLogService) RecordAccess(ctx context.Context, email, fileName, clientIP string) (*AccessResult, error) {
	resp, err := s.backend.LogAccess(ctx, email, fileName)
	if err != nil {
		s.audit.LogFileAccess(email, fileName, clientIP, false)
		return nil, fmt.Errorf("record access: %w", err)
	}
	if !resp.Success {
		s.logger.Error("backend declined access log entry",
			slog.String("backend_error", resp.Error))
		s.audit.LogFileAccess(email, fileName, clientIP, false)
		return nil, fmt.Errorf("record access: backend declined: %s", resp.Error)
	}

	s.audit.LogFileAccess(email, fileName, clientIP, true)
	return &AccessResult{
		AccessCount: resp.AccessCount,
		Timestamp:   resp.Timestamp,
	}, nil
}

// AccessCount returns the number of recorded accesses for email
func (s *AccessLogService) AccessCount(ctx context.Context, email string) (int, error) {
	resp, err := s.backend.GetAccessCount(ctx, email)
	if err != nil {
		return 0, fmt.Errorf("access count: %w", err)
	}
	if !resp.Success {
		return 0, fmt.Errorf("access count: backend declined: %s", resp.Error)
	}
	return resp.Count, nil
}
