package services

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/clearharbor/vaultgate/internal/gscript"
	"github.com/clearharbor/vaultgate/internal/models"
	pkglogger "github.com/clearharbor/vaultgate/pkg/logger"
)

// PasswordVerifier checks submitted credentials
type PasswordVerifier interface {
	Verify(ctx context.Context, candidate string) error
}

// FileLister fetches the document listing after authentication
type FileLister interface {
	ListFiles(ctx context.Context) (*gscript.ListFilesResponse, error)
}

// AccessRecorder reports access events to the backend log
type AccessRecorder interface {
	LogAccess(ctx context.Context, email, fileName string) (*gscript.LogAccessResponse, error)
}

// AttemptStore is the failed-login limiter consulted around verification
type AttemptStore interface {
	IsBlocked(key string) bool
	RecordFailure(key string) int
	Reset(key string)
	BlockTimeRemaining(key string) int
}

// LoginResult is the outcome of a successful authentication. Warning is
// set when the file listing could not be loaded; authentication stands
// regardless, content delivery is a separate failure domain.
type LoginResult struct {
	Files   []models.VaultFile
	Count   int
	Warning string
}

// LoginService runs the login sequence: block check, credential
// verification, limiter bookkeeping, access logging, file listing.
type LoginService struct {
	verifier PasswordVerifier
	files    FileLister
	access   AccessRecorder
	attempts AttemptStore
	logger   *slog.Logger
	audit    *pkglogger.AuditLogger
}

// NewLoginService creates a new LoginService
func NewLoginService(
	verifier PasswordVerifier,
	files FileLister,
	access AccessRecorder,
	attempts AttemptStore,
	logger *slog.Logger,
	audit *pkglogger.AuditLogger,
) *LoginService {
	return &LoginService{
		verifier: verifier,
		files:    files,
		access:   access,
		attempts: attempts,
		logger:   logger,
		audit:    audit,
	}
}

// Login authenticates a portal visitor. clientIP keys the rate limiter.
//
// The block check runs strictly before credential verification: a blocked
// client never costs a backend call and its submitted password is never
// re-validated. Verifier service failures are returned as-is and are not
// recorded as failed attempts.
func (s *LoginService) Login(ctx context.Context, email, password, clientIP string) (*LoginResult, error) {
	if s.attempts.IsBlocked(clientIP) {
		minutes := s.attempts.BlockTimeRemaining(clientIP)
		s.audit.LogLoginAttempt(pkglogger.AuditEvent{
			EventType:     "login_rejected",
			Email:         email,
			ClientIP:      clientIP,
			FailureReason: "rate_limited",
			Success:       false,
		})
		return nil, &models.BlockedError{MinutesRemaining: minutes}
	}

	if err := s.verifier.Verify(ctx, password); err != nil {
		if !errors.Is(err, models.ErrInvalidPassword) {
			s.logger.Error("credential verification unavailable", slog.Any("error", err))
			s.audit.LogLoginAttempt(pkglogger.AuditEvent{
				EventType:     "login_failed",
				Email:         email,
				ClientIP:      clientIP,
				FailureReason: "backend_unavailable",
				Success:       false,
			})
			return nil, err
		}

		attempts := s.attempts.RecordFailure(clientIP)
		s.audit.LogLoginAttempt(pkglogger.AuditEvent{
			EventType:     "login_failed",
			Email:         email,
			ClientIP:      clientIP,
			FailureReason: "invalid_password",
			Success:       false,
			Metadata:      map[string]string{"attempts": strconv.Itoa(attempts)},
		})

		// This failure may have tripped the threshold
		if s.attempts.IsBlocked(clientIP) {
			minutes := s.attempts.BlockTimeRemaining(clientIP)
			return nil, &models.BlockedError{MinutesRemaining: minutes}
		}
		return nil, models.ErrInvalidPassword
	}

	s.attempts.Reset(clientIP)
	s.audit.LogLoginAttempt(pkglogger.AuditEvent{
		EventType: "login_success",
		Email:     email,
		ClientIP:  clientIP,
		Success:   true,
	})

	// Access logging is non-fatal: the visitor is already authenticated
	if _, err := s.access.LogAccess(ctx, email, "Login"); err != nil {
		s.logger.Error("failed to log login access", slog.Any("error", err))
	}

	listing, err := s.files.ListFiles(ctx)
	if err != nil || !listing.Success {
		if err != nil {
			s.logger.Error("failed to fetch file listing", slog.Any("error", err))
		} else {
			s.logger.Error("backend declined file listing", slog.String("backend_error", listing.Error))
		}
		return &LoginResult{
			Files:   []models.VaultFile{},
			Warning: models.MsgContentUnavailable,
		}, nil
	}

	files := listing.Files
	if files == nil {
		files = []models.VaultFile{}
	}
	count := listing.Count
	if count == 0 {
		count = len(files)
	}

	return &LoginResult{Files: files, Count: count}, nil
}
