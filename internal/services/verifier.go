package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"

	"github.com/clearharbor/vaultgate/internal/gscript"
	"github.com/clearharbor/vaultgate/internal/models"
)

// PasswordFetcher retrieves the canonical portal password from the backend
type PasswordFetcher interface {
	GetPassword(ctx context.Context) (*gscript.PasswordResponse, error)
}

// CredentialVerifier checks a submitted password against the shared secret
// held by the backend. The password is fetched fresh on every call so it
// can be rotated without redeploying the portal.
type CredentialVerifier struct {
	backend PasswordFetcher
	logger  *slog.Logger
}

// NewCredentialVerifier creates a new CredentialVerifier
func NewCredentialVerifier(backend PasswordFetcher, logger *slog.Logger) *CredentialVerifier {
	return &CredentialVerifier{
		backend: backend,
		logger:  logger,
	}
}

// Verify returns nil when candidate matches the stored password,
// ErrInvalidPassword on a mismatch, and ErrNotConfigured or
// ErrServiceUnavailable when the backend could not answer. Callers must
// only count the mismatch case against the rate limiter: a degraded
// backend is never the user's fault.
func (v *CredentialVerifier) Verify(ctx context.Context, candidate string) error {
	resp, err := v.backend.GetPassword(ctx)
	if err != nil {
		return fmt.Errorf("fetch password: %w", err)
	}

	if !resp.Success || resp.Password == "" {
		v.logger.Error("backend declined password fetch",
			slog.String("backend_error", resp.Error))
		return fmt.Errorf("fetch password: %w", models.ErrServiceUnavailable)
	}

	if subtle.ConstantTimeCompare([]byte(candidate), []byte(resp.Password)) != 1 {
		return models.ErrInvalidPassword
	}
	return nil
}
