package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/clearharbor/vaultgate/internal/models"
	"github.com/clearharbor/vaultgate/internal/services"
	pkghttp "github.com/clearharbor/vaultgate/pkg/http"
)

// Validation messages for the login route
const (
	msgMissingCredentials = "Email and password are required."
	msgInvalidEmail       = "Invalid email format."
)

// LoginServiceInterface defines the interface for the login sequence
type LoginServiceInterface interface {
	Login(ctx context.Context, email, password, clientIP string) (*services.LoginResult, error)
}

// AuthHandler handles the portal login request
type AuthHandler struct {
	service  LoginServiceInterface
	ipConfig *pkghttp.IPConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service LoginServiceInterface, ipConfig *pkghttp.IPConfig) *AuthHandler {
	return &AuthHandler{
		service:  service,
		ipConfig: ipConfig,
	}
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents a successful login. Error carries a non-fatal
// content-loading warning; it never appears together with a file list.
type LoginResponse struct {
	Success bool               `json:"success"`
	Files   []models.VaultFile `json:"files"`
	Count   int                `json:"count"`
	Error   string             `json:"error,omitempty"`
}

// Login handles POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, msgMissingCredentials)
		return
	}

	// Malformed input never reaches the rate limiter
	if err := ValidateRequest(req); err != nil {
		var fieldErr *FieldError
		if errors.As(err, &fieldErr) && fieldErr.Tag == "email" {
			pkghttp.WriteBadRequest(w, msgInvalidEmail)
			return
		}
		pkghttp.WriteBadRequest(w, msgMissingCredentials)
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	clientIP := pkghttp.ExtractClientIP(r, h.ipConfig)

	result, err := h.service.Login(r.Context(), req.Email, req.Password, clientIP)
	if err != nil {
		var blocked *models.BlockedError
		switch {
		case errors.As(err, &blocked):
			pkghttp.WriteBlocked(w, blocked.Error(), blocked.MinutesRemaining)
		case errors.Is(err, models.ErrInvalidPassword):
			pkghttp.WriteUnauthorized(w, models.MsgIncorrectPassword)
		case errors.Is(err, models.ErrNotConfigured):
			pkghttp.WriteInternalError(w, models.MsgNotConfigured)
		case errors.Is(err, models.ErrServiceUnavailable):
			pkghttp.WriteInternalError(w, models.MsgCredentialsFailure)
		default:
			pkghttp.WriteInternalError(w, models.MsgGeneric)
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, LoginResponse{
		Success: true,
		Files:   result.Files,
		Count:   result.Count,
		Error:   result.Warning,
	})
}
