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

const msgMissingAccessFields = "Email and fileName are required."

// AccessServiceInterface defines the interface for access-log operations
type AccessServiceInterface interface {
	RecordAccess(ctx context.Context, email, fileName, clientIP string) (*services.AccessResult, error)
	AccessCount(ctx context.Context, email string) (int, error)
}

// AccessHandler handles access-log HTTP requests
type AccessHandler struct {
	service  AccessServiceInterface
	ipConfig *pkghttp.IPConfig
}

// NewAccessHandler creates a new AccessHandler
func NewAccessHandler(service AccessServiceInterface, ipConfig *pkghttp.IPConfig) *AccessHandler {
	return &AccessHandler{
		service:  service,
		ipConfig: ipConfig,
	}
}

// LogAccessRequest represents the request body for recording a file open
type LogAccessRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FileName string `json:"fileName" validate:"required"`
}

// LogAccessResponse represents a recorded access event
type LogAccessResponse struct {
	Success     bool   `json:"success"`
	AccessCount int    `json:"accessCount,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"`
}

// AccessCountResponse represents the per-email access total
type AccessCountResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

// LogAccess handles POST /api/log-access
func (h *AccessHandler) LogAccess(w http.ResponseWriter, r *http.Request) {
	var req LogAccessRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, msgMissingAccessFields)
		return
	}

	if err := ValidateRequest(req); err != nil {
		var fieldErr *FieldError
		if errors.As(err, &fieldErr) && fieldErr.Tag == "email" {
			pkghttp.WriteBadRequest(w, msgInvalidEmail)
			return
		}
		pkghttp.WriteBadRequest(w, msgMissingAccessFields)
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	clientIP := pkghttp.ExtractClientIP(r, h.ipConfig)

	result, err := h.service.RecordAccess(r.Context(), req.Email, req.FileName, clientIP)
	if err != nil {
		if errors.Is(err, models.ErrNotConfigured) {
			pkghttp.WriteInternalError(w, models.MsgNotConfigured)
			return
		}
		pkghttp.WriteInternalError(w, models.MsgGeneric)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, LogAccessResponse{
		Success:     true,
		AccessCount: result.AccessCount,
		Timestamp:   result.Timestamp,
	})
}

// AccessCount handles GET /api/access-count
func (h *AccessHandler) AccessCount(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("email")))
	if !ValidEmail(email) {
		pkghttp.WriteBadRequest(w, msgInvalidEmail)
		return
	}

	count, err := h.service.AccessCount(r.Context(), email)
	if err != nil {
		if errors.Is(err, models.ErrNotConfigured) {
			pkghttp.WriteInternalError(w, models.MsgNotConfigured)
			return
		}
		pkghttp.WriteInternalError(w, models.MsgGeneric)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, AccessCountResponse{Success: true, Count: count})
}
