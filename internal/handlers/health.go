package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/clearharbor/vaultgate/internal/gscript"
	pkghttp "github.com/clearharbor/vaultgate/pkg/http"
)

// BackendProber checks whether the content backend is answering
type BackendProber interface {
	Health(ctx context.Context) (*gscript.HealthResponse, error)
}

// HealthHandler reports service health including backend reachability
type HealthHandler struct {
	backend BackendProber
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(backend BackendProber) *HealthHandler {
	return &HealthHandler{backend: backend}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
}

// Health handles GET /health. The service stays "degraded" rather than
// unhealthy when only the backend is down: login throttling and request
// handling still work, content just cannot be served.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp, err := h.backend.Health(ctx)
	if err != nil || resp.Status != "ok" {
		pkghttp.WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:  "degraded",
			Backend: "down",
		})
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Backend: "up",
	})
}
