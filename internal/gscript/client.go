// Package gscript is the HTTP client for the Google Apps Script backend
// that owns the portal password, the document listing, and the access log.
package gscript

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/clearharbor/vaultgate/internal/models"
)

const defaultRequestTimeout = 10 * time.Second

// PasswordResponse is the backend's answer to the getPassword action
type PasswordResponse struct {
	Success  bool   `json:"success"`
	Password string `json:"password,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ListFilesResponse is the backend's answer to the listFiles action
type ListFilesResponse struct {
	Success bool               `json:"success"`
	Files   []models.VaultFile `json:"files,omitempty"`
	Count   int                `json:"count,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// LogAccessResponse is the backend's answer to the logAccess action
type LogAccessResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message,omitempty"`
	AccessCount int    `json:"accessCount,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"`
	Error       string `json:"error,omitempty"`
}

// AccessCountResponse is the backend's answer to the getAccessCount action
type AccessCountResponse struct {
	Success bool   `json:"success"`
	Count   int    `json:"count,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HealthResponse is the backend's answer to the health action
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Client calls the Apps Script web app. All actions are multiplexed over a
// single base URL via an action parameter.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client for the given script URL. An empty URL is
// allowed at construction time; calls will fail with ErrNotConfigured so
// the condition surfaces as a service error rather than a startup crash.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
		logger:     logger,
	}
}

// GetPassword fetches the current portal password. Called fresh on every
// login attempt so the password can be rotated without a redeploy.
func (c *Client) GetPassword(ctx context.Context) (*PasswordResponse, error) {
	var resp PasswordResponse
	if err := c.get(ctx, "getPassword", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListFiles fetches the document listing from the configured folder
func (c *Client) ListFiles(ctx context.Context) (*ListFilesResponse, error) {
	var resp ListFilesResponse
	if err := c.get(ctx, "listFiles", nil, &resp); err != nil {
		return nil, err
	}
	for i := range resp.Files {
		resp.Files[i].Normalize()
	}
	return &resp, nil
}

// LogAccess records an access event in the backend's log sheet. Uses POST,
// matching the backend contract for mutating actions.
func (c *Client) LogAccess(ctx context.Context, email, fileName string) (*LogAccessResponse, error) {
	body := map[string]string{
		"action":   "logAccess",
		"email":    email,
		"fileName": fileName,
	}
	var resp LogAccessResponse
	if err := c.post(ctx, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetAccessCount returns how many times the given email has accessed the
// portal, per the backend's log
func (c *Client) GetAccessCount(ctx context.Context, email string) (*AccessCountResponse, error) {
	var resp AccessCountResponse
	if err := c.get(ctx, "getAccessCount", url.Values{"email": {email}}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health probes the backend's health action
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.get(ctx, "health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) get(ctx context.Context, action string, params url.Values, out any) error {
	if c.baseURL == "" {
		return fmt.Errorf("gscript %s: %w", action, models.ErrNotConfigured)
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("gscript %s: invalid base URL: %w", action, models.ErrNotConfigured)
	}
	q := u.Query()
	q.Set("action", action)
	for key, vals := range params {
		for _, v := range vals {
			q.Set(key, v)
		}
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("gscript %s: %w", action, err)
	}
	req.Header.Set("Accept", "application/json")

	return c.do(req, action, out)
}

func (c *Client) post(ctx context.Context, body map[string]string, out any) error {
	action := body["action"]
	if c.baseURL == "" {
		return fmt.Errorf("gscript %s: %w", action, models.ErrNotConfigured)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("gscript %s: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("gscript %s: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.do(req, action, out)
}

// do executes the request and decodes the JSON body. Transport failures,
// non-2xx statuses, and undecodable bodies all collapse into
// ErrServiceUnavailable: callers only need to know the backend could not
// answer, not why.
func (c *Client) do(req *http.Request, action string, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("backend request failed",
			slog.String("action", action),
			slog.Any("error", err))
		return fmt.Errorf("gscript %s: %w", action, models.ErrServiceUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("backend returned error status",
			slog.String("action", action),
			slog.Int("status", resp.StatusCode))
		return fmt.Errorf("gscript %s: status %d: %w", action, resp.StatusCode, models.ErrServiceUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Error("backend returned undecodable body",
			slog.String("action", action),
			slog.Any("error", err))
		return fmt.Errorf("gscript %s: decode: %w", action, models.ErrServiceUnavailable)
	}
	return nil
}
