package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clearharbor/vaultgate/internal/services"
	pkghttp "github.com/clearharbor/vaultgate/pkg/http"
	"github.com/stretchr/testify/assert"
)

// MockLoginService implements LoginServiceInterface for testing
type MockLoginService struct {
	LoginFunc func(ctx context.Context, email, password, clientIP string) (*services.LoginResult, error)
}

func (m *MockLoginService) Login(ctx context.Context, email, password, clientIP string) (*services.LoginResult, error) {
	return m.LoginFunc(ctx, email, password, clientIP)
}

// MockAccessService implements AccessServiceInterface for testing
type MockAccessService struct {
	RecordAccessFunc func(ctx context.Context, email, fileName, clientIP string) (*services.AccessResult, error)
	AccessCountFunc  func(ctx context.Context, email string) (int, error)
}

func (m *MockAccessService) RecordAccess(ctx context.Context, email, fileName, clientIP string) (*services.AccessResult, error) {
	return m.RecordAccessFunc(ctx, email, fileName, clientIP)
}

func (m *MockAccessService) AccessCount(ctx context.Context, email string) (int, error) {
	return m.AccessCountFunc(ctx, email)
}

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	if target != nil {
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), target))
	}
}

// AssertErrorResponse checks for an error envelope with the given status
// and user-facing message
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedMessage string) {
	t.Helper()
	var resp pkghttp.ErrorResponse
	AssertJSONResponse(t, w, expectedStatus, &resp)
	assert.False(t, resp.Success)
	assert.Equal(t, expectedMessage, resp.Error)
}
