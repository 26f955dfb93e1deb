package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// RequestThrottleConfig holds the per-IP request volume cap. This sits in
// front of the failed-login lockout: it bounds raw request volume while
// the lockout in internal/ratelimit handles credential guessing.
type RequestThrottleConfig struct {
	RequestsPerMinute int
}

// DefaultLoginThrottle returns the volume cap for the login endpoint
func DefaultLoginThrottle() RequestThrottleConfig {
	return RequestThrottleConfig{
		RequestsPerMinute: 10,
	}
}

// ThrottleByIP creates a middleware that caps request volume per client IP
func ThrottleByIP(config RequestThrottleConfig) func(next http.Handler) http.Handler {
	return httprate.Limit(
		config.RequestsPerMinute,
		1*time.Minute,
		httprate.WithKeyByRealIP(),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"success":false,"error":"Too many requests. Please slow down."}`))
		}),
	)
}
