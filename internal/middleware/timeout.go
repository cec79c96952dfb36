package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"event-share/internal/model"
)

// Timeout bounds handler execution. Handlers blocked on the store or on the
// verifier see their context cancelled and the client gets a 503 envelope.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	message, _ := json.Marshal(model.Failure("REQUEST_TIMEOUT", "request timed out", ""))

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, string(message))
	}
}
