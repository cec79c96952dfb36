package middleware

import (
	"encoding/json"
	"net/http"

	"event-share/internal/model"
)

// writeFailure answers with an error envelope. Middleware cannot reach the
// handler package, so it keeps its own writer.
func writeFailure(w http.ResponseWriter, status int, code string, message string, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.Failure(code, message, details))
}
