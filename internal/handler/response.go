package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"event-share/internal/middleware"
	"event-share/internal/model"
	"event-share/pkg/apierror"
)

const maxBodyBytes = 1 << 20

func writeSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.OK(data))
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	code, message, details := "INTERNAL_ERROR", "Unexpected server error", ""

	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		status, code, message, details = apiErr.HTTPStatus, apiErr.Code, apiErr.Message, apiErr.Details
	case errors.Is(err, model.ErrUserNotFound):
		status, code, message = http.StatusNotFound, "NOT_FOUND", "User not found"
	case errors.Is(err, model.ErrEventNotFound):
		status, code, message = http.StatusNotFound, "NOT_FOUND", "Event not found"
	case errors.Is(err, model.ErrUserAlreadyExists):
		status, code, message = http.StatusConflict, "ALREADY_EXISTS", "User already exists"
	default:
		slog.ErrorContext(r.Context(), "unhandled error", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.Failure(code, message, details))
}

// decodeJSON reads a single JSON object from the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apierror.New("PAYLOAD_TOO_LARGE", "request body too large", "", http.StatusRequestEntityTooLarge)
		}
		if errors.Is(err, io.EOF) {
			return apierror.New("BAD_REQUEST", "request body is required", "", http.StatusBadRequest)
		}
		return apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest)
	}
	return nil
}

func requireIdentity(r *http.Request) (model.Identity, error) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		return model.Identity{}, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized)
	}
	return identity, nil
}
