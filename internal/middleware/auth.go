package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"event-share/internal/auth"
	"event-share/internal/model"
	"event-share/pkg/apierror"
)

type identityVerifier interface {
	Verify(ctx context.Context, token string) (model.Identity, error)
}

type contextKey string

const identityContextKey contextKey = "identity"

type AuthMiddleware struct {
	verifier identityVerifier
}

func NewAuthMiddleware(verifier identityVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// RequireAuth resolves the bearer token to an Identity and stores it in the
// request context. The request never reaches next without one.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.TokenFromHeader(r.Header.Get("Authorization"))
		if err != nil {
			writeFailure(w, http.StatusUnauthorized, "UNAUTHORIZED", "no token provided", "")
			return
		}

		identity, err := m.verifier.Verify(r.Context(), token)
		if err != nil {
			writeAuthError(w, r, err)
			return
		}

		setLogIdentity(r.Context(), identity.ID)
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

func WithIdentity(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(model.Identity)
	return identity, ok && identity.ID != ""
}

// writeAuthError keeps the status of classified verifier errors. Anything
// else is a failure behind the verifier, not a bad credential.
func writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *apierror.APIError
	if !errors.As(err, &apiErr) {
		slog.ErrorContext(r.Context(), "identity verification failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeFailure(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected server error", "")
		return
	}

	writeFailure(w, apierror.StatusOf(apiErr, http.StatusUnauthorized), apiErr.Code, apiErr.Message, apiErr.Details)
}
