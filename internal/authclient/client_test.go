package authclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event-share/internal/model"
	"event-share/pkg/apierror"
)

func verifyServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Verify(t *testing.T) {
	t.Run("forwards token and decodes identity", func(t *testing.T) {
		srv := verifyServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/auth/verify", r.URL.Path)
			assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data":    model.Identity{ID: "u1", Username: "alice", Email: "a@x.com"},
			})
		})

		identity, err := New(srv.URL+"/", time.Second).Verify(context.Background(), "tok-123")
		require.NoError(t, err)
		assert.Equal(t, model.Identity{ID: "u1", Username: "alice", Email: "a@x.com"}, identity)
	})

	for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound} {
		t.Run("rejection "+http.StatusText(status), func(t *testing.T) {
			srv := verifyServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(status)
			})

			_, err := New(srv.URL, time.Second).Verify(context.Background(), "bad")
			require.Error(t, err)
			assert.Equal(t, http.StatusUnauthorized, apierror.StatusOf(err, 0))
			assert.Equal(t, "UNAUTHORIZED", apierror.CodeOf(err))
		})
	}

	t.Run("server error is unavailable", func(t *testing.T) {
		srv := verifyServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := New(srv.URL, time.Second).Verify(context.Background(), "tok")
		assert.Equal(t, http.StatusServiceUnavailable, apierror.StatusOf(err, 0))
		assert.Equal(t, "VERIFIER_UNAVAILABLE", apierror.CodeOf(err))
	})

	t.Run("malformed body is unavailable", func(t *testing.T) {
		srv := verifyServer(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("not json"))
		})

		_, err := New(srv.URL, time.Second).Verify(context.Background(), "tok")
		assert.Equal(t, "VERIFIER_UNAVAILABLE", apierror.CodeOf(err))
	})

	t.Run("timeout is unavailable", func(t *testing.T) {
		release := make(chan struct{})
		srv := verifyServer(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		})
		t.Cleanup(func() { close(release) })

		_, err := New(srv.URL, 50*time.Millisecond).Verify(context.Background(), "tok")
		assert.Equal(t, "VERIFIER_UNAVAILABLE", apierror.CodeOf(err))
	})

	t.Run("unreachable host is unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := New(url, time.Second).Verify(context.Background(), "tok")
		assert.Equal(t, http.StatusServiceUnavailable, apierror.StatusOf(err, 0))
	})
}
