package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"event-share/pkg/apierror"
)

type pinger interface {
	Health(ctx context.Context) error
}

type HealthHandler struct {
	service string
	store   pinger
}

func NewHealthHandler(service string, store pinger) *HealthHandler {
	return &HealthHandler{service: service, store: store}
}

// Health reports 503 while the backing store cannot be reached.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Health(ctx); err != nil {
		slog.WarnContext(ctx, "health check failed", "service", h.service, "error", err)
		writeError(w, r, apierror.New("UNAVAILABLE", h.service+" storage is unreachable", "", http.StatusServiceUnavailable))
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"service": h.service, "status": "ok"})
}
