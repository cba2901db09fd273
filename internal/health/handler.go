package health

import (
	"context"
	"net/http"
	"time"

	"github.com/Lelo88/mercado-inventory/internal/httpx"
)

const readyTimeout = 2 * time.Second

// Pinger es lo único que /ready necesita del pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler expone liveness y readiness.
type Handler struct {
	database Pinger
}

// New crea un handler de health. database puede ser nil (ready responde 503).
func New(database Pinger) *Handler {
	return &Handler{database: database}
}

// Health indica si el proceso está vivo. No toca la base.
func (handler *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httpx.OK(w, r, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready indica si la app puede atender: la base tiene que responder al ping.
func (handler *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if handler.database == nil {
		httpx.Fail(w, r, http.StatusServiceUnavailable, "not_ready", "database pool not configured")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := handler.database.Ping(ctx); err != nil {
		httpx.Fail(w, r, http.StatusServiceUnavailable, "not_ready", "database is not reachable")
		return
	}

	httpx.OK(w, r, http.StatusOK, map[string]any{"status": "ready"})
}
