package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"contextads/internal/core/port"
)

// Handler is the inbound HTTP adapter. It holds the serving facade, a
// structured logger and the fallback redirect target used when a failed
// click has no better destination.
type Handler struct {
	svc         port.AdService
	logger      *slog.Logger
	fallbackURL string
	router      chi.Router
}

// NewHandler creates a handler with all routes configured.
func NewHandler(svc port.AdService, logger *slog.Logger, fallbackURL string) *Handler {
	h := &Handler{svc: svc, logger: logger, fallbackURL: fallbackURL}
	r := chi.NewRouter()

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ads", h.handleFindAds)
		r.Get("/ads/all", h.handleListAds)
		r.Get("/ads/{id}/impression", h.handleImpression)
		r.Get("/ads/{id}/click", h.handleClick)
		r.Get("/stats/overview", h.handleStatsOverview)
	})
	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

// resolvePublisher looks up the optional publisher credential from the
// publisher_key query parameter or the x-publisher-key header. A missing
// key is fine (anonymous integration); an invalid one is rejected.
func (h *Handler) resolvePublisher(w http.ResponseWriter, r *http.Request) (publisherID *string, ok bool) {
	key := r.URL.Query().Get("publisher_key")
	if key == "" {
		key = r.Header.Get("x-publisher-key")
	}
	if key == "" {
		return nil, true
	}
	pub, err := h.svc.LookupPublisher(r.Context(), key)
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "invalid publisher API key")
		return nil, false
	}
	return &pub.ID, true
}
