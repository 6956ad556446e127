package httpadapter

import (
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"contextads/internal/core/port"
)

// trackingPixel is a 1x1 transparent PNG served to image-based
// impression trackers.
var trackingPixel, _ = base64.StdEncoding.DecodeString(
	"iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNk+M9QDwADhgGAWjR9awAAAABJRU5ErkJggg==")

// handleImpression serves GET /api/v1/ads/{id}/impression. Recording is
// best-effort: the response is always a success so a broken event log
// can never break the integration calling it.
func (h *Handler) handleImpression(w http.ResponseWriter, r *http.Request) {
	campaignID := chi.URLParam(r, "id")
	q := r.URL.Query()

	var publisherID, keyword *string
	if v := q.Get("publisher_id"); v != "" {
		publisherID = &v
	}
	if v := q.Get("keyword"); v != "" {
		keyword = &v
	}

	h.svc.RecordImpression(r.Context(), campaignID, publisherID, keyword)

	if strings.Contains(r.Header.Get("Accept"), "image") {
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		_, _ = w.Write(trackingPixel)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"campaign_id": campaignID,
	})
}

// handleClick serves GET /api/v1/ads/{id}/click. The end user is always
// redirected somewhere sensible: the campaign's target URL when the
// transaction succeeded or failed on budget, the configured fallback
// when the campaign is unknown. A charge failure must never surface as
// a broken page.
func (h *Handler) handleClick(w http.ResponseWriter, r *http.Request) {
	campaignID := chi.URLParam(r, "id")

	var publisherID *string
	if v := r.URL.Query().Get("publisher_id"); v != "" {
		publisherID = &v
	}

	result, err := h.svc.RecordClick(r.Context(), campaignID, publisherID)
	switch {
	case err == nil:
		http.Redirect(w, r, result.TargetURL, http.StatusFound)
	case result != nil:
		// No charge happened, but the campaign is known; its
		// destination is still the right place to send the user.
		if !errors.Is(err, port.ErrInsufficientBudget) {
			h.logger.Warn("click rejected",
				slog.String("campaign_id", campaignID), slog.Any("error", err))
		}
		http.Redirect(w, r, result.TargetURL, http.StatusFound)
	default:
		h.logger.Error("click error",
			slog.String("campaign_id", campaignID), slog.Any("error", err))
		http.Redirect(w, r, h.fallbackURL, http.StatusFound)
	}
}
