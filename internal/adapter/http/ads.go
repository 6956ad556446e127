package httpadapter

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"contextads/internal/core/port"
)

// adResponse is the JSON shape for one served ad. The tracking URLs are
// built from the opaque tracking keys and carry the publisher id when
// the request was authenticated.
type adResponse struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Message       string          `json:"message"`
	ImageURL      *string         `json:"image_url,omitempty"`
	TargetURL     string          `json:"target_url"`
	CPCBid        decimal.Decimal `json:"cpc_bid"`
	ImpressionURL string          `json:"impression_url"`
	ClickURL      string          `json:"click_url"`
}

// handleFindAds serves GET /api/v1/ads. Keywords arrive comma-separated
// in the keywords (or keyword) query parameter. Matching campaigns are
// returned ranked by bid with tracking URLs attached.
func (h *Handler) handleFindAds(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("keywords")
	if raw == "" {
		raw = r.URL.Query().Get("keyword")
	}
	if raw == "" {
		h.writeError(w, http.StatusBadRequest, "keywords parameter is required")
		return
	}

	publisherID, ok := h.resolvePublisher(w, r)
	if !ok {
		return
	}

	ads, err := h.svc.FindAds(r.Context(), strings.Split(raw, ","), port.StatusFilter(r.URL.Query().Get("status")))
	if errors.Is(err, port.ErrMissingKeywords) {
		h.writeError(w, http.StatusBadRequest, "at least one valid keyword is required")
		return
	}
	if err != nil {
		h.logger.Error("find ads error", slog.Any("error", err))
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"ads": h.toAdResponses(r, ads, publisherID),
	})
}

// handleListAds serves GET /api/v1/ads/all: every campaign passing the
// status filter, without keyword matching. Used by bulk feed consumers.
func (h *Handler) handleListAds(w http.ResponseWriter, r *http.Request) {
	publisherID, ok := h.resolvePublisher(w, r)
	if !ok {
		return
	}

	filter := port.StatusFilter(r.URL.Query().Get("status"))
	ads, err := h.svc.ListAds(r.Context(), filter)
	if err != nil {
		h.logger.Error("list ads error", slog.Any("error", err))
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"ads":           h.toAdResponses(r, ads, publisherID),
		"total":         len(ads),
		"status_filter": string(filter.Normalize()),
	})
}

func (h *Handler) toAdResponses(r *http.Request, ads []port.AdResult, publisherID *string) []adResponse {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	base := fmt.Sprintf("%s://%s/api/v1/ads", scheme, r.Host)

	suffix := ""
	if publisherID != nil {
		suffix = "?publisher_id=" + *publisherID
	}

	out := make([]adResponse, 0, len(ads))
	for _, ad := range ads {
		out = append(out, adResponse{
			ID:            ad.ID,
			Title:         ad.Title,
			Message:       ad.Message,
			ImageURL:      ad.ImageURL,
			TargetURL:     ad.TargetURL,
			CPCBid:        ad.CPCBid,
			ImpressionURL: fmt.Sprintf("%s/%s/impression%s", base, ad.ImpressionKey, suffix),
			ClickURL:      fmt.Sprintf("%s/%s/click%s", base, ad.ClickKey, suffix),
		})
	}
	return out
}
