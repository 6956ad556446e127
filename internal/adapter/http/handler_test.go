package httpadapter

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contextads/internal/adapter/memory"
	"contextads/internal/adapter/usecase"
	"contextads/internal/core/domain"
)

const fallbackURL = "https://fallback.example.com"

func newTestHandler(t *testing.T) (*Handler, *memory.Store) {
	t.Helper()
	store := memory.New()
	svc := usecase.NewAdService(store, store, store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil)), fallbackURL), store
}

func seedCampaign(store *memory.Store, remaining string) string {
	return store.PutCampaign(domain.Campaign{
		Title:           "Best Car Marketplace",
		Message:         "thousands of cars",
		TargetURL:       "https://cars.example.com",
		Keywords:        []string{"cars"},
		CPCBid:          decimal.RequireFromString("0.50"),
		BudgetTotal:     decimal.RequireFromString("10.00"),
		BudgetRemaining: decimal.RequireFromString(remaining),
		Status:          domain.StatusActive,
	})
}

func doRequest(h *Handler, method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, vals := range header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)
	return rec
}

func TestFindAdsEndpoint(t *testing.T) {
	h, store := newTestHandler(t)
	id := seedCampaign(store, "10.00")

	rec := doRequest(h, http.MethodGet, "/api/v1/ads?keywords=car", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Ads []struct {
			ID            string `json:"id"`
			TargetURL     string `json:"target_url"`
			ImpressionURL string `json:"impression_url"`
			ClickURL      string `json:"click_url"`
		} `json:"ads"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Ads, 1)
	assert.Equal(t, id, body.Ads[0].ID)
	assert.Contains(t, body.Ads[0].ImpressionURL, "/api/v1/ads/"+id+"/impression")
	assert.Contains(t, body.Ads[0].ClickURL, "/api/v1/ads/"+id+"/click")
}

func TestFindAdsEndpointRequiresKeywords(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doRequest(h, http.MethodGet, "/api/v1/ads", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFindAdsEndpointPublisherKey(t *testing.T) {
	h, store := newTestHandler(t)
	seedCampaign(store, "10.00")
	pubID := store.PutPublisher(domain.Publisher{Name: "p", APIKey: "secret"})

	rec := doRequest(h, http.MethodGet, "/api/v1/ads?keywords=car&publisher_key=secret", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "publisher_id="+pubID)

	rec = doRequest(h, http.MethodGet, "/api/v1/ads?keywords=car&publisher_key=wrong", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListAdsEndpoint(t *testing.T) {
	h, store := newTestHandler(t)
	seedCampaign(store, "10.00")

	rec := doRequest(h, http.MethodGet, "/api/v1/ads/all", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Total        int    `json:"total"`
		StatusFilter string `json:"status_filter"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Total)
	assert.Equal(t, "active", body.StatusFilter)
}

func TestClickEndpointRedirects(t *testing.T) {
	h, store := newTestHandler(t)
	id := seedCampaign(store, "10.00")

	rec := doRequest(h, http.MethodGet, "/api/v1/ads/"+id+"/click", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://cars.example.com", rec.Header().Get("Location"))

	c, err := store.GetCampaign(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, c.BudgetRemaining.Equal(decimal.RequireFromString("9.50")))
}

func TestClickEndpointInsufficientBudgetStillRedirects(t *testing.T) {
	h, store := newTestHandler(t)
	id := seedCampaign(store, "0.10")

	rec := doRequest(h, http.MethodGet, "/api/v1/ads/"+id+"/click", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://cars.example.com", rec.Header().Get("Location"),
		"a charge failure must not break the user's redirect")
}

func TestClickEndpointUnknownCampaignFallsBack(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doRequest(h, http.MethodGet, "/api/v1/ads/00000000-0000-0000-0000-000000000000/click", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, fallbackURL, rec.Header().Get("Location"))
}

func TestImpressionEndpoint(t *testing.T) {
	h, store := newTestHandler(t)
	id := seedCampaign(store, "10.00")

	rec := doRequest(h, http.MethodGet, "/api/v1/ads/"+id+"/impression?keyword=cars", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)

	imps := store.Impressions()
	require.Len(t, imps, 1)
	assert.Equal(t, id, imps[0].CampaignID)
}

func TestImpressionEndpointServesPixel(t *testing.T) {
	h, store := newTestHandler(t)
	id := seedCampaign(store, "10.00")

	header := http.Header{}
	header.Set("Accept", "image/png")
	rec := doRequest(h, http.MethodGet, "/api/v1/ads/"+id+"/impression", header)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Body.Bytes())
}

func TestImpressionEndpointNeverFails(t *testing.T) {
	h, store := newTestHandler(t)
	id := seedCampaign(store, "10.00")
	store.FailAppends(true)

	rec := doRequest(h, http.MethodGet, "/api/v1/ads/"+id+"/impression", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "event-log faults must not surface to the tracker")
}
