package usecase

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"contextads/internal/core/domain"
)

func campaignWith(title, message string, keywords ...string) domain.Campaign {
	return domain.Campaign{
		Title:    title,
		Message:  message,
		Keywords: keywords,
		Status:   domain.StatusActive,
	}
}

func TestMatchesKeywords(t *testing.T) {
	tests := []struct {
		name     string
		campaign domain.Campaign
		search   []string
		want     bool
	}{
		{
			name:     "exact keyword",
			campaign: campaignWith("t", "m", "cars"),
			search:   []string{"cars"},
			want:     true,
		},
		{
			name:     "search keyword inside campaign keyword",
			campaign: campaignWith("t", "m", "cars"),
			search:   []string{"car"},
			want:     true,
		},
		{
			name:     "campaign keyword inside search keyword",
			campaign: campaignWith("t", "m", "car"),
			search:   []string{"carsharing"},
			want:     true,
		},
		{
			name:     "keyword in title",
			campaign: campaignWith("Best Car Marketplace", "m"),
			search:   []string{"car"},
			want:     true,
		},
		{
			name:     "keyword in message",
			campaign: campaignWith("t", "Swiss Tissot watches on sale"),
			search:   []string{"watches"},
			want:     true,
		},
		{
			name:     "case insensitive",
			campaign: campaignWith("t", "m", "CARS"),
			search:   []string{"Car"},
			want:     true,
		},
		{
			name:     "no match",
			campaign: campaignWith("Best Car Marketplace", "great cars", "cars"),
			search:   []string{"zzz"},
			want:     false,
		},
		{
			name:     "any of several search keywords",
			campaign: campaignWith("t", "m", "hosting"),
			search:   []string{"zzz", "host"},
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchesKeywords(&tt.campaign, normalizeKeywords(tt.search))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeKeywords(t *testing.T) {
	got := normalizeKeywords([]string{"  Car ", "", "  ", "BOATS"})
	assert.Equal(t, []string{"car", "boats"}, got)
}

func TestRankByBid(t *testing.T) {
	bid := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }

	campaigns := []domain.Campaign{
		{ID: "a", CPCBid: bid("0.50")},
		{ID: "b", CPCBid: bid("2.00")},
		{ID: "c", CPCBid: bid("1.00")},
	}
	rankByBid(campaigns)

	got := []string{campaigns[0].ID, campaigns[1].ID, campaigns[2].ID}
	assert.Equal(t, []string{"b", "c", "a"}, got)
}

func TestRankByBidStableOnTies(t *testing.T) {
	bid := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }

	// Equal and missing bids must keep their incoming (store) order and
	// must not displace non-tied elements.
	campaigns := []domain.Campaign{
		{ID: "newest"},
		{ID: "older"},
		{ID: "paid", CPCBid: bid("0.10")},
		{ID: "oldest"},
	}
	rankByBid(campaigns)

	got := make([]string, 0, len(campaigns))
	for _, c := range campaigns {
		got = append(got, c.ID)
	}
	assert.Equal(t, []string{"paid", "newest", "older", "oldest"}, got)
}
