package usecase

import (
	"sort"
	"strings"

	"contextads/internal/core/domain"
)

// normalizeKeywords trims, case-folds and drops empty search keywords.
func normalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}

// matchesKeywords reports whether the campaign matches any search
// keyword. The policy is a symmetric case-insensitive substring match
// against campaign keywords, widened to substring occurrence in the
// title or message so compound terms still land ("watches" matches a
// "Tissot watches" campaign via its title). Search keywords must
// already be normalized.
func matchesKeywords(c *domain.Campaign, keywords []string) bool {
	title := strings.ToLower(c.Title)
	message := strings.ToLower(c.Message)

	for _, search := range keywords {
		for _, ck := range c.Keywords {
			ck = strings.ToLower(strings.TrimSpace(ck))
			if ck == "" {
				continue
			}
			if strings.Contains(ck, search) || strings.Contains(search, ck) {
				return true
			}
		}
		if strings.Contains(title, search) || strings.Contains(message, search) {
			return true
		}
	}
	return false
}

// rankByBid orders campaigns by CPC bid descending, in place. Missing
// bids rank as zero. The sort is stable: equal bids keep the store's
// most-recent-first order.
func rankByBid(campaigns []domain.Campaign) {
	sort.SliceStable(campaigns, func(i, j int) bool {
		return campaigns[i].CPCBid.GreaterThan(campaigns[j].CPCBid)
	})
}
