package configs

import "time"

// Serving configures the ad-serving core.
type Serving struct {
	// CacheSize bounds the number of cached ad queries. Overflow evicts
	// the oldest inserted entry.
	CacheSize int `env:"CACHE_SIZE" envDefault:"100"`
	// CacheTTL bounds how stale a cached ad query may be served.
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	// FallbackRedirectURL is where a clicking user is sent when the
	// campaign is unknown and no better destination exists.
	FallbackRedirectURL string `env:"FALLBACK_REDIRECT_URL" envDefault:"https://example.com"`
}
