package model

import (
	"net/url"
	"strings"
	"time"
)

type NewsCandidate struct {
	Title       string
	URL         string
	SourceLabel string
}

type NewsSummary struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

type CacheEntry struct {
	URL       string
	Summary   string
	ExpiresAt time.Time
}

// CanonicalURL trims raw and lower-cases its scheme and host so the same
// article always maps to the same dedup and cache key. Only absolute http(s)
// URLs are accepted.
func CanonicalURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}

	if u.Host == "" {
		return "", false
	}
	u.Host = strings.ToLower(u.Host)

	return u.String(), true
}
