package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stockscout/internal/model"
	"stockscout/internal/repository"
)

type CacheStore interface {
	Entry(ctx context.Context, url string) (*model.CacheEntry, error)
	EvictExpired(ctx context.Context) (int64, error)
}

type CacheHandler struct {
	cache CacheStore
	now   func() time.Time
}

func NewCacheHandler(cache CacheStore) *CacheHandler {
	return &CacheHandler{cache: cache, now: time.Now}
}

// GetEntry serves a fresh cached summary. Expired entries are reported as
// missing, like a cache read would.
func (h *CacheHandler) GetEntry(c *gin.Context) {
	url, ok := model.CanonicalURL(c.Query("url"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid url"})
		return
	}

	entry, err := h.cache.Entry(c.Request.Context(), url)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !entry.ExpiresAt.After(h.now())) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Summary not cached"})
		return
	}

	if err != nil {
		slog.Error("error reading cache entry", "error", err, "url", url)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cache error"})
		return
	}

	c.JSON(http.StatusOK, CacheEntryResponse{
		URL:       entry.URL,
		Summary:   entry.Summary,
		ExpiresAt: entry.ExpiresAt.Format(time.RFC3339),
	})
}

func (h *CacheHandler) EvictExpired(c *gin.Context) {
	n, err := h.cache.EvictExpired(c.Request.Context())
	if err != nil {
		slog.Error("error evicting cache entries", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cache error"})
		return
	}

	slog.Info("cache sweep", "evicted", n)
	c.JSON(http.StatusOK, EvictResponse{Evicted: n})
}
