package handler

import (
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Reports are whole analyst write-ups, so pages stay small.
const (
	defaultReportLimit = 10
	maxReportLimit     = 50
)

type page struct {
	Limit  int
	Offset int
}

// parsePage reads ?limit= and ?offset=. Unparseable or negative values fall
// back to their defaults and limit is clamped to maxLimit.
func parsePage(c *gin.Context, defaultLimit, maxLimit int) page {
	p := page{
		Limit:  queryInt(c, "limit", defaultLimit),
		Offset: queryInt(c, "offset", 0),
	}

	if p.Limit < 1 {
		slog.Warn("invalid query parameter, using default", "param", "limit", "value", p.Limit, "default", defaultLimit)
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		slog.Warn("query parameter exceeds max, clamping", "param", "limit", "value", p.Limit, "max", maxLimit)
		p.Limit = maxLimit
	}
	if p.Offset < 0 {
		slog.Warn("invalid query parameter, using default", "param", "offset", "value", p.Offset, "default", 0)
		p.Offset = 0
	}

	return p
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("invalid query parameter, using default", "param", name, "value", raw, "error", err)
		return fallback
	}
	return v
}
