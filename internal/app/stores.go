package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	"stockscout/db"
	"stockscout/internal/config"
	"stockscout/internal/model"
	"stockscout/internal/repository"
	"stockscout/internal/research"
)

// SummaryStore is a summary cache that can also show a raw entry.
type SummaryStore interface {
	research.SummaryCache
	Entry(ctx context.Context, url string) (*model.CacheEntry, error)
}

// Stores owns the database handles for the lifetime of a process.
type Stores struct {
	DB      *sql.DB
	Redis   *redis.Client
	Cache   SummaryStore
	Reports *repository.ReportRepository

	closers []func() error
}

// Connect opens Postgres and Redis when their URLs are set and builds the
// configured cache backend. An unreachable store is logged and left nil, so
// reports are not persisted and the cache falls back to SQLite.
func Connect(ctx context.Context, cfg *config.Config) (*Stores, error) {
	s := &Stores{}

	if cfg.Env.DatabaseURL != "" {
		conn, err := db.Connect(cfg.Env.DatabaseURL)
		if err != nil {
			slog.Warn("database unavailable, continuing without it", "error", err)
		} else {
			s.DB = conn
			s.closers = append(s.closers, conn.Close)

			if err := db.EnsureSchema(ctx, conn); err != nil {
				s.Close()
				return nil, err
			}
			s.Reports = repository.NewReportRepository(conn)
		}
	}

	if cfg.Env.RedisURL != "" {
		client, err := db.ConnectRedis(ctx, cfg.Env.RedisURL)
		if err != nil {
			slog.Warn("redis unavailable, continuing without it", "error", err)
		} else {
			s.Redis = client
			s.closers = append(s.closers, client.Close)
		}
	}

	cache, err := s.openCache(cfg)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.Cache = cache

	return s, nil
}

func (s *Stores) openCache(cfg *config.Config) (SummaryStore, error) {
	backend := strings.ToLower(cfg.Cache.Backend)

	switch {
	case backend == "none":
		return nil, nil
	case backend == "memory":
		return repository.NewMemoryCache(), nil
	case backend == "postgres" && s.DB != nil:
		return repository.NewSummaryCacheRepository(s.DB), nil
	case backend == "redis" && s.Redis != nil:
		return repository.NewRedisCache(s.Redis), nil
	case backend != "sqlite":
		slog.Warn("cache backend unavailable, falling back to sqlite", "backend", backend, "path", cfg.CachePath())
	}

	c, err := repository.OpenSQLiteCache(cfg.CachePath())
	if err != nil {
		return nil, fmt.Errorf("opening sqlite cache: %w", err)
	}
	s.closers = append(s.closers, c.Close)
	return c, nil
}

// SummaryCache returns the cache as the research interface, or a nil
// interface when caching is disabled.
func (s *Stores) SummaryCache() research.SummaryCache {
	if s.Cache == nil {
		return nil
	}
	return s.Cache
}

func (s *Stores) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	s.closers = nil
	return errors.Join(errs...)
}
