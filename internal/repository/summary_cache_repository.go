package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"stockscout/internal/model"
)

// SummaryCacheRepository is the Postgres summary cache. Each call is a
// single statement on the pooled handle.
type SummaryCacheRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSummaryCacheRepository(db *sql.DB) *SummaryCacheRepository {
	return &SummaryCacheRepository{db: db, now: time.Now}
}

func (r *SummaryCacheRepository) Get(ctx context.Context, url string) (string, bool, error) {
	var summary string
	err := r.db.QueryRowContext(ctx, `
		SELECT summary
		FROM summary_cache
		WHERE url = $1 AND expires_at > $2
	`, url, r.now()).Scan(&summary)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}

	if err != nil {
		return "", false, err
	}

	return summary, true, nil
}

func (r *SummaryCacheRepository) Put(ctx context.Context, url, summary string, ttl time.Duration) error {
	now := r.now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO summary_cache(url, summary, expires_at, updated_at)
		VALUES($1, $2, $3, $4)
		ON CONFLICT (url) DO UPDATE SET
			summary = EXCLUDED.summary,
			expires_at = EXCLUDED.expires_at,
			updated_at = EXCLUDED.updated_at
	`, url, summary, now.Add(ttlOrDefault(ttl)), now)
	return err
}

func (r *SummaryCacheRepository) EvictExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM summary_cache WHERE expires_at < $1
	`, r.now())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Entry returns the stored row regardless of expiry.
func (r *SummaryCacheRepository) Entry(ctx context.Context, url string) (*model.CacheEntry, error) {
	var e model.CacheEntry
	err := r.db.QueryRowContext(ctx, `
		SELECT url, summary, expires_at
		FROM summary_cache
		WHERE url = $1
	`, url).Scan(&e.URL, &e.Summary, &e.ExpiresAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return &e, nil
}
