package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Pawissanan/Get-YouTube-View/domain/model"
	"github.com/Pawissanan/Get-YouTube-View/infrastructure/logger"
)

// EnsureYouTubeCacheSchema creates the table for caching YouTube videos if not exists
func EnsureYouTubeCacheSchema(ctx context.Context, db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS youtube_video_cache (
        video_id TEXT PRIMARY KEY,
        etag TEXT,
        data JSONB NOT NULL,
        expires_at TIMESTAMPTZ NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL
    )`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create youtube_video_cache table: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_youtube_video_cache_expires_at ON youtube_video_cache(expires_at)`); err != nil {
		logger.GetLogger().WithField("error", err).Warn("failed creating idx_youtube_video_cache_expires_at")
	}
	return nil
}

// YouTubeCacheRepository caches video details in PostgreSQL as JSONB.
type YouTubeCacheRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewYouTubeCacheRepository(db *sql.DB) *YouTubeCacheRepository {
	return &YouTubeCacheRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// GetVideo returns a cached video and its expiry time if present and not expired.
// An expired row yields a nil video with the expiry set.
func (r *YouTubeCacheRepository) GetVideo(ctx context.Context, videoID string) (*model.VideoDetails, *time.Time, error) {
	if r.db == nil {
		return nil, nil, nil
	}
	row := r.db.QueryRowContext(ctx, `SELECT data, expires_at FROM youtube_video_cache WHERE video_id=$1`, videoID)
	var raw []byte
	var expiresAt time.Time
	if err := row.Scan(&raw, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to read cached video: %w", err)
	}
	return decodeCachedVideo(raw, expiresAt, r.now())
}

// UpsertVideo stores or updates the cache row with TTL from now
func (r *YouTubeCacheRepository) UpsertVideo(ctx context.Context, videoID string, video *model.VideoDetails, etag *string, ttl time.Duration) error {
	if r.db == nil {
		return nil
	}
	raw, err := json.Marshal(video)
	if err != nil {
		return err
	}
	now := r.now()
	q := `INSERT INTO youtube_video_cache(video_id, etag, data, expires_at, updated_at)
          VALUES ($1,$2,$3,$4,$5)
          ON CONFLICT (video_id) DO UPDATE SET etag=EXCLUDED.etag, data=EXCLUDED.data, expires_at=EXCLUDED.expires_at, updated_at=EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, q, videoID, nullableString(etag), raw, now.Add(ttl), now); err != nil {
		return fmt.Errorf("failed to upsert cached video: %w", err)
	}
	return nil
}

// PurgeExpired deletes rows whose TTL has elapsed.
func (r *YouTubeCacheRepository) PurgeExpired(ctx context.Context) (int64, error) {
	if r.db == nil {
		return 0, nil
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM youtube_video_cache WHERE expires_at <= $1`, r.now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge cached videos: %w", err)
	}
	return res.RowsAffected()
}

func decodeCachedVideo(raw []byte, expiresAt, now time.Time) (*model.VideoDetails, *time.Time, error) {
	if !now.Before(expiresAt) {
		return nil, &expiresAt, nil
	}
	var v model.VideoDetails
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, nil, fmt.Errorf("failed to decode cached video: %w", err)
	}
	return &v, &expiresAt, nil
}

func nullableString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
