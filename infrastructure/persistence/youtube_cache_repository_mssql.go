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

// EnsureYouTubeCacheSchemaMSSQL creates the cache table on MSSQL if not exists
func EnsureYouTubeCacheSchemaMSSQL(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("db is nil")
	}
	ddl := `IF NOT EXISTS (SELECT * FROM sys.objects WHERE object_id = OBJECT_ID(N'dbo.youtube_video_cache') AND type in (N'U'))
BEGIN
    CREATE TABLE dbo.youtube_video_cache (
        video_id NVARCHAR(64) NOT NULL PRIMARY KEY,
        etag NVARCHAR(256) NULL,
        data NVARCHAR(MAX) NOT NULL,
        expires_at DATETIMEOFFSET NOT NULL,
        updated_at DATETIMEOFFSET NOT NULL
    );
END`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create youtube_video_cache table (mssql): %w", err)
	}
	if _, err := db.ExecContext(ctx, `IF NOT EXISTS (SELECT * FROM sys.indexes WHERE name = 'idx_youtube_video_cache_expires_at' AND object_id = OBJECT_ID('dbo.youtube_video_cache'))
CREATE INDEX idx_youtube_video_cache_expires_at ON dbo.youtube_video_cache(expires_at)`); err != nil {
		logger.GetLogger().WithField("error", err).Warn("failed creating idx_youtube_video_cache_expires_at (mssql)")
	}
	return nil
}

// YouTubeCacheRepositoryMSSQL caches video details in SQL Server as NVARCHAR JSON.
type YouTubeCacheRepositoryMSSQL struct {
	db  *sql.DB
	now func() time.Time
}

func NewYouTubeCacheRepositoryMSSQL(db *sql.DB) *YouTubeCacheRepositoryMSSQL {
	return &YouTubeCacheRepositoryMSSQL{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// GetVideo returns cached video if not expired
func (r *YouTubeCacheRepositoryMSSQL) GetVideo(ctx context.Context, videoID string) (*model.VideoDetails, *time.Time, error) {
	if r.db == nil {
		return nil, nil, nil
	}
	row := r.db.QueryRowContext(ctx, `SELECT data, expires_at FROM dbo.youtube_video_cache WHERE video_id=@p1`, videoID)
	var raw string
	var expiresAt time.Time
	if err := row.Scan(&raw, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to read cached video (mssql): %w", err)
	}
	return decodeCachedVideo([]byte(raw), expiresAt, r.now())
}

// UpsertVideo stores/updates one row
func (r *YouTubeCacheRepositoryMSSQL) UpsertVideo(ctx context.Context, videoID string, video *model.VideoDetails, etag *string, ttl time.Duration) error {
	if r.db == nil {
		return nil
	}
	raw, err := json.Marshal(video)
	if err != nil {
		return err
	}
	now := r.now()
	q := `MERGE dbo.youtube_video_cache AS target
USING (SELECT @p1 AS video_id) AS src
ON (target.video_id = src.video_id)
WHEN MATCHED THEN UPDATE SET etag=@p2, data=@p3, expires_at=@p4, updated_at=@p5
WHEN NOT MATCHED THEN INSERT (video_id, etag, data, expires_at, updated_at)
VALUES (@p1, @p2, @p3, @p4, @p5);`
	if _, err := r.db.ExecContext(ctx, q, videoID, nullableString(etag), string(raw), now.Add(ttl), now); err != nil {
		return fmt.Errorf("failed to upsert cached video (mssql): %w", err)
	}
	return nil
}

// PurgeExpired deletes rows whose TTL has elapsed.
func (r *YouTubeCacheRepositoryMSSQL) PurgeExpired(ctx context.Context) (int64, error) {
	if r.db == nil {
		return 0, nil
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM dbo.youtube_video_cache WHERE expires_at <= @p1`, r.now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge cached videos (mssql): %w", err)
	}
	return res.RowsAffected()
}
