package repository

import (
	"context"
	"time"

	"github.com/Pawissanan/Get-YouTube-View/domain/model"
)

// IYouTubeCache defines a SQL-backed cache for video details
type IYouTubeCache interface {
	// GetVideo returns a cached video if present and not expired. It also returns the expiration time.
	GetVideo(ctx context.Context, videoID string) (*model.VideoDetails, *time.Time, error)
	// UpsertVideo stores/updates the cached video with a TTL from now.
	UpsertVideo(ctx context.Context, videoID string, video *model.VideoDetails, etag *string, ttl time.Duration) error
	// PurgeExpired deletes expired rows and returns how many were removed.
	PurgeExpired(ctx context.Context) (int64, error)
}
