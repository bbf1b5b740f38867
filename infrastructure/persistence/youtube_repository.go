package persistence

import (
	"context"
	"time"

	"github.com/Pawissanan/Get-YouTube-View/domain/model"
	"github.com/Pawissanan/Get-YouTube-View/domain/repository"
	"github.com/Pawissanan/Get-YouTube-View/infrastructure/logger"
)

// DefaultVideoTTL is how long video details stay in the SQL cache.
const DefaultVideoTTL = 10 * time.Minute

// YouTubeRepository implements repository.IYouTube and serves video details
// from the SQL cache before calling the API. Channel and playlist lookups are forwarded.
type YouTubeRepository struct {
	CacheRepo        repository.IYouTubeCache
	YouTubeAPIClient repository.IYouTube
	TTL              time.Duration
}

// NewYouTubeRepository wraps api with a video details cache.
func NewYouTubeRepository(api repository.IYouTube, cacheRepo repository.IYouTubeCache) *YouTubeRepository {
	return &YouTubeRepository{CacheRepo: cacheRepo, YouTubeAPIClient: api, TTL: DefaultVideoTTL}
}

func (r *YouTubeRepository) ResolveChannel(ctx context.Context, channelID string) (*model.ChannelRef, error) {
	return r.YouTubeAPIClient.ResolveChannel(ctx, channelID)
}

func (r *YouTubeRepository) ListPlaylistPage(ctx context.Context, playlistID, pageToken string) (*model.PlaylistPage, error) {
	return r.YouTubeAPIClient.ListPlaylistPage(ctx, playlistID, pageToken)
}

// GetVideoDetails reads through the cache. Cache errors are logged and never fail the lookup.
func (r *YouTubeRepository) GetVideoDetails(ctx context.Context, videoID string) (*model.VideoDetails, error) {
	if r.CacheRepo != nil {
		cached, _, err := r.CacheRepo.GetVideo(ctx, videoID)
		if err != nil {
			logger.GetLogger().WithField("error", err).WithField("videoId", videoID).Warn("Video cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}
	return r.FetchAndUpdateFromYouTube(ctx, videoID)
}

// FetchAndUpdateFromYouTube fetches the video from the API and refreshes the cache row.
func (r *YouTubeRepository) FetchAndUpdateFromYouTube(ctx context.Context, videoID string) (*model.VideoDetails, error) {
	video, err := r.YouTubeAPIClient.GetVideoDetails(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if r.CacheRepo != nil && video != nil {
		ttl := r.TTL
		if ttl <= 0 {
			ttl = DefaultVideoTTL
		}
		var etag *string
		if video.Etag != "" {
			etag = &video.Etag
		}
		if err := r.CacheRepo.UpsertVideo(ctx, videoID, video, etag, ttl); err != nil {
			logger.GetLogger().WithField("error", err).WithField("videoId", videoID).Warn("Video cache write failed")
		}
	}
	return video, nil
}
