package youtube

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/Pawissanan/Get-YouTube-View/domain/model"
	"github.com/Pawissanan/Get-YouTube-View/domain/repository"
)

// RateLimited paces calls to the wrapped provider. It waits; it never retries.
type RateLimited struct {
	next    repository.IYouTube
	limiter *rate.Limiter
}

// NewRateLimited allows rps calls per second with a burst of one.
// A non-positive rps returns next unchanged.
func NewRateLimited(next repository.IYouTube, rps float64) repository.IYouTube {
	if rps <= 0 {
		return next
	}
	return &RateLimited{next: next, limiter: rate.NewLimiter(rate.Limit(rps), 1)}
}

func (r *RateLimited) ResolveChannel(ctx context.Context, channelID string) (*model.ChannelRef, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.next.ResolveChannel(ctx, channelID)
}

func (r *RateLimited) ListPlaylistPage(ctx context.Context, playlistID, pageToken string) (*model.PlaylistPage, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.next.ListPlaylistPage(ctx, playlistID, pageToken)
}

func (r *RateLimited) GetVideoDetails(ctx context.Context, videoID string) (*model.VideoDetails, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.next.GetVideoDetails(ctx, videoID)
}
