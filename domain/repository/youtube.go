package repository

import (
	"context"
	"errors"

	"github.com/Pawissanan/Get-YouTube-View/domain/model"
)

var (
	// ErrChannelNotFound is returned when a channel lookup yields no items.
	ErrChannelNotFound = errors.New("channel not found")
	// ErrVideoNotFound is returned when a video lookup yields no items.
	ErrVideoNotFound = errors.New("video not found")
)

// IYouTube is the listing/metadata provider the extraction pipeline reads from.
// An implementation is bound to a single credential.
type IYouTube interface {
	// ResolveChannel maps a channel id to its uploads playlist and display name.
	ResolveChannel(ctx context.Context, channelID string) (*model.ChannelRef, error)
	// ListPlaylistPage returns one page of model.PageSize items; pageToken "" requests the first page.
	ListPlaylistPage(ctx context.Context, playlistID, pageToken string) (*model.PlaylistPage, error)
	// GetVideoDetails returns the snippet and statistics of one video.
	GetVideoDetails(ctx context.Context, videoID string) (*model.VideoDetails, error)
}

// YouTubeFactory builds a provider for the given API key.
type YouTubeFactory func(ctx context.Context, apiKey string) (IYouTube, error)
