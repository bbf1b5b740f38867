package youtube

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Pawissanan/Get-YouTube-View/domain/model"
	"github.com/Pawissanan/Get-YouTube-View/domain/repository"
	"github.com/Pawissanan/Get-YouTube-View/infrastructure/logger"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Client is a read-only YouTube Data API v3 client bound to one credential.
type Client struct {
	service *youtube.Service
}

// Config represents YouTube API configuration
type Config struct {
	APIKey       string `json:"api_key"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ErrNoCredential is returned when neither an API key nor a token is configured.
var ErrNoCredential = errors.New("youtube api key or access token is required")

// NewYouTubeClient creates a new YouTube API client.
// An API key is preferred; otherwise an OAuth token is used, refreshed through
// Google's endpoint when client credentials and a refresh token are present.
// Extra options are appended last so callers can override the endpoint.
func NewYouTubeClient(ctx context.Context, config *Config, opts ...option.ClientOption) (*Client, error) {
	var base []option.ClientOption
	switch {
	case config.APIKey != "":
		base = append(base, option.WithAPIKey(config.APIKey))
	case config.RefreshToken != "" && config.ClientID != "":
		oauth2Config := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Scopes:       []string{youtube.YoutubeReadonlyScope},
			Endpoint:     google.Endpoint,
		}
		token := &oauth2.Token{
			AccessToken:  config.AccessToken,
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
			Expiry:       time.Now().Add(-1 * time.Minute), // Force refresh on first use
		}
		base = append(base, option.WithTokenSource(oauth2Config.TokenSource(ctx, token)))
	case config.AccessToken != "":
		base = append(base, option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: config.AccessToken,
			TokenType:   "Bearer",
		})))
	default:
		return nil, ErrNoCredential
	}

	service, err := youtube.NewService(ctx, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &Client{service: service}, nil
}

// ResolveChannel looks up the uploads playlist and title of a channel.
func (c *Client) ResolveChannel(ctx context.Context, channelID string) (*model.ChannelRef, error) {
	response, err := c.service.Channels.List([]string{"contentDetails", "snippet"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}
	if len(response.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", repository.ErrChannelNotFound, channelID)
	}

	channel := response.Items[0]
	ref := &model.ChannelRef{ID: channelID}
	if channel.Snippet != nil {
		ref.Title = channel.Snippet.Title
	}
	if channel.ContentDetails != nil && channel.ContentDetails.RelatedPlaylists != nil {
		ref.UploadsPlaylistID = channel.ContentDetails.RelatedPlaylists.Uploads
	}
	if ref.UploadsPlaylistID == "" {
		return nil, fmt.Errorf("%w: %s has no uploads playlist", repository.ErrChannelNotFound, channelID)
	}
	return ref, nil
}

// ListPlaylistPage fetches one page of the playlist in playlist order.
func (c *Client) ListPlaylistPage(ctx context.Context, playlistID, pageToken string) (*model.PlaylistPage, error) {
	call := c.service.PlaylistItems.List([]string{"contentDetails"}).
		PlaylistId(playlistID).
		MaxResults(model.PageSize)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	response, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list playlist items: %w", err)
	}

	page := &model.PlaylistPage{
		Items:         make([]model.PlaylistItem, 0, len(response.Items)),
		NextPageToken: response.NextPageToken,
	}
	for _, item := range response.Items {
		if item.ContentDetails == nil || item.ContentDetails.VideoId == "" {
			continue
		}
		page.Items = append(page.Items, model.PlaylistItem{
			VideoID:     item.ContentDetails.VideoId,
			PublishedAt: item.ContentDetails.VideoPublishedAt,
		})
	}
	return page, nil
}

// GetVideoDetails fetches snippet and statistics of one video.
// A missing view count is reported as zero.
func (c *Client) GetVideoDetails(ctx context.Context, videoID string) (*model.VideoDetails, error) {
	response, err := c.service.Videos.List([]string{"statistics", "snippet"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get video details: %w", err)
	}
	if len(response.Items) == 0 {
		logger.GetLogger().WithField("videoId", videoID).Debug("videos.list returned no items")
		return nil, fmt.Errorf("%w: %s", repository.ErrVideoNotFound, videoID)
	}
	return convertToVideoDetails(response.Items[0]), nil
}

func convertToVideoDetails(video *youtube.Video) *model.VideoDetails {
	details := &model.VideoDetails{ID: video.Id, Etag: video.Etag}
	if video.Snippet != nil {
		details.Title = video.Snippet.Title
		details.Description = video.Snippet.Description
		details.PublishedAt = video.Snippet.PublishedAt
	}
	if video.Statistics != nil {
		details.ViewCount = video.Statistics.ViewCount
	}
	return details
}
