package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Pawissanan/Get-YouTube-View/domain/model"
	"github.com/Pawissanan/Get-YouTube-View/domain/repository"
	"github.com/Pawissanan/Get-YouTube-View/infrastructure/logger"
)

const (
	ChannelTTL  = time.Hour
	PlaylistTTL = 30 * time.Minute
)

// Key builds a deterministic cache key from parts.
func Key(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("yt:%x", hash[:12])
}

// CachedYouTube serves channel lookups and playlist pages from a store,
// falling back to the wrapped provider. Video details pass through.
// Keys are scoped to the credential so responses are never shared across keys.
type CachedYouTube struct {
	next        repository.IYouTube
	store       IStore
	scope       string
	channelTTL  time.Duration
	playlistTTL time.Duration
}

// NewCachedYouTube wraps next; scope is usually the API key.
func NewCachedYouTube(next repository.IYouTube, store IStore, scope string) *CachedYouTube {
	return &CachedYouTube{
		next:        next,
		store:       store,
		scope:       scope,
		channelTTL:  ChannelTTL,
		playlistTTL: PlaylistTTL,
	}
}

// WithTTL overrides the default TTLs; zero keeps the default.
func (c *CachedYouTube) WithTTL(channel, playlist time.Duration) *CachedYouTube {
	if channel > 0 {
		c.channelTTL = channel
	}
	if playlist > 0 {
		c.playlistTTL = playlist
	}
	return c
}

func (c *CachedYouTube) ResolveChannel(ctx context.Context, channelID string) (*model.ChannelRef, error) {
	key := Key(c.scope, "channel", channelID)
	var ref model.ChannelRef
	if c.load(ctx, key, &ref) {
		return &ref, nil
	}

	fresh, err := c.next.ResolveChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	c.save(ctx, key, fresh, c.channelTTL)
	return fresh, nil
}

func (c *CachedYouTube) ListPlaylistPage(ctx context.Context, playlistID, pageToken string) (*model.PlaylistPage, error) {
	key := Key(c.scope, "playlist", playlistID, pageToken)
	var page model.PlaylistPage
	if c.load(ctx, key, &page) {
		return &page, nil
	}

	fresh, err := c.next.ListPlaylistPage(ctx, playlistID, pageToken)
	if err != nil {
		return nil, err
	}
	c.save(ctx, key, fresh, c.playlistTTL)
	return fresh, nil
}

func (c *CachedYouTube) GetVideoDetails(ctx context.Context, videoID string) (*model.VideoDetails, error) {
	return c.next.GetVideoDetails(ctx, videoID)
}

// load reports a hit; store failures are logged and treated as a miss.
func (c *CachedYouTube) load(ctx context.Context, key string, target interface{}) bool {
	data, err := c.store.Get(ctx, key)
	if errors.Is(err, ErrCacheMiss) {
		return false
	}
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Cache read failed")
		return false
	}
	if err := json.Unmarshal(data, target); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Discarding undecodable cache entry")
		return false
	}
	return true
}

func (c *CachedYouTube) save(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Cache encode failed")
		return
	}
	if err := c.store.Set(ctx, key, data, ttl); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Cache write failed")
	}
}
