package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pawissanan/Get-YouTube-View/domain/model"
	"github.com/Pawissanan/Get-YouTube-View/infrastructure/cache"
	youtubeclient "github.com/Pawissanan/Get-YouTube-View/infrastructure/clients/youtube"
	"github.com/Pawissanan/Get-YouTube-View/infrastructure/configuration"
	"github.com/Pawissanan/Get-YouTube-View/infrastructure/metrics"
	"github.com/Pawissanan/Get-YouTube-View/infrastructure/persistence"
)

type nopStore struct{}

func (nopStore) Get(context.Context, string) ([]byte, error) { return nil, cache.ErrCacheMiss }

func (nopStore) Set(context.Context, string, []byte, time.Duration) error { return nil }

type nopVideoCache struct{}

func (nopVideoCache) GetVideo(context.Context, string) (*model.VideoDetails, *time.Time, error) {
	return nil, nil, nil
}

func (nopVideoCache) UpsertVideo(context.Context, string, *model.VideoDetails, *string, time.Duration) error {
	return nil
}

func (nopVideoCache) PurgeExpired(context.Context) (int64, error) { return 0, nil }

func TestNewDependencies_NothingConfigured(t *testing.T) {
	m := metrics.New()
	d := NewDependencies(context.Background(), configuration.Config{}, &configuration.YouTubeConfig{}, m)
	defer d.Close()

	assert.Nil(t, d.Store)
	assert.Nil(t, d.VideoCache)
	assert.Nil(t, d.Sheet)
	require.Len(t, d.Notifiers, 1)
	assert.Same(t, m, d.Notifiers[0])
	assert.Empty(t, d.HealthChecks())
}

func TestNewDependencies_UnknownBackendsAreSkipped(t *testing.T) {
	cfg := configuration.Config{
		Cache:    configuration.Cache{Backend: "etcd"},
		Database: configuration.Database{Driver: "oracle"},
	}
	d := NewDependencies(context.Background(), cfg, nil, nil)

	assert.Nil(t, d.Store)
	assert.Nil(t, d.VideoCache)
	assert.Empty(t, d.Notifiers)
}

func TestNewDependencies_Memcached(t *testing.T) {
	cfg := configuration.Config{
		Cache:     configuration.Cache{Backend: "memcached", Prefix: "t:"},
		Memcached: configuration.Memcached{Servers: []string{"127.0.0.1:11211"}},
	}
	d := NewDependencies(context.Background(), cfg, nil, nil)

	assert.IsType(t, &cache.MemcachedStore{}, d.Store)
	assert.Contains(t, d.HealthChecks(), "memcached")
}

func TestYouTubeFactory_Chain(t *testing.T) {
	ctx := context.Background()
	yt := &configuration.YouTubeConfig{RequestsPerSecond: 5}

	d := &Dependencies{youtube: yt, Metrics: metrics.New()}
	provider, err := d.YouTubeFactory()(ctx, "key")
	require.NoError(t, err)
	assert.IsType(t, &metrics.InstrumentedYouTube{}, provider)

	d.VideoCache = nopVideoCache{}
	d.cfg.Cache.VideoTTLSeconds = 60
	provider, err = d.YouTubeFactory()(ctx, "key")
	require.NoError(t, err)
	require.IsType(t, &persistence.YouTubeRepository{}, provider)
	assert.Equal(t, time.Minute, provider.(*persistence.YouTubeRepository).TTL)

	d.Store = nopStore{}
	provider, err = d.YouTubeFactory()(ctx, "key")
	require.NoError(t, err)
	assert.IsType(t, &cache.CachedYouTube{}, provider)
}

func TestYouTubeFactory_OAuthFallback(t *testing.T) {
	ctx := context.Background()

	d := &Dependencies{youtube: &configuration.YouTubeConfig{}}
	_, err := d.YouTubeFactory()(ctx, "")
	assert.ErrorIs(t, err, youtubeclient.ErrNoCredential)

	d.youtube.AccessToken = "token"
	provider, err := d.YouTubeFactory()(ctx, "")
	require.NoError(t, err)
	assert.IsType(t, &youtubeclient.Client{}, provider)
}
