package server

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Pawissanan/Get-YouTube-View/domain/repository"
	"github.com/Pawissanan/Get-YouTube-View/infrastructure/cache"
	youtubeclient "github.com/Pawissanan/Get-YouTube-View/infrastructure/clients/youtube"
	"github.com/Pawissanan/Get-YouTube-View/infrastructure/configuration"
	"github.com/Pawissanan/Get-YouTube-View/infrastructure/googlesheet"
	"github.com/Pawissanan/Get-YouTube-View/infrastructure/logger"
	"github.com/Pawissanan/Get-YouTube-View/infrastructure/metrics"
	"github.com/Pawissanan/Get-YouTube-View/infrastructure/persistence"
	"github.com/Pawissanan/Get-YouTube-View/infrastructure/pubsub"
	"github.com/Pawissanan/Get-YouTube-View/infrastructure/servicebus"
	httpHandler "github.com/Pawissanan/Get-YouTube-View/interfaces/http"
)

// Dependencies holds the optional infrastructure shared by the server and the CLI.
// A component that is not configured or cannot be reached is left nil.
type Dependencies struct {
	Metrics    *metrics.Metrics
	Store      cache.IStore
	VideoCache repository.IYouTubeCache
	Sheet      repository.ISheetExporter
	Notifiers  []repository.IRunNotifier

	youtube *configuration.YouTubeConfig
	cfg     configuration.Config
	checks  map[string]httpHandler.HealthCheck
	closers []func() error
}

// NewDependencies connects everything cfg enables. Failures are logged and the
// component is skipped so a run can still go straight to the API.
func NewDependencies(ctx context.Context, cfg configuration.Config, yt *configuration.YouTubeConfig, m *metrics.Metrics) *Dependencies {
	d := &Dependencies{
		Metrics: m,
		youtube: yt,
		cfg:     cfg,
		checks:  map[string]httpHandler.HealthCheck{},
	}
	if m != nil {
		d.Notifiers = append(d.Notifiers, m)
	}
	d.initCache(ctx)
	d.initDatabase(ctx)
	d.initGoogleSheet(ctx)
	d.initPubSub(ctx)
	d.initServiceBus(ctx)
	return d
}

func (d *Dependencies) initCache(ctx context.Context) {
	switch d.cfg.Cache.Backend {
	case "redis":
		rc := d.cfg.RedisClient
		client, err := cache.NewCache(ctx, fmt.Sprintf("%s:%s", rc.Host, rc.Port), rc.Username, rc.Password, rc.DB)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Redis not available - continuing without response cache")
			return
		}
		d.Store = cache.NewRedisStore(client, d.cfg.Cache.Prefix)
		d.checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		d.closers = append(d.closers, client.Close)
		logger.GetLogger().Info("Redis client initialized successfully.")
	case "memcached":
		if len(d.cfg.Memcached.Servers) == 0 {
			logger.GetLogger().Warn("Memcached selected without servers - continuing without response cache")
			return
		}
		store := cache.NewMemcachedStore(d.cfg.Memcached.Servers, d.cfg.Cache.Prefix)
		d.Store = store
		d.checks["memcached"] = store.Ping
	case "":
	default:
		logger.GetLogger().WithField("backend", d.cfg.Cache.Backend).Warn("Unknown cache backend - continuing without response cache")
	}
}

func (d *Dependencies) initDatabase(ctx context.Context) {
	var (
		db     *sql.DB
		err    error
		ensure func(context.Context, *sql.DB) error
	)
	switch d.cfg.Database.Driver {
	case "postgres", "postgresql":
		db, err = persistence.NewPostgreSQLDB(d.cfg.Database.Psql)
		ensure = persistence.EnsureYouTubeCacheSchema
	case "mssql", "sqlserver":
		db, err = persistence.NewMSSQLDB(d.cfg.Database.Mssql)
		ensure = persistence.EnsureYouTubeCacheSchemaMSSQL
	case "":
		return
	default:
		logger.GetLogger().WithField("driver", d.cfg.Database.Driver).Warn("Unknown database driver - continuing without video cache")
		return
	}
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Database not available - continuing without video cache")
		return
	}
	if err := ensure(ctx, db); err != nil {
		logger.GetLogger().WithField("error", err).Error("failed ensuring youtube cache schema")
		_ = db.Close()
		return
	}

	var videoCache repository.IYouTubeCache
	if isMSSQL(d.cfg.Database.Driver) {
		videoCache = persistence.NewYouTubeCacheRepositoryMSSQL(db)
	} else {
		videoCache = persistence.NewYouTubeCacheRepository(db)
	}
	if purged, err := videoCache.PurgeExpired(ctx); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Error while purge expired videos")
	} else {
		logger.GetLogger().WithField("purged", purged).Info("Video cache ready")
	}
	d.VideoCache = videoCache
	d.checks["database"] = db.PingContext
	d.closers = append(d.closers, db.Close)
}

func isMSSQL(driver string) bool {
	return driver == "mssql" || driver == "sqlserver"
}

func (d *Dependencies) initGoogleSheet(ctx context.Context) {
	gs := d.cfg.GoogleSheet
	if gs.SpreadsheetId == "" {
		return
	}
	sheet, err := googlesheet.NewGoogleSheet(ctx, googlesheet.Config{
		SpreadsheetID:   gs.SpreadsheetId,
		SheetName:       gs.SheetName,
		CredentialsFile: gs.CredentialsFile,
	})
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Error while loading Google Sheet - sheet export disabled")
		return
	}
	d.Sheet = sheet
}

func (d *Dependencies) initPubSub(ctx context.Context) {
	ps := d.cfg.Pubsub
	if ps.ProjectID == "" || ps.TopicID == "" {
		return
	}
	client, err := pubsub.NewPubSub(ctx, ps.ProjectID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while instantiate PubSub")
		return
	}
	d.Notifiers = append(d.Notifiers, pubsub.NewRunNotifier(client, ps.TopicID))
	d.closers = append(d.closers, client.Close)
}

func (d *Dependencies) initServiceBus(ctx context.Context) {
	sb := d.cfg.ServiceBus
	if sb.Namespace == "" || sb.Queue == "" {
		return
	}
	client, err := servicebus.NewServiceBus(ctx, sb.Namespace)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Azure Service Bus not available - continuing without Service Bus notifications")
		return
	}
	d.Notifiers = append(d.Notifiers, servicebus.NewRunNotifier(client, sb.Queue))
	d.closers = append(d.closers, func() error { return client.Close(context.Background()) })
}

// YouTubeFactory builds the provider chain for one run:
// response cache -> SQL video cache -> metrics -> rate limiter -> API client.
// An empty apiKey falls back to the configured OAuth credential.
func (d *Dependencies) YouTubeFactory() repository.YouTubeFactory {
	return func(ctx context.Context, apiKey string) (repository.IYouTube, error) {
		clientCfg := &youtubeclient.Config{APIKey: apiKey}
		scope := "key:" + apiKey
		if apiKey == "" && d.youtube != nil {
			clientCfg.ClientID = d.youtube.ClientID
			clientCfg.ClientSecret = d.youtube.ClientSecret
			clientCfg.AccessToken = d.youtube.AccessToken
			clientCfg.RefreshToken = d.youtube.RefreshToken
			scope = "oauth:" + d.youtube.ClientID + ":" + d.youtube.RefreshToken + d.youtube.AccessToken
		}
		client, err := youtubeclient.NewYouTubeClient(ctx, clientCfg)
		if err != nil {
			return nil, err
		}

		var yt repository.IYouTube = client
		if d.youtube != nil {
			yt = youtubeclient.NewRateLimited(yt, d.youtube.RequestsPerSecond)
		}
		if d.Metrics != nil {
			yt = d.Metrics.InstrumentYouTube(yt)
		}
		if d.VideoCache != nil {
			repo := persistence.NewYouTubeRepository(yt, d.VideoCache)
			if ttl := d.cfg.Cache.VideoTTLSeconds; ttl > 0 {
				repo.TTL = time.Duration(ttl) * time.Second
			}
			yt = repo
		}
		if d.Store != nil {
			cached := cache.NewCachedYouTube(yt, d.Store, scope)
			cached.WithTTL(
				time.Duration(d.cfg.Cache.ChannelTTLSeconds)*time.Second,
				time.Duration(d.cfg.Cache.PlaylistTTLSeconds)*time.Second,
			)
			yt = cached
		}
		return yt, nil
	}
}

// HealthChecks returns a ping per connected dependency.
func (d *Dependencies) HealthChecks() map[string]httpHandler.HealthCheck {
	return d.checks
}

// Close releases every connection opened by NewDependencies.
func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Error while close dependency")
		}
	}
}
