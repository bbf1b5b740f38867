package metrics

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Pawissanan/Get-YouTube-View/domain/model"
	"github.com/Pawissanan/Get-YouTube-View/domain/repository"
)

// Metrics holds all Prometheus collectors of the extractor.
type Metrics struct {
	registry         *prometheus.Registry
	APICalls         *prometheus.CounterVec
	APICallDuration  *prometheus.HistogramVec
	Runs             prometheus.Counter
	ChannelOutcomes  *prometheus.CounterVec
	RowsExtracted    prometheus.Counter
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
}

// New creates the collectors on a fresh registry that also carries the Go and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		APICalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ytextract_youtube_api_calls_total",
				Help: "YouTube Data API calls, by method and outcome.",
			},
			[]string{"method", "outcome"},
		),
		APICallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ytextract_youtube_api_call_duration_seconds",
				Help:    "YouTube Data API call latency in seconds, by method.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		Runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ytextract_runs_total",
			Help: "Completed extraction runs.",
		}),
		ChannelOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ytextract_channel_outcomes_total",
				Help: "Processed channels, by terminal status.",
			},
			[]string{"status"},
		),
		RowsExtracted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ytextract_rows_extracted_total",
			Help: "Result rows produced across all runs.",
		}),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ytextract_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds, by route, method and status.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method", "status"},
		),
		RequestsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ytextract_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.APICalls, m.APICallDuration, m.Runs, m.ChannelOutcomes, m.RowsExtracted,
		m.RequestDuration, m.RequestsInFlight,
	)
	return m
}

// Registry exposes the registry for scraping and tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// Middleware records request latency and in-flight requests.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		m.RequestsInFlight.Inc()
		start := time.Now()
		c.Next()
		m.RequestsInFlight.Dec()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestDuration.
			WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// NotifyRunCompleted records a finished run; it lets Metrics act as a run notifier.
func (m *Metrics) NotifyRunCompleted(_ context.Context, summary model.RunSummary) error {
	m.Runs.Inc()
	m.ChannelOutcomes.WithLabelValues(string(model.ChannelSucceeded)).Add(float64(summary.Succeeded))
	m.ChannelOutcomes.WithLabelValues(string(model.ChannelSkipped)).Add(float64(summary.Skipped))
	m.ChannelOutcomes.WithLabelValues(string(model.ChannelFailed)).Add(float64(summary.Failed))
	m.RowsExtracted.Add(float64(summary.Rows))
	return nil
}

// InstrumentedYouTube counts and times every call of the wrapped provider.
type InstrumentedYouTube struct {
	next    repository.IYouTube
	metrics *Metrics
}

func (m *Metrics) InstrumentYouTube(next repository.IYouTube) *InstrumentedYouTube {
	return &InstrumentedYouTube{next: next, metrics: m}
}

func (i *InstrumentedYouTube) ResolveChannel(ctx context.Context, channelID string) (*model.ChannelRef, error) {
	start := time.Now()
	ref, err := i.next.ResolveChannel(ctx, channelID)
	i.observe("channels.list", start, err)
	return ref, err
}

func (i *InstrumentedYouTube) ListPlaylistPage(ctx context.Context, playlistID, pageToken string) (*model.PlaylistPage, error) {
	start := time.Now()
	page, err := i.next.ListPlaylistPage(ctx, playlistID, pageToken)
	i.observe("playlistItems.list", start, err)
	return page, err
}

func (i *InstrumentedYouTube) GetVideoDetails(ctx context.Context, videoID string) (*model.VideoDetails, error) {
	start := time.Now()
	video, err := i.next.GetVideoDetails(ctx, videoID)
	i.observe("videos.list", start, err)
	return video, err
}

func (i *InstrumentedYouTube) observe(method string, start time.Time, err error) {
	i.metrics.APICallDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	i.metrics.APICalls.WithLabelValues(method, outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, repository.ErrChannelNotFound), errors.Is(err, repository.ErrVideoNotFound):
		return "not_found"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
