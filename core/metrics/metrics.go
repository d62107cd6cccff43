package metrics

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metric names.
const (
	MetricItemsTotal          = "bling_sync_items_total"
	MetricRateLimitedTotal    = "bling_sync_rate_limited_total"
	MetricPagesTotal          = "bling_sync_pages_total"
	MetricItemDurationSeconds = "bling_sync_item_duration_seconds"
	MetricRunning             = "bling_sync_running"
)

// Item results.
const (
	ResultProcessed = "processed"
	ResultSkipped   = "skipped"
	ResultFailed    = "failed"
)

// Recorder collects synchronization metrics into its own registry.
type Recorder struct {
	registry     *prometheus.Registry
	items        *prometheus.CounterVec
	rateLimited  *prometheus.CounterVec
	pages        *prometheus.CounterVec
	itemDuration *prometheus.HistogramVec
	running      *prometheus.GaugeVec
}

// NewRecorder creates a recorder with a private registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		items: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricItemsTotal,
			Help: "Items handled by the synchronizer, by kind and result.",
		}, []string{"kind", "result"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricRateLimitedTotal,
			Help: "Rate-limit responses received from the ERP.",
		}, []string{"kind"}),
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricPagesTotal,
			Help: "Listing pages fetched from the ERP.",
		}, []string{"kind"}),
		itemDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    MetricItemDurationSeconds,
			Help:    "Time spent reconciling a single item.",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		running: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: MetricRunning,
			Help: "1 while a run for the kind is in progress.",
		}, []string{"kind"}),
	}
	r.registry.MustRegister(r.items, r.rateLimited, r.pages, r.itemDuration, r.running)
	return r
}

// Registry exposes the underlying registry for gathering.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) RunStarted(kind string) {
	r.running.WithLabelValues(kind).Set(1)
}

func (r *Recorder) RunFinished(kind string) {
	r.running.WithLabelValues(kind).Set(0)
}

func (r *Recorder) PageFetched(kind string) {
	r.pages.WithLabelValues(kind).Inc()
}

func (r *Recorder) RateLimited(kind string) {
	r.rateLimited.WithLabelValues(kind).Inc()
}

func (r *Recorder) ItemDone(kind, result string, elapsed time.Duration) {
	r.items.WithLabelValues(kind, result).Inc()
	if result != ResultSkipped {
		r.itemDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	}
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
}

// Register mounts the handler on app when enabled.
func Register(app fiber.Router, cfg Config, r *Recorder) {
	if !cfg.Enabled || r == nil {
		return
	}
	path := cfg.Path
	if path == "" {
		path = "/metrics"
	}
	app.Get(path, r.Handler())
}
