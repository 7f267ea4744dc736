package providers

import (
	"donwatch/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	SetLedgerSize(count int)
	IncDonations(method string)
	IncWatchOutcome(outcome string)
	SetActiveSessions(count int)
	IncFetchErrors(chain string)
	IncPriceRefresh(result string)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	ledgerSize          prometheus.Gauge
	donationsTotal      *prometheus.CounterVec
	watchOutcomes       *prometheus.CounterVec
	activeSessions      prometheus.Gauge
	fetchErrors         *prometheus.CounterVec
	priceRefreshes      *prometheus.CounterVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) SetLedgerSize(count int) {
	m.ledgerSize.Set(float64(count))
}

func (m *MetricsProvider) IncDonations(method string) {
	m.donationsTotal.WithLabelValues(method).Inc()
}

func (m *MetricsProvider) IncWatchOutcome(outcome string) {
	m.watchOutcomes.WithLabelValues(outcome).Inc()
}

func (m *MetricsProvider) SetActiveSessions(count int) {
	m.activeSessions.Set(float64(count))
}

func (m *MetricsProvider) IncFetchErrors(chain string) {
	m.fetchErrors.WithLabelValues(chain).Inc()
}

func (m *MetricsProvider) IncPriceRefresh(result string) {
	m.priceRefreshes.WithLabelValues(result).Inc()
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "donwatch_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "donwatch_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "donwatch_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "donwatch_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "donwatch_persistence_duration_seconds",
			Help:    "Duration of persistence operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		ledgerSize: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "donwatch_ledger_records",
			Help: "Number of donation records in the ledger",
		}),

		donationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "donwatch_donations_total",
			Help: "Recorded donations by detection method",
		}, []string{"method"}),

		watchOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "donwatch_watch_outcomes_total",
			Help: "Terminal watch session outcomes",
		}, []string{"outcome"}),

		activeSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "donwatch_watch_sessions_active",
			Help: "Watch sessions currently polling",
		}),

		fetchErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "donwatch_marker_fetch_errors_total",
			Help: "Transient marker fetch failures per chain",
		}, []string{"chain"}),

		priceRefreshes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "donwatch_price_refresh_total",
			Help: "Price refresh attempts by result",
		}, []string{"result"}),
	}
}

type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) SetLedgerSize(_ int)                              {}
func (n *noopMetrics) IncDonations(_ string)                            {}
func (n *noopMetrics) IncWatchOutcome(_ string)                         {}
func (n *noopMetrics) SetActiveSessions(_ int)                          {}
func (n *noopMetrics) IncFetchErrors(_ string)                          {}
func (n *noopMetrics) IncPriceRefresh(_ string)                         {}
