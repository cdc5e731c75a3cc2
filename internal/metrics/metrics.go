package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"apexcrm/internal/models"
)

const namespace = "apexcrm"

// Metrics holds the HTTP and pipeline collectors. It implements
// pipeline.Recorder and services.DealRecorder.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	BoardSessionsActive prometheus.Gauge
	StageMovesTotal     *prometheus.CounterVec
	StageMoveRollbacks  *prometheus.CounterVec
	DealsCreatedTotal   prometheus.Counter
	DealsDeletedTotal   prometheus.Counter
	NotificationsTotal  *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers the collectors with a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	return NewWithRegistry(reg, reg)
}

func NewWithRegistry(registerer prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		HTTPRequestsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		}),
		BoardSessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "board_sessions_active",
			Help:      "Open pipeline board websocket sessions",
		}),
		StageMovesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_moves_total",
			Help:      "Committed drag-and-drop stage moves",
		}, []string{"from", "to"}),
		StageMoveRollbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_move_rollbacks_total",
			Help:      "Stage moves rolled back after a failed save",
		}, []string{"to"}),
		DealsCreatedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deals_created_total",
			Help:      "Deals created",
		}),
		DealsDeletedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deals_deleted_total",
			Help:      "Deals deleted",
		}),
		NotificationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notifications fanned out, by kind",
		}, []string{"kind"}),
		gatherer: gatherer,
	}
}

func (m *Metrics) MoveCommitted(from, to models.Stage) {
	m.StageMovesTotal.WithLabelValues(string(from), string(to)).Inc()
}

func (m *Metrics) MoveRolledBack(to models.Stage) {
	m.StageMoveRollbacks.WithLabelValues(string(to)).Inc()
}

func (m *Metrics) DealCreated() { m.DealsCreatedTotal.Inc() }
func (m *Metrics) DealDeleted() { m.DealsDeletedTotal.Inc() }

func (m *Metrics) SessionOpened() { m.BoardSessionsActive.Inc() }
func (m *Metrics) SessionClosed() { m.BoardSessionsActive.Dec() }

func (m *Metrics) NotificationSent(kind string) {
	m.NotificationsTotal.WithLabelValues(kind).Inc()
}

// Middleware records request count and latency per route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}
		start := time.Now()
		m.HTTPRequestsInFlight.Inc()

		c.Next()

		m.HTTPRequestsInFlight.Dec()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() gin.HandlerFunc {
	var h http.Handler = promhttp.Handler()
	if m.gatherer != nil {
		h = promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
	}
	return gin.WrapH(h)
}
