package app

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jsamuelsen/function-visualizer/internal/domain"
)

// Outcome labels for visualize_requests_total.
const (
	outcomeSuccess = "success"
	outcomeTimeout = "timeout"
)

// Metrics holds the pipeline's Prometheus collectors.
type Metrics struct {
	requests *prometheus.CounterVec
	points   prometheus.Histogram
	duration *prometheus.HistogramVec
}

// NewMetrics creates the pipeline collectors on reg. A nil reg leaves them
// unregistered, which keeps tests independent of the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "visualize_requests_total",
			Help: "Visualization requests by transform and outcome.",
		}, []string{"transform", "outcome"}),
		points: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "visualize_points_returned",
			Help:    "Points left after the finiteness and magnitude filters.",
			Buckets: []float64{0, 1, 10, 100, 250, 500, 750, 900, 1000},
		}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "visualize_duration_seconds",
			Help:    "Time spent in the expression pipeline.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"transform"}),
	}
}

// observe records one request. It is safe on a nil receiver.
func (m *Metrics) observe(t domain.Transform, outcome string, points int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(string(t), outcome).Inc()
	m.duration.WithLabelValues(string(t)).Observe(elapsed.Seconds())
	if outcome == outcomeSuccess {
		m.points.Observe(float64(points))
	}
}
