package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Engine metrics
	EventsDispatchedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qnetsim_events_dispatched_total",
			Help: "Total number of events dispatched by the scheduler, by kind",
		},
		[]string{"kind"},
	)

	StaleEventsDiscardedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qnetsim_stale_events_discarded_total",
			Help: "Total number of stale departure/renege events silently discarded, by kind",
		},
		[]string{"kind"},
	)

	CustomersArrivedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qnetsim_customers_arrived_total",
			Help: "Total number of customer arrivals (external + routed), by node",
		},
		[]string{"node"},
	)

	CustomersRenegedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qnetsim_customers_reneged_total",
			Help: "Total number of post-warm-up customers who abandoned the queue before service, by node",
		},
		[]string{"node"},
	)

	ServerBreakdownsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qnetsim_server_breakdowns_total",
			Help: "Total number of post-warm-up server breakdown events, by node",
		},
		[]string{"node"},
	)

	// Replication metrics
	ReplicationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "qnetsim_replication_duration_seconds",
			Help:    "Wall-clock time to run a single replication",
			Buckets: prometheus.DefBuckets,
		},
	)

	ReplicationsCompletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "qnetsim_replications_completed_total",
			Help: "Total number of replications completed",
		},
	)

	ThroughputObserved = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "qnetsim_replication_throughput",
			Help:    "Per-replication throughput observations (post-warmup exits per unit effective time)",
			Buckets: prometheus.LinearBuckets(0, 0.5, 20),
		},
	)
)

func init() {
	prometheus.MustRegister(EventsDispatchedTotal)
	prometheus.MustRegister(StaleEventsDiscardedTotal)
	prometheus.MustRegister(CustomersArrivedTotal)
	prometheus.MustRegister(CustomersRenegedTotal)
	prometheus.MustRegister(ServerBreakdownsTotal)
	prometheus.MustRegister(ReplicationDuration)
	prometheus.MustRegister(ReplicationsCompletedTotal)
	prometheus.MustRegister(ThroughputObserved)
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	duration := time.Since(t.start).Seconds()
	histogram.Observe(duration)
}

// ObserveDurationVec records the duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	duration := time.Since(t.start).Seconds()
	histogram.WithLabelValues(labels...).Observe(duration)
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
