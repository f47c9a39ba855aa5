package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Participation results.
const (
	ResultSuccess           = "success"
	ResultNotJoinable       = "not_joinable"
	ResultRoleNotEligible   = "role_not_eligible"
	ResultPaymentRequired   = "payment_required"
	ResultCapacityExhausted = "capacity_exhausted"
	ResultAlreadyJoined     = "already_joined"
	ResultError             = "error"
)

// Metrics holds the application collectors.
type Metrics struct {
	// method, path, status_code
	HTTPRequestsTotal *prometheus.CounterVec

	// method, path
	HTTPRequestDuration *prometheus.HistogramVec

	// operation: join/leave, result: see Result constants
	ParticipationAttemptsTotal *prometheus.CounterVec

	// mode: single/bulk, decision: published/rejected
	ModerationsTotal *prometheus.CounterVec

	// mode: single/bulk
	ModeratedEventsTotal *prometheus.CounterVec

	// operation: acquire/release, status: success/failed
	DistributedLockDuration *prometheus.HistogramVec

	// result: hit/miss/error
	CapacityCacheTotal *prometheus.CounterVec

	CompletedEventsTotal prometheus.Counter
}

// New registers the collectors on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the collectors on reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ParticipationAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "participation_attempts_total",
				Help: "Total number of join and leave attempts",
			},
			[]string{"operation", "result"},
		),
		ModerationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moderations_total",
				Help: "Total number of moderation requests",
			},
			[]string{"mode", "decision"},
		),
		ModeratedEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moderated_events_total",
				Help: "Total number of events moved out of review",
			},
			[]string{"mode"},
		),
		DistributedLockDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "distributed_lock_duration_seconds",
				Help:    "Time spent on distributed lock operations",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation", "status"},
		),
		CapacityCacheTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "capacity_cache_requests_total",
				Help: "Capacity cache lookups by result",
			},
			[]string{"result"},
		),
		CompletedEventsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "completed_events_total",
				Help: "Events marked completed by the sweeper",
			},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ParticipationAttemptsTotal,
		m.ModerationsTotal,
		m.ModeratedEventsTotal,
		m.DistributedLockDuration,
		m.CapacityCacheTotal,
		m.CompletedEventsTotal,
	)

	return m
}

// RecordParticipation counts a join or leave attempt. Safe on a nil receiver.
func (m *Metrics) RecordParticipation(operation, result string) {
	if m == nil {
		return
	}
	m.ParticipationAttemptsTotal.WithLabelValues(operation, result).Inc()
}

// RecordModeration counts a moderation request and the events it moved.
func (m *Metrics) RecordModeration(mode, decision string, affected int) {
	if m == nil {
		return
	}
	m.ModerationsTotal.WithLabelValues(mode, decision).Inc()
	m.ModeratedEventsTotal.WithLabelValues(mode).Add(float64(affected))
}

func (m *Metrics) RecordCache(result string) {
	if m == nil {
		return
	}
	m.CapacityCacheTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordCompleted(n int) {
	if m == nil {
		return
	}
	m.CompletedEventsTotal.Add(float64(n))
}

func (m *Metrics) RecordLock(operation, status string, seconds float64) {
	if m == nil {
		return
	}
	m.DistributedLockDuration.WithLabelValues(operation, status).Observe(seconds)
}

var defaultMetrics *Metrics

// Init creates the default instance.
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get returns the default instance, nil before Init.
func Get() *Metrics {
	return defaultMetrics
}
