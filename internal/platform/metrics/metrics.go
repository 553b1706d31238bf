package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the portal.
type Metrics struct {
	ApplicationsCreated prometheus.Counter
	CrimeReportsCreated prometheus.Counter
	BulletinsPublished  prometheus.Counter
	StatusTransitions   *prometheus.CounterVec
	Logins              *prometheus.CounterVec
	RequestLatency      *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ApplicationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "portal_applications_created_total",
			Help: "Total number of incorporation requests submitted",
		}),
		CrimeReportsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "portal_crime_reports_created_total",
			Help: "Total number of crime reports submitted",
		}),
		BulletinsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "portal_bulletins_published_total",
			Help: "Total number of bulletins published",
		}),
		StatusTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_status_transitions_total",
			Help: "Status transitions applied by staff, by record kind",
		}, []string{"kind", "status"}),
		Logins: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_logins_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// IncrementApplicationsCreated increments the submissions counter by 1.
func (m *Metrics) IncrementApplicationsCreated() {
	if m != nil {
		m.ApplicationsCreated.Inc()
	}
}

// IncrementCrimeReportsCreated increments the reports counter by 1.
func (m *Metrics) IncrementCrimeReportsCreated() {
	if m != nil {
		m.CrimeReportsCreated.Inc()
	}
}

// IncrementBulletinsPublished increments the published counter by 1.
func (m *Metrics) IncrementBulletinsPublished() {
	if m != nil {
		m.BulletinsPublished.Inc()
	}
}

// IncrementStatusTransition records a staff status change.
func (m *Metrics) IncrementStatusTransition(kind, status string) {
	if m != nil {
		m.StatusTransitions.WithLabelValues(kind, status).Inc()
	}
}

// IncrementLogin records a login attempt outcome ("success" or "failure").
func (m *Metrics) IncrementLogin(outcome string) {
	if m != nil {
		m.Logins.WithLabelValues(outcome).Inc()
	}
}

// ObserveRequest records one request's latency.
func (m *Metrics) ObserveRequest(route, status string, d time.Duration) {
	if m != nil {
		m.RequestLatency.WithLabelValues(route, status).Observe(d.Seconds())
	}
}
