// Package metrics holds the Prometheus collectors shared by the API and the
// workers. A nil *Metrics is valid and records nothing.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "worktracker"

type Metrics struct {
	JobReorders       *prometheus.CounterVec
	CategoryToggles   prometheus.Counter
	AttendanceEvents  *prometheus.CounterVec
	SessionsCompleted prometheus.Counter
	SessionMinutes    prometheus.Histogram
	MessagesProcessed *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		JobReorders: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_reorders_total",
			Help:      "Job reorder requests by outcome (applied, noop, reconciled).",
		}, []string{"outcome"}),
		CategoryToggles: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_category_toggles_total",
			Help:      "Jobs moved between the active and later lists.",
		}),
		AttendanceEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attendance_events_total",
			Help:      "Check-ins and check-outs, split by whether they fell outside the work window.",
		}, []string{"event", "outside_window"}),
		SessionsCompleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "work_sessions_completed_total",
			Help:      "Work sessions recorded.",
		}),
		SessionMinutes: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "work_session_minutes",
			Help:      "Length of recorded work sessions in minutes.",
			Buckets:   []float64{5, 15, 30, 60, 90, 120, 180, 240},
		}),
		MessagesProcessed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_messages_processed_total",
			Help:      "Queue messages handled by the background workers.",
		}, []string{"worker", "outcome"}),
	}
}

func (m *Metrics) ObserveReorder(outcome string) {
	if m == nil {
		return
	}
	m.JobReorders.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveCategoryToggle() {
	if m == nil {
		return
	}
	m.CategoryToggles.Inc()
}

func (m *Metrics) ObserveAttendance(event string, outsideWindow bool) {
	if m == nil {
		return
	}
	m.AttendanceEvents.WithLabelValues(event, strconv.FormatBool(outsideWindow)).Inc()
}

func (m *Metrics) ObserveSession(minutes int) {
	if m == nil {
		return
	}
	m.SessionsCompleted.Inc()
	m.SessionMinutes.Observe(float64(minutes))
}

func (m *Metrics) ObserveMessage(worker, outcome string) {
	if m == nil {
		return
	}
	m.MessagesProcessed.WithLabelValues(worker, outcome).Inc()
}
