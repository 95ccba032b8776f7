// Package metrics exposes Prometheus collectors for notice submissions and drafts.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "notice_composer"

type Metrics struct {
	reg prometheus.Registerer

	submissions     *prometheus.CounterVec
	submitDuration  *prometheus.HistogramVec
	submitsRejected prometheus.Counter
	draftsCreated   prometheus.Counter
	draftsReleased  prometheus.Counter
}

// MustNewMetrics registers the collectors with reg, panicking on duplicate
// registration. Tests should pass a fresh prometheus.NewRegistry().
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		reg: reg,
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "submissions_total",
				Help:      "Settled notice submissions by outcome.",
			},
			[]string{"outcome"},
		),
		submitDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "submit_duration_seconds",
				Help:      "Time spent waiting for the post-notice endpoint.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		submitsRejected: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "submissions_rejected_total",
				Help:      "Submit attempts refused because one was already in flight.",
			},
		),
		draftsCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "drafts_created_total",
				Help:      "Drafts created by page loads.",
			},
		),
		draftsReleased: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "drafts_released_total",
				Help:      "Drafts dropped from memory by expiry or eviction.",
			},
		),
	}

	reg.MustRegister(m.submissions, m.submitDuration, m.submitsRejected, m.draftsCreated, m.draftsReleased)
	return m
}

func (m *Metrics) ObserveSubmission(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
	m.submitDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func (m *Metrics) SubmitRejected() {
	if m == nil {
		return
	}
	m.submitsRejected.Inc()
}

func (m *Metrics) DraftCreated() {
	if m == nil {
		return
	}
	m.draftsCreated.Inc()
}

func (m *Metrics) DraftReleased() {
	if m == nil {
		return
	}
	m.draftsReleased.Inc()
}

// TrackActiveDrafts exports the store size as drafts_active. The gauge is
// read from count on every scrape, so it always matches the store.
func (m *Metrics) TrackActiveDrafts(count func() int) {
	if m == nil {
		return
	}
	m.reg.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "drafts_active",
			Help:      "Drafts currently held in memory.",
		},
		func() float64 { return float64(count()) },
	))
}
