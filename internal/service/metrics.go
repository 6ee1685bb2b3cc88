package service

import "github.com/prometheus/client_golang/prometheus"

var (
	assignmentWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "talentdesk_assignment_writes_total", Help: "Assignment upserts by outcome"},
		[]string{"outcome"},
	)
	sideEffectFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "talentdesk_side_effect_failures_total", Help: "Best-effort notification/audit failures"},
		[]string{"kind"},
	)
	candidateViews = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "talentdesk_candidate_view_size",
			Help:    "Number of candidates returned by the visibility resolver",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		}, []string{"scope"},
	)
)

func init() { prometheus.MustRegister(assignmentWrites, sideEffectFailures, candidateViews) }
