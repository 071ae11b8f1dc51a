package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ApplicationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "applications_created_total",
			Help: "Total number of application records created, by backing store",
		},
		[]string{"store"},
	)

	DispatchOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_dispatch_outcomes_total",
			Help: "Terminal outcomes of agent dispatch runs",
		},
		[]string{"outcome"},
	)

	AgentCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agent_call_duration_seconds",
			Help:    "Duration of outbound run-task calls to the automation agent",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
		[]string{"platform"},
	)

	DispatchActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "agent_dispatch_active",
			Help: "Number of dispatch goroutines currently running",
		},
	)
)
