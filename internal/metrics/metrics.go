// Package metrics exposes the Prometheus collectors for the ETL.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoadRunsTotal counts warehouse load runs by terminal status.
	LoadRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tubepulse",
		Subsystem: "load",
		Name:      "runs_total",
		Help:      "Warehouse load runs by terminal status.",
	}, []string{"status"})

	// PhaseDuration observes per-phase wall time.
	PhaseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tubepulse",
		Subsystem: "load",
		Name:      "phase_duration_seconds",
		Help:      "Duration of each warehouse load phase.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"phase"})

	// PhaseFailures counts phase failures by phase name.
	PhaseFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tubepulse",
		Subsystem: "load",
		Name:      "phase_failures_total",
		Help:      "Failed warehouse load phases.",
	}, []string{"phase"})

	// VideosCollected counts video records assembled by the collector.
	VideosCollected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tubepulse",
		Subsystem: "collect",
		Name:      "videos_total",
		Help:      "Video records assembled across all collection runs.",
	})

	// ChannelsCollected counts distinct channel records per collection run.
	ChannelsCollected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tubepulse",
		Subsystem: "collect",
		Name:      "channels_total",
		Help:      "Channel records assembled across all collection runs.",
	})
)
