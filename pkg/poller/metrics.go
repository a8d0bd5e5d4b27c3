package poller

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Collection cycle metrics
	cycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "conduit_cycle_duration_seconds",
			Help:    "Time taken to collect a complete fleet snapshot",
			Buckets: []float64{1, 5, 10, 15, 30, 60, 120},
		},
	)

	cycleTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conduit_cycle_total",
			Help: "Total number of collection cycles",
		},
		[]string{"status"}, // success or error
	)

	probeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "conduit_probe_duration_seconds",
			Help:    "Time taken to probe individual hosts",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 15, 30},
		},
		[]string{"alias"},
	)

	hostsOnline = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "conduit_hosts_online",
			Help: "Number of reachable hosts in the last cycle",
		},
	)

	totalConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "conduit_connections",
			Help: "Established tunnel connections across the fleet in the last cycle",
		},
	)
)
