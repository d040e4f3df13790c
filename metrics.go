package orrery

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ticksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orrery_ticks_total",
			Help: "Total simulation ticks processed.",
		})

	simDays = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "orrery_sim_days",
			Help: "Simulated days elapsed since the build epoch.",
		})

	autopilotPhase = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "orrery_autopilot_phase",
			Help: "Current autopilot flight phase (0=disengaged, 1=align, 2=accelerate, 3=decelerate, 4=approach).",
		})

	navFaultsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orrery_nav_faults_total",
			Help: "Navigation faults raised by the autopilot.",
		})

	keplerIterations = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "orrery_kepler_iterations",
			Help:    "Newton-Raphson iterations per Kepler solve.",
			Buckets: prometheus.LinearBuckets(1, 2, 10),
		})
)

func init() {
	prometheus.MustRegister(ticksTotal, simDays, autopilotPhase, navFaultsTotal, keplerIterations)
}

func observeKeplerIterations(n int) {
	keplerIterations.Observe(float64(n))
}

// MetricsHandler returns the Prometheus metrics HTTP handler for the cmd to
// mount.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
