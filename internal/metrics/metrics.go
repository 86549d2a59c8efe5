// Package metrics instruments generate-all batch runs with Prometheus
// collectors, adapted from the teacher's internal/service.MetricsService
// (a custom prometheus.Registry + promhttp handler rather than the global
// default registry, so multiple CLI invocations in the same process never
// collide on collector registration).
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder instruments one batch run's worth of generation phases (spec
// §4.11: CSP nodes explored, GGA generations run, final fitness, phase
// durations, NoSolution/Cancelled outcome counts).
type Recorder struct {
	registry *prometheus.Registry
	handler  http.Handler

	phaseDuration *prometheus.HistogramVec
	cspNodes      *prometheus.HistogramVec
	ggaGenerations *prometheus.HistogramVec
	finalFitness  *prometheus.HistogramVec
	outcomes      *prometheus.CounterVec
}

// New registers a fresh set of collectors against their own registry.
func New() *Recorder {
	registry := prometheus.NewRegistry()

	phaseDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "timetable_phase_duration_seconds",
		Help:    "Duration of each generation phase",
		Buckets: prometheus.DefBuckets,
	}, []string{"faculty", "term", "phase"})

	cspNodes := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "timetable_csp_nodes",
		Help:    "CSP search nodes explored per run",
		Buckets: prometheus.ExponentialBuckets(10, 2, 12),
	}, []string{"faculty", "term"})

	ggaGenerations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "timetable_gga_generations",
		Help:    "GGA generations run per optimization pass",
		Buckets: prometheus.LinearBuckets(0, 25, 20),
	}, []string{"faculty", "term"})

	finalFitness := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "timetable_final_fitness",
		Help:    "Final GGA fitness score per run",
		Buckets: prometheus.LinearBuckets(0, 0.1, 10),
	}, []string{"faculty", "term"})

	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_generation_outcomes_total",
		Help: "Count of generation runs by terminal status",
	}, []string{"faculty", "term", "status"})

	registry.MustRegister(phaseDuration, cspNodes, ggaGenerations, finalFitness, outcomes)

	return &Recorder{
		registry:       registry,
		handler:        promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		phaseDuration:  phaseDuration,
		cspNodes:       cspNodes,
		ggaGenerations: ggaGenerations,
		finalFitness:   finalFitness,
		outcomes:       outcomes,
	}
}

// Handler exposes the /metrics HTTP handler for a debug listener.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return r.handler
}

// ObservePhase records one phase's wall-clock duration.
func (r *Recorder) ObservePhase(faculty, term, phase string, d time.Duration) {
	if r == nil {
		return
	}
	r.phaseDuration.WithLabelValues(faculty, term, phase).Observe(d.Seconds())
}

// ObserveCSP records the CSP engine's search-node count for one run.
func (r *Recorder) ObserveCSP(faculty, term string, nodes int) {
	if r == nil {
		return
	}
	r.cspNodes.WithLabelValues(faculty, term).Observe(float64(nodes))
}

// ObserveGGA records one GGA pass's generation count and final fitness.
func (r *Recorder) ObserveGGA(faculty, term string, generations int, fitness float64) {
	if r == nil {
		return
	}
	r.ggaGenerations.WithLabelValues(faculty, term).Observe(float64(generations))
	r.finalFitness.WithLabelValues(faculty, term).Observe(fitness)
}

// ObserveOutcome increments the terminal-status counter for one run.
func (r *Recorder) ObserveOutcome(faculty, term, status string) {
	if r == nil {
		return
	}
	r.outcomes.WithLabelValues(faculty, term, status).Inc()
}

// Serve starts a background /metrics listener on addr, returning
// immediately; the caller should shut it down via the returned server's
// Shutdown or simply let it die with the process at batch end.
func Serve(addr string, r *Recorder) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		_ = srv.ListenAndServe()
	}()
	return srv
}
