package metrics

import (
	"math"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "subset_optimizer"

// Metrics instruments optimization runs. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	Generations *prometheus.CounterVec
	Evaluations *prometheus.CounterVec
	BestFitness *prometheus.GaugeVec
	Feasible    *prometheus.GaugeVec
	Runs        *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	labels := []string{"algorithm", "crossover", "mutation"}
	m := &Metrics{
		Generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Number of generations evaluated.",
		}, labels),
		Evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fitness_evaluations_total",
			Help:      "Number of candidate fitness evaluations.",
		}, labels),
		BestFitness: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "best_fitness",
			Help:      "Best fitness of the latest evaluated generation. Infeasible generations report -1.",
		}, labels),
		Feasible: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "feasible_candidates",
			Help:      "Number of candidates within budget in the latest evaluated generation.",
		}, labels),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Number of completed runs, by whether the result is within budget.",
		}, append(labels, "feasible")),
	}
	reg.MustRegister(m.Generations, m.Evaluations, m.BestFitness, m.Feasible, m.Runs)
	return m
}

// Labels identifies one run configuration.
type Labels struct {
	Algorithm string
	Crossover string
	Mutation  string
}

func (l Labels) values() []string {
	return []string{l.Algorithm, l.Crossover, l.Mutation}
}

// ObserveGeneration records one evaluated generation.
func (m *Metrics) ObserveGeneration(l Labels, evaluations int, best float64, feasible int) {
	if m == nil {
		return
	}
	m.Generations.WithLabelValues(l.values()...).Inc()
	m.Evaluations.WithLabelValues(l.values()...).Add(float64(evaluations))
	if math.IsInf(best, 1) {
		best = -1
	}
	m.BestFitness.WithLabelValues(l.values()...).Set(best)
	m.Feasible.WithLabelValues(l.values()...).Set(float64(feasible))
}

// ObserveRun records a finished run.
func (m *Metrics) ObserveRun(l Labels, feasible bool) {
	if m == nil {
		return
	}
	f := "false"
	if feasible {
		f = "true"
	}
	m.Runs.WithLabelValues(append(l.values(), f)...).Inc()
}
