package algorithms

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"k8s.io/apimachinery/pkg/util/validation/field"
	"k8s.io/klog/v2"

	"github.com/mihai-snyk/subset-optimizer/pkg/evolution/fitness"
	"github.com/mihai-snyk/subset-optimizer/pkg/evolution/framework"
	"github.com/mihai-snyk/subset-optimizer/pkg/evolution/metrics"
	"github.com/mihai-snyk/subset-optimizer/pkg/evolution/operators"
)

const (
	Name = "GA"

	DefaultPopSize        = 100
	DefaultNumGenerations = 50
)

// OddPopulationPolicy decides what happens when the number of bred
// individuals per generation is odd. Breeding always produces pairs.
type OddPopulationPolicy string

const (
	// OddTruncate breeds floor(n/2) pairs, so the population shrinks by one.
	OddTruncate OddPopulationPolicy = "truncate"
	// OddRoundUp breeds ceil(n/2) pairs and discards the extra child.
	OddRoundUp OddPopulationPolicy = "round_up"
	// OddReject refuses to start the run.
	OddReject OddPopulationPolicy = "reject"
)

// State is the phase of the generational loop.
type State int

const (
	Initialized State = iota
	Evaluating
	Breeding
	Terminated
)

func (s State) String() string {
	switch s {
	case Initialized:
		return "Initialized"
	case Evaluating:
		return "Evaluating"
	case Breeding:
		return "Breeding"
	case Terminated:
		return "Terminated"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// GeneticAlgorithm is a generational, tournament-selection genetic algorithm
// for constrained subset selection.
type GeneticAlgorithm struct {
	Problem framework.Problem

	PopSize        int
	NumGenerations int
	TournamentSize int
	CrossoverKind  operators.CrossoverKind
	MutationKind   operators.MutationKind
	// MutationRate is the probability that a child is mutated. The default
	// of 1 mutates every child exactly once.
	MutationRate float64

	// Elitism carries the EliteCount best individuals of a generation over
	// to the next one unchanged.
	Elitism       bool
	EliteCount    int
	OddPopulation OddPopulationPolicy

	// Parallelism bounds the number of goroutines scoring a population.
	Parallelism int
	// CacheFitness memoizes scores by candidate for the duration of a run.
	CacheFitness bool

	evaluator *fitness.Evaluator
	crossover operators.Crossover
	mutation  operators.Mutation
	rng       framework.RandomSource
	logger    *logr.Logger
	metrics   *metrics.Metrics

	state State
}

// Option configures a GeneticAlgorithm.
type Option func(*GeneticAlgorithm)

func WithPopulationSize(n int) Option { return func(g *GeneticAlgorithm) { g.PopSize = n } }

func WithGenerations(n int) Option { return func(g *GeneticAlgorithm) { g.NumGenerations = n } }

func WithTournamentSize(n int) Option { return func(g *GeneticAlgorithm) { g.TournamentSize = n } }

func WithCrossover(kind operators.CrossoverKind) Option {
	return func(g *GeneticAlgorithm) { g.CrossoverKind = kind }
}

func WithMutation(kind operators.MutationKind) Option {
	return func(g *GeneticAlgorithm) { g.MutationKind = kind }
}

func WithMutationRate(rate float64) Option { return func(g *GeneticAlgorithm) { g.MutationRate = rate } }

// WithElitism enables elitism with count carried-over individuals.
func WithElitism(count int) Option {
	return func(g *GeneticAlgorithm) {
		g.Elitism = true
		g.EliteCount = count
	}
}

func WithOddPopulation(p OddPopulationPolicy) Option {
	return func(g *GeneticAlgorithm) { g.OddPopulation = p }
}

func WithParallelism(n int) Option { return func(g *GeneticAlgorithm) { g.Parallelism = n } }

func WithFitnessCache(enabled bool) Option { return func(g *GeneticAlgorithm) { g.CacheFitness = enabled } }

// WithRandomSource injects the randomness of the run.
func WithRandomSource(rng framework.RandomSource) Option {
	return func(g *GeneticAlgorithm) { g.rng = rng }
}

// WithSeed makes the run reproducible.
func WithSeed(seed uint64) Option {
	return func(g *GeneticAlgorithm) { g.rng = NewRandomSource(seed) }
}

// WithLogger overrides the logger taken from the context passed to Run.
func WithLogger(logger logr.Logger) Option {
	return func(g *GeneticAlgorithm) { g.logger = &logger }
}

func WithMetrics(m *metrics.Metrics) Option { return func(g *GeneticAlgorithm) { g.metrics = m } }

// NewGeneticAlgorithm creates a new instance of the GA for problem. Invalid
// parameters are reported as a *framework.ConfigurationError.
func NewGeneticAlgorithm(problem framework.Problem, opts ...Option) (*GeneticAlgorithm, error) {
	g := &GeneticAlgorithm{
		Problem:        problem,
		PopSize:        DefaultPopSize,
		NumGenerations: DefaultNumGenerations,
		TournamentSize: operators.DefaultTournamentSize,
		CrossoverKind:  operators.SinglePoint,
		MutationKind:   operators.Swap,
		MutationRate:   1,
		EliteCount:     1,
		OddPopulation:  OddTruncate,
		Parallelism:    1,
	}
	for _, opt := range opts {
		opt(g)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	evaluator, err := fitness.NewEvaluator(problem)
	if err != nil {
		return nil, err
	}
	g.evaluator = evaluator
	// Validate already rejected unknown kinds.
	g.crossover, _ = operators.NewCrossover(g.CrossoverKind)
	g.mutation, _ = operators.NewMutation(g.MutationKind)
	if g.rng == nil {
		g.rng = NewRandomSource(rand64())
	}
	return g, nil
}

func (g *GeneticAlgorithm) Name() string {
	return Name
}

// State returns the current phase of the generational loop.
func (g *GeneticAlgorithm) State() State {
	return g.state
}

// Validate checks the run parameters before any generation is bred.
func (g *GeneticAlgorithm) Validate() error {
	errs := validateProblem(g.Problem)
	errs = append(errs, g.validateParameters()...)
	if len(errs) > 0 {
		return framework.NewConfigurationError(errs)
	}
	return nil
}

func validateProblem(p framework.Problem) field.ErrorList {
	var errs field.ErrorList
	if p.Catalog == nil {
		return append(errs, field.Required(field.NewPath("catalog"), ""))
	}
	if p.K <= 0 {
		errs = append(errs, field.Invalid(field.NewPath("k"), p.K, "must be positive"))
	}
	if p.K > p.Catalog.Len() {
		errs = append(errs, field.Invalid(field.NewPath("k"), p.K,
			fmt.Sprintf("must not exceed the catalog size %d", p.Catalog.Len())))
	}
	return errs
}

func (g *GeneticAlgorithm) validateParameters() field.ErrorList {
	var errs field.ErrorList
	if g.PopSize <= 0 {
		errs = append(errs, field.Invalid(field.NewPath("populationSize"), g.PopSize, "must be positive"))
	}
	if g.NumGenerations <= 0 {
		errs = append(errs, field.Invalid(field.NewPath("generations"), g.NumGenerations, "must be positive"))
	}
	if g.MutationRate < 0 || g.MutationRate > 1 {
		errs = append(errs, field.Invalid(field.NewPath("mutationRate"), g.MutationRate, "must be within [0, 1]"))
	}
	if g.Parallelism < 1 {
		errs = append(errs, field.Invalid(field.NewPath("parallelism"), g.Parallelism, "must be at least 1"))
	}
	if _, err := operators.NewCrossover(g.CrossoverKind); err != nil {
		errs = append(errs, field.NotSupported(field.NewPath("crossover"), g.CrossoverKind, kindNames(operators.CrossoverKinds)))
	}
	if _, err := operators.NewMutation(g.MutationKind); err != nil {
		errs = append(errs, field.NotSupported(field.NewPath("mutation"), g.MutationKind, kindNames(operators.MutationKinds)))
	}

	elites := g.elites()
	if g.Elitism && (g.EliteCount < 1 || g.EliteCount >= g.PopSize) {
		errs = append(errs, field.Invalid(field.NewPath("eliteCount"), g.EliteCount,
			"must be at least 1 and smaller than the population size"))
	}

	bred := g.PopSize - elites
	switch g.OddPopulation {
	case OddTruncate, OddRoundUp:
	case OddReject:
		if bred%2 != 0 {
			errs = append(errs, field.Invalid(field.NewPath("populationSize"), g.PopSize,
				fmt.Sprintf("%d bred individuals per generation is odd", bred)))
		}
	default:
		errs = append(errs, field.NotSupported(field.NewPath("oddPopulation"), g.OddPopulation,
			[]string{string(OddTruncate), string(OddRoundUp), string(OddReject)}))
	}

	if g.PopSize > 0 {
		// Tournaments draw distinct contestants from the smallest
		// population the run will see.
		smallest := min(g.PopSize, g.nextGenerationSize())
		if g.TournamentSize < 1 || g.TournamentSize > smallest {
			errs = append(errs, field.Invalid(field.NewPath("tournamentSize"), g.TournamentSize,
				fmt.Sprintf("must be within [1, %d]", smallest)))
		}
	}
	return errs
}

func kindNames[T ~string](kinds []T) []string {
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}

func (g *GeneticAlgorithm) elites() int {
	if !g.Elitism {
		return 0
	}
	return g.EliteCount
}

// pairs returns the number of crossover pairs bred per generation.
func (g *GeneticAlgorithm) pairs() int {
	bred := g.PopSize - g.elites()
	if g.OddPopulation == OddRoundUp {
		return (bred + 1) / 2
	}
	return bred / 2
}

// nextGenerationSize is the size of every population after the first.
func (g *GeneticAlgorithm) nextGenerationSize() int {
	return min(g.PopSize, g.elites()+2*g.pairs())
}

// Result is the outcome of a run.
type Result struct {
	RunID string
	// Best is the fittest individual of the final population.
	Best   framework.Individual
	Items  []framework.Item
	Totals fitness.Totals
	// Feasible is false when even the best candidate is over budget.
	Feasible bool
	Trace    framework.FitnessTrace
	// Population is the final population, ranked by fitness.
	Population framework.Population
}

// Generations returns the generation indices covered by the trace.
func (r *Result) Generations() []int {
	return r.Trace.Generations()
}

// Initialize creates the first population: PopSize candidates of K distinct
// catalog items each.
func (g *GeneticAlgorithm) Initialize() framework.Population {
	g.state = Initialized
	population := make(framework.Population, g.PopSize)
	for i := range population {
		population[i] = framework.Individual{Genes: g.Problem.Catalog.Sample(g.Problem.K, g.rng)}
	}
	return population
}

// Evaluate scores every individual and ranks the population by ascending
// fitness. It returns the number of feasible individuals.
func (g *GeneticAlgorithm) Evaluate(score fitness.Func, population framework.Population) (int, error) {
	if g.Parallelism <= 1 {
		for i := range population {
			population[i].Fitness = score.Evaluate(population[i].Genes)
		}
	} else {
		var eg errgroup.Group
		eg.SetLimit(g.Parallelism)
		for i := range population {
			eg.Go(func() error {
				population[i].Fitness = score.Evaluate(population[i].Genes)
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return 0, err
		}
	}
	framework.SortByFitness(population)

	feasible := 0
	for _, ind := range population {
		if ind.Fitness != fitness.Infeasible {
			feasible++
		}
	}
	return feasible, nil
}

// Breed produces the next generation from a ranked population.
func (g *GeneticAlgorithm) Breed(population framework.Population) framework.Population {
	g.state = Breeding
	size := g.nextGenerationSize()
	next := make(framework.Population, 0, size+1)

	for i := 0; i < g.elites() && i < len(population); i++ {
		next = append(next, framework.Individual{
			Genes:   population[i].Genes.Clone(),
			Fitness: population[i].Fitness,
		})
	}

	for i := 0; i < g.pairs(); i++ {
		parent1 := operators.TournamentSelect(population, g.TournamentSize, g.rng)
		parent2 := operators.TournamentSelect(population, g.TournamentSize, g.rng)

		child1, child2 := g.crossover.Crossover(parent1.Genes, parent2.Genes, g.rng)
		child1 = g.mutate(child1)
		child2 = g.mutate(child2)

		next = append(next, framework.Individual{Genes: child1}, framework.Individual{Genes: child2})
	}
	return next[:size]
}

func (g *GeneticAlgorithm) mutate(c framework.Candidate) framework.Candidate {
	if g.MutationRate >= 1 || g.rng.Float64() < g.MutationRate {
		c = g.mutation.Mutate(c, g.Problem.Catalog, g.rng)
	}
	c.MustValidate(g.Problem.K, g.Problem.Catalog.Len())
	return c
}

// Run executes the generational loop for NumGenerations generations and
// returns the fittest candidate of the final population.
func (g *GeneticAlgorithm) Run(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	logger := klog.FromContext(ctx)
	if g.logger != nil {
		logger = *g.logger
	}
	logger = klog.LoggerWithValues(logger,
		"runID", runID,
		"algorithm", Name,
		"crossover", g.CrossoverKind,
		"mutation", g.MutationKind,
	)
	labels := metrics.Labels{Algorithm: Name, Crossover: string(g.CrossoverKind), Mutation: string(g.MutationKind)}

	var score fitness.Func = g.evaluator
	var cache *fitness.CachedEvaluator
	if g.CacheFitness {
		cache = fitness.NewCachedEvaluator(g.evaluator, 0)
		score = cache
	}

	logger.V(4).Info("Starting run", "problem", g.Problem.Name, "populationSize", g.PopSize,
		"generations", g.NumGenerations, "k", g.Problem.K, "elitism", g.Elitism, "oddPopulation", g.OddPopulation)

	population := g.Initialize()
	trace := make(framework.FitnessTrace, 0, g.NumGenerations)

	for gen := 0; gen < g.NumGenerations; gen++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		g.state = Evaluating
		feasible, err := g.Evaluate(score, population)
		if err != nil {
			return nil, fmt.Errorf("evaluating generation %d: %w", gen, err)
		}
		best := population[0].Fitness
		trace = append(trace, framework.TracePoint{Generation: gen, BestFitness: best, Feasible: feasible})
		g.metrics.ObserveGeneration(labels, len(population), best, feasible)
		logger.V(5).Info("Evaluated generation", "generation", gen, "bestFitness", best,
			"feasible", feasible, "populationSize", len(population))

		population = g.Breed(population)
	}

	// Rank the final population; it has not been scored yet.
	g.state = Evaluating
	if _, err := g.Evaluate(score, population); err != nil {
		return nil, fmt.Errorf("evaluating final population: %w", err)
	}
	g.state = Terminated

	best := population[0]
	totals := g.evaluator.Aggregate(best.Genes)
	result := &Result{
		RunID:      runID,
		Best:       best,
		Items:      g.Problem.Catalog.Items(best.Genes),
		Totals:     totals,
		Feasible:   totals.WithinBudget(g.Problem.Target.CostCeiling),
		Trace:      trace,
		Population: population,
	}
	g.metrics.ObserveRun(labels, result.Feasible)

	if cache != nil {
		hits, misses := cache.Stats()
		logger.V(4).Info("Fitness cache", "hits", hits, "misses", misses)
	}
	logger.V(4).Info("Finished run", "bestFitness", best.Fitness, "feasible", result.Feasible, "cost", totals.Cost)
	return result, nil
}
