package algorithms

import (
	"context"
	"math"
	"sort"

	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"github.com/mihai-snyk/subset-optimizer/pkg/evolution/framework"
	"github.com/mihai-snyk/subset-optimizer/pkg/evolution/metrics"
	"github.com/mihai-snyk/subset-optimizer/pkg/evolution/operators"
)

const (
	NSGAIIName = "NSGA-II"

	DefaultCrossoverRate = 0.8
)

// NSGAII treats deviation and cost as two separate objectives and returns
// the Pareto front of feasible selections instead of a single winner. It
// shares parameters, operators and randomness with GeneticAlgorithm;
// TournamentSize, Elitism and OddPopulation are not used because NSGA-II
// uses binary tournaments and (μ+λ) survivor selection.
type NSGAII struct {
	*GeneticAlgorithm

	CrossoverRate float64
}

// NewNSGAII creates a new instance of NSGA-II with given parameters
func NewNSGAII(problem framework.Problem, opts ...Option) (*NSGAII, error) {
	ga, err := NewGeneticAlgorithm(problem, opts...)
	if err != nil {
		return nil, err
	}
	return &NSGAII{
		GeneticAlgorithm: ga,
		CrossoverRate:    DefaultCrossoverRate,
	}, nil
}

func (n *NSGAII) Name() string {
	return NSGAIIName
}

// ParetoResult is the outcome of an NSGA-II run.
type ParetoResult struct {
	RunID string
	// Front holds the distinct candidates of the first non-dominated front,
	// ordered by ascending deviation.
	Front framework.Population
	// Trace records the best scalar fitness per generation, for comparison
	// with GeneticAlgorithm runs.
	Trace framework.FitnessTrace
}

// evaluate calculates objective values and the scalar fitness of an individual
func (n *NSGAII) evaluate(individual *framework.Individual) {
	individual.Objectives = n.evaluator.Objectives(individual.Genes)
	individual.Fitness = n.evaluator.Evaluate(individual.Genes)
}

// CrowdingDistance calculates crowding distance for individuals in a front
func CrowdingDistance(front framework.Population) {
	if len(front) <= 2 {
		for i := range front {
			front[i].Distance = math.Inf(1)
		}
		return
	}

	numObjectives := len(front[0].Objectives)
	for i := range front {
		front[i].Distance = 0
	}

	for m := 0; m < numObjectives; m++ {
		// Sort by each objective
		sort.Slice(front, func(i, j int) bool {
			return front[i].Objectives[m] < front[j].Objectives[m]
		})

		// Set boundary points to infinity
		front[0].Distance = math.Inf(1)
		front[len(front)-1].Distance = math.Inf(1)

		objectiveRange := front[len(front)-1].Objectives[m] - front[0].Objectives[m]
		if objectiveRange == 0 || math.IsInf(objectiveRange, 0) || math.IsNaN(objectiveRange) {
			continue
		}

		// Calculate distance for intermediate points
		for i := 1; i < len(front)-1; i++ {
			front[i].Distance += (front[i+1].Objectives[m] - front[i-1].Objectives[m]) / objectiveRange
		}
	}
}

func (n *NSGAII) offspring(population framework.Population) framework.Population {
	offspring := make(framework.Population, 0, n.PopSize+1)
	for len(offspring) < n.PopSize {
		parent1 := operators.ParetoTournamentSelect(population, n.rng)
		parent2 := operators.ParetoTournamentSelect(population, n.rng)

		var child1, child2 framework.Candidate
		if n.rng.Float64() < n.CrossoverRate {
			child1, child2 = n.crossover.Crossover(parent1.Genes, parent2.Genes, n.rng)
		} else {
			child1, child2 = parent1.Genes.Clone(), parent2.Genes.Clone()
		}

		offspring = append(offspring,
			framework.Individual{Genes: n.mutate(child1)},
			framework.Individual{Genes: n.mutate(child2)})
	}
	offspring = offspring[:n.PopSize]
	for i := range offspring {
		n.evaluate(&offspring[i])
	}
	return offspring
}

// survivors keeps the PopSize best individuals of combined by front, then by
// crowding distance within the last admitted front.
func (n *NSGAII) survivors(combined framework.Population) framework.Population {
	fronts := framework.NonDominatedSort(combined)

	population := make(framework.Population, 0, n.PopSize)
	for _, front := range fronts {
		CrowdingDistance(front)
		if len(population)+len(front) <= n.PopSize {
			population = append(population, front...)
			continue
		}
		sort.SliceStable(front, func(i, j int) bool {
			return front[i].Distance > front[j].Distance
		})
		population = append(population, front[:n.PopSize-len(population)]...)
		break
	}
	return population
}

// Run executes the NSGA-II algorithm
func (n *NSGAII) Run(ctx context.Context) (*ParetoResult, error) {
	runID := uuid.NewString()
	logger := klog.FromContext(ctx)
	if n.logger != nil {
		logger = *n.logger
	}
	logger = klog.LoggerWithValues(logger, "runID", runID, "algorithm", NSGAIIName,
		"crossover", n.CrossoverKind, "mutation", n.MutationKind)
	labels := metrics.Labels{Algorithm: NSGAIIName, Crossover: string(n.CrossoverKind), Mutation: string(n.MutationKind)}

	population := n.Initialize()
	for i := range population {
		n.evaluate(&population[i])
	}
	population = n.survivors(population)

	trace := make(framework.FitnessTrace, 0, n.NumGenerations)
	for gen := 0; gen < n.NumGenerations; gen++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n.state = Breeding
		offspring := n.offspring(population)

		n.state = Evaluating
		population = n.survivors(append(population, offspring...))

		point := bestOf(gen, population)
		trace = append(trace, point)
		n.metrics.ObserveGeneration(labels, len(offspring), point.BestFitness, point.Feasible)
		logger.V(5).Info("Evaluated generation", "generation", gen, "bestFitness", point.BestFitness,
			"feasible", point.Feasible)
	}
	n.state = Terminated

	front := firstFront(population)
	n.metrics.ObserveRun(labels, len(front) > 0 && !math.IsInf(front[0].Fitness, 1))
	logger.V(4).Info("Finished run", "frontSize", len(front))
	return &ParetoResult{RunID: runID, Front: front, Trace: trace}, nil
}

func bestOf(gen int, population framework.Population) framework.TracePoint {
	p := framework.TracePoint{Generation: gen, BestFitness: math.Inf(1)}
	for _, ind := range population {
		if !math.IsInf(ind.Fitness, 1) {
			p.Feasible++
		}
		p.BestFitness = math.Min(p.BestFitness, ind.Fitness)
	}
	return p
}

// firstFront returns the rank 0 individuals, one per distinct selection,
// ordered by their first objective.
func firstFront(population framework.Population) framework.Population {
	seen := make(map[string]bool)
	var front framework.Population
	for _, ind := range population {
		key := ind.Genes.SelectionKey()
		if ind.Rank != 0 || seen[key] {
			continue
		}
		seen[key] = true
		front = append(front, ind)
	}
	sort.SliceStable(front, func(i, j int) bool {
		return front[i].Objectives[0] < front[j].Objectives[0]
	})
	return front
}
