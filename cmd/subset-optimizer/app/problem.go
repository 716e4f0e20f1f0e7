package app

import (
	"fmt"

	"github.com/mihai-snyk/subset-optimizer/apis/config/v1alpha1"
	"github.com/mihai-snyk/subset-optimizer/pkg/evolution/algorithms"
	"github.com/mihai-snyk/subset-optimizer/pkg/evolution/benchmarks"
	"github.com/mihai-snyk/subset-optimizer/pkg/evolution/framework"
	"github.com/mihai-snyk/subset-optimizer/pkg/evolution/operators"
)

// ProblemFromConfig builds the problem described by cfg, falling back to the
// diet benchmark when no catalog is configured.
func ProblemFromConfig(cfg *v1alpha1.OptimizerConfiguration) (framework.Problem, error) {
	if cfg.Catalog == nil {
		return benchmarks.Diet(), nil
	}

	items := make([]framework.Item, len(cfg.Catalog.Items))
	for i, it := range cfg.Catalog.Items {
		items[i] = framework.Item{
			Name:       it.Name,
			Attributes: it.AttributeVector(cfg.Catalog.Dimensions),
			Cost:       it.Cost,
		}
	}
	catalog, err := framework.NewCatalog(cfg.Catalog.Dimensions, items)
	if err != nil {
		return framework.Problem{}, fmt.Errorf("building catalog: %w", err)
	}
	return framework.Problem{
		Name:    "custom",
		Catalog: catalog,
		Target: framework.TargetProfile{
			DimensionTargets: cfg.Target.DimensionTargets,
			Weights:          cfg.Target.Weights,
			CostCeiling:      cfg.Target.CostCeiling,
		},
		K: int(*cfg.SelectionSize),
	}, nil
}

// Variant is one crossover and mutation pairing to run.
type Variant struct {
	Crossover operators.CrossoverKind
	Mutation  operators.MutationKind
}

func (v Variant) String() string {
	return fmt.Sprintf("%s+%s", v.Crossover, v.Mutation)
}

// Variants returns every configured crossover and mutation combination.
func Variants(cfg *v1alpha1.OptimizerConfiguration) []Variant {
	out := make([]Variant, 0, len(cfg.Crossover)*len(cfg.Mutation))
	for _, c := range cfg.Crossover {
		for _, m := range cfg.Mutation {
			out = append(out, Variant{Crossover: operators.CrossoverKind(c), Mutation: operators.MutationKind(m)})
		}
	}
	return out
}

// AlgorithmOptions translates the defaulted configuration into optimizer
// options for one variant.
func AlgorithmOptions(cfg *v1alpha1.OptimizerConfiguration, v Variant) []algorithms.Option {
	opts := []algorithms.Option{
		algorithms.WithPopulationSize(int(*cfg.PopulationSize)),
		algorithms.WithGenerations(int(*cfg.Generations)),
		algorithms.WithTournamentSize(int(*cfg.TournamentSize)),
		algorithms.WithCrossover(v.Crossover),
		algorithms.WithMutation(v.Mutation),
		algorithms.WithMutationRate(*cfg.MutationRate),
		algorithms.WithOddPopulation(algorithms.OddPopulationPolicy(*cfg.OddPopulation)),
		algorithms.WithParallelism(int(*cfg.Parallelism)),
		algorithms.WithFitnessCache(*cfg.CacheFitness),
	}
	if cfg.Elitism.Enabled {
		opts = append(opts, algorithms.WithElitism(int(*cfg.Elitism.Count)))
	}
	if cfg.Seed != nil {
		opts = append(opts, algorithms.WithSeed(*cfg.Seed))
	}
	return opts
}
