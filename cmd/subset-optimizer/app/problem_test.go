package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"

	"github.com/mihai-snyk/subset-optimizer/apis/config/v1alpha1"
	"github.com/mihai-snyk/subset-optimizer/pkg/evolution/algorithms"
	"github.com/mihai-snyk/subset-optimizer/pkg/evolution/benchmarks"
	"github.com/mihai-snyk/subset-optimizer/pkg/evolution/operators"
)

func TestProblemFromConfigDefaultsToDiet(t *testing.T) {
	cfg := &v1alpha1.OptimizerConfiguration{}
	v1alpha1.SetDefaults_OptimizerConfiguration(cfg)
	problem, err := ProblemFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, benchmarks.DietName, problem.Name)
	assert.Equal(t, benchmarks.DietK, problem.K)
}

func TestProblemFromConfigCustomCatalog(t *testing.T) {
	cfg := &v1alpha1.OptimizerConfiguration{
		SelectionSize: ptr.To[int32](2),
		Catalog: &v1alpha1.CatalogSpec{
			Dimensions: []string{"protein", "fat"},
			Items: []v1alpha1.ItemSpec{
				{Name: "A", Attributes: map[string]float64{"fat": 1, "protein": 10}, Cost: 3},
				{Name: "B", Attributes: map[string]float64{"fat": 4, "protein": 2}, Cost: 1},
			},
		},
		Target: &v1alpha1.TargetSpec{
			DimensionTargets: map[string]float64{"protein": 12},
			CostCeiling:      10,
		},
	}
	problem, err := ProblemFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, problem.K)
	assert.Equal(t, 2, problem.Catalog.Len())
	assert.Equal(t, []float64{10, 1}, problem.Catalog.Item(0).Attributes)
	assert.Equal(t, 10.0, problem.Target.CostCeiling)
}

func TestProblemFromConfigDuplicateItems(t *testing.T) {
	cfg := &v1alpha1.OptimizerConfiguration{
		SelectionSize: ptr.To[int32](1),
		Catalog: &v1alpha1.CatalogSpec{
			Dimensions: []string{"x"},
			Items: []v1alpha1.ItemSpec{
				{Name: "A", Attributes: map[string]float64{"x": 1}},
				{Name: "A", Attributes: map[string]float64{"x": 2}},
			},
		},
		Target: &v1alpha1.TargetSpec{DimensionTargets: map[string]float64{"x": 1}},
	}
	_, err := ProblemFromConfig(cfg)
	assert.Error(t, err)
}

func TestAlgorithmOptions(t *testing.T) {
	cfg := &v1alpha1.OptimizerConfiguration{
		PopulationSize: ptr.To[int32](20),
		Generations:    ptr.To[int32](4),
		Elitism:        &v1alpha1.ElitismSpec{Enabled: true, Count: ptr.To[int32](2)},
		OddPopulation:  ptr.To("round_up"),
		Seed:           ptr.To[uint64](9),
	}
	v1alpha1.SetDefaults_OptimizerConfiguration(cfg)
	v := Variant{Crossover: operators.Uniform, Mutation: operators.Inverse}

	ga, err := algorithms.NewGeneticAlgorithm(benchmarks.Diet(), AlgorithmOptions(cfg, v)...)
	require.NoError(t, err)
	assert.Equal(t, 20, ga.PopSize)
	assert.Equal(t, 4, ga.NumGenerations)
	assert.Equal(t, operators.Uniform, ga.CrossoverKind)
	assert.Equal(t, operators.Inverse, ga.MutationKind)
	assert.True(t, ga.Elitism)
	assert.Equal(t, 2, ga.EliteCount)
	assert.Equal(t, algorithms.OddRoundUp, ga.OddPopulation)
	assert.Equal(t, "uniform+inverse", v.String())
}
