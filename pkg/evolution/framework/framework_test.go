package framework

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog([]string{"calories"}, []Item{
		{Name: "A", Attributes: []float64{100}, Cost: 10},
		{Name: "B", Attributes: []float64{50}, Cost: 5},
		{Name: "C", Attributes: []float64{25}, Cost: 1},
	})
	require.NoError(t, err)
	return c
}

func TestNewCatalogRejectsInvalidItems(t *testing.T) {
	_, err := NewCatalog([]string{"calories", "protein"}, []Item{
		{Name: "A", Attributes: []float64{1, 2}, Cost: 1},
		{Name: "A", Attributes: []float64{1, 2}, Cost: 1},
		{Name: "", Attributes: []float64{1}, Cost: -1},
	})
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	// duplicate name, empty name, attribute count, negative cost
	assert.Len(t, cfgErr.Errs, 4)
}

func TestCatalogIsNotAliased(t *testing.T) {
	attrs := []float64{100}
	c, err := NewCatalog([]string{"calories"}, []Item{{Name: "A", Attributes: attrs, Cost: 1}})
	require.NoError(t, err)

	attrs[0] = -1
	assert.Equal(t, 100.0, c.Item(0).Attributes[0])
	assert.Equal(t, 0, c.DimensionIndex("calories"))
	assert.Equal(t, -1, c.DimensionIndex("fat"))
}

func TestCatalogSampleDistinct(t *testing.T) {
	c := testCatalog(t)
	rng := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 100; i++ {
		cand := c.Sample(3, rng)
		require.NoError(t, cand.Validate(3, c.Len()))
		seen := map[int]bool{}
		for _, g := range cand {
			assert.False(t, seen[g], "gene %d sampled twice in %v", g, cand)
			seen[g] = true
		}
	}
}

func TestCandidateValidate(t *testing.T) {
	var dg *DegenerateGenome

	err := Candidate{0, 1}.Validate(3, 5)
	require.True(t, errors.As(err, &dg))
	assert.Equal(t, 3, dg.Want)
	assert.Equal(t, 2, dg.Got)

	err = Candidate{0, 7, 1}.Validate(3, 5)
	require.True(t, errors.As(err, &dg))
	assert.Equal(t, 1, dg.Position)

	assert.NoError(t, Candidate{0, 0, 4}.Validate(3, 5))
	assert.Panics(t, func() { Candidate{}.MustValidate(1, 5) })
}

func TestCandidateCloneAndKey(t *testing.T) {
	c := Candidate{3, 1, 2}
	clone := c.Clone()
	clone[0] = 9

	assert.Equal(t, "3,1,2", c.Key())
	assert.Equal(t, "9,1,2", clone.Key())
}

func TestTraceAccessors(t *testing.T) {
	trace := FitnessTrace{{Generation: 0, BestFitness: 3}, {Generation: 1, BestFitness: 2}}
	if diff := cmp.Diff([]int{0, 1}, trace.Generations()); diff != "" {
		t.Errorf("Generations() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{3, 2}, trace.BestFitness()); diff != "" {
		t.Errorf("BestFitness() mismatch (-want +got):\n%s", diff)
	}
}

func TestNonDominatedSort(t *testing.T) {
	pop := Population{
		{Objectives: []float64{1, 5}},
		{Objectives: []float64{2, 2}},
		{Objectives: []float64{3, 3}},
		{Objectives: []float64{5, 1}},
		{Objectives: []float64{4, 4}},
	}

	fronts := NonDominatedSort(pop)
	require.Len(t, fronts, 3)
	assert.Len(t, fronts[0], 3)
	assert.Equal(t, []float64{3, 3}, fronts[1][0].Objectives)
	assert.Equal(t, []float64{4, 4}, fronts[2][0].Objectives)
	assert.Equal(t, 2, pop[4].Rank)

	for i := range fronts[0] {
		for j := range fronts[0] {
			if i != j && Dominates(fronts[0][i], fronts[0][j]) {
				t.Error("First front contains dominated solutions")
			}
		}
	}
}

func TestSortByFitnessIsStable(t *testing.T) {
	pop := Population{
		{Genes: Candidate{0}, Fitness: 2},
		{Genes: Candidate{1}, Fitness: 1},
		{Genes: Candidate{2}, Fitness: 2},
	}
	SortByFitness(pop)
	assert.Equal(t, Candidate{1}, pop[0].Genes)
	assert.Equal(t, Candidate{0}, pop[1].Genes)
	assert.Equal(t, Candidate{2}, pop[2].Genes)
}
