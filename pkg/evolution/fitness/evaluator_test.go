package fitness

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mihai-snyk/subset-optimizer/pkg/evolution/framework"
)

func twoItemProblem(t *testing.T, ceiling float64) framework.Problem {
	t.Helper()
	catalog, err := framework.NewCatalog([]string{"dim0"}, []framework.Item{
		{Name: "A", Attributes: []float64{100}, Cost: 10},
		{Name: "B", Attributes: []float64{50}, Cost: 5},
	})
	require.NoError(t, err)
	return framework.Problem{
		Name:    "two-items",
		Catalog: catalog,
		Target: framework.TargetProfile{
			DimensionTargets: map[string]float64{"dim0": 150},
			CostCeiling:      ceiling,
		},
		K: 2,
	}
}

func TestEvaluateWithinBudget(t *testing.T) {
	e, err := NewEvaluator(twoItemProblem(t, 20))
	require.NoError(t, err)

	totals := e.Aggregate(framework.Candidate{0, 1})
	assert.Equal(t, []float64{150}, totals.Attributes)
	assert.Equal(t, 15.0, totals.Cost)
	assert.True(t, totals.WithinBudget(20))

	assert.InDelta(t, 1.5, e.Evaluate(framework.Candidate{0, 1}), 1e-12)
	// [A, A] = 200 calories, cost 20: deviation 50 + 2
	assert.InDelta(t, 52.0, e.Evaluate(framework.Candidate{0, 0}), 1e-12)
}

func TestEvaluateOverBudget(t *testing.T) {
	feasible, err := NewEvaluator(twoItemProblem(t, 20))
	require.NoError(t, err)
	tight, err := NewEvaluator(twoItemProblem(t, 10))
	require.NoError(t, err)

	score := tight.Evaluate(framework.Candidate{0, 1})
	assert.True(t, math.IsInf(score, 1))
	assert.Greater(t, score, feasible.Evaluate(framework.Candidate{0, 1}))
	assert.Greater(t, score, feasible.Evaluate(framework.Candidate{0, 0}))
	assert.Equal(t, []float64{Infeasible, Infeasible}, tight.Objectives(framework.Candidate{0, 1}))
}

func TestEvaluateIsPure(t *testing.T) {
	e, err := NewEvaluator(twoItemProblem(t, 20))
	require.NoError(t, err)

	c := framework.Candidate{1, 0}
	first := e.Evaluate(c)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, e.Evaluate(c))
	}
	assert.Equal(t, framework.Candidate{1, 0}, c)
}

func TestEvaluateWeights(t *testing.T) {
	p := twoItemProblem(t, 100)
	p.Target.Weights = map[string]float64{"dim0": 2}
	e, err := NewEvaluator(p)
	require.NoError(t, err)

	// [B, B]: |100-150| * 2 + 10/10
	assert.InDelta(t, 101.0, e.Evaluate(framework.Candidate{1, 1}), 1e-12)
	assert.Equal(t, []float64{100, 10}, e.Objectives(framework.Candidate{1, 1}))

	e.WithCostPenaltyScale(5)
	assert.InDelta(t, 102.0, e.Evaluate(framework.Candidate{1, 1}), 1e-12)
}

func TestEvaluatePanicsOnDegenerateGenome(t *testing.T) {
	e, err := NewEvaluator(twoItemProblem(t, 20))
	require.NoError(t, err)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		var dg *framework.DegenerateGenome
		require.True(t, errors.As(r.(error), &dg))
		assert.Equal(t, 1, dg.Got)
	}()
	e.Evaluate(framework.Candidate{0})
}

func TestNewEvaluatorUnknownDimension(t *testing.T) {
	p := twoItemProblem(t, 20)
	p.Target.DimensionTargets["fat"] = 10

	_, err := NewEvaluator(p)
	var cfgErr *framework.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Len(t, cfgErr.Errs, 1)
}

type countingFunc struct {
	calls int
	score float64
}

func (f *countingFunc) Evaluate(framework.Candidate) float64 {
	f.calls++
	return f.score
}

func TestCachedEvaluator(t *testing.T) {
	inner := &countingFunc{score: 7}
	e := NewCachedEvaluator(inner, 0)

	for i := 0; i < 3; i++ {
		assert.Equal(t, 7.0, e.Evaluate(framework.Candidate{0, 1}))
	}
	assert.Equal(t, 7.0, e.Evaluate(framework.Candidate{1, 0}))

	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 2, e.Len())
	hits, misses := e.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(2), misses)
}
