package fitness

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/mihai-snyk/subset-optimizer/pkg/evolution/framework"
)

const (
	// DefaultCostPenaltyScale divides the total cost before it is added to
	// the deviation, so cost only breaks ties between similar profiles.
	DefaultCostPenaltyScale = 10.0
)

// Infeasible is the score of any candidate over budget. It is strictly worse
// than every feasible score.
var Infeasible = math.Inf(1)

// Func scores a candidate; lower is better.
type Func interface {
	Evaluate(framework.Candidate) float64
}

// Totals are the aggregated attributes and cost of a candidate.
type Totals struct {
	Attributes []float64
	Cost       float64
}

// WithinBudget reports whether the totals respect the ceiling.
func (t Totals) WithinBudget(ceiling float64) bool {
	return t.Cost <= ceiling
}

// Evaluator scores candidates of a problem against its target profile.
type Evaluator struct {
	catalog *framework.Catalog
	target  framework.TargetProfile
	k       int

	// resolved from the target: dimension position and weight.
	dims    []int
	targets []float64
	weights []float64

	costScale float64
}

// NewEvaluator resolves the target dimensions against the catalog.
func NewEvaluator(problem framework.Problem) (*Evaluator, error) {
	if problem.Catalog == nil {
		return nil, fmt.Errorf("problem %q has no catalog", problem.Name)
	}
	e := &Evaluator{
		catalog:   problem.Catalog,
		target:    problem.Target,
		k:         problem.K,
		costScale: DefaultCostPenaltyScale,
	}

	var errs field.ErrorList
	targetPath := field.NewPath("target", "dimensionTargets")
	// Iterate catalog order so the deviation sum is deterministic.
	for _, name := range problem.Catalog.Dimensions() {
		v, ok := problem.Target.DimensionTargets[name]
		if !ok {
			continue
		}
		e.dims = append(e.dims, problem.Catalog.DimensionIndex(name))
		e.targets = append(e.targets, v)
		e.weights = append(e.weights, problem.Target.Weight(name))
	}
	for name := range problem.Target.DimensionTargets {
		if problem.Catalog.DimensionIndex(name) < 0 {
			errs = append(errs, field.NotFound(targetPath.Key(name), name))
		}
	}
	for name, w := range problem.Target.Weights {
		if w < 0 || math.IsNaN(w) {
			errs = append(errs, field.Invalid(field.NewPath("target", "weights").Key(name), w, "must be non-negative"))
		}
	}
	if len(errs) > 0 {
		return nil, framework.NewConfigurationError(errs)
	}
	return e, nil
}

// WithCostPenaltyScale overrides DefaultCostPenaltyScale.
func (e *Evaluator) WithCostPenaltyScale(scale float64) *Evaluator {
	e.costScale = scale
	return e
}

// Aggregate sums every attribute dimension and the cost over the items of c.
func (e *Evaluator) Aggregate(c framework.Candidate) Totals {
	c.MustValidate(e.k, e.catalog.Len())

	t := Totals{Attributes: make([]float64, len(e.catalog.Dimensions()))}
	for _, g := range c {
		it := e.catalog.Item(g)
		floats.Add(t.Attributes, it.Attributes)
		t.Cost += it.Cost
	}
	return t
}

// Deviation is the weighted sum of absolute differences between the totals
// and the targets.
func (e *Evaluator) Deviation(t Totals) float64 {
	dev := 0.0
	for i, d := range e.dims {
		dev += e.weights[i] * math.Abs(t.Attributes[d]-e.targets[i])
	}
	return dev
}

// Evaluate returns the fitness of c. Candidates over budget score Infeasible.
func (e *Evaluator) Evaluate(c framework.Candidate) float64 {
	t := e.Aggregate(c)
	if !t.WithinBudget(e.target.CostCeiling) {
		return Infeasible
	}
	return e.Deviation(t) + t.Cost/e.costScale
}

// Objectives returns [deviation, cost] for Pareto ranking. Both are
// Infeasible when c is over budget.
func (e *Evaluator) Objectives(c framework.Candidate) []float64 {
	t := e.Aggregate(c)
	if !t.WithinBudget(e.target.CostCeiling) {
		return []float64{Infeasible, Infeasible}
	}
	return []float64{e.Deviation(t), t.Cost}
}

// CostCeiling returns the budget of the target profile.
func (e *Evaluator) CostCeiling() float64 {
	return e.target.CostCeiling
}
