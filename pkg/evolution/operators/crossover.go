package operators

import (
	"fmt"

	"github.com/mihai-snyk/subset-optimizer/pkg/evolution/framework"
)

// CrossoverKind enumerates the supported recombination operators.
type CrossoverKind string

const (
	SinglePoint CrossoverKind = "single"
	TwoPoint    CrossoverKind = "two_point"
	Uniform     CrossoverKind = "uniform"
)

// CrossoverKinds lists every supported crossover in a stable order.
var CrossoverKinds = []CrossoverKind{SinglePoint, TwoPoint, Uniform}

// Crossover produces two children from two parents. Children never share
// storage with the parents, and both have the parents' length.
type Crossover interface {
	Kind() CrossoverKind
	Crossover(p1, p2 framework.Candidate, rng framework.RandomSource) (framework.Candidate, framework.Candidate)
}

// NewCrossover returns the operator for kind.
func NewCrossover(kind CrossoverKind) (Crossover, error) {
	switch kind {
	case SinglePoint:
		return singlePoint{}, nil
	case TwoPoint:
		return twoPoint{}, nil
	case Uniform:
		return uniform{}, nil
	}
	return nil, fmt.Errorf("unknown crossover %q, want one of %v", kind, CrossoverKinds)
}

type singlePoint struct{}

func (singlePoint) Kind() CrossoverKind { return SinglePoint }

// Crossover cuts both parents at one point in [1, k-1] and swaps the tails.
func (singlePoint) Crossover(p1, p2 framework.Candidate, rng framework.RandomSource) (framework.Candidate, framework.Candidate) {
	child1, child2 := p1.Clone(), p2.Clone()
	k := len(p1)
	if k < 2 {
		return child1, child2
	}
	point := 1 + rng.IntN(k-1)
	swapRange(child1, child2, point, k)
	return child1, child2
}

type twoPoint struct{}

func (twoPoint) Kind() CrossoverKind { return TwoPoint }

// Crossover picks p1 in [1, k-2] and p2 in [p1, k-1] and swaps the middle
// segment [p1, p2). With k < 3 there is no interior segment and the
// children are clones.
func (twoPoint) Crossover(p1, p2 framework.Candidate, rng framework.RandomSource) (framework.Candidate, framework.Candidate) {
	child1, child2 := p1.Clone(), p2.Clone()
	k := len(p1)
	if k < 3 {
		return child1, child2
	}
	point1 := 1 + rng.IntN(k-2)
	point2 := point1 + rng.IntN(k-point1)
	swapRange(child1, child2, point1, point2)
	return child1, child2
}

type uniform struct{}

func (uniform) Kind() CrossoverKind { return Uniform }

// Crossover flips a fair coin per position; on tails the genes are swapped.
func (uniform) Crossover(p1, p2 framework.Candidate, rng framework.RandomSource) (framework.Candidate, framework.Candidate) {
	child1, child2 := p1.Clone(), p2.Clone()
	for i := range child1 {
		if rng.Float64() >= 0.5 {
			child1[i], child2[i] = child2[i], child1[i]
		}
	}
	return child1, child2
}

func swapRange(a, b framework.Candidate, from, to int) {
	for i := from; i < to; i++ {
		a[i], b[i] = b[i], a[i]
	}
}
