package benchmarks

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/mihai-snyk/subset-optimizer/pkg/evolution/fitness"
	"github.com/mihai-snyk/subset-optimizer/pkg/evolution/framework"
)

// MaxExhaustiveCandidates bounds the search space Exhaustive agrees to walk.
const MaxExhaustiveCandidates = 5_000_000

// Exhaustive enumerates every multiset of K catalog items and returns the
// best one. It is the true optimum the evolutionary runs are measured
// against, and only practical for small catalogs.
func Exhaustive(problem framework.Problem, score fitness.Func) (framework.Individual, error) {
	n, k := problem.Catalog.Len(), problem.K
	if k <= 0 || n == 0 {
		return framework.Individual{}, fmt.Errorf("problem %s has no candidates", problem.Name)
	}
	// Multisets of size k over n items map one-to-one to k-combinations of
	// n+k-1 positions.
	if combin.LogGeneralizedBinomial(float64(n+k-1), float64(k)) > math.Log(MaxExhaustiveCandidates) {
		return framework.Individual{}, fmt.Errorf("problem %s is too large for exhaustive search", problem.Name)
	}

	best := framework.Individual{Fitness: math.Inf(1)}
	gen := combin.NewCombinationGenerator(n+k-1, k)
	comb := make([]int, k)
	for gen.Next() {
		gen.Combination(comb)
		cand := make(framework.Candidate, k)
		for i, c := range comb {
			cand[i] = c - i
		}
		f := score.Evaluate(cand)
		if best.Genes == nil || f < best.Fitness {
			best = framework.Individual{Genes: cand, Fitness: f}
		}
	}
	return best, nil
}
