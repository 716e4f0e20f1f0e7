package framework

import (
	"sort"
	"strconv"
	"strings"
)

// Item is a single catalog entry. Attributes are ordered the same way as
// the owning Catalog's dimensions.
type Item struct {
	Name       string
	Attributes []float64
	Cost       float64
}

// Candidate is a genome: exactly k catalog indices. The same index may appear
// more than once after crossover or mutation.
type Candidate []int

// Clone returns an independently owned copy of the candidate.
func (c Candidate) Clone() Candidate {
	out := make(Candidate, len(c))
	copy(out, c)
	return out
}

// Key returns a stable string form of the candidate, suitable as a map key.
func (c Candidate) Key() string {
	var b strings.Builder
	for i, g := range c {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(g))
	}
	return b.String()
}

// SelectionKey is like Key but ignores gene order, so candidates selecting
// the same multiset of items share a key.
func (c Candidate) SelectionKey() string {
	sorted := c.Clone()
	sort.Ints(sorted)
	return sorted.Key()
}

// Validate checks the length invariant and that every gene addresses a
// catalog item.
func (c Candidate) Validate(k, catalogSize int) error {
	if len(c) != k {
		return &DegenerateGenome{Want: k, Got: len(c)}
	}
	for i, g := range c {
		if g < 0 || g >= catalogSize {
			return &DegenerateGenome{Want: k, Got: len(c), Position: i, Gene: g}
		}
	}
	return nil
}

// MustValidate panics with a *DegenerateGenome when Validate fails. A
// malformed genome is a bug in an operator, never an expected outcome.
func (c Candidate) MustValidate(k, catalogSize int) {
	if err := c.Validate(k, catalogSize); err != nil {
		panic(err)
	}
}

// TargetProfile is the profile a selection should approximate and the hard
// budget it must respect.
type TargetProfile struct {
	// DimensionTargets maps a catalog dimension name to its target total.
	// Dimensions not listed here do not contribute to the deviation.
	DimensionTargets map[string]float64
	// Weights optionally scales the deviation per dimension. Missing entries
	// weigh 1.
	Weights map[string]float64
	// CostCeiling is the maximum total cost of a feasible selection.
	CostCeiling float64
}

// Weight returns the deviation weight of dimension name.
func (t TargetProfile) Weight(name string) float64 {
	if w, ok := t.Weights[name]; ok {
		return w
	}
	return 1
}

// Problem bundles everything that stays constant for one optimization run.
type Problem struct {
	Name    string
	Catalog *Catalog
	Target  TargetProfile
	// K is the number of items in every candidate.
	K int
}

// Individual represents a scored candidate in the population
type Individual struct {
	Genes   Candidate
	Fitness float64

	// Objectives, Rank and Distance are only filled in by the Pareto variant.
	Objectives []float64
	Rank       int
	Distance   float64
}

// Population is an ordered set of individuals of fixed size.
type Population []Individual

// TracePoint records the best fitness observed in one generation.
type TracePoint struct {
	Generation  int
	BestFitness float64
	// Feasible is the number of individuals within budget in that generation.
	Feasible int
}

// FitnessTrace is the append-only history of a run, one point per generation.
type FitnessTrace []TracePoint

// Generations returns the generation indices of the trace.
func (t FitnessTrace) Generations() []int {
	out := make([]int, len(t))
	for i, p := range t {
		out[i] = p.Generation
	}
	return out
}

// BestFitness returns the best fitness values of the trace.
func (t FitnessTrace) BestFitness() []float64 {
	out := make([]float64, len(t))
	for i, p := range t {
		out[i] = p.BestFitness
	}
	return out
}

// RandomSource is the randomness every operator draws from. *rand.Rand from
// math/rand/v2 satisfies it.
type RandomSource interface {
	IntN(n int) int
	Float64() float64
	Perm(n int) []int
	Shuffle(n int, swap func(i, j int))
}

// Algorithm describes the contract that an optimizer needs to implement.
type Algorithm interface {
	Name() string
}
