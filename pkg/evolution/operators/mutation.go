package operators

import (
	"fmt"

	"github.com/mihai-snyk/subset-optimizer/pkg/evolution/framework"
)

// MutationKind enumerates the supported mutation operators.
type MutationKind string

const (
	// Swap replaces one gene with a random catalog item.
	Swap    MutationKind = "swap"
	Inverse MutationKind = "inverse"
	Shuffle MutationKind = "shuffle"
)

// MutationKinds lists every supported mutation in a stable order.
var MutationKinds = []MutationKind{Swap, Inverse, Shuffle}

// Mutation perturbs a candidate in place and returns it.
type Mutation interface {
	Kind() MutationKind
	Mutate(c framework.Candidate, catalog *framework.Catalog, rng framework.RandomSource) framework.Candidate
}

// NewMutation returns the operator for kind.
func NewMutation(kind MutationKind) (Mutation, error) {
	switch kind {
	case Swap:
		return swapGene{}, nil
	case Inverse:
		return inverse{}, nil
	case Shuffle:
		return shuffle{}, nil
	}
	return nil, fmt.Errorf("unknown mutation %q, want one of %v", kind, MutationKinds)
}

type swapGene struct{}

func (swapGene) Kind() MutationKind { return Swap }

func (swapGene) Mutate(c framework.Candidate, catalog *framework.Catalog, rng framework.RandomSource) framework.Candidate {
	if len(c) == 0 {
		return c
	}
	c[rng.IntN(len(c))] = catalog.RandomIndex(rng)
	return c
}

type inverse struct{}

func (inverse) Kind() MutationKind { return Inverse }

func (inverse) Mutate(c framework.Candidate, _ *framework.Catalog, rng framework.RandomSource) framework.Candidate {
	if len(c) < 2 {
		return c
	}
	i, j := rng.IntN(len(c)), rng.IntN(len(c)-1)
	if j >= i {
		j++
	} else {
		i, j = j, i
	}
	return ReverseSegment(c, i, j)
}

// ReverseSegment reverses c[i..j] inclusive in place. Applying it twice with
// the same bounds restores the original order.
func ReverseSegment(c framework.Candidate, i, j int) framework.Candidate {
	for ; i < j; i, j = i+1, j-1 {
		c[i], c[j] = c[j], c[i]
	}
	return c
}

type shuffle struct{}

func (shuffle) Kind() MutationKind { return Shuffle }

func (shuffle) Mutate(c framework.Candidate, _ *framework.Catalog, rng framework.RandomSource) framework.Candidate {
	rng.Shuffle(len(c), func(i, j int) {
		c[i], c[j] = c[j], c[i]
	})
	return c
}
