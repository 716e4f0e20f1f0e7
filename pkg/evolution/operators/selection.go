package operators

import (
	"github.com/mihai-snyk/subset-optimizer/pkg/evolution/framework"
)

// DefaultTournamentSize is the number of contestants per tournament.
const DefaultTournamentSize = 5

// TournamentSelect draws size distinct individuals uniformly at random and
// returns the one with the lowest fitness. Ties go to the individual that
// comes first in the population, so with size >= len(population) the
// best-ranked individual always wins.
func TournamentSelect(population framework.Population, size int, rng framework.RandomSource) framework.Individual {
	if len(population) == 0 {
		panic("tournament selection on an empty population")
	}
	if size < 1 {
		size = 1
	}
	if size > len(population) {
		size = len(population)
	}

	best := -1
	for _, idx := range sampleIndices(len(population), size, rng) {
		if best < 0 || betterThan(population, idx, best) {
			best = idx
		}
	}
	return population[best]
}

// ParetoTournamentSelect is the binary tournament of NSGA-II: lower rank
// wins, then larger crowding distance.
func ParetoTournamentSelect(population framework.Population, rng framework.RandomSource) framework.Individual {
	best := population[rng.IntN(len(population))]
	contestant := population[rng.IntN(len(population))]
	if contestant.Rank < best.Rank || (contestant.Rank == best.Rank && contestant.Distance > best.Distance) {
		return contestant
	}
	return best
}

func betterThan(population framework.Population, i, j int) bool {
	if population[i].Fitness != population[j].Fitness {
		return population[i].Fitness < population[j].Fitness
	}
	return i < j
}

// sampleIndices returns k distinct indices from [0, n) using a partial
// Fisher-Yates shuffle.
func sampleIndices(n, k int, rng framework.RandomSource) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + rng.IntN(n-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx[:k]
}
