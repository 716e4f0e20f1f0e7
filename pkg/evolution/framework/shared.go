package framework

import "sort"

// SortByFitness orders the population by ascending fitness. The sort is
// stable so equally fit individuals keep their breeding order.
func SortByFitness(population Population) {
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].Fitness < population[j].Fitness
	})
}

// NonDominatedSort performs non-dominated sorting on the population and sets
// the Rank of every individual to the index of its front.
func NonDominatedSort(population Population) []Population {
	var fronts []Population
	dominated := make([][]int, len(population))
	domCount := make([]int, len(population))

	// Calculate domination for each individual
	for i := 0; i < len(population); i++ {
		for j := i + 1; j < len(population); j++ {
			if Dominates(population[i], population[j]) {
				dominated[i] = append(dominated[i], j)
				domCount[j]++
			} else if Dominates(population[j], population[i]) {
				dominated[j] = append(dominated[j], i)
				domCount[i]++
			}
		}
	}

	// Find first front
	var currentIndices []int
	for i := range population {
		if domCount[i] == 0 {
			currentIndices = append(currentIndices, i)
		}
	}

	for rank := 0; len(currentIndices) > 0; rank++ {
		front := make(Population, 0, len(currentIndices))
		var nextIndices []int
		for _, idx := range currentIndices {
			population[idx].Rank = rank
			front = append(front, population[idx])
			for _, d := range dominated[idx] {
				domCount[d]--
				if domCount[d] == 0 {
					nextIndices = append(nextIndices, d)
				}
			}
		}
		fronts = append(fronts, front)
		currentIndices = nextIndices
	}

	return fronts
}

// Dominates checks if individual a dominates individual b: a is no worse in
// every objective and strictly better in at least one.
func Dominates(a, b Individual) bool {
	better := false
	for i := 0; i < len(a.Objectives); i++ {
		if a.Objectives[i] > b.Objectives[i] {
			return false
		}
		if a.Objectives[i] < b.Objectives[i] {
			better = true
		}
	}
	return better
}
