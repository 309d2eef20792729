package ga

import (
	"math/rand/v2"
	"sort"

	"github.com/samber/lo"
)

// Fitness maps penalties into (0, 1]; 1 is reached only by a schedule with no hard and no soft penalty
func Fitness(hard, soft int, wHard, wSoft float64) float64 {
	return 1 / (1 + wHard*float64(hard) + wSoft*float64(soft))
}

// Probabilities returns each individual's share of the population's total fitness
func Probabilities(population []*Individual) []float64 {
	total := lo.SumBy(population, func(individual *Individual) float64 { return individual.Fitness })
	return lo.Map(population, func(individual *Individual, _ int) float64 {
		if total == 0 {
			return 1 / float64(len(population))
		}
		return individual.Fitness / total
	})
}

// Cumulative builds the running sums of the probabilities, the last entry is forced to exactly 1
func Cumulative(probabilities []float64) []float64 {
	cumulative := make([]float64, len(probabilities))
	sum := 0.0
	for i, probability := range probabilities {
		sum += probability
		cumulative[i] = sum
	}
	if len(cumulative) > 0 {
		cumulative[len(cumulative)-1] = 1.0
	}
	return cumulative
}

// Roulette samples an index with probability proportional to its share of the cumulative distribution
func Roulette(cumulative []float64, r *rand.Rand) int {
	spin := r.Float64()
	return sort.Search(len(cumulative), func(i int) bool { return cumulative[i] > spin })
}

// Tournament samples size members (with replacement) and returns the index of the fittest, ties go to the
// member drawn first. The index given in exclude is never drawn unless it is the only member.
func Tournament(population []*Individual, size int, exclude int, r *rand.Rand) int {
	candidates := len(population)
	if exclude >= 0 && exclude < candidates && candidates > 1 {
		candidates--
	}

	best := -1
	for range max(size, 1) {
		index := r.IntN(candidates)
		if exclude >= 0 && candidates < len(population) && index >= exclude {
			index++
		}
		if best == -1 || population[index].Fitness > population[best].Fitness {
			best = index
		}
	}
	return best
}
