package ga

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitness(t *testing.T) {
	t.Run("Perfect schedule", func(t *testing.T) {
		assert.Equal(t, 1.0, Fitness(0, 0, 3000, 1))
	})

	t.Run("Hard violations dominate soft penalties", func(t *testing.T) {
		//** Act
		invalid := Fitness(1, 50, 3000, 1)
		valid := Fitness(0, 500, 3000, 1)

		//** Assert
		assert.Less(t, invalid, valid)
		assert.InDelta(t, 1.0/3051, invalid, 1e-12)
		assert.InDelta(t, 1.0/501, valid, 1e-12)
	})

	t.Run("Monotonically decreasing in both penalties", func(t *testing.T) {
		for hard := range 5 {
			for soft := range 5 {
				current := Fitness(hard, soft, 3000, 1)
				assert.Less(t, Fitness(hard+1, soft, 3000, 1), current)
				assert.Less(t, Fitness(hard, soft+1, 3000, 1), current)
				assert.Greater(t, current, 0.0)
				assert.LessOrEqual(t, current, 1.0)
			}
		}
	})
}

func TestSelection(t *testing.T) {
	population := []*Individual{{Fitness: 0.1}, {Fitness: 0.2}, {Fitness: 0.3}, {Fitness: 0.7}}

	t.Run("Cumulative probabilities", func(t *testing.T) {
		//** Act
		probabilities := Probabilities(population)
		cumulative := Cumulative(probabilities)

		//** Assert
		assert.InDelta(t, 0.1/1.3, probabilities[0], 1e-12)
		for i := 1; i < len(cumulative); i++ {
			assert.GreaterOrEqual(t, cumulative[i], cumulative[i-1])
		}
		assert.Equal(t, 1.0, cumulative[len(cumulative)-1])
	})

	t.Run("Roulette", func(t *testing.T) {
		r := newRand(7)
		for range 100 {
			assert.Equal(t, 2, Roulette([]float64{0, 0, 1}, r))
			assert.Equal(t, 0, Roulette([]float64{1, 1, 1}, r))
		}
	})

	t.Run("Tournament finds the fittest", func(t *testing.T) {
		assert.Equal(t, 3, Tournament(population, 60, -1, newRand(3)))
	})

	t.Run("Tournament never returns the excluded member", func(t *testing.T) {
		r := newRand(11)
		for range 200 {
			assert.NotEqual(t, 3, Tournament(population, 4, 3, r))
			assert.NotEqual(t, 0, Tournament(population, 1, 0, r))
		}
	})

	t.Run("Tournament over a single member", func(t *testing.T) {
		assert.Equal(t, 0, Tournament(population[:1], 5, 0, newRand(1)))
	})
}
