package ga

import (
	"context"
	"testing"

	"github.com/limaJavier/gatimetabling/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	config := DefaultConfig()
	config.PopulationSize = 12
	config.MaxGenerations = 400
	config.PlateauLimit = 200
	config.TournamentSize = 3
	config.Workers = 2
	return config
}

func TestConfigValidate(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		assert.NoError(t, DefaultConfig().Validate())
	})

	t.Run("Out of range values", func(t *testing.T) {
		config := DefaultConfig()
		config.PMutation = 1.5
		assert.Error(t, config.Validate())

		config = DefaultConfig()
		config.TournamentSize = 0
		assert.Error(t, config.Validate())

		config = DefaultConfig()
		config.WHard = -1
		assert.Error(t, config.Validate())
	})
}

func TestAdaptiveBounds(t *testing.T) {
	t.Run("Floors on small problems", func(t *testing.T) {
		assert.Equal(t, Bounds{Population: 250, MaxGenerations: 50000, PlateauLimit: 50000}, AdaptiveBounds(1, 1))
	})

	t.Run("Large problems", func(t *testing.T) {
		bounds := AdaptiveBounds(3000, 60)
		assert.Equal(t, 500, bounds.Population)
		assert.Equal(t, 60000, bounds.PlateauLimit)
		assert.Greater(t, bounds.MaxGenerations, 50000)
	})

	t.Run("Non-decreasing in events and slots", func(t *testing.T) {
		previous := AdaptiveBounds(0, 10)
		for events := 1; events <= 5000; events += 37 {
			current := AdaptiveBounds(events, 10)
			assert.GreaterOrEqual(t, current.Population, previous.Population)
			assert.GreaterOrEqual(t, current.MaxGenerations, previous.MaxGenerations)
			assert.GreaterOrEqual(t, current.PlateauLimit, previous.PlateauLimit)
			assert.GreaterOrEqual(t, AdaptiveBounds(events, 11).MaxGenerations, current.MaxGenerations)
			previous = current
		}
	})
}

func TestNew(t *testing.T) {
	t.Run("Problem without lecture slots", func(t *testing.T) {
		problem := model.NewProblemInstance("empty")
		_, _ = problem.AddSlot(model.TutorialSlot, "MO", "8:00", 1, 0, 0)
		_, _ = problem.AddEvent("CPSC 433 LEC 01", false)

		_, err := New(problem, DefaultConfig())
		assert.ErrorIs(t, err, model.ErrNoLectureSlots)
	})

	t.Run("Overrides replace adaptive bounds", func(t *testing.T) {
		problem, _ := fixture(t)
		algorithm, err := New(problem, testConfig())
		require.NoError(t, err)
		assert.Equal(t, Bounds{Population: 12, MaxGenerations: 400, PlateauLimit: 200}, algorithm.Bounds())
		assert.Equal(t, Initializing, algorithm.Status())
	})
}

func TestRun(t *testing.T) {
	t.Run("Plateau stops the run", func(t *testing.T) {
		//** Arrange
		problem := buildProblem(t,
			[]slotDef{{model.LectureSlot, "MO", "8:00", 0, 0, 0}},
			[]eventDef{{"CPSC 433 LEC 01", false}},
		)
		config := testConfig()
		config.PlateauLimit = 5
		config.MaxGenerations = 1000
		algorithm, err := New(problem, config)
		require.NoError(t, err)

		//** Act
		result, err := algorithm.Run(context.Background())

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, Plateaued, result.Status)
		assert.Equal(t, 5, result.Generation)
		assert.Equal(t, 1, result.Hard)
		assert.Equal(t, 1, result.Breakdown.Capacity)
		assert.False(t, result.Valid())
	})

	t.Run("Generation cap stops the run", func(t *testing.T) {
		//** Arrange
		problem := buildProblem(t,
			[]slotDef{{model.LectureSlot, "MO", "8:00", 0, 0, 0}},
			[]eventDef{{"CPSC 433 LEC 01", false}},
		)
		config := testConfig()
		config.PlateauLimit = 100
		config.MaxGenerations = 10
		algorithm, _ := New(problem, config)

		//** Act
		result, err := algorithm.Run(context.Background())

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, Exhausted, result.Status)
		assert.Equal(t, 10, result.Generation)
	})

	t.Run("Solvable problem converges", func(t *testing.T) {
		//** Arrange
		problem := buildProblem(t,
			[]slotDef{
				{model.LectureSlot, "MO", "8:00", 1, 0, 0},
				{model.LectureSlot, "MO", "9:00", 1, 0, 0},
			},
			[]eventDef{{"CPSC 433 LEC 01", false}, {"CPSC 449 LEC 01", false}},
		)
		require.NoError(t, problem.AddNotCompatible("CPSC 433 LEC 01", "CPSC 449 LEC 01"))
		algorithm, _ := New(problem, testConfig())

		//** Act
		result, err := algorithm.Run(context.Background())

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, Converged, result.Status)
		assert.Equal(t, 1.0, result.Fitness)
		assert.True(t, result.Valid())
		assert.Equal(t, 0, result.Soft)
		assert.NotEqual(t, result.Schedule.SlotOf(0), result.Schedule.SlotOf(1))
	})

	t.Run("Pinned events survive the run", func(t *testing.T) {
		//** Arrange
		problem, _ := fixture(t)
		algorithm, _ := New(problem, testConfig())

		//** Act
		result, err := algorithm.Run(context.Background())

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, lecTu930, result.Schedule.SlotOf(seng599))
		assert.Equal(t, tutTu1800, result.Schedule.SlotOf(cpsc851))
		assert.Equal(t, 0, result.Breakdown.PartialAssignment)
	})

	t.Run("Same seed, same result", func(t *testing.T) {
		//** Arrange
		problem, _ := fixture(t)
		config := testConfig()
		config.MaxGenerations = 60
		first, _ := New(problem, config)
		second, _ := New(problem, config)

		//** Act
		a, errA := first.Run(context.Background())
		b, errB := second.Run(context.Background())

		//** Assert
		require.NoError(t, errA)
		require.NoError(t, errB)
		assert.True(t, a.Schedule.Equal(b.Schedule))
		assert.Equal(t, a.Generation, b.Generation)
		assert.Equal(t, a.Fitness, b.Fitness)
	})

	t.Run("Best fitness never decreases across generations", func(t *testing.T) {
		//** Arrange
		problem, _ := fixture(t)
		config := testConfig()
		config.PlateauLimit = 1000
		algorithm, _ := New(problem, config)
		initial, err := InitialPopulation(context.Background(), algorithm.evaluator, algorithm.bounds.Population, config.Seed, config.Workers, config.WHard, config.WSoft)
		require.NoError(t, err)
		SortPopulation(initial)

		//** Act
		fitness := make([]float64, 0)
		for _, generations := range []int{1, 5, 20, 80} {
			config.MaxGenerations = generations
			capped, _ := New(problem, config)
			result, err := capped.Run(context.Background())
			require.NoError(t, err)
			fitness = append(fitness, result.Fitness)
		}

		//** Assert
		assert.GreaterOrEqual(t, fitness[0], initial[0].Fitness)
		for i := 1; i < len(fitness); i++ {
			assert.GreaterOrEqual(t, fitness[i], fitness[i-1])
		}
	})

	t.Run("Cancelled before starting", func(t *testing.T) {
		//** Arrange
		problem, _ := fixture(t)
		algorithm, _ := New(problem, testConfig())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		//** Act
		_, err := algorithm.Run(ctx)

		//** Assert
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestElitism(t *testing.T) {
	individuals := func(fitness ...float64) []*Individual {
		population := make([]*Individual, len(fitness))
		for i, f := range fitness {
			population[i] = &Individual{Fitness: f}
		}
		return population
	}

	t.Run("Elite kept when a child beats it", func(t *testing.T) {
		//** Arrange
		population := individuals(0.5, 0.4, 0.3)
		elite := population[0]
		child := &Individual{Fitness: 0.9}

		//** Act
		population = append(population, child)
		preserveElite(population, elite)

		//** Assert
		assert.Same(t, child, population[0])
		assert.Contains(t, population, elite)
		assert.Same(t, elite, population[len(population)-1])
		assert.Equal(t, 0.9, population[0].Fitness)
	})

	t.Run("Weaker child leaves the elite on top", func(t *testing.T) {
		//** Arrange
		population := individuals(0.5, 0.4, 0.3)
		elite := population[0]
		child := &Individual{Fitness: 0.1}

		//** Act
		population = append(population, child)
		preserveElite(population, elite)

		//** Assert
		assert.Same(t, elite, population[0])
		assert.Same(t, child, population[len(population)-1])
	})
}

func TestCrossoverParents(t *testing.T) {
	t.Run("Elite in two slots is never crossed with itself", func(t *testing.T) {
		//** Arrange
		elite := &Individual{Fitness: 0.9}
		other := &Individual{Fitness: 0.1}
		population := []*Individual{elite, elite, other}

		for seed := range uint64(200) {
			//** Act
			first, second := crossoverParents(population, 3, newRand(seed))

			//** Assert
			require.NotSame(t, population[first], population[second], "seed %v", seed)
		}
	})

	t.Run("Single individual", func(t *testing.T) {
		//** Arrange
		population := []*Individual{{Fitness: 0.5}}

		//** Act
		first, second := crossoverParents(population, 3, newRand(1))

		//** Assert
		assert.Equal(t, 0, first)
		assert.Equal(t, 0, second)
	})
}
