package ga

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/go-playground/validator/v10"
	"github.com/limaJavier/gatimetabling/pkg/eval"
	"github.com/limaJavier/gatimetabling/pkg/model"
	"github.com/samber/lo"
)

type Status int

const (
	Initializing Status = iota
	Evolving
	Converged
	Plateaued
	Exhausted
)

func (status Status) String() string {
	switch status {
	case Initializing:
		return "INITIALIZING"
	case Evolving:
		return "EVOLVING"
	case Converged:
		return "CONVERGED"
	case Plateaued:
		return "PLATEAUED"
	case Exhausted:
		return "EXHAUSTED"
	}
	return fmt.Sprintf("Status(%d)", int(status))
}

type Config struct {
	// Zero means the bound is derived from the problem size
	PopulationSize int `validate:"gte=0"`
	MaxGenerations int `validate:"gte=0"`
	PlateauLimit   int `validate:"gte=0"`

	WHard            float64 `validate:"gte=0"`
	WSoft            float64 `validate:"gte=0"`
	PMutation        float64 `validate:"gte=0,lte=1"`
	TournamentSize   int     `validate:"gte=1"`
	MutationAttempts int     `validate:"gte=1"`

	Seed             uint64
	Workers          int  `validate:"gte=0"`
	ReportInterval   int  `validate:"gte=0"` // Generations between progress logs, zero disables them
	CheckFeasibility bool // Run the seat matching before searching and warn when it fails

	Logger *slog.Logger `validate:"-"`
}

func DefaultConfig() Config {
	return Config{
		WHard:            3000,
		WSoft:            1,
		PMutation:        0.5,
		TournamentSize:   25,
		MutationAttempts: 5,
		Seed:             1,
		ReportInterval:   1000,
		CheckFeasibility: true,
	}
}

var validate = validator.New()

func (config Config) Validate() error {
	return validate.Struct(config)
}

type Result struct {
	Schedule   model.Schedule
	Soft       int
	Hard       int
	Generation int
	Fitness    float64
	Status     Status
	Breakdown  eval.Breakdown
	Bounds     Bounds
}

// Valid reports whether the best schedule breaks no hard constraint
func (result Result) Valid() bool {
	return result.Hard == 0
}

type GeneticAlgorithm struct {
	config    Config
	problem   *model.ProblemInstance
	evaluator *eval.Evaluator
	variation *Variation
	bounds    Bounds
	rng       *rand.Rand
	logger    *slog.Logger
	status    Status
}

func New(problem *model.ProblemInstance, config Config) (*GeneticAlgorithm, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := problem.Validate(); err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	evaluator := eval.NewEvaluator(problem)
	return &GeneticAlgorithm{
		config:    config,
		problem:   problem,
		evaluator: evaluator,
		variation: NewVariation(evaluator),
		bounds: AdaptiveBounds(problem.EventCount(), problem.SlotCount()).withOverrides(Bounds{
			Population:     config.PopulationSize,
			MaxGenerations: config.MaxGenerations,
			PlateauLimit:   config.PlateauLimit,
		}),
		// The main stream is kept apart from the per-individual streams of the initial population
		rng:    rand.New(rand.NewPCG(config.Seed, ^uint64(0))),
		logger: logger,
		status: Initializing,
	}, nil
}

func (algorithm *GeneticAlgorithm) Bounds() Bounds {
	return algorithm.bounds
}

func (algorithm *GeneticAlgorithm) Status() Status {
	return algorithm.status
}

// Run evolves the population until a perfect schedule is found, the best fitness stops improving for
// PlateauLimit generations or MaxGenerations is reached. Cancelling the context stops the run between
// generations and returns the best individual so far together with the context's error.
func (algorithm *GeneticAlgorithm) Run(ctx context.Context) (Result, error) {
	algorithm.status = Initializing
	algorithm.logStart()

	population, err := InitialPopulation(ctx, algorithm.evaluator, algorithm.bounds.Population, algorithm.config.Seed, algorithm.config.Workers, algorithm.config.WHard, algorithm.config.WSoft)
	if err != nil {
		return Result{}, err
	}
	algorithm.status = Evolving

	previousBest := 0.0
	plateau := 0
	for generation := 0; ; generation++ {
		//** Rank
		SortPopulation(population)
		elite := population[0]

		if generation > 0 {
			if elite.Fitness <= previousBest {
				plateau++
			} else {
				plateau = 0
			}
		}
		previousBest = elite.Fitness

		if algorithm.config.ReportInterval > 0 && generation%algorithm.config.ReportInterval == 0 {
			algorithm.logger.Info("generation",
				"generation", generation,
				"fitness", elite.Fitness,
				"hard", elite.Hard,
				"soft", elite.Soft,
				"plateau", plateau,
			)
		}

		//** Terminate
		switch {
		case elite.Fitness == 1.0:
			algorithm.status = Converged
		case plateau >= algorithm.bounds.PlateauLimit:
			algorithm.status = Plateaued
		case generation >= algorithm.bounds.MaxGenerations:
			algorithm.status = Exhausted
		}
		if algorithm.status != Evolving {
			return algorithm.finish(elite, generation), nil
		}
		if err := ctx.Err(); err != nil {
			return algorithm.finish(elite, generation), err
		}

		//** Trim and weigh
		population = Purge(population, len(population)-algorithm.bounds.Population)
		probabilities := Probabilities(population)
		for i, individual := range population {
			individual.Probability = probabilities[i]
		}

		//** Breed
		child := algorithm.offspring(population)
		if child == nil {
			continue
		}
		population = append(population, child)
		preserveElite(population, elite)
	}
}

// preserveElite re-ranks the population and writes the elite over the worst member when it lost rank 0
func preserveElite(population []*Individual, elite *Individual) {
	SortPopulation(population)
	if population[0] != elite {
		population[len(population)-1] = elite
	}
}

// crossoverParents draws two tournament winners that are different individuals. The elite can occupy two
// slots, so distinct indices alone do not guarantee distinct parents.
func crossoverParents(population []*Individual, size int, r *rand.Rand) (int, int) {
	first := Tournament(population, size, -1, r)
	second := Tournament(population, size, first, r)
	for attempt := 0; population[second] == population[first] && attempt < len(population); attempt++ {
		second = Tournament(population, size, first, r)
	}
	if population[second] == population[first] {
		others := lo.Filter(lo.Range(len(population)), func(i int, _ int) bool { return population[i] != population[first] })
		if len(others) > 0 {
			second = others[r.IntN(len(others))]
		}
	}
	return first, second
}

// offspring produces a repaired and scored child, or nil when no mutation could be applied
func (algorithm *GeneticAlgorithm) offspring(population []*Individual) *Individual {
	var schedule model.Schedule
	if algorithm.rng.Float64() < algorithm.config.PMutation {
		parent := population[Tournament(population, algorithm.config.TournamentSize, -1, algorithm.rng)]
		operator := algorithm.variation.ChooseOperator(parent.Schedule, algorithm.rng)

		child, _, ok := algorithm.variation.MutateWithFallback(operator, parent.Schedule, algorithm.config.MutationAttempts, algorithm.rng)
		if !ok {
			return nil
		}
		schedule = child
	} else {
		first, second := crossoverParents(population, algorithm.config.TournamentSize, algorithm.rng)
		schedule = algorithm.variation.Crossover(population[first].Schedule, population[second].Schedule, algorithm.rng)
	}

	algorithm.variation.Repair(schedule, algorithm.rng)
	return newIndividual(algorithm.evaluator, schedule, algorithm.config.WHard, algorithm.config.WSoft)
}

func (algorithm *GeneticAlgorithm) finish(best *Individual, generation int) Result {
	result := Result{
		Schedule:   best.Schedule.Clone(),
		Soft:       best.Soft,
		Hard:       best.Hard,
		Generation: generation,
		Fitness:    best.Fitness,
		Status:     algorithm.status,
		Breakdown:  algorithm.evaluator.Diagnose(best.Schedule),
		Bounds:     algorithm.bounds,
	}
	algorithm.logger.Info("search finished",
		"status", result.Status,
		"generation", result.Generation,
		"fitness", result.Fitness,
		"hard", result.Hard,
		"soft", result.Soft,
	)
	return result
}

func (algorithm *GeneticAlgorithm) logStart() {
	problem := algorithm.problem
	algorithm.logger.Info("starting search",
		"problem", problem.Name,
		"lectures", len(problem.Lectures),
		"tutorials", len(problem.Tutorials),
		"lectureSlots", len(problem.LectureSlots),
		"tutorialSlots", len(problem.TutorialSlots),
		"notCompatible", len(problem.NotCompatible),
		"unwanted", len(problem.Unwanted),
		"preferences", len(problem.Preferences),
		"pairs", len(problem.Pairs),
		"partialAssignments", len(problem.PartialAssignments),
		"population", algorithm.bounds.Population,
		"maxGenerations", algorithm.bounds.MaxGenerations,
		"plateauLimit", algorithm.bounds.PlateauLimit,
		"seed", algorithm.config.Seed,
	)

	if !algorithm.config.CheckFeasibility {
		return
	}
	report, err := algorithm.evaluator.Feasibility()
	if err != nil {
		algorithm.logger.Warn("feasibility check failed", "error", err)
		return
	}
	if !report.Feasible() {
		algorithm.logger.Warn("not every event can be seated, a valid schedule does not exist",
			"unseated", len(report.Unseated),
			"firstUnseated", problem.Event(report.Unseated[0]).Name,
		)
	}
}
