package ga

import (
	"context"
	"math/rand/v2"
	"runtime"
	"slices"

	"github.com/limaJavier/gatimetabling/pkg/eval"
	"github.com/limaJavier/gatimetabling/pkg/model"
	"github.com/sourcegraph/conc/pool"
)

// Individual is a scored schedule. Its schedule is never modified once scored.
type Individual struct {
	Schedule    model.Schedule
	Hard        int
	Soft        int
	Fitness     float64
	Probability float64
}

func newIndividual(evaluator *eval.Evaluator, schedule model.Schedule, wHard, wSoft float64) *Individual {
	hard, soft := evaluator.Valid(schedule), evaluator.Eval(schedule)
	return &Individual{
		Schedule: schedule,
		Hard:     hard,
		Soft:     soft,
		Fitness:  Fitness(hard, soft, wHard, wSoft),
	}
}

// RandomSchedule pins the partial assignments, sends special tutorials to their slot and places every other
// event in a uniformly random slot of its kind
func RandomSchedule(problem *model.ProblemInstance, r *rand.Rand) model.Schedule {
	schedule := model.NewSchedule(problem.EventCount())

	for _, assignment := range problem.PartialAssignments {
		if !schedule.IsAssigned(assignment.Event) {
			schedule.Assign(assignment.Event, assignment.Slot)
		}
	}

	for _, event := range problem.Events {
		if schedule.IsAssigned(event.Id) {
			continue
		}
		if event.SpecialTutorial && problem.SpecialSlot != model.Unassigned {
			schedule.Assign(event.Id, problem.SpecialSlot)
			continue
		}
		candidates := problem.CandidateSlots(event.Id)
		schedule.Assign(event.Id, candidates[r.IntN(len(candidates))])
	}

	return schedule
}

// InitialPopulation builds and scores size random schedules concurrently. Individual i draws from its own
// stream derived from (seed, i) so the population does not depend on scheduling order.
func InitialPopulation(ctx context.Context, evaluator *eval.Evaluator, size int, seed uint64, workers int, wHard, wSoft float64) ([]*Individual, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	population := make([]*Individual, size)
	p := pool.New().WithMaxGoroutines(workers).WithContext(ctx).WithCancelOnError().WithFirstError()
	for i := range size {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r := rand.New(rand.NewPCG(seed, uint64(i)))
			population[i] = newIndividual(evaluator, RandomSchedule(evaluator.Problem(), r), wHard, wSoft)
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	// Neutral placeholder until the first generation recomputes it
	for _, individual := range population {
		individual.Probability = 1 / float64(size)
	}
	return population, nil
}

// SortPopulation orders individuals by fitness, best first, keeping the relative order of equals
func SortPopulation(population []*Individual) {
	slices.SortStableFunc(population, func(a, b *Individual) int {
		switch {
		case a.Fitness > b.Fitness:
			return -1
		case a.Fitness < b.Fitness:
			return 1
		}
		return 0
	})
}

// Purge drops the k worst individuals, the survivors are left sorted best first
func Purge(population []*Individual, k int) []*Individual {
	if k <= 0 {
		return population
	}
	if k >= len(population) {
		return population[:0]
	}
	SortPopulation(population)
	return population[:len(population)-k]
}
