package ga

import (
	"fmt"
	"math/rand/v2"

	"github.com/limaJavier/gatimetabling/pkg/eval"
	"github.com/limaJavier/gatimetabling/pkg/model"
	"github.com/samber/lo"
)

type Operator int

const (
	MutateEvening Operator = iota
	MutateAL
	MutateLecture
	MutateTutorial
	Mutate500Conflict
	MutateNotCompatible
)

var Operators = []Operator{MutateEvening, MutateAL, MutateLecture, MutateTutorial, Mutate500Conflict, MutateNotCompatible}

func (operator Operator) String() string {
	switch operator {
	case MutateEvening:
		return "evening"
	case MutateAL:
		return "active-learning"
	case MutateLecture:
		return "lecture"
	case MutateTutorial:
		return "tutorial"
	case Mutate500Conflict:
		return "500-conflict"
	case MutateNotCompatible:
		return "not-compatible"
	}
	return fmt.Sprintf("Operator(%d)", int(operator))
}

// Variation holds the mutation, crossover and repair operators of a problem.
// Every operator reads the given schedule and returns a new one, parents are never modified.
type Variation struct {
	problem    *model.ProblemInstance
	evaluator  *eval.Evaluator
	predicates eval.PredicateEvaluator
}

func NewVariation(evaluator *eval.Evaluator) *Variation {
	return &Variation{
		problem:    evaluator.Problem(),
		evaluator:  evaluator,
		predicates: evaluator.Predicates(),
	}
}

// Mutate applies the operator, ok is false when the operator has no eligible (event, slot) move
func (variation *Variation) Mutate(operator Operator, schedule model.Schedule, r *rand.Rand) (model.Schedule, bool) {
	switch operator {
	case MutateEvening:
		return variation.MutateEvening(schedule, r)
	case MutateAL:
		return variation.MutateAL(schedule, r)
	case MutateLecture:
		return variation.MutateLecture(schedule, r)
	case MutateTutorial:
		return variation.MutateTutorial(schedule, r)
	case Mutate500Conflict:
		return variation.Mutate500Conflict(schedule, r)
	case MutateNotCompatible:
		return variation.MutateNotCompatible(schedule, r)
	}
	return nil, false
}

func (variation *Variation) MutateEvening(schedule model.Schedule, r *rand.Rand) (model.Schedule, bool) {
	return variation.relocateRandom(schedule, r,
		func(event model.Event) bool { return event.Evening },
		func(_ model.Event, slot model.Slot) bool { return slot.Evening },
	)
}

func (variation *Variation) MutateAL(schedule model.Schedule, r *rand.Rand) (model.Schedule, bool) {
	return variation.relocateRandom(schedule, r,
		func(event model.Event) bool { return event.ALRequired },
		func(_ model.Event, slot model.Slot) bool { return slot.ALMax > 0 },
	)
}

func (variation *Variation) MutateLecture(schedule model.Schedule, r *rand.Rand) (model.Schedule, bool) {
	return variation.relocateRandom(schedule, r,
		func(event model.Event) bool { return event.IsLecture() },
		func(model.Event, model.Slot) bool { return true },
	)
}

func (variation *Variation) MutateTutorial(schedule model.Schedule, r *rand.Rand) (model.Schedule, bool) {
	return variation.relocateRandom(schedule, r,
		func(event model.Event) bool { return event.IsTutorial() },
		func(model.Event, model.Slot) bool { return true },
	)
}

// Mutate500Conflict moves one 500-level lecture out of a slot that holds several of them
func (variation *Variation) Mutate500Conflict(schedule model.Schedule, r *rand.Rand) (model.Schedule, bool) {
	perSlot := make(map[model.SlotID][]model.EventID)
	for _, lecture := range variation.problem.Lectures {
		slot := schedule.SlotOf(lecture)
		if variation.problem.Event(lecture).Is500 && slot != model.Unassigned {
			perSlot[slot] = append(perSlot[slot], lecture)
		}
	}

	type move struct {
		event   model.EventID
		targets []model.SlotID
	}
	moves := make([]move, 0)
	for _, slot := range variation.problem.LectureSlots {
		if len(perSlot[slot]) < 2 {
			continue
		}
		for _, lecture := range perSlot[slot] {
			if variation.problem.IsFixed(lecture) {
				continue
			}
			targets := lo.Filter(variation.problem.LectureSlots, func(target model.SlotID, _ int) bool {
				return target != slot &&
					variation.predicates.ALCapable(lecture, target) &&
					variation.predicates.EveningCompatible(lecture, target)
			})
			if len(targets) > 0 {
				moves = append(moves, move{event: lecture, targets: targets})
			}
		}
	}
	if len(moves) == 0 {
		return nil, false
	}

	chosen := moves[r.IntN(len(moves))]
	child := schedule.Clone()
	child.Assign(chosen.event, chosen.targets[r.IntN(len(chosen.targets))])
	return child, true
}

// MutateNotCompatible moves one member of a colliding not-compatible pair to a slot at another time
func (variation *Variation) MutateNotCompatible(schedule model.Schedule, r *rand.Rand) (model.Schedule, bool) {
	type move struct {
		event   model.EventID
		targets []model.SlotID
	}
	moves := make([]move, 0)
	for _, constraint := range variation.problem.NotCompatible {
		a, b := schedule.SlotOf(constraint.A), schedule.SlotOf(constraint.B)
		if a == model.Unassigned || b == model.Unassigned || !variation.predicates.SameTime(a, b) {
			continue
		}
		for _, event := range []model.EventID{constraint.A, constraint.B} {
			if variation.problem.IsFixed(event) {
				continue
			}
			current := schedule.SlotOf(event)
			targets := lo.Filter(variation.problem.CandidateSlots(event), func(target model.SlotID, _ int) bool {
				return target != current && !variation.predicates.SameTime(target, current)
			})
			if len(targets) > 0 {
				moves = append(moves, move{event: event, targets: targets})
			}
		}
	}
	if len(moves) == 0 {
		return nil, false
	}

	chosen := moves[r.IntN(len(moves))]
	child := schedule.Clone()
	child.Assign(chosen.event, chosen.targets[r.IntN(len(chosen.targets))])
	return child, true
}

// relocateRandom picks a random movable event of the category that has at least one compatible slot other
// than its current one and moves it to a random such slot
func (variation *Variation) relocateRandom(schedule model.Schedule, r *rand.Rand, category func(model.Event) bool, compatible func(model.Event, model.Slot) bool) (model.Schedule, bool) {
	targetsOf := func(event model.Event) []model.SlotID {
		return lo.Filter(variation.problem.CandidateSlots(event.Id), func(slot model.SlotID, _ int) bool {
			return slot != schedule.SlotOf(event.Id) && compatible(event, variation.problem.Slot(slot))
		})
	}

	eligible := lo.Filter(variation.problem.Events, func(event model.Event, _ int) bool {
		return category(event) && !variation.problem.IsFixed(event.Id) && len(targetsOf(event)) > 0
	})
	if len(eligible) == 0 {
		return nil, false
	}

	event := eligible[r.IntN(len(eligible))]
	targets := targetsOf(event)
	child := schedule.Clone()
	child.Assign(event.Id, targets[r.IntN(len(targets))])
	return child, true
}

// ChooseOperator picks uniformly among the operators addressing a category the schedule currently fails,
// or among all operators when nothing fails
func (variation *Variation) ChooseOperator(schedule model.Schedule, r *rand.Rand) Operator {
	failing := make([]Operator, 0, len(Operators))
	if variation.evaluator.Course500Violations(schedule) > 0 {
		failing = append(failing, Mutate500Conflict)
	}
	if variation.evaluator.NotCompatibleViolations(schedule) > 0 {
		failing = append(failing, MutateNotCompatible)
	}
	if !variation.evaluator.PassEvening(schedule) {
		failing = append(failing, MutateEvening)
	}
	if !variation.evaluator.PassAL(schedule) {
		failing = append(failing, MutateAL)
	}
	if !variation.evaluator.PassLectures(schedule) {
		failing = append(failing, MutateLecture)
	}
	if !variation.evaluator.PassTutorials(schedule) {
		failing = append(failing, MutateTutorial)
	}

	if len(failing) == 0 {
		return Operators[r.IntN(len(Operators))]
	}
	return failing[r.IntN(len(failing))]
}

// MutateWithFallback retries the operator up to attempts times and then falls back to the generic lecture
// and tutorial mutations in random order
func (variation *Variation) MutateWithFallback(operator Operator, schedule model.Schedule, attempts int, r *rand.Rand) (model.Schedule, Operator, bool) {
	for range attempts {
		if child, ok := variation.Mutate(operator, schedule, r); ok {
			return child, operator, true
		}
	}

	fallback := []Operator{MutateLecture, MutateTutorial}
	r.Shuffle(len(fallback), func(i, j int) { fallback[i], fallback[j] = fallback[j], fallback[i] })
	for _, generic := range fallback {
		if child, ok := variation.Mutate(generic, schedule, r); ok {
			return child, generic, true
		}
	}
	return nil, operator, false
}
