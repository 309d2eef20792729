package eval

import "github.com/limaJavier/gatimetabling/pkg/model"

// SoftBreakdown holds the unweighted soft sub-scores
type SoftBreakdown struct {
	MinFilled   int
	Preference  int
	Pair        int
	SectionDiff int
}

func (breakdown SoftBreakdown) Weighted(weights model.Weights) int {
	return weights.MinFilled*breakdown.MinFilled +
		weights.Preference*breakdown.Preference +
		weights.Pair*breakdown.Pair +
		weights.SectionDiff*breakdown.SectionDiff
}

// Eval returns the weighted soft penalty of the schedule
func (evaluator *Evaluator) Eval(schedule model.Schedule) int {
	return evaluator.Soft(schedule).Weighted(evaluator.problem.Weights)
}

func (evaluator *Evaluator) Soft(schedule model.Schedule) SoftBreakdown {
	return SoftBreakdown{
		MinFilled:   evaluator.MinFilled(schedule),
		Preference:  evaluator.Preference(schedule),
		Pair:        evaluator.Pair(schedule),
		SectionDiff: evaluator.SectionDiff(schedule),
	}
}

// MinFilled penalizes every slot holding fewer events than its minimum, an empty slot costs its full minimum
func (evaluator *Evaluator) MinFilled(schedule model.Schedule) int {
	count, _ := evaluator.Occupancy(schedule)
	penalties := evaluator.problem.Penalties

	penalty := 0
	for _, slot := range evaluator.problem.Slots {
		missing := max(0, slot.Min-count[slot.Id])
		if slot.Kind == model.LectureSlot {
			penalty += penalties.LectureMin * missing
		} else {
			penalty += penalties.TutorialMin * missing
		}
	}
	return penalty
}

func (evaluator *Evaluator) Preference(schedule model.Schedule) int {
	penalty := 0
	for _, preference := range evaluator.problem.Preferences {
		slot := schedule.SlotOf(preference.Event)
		if slot != model.Unassigned && slot != preference.Slot {
			penalty += preference.Weight
		}
	}
	return penalty
}

func (evaluator *Evaluator) Pair(schedule model.Schedule) int {
	penalty := 0
	for _, pair := range evaluator.problem.Pairs {
		a, b := schedule.SlotOf(pair.A), schedule.SlotOf(pair.B)
		if a == model.Unassigned || b == model.Unassigned {
			continue
		}
		if !evaluator.predicates.SameTime(a, b) {
			penalty += evaluator.problem.Penalties.NotPaired
		}
	}
	return penalty
}

// SectionDiff penalizes sections of the same course that were stacked in the same lecture slot
func (evaluator *Evaluator) SectionDiff(schedule model.Schedule) int {
	type key struct {
		course model.CourseKey
		slot   model.SlotID
	}
	groups := make(map[key]int)
	for _, lecture := range evaluator.problem.Lectures {
		if slot := schedule.SlotOf(lecture); slot != model.Unassigned {
			groups[key{course: evaluator.problem.Event(lecture).Course, slot: slot}]++
		}
	}

	penalty := 0
	for _, count := range groups {
		if count > 1 {
			penalty += evaluator.problem.Penalties.Section * count
		}
	}
	return penalty
}
