package ga

import (
	"math/rand/v2"

	"github.com/limaJavier/gatimetabling/pkg/model"
	"github.com/samber/lo"
)

// RepairStats counts the relocations made by each fixup
type RepairStats struct {
	Evening       int
	Special       int
	SectionTime   int
	Course500     int
	NotCompatible int
	Capacity      int
}

func (stats RepairStats) Total() int {
	return stats.Evening + stats.Special + stats.SectionTime + stats.Course500 + stats.NotCompatible + stats.Capacity
}

// Repair runs the fixups in order on the schedule, in place. A fixup that finds no legal destination leaves
// the offending assignment where it is. Pinned events and special tutorials are never moved except to put a
// special tutorial back in its slot.
func (variation *Variation) Repair(schedule model.Schedule, r *rand.Rand) RepairStats {
	return RepairStats{
		Evening:       variation.repairEvening(schedule, r),
		Special:       variation.repairSpecial(schedule),
		SectionTime:   variation.repairSectionTime(schedule, r),
		Course500:     variation.repair500(schedule, r),
		NotCompatible: variation.repairNotCompatible(schedule, r),
		Capacity:      variation.repairCapacity(schedule, r),
	}
}

func (variation *Variation) repairEvening(schedule model.Schedule, r *rand.Rand) int {
	moves := 0
	for _, event := range variation.problem.Events {
		if !event.Evening || variation.problem.IsFixed(event.Id) {
			continue
		}
		current := schedule.SlotOf(event.Id)
		if current != model.Unassigned && variation.problem.Slot(current).Evening {
			continue
		}

		evening := lo.Filter(variation.problem.CandidateSlots(event.Id), func(slot model.SlotID, _ int) bool {
			return variation.problem.Slot(slot).Evening
		})
		targets := lo.Filter(evening, func(slot model.SlotID, _ int) bool {
			return variation.predicates.Allowed(event.Id, slot)
		})
		if len(targets) == 0 {
			targets = evening
		}
		if len(targets) == 0 {
			continue
		}
		schedule.Assign(event.Id, targets[r.IntN(len(targets))])
		moves++
	}
	return moves
}

func (variation *Variation) repairSpecial(schedule model.Schedule) int {
	special := variation.problem.SpecialSlot
	if special == model.Unassigned {
		return 0
	}
	moves := 0
	for _, event := range variation.problem.Tutorials {
		if variation.problem.Event(event).SpecialTutorial && schedule.SlotOf(event) != special {
			schedule.Assign(event, special)
			moves++
		}
	}
	return moves
}

// repairSectionTime moves tutorials whose block overlaps a lecture of the same course to a tutorial slot that
// overlaps none of them
func (variation *Variation) repairSectionTime(schedule model.Schedule, r *rand.Rand) int {
	moves := 0
	for _, course := range variation.problem.Courses() {
		lectureSlots := make([]model.SlotID, 0)
		for _, lecture := range variation.problem.CourseLectures(course) {
			if slot := schedule.SlotOf(lecture); slot != model.Unassigned {
				lectureSlots = append(lectureSlots, slot)
			}
		}
		if len(lectureSlots) == 0 {
			continue
		}
		clashes := func(slot model.SlotID) bool {
			return lo.SomeBy(lectureSlots, func(lecture model.SlotID) bool {
				return variation.predicates.Overlap(lecture, slot)
			})
		}

		for _, tutorial := range variation.problem.CourseTutorials(course) {
			current := schedule.SlotOf(tutorial)
			if variation.problem.IsFixed(tutorial) || current == model.Unassigned || !clashes(current) {
				continue
			}
			targets := lo.Filter(variation.problem.TutorialSlots, func(slot model.SlotID, _ int) bool {
				return !clashes(slot) && variation.predicates.Allowed(tutorial, slot)
			})
			if len(targets) == 0 {
				continue
			}
			schedule.Assign(tutorial, targets[r.IntN(len(targets))])
			moves++
		}
	}
	return moves
}

// repair500 keeps one 500-level lecture per slot and moves the others to slots holding none
func (variation *Variation) repair500(schedule model.Schedule, r *rand.Rand) int {
	perSlot := make(map[model.SlotID][]model.EventID)
	for _, lecture := range variation.problem.Lectures {
		slot := schedule.SlotOf(lecture)
		if variation.problem.Event(lecture).Is500 && slot != model.Unassigned {
			perSlot[slot] = append(perSlot[slot], lecture)
		}
	}
	occupied := lo.MapValues(perSlot, func(lectures []model.EventID, _ model.SlotID) int { return len(lectures) })

	moves := 0
	for _, slot := range variation.problem.LectureSlots {
		lectures := perSlot[slot]
		if len(lectures) < 2 {
			continue
		}
		keep, ok := lo.Find(lectures, variation.problem.IsFixed)
		if !ok {
			keep = lectures[0]
		}

		for _, lecture := range lectures {
			if lecture == keep || variation.problem.IsFixed(lecture) {
				continue
			}
			targets := lo.Filter(variation.problem.LectureSlots, func(target model.SlotID, _ int) bool {
				return target != slot && occupied[target] == 0 && variation.predicates.Allowed(lecture, target)
			})
			if len(targets) == 0 {
				continue
			}
			target := targets[r.IntN(len(targets))]
			schedule.Assign(lecture, target)
			occupied[slot]--
			occupied[target]++
			moves++
		}
	}
	return moves
}

func (variation *Variation) repairNotCompatible(schedule model.Schedule, r *rand.Rand) int {
	moves := 0
	for _, constraint := range variation.problem.NotCompatible {
		a, b := schedule.SlotOf(constraint.A), schedule.SlotOf(constraint.B)
		if a == model.Unassigned || b == model.Unassigned || !variation.predicates.SameTime(a, b) {
			continue
		}

		movable := lo.Reject([]model.EventID{constraint.A, constraint.B}, func(event model.EventID, _ int) bool {
			return variation.problem.IsFixed(event)
		})
		if len(movable) == 0 {
			continue
		}
		event := movable[r.IntN(len(movable))]
		partner := constraint.A
		if event == constraint.A {
			partner = constraint.B
		}

		targets := lo.Filter(variation.problem.CandidateSlots(event), func(slot model.SlotID, _ int) bool {
			return !variation.predicates.SameTime(slot, schedule.SlotOf(partner)) && variation.predicates.Allowed(event, slot)
		})
		if len(targets) == 0 {
			continue
		}
		schedule.Assign(event, targets[r.IntN(len(targets))])
		moves++
	}
	return moves
}

// repairCapacity moves randomly chosen overflow events (AL overflow first) to slots with spare capacity
func (variation *Variation) repairCapacity(schedule model.Schedule, r *rand.Rand) int {
	count, alCount := variation.evaluator.Occupancy(schedule)

	relocate := func(event model.EventID, from model.SlotID) bool {
		al := variation.problem.Event(event).ALRequired
		targets := lo.Filter(variation.problem.CandidateSlots(event), func(slot model.SlotID, _ int) bool {
			s := variation.problem.Slot(slot)
			return slot != from &&
				count[slot] < s.Max &&
				(!al || alCount[slot] < s.ALMax) &&
				variation.predicates.Allowed(event, slot)
		})
		if len(targets) == 0 {
			return false
		}
		target := targets[r.IntN(len(targets))]
		schedule.Assign(event, target)
		count[from]--
		count[target]++
		if al {
			alCount[from]--
			alCount[target]++
		}
		return true
	}

	moves := 0
	for _, slot := range variation.problem.Slots {
		offenders := func(al bool) []model.EventID {
			events := lo.Filter(schedule.EventsIn(slot.Id), func(event model.EventID, _ int) bool {
				e := variation.problem.Event(event)
				return e.Kind.SlotKind() == slot.Kind && (!al || e.ALRequired) && !variation.problem.IsFixed(event)
			})
			r.Shuffle(len(events), func(i, j int) { events[i], events[j] = events[j], events[i] })
			return events
		}

		if overflow := alCount[slot.Id] - slot.ALMax; overflow > 0 {
			for _, event := range lo.Slice(offenders(true), 0, overflow) {
				if relocate(event, slot.Id) {
					moves++
				}
			}
		}
		if overflow := count[slot.Id] - slot.Max; overflow > 0 {
			for _, event := range lo.Slice(offenders(false), 0, overflow) {
				if relocate(event, slot.Id) {
					moves++
				}
			}
		}
	}
	return moves
}
