package eval

import (
	"github.com/limaJavier/gatimetabling/pkg/model"
)

type Scope int

const (
	AllEvents Scope = iota
	LecturesOnly
	TutorialsOnly
)

func (scope Scope) includes(event model.Event) bool {
	switch scope {
	case LecturesOnly:
		return event.IsLecture()
	case TutorialsOnly:
		return event.IsTutorial()
	}
	return true
}

func (scope Scope) includesSlot(slot model.Slot) bool {
	switch scope {
	case LecturesOnly:
		return slot.Kind == model.LectureSlot
	case TutorialsOnly:
		return slot.Kind == model.TutorialSlot
	}
	return true
}

// Breakdown holds the number of violations of every hard-constraint category
type Breakdown struct {
	Capacity          int
	NotCompatible     int
	Unwanted          int
	PartialAssignment int
	ActiveLearning    int
	Evening           int
	Blackout          int
	Course500         int
	SectionOverlap    int
}

func (breakdown Breakdown) Total() int {
	return breakdown.Capacity +
		breakdown.NotCompatible +
		breakdown.Unwanted +
		breakdown.PartialAssignment +
		breakdown.ActiveLearning +
		breakdown.Evening +
		breakdown.Blackout +
		breakdown.Course500 +
		breakdown.SectionOverlap
}

type Category struct {
	Name       string
	Violations int
}

// Categories lists the violation counts in reporting order
func (breakdown Breakdown) Categories() []Category {
	return []Category{
		{Name: "Capacity", Violations: breakdown.Capacity},
		{Name: "Not compatible", Violations: breakdown.NotCompatible},
		{Name: "Unwanted", Violations: breakdown.Unwanted},
		{Name: "Partial assignments", Violations: breakdown.PartialAssignment},
		{Name: "Active learning", Violations: breakdown.ActiveLearning},
		{Name: "Evening and special tutorials", Violations: breakdown.Evening},
		{Name: "Department meeting", Violations: breakdown.Blackout},
		{Name: "500-level lectures", Violations: breakdown.Course500},
		{Name: "Section overlap", Violations: breakdown.SectionOverlap},
	}
}

// Valid returns the number of hard-constraint violations of the schedule, zero means the schedule is valid
func (evaluator *Evaluator) Valid(schedule model.Schedule) int {
	return evaluator.Diagnose(schedule).Total()
}

func (evaluator *Evaluator) Diagnose(schedule model.Schedule) Breakdown {
	return evaluator.Check(schedule, AllEvents)
}

// Check counts the violations that involve at least one event (or slot) in scope
func (evaluator *Evaluator) Check(schedule model.Schedule, scope Scope) Breakdown {
	return Breakdown{
		Capacity:          evaluator.checkCapacity(schedule, scope),
		NotCompatible:     evaluator.checkNotCompatible(schedule, scope),
		Unwanted:          evaluator.checkUnwanted(schedule, scope),
		PartialAssignment: evaluator.checkPartialAssignments(schedule, scope),
		ActiveLearning:    evaluator.checkActiveLearning(schedule, scope),
		Evening:           evaluator.checkEvening(schedule, scope),
		Blackout:          evaluator.checkBlackout(schedule, scope),
		Course500:         evaluator.check500(schedule, scope),
		SectionOverlap:    evaluator.checkSectionOverlap(schedule, scope),
	}
}

func (evaluator *Evaluator) PassLectures(schedule model.Schedule) bool {
	return evaluator.Check(schedule, LecturesOnly).Total() == 0
}

func (evaluator *Evaluator) PassTutorials(schedule model.Schedule) bool {
	return evaluator.Check(schedule, TutorialsOnly).Total() == 0
}

func (evaluator *Evaluator) PassAL(schedule model.Schedule) bool {
	return evaluator.checkActiveLearning(schedule, AllEvents) == 0
}

func (evaluator *Evaluator) PassEvening(schedule model.Schedule) bool {
	return evaluator.checkEvening(schedule, AllEvents) == 0
}

func (evaluator *Evaluator) Course500Violations(schedule model.Schedule) int {
	return evaluator.check500(schedule, AllEvents)
}

func (evaluator *Evaluator) NotCompatibleViolations(schedule model.Schedule) int {
	return evaluator.checkNotCompatible(schedule, AllEvents)
}

//** Checks

func (evaluator *Evaluator) checkCapacity(schedule model.Schedule, scope Scope) int {
	count, alCount := evaluator.Occupancy(schedule)

	violations := 0
	for _, slot := range evaluator.problem.Slots {
		if !scope.includesSlot(slot) {
			continue
		}
		violations += max(0, count[slot.Id]-slot.Max)
		violations += max(0, alCount[slot.Id]-slot.ALMax)
	}
	return violations
}

func (evaluator *Evaluator) checkNotCompatible(schedule model.Schedule, scope Scope) int {
	violations := 0
	for _, constraint := range evaluator.problem.NotCompatible {
		if !evaluator.inScope(scope, constraint.A, constraint.B) {
			continue
		}
		a, b := schedule.SlotOf(constraint.A), schedule.SlotOf(constraint.B)
		if a == model.Unassigned || b == model.Unassigned {
			continue
		}
		if evaluator.predicates.SameTime(a, b) {
			violations++
		}
	}
	return violations
}

func (evaluator *Evaluator) checkUnwanted(schedule model.Schedule, scope Scope) int {
	violations := 0
	for _, unwanted := range evaluator.problem.Unwanted {
		if evaluator.inScope(scope, unwanted.Event) && schedule.SlotOf(unwanted.Event) == unwanted.Slot {
			violations++
		}
	}
	return violations
}

func (evaluator *Evaluator) checkPartialAssignments(schedule model.Schedule, scope Scope) int {
	violations := 0
	for _, assignment := range evaluator.problem.PartialAssignments {
		if evaluator.inScope(scope, assignment.Event) && schedule.SlotOf(assignment.Event) != assignment.Slot {
			violations++
		}
	}
	return violations
}

func (evaluator *Evaluator) checkActiveLearning(schedule model.Schedule, scope Scope) int {
	violations := 0
	for _, event := range evaluator.problem.Events {
		if !event.ALRequired || !scope.includes(event) {
			continue
		}
		slot := schedule.SlotOf(event.Id)
		if slot == model.Unassigned || !evaluator.predicates.ALCapable(event.Id, slot) {
			violations++
		}
	}
	return violations
}

func (evaluator *Evaluator) checkEvening(schedule model.Schedule, scope Scope) int {
	violations := 0
	for _, event := range evaluator.problem.Events {
		if !event.Evening || !scope.includes(event) {
			continue
		}
		slot := schedule.SlotOf(event.Id)
		if slot == model.Unassigned || !evaluator.predicates.EveningCompatible(event.Id, slot) {
			violations++
		}
	}

	special := evaluator.problem.SpecialSlot
	for _, tutorial := range evaluator.specials {
		event := evaluator.problem.Event(tutorial)
		if scope.includes(event) && (special == model.Unassigned || schedule.SlotOf(tutorial) != special) {
			violations++
		}
		if special == model.Unassigned {
			continue
		}
		for _, section := range evaluator.problem.CourseEvents(event.BaseCourse) {
			slot := schedule.SlotOf(section)
			if slot == model.Unassigned || !evaluator.inScope(scope, tutorial, section) {
				continue
			}
			if evaluator.predicates.Overlap(slot, special) {
				violations++
			}
		}
	}
	return violations
}

func (evaluator *Evaluator) checkBlackout(schedule model.Schedule, scope Scope) int {
	if scope == TutorialsOnly {
		return 0
	}
	violations := 0
	for _, lecture := range evaluator.problem.Lectures {
		slot := schedule.SlotOf(lecture)
		if slot != model.Unassigned && evaluator.problem.Slot(slot).Blackout {
			violations++
		}
	}
	return violations
}

func (evaluator *Evaluator) check500(schedule model.Schedule, scope Scope) int {
	if scope == TutorialsOnly {
		return 0
	}
	perSlot := make(map[model.SlotID]int)
	for _, lecture := range evaluator.lectures500 {
		if slot := schedule.SlotOf(lecture); slot != model.Unassigned {
			perSlot[slot]++
		}
	}
	violations := 0
	for _, count := range perSlot {
		violations += max(0, count-1)
	}
	return violations
}

func (evaluator *Evaluator) checkSectionOverlap(schedule model.Schedule, scope Scope) int {
	violations := 0
	for _, group := range evaluator.sections {
		for _, lecture := range group.lectures {
			lectureSlot := schedule.SlotOf(lecture)
			if lectureSlot == model.Unassigned {
				continue
			}
			for _, tutorial := range group.tutorials {
				tutorialSlot := schedule.SlotOf(tutorial)
				if tutorialSlot == model.Unassigned || !evaluator.inScope(scope, lecture, tutorial) {
					continue
				}
				if evaluator.predicates.Overlap(lectureSlot, tutorialSlot) {
					violations++
				}
			}
		}
	}
	return violations
}

func (evaluator *Evaluator) inScope(scope Scope, events ...model.EventID) bool {
	for _, event := range events {
		if scope.includes(evaluator.problem.Event(event)) {
			return true
		}
	}
	return false
}
