package eval

import (
	"github.com/limaJavier/gatimetabling/pkg/model"
	"github.com/samber/lo"
)

// Evaluator scores schedules of a single problem. It only reads the problem, so one evaluator can be shared
// by concurrent callers.
type Evaluator struct {
	problem     *model.ProblemInstance
	predicates  PredicateEvaluator
	sections    []sectionGroup
	lectures500 []model.EventID
	specials    []model.EventID
}

// sectionGroup holds the lectures of one (department, course, section) and the tutorials that belong to it
type sectionGroup struct {
	lectures  []model.EventID
	tutorials []model.EventID
}

type sectionKey struct {
	course  model.CourseKey
	section string
}

func NewEvaluator(problem *model.ProblemInstance) *Evaluator {
	evaluator := Evaluator{
		problem:    problem,
		predicates: NewPredicateEvaluator(problem),
	}

	evaluator.lectures500 = lo.Filter(problem.Lectures, func(event model.EventID, _ int) bool {
		return problem.Event(event).Is500
	})
	evaluator.specials = lo.Filter(problem.Tutorials, func(event model.EventID, _ int) bool {
		return problem.Event(event).SpecialTutorial
	})

	//** Build section groups
	groups := make(map[sectionKey]*sectionGroup)
	order := make([]sectionKey, 0)
	for _, lecture := range problem.Lectures {
		event := problem.Event(lecture)
		key := sectionKey{course: event.Course, section: event.Section}
		if _, ok := groups[key]; !ok {
			groups[key] = &sectionGroup{}
			order = append(order, key)
		}
		groups[key].lectures = append(groups[key].lectures, lecture)
	}
	for _, tutorial := range problem.Tutorials {
		event := problem.Event(tutorial)
		if event.Section != "" {
			if group, ok := groups[sectionKey{course: event.Course, section: event.Section}]; ok {
				group.tutorials = append(group.tutorials, tutorial)
			}
			continue
		}
		// A tutorial that names no lecture section is shared by every section of its course
		for _, key := range order {
			if key.course == event.Course {
				groups[key].tutorials = append(groups[key].tutorials, tutorial)
			}
		}
	}
	evaluator.sections = lo.Map(order, func(key sectionKey, _ int) sectionGroup { return *groups[key] })

	return &evaluator
}

func (evaluator *Evaluator) Problem() *model.ProblemInstance {
	return evaluator.problem
}

func (evaluator *Evaluator) Predicates() PredicateEvaluator {
	return evaluator.predicates
}

// Occupancy counts, per slot, the events of the slot's kind placed there and how many of them need AL
func (evaluator *Evaluator) Occupancy(schedule model.Schedule) (count, alCount []int) {
	count = make([]int, evaluator.problem.SlotCount())
	alCount = make([]int, evaluator.problem.SlotCount())
	for i, slot := range schedule {
		if slot == model.Unassigned {
			continue
		}
		event := evaluator.problem.Event(model.EventID(i))
		if event.Kind.SlotKind() != evaluator.problem.Slot(slot).Kind {
			continue
		}
		count[slot]++
		if event.ALRequired {
			alCount[slot]++
		}
	}
	return count, alCount
}
