package eval

import "github.com/limaJavier/gatimetabling/pkg/model"

type predicateEvaluatorStandard struct {
	problem  *model.ProblemInstance
	unwanted map[[2]int]bool // (event, slot) pairs that must not be used
}

func NewPredicateEvaluator(problem *model.ProblemInstance) PredicateEvaluator {
	evaluator := predicateEvaluatorStandard{
		problem:  problem,
		unwanted: make(map[[2]int]bool, len(problem.Unwanted)),
	}
	for _, unwanted := range problem.Unwanted {
		evaluator.unwanted[[2]int{int(unwanted.Event), int(unwanted.Slot)}] = true
	}
	return &evaluator
}

func (evaluator *predicateEvaluatorStandard) SameTime(slot1, slot2 model.SlotID) bool {
	return evaluator.problem.Slot(slot1).SameTime(evaluator.problem.Slot(slot2))
}

func (evaluator *predicateEvaluatorStandard) Overlap(slot1, slot2 model.SlotID) bool {
	return overlap(evaluator.problem.Slot(slot1), evaluator.problem.Slot(slot2))
}

func (evaluator *predicateEvaluatorStandard) ALCapable(event model.EventID, slot model.SlotID) bool {
	return !evaluator.problem.Event(event).ALRequired || evaluator.problem.Slot(slot).ALMax > 0
}

func (evaluator *predicateEvaluatorStandard) EveningCompatible(event model.EventID, slot model.SlotID) bool {
	return !evaluator.problem.Event(event).Evening || evaluator.problem.Slot(slot).Evening
}

func (evaluator *predicateEvaluatorStandard) Unwanted(event model.EventID, slot model.SlotID) bool {
	return evaluator.unwanted[[2]int{int(event), int(slot)}]
}

func (evaluator *predicateEvaluatorStandard) Allowed(event model.EventID, slot model.SlotID) bool {
	e, s := evaluator.problem.Event(event), evaluator.problem.Slot(slot)

	if e.Kind.SlotKind() != s.Kind {
		return false
	}
	if pinned, ok := evaluator.problem.PinnedSlot(event); ok {
		return pinned == slot
	}
	if e.SpecialTutorial {
		return s.IsSpecial
	}
	if e.IsLecture() && s.Blackout {
		return false
	}
	return !evaluator.Unwanted(event, slot) &&
		evaluator.ALCapable(event, slot) &&
		evaluator.EveningCompatible(event, slot)
}
