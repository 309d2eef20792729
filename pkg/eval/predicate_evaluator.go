package eval

import "github.com/limaJavier/gatimetabling/pkg/model"

type PredicateEvaluator interface {
	// Checks whether both slots start on the same day at the same time
	SameTime(slot1, slot2 model.SlotID) bool

	// Checks whether the weekly meetings of the two slots intersect (e.g. a Monday lecture also meets on Friday)
	Overlap(slot1, slot2 model.SlotID) bool

	// Checks whether the event's AL requirement (if any) can be met by the slot
	ALCapable(event model.EventID, slot model.SlotID) bool

	// Checks whether the event's evening requirement (if any) is met by the slot
	EveningCompatible(event model.EventID, slot model.SlotID) bool

	// Checks whether the event is forbidden from the slot by an unwanted constraint
	Unwanted(event model.EventID, slot model.SlotID) bool

	// Checks whether the event may be placed in the slot without breaking any per-placement rule: slot kind,
	// pinning, unwanted, AL, evening, department blackout and the special tutorial slot
	Allowed(event model.EventID, slot model.SlotID) bool
}
