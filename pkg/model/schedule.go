package model

import "slices"

// Schedule maps every event (by index) to a slot, Unassigned marks a missing placement.
// Operators that produce a new schedule clone first so parents are never modified.
type Schedule []SlotID

func NewSchedule(events int) Schedule {
	schedule := make(Schedule, events)
	for i := range schedule {
		schedule[i] = Unassigned
	}
	return schedule
}

func (schedule Schedule) Assign(event EventID, slot SlotID) {
	schedule[event] = slot
}

func (schedule Schedule) SlotOf(event EventID) SlotID {
	return schedule[event]
}

func (schedule Schedule) IsAssigned(event EventID) bool {
	return schedule[event] != Unassigned
}

// Complete reports whether every event has a slot
func (schedule Schedule) Complete() bool {
	return !slices.Contains(schedule, Unassigned)
}

func (schedule Schedule) Clone() Schedule {
	return slices.Clone(schedule)
}

func (schedule Schedule) Equal(other Schedule) bool {
	return slices.Equal(schedule, other)
}

// EventsIn returns the events placed in the given slot
func (schedule Schedule) EventsIn(slot SlotID) []EventID {
	events := make([]EventID, 0)
	for event, assigned := range schedule {
		if assigned == slot {
			events = append(events, EventID(event))
		}
	}
	return events
}
