package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

var (
	ErrNoLectureSlots   = errors.New("problem has lectures but no lecture slots")
	ErrNoTutorialSlots  = errors.New("problem has tutorials but no tutorial slots")
	ErrUnknownEvent     = errors.New("unknown event")
	ErrUnknownSlot      = errors.New("unknown slot")
	ErrSlotKindMismatch = errors.New("slot kind does not match event kind")
	ErrDuplicateEvent   = errors.New("duplicate event")
	ErrDuplicateSlot    = errors.New("duplicate slot")
	ErrNegativeWeight   = errors.New("negative preference weight")
)

type SpecialCourse struct {
	Base     CourseKey
	Tutorial string
}

// Quiz tutorials generated for a base course when any of its lectures exist
var SpecialCourses = []SpecialCourse{
	{Base: CourseKey{Department: "CPSC", Number: 351}, Tutorial: "CPSC 851 TUT 01"},
	{Base: CourseKey{Department: "CPSC", Number: 413}, Tutorial: "CPSC 913 TUT 01"},
}

type timeKey struct {
	day     string
	minutes int
}

// ProblemInstance aggregates events, slots, constraints and soft-score knobs.
// It is assembled once through the Add* methods and must be treated as read-only afterwards.
type ProblemInstance struct {
	Name string

	Events        []Event
	Slots         []Slot
	Lectures      []EventID
	Tutorials     []EventID
	LectureSlots  []SlotID
	TutorialSlots []SlotID
	SpecialSlot   SlotID // Unassigned when the instance has no TU 18:00 tutorial slot

	NotCompatible      []NotCompatible
	Unwanted           []Unwanted
	Preferences        []Preference
	Pairs              []Pair
	PartialAssignments []PartialAssignment

	Weights   Weights
	Penalties Penalties

	eventsByName    map[string]EventID
	slotsByKey      map[SlotKey]SlotID
	slotsByTime     map[timeKey][]SlotID
	courseLectures  map[CourseKey][]EventID
	courseTutorials map[CourseKey][]EventID
	pinned          map[EventID]SlotID
}

func NewProblemInstance(name string) *ProblemInstance {
	return &ProblemInstance{
		Name:            name,
		SpecialSlot:     Unassigned,
		Weights:         DefaultWeights(),
		Penalties:       DefaultPenalties(),
		eventsByName:    make(map[string]EventID),
		slotsByKey:      make(map[SlotKey]SlotID),
		slotsByTime:     make(map[timeKey][]SlotID),
		courseLectures:  make(map[CourseKey][]EventID),
		courseTutorials: make(map[CourseKey][]EventID),
		pinned:          make(map[EventID]SlotID),
	}
}

//** Construction

func (problem *ProblemInstance) AddSlot(kind SlotKind, day, start string, max, min, alMax int) (SlotID, error) {
	day = strings.ToUpper(strings.TrimSpace(day))
	if !validDay(kind, day) {
		return Unassigned, fmt.Errorf("invalid day %q for a %v slot", day, kind)
	}
	minutes, err := ParseClock(start)
	if err != nil {
		return Unassigned, err
	}
	if max < 0 || min < 0 || alMax < 0 {
		return Unassigned, fmt.Errorf("negative capacity for %v slot %v %v", kind, day, start)
	}

	slot := Slot{
		Id:      SlotID(len(problem.Slots)),
		Kind:    kind,
		Day:     day,
		Start:   FormatClock(minutes),
		Minutes: minutes,
		Max:     max,
		Min:     min,
		ALMax:   alMax,
		Evening: minutes/60 >= EveningHour,
	}
	slot.Blackout = kind == LectureSlot && slot.Day == BlackoutDay && slot.Start == BlackoutStart
	slot.IsSpecial = kind == TutorialSlot && slot.Day == SpecialDay && slot.Start == SpecialStart

	if _, ok := problem.slotsByKey[slot.Key()]; ok {
		return Unassigned, fmt.Errorf("%w: %v slot %v", ErrDuplicateSlot, kind, slot)
	}

	problem.Slots = append(problem.Slots, slot)
	problem.slotsByKey[slot.Key()] = slot.Id
	tk := timeKey{day: slot.Day, minutes: slot.Minutes}
	problem.slotsByTime[tk] = append(problem.slotsByTime[tk], slot.Id)
	if kind == LectureSlot {
		problem.LectureSlots = append(problem.LectureSlots, slot.Id)
	} else {
		problem.TutorialSlots = append(problem.TutorialSlots, slot.Id)
		if slot.IsSpecial {
			problem.SpecialSlot = slot.Id
		}
	}
	return slot.Id, nil
}

func (problem *ProblemInstance) AddEvent(name string, alRequired bool) (EventID, error) {
	event, err := ParseEventName(name)
	if err != nil {
		return 0, err
	}
	if _, ok := problem.eventsByName[event.Name]; ok {
		return 0, fmt.Errorf("%w: %q", ErrDuplicateEvent, event.Name)
	}

	event.Id = EventID(len(problem.Events))
	event.ALRequired = alRequired
	problem.Events = append(problem.Events, event)
	problem.eventsByName[event.Name] = event.Id
	if event.IsLecture() {
		problem.Lectures = append(problem.Lectures, event.Id)
		problem.courseLectures[event.Course] = append(problem.courseLectures[event.Course], event.Id)
	} else {
		problem.Tutorials = append(problem.Tutorials, event.Id)
		problem.courseTutorials[event.Course] = append(problem.courseTutorials[event.Course], event.Id)
	}
	return event.Id, nil
}

// AddSpecialCourses creates the quiz tutorial of every special base course that has lectures and makes it
// incompatible with all sections of that base course. It must run after every event has been added.
func (problem *ProblemInstance) AddSpecialCourses() error {
	for _, special := range SpecialCourses {
		base, name := special.Base, special.Tutorial
		if len(problem.courseLectures[base]) == 0 {
			continue
		}

		id, ok := problem.eventsByName[name]
		if !ok {
			var err error
			if id, err = problem.AddEvent(name, false); err != nil {
				return err
			}
		}
		problem.Events[id].SpecialTutorial = true
		problem.Events[id].BaseCourse = base

		for _, section := range problem.CourseEvents(base) {
			problem.NotCompatible = append(problem.NotCompatible, NotCompatible{A: id, B: section})
		}
	}
	return nil
}

func (problem *ProblemInstance) AddNotCompatible(a, b string) error {
	first, err := problem.resolveEvent(a)
	if err != nil {
		return err
	}
	second, err := problem.resolveEvent(b)
	if err != nil {
		return err
	}
	problem.NotCompatible = append(problem.NotCompatible, NotCompatible{A: first, B: second})
	return nil
}

func (problem *ProblemInstance) AddPair(a, b string) error {
	first, err := problem.resolveEvent(a)
	if err != nil {
		return err
	}
	second, err := problem.resolveEvent(b)
	if err != nil {
		return err
	}
	problem.Pairs = append(problem.Pairs, Pair{A: first, B: second})
	return nil
}

func (problem *ProblemInstance) AddUnwanted(event, day, start string) error {
	id, slot, err := problem.resolvePlacement(event, day, start)
	if err != nil {
		return err
	}
	problem.Unwanted = append(problem.Unwanted, Unwanted{Event: id, Slot: slot})
	return nil
}

func (problem *ProblemInstance) AddPreference(day, start, event string, weight int) error {
	if weight < 0 {
		return fmt.Errorf("%w: %v for %v at %v %v", ErrNegativeWeight, weight, event, day, start)
	}
	id, slot, err := problem.resolvePlacement(event, day, start)
	if err != nil {
		return err
	}
	problem.Preferences = append(problem.Preferences, Preference{Event: id, Slot: slot, Weight: weight})
	return nil
}

func (problem *ProblemInstance) AddPartialAssignment(event, day, start string) error {
	id, slot, err := problem.resolvePlacement(event, day, start)
	if err != nil {
		return err
	}
	problem.PartialAssignments = append(problem.PartialAssignments, PartialAssignment{Event: id, Slot: slot})
	// A second pin for the same event stays recorded (and is reported as a violation) but the first one wins
	if _, ok := problem.pinned[id]; !ok {
		problem.pinned[id] = slot
	}
	return nil
}

func (problem *ProblemInstance) resolveEvent(name string) (EventID, error) {
	id, ok := problem.eventsByName[NormalizeEventName(name)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownEvent, name)
	}
	return id, nil
}

// resolvePlacement finds an event and the slot of the event's own kind at the given day and time
func (problem *ProblemInstance) resolvePlacement(event, day, start string) (EventID, SlotID, error) {
	id, err := problem.resolveEvent(event)
	if err != nil {
		return 0, Unassigned, err
	}
	kind := problem.Events[id].Kind.SlotKind()

	day = strings.ToUpper(strings.TrimSpace(day))
	clock, err := CanonicalClock(start)
	if err != nil {
		return 0, Unassigned, err
	}

	slot, ok := problem.slotsByKey[SlotKey{Kind: kind, Day: day, Start: clock}]
	if ok {
		return id, slot, nil
	}
	other := LectureSlot
	if kind == LectureSlot {
		other = TutorialSlot
	}
	if _, ok := problem.slotsByKey[SlotKey{Kind: other, Day: day, Start: clock}]; ok {
		return 0, Unassigned, fmt.Errorf("%w: %q is a %v but %v %v is only a %v slot", ErrSlotKindMismatch, event, problem.Events[id].Kind, day, clock, other)
	}
	return 0, Unassigned, fmt.Errorf("%w: %v slot %v %v", ErrUnknownSlot, kind, day, clock)
}

//** Lookups

func (problem *ProblemInstance) Event(id EventID) Event {
	return problem.Events[id]
}

func (problem *ProblemInstance) Slot(id SlotID) Slot {
	return problem.Slots[id]
}

func (problem *ProblemInstance) EventCount() int {
	return len(problem.Events)
}

func (problem *ProblemInstance) SlotCount() int {
	return len(problem.Slots)
}

func (problem *ProblemInstance) EventByName(name string) (Event, bool) {
	id, ok := problem.eventsByName[NormalizeEventName(name)]
	if !ok {
		return Event{}, false
	}
	return problem.Events[id], true
}

func (problem *ProblemInstance) SlotAt(kind SlotKind, day, start string) (SlotID, bool) {
	clock, err := CanonicalClock(start)
	if err != nil {
		return Unassigned, false
	}
	id, ok := problem.slotsByKey[SlotKey{Kind: kind, Day: strings.ToUpper(day), Start: clock}]
	return id, ok
}

// SlotsAtTime returns the lecture and tutorial slots that start at the same day and time as the given slot
func (problem *ProblemInstance) SlotsAtTime(slot SlotID) []SlotID {
	s := problem.Slots[slot]
	return problem.slotsByTime[timeKey{day: s.Day, minutes: s.Minutes}]
}

func (problem *ProblemInstance) SlotsOfKind(kind SlotKind) []SlotID {
	if kind == LectureSlot {
		return problem.LectureSlots
	}
	return problem.TutorialSlots
}

// CandidateSlots returns every slot the event may legally be placed in by kind
func (problem *ProblemInstance) CandidateSlots(event EventID) []SlotID {
	return problem.SlotsOfKind(problem.Events[event].Kind.SlotKind())
}

func (problem *ProblemInstance) CourseLectures(course CourseKey) []EventID {
	return problem.courseLectures[course]
}

func (problem *ProblemInstance) CourseTutorials(course CourseKey) []EventID {
	return problem.courseTutorials[course]
}

// CourseEvents returns all lectures of the course followed by its tutorials and labs
func (problem *ProblemInstance) CourseEvents(course CourseKey) []EventID {
	events := make([]EventID, 0, len(problem.courseLectures[course])+len(problem.courseTutorials[course]))
	events = append(events, problem.courseLectures[course]...)
	return append(events, problem.courseTutorials[course]...)
}

func (problem *ProblemInstance) Courses() []CourseKey {
	return lo.Uniq(lo.Map(problem.Events, func(event Event, _ int) CourseKey { return event.Course }))
}

func (problem *ProblemInstance) PinnedSlot(event EventID) (SlotID, bool) {
	slot, ok := problem.pinned[event]
	return slot, ok
}

// IsFixed reports whether variation operators must leave the event where it is
func (problem *ProblemInstance) IsFixed(event EventID) bool {
	if _, ok := problem.pinned[event]; ok {
		return true
	}
	return problem.Events[event].SpecialTutorial
}

// Validate checks the structural preconditions of the search
func (problem *ProblemInstance) Validate() error {
	if len(problem.Lectures) > 0 && len(problem.LectureSlots) == 0 {
		return ErrNoLectureSlots
	}
	if len(problem.Tutorials) > 0 && len(problem.TutorialSlots) == 0 {
		return ErrNoTutorialSlots
	}
	if len(problem.LectureSlots) == 0 && len(problem.TutorialSlots) == 0 {
		return ErrNoLectureSlots
	}
	return nil
}
