package model

import (
	"fmt"
	"strconv"
	"strings"
)

type EventKind int

const (
	Lecture EventKind = iota
	Tutorial
	Lab
)

func (kind EventKind) String() string {
	switch kind {
	case Lecture:
		return "LEC"
	case Tutorial:
		return "TUT"
	case Lab:
		return "LAB"
	}
	return fmt.Sprintf("EventKind(%d)", int(kind))
}

// SlotKind returns the kind of slot an event of this kind must be placed in (labs share tutorial slots)
func (kind EventKind) SlotKind() SlotKind {
	if kind == Lecture {
		return LectureSlot
	}
	return TutorialSlot
}

type EventID int

type CourseKey struct {
	Department string
	Number     int
}

func (course CourseKey) String() string {
	return fmt.Sprintf("%v %v", course.Department, course.Number)
}

type Event struct {
	Id         EventID
	Name       string
	Kind       EventKind
	Course     CourseKey
	Section    string // Parent lecture label (e.g. "LEC 01"), empty for tutorials that are not tied to a lecture
	Label      string // Tutorial or lab label (e.g. "TUT 01"), empty for lectures
	ALRequired bool
	Evening    bool
	Is500      bool

	SpecialTutorial bool
	BaseCourse      CourseKey // Course whose sections must not overlap a special tutorial
}

func (event Event) IsLecture() bool {
	return event.Kind == Lecture
}

func (event Event) IsTutorial() bool {
	return event.Kind == Tutorial || event.Kind == Lab
}

func (event Event) String() string {
	return event.Name
}

// NormalizeEventName collapses runs of whitespace so that identifiers written with different spacing compare equal
func NormalizeEventName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// ParseEventName decodes an identifier of the forms "DEPT NUM LEC SS", "DEPT NUM LEC SS TUT|LAB TT" or "DEPT NUM TUT|LAB TT".
// Id and ALRequired are left for the caller.
func ParseEventName(name string) (Event, error) {
	name = NormalizeEventName(name)
	parts := strings.Split(name, " ")
	if len(parts) != 4 && len(parts) != 6 {
		return Event{}, fmt.Errorf("invalid event identifier %q", name)
	}

	number, err := strconv.Atoi(parts[1])
	if err != nil {
		return Event{}, fmt.Errorf("invalid course number in event identifier %q: %w", name, err)
	}

	event := Event{
		Name:   name,
		Course: CourseKey{Department: strings.ToUpper(parts[0]), Number: number},
	}

	first := strings.ToUpper(parts[2])
	if len(parts) == 4 {
		switch first {
		case "LEC":
			event.Kind = Lecture
			event.Section = fmt.Sprintf("%v %v", first, parts[3])
		case "TUT", "LAB":
			event.Kind = tutorialKind(first)
			event.Label = fmt.Sprintf("%v %v", first, parts[3])
		default:
			return Event{}, fmt.Errorf("unknown event type %q in %q: expected LEC, TUT or LAB", parts[2], name)
		}
	} else {
		if first != "LEC" {
			return Event{}, fmt.Errorf("unknown section type %q in %q: expected LEC", parts[2], name)
		}
		second := strings.ToUpper(parts[4])
		if second != "TUT" && second != "LAB" {
			return Event{}, fmt.Errorf("unknown tutorial kind %q in %q: expected TUT or LAB", parts[4], name)
		}
		event.Kind = tutorialKind(second)
		event.Section = fmt.Sprintf("%v %v", first, parts[3])
		event.Label = fmt.Sprintf("%v %v", second, parts[5])
	}

	// Sections numbered in the nineties are evening sections; their tutorials inherit the flag
	event.Evening = strings.HasPrefix(event.Section, EveningSectionPrefix)
	event.Is500 = event.Course.Number >= Course500Level

	return event, nil
}

func tutorialKind(kind string) EventKind {
	if kind == "LAB" {
		return Lab
	}
	return Tutorial
}
