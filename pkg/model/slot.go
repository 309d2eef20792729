package model

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

//** Calendar constants

const (
	EveningHour          = 18
	EveningSectionPrefix = "LEC 9"
	Course500Level       = 500

	// Weekly department meeting: no lecture may start here
	BlackoutDay   = "TU"
	BlackoutStart = "11:00"

	// Tutorial slot reserved for the synthetic quiz tutorials
	SpecialDay   = "TU"
	SpecialStart = "18:00"
)

var (
	LectureDays  = []string{"MO", "TU"}
	TutorialDays = []string{"MO", "TU", "FR"}
)

type SlotKind int

const (
	LectureSlot SlotKind = iota
	TutorialSlot
)

func (kind SlotKind) String() string {
	if kind == LectureSlot {
		return "lecture"
	}
	return "tutorial"
}

type SlotID int

// Unassigned marks an event that has no slot yet
const Unassigned SlotID = -1

type SlotKey struct {
	Kind  SlotKind
	Day   string
	Start string
}

type Slot struct {
	Id      SlotID
	Kind    SlotKind
	Day     string
	Start   string // Canonical "H:MM"
	Minutes int    // Minutes since midnight
	Max     int
	Min     int
	ALMax   int

	Evening   bool
	Blackout  bool // Lecture slot overlapping the department meeting
	IsSpecial bool // Tutorial slot reserved for special tutorials
}

func (slot Slot) Key() SlotKey {
	return SlotKey{Kind: slot.Kind, Day: slot.Day, Start: slot.Start}
}

// SameTime reports whether both slots start on the same day at the same time regardless of their kind
func (slot Slot) SameTime(other Slot) bool {
	return slot.Day == other.Day && slot.Minutes == other.Minutes
}

func (slot Slot) String() string {
	return fmt.Sprintf("%v, %v", slot.Day, slot.Start)
}

// ParseClock converts a "H:MM" or "HH:MM" time into minutes since midnight
func ParseClock(clock string) (int, error) {
	clock = strings.TrimSpace(clock)
	hours, minutes, found := strings.Cut(clock, ":")
	if !found {
		return 0, fmt.Errorf("invalid time %q: expected H:MM", clock)
	}
	h, err := strconv.Atoi(hours)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in time %q", clock)
	}
	m, err := strconv.Atoi(minutes)
	if err != nil || m < 0 || m > 59 || len(minutes) != 2 {
		return 0, fmt.Errorf("invalid minutes in time %q", clock)
	}
	return h*60 + m, nil
}

// CanonicalClock rewrites a time in its canonical "H:MM" form ("08:00" becomes "8:00")
func CanonicalClock(clock string) (string, error) {
	minutes, err := ParseClock(clock)
	if err != nil {
		return "", err
	}
	return FormatClock(minutes), nil
}

func FormatClock(minutes int) string {
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}

func validDay(kind SlotKind, day string) bool {
	days := LectureDays
	if kind == TutorialSlot {
		days = TutorialDays
	}
	return slices.Contains(days, day)
}
