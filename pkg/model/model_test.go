package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEventName(t *testing.T) {
	t.Run("Lecture", func(t *testing.T) {
		//** Act
		event, err := ParseEventName("CPSC  433   LEC 01")

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, "CPSC 433 LEC 01", event.Name)
		assert.Equal(t, Lecture, event.Kind)
		assert.Equal(t, CourseKey{Department: "CPSC", Number: 433}, event.Course)
		assert.Equal(t, "LEC 01", event.Section)
		assert.False(t, event.Evening)
		assert.False(t, event.Is500)
	})

	t.Run("Evening lecture tutorial inherits the evening flag", func(t *testing.T) {
		//** Act
		event, err := ParseEventName("CPSC 433 LEC 91 LAB 02")

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, Lab, event.Kind)
		assert.Equal(t, "LEC 91", event.Section)
		assert.Equal(t, "LAB 02", event.Label)
		assert.True(t, event.Evening)
		assert.True(t, event.IsTutorial())
	})

	t.Run("Standalone tutorial of a 500-level course", func(t *testing.T) {
		//** Act
		event, err := ParseEventName("SENG 513 TUT 01")

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, Tutorial, event.Kind)
		assert.Empty(t, event.Section)
		assert.True(t, event.Is500)
	})

	t.Run("Malformed identifiers", func(t *testing.T) {
		for _, name := range []string{"CPSC 433", "CPSC ABC LEC 01", "CPSC 433 SEM 01", "CPSC 433 TUT 01 LAB 01", "CPSC 433 LEC 01 SEM 01"} {
			_, err := ParseEventName(name)
			assert.Error(t, err, name)
		}
	})
}

func TestAddSlot(t *testing.T) {
	t.Run("Flags are derived from day and time", func(t *testing.T) {
		//** Arrange
		problem := NewProblemInstance("flags")

		//** Act
		blackout, err1 := problem.AddSlot(LectureSlot, "TU", "11:00", 2, 0, 0)
		evening, err2 := problem.AddSlot(LectureSlot, "MO", "18:00", 2, 0, 0)
		special, err3 := problem.AddSlot(TutorialSlot, "TU", "18:00", 2, 0, 0)
		morning, err4 := problem.AddSlot(TutorialSlot, "FR", "08:00", 2, 0, 0)

		//** Assert
		require.NoError(t, err1)
		require.NoError(t, err2)
		require.NoError(t, err3)
		require.NoError(t, err4)
		assert.True(t, problem.Slot(blackout).Blackout)
		assert.True(t, problem.Slot(evening).Evening)
		assert.False(t, problem.Slot(evening).Blackout)
		assert.True(t, problem.Slot(special).IsSpecial)
		assert.True(t, problem.Slot(special).Evening)
		assert.Equal(t, special, problem.SpecialSlot)
		assert.Equal(t, "8:00", problem.Slot(morning).Start)
		assert.Equal(t, 8*60, problem.Slot(morning).Minutes)
		assert.Len(t, problem.SlotsAtTime(evening), 1)
	})

	t.Run("Invalid slots", func(t *testing.T) {
		//** Arrange
		problem := NewProblemInstance("invalid")
		_, err := problem.AddSlot(LectureSlot, "MO", "8:00", 1, 0, 0)
		require.NoError(t, err)

		//** Act & Assert
		_, err = problem.AddSlot(LectureSlot, "FR", "8:00", 1, 0, 0)
		assert.Error(t, err)
		_, err = problem.AddSlot(LectureSlot, "MO", "8:75", 1, 0, 0)
		assert.Error(t, err)
		_, err = problem.AddSlot(LectureSlot, "MO", "08:00", 1, 0, 0)
		assert.ErrorIs(t, err, ErrDuplicateSlot)
		_, err = problem.AddSlot(TutorialSlot, "MO", "8:00", 1, 0, 0)
		assert.NoError(t, err)
	})
}

func TestSpecialCourses(t *testing.T) {
	//** Arrange
	problem := NewProblemInstance("special")
	lecture, _ := problem.AddEvent("CPSC 351 LEC 01", false)
	tutorial, _ := problem.AddEvent("CPSC 351 LEC 01 TUT 01", false)
	_, _ = problem.AddEvent("CPSC 433 LEC 01", false)

	//** Act
	err := problem.AddSpecialCourses()

	//** Assert
	require.NoError(t, err)
	special, ok := problem.EventByName("CPSC 851 TUT 01")
	require.True(t, ok)
	assert.True(t, special.SpecialTutorial)
	assert.Equal(t, CourseKey{Department: "CPSC", Number: 351}, special.BaseCourse)
	assert.ElementsMatch(t, []NotCompatible{{A: special.Id, B: lecture}, {A: special.Id, B: tutorial}}, problem.NotCompatible)
	_, ok = problem.EventByName("CPSC 913 TUT 01")
	assert.False(t, ok)
	assert.True(t, problem.IsFixed(special.Id))
}

func TestPlacementResolution(t *testing.T) {
	//** Arrange
	problem := NewProblemInstance("placement")
	_, _ = problem.AddSlot(LectureSlot, "MO", "8:00", 1, 0, 0)
	tutorialSlot, _ := problem.AddSlot(TutorialSlot, "FR", "10:00", 1, 0, 0)
	_, _ = problem.AddEvent("CPSC 433 LEC 01", false)
	tutorial, _ := problem.AddEvent("CPSC 433 TUT 01", false)

	t.Run("Slot of the other kind", func(t *testing.T) {
		err := problem.AddPartialAssignment("CPSC 433 LEC 01", "FR", "10:00")
		assert.ErrorIs(t, err, ErrSlotKindMismatch)
	})

	t.Run("Unknown slot", func(t *testing.T) {
		err := problem.AddUnwanted("CPSC 433 LEC 01", "TU", "10:00")
		assert.ErrorIs(t, err, ErrUnknownSlot)
	})

	t.Run("Unknown event", func(t *testing.T) {
		err := problem.AddPair("CPSC 433 LEC 01", "CPSC 999 LEC 01")
		assert.ErrorIs(t, err, ErrUnknownEvent)
	})

	t.Run("Negative preference weight", func(t *testing.T) {
		err := problem.AddPreference("MO", "8:00", "CPSC 433 LEC 01", -1)
		assert.ErrorIs(t, err, ErrNegativeWeight)
		assert.Empty(t, problem.Preferences)
	})

	t.Run("Pinned tutorial", func(t *testing.T) {
		err := problem.AddPartialAssignment("CPSC 433   TUT 01", "FR", "10:00")
		require.NoError(t, err)

		slot, ok := problem.PinnedSlot(tutorial)
		assert.True(t, ok)
		assert.Equal(t, tutorialSlot, slot)
	})
}

func TestValidate(t *testing.T) {
	t.Run("Lectures without lecture slots", func(t *testing.T) {
		problem := NewProblemInstance("empty")
		_, _ = problem.AddSlot(TutorialSlot, "MO", "8:00", 1, 0, 0)
		_, _ = problem.AddEvent("CPSC 433 LEC 01", false)
		assert.ErrorIs(t, problem.Validate(), ErrNoLectureSlots)
	})

	t.Run("Tutorials without tutorial slots", func(t *testing.T) {
		problem := NewProblemInstance("empty")
		_, _ = problem.AddSlot(LectureSlot, "MO", "8:00", 1, 0, 0)
		_, _ = problem.AddEvent("CPSC 433 TUT 01", false)
		assert.ErrorIs(t, problem.Validate(), ErrNoTutorialSlots)
	})

	t.Run("No slots at all", func(t *testing.T) {
		assert.Error(t, NewProblemInstance("empty").Validate())
	})
}

func TestSchedule(t *testing.T) {
	//** Arrange
	schedule := NewSchedule(3)
	schedule.Assign(0, 2)
	schedule.Assign(2, 2)

	//** Act
	clone := schedule.Clone()
	clone.Assign(1, 0)

	//** Assert
	assert.False(t, schedule.Complete())
	assert.True(t, clone.Complete())
	assert.False(t, schedule.IsAssigned(1))
	assert.False(t, schedule.Equal(clone))
	assert.Equal(t, []EventID{0, 2}, schedule.EventsIn(2))
}

func TestInputFromJson(t *testing.T) {
	//** Act
	problem, skipped, err := InputFromJson("testdata/small.json")

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, "small", problem.Name)
	assert.Len(t, problem.LectureSlots, 4)
	assert.Len(t, problem.TutorialSlots, 3)
	// Three lectures, two tutorials and the generated CPSC 851 quiz tutorial
	assert.Equal(t, 6, problem.EventCount())
	assert.Len(t, problem.Preferences, 1)
	require.Len(t, skipped, 1)
	assert.ErrorIs(t, skipped[0].Err, ErrUnknownEvent)
	assert.Len(t, problem.NotCompatible, 1+3)
	assert.Equal(t, Weights{MinFilled: 1, Preference: 2, Pair: 3, SectionDiff: 4}, problem.Weights)
	assert.Equal(t, Penalties{LectureMin: 5, TutorialMin: 6, NotPaired: 7, Section: 8}, problem.Penalties)

	evening, ok := problem.EventByName("CPSC 351 LEC 95")
	require.True(t, ok)
	assert.True(t, evening.Evening)

	lab, _ := problem.EventByName("SENG 513 LAB 01")
	assert.True(t, problem.IsFixed(lab.Id))
	assert.NotEqual(t, Unassigned, problem.SpecialSlot)
}

func TestProcessRawInput(t *testing.T) {
	t.Run("Negative weights are rejected", func(t *testing.T) {
		_, _, err := ProcessRawInput(RawProblem{Weights: &Weights{MinFilled: -1}})
		assert.Error(t, err)
	})

	t.Run("Negative preference weight is rejected", func(t *testing.T) {
		//** Arrange
		raw := RawProblem{
			Name:         "negative",
			LectureSlots: []RawSlot{{Day: "MO", Start: "8:00", Max: 1}, {Day: "MO", Start: "9:00", Max: 1}},
			Lectures:     []RawEvent{{Name: "CPSC 433 LEC 01"}},
			Preferences:  []RawPreference{{Event: "CPSC 433 LEC 01", Day: "MO", Start: "9:00", Weight: -1}},
		}

		//** Act
		problem, skipped, err := ProcessRawInput(raw)

		//** Assert
		assert.Error(t, err)
		assert.Nil(t, problem)
		assert.Empty(t, skipped)
	})

	t.Run("Tutorial listed among lectures", func(t *testing.T) {
		_, _, err := ProcessRawInput(RawProblem{Lectures: []RawEvent{{Name: "CPSC 433 TUT 01"}}})
		assert.Error(t, err)
	})

	t.Run("Defaults without knobs", func(t *testing.T) {
		problem, _, err := ProcessRawInput(RawProblem{Name: "bare"})
		require.NoError(t, err)
		assert.Equal(t, DefaultWeights(), problem.Weights)
		assert.Equal(t, DefaultPenalties(), problem.Penalties)
	})
}
