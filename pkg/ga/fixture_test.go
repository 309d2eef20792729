package ga

import (
	"math/rand/v2"
	"testing"

	"github.com/limaJavier/gatimetabling/pkg/eval"
	"github.com/limaJavier/gatimetabling/pkg/model"
	"github.com/stretchr/testify/require"
)

type slotDef struct {
	kind            model.SlotKind
	day, start      string
	max, min, alMax int
}

type eventDef struct {
	name string
	al   bool
}

func buildProblem(t *testing.T, slots []slotDef, events []eventDef) *model.ProblemInstance {
	t.Helper()
	problem := model.NewProblemInstance(t.Name())
	for _, slot := range slots {
		_, err := problem.AddSlot(slot.kind, slot.day, slot.start, slot.max, slot.min, slot.alMax)
		require.NoError(t, err)
	}
	for _, event := range events {
		_, err := problem.AddEvent(event.name, event.al)
		require.NoError(t, err)
	}
	require.NoError(t, problem.AddSpecialCourses())
	return problem
}

// fixture slots
const (
	lecMo800 model.SlotID = iota
	lecMo900
	lecTu930
	lecTu1800
	lecMo1800
	tutMo1000
	tutFr1000
	tutTu1800
	tutMo1800
)

// fixture events
const (
	cpsc433 model.EventID = iota
	cpsc433Tut
	cpsc433Evening
	cpsc433EveningTut
	seng513
	seng599
	cpsc351
	cpsc851
)

func fixture(t *testing.T) (*model.ProblemInstance, model.Schedule) {
	t.Helper()
	problem := buildProblem(t,
		[]slotDef{
			{model.LectureSlot, "MO", "8:00", 3, 0, 1},
			{model.LectureSlot, "MO", "9:00", 3, 0, 0},
			{model.LectureSlot, "TU", "9:30", 3, 0, 0},
			{model.LectureSlot, "TU", "18:00", 3, 0, 1},
			{model.LectureSlot, "MO", "18:00", 3, 0, 0},
			{model.TutorialSlot, "MO", "10:00", 3, 0, 1},
			{model.TutorialSlot, "FR", "10:00", 3, 0, 0},
			{model.TutorialSlot, "TU", "18:00", 3, 0, 0},
			{model.TutorialSlot, "MO", "18:00", 3, 0, 0},
		},
		[]eventDef{
			{"CPSC 433 LEC 01", true},
			{"CPSC 433 LEC 01 TUT 01", false},
			{"CPSC 433 LEC 91", false},
			{"CPSC 433 LEC 91 TUT 01", false},
			{"SENG 513 LEC 01", false},
			{"SENG 599 LEC 01", false},
			{"CPSC 351 LEC 01", false},
		},
	)
	require.NoError(t, problem.AddNotCompatible("CPSC 433 LEC 01", "SENG 513 LEC 01"))
	require.NoError(t, problem.AddPartialAssignment("SENG 599 LEC 01", "TU", "9:30"))

	compliant := model.NewSchedule(problem.EventCount())
	compliant.Assign(cpsc433, lecMo800)
	compliant.Assign(cpsc433Tut, tutFr1000)
	compliant.Assign(cpsc433Evening, lecTu1800)
	compliant.Assign(cpsc433EveningTut, tutMo1800)
	compliant.Assign(seng513, lecMo900)
	compliant.Assign(seng599, lecTu930)
	compliant.Assign(cpsc351, lecMo900)
	compliant.Assign(cpsc851, tutTu1800)

	return problem, compliant
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func newVariation(problem *model.ProblemInstance) (*Variation, *eval.Evaluator) {
	evaluator := eval.NewEvaluator(problem)
	return NewVariation(evaluator), evaluator
}

func moved(schedule model.Schedule, event model.EventID, slot model.SlotID) model.Schedule {
	clone := schedule.Clone()
	clone.Assign(event, slot)
	return clone
}

// changedEvents lists the events whose slot differs between the two schedules
func changedEvents(a, b model.Schedule) []model.EventID {
	changed := make([]model.EventID, 0)
	for i := range a {
		if a[i] != b[i] {
			changed = append(changed, model.EventID(i))
		}
	}
	return changed
}
