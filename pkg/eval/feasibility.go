package eval

import (
	"github.com/limaJavier/gatimetabling/pkg/model"
	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

// seat is one unit of a slot's capacity; the first ALMax seats of a slot can host AL events
type seat struct {
	slot model.SlotID
	al   bool
}

type FeasibilityReport struct {
	Seated   int
	Unseated []model.EventID // Events left without a seat by a maximum matching
}

func (report FeasibilityReport) Feasible() bool {
	return len(report.Unseated) == 0
}

// Feasibility matches events onto slot seats honouring every per-placement rule and the capacity limits.
// Events left unseated by a maximum matching cannot all be placed at once, whatever the search does, so a
// non-empty report is a lower bound on the capacity and placement violations of any schedule.
func (evaluator *Evaluator) Feasibility() (FeasibilityReport, error) {
	problem := evaluator.problem
	if problem.EventCount() == 0 {
		return FeasibilityReport{}, nil
	}

	//** Build seats
	seats := make([]seat, 0)
	for _, slot := range problem.Slots {
		// More seats than events of the slot's kind can never be used
		capacity := min(slot.Max, evaluator.eventsOfKind(slot.Kind))
		for i := range capacity {
			seats = append(seats, seat{slot: slot.Id, al: i < slot.ALMax})
		}
	}

	if len(seats) == 0 {
		return FeasibilityReport{Unseated: lo.Map(problem.Events, func(event model.Event, _ int) model.EventID { return event.Id })}, nil
	}

	neighbors := func(eventAny any, seatAny any) (bool, error) {
		event := eventAny.(model.EventID)
		s := seatAny.(seat)
		if problem.Event(event).ALRequired && !s.al {
			return false, nil
		}
		return evaluator.predicates.Allowed(event, s.slot), nil
	}

	events := lo.Map(problem.Events, func(event model.Event, _ int) any { return event.Id })
	seatsAny := lo.Map(seats, func(s seat, _ int) any { return s })

	graph, err := bipartitegraph.NewBipartiteGraph(events, seatsAny, neighbors)
	if err != nil {
		return FeasibilityReport{}, err
	}
	matching := graph.LargestMatching()

	seated := make(map[model.EventID]bool, len(matching))
	for _, edge := range matching {
		seated[model.EventID(edge.Node1)] = true
	}
	report := FeasibilityReport{Seated: len(matching)}
	for _, event := range problem.Events {
		if !seated[event.Id] {
			report.Unseated = append(report.Unseated, event.Id)
		}
	}
	return report, nil
}

func (evaluator *Evaluator) eventsOfKind(kind model.SlotKind) int {
	if kind == model.LectureSlot {
		return len(evaluator.problem.Lectures)
	}
	return len(evaluator.problem.Tutorials)
}
