package ga

import (
	"math/rand/v2"

	"github.com/limaJavier/gatimetabling/pkg/model"
)

// Crossover builds a child that takes each event's slot from either parent with equal probability.
// Special tutorials always keep the first parent's slot.
func (variation *Variation) Crossover(first, second model.Schedule, r *rand.Rand) model.Schedule {
	child := model.NewSchedule(len(first))
	for i := range first {
		event := model.EventID(i)
		if variation.problem.Event(event).SpecialTutorial || r.IntN(2) == 0 {
			child.Assign(event, first.SlotOf(event))
		} else {
			child.Assign(event, second.SlotOf(event))
		}
	}
	return child
}
