package eval

import (
	"github.com/limaJavier/gatimetabling/pkg/model"
	"github.com/samber/lo"
)

// block is the weekly meeting pattern of a placement: the days it meets on and how long each meeting lasts
type block struct {
	days     []string
	duration int // Minutes
}

// Lectures booked on Monday meet Monday, Wednesday and Friday for an hour, lectures booked on Tuesday meet
// Tuesday and Thursday for an hour and a half. Tutorials meet for an hour on MO/WE and TU/TH and for two
// hours on Friday.
var blocks = map[model.SlotKind]map[string]block{
	model.LectureSlot: {
		"MO": {days: []string{"MO", "WE", "FR"}, duration: 60},
		"TU": {days: []string{"TU", "TH"}, duration: 90},
	},
	model.TutorialSlot: {
		"MO": {days: []string{"MO", "WE"}, duration: 60},
		"TU": {days: []string{"TU", "TH"}, duration: 60},
		"FR": {days: []string{"FR"}, duration: 120},
	},
}

func blockOf(slot model.Slot) block {
	if b, ok := blocks[slot.Kind][slot.Day]; ok {
		return b
	}
	return block{days: []string{slot.Day}, duration: 60}
}

// overlap reports whether the two placements share a meeting day and their time windows intersect
func overlap(first, second model.Slot) bool {
	a, b := blockOf(first), blockOf(second)

	if len(lo.Intersect(a.days, b.days)) == 0 {
		return false
	}

	return first.Minutes < second.Minutes+b.duration && second.Minutes < first.Minutes+a.duration
}
