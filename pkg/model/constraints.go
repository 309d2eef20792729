package model

// NotCompatible forbids both events from starting on the same day at the same time
type NotCompatible struct {
	A, B EventID
}

// Unwanted forbids a single placement
type Unwanted struct {
	Event EventID
	Slot  SlotID
}

// PartialAssignment pins an event to a slot
type PartialAssignment struct {
	Event EventID
	Slot  SlotID
}

type Preference struct {
	Event  EventID
	Slot   SlotID
	Weight int
}

type Pair struct {
	A, B EventID
}

// Weights scale each soft sub-score
type Weights struct {
	MinFilled   int `mapstructure:"minFilled" yaml:"min_filled" env:"W_MINFILLED" validate:"gte=0"`
	Preference  int `mapstructure:"preference" yaml:"preference" env:"W_PREF" validate:"gte=0"`
	Pair        int `mapstructure:"pair" yaml:"pair" env:"W_PAIR" validate:"gte=0"`
	SectionDiff int `mapstructure:"sectionDiff" yaml:"section_diff" env:"W_SECDIFF" validate:"gte=0"`
}

// Penalties are the base penalty units of the min-fill, pair and section-diff sub-scores
type Penalties struct {
	LectureMin  int `mapstructure:"lectureMin" yaml:"lecture_min" env:"PEN_LECTUREMIN" validate:"gte=0"`
	TutorialMin int `mapstructure:"tutorialMin" yaml:"tutorial_min" env:"PEN_TUTORIALMIN" validate:"gte=0"`
	NotPaired   int `mapstructure:"notPaired" yaml:"not_paired" env:"PEN_NOTPAIRED" validate:"gte=0"`
	Section     int `mapstructure:"section" yaml:"section" env:"PEN_SECTION" validate:"gte=0"`
}

func DefaultWeights() Weights {
	return Weights{MinFilled: 1, Preference: 1, Pair: 1, SectionDiff: 1}
}

func DefaultPenalties() Penalties {
	return Penalties{LectureMin: 1, TutorialMin: 1, NotPaired: 1, Section: 1}
}
