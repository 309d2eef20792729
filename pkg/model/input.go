package model

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

type RawSlot struct {
	Day   string `mapstructure:"day"`
	Start string `mapstructure:"start"`
	Max   int    `mapstructure:"max"`
	Min   int    `mapstructure:"min"`
	ALMax int    `mapstructure:"alMax"`
}

type RawEvent struct {
	Name       string `mapstructure:"name"`
	ALRequired bool   `mapstructure:"alRequired"`
}

type RawPair struct {
	A string `mapstructure:"a"`
	B string `mapstructure:"b"`
}

type RawPlacement struct {
	Event string `mapstructure:"event"`
	Day   string `mapstructure:"day"`
	Start string `mapstructure:"start"`
}

type RawPreference struct {
	Event  string `mapstructure:"event"`
	Day    string `mapstructure:"day"`
	Start  string `mapstructure:"start"`
	Weight int    `mapstructure:"weight" validate:"gte=0"`
}

// RawProblem is the unresolved problem description, every reference is still a name
type RawProblem struct {
	Name               string          `mapstructure:"name"`
	LectureSlots       []RawSlot       `mapstructure:"lectureSlots"`
	TutorialSlots      []RawSlot       `mapstructure:"tutorialSlots"`
	Lectures           []RawEvent      `mapstructure:"lectures"`
	Tutorials          []RawEvent      `mapstructure:"tutorials"`
	NotCompatible      []RawPair       `mapstructure:"notCompatible"`
	Unwanted           []RawPlacement  `mapstructure:"unwanted"`
	Preferences        []RawPreference `mapstructure:"preferences"`
	Pairs              []RawPair       `mapstructure:"pairs"`
	PartialAssignments []RawPlacement  `mapstructure:"partialAssignments"`
	Weights            *Weights        `mapstructure:"weights"`
	Penalties          *Penalties      `mapstructure:"penalties"`
}

// SkippedPreference describes a preference dropped because it names an unknown event or slot
type SkippedPreference struct {
	Preference RawPreference
	Err        error
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func InputFromJson(file string) (*ProblemInstance, []SkippedPreference, error) {
	rawInput, err := RawFromJson(file)
	if err != nil {
		return nil, nil, err
	}
	return ProcessRawInput(rawInput)
}

// RawFromJson decodes the JSON form of a problem description without resolving any name
func RawFromJson(file string) (RawProblem, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return RawProblem{}, err
	}
	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return RawProblem{}, fmt.Errorf("cannot parse problem %v: %w", file, err)
	}

	var rawInput RawProblem
	if err := mapstructure.Decode(inputJson, &rawInput); err != nil {
		return RawProblem{}, fmt.Errorf("cannot decode problem %v: %w", file, err)
	}
	return rawInput, nil
}

// ProcessRawInput resolves every name of the raw description and builds the problem instance.
// Preferences that reference unknown events or slots are skipped and returned, any other dangling
// reference is an error.
func ProcessRawInput(rawInput RawProblem) (*ProblemInstance, []SkippedPreference, error) {
	problem := NewProblemInstance(rawInput.Name)

	if rawInput.Weights != nil {
		if err := validate.Struct(rawInput.Weights); err != nil {
			return nil, nil, fmt.Errorf("invalid weights: %w", err)
		}
		problem.Weights = *rawInput.Weights
	}
	if rawInput.Penalties != nil {
		if err := validate.Struct(rawInput.Penalties); err != nil {
			return nil, nil, fmt.Errorf("invalid penalties: %w", err)
		}
		problem.Penalties = *rawInput.Penalties
	}

	//** Slots
	for _, slot := range rawInput.LectureSlots {
		if _, err := problem.AddSlot(LectureSlot, slot.Day, slot.Start, slot.Max, slot.Min, slot.ALMax); err != nil {
			return nil, nil, err
		}
	}
	for _, slot := range rawInput.TutorialSlots {
		if _, err := problem.AddSlot(TutorialSlot, slot.Day, slot.Start, slot.Max, slot.Min, slot.ALMax); err != nil {
			return nil, nil, err
		}
	}

	//** Events
	for _, lecture := range rawInput.Lectures {
		id, err := problem.AddEvent(lecture.Name, lecture.ALRequired)
		if err != nil {
			return nil, nil, err
		}
		if !problem.Event(id).IsLecture() {
			return nil, nil, fmt.Errorf("%q is listed as a lecture but is a %v", lecture.Name, problem.Event(id).Kind)
		}
	}
	for _, tutorial := range rawInput.Tutorials {
		id, err := problem.AddEvent(tutorial.Name, tutorial.ALRequired)
		if err != nil {
			return nil, nil, err
		}
		if !problem.Event(id).IsTutorial() {
			return nil, nil, fmt.Errorf("%q is listed as a tutorial but is a lecture", tutorial.Name)
		}
	}
	if err := problem.AddSpecialCourses(); err != nil {
		return nil, nil, err
	}

	//** Constraints
	for _, pair := range rawInput.NotCompatible {
		if err := problem.AddNotCompatible(pair.A, pair.B); err != nil {
			return nil, nil, fmt.Errorf("not compatible %v, %v: %w", pair.A, pair.B, err)
		}
	}
	for _, unwanted := range rawInput.Unwanted {
		if err := problem.AddUnwanted(unwanted.Event, unwanted.Day, unwanted.Start); err != nil {
			return nil, nil, fmt.Errorf("unwanted %v: %w", unwanted.Event, err)
		}
	}
	skipped := make([]SkippedPreference, 0)
	for _, preference := range rawInput.Preferences {
		// Only dangling names are skipped, a negative weight is an input error
		if err := validate.Struct(preference); err != nil {
			return nil, nil, fmt.Errorf("preference %v: %w", preference.Event, err)
		}
		if err := problem.AddPreference(preference.Day, preference.Start, preference.Event, preference.Weight); err != nil {
			skipped = append(skipped, SkippedPreference{Preference: preference, Err: err})
		}
	}
	for _, pair := range rawInput.Pairs {
		if err := problem.AddPair(pair.A, pair.B); err != nil {
			return nil, nil, fmt.Errorf("pair %v, %v: %w", pair.A, pair.B, err)
		}
	}
	for _, assignment := range rawInput.PartialAssignments {
		if err := problem.AddPartialAssignment(assignment.Event, assignment.Day, assignment.Start); err != nil {
			return nil, nil, fmt.Errorf("partial assignment %v: %w", assignment.Event, err)
		}
	}

	return problem, skipped, nil
}
