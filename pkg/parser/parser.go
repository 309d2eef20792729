package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/limaJavier/gatimetabling/pkg/model"
)

const (
	SectionName               = "Name:"
	SectionLectureSlots       = "Lecture slots:"
	SectionTutorialSlots      = "Tutorial slots:"
	SectionLectures           = "Lectures:"
	SectionTutorials          = "Tutorials:"
	SectionNotCompatible      = "Not compatible:"
	SectionUnwanted           = "Unwanted:"
	SectionPreferences        = "Preferences:"
	SectionPair               = "Pair:"
	SectionPartialAssignments = "Partial assignments:"
)

var Sections = []string{
	SectionName,
	SectionLectureSlots,
	SectionTutorialSlots,
	SectionLectures,
	SectionTutorials,
	SectionNotCompatible,
	SectionUnwanted,
	SectionPreferences,
	SectionPair,
	SectionPartialAssignments,
}

// ParseError locates a malformed line of the problem description
type ParseError struct {
	Line    int
	Section string
	Text    string
	Err     error
}

func (err *ParseError) Error() string {
	return fmt.Sprintf("line %v (%v) %q: %v", err.Line, strings.TrimSuffix(err.Section, ":"), err.Text, err.Err)
}

func (err *ParseError) Unwrap() error {
	return err.Err
}

type lineParser func(problem *model.RawProblem, fields []string) error

var lineParsers = map[string]lineParser{
	SectionName:               parseName,
	SectionLectureSlots:       parseSlot(func(problem *model.RawProblem) *[]model.RawSlot { return &problem.LectureSlots }),
	SectionTutorialSlots:      parseSlot(func(problem *model.RawProblem) *[]model.RawSlot { return &problem.TutorialSlots }),
	SectionLectures:           parseEvent(func(problem *model.RawProblem) *[]model.RawEvent { return &problem.Lectures }),
	SectionTutorials:          parseEvent(func(problem *model.RawProblem) *[]model.RawEvent { return &problem.Tutorials }),
	SectionNotCompatible:      parsePair(func(problem *model.RawProblem) *[]model.RawPair { return &problem.NotCompatible }),
	SectionUnwanted:           parsePlacement(func(problem *model.RawProblem) *[]model.RawPlacement { return &problem.Unwanted }),
	SectionPreferences:        parsePreference,
	SectionPair:               parsePair(func(problem *model.RawProblem) *[]model.RawPair { return &problem.Pairs }),
	SectionPartialAssignments: parsePlacement(func(problem *model.RawProblem) *[]model.RawPlacement { return &problem.PartialAssignments }),
}

// Load reads a problem description in the JSON form when the file has a .json extension and in the
// sectioned text form otherwise
func Load(file string) (model.RawProblem, error) {
	if strings.EqualFold(filepath.Ext(file), ".json") {
		return model.RawFromJson(file)
	}
	return ParseFile(file)
}

func ParseFile(file string) (model.RawProblem, error) {
	f, err := os.Open(file)
	if err != nil {
		return model.RawProblem{}, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a sectioned problem description. Lines before the first header and blank lines are ignored.
// The weights and penalties are left unset since they are supplied by the caller.
func Parse(reader io.Reader) (model.RawProblem, error) {
	var problem model.RawProblem
	section := ""

	scanner := bufio.NewScanner(reader)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if _, ok := lineParsers[text]; ok {
			section = text
			continue
		}
		if section == "" {
			continue
		}

		fields := strings.Split(text, ",")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		if err := lineParsers[section](&problem, fields); err != nil {
			return model.RawProblem{}, &ParseError{Line: line, Section: section, Text: text, Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return model.RawProblem{}, err
	}

	if problem.Name == "" {
		problem.Name = "Unnamed Problem"
	}
	return problem, nil
}

func parseName(problem *model.RawProblem, fields []string) error {
	// Only the first line of the section names the problem
	if problem.Name == "" {
		problem.Name = strings.Join(fields, ",")
	}
	return nil
}

func parseSlot(target func(*model.RawProblem) *[]model.RawSlot) lineParser {
	return func(problem *model.RawProblem, fields []string) error {
		if err := expectFields(fields, 5); err != nil {
			return err
		}
		numbers, err := parseInts(fields[2:])
		if err != nil {
			return err
		}
		slots := target(problem)
		*slots = append(*slots, model.RawSlot{Day: fields[0], Start: fields[1], Max: numbers[0], Min: numbers[1], ALMax: numbers[2]})
		return nil
	}
}

func parseEvent(target func(*model.RawProblem) *[]model.RawEvent) lineParser {
	return func(problem *model.RawProblem, fields []string) error {
		if err := expectFields(fields, 2); err != nil {
			return err
		}
		alRequired, err := parseBool(fields[1])
		if err != nil {
			return err
		}
		events := target(problem)
		*events = append(*events, model.RawEvent{Name: model.NormalizeEventName(fields[0]), ALRequired: alRequired})
		return nil
	}
}

func parsePair(target func(*model.RawProblem) *[]model.RawPair) lineParser {
	return func(problem *model.RawProblem, fields []string) error {
		if err := expectFields(fields, 2); err != nil {
			return err
		}
		pairs := target(problem)
		*pairs = append(*pairs, model.RawPair{A: model.NormalizeEventName(fields[0]), B: model.NormalizeEventName(fields[1])})
		return nil
	}
}

func parsePlacement(target func(*model.RawProblem) *[]model.RawPlacement) lineParser {
	return func(problem *model.RawProblem, fields []string) error {
		if err := expectFields(fields, 3); err != nil {
			return err
		}
		placements := target(problem)
		*placements = append(*placements, model.RawPlacement{Event: model.NormalizeEventName(fields[0]), Day: fields[1], Start: fields[2]})
		return nil
	}
}

func parsePreference(problem *model.RawProblem, fields []string) error {
	if err := expectFields(fields, 4); err != nil {
		return err
	}
	weight, err := strconv.Atoi(fields[3])
	if err != nil {
		return fmt.Errorf("invalid preference value %q", fields[3])
	}
	if weight < 0 {
		return fmt.Errorf("preference value must be non-negative: %v", weight)
	}
	problem.Preferences = append(problem.Preferences, model.RawPreference{
		Day:    fields[0],
		Start:  fields[1],
		Event:  model.NormalizeEventName(fields[2]),
		Weight: weight,
	})
	return nil
}

func expectFields(fields []string, count int) error {
	if len(fields) != count {
		return fmt.Errorf("expected %v comma separated fields, got %v", count, len(fields))
	}
	return nil
}

func parseInts(fields []string) ([]int, error) {
	numbers := make([]int, len(fields))
	for i, field := range fields {
		number, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", field)
		}
		numbers[i] = number
	}
	return numbers, nil
}

func parseBool(field string) (bool, error) {
	switch strings.ToLower(field) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", field)
}
