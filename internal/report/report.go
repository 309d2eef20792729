package report

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/limaJavier/gatimetabling/pkg/eval"
	"github.com/limaJavier/gatimetabling/pkg/ga"
	"github.com/limaJavier/gatimetabling/pkg/model"
	"github.com/samber/lo"
)

type Format string

const (
	Text Format = "text"
	Json Format = "json"
	Csv  Format = "csv"
)

var Formats = []Format{Text, Json, Csv}

func ParseFormat(format string) (Format, error) {
	parsed := Format(strings.ToLower(format))
	if !slices.Contains(Formats, parsed) {
		return "", fmt.Errorf("unknown output format %q: expected one of %v", format, Formats)
	}
	return parsed, nil
}

// Row is a single assignment of the listing
type Row struct {
	Course string `csv:"course" json:"course"`
	Event  string `csv:"event" json:"event"`
	Kind   string `csv:"kind" json:"kind"`
	Day    string `csv:"day" json:"day"`
	Start  string `csv:"start" json:"start"`
}

type Violation struct {
	Constraint string `json:"constraint"`
	Count      int    `json:"count"`
}

type Document struct {
	Problem     string      `json:"problem"`
	Status      string      `json:"status"`
	Valid       bool        `json:"valid"`
	Generation  int         `json:"generation"`
	Fitness     float64     `json:"fitness"`
	Hard        int         `json:"hard"`
	Soft        int         `json:"soft"`
	Violations  []Violation `json:"violations"`
	Assignments []Row       `json:"assignments"`
}

func Write(w io.Writer, format Format, problem *model.ProblemInstance, result ga.Result) error {
	switch format {
	case Json:
		return WriteJson(w, problem, result)
	case Csv:
		return WriteCsv(w, problem, result.Schedule)
	default:
		return WriteText(w, problem, result)
	}
}

// Rows lists every event of the problem grouped by course: each lecture is followed by its tutorials,
// tutorials shared by every section come after the lectures of their course and courses without
// lectures (special tutorials included) come last
func Rows(problem *model.ProblemInstance, schedule model.Schedule) []Row {
	courses := problem.Courses()
	slices.SortFunc(courses, func(a, b model.CourseKey) int {
		return cmp.Or(cmp.Compare(a.Department, b.Department), cmp.Compare(a.Number, b.Number))
	})
	byName := func(a, b model.EventID) int {
		return cmp.Compare(problem.Event(a).Name, problem.Event(b).Name)
	}

	rows := make([]Row, 0, problem.EventCount())
	add := func(id model.EventID) {
		rows = append(rows, newRow(problem, schedule, id))
	}

	lectureless := make([]model.CourseKey, 0)
	for _, course := range courses {
		lectures := slices.Clone(problem.CourseLectures(course))
		if len(lectures) == 0 {
			lectureless = append(lectureless, course)
			continue
		}
		tutorials := slices.Clone(problem.CourseTutorials(course))
		slices.SortFunc(lectures, byName)
		slices.SortFunc(tutorials, byName)

		for _, lecture := range lectures {
			add(lecture)
			for _, tutorial := range tutorials {
				if problem.Event(tutorial).Section == problem.Event(lecture).Section {
					add(tutorial)
				}
			}
		}
		for _, tutorial := range tutorials {
			if problem.Event(tutorial).Section == "" {
				add(tutorial)
			}
		}
	}

	// Special tutorials go after every other course without lectures
	slices.SortStableFunc(lectureless, func(a, b model.CourseKey) int {
		return cmp.Compare(isSpecialCourse(problem, a), isSpecialCourse(problem, b))
	})
	for _, course := range lectureless {
		tutorials := slices.Clone(problem.CourseTutorials(course))
		slices.SortFunc(tutorials, byName)
		lo.ForEach(tutorials, func(tutorial model.EventID, _ int) { add(tutorial) })
	}

	return rows
}

func isSpecialCourse(problem *model.ProblemInstance, course model.CourseKey) int {
	special := lo.SomeBy(problem.CourseTutorials(course), func(id model.EventID) bool {
		return problem.Event(id).SpecialTutorial
	})
	if special {
		return 1
	}
	return 0
}

func newRow(problem *model.ProblemInstance, schedule model.Schedule, id model.EventID) Row {
	event := problem.Event(id)
	row := Row{
		Course: event.Course.String(),
		Event:  event.Name,
		Kind:   event.Kind.String(),
		Day:    "-",
		Start:  "-",
	}
	if schedule.IsAssigned(id) {
		slot := problem.Slot(schedule.SlotOf(id))
		row.Day = slot.Day
		row.Start = slot.Start
	}
	return row
}

func Violations(breakdown eval.Breakdown) []Violation {
	return lo.Map(breakdown.Categories(), func(category eval.Category, _ int) Violation {
		return Violation{Constraint: category.Name, Count: category.Violations}
	})
}

func WriteCsv(w io.Writer, problem *model.ProblemInstance, schedule model.Schedule) error {
	rows := Rows(problem, schedule)
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("cannot write CSV schedule: %w", err)
	}
	return nil
}

func WriteJson(w io.Writer, problem *model.ProblemInstance, result ga.Result) error {
	document := Document{
		Problem:     problem.Name,
		Status:      result.Status.String(),
		Valid:       result.Valid(),
		Generation:  result.Generation,
		Fitness:     result.Fitness,
		Hard:        result.Hard,
		Soft:        result.Soft,
		Violations:  Violations(result.Breakdown),
		Assignments: Rows(problem, result.Schedule),
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(document); err != nil {
		return fmt.Errorf("cannot write JSON schedule: %w", err)
	}
	return nil
}
