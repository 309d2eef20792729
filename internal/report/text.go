package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/limaJavier/gatimetabling/pkg/eval"
	"github.com/limaJavier/gatimetabling/pkg/ga"
	"github.com/limaJavier/gatimetabling/pkg/model"
	"github.com/samber/lo"
)

const rule = "================ FORMATTED SCHEDULE ASSIGNMENT ================"

// errWriter remembers the first write error and skips every later write
type errWriter struct {
	w   io.Writer
	err error
}

func (writer *errWriter) printf(format string, args ...any) {
	if writer.err != nil {
		return
	}
	_, writer.err = fmt.Fprintf(writer.w, format, args...)
}

func Banner(valid bool) string {
	if valid {
		return ">> VALID schedule found!"
	}
	return ">> No valid schedule (best attempt shown)."
}

func WriteText(w io.Writer, problem *model.ProblemInstance, result ga.Result) error {
	writer := &errWriter{w: w}

	writer.printf("=== GA RESULTS ===\n")
	writer.printf("Problem      : %v\n", problem.Name)
	writer.printf("Status       : %v\n", result.Status)
	writer.printf("Generations  : %v\n", result.Generation)
	writer.printf("Best fitness : %.4f\n", result.Fitness)
	writer.printf("Hard penalty : %v\n", result.Hard)
	writer.printf("Soft penalty : %v\n\n", result.Soft)
	writer.printf("%v\n\n", Banner(result.Valid()))

	writeBreakdown(writer, result.Breakdown)

	writer.printf("\n%v\n\n", rule)
	writer.printf("Eval-value: %v\n", result.Soft)
	writeListing(writer, Rows(problem, result.Schedule))
	writer.printf("\n%v\n", strings.Repeat("=", len(rule)))

	return writer.err
}

func WriteBreakdown(w io.Writer, breakdown eval.Breakdown) error {
	writer := &errWriter{w: w}
	writeBreakdown(writer, breakdown)
	return writer.err
}

func writeBreakdown(writer *errWriter, breakdown eval.Breakdown) {
	for _, category := range breakdown.Categories() {
		if category.Violations == 0 {
			writer.printf("[  OK] %v\n", category.Name)
		} else {
			writer.printf("[FAIL] %v: %v violation(s)\n", category.Name, category.Violations)
		}
	}
}

func writeListing(writer *errWriter, rows []Row) {
	if len(rows) == 0 {
		return
	}
	width := lo.Max(lo.Map(rows, func(row Row, _ int) int { return len(row.Event) }))

	previous := rows[0].Course
	for _, row := range rows {
		if row.Course != previous {
			writer.printf("\n")
			previous = row.Course
		}
		writer.printf("%-*s : %v, %v\n", width, row.Event, row.Day, row.Start)
	}
}

// WriteFeasibility prints the outcome of the seat matching together with the events that could not be seated
func WriteFeasibility(w io.Writer, problem *model.ProblemInstance, report eval.FeasibilityReport) error {
	writer := &errWriter{w: w}

	writer.printf("Problem       : %v\n", problem.Name)
	writer.printf("Lectures      : %v\n", len(problem.Lectures))
	writer.printf("Tutorials     : %v\n", len(problem.Tutorials))
	writer.printf("Lecture slots : %v\n", len(problem.LectureSlots))
	writer.printf("Tutorial slots: %v\n", len(problem.TutorialSlots))
	writer.printf("Seated events : %v/%v\n\n", report.Seated, problem.EventCount())

	if report.Feasible() {
		writer.printf("[  OK] Every event can be seated\n")
		return writer.err
	}
	writer.printf("[FAIL] %v event(s) cannot be seated:\n", len(report.Unseated))
	for _, id := range report.Unseated {
		writer.printf("  %v\n", problem.Event(id).Name)
	}
	return writer.err
}
