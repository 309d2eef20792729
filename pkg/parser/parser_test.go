package parser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/limaJavier/gatimetabling/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `Name:
ShortExample

Lecture slots:
MO, 8:00, 3, 2, 1
TU, 9:30, 2, 1, 0

Tutorial slots:
MO, 8:00, 4, 2, 1
TU, 18:00, 2, 0, 0
FR, 10:00, 2, 1, 1

Lectures:
CPSC 351 LEC 01, true
CPSC  433 LEC 91, false

Tutorials:
CPSC 351 LEC 01 TUT 01, false
CPSC 433 LEC 91 LAB 02, true

Not compatible:
CPSC 351 LEC 01, CPSC 433 LEC 91

Unwanted:
CPSC 351 LEC 01, MO, 8:00

Preferences:
TU, 9:30, CPSC 351 LEC 01, 10
MO, 8:00, CPSC 999 LEC 01, 3

Pair:
CPSC 351 LEC 01, CPSC 351 LEC 01 TUT 01

Partial assignments:
CPSC 433 LEC 91 LAB 02, FR, 10:00
`

func TestParse(t *testing.T) {
	t.Run("Every section", func(t *testing.T) {
		//** Act
		raw, err := Parse(strings.NewReader(sample))

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, "ShortExample", raw.Name)
		assert.Equal(t, []model.RawSlot{{Day: "MO", Start: "8:00", Max: 3, Min: 2, ALMax: 1}, {Day: "TU", Start: "9:30", Max: 2, Min: 1, ALMax: 0}}, raw.LectureSlots)
		assert.Len(t, raw.TutorialSlots, 3)
		assert.Equal(t, []model.RawEvent{{Name: "CPSC 351 LEC 01", ALRequired: true}, {Name: "CPSC 433 LEC 91", ALRequired: false}}, raw.Lectures)
		assert.Len(t, raw.Tutorials, 2)
		assert.Equal(t, []model.RawPair{{A: "CPSC 351 LEC 01", B: "CPSC 433 LEC 91"}}, raw.NotCompatible)
		assert.Equal(t, []model.RawPlacement{{Event: "CPSC 351 LEC 01", Day: "MO", Start: "8:00"}}, raw.Unwanted)
		assert.Equal(t, model.RawPreference{Event: "CPSC 351 LEC 01", Day: "TU", Start: "9:30", Weight: 10}, raw.Preferences[0])
		assert.Len(t, raw.Pairs, 1)
		assert.Len(t, raw.PartialAssignments, 1)
		assert.Nil(t, raw.Weights)
	})

	t.Run("Parsed description builds a problem", func(t *testing.T) {
		//** Arrange
		raw, err := Parse(strings.NewReader(sample))
		require.NoError(t, err)

		//** Act
		problem, skipped, err := model.ProcessRawInput(raw)

		//** Assert
		require.NoError(t, err)
		assert.Len(t, skipped, 1)
		assert.Equal(t, 5, problem.EventCount())
		assert.NoError(t, problem.Validate())
	})

	t.Run("Malformed line reports its number", func(t *testing.T) {
		//** Arrange
		input := "Name:\nbroken\nLecture slots:\nMO, 8:00, 3, two, 1\n"

		//** Act
		_, err := Parse(strings.NewReader(input))

		//** Assert
		var parseErr *ParseError
		require.True(t, errors.As(err, &parseErr))
		assert.Equal(t, 4, parseErr.Line)
		assert.Equal(t, SectionLectureSlots, parseErr.Section)
	})

	t.Run("Invalid boolean", func(t *testing.T) {
		_, err := Parse(strings.NewReader("Lectures:\nCPSC 433 LEC 01, yes\n"))
		assert.Error(t, err)
	})

	t.Run("Negative preference value", func(t *testing.T) {
		//** Act
		_, err := Parse(strings.NewReader("Preferences:\nMO, 9:00, CPSC 433 LEC 01, -1\n"))

		//** Assert
		var parseErr *ParseError
		require.True(t, errors.As(err, &parseErr))
		assert.Equal(t, 2, parseErr.Line)
		assert.Equal(t, SectionPreferences, parseErr.Section)
	})

	t.Run("Missing name", func(t *testing.T) {
		raw, err := Parse(strings.NewReader("Lecture slots:\nMO, 8:00, 1, 0, 0\n"))
		require.NoError(t, err)
		assert.Equal(t, "Unnamed Problem", raw.Name)
	})
}

func TestLoad(t *testing.T) {
	t.Run("Text form", func(t *testing.T) {
		//** Arrange
		file := filepath.Join(t.TempDir(), "short.txt")
		require.NoError(t, os.WriteFile(file, []byte(sample), 0o644))

		//** Act
		raw, err := Load(file)

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, "ShortExample", raw.Name)
		assert.Len(t, raw.Lectures, 2)
	})

	t.Run("JSON form", func(t *testing.T) {
		//** Act
		raw, err := Load("../model/testdata/small.json")

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, "small", raw.Name)
		assert.Len(t, raw.Lectures, 3)
		require.NotNil(t, raw.Weights)
		assert.Equal(t, 4, raw.Weights.SectionDiff)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
		assert.Error(t, err)
	})
}
