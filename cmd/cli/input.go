package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/limaJavier/gatimetabling/internal/config"
	"github.com/limaJavier/gatimetabling/pkg/model"
	"github.com/limaJavier/gatimetabling/pkg/parser"
)

const knobCount = 8

// parseKnobs reads the positional weights and penalties in the order
// w_minfilled w_pref w_pair w_secdiff pen_lecturemin pen_tutorialmin pen_notpaired pen_section
func parseKnobs(args []string) (model.Weights, model.Penalties, error) {
	if len(args) != knobCount {
		return model.Weights{}, model.Penalties{}, fmt.Errorf("expected %v weights and penalties, got %v", knobCount, len(args))
	}

	values := make([]int, knobCount)
	for i, arg := range args {
		value, err := strconv.Atoi(arg)
		if err != nil {
			return model.Weights{}, model.Penalties{}, fmt.Errorf("invalid weight or penalty %q: %w", arg, err)
		}
		if value < 0 {
			return model.Weights{}, model.Penalties{}, fmt.Errorf("weights and penalties must be non-negative: %v", value)
		}
		values[i] = value
	}

	weights := model.Weights{MinFilled: values[0], Preference: values[1], Pair: values[2], SectionDiff: values[3]}
	penalties := model.Penalties{LectureMin: values[4], TutorialMin: values[5], NotPaired: values[6], Section: values[7]}
	return weights, penalties, nil
}

// loadProblem builds the problem instance of the input file. Weights and penalties come from the run
// configuration unless the file carries its own, and positional knobs override both.
func loadProblem(file string, cfg config.Config, knobs []string, logger *slog.Logger) (*model.ProblemInstance, error) {
	raw, err := parser.Load(file)
	if err != nil {
		return nil, err
	}

	if raw.Weights == nil {
		raw.Weights = &cfg.Weights
	}
	if raw.Penalties == nil {
		raw.Penalties = &cfg.Penalties
	}
	if len(knobs) > 0 {
		weights, penalties, err := parseKnobs(knobs)
		if err != nil {
			return nil, err
		}
		raw.Weights, raw.Penalties = &weights, &penalties
	}

	problem, skipped, err := model.ProcessRawInput(raw)
	if err != nil {
		return nil, err
	}
	for _, preference := range skipped {
		logger.Warn("skipping preference",
			"event", preference.Preference.Event,
			"day", preference.Preference.Day,
			"start", preference.Preference.Start,
			"error", preference.Err,
		)
	}
	return problem, nil
}
