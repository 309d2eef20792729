package main

import (
	"log"
	"os"

	"github.com/limaJavier/gatimetabling/internal/config"
	"github.com/limaJavier/gatimetabling/internal/report"
	"github.com/limaJavier/gatimetabling/pkg/eval"
	"github.com/spf13/cobra"
)

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <input> [" + knobsUsage + "]",
		Short: "validate a problem description and test whether every event can be seated",
		Args:  problemArgs,
		Run:   commandCheck,
	}
}

func commandCheck(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("cannot load configuration: %v", err)
	}
	logger := cfg.Logger(os.Stderr)

	problem, err := loadProblem(args[0], cfg, args[1:], logger)
	if err != nil {
		log.Fatalf("cannot parse input file: %v", err)
	}
	if err := problem.Validate(); err != nil {
		log.Fatalf("invalid problem: %v", err)
	}

	feasibility, err := eval.NewEvaluator(problem).Feasibility()
	if err != nil {
		log.Fatalf("an error occurred during the seat matching: %v", err)
	}
	if err := report.WriteFeasibility(os.Stdout, problem, feasibility); err != nil {
		log.Fatalf("an error occurred while writing the report: %v", err)
	}

	if feasibility.Feasible() {
		os.Exit(exitValid)
	}
	os.Exit(exitInvalid)
}
