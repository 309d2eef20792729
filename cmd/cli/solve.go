package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"

	"github.com/limaJavier/gatimetabling/internal/config"
	"github.com/limaJavier/gatimetabling/internal/report"
	"github.com/limaJavier/gatimetabling/pkg/ga"
	"github.com/limaJavier/gatimetabling/pkg/model"
	"github.com/spf13/cobra"
)

type solveFlags struct {
	seed        uint64
	wHard       float64
	wSoft       float64
	pMutation   float64
	population  int
	generations int
	plateau     int
	workers     int
	format      string
	out         string
}

func newSolveCommand() *cobra.Command {
	flags := &solveFlags{}
	cmdSolve := &cobra.Command{
		Use:   "solve <input> [" + knobsUsage + "]",
		Short: "search for a timetable and print the best schedule found",
		Args:  problemArgs,
		Run: func(cmd *cobra.Command, args []string) {
			commandSolve(cmd, flags, args)
		},
	}

	defaults := config.Default()
	cmdSolve.Flags().Uint64VarP(&flags.seed, "seed", "s", defaults.Search.Seed, "seed of the random streams")
	cmdSolve.Flags().Float64Var(&flags.wHard, "w-hard", defaults.Search.WHard, "weight of hard-constraint violations in the fitness")
	cmdSolve.Flags().Float64Var(&flags.wSoft, "w-soft", defaults.Search.WSoft, "weight of the soft penalty in the fitness")
	cmdSolve.Flags().Float64VarP(&flags.pMutation, "p-mutation", "m", defaults.Search.PMutation, "probability of producing a child by mutation rather than crossover")
	cmdSolve.Flags().IntVar(&flags.population, "population", 0, "population size; 0 derives it from the problem size")
	cmdSolve.Flags().IntVar(&flags.generations, "generations", 0, "maximum number of generations; 0 derives it from the problem size")
	cmdSolve.Flags().IntVar(&flags.plateau, "plateau", 0, "generations without improvement before stopping; 0 derives it from the problem size")
	cmdSolve.Flags().IntVarP(&flags.workers, "workers", "w", 0, "workers building the initial population; 0 uses one per CPU")
	cmdSolve.Flags().StringVarP(&flags.format, "format", "f", string(report.Text), "output format: text, json or csv")
	cmdSolve.Flags().StringVarP(&flags.out, "out", "o", "", "file the schedule is written to; if empty, it'll be written into the Standard Output")
	return cmdSolve
}

// apply overrides the run configuration with the flags set on the command line
func (flags *solveFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("seed") {
		cfg.Search.Seed = flags.seed
	}
	if changed("w-hard") {
		cfg.Search.WHard = flags.wHard
	}
	if changed("w-soft") {
		cfg.Search.WSoft = flags.wSoft
	}
	if changed("p-mutation") {
		cfg.Search.PMutation = flags.pMutation
	}
	if changed("population") {
		cfg.Search.Population = flags.population
	}
	if changed("generations") {
		cfg.Search.MaxGenerations = flags.generations
	}
	if changed("plateau") {
		cfg.Search.PlateauLimit = flags.plateau
	}
	if changed("workers") {
		cfg.Search.Workers = flags.workers
	}
}

func commandSolve(cmd *cobra.Command, flags *solveFlags, args []string) {
	format, err := report.ParseFormat(flags.format)
	if err != nil {
		log.Fatal(err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("cannot load configuration: %v", err)
	}
	flags.apply(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger := cfg.Logger(os.Stderr)

	problem, err := loadProblem(args[0], cfg, args[1:], logger)
	if err != nil {
		log.Fatalf("cannot parse input file: %v", err)
	}

	algorithm, err := ga.New(problem, cfg.GA(logger))
	if err != nil {
		log.Fatalf("cannot start the search: %v", err)
	}

	// An interrupt stops the search between generations and keeps the best schedule found so far
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := algorithm.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("an error occurred during the search: %v", err)
	}
	if err != nil && result.Schedule == nil {
		log.Fatalf("search interrupted before the initial population was built")
	}

	if flags.out == "" {
		err = report.Write(os.Stdout, format, problem, result)
	} else {
		err = writeFile(flags.out, format, problem, result)
	}
	if err != nil {
		log.Fatalf("an error occurred while writing the schedule: %v", err)
	}

	stop()
	if result.Valid() {
		os.Exit(exitValid)
	}
	os.Exit(exitInvalid)
}

func writeFile(path string, format report.Format, problem *model.ProblemInstance, result ga.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.Write(file, format, problem, result); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
