package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/limaJavier/gatimetabling/internal/config"
	"github.com/limaJavier/gatimetabling/pkg/ga"
	"github.com/limaJavier/gatimetabling/pkg/model"
	"github.com/limaJavier/gatimetabling/pkg/parser"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

const MB float32 = 1024 * 1024

var (
	instancesDirectory = "../../test/instances/"
	outFile            = "benchmark_results.csv"
	seeds              = 5
	generations        = 0
	plateau            = 0
	configPath         = ""
)

type TestMetadata struct {
	Name          string
	Problem       *model.ProblemInstance
	Lectures      int
	Tutorials     int
	LectureSlots  int
	TutorialSlots int
}

type BenchmarkResult struct {
	Test          string  `csv:"Test"`
	Lectures      int     `csv:"Lectures"`
	Tutorials     int     `csv:"Tutorials"`
	LectureSlots  int     `csv:"LectureSlots"`
	TutorialSlots int     `csv:"TutorialSlots"`
	Seed          uint64  `csv:"Seed"`
	Duration      int64   `csv:"Duration(ms)"`
	Memory        float32 `csv:"Allocated(MB)"`
	Generations   int     `csv:"Generations"`
	Status        string  `csv:"Status"`
	Hard          int     `csv:"Hard"`
	Soft          int     `csv:"Soft"`
	Fitness       float64 `csv:"Fitness"`
}

func main() {
	cmdBenchmark := &cobra.Command{
		Use:   "benchmark",
		Short: "run the timetabler over every instance of a directory with several seeds",
		Run:   CommandBenchmark,
	}
	cmdBenchmark.Flags().StringVarP(&instancesDirectory, "instances", "i", instancesDirectory, "directory holding the problem descriptions")
	cmdBenchmark.Flags().StringVarP(&outFile, "out", "o", outFile, "CSV file the results are written to")
	cmdBenchmark.Flags().IntVarP(&seeds, "seeds", "s", seeds, "number of seeds each instance is run with")
	cmdBenchmark.Flags().IntVar(&generations, "generations", generations, "maximum number of generations; 0 derives it from the problem size")
	cmdBenchmark.Flags().IntVar(&plateau, "plateau", plateau, "generations without improvement before stopping; 0 derives it from the problem size")
	cmdBenchmark.Flags().StringVarP(&configPath, "config", "c", configPath, "path to a YAML run configuration")

	if err := cmdBenchmark.Execute(); err != nil {
		log.Fatal(err)
	}
}

func CommandBenchmark(cmd *cobra.Command, args []string) {
	if seeds < 1 {
		log.Fatalf("seeds must be >= 1")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("cannot load configuration: %v", err)
	}
	if generations > 0 {
		cfg.Search.MaxGenerations = generations
	}
	if plateau > 0 {
		cfg.Search.PlateauLimit = plateau
	}

	tests, err := getTests(instancesDirectory)
	if err != nil {
		log.Fatal(err)
	}
	results := make([]BenchmarkResult, 0, len(tests)*seeds)

	for _, test := range tests {
		for seed := range uint64(seeds) {
			fmt.Printf("Benchmarking test \"%v\" with seed \"%v\"\n", test.Name, seed+1)

			result, err := measure(test, cfg, seed+1)
			if err != nil {
				log.Fatalf("an error occurred at test \"%v\" using seed \"%v\": %v", test.Name, seed+1, err)
			}
			results = append(results, result)
		}
	}

	if err := toCsv(results, outFile); err != nil {
		log.Fatal(err)
	}
}

// getTests loads every problem description of the directory, os.ReadDir returns them in name order
func getTests(directory string) ([]TestMetadata, error) {
	files, err := os.ReadDir(directory)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory: %w", err)
	}
	files = lo.Filter(files, func(file os.DirEntry, _ int) bool {
		extension := filepath.Ext(file.Name())
		return !file.IsDir() && (extension == ".txt" || extension == ".json")
	})

	tests := make([]TestMetadata, 0, len(files))
	for _, file := range files {
		filename := filepath.Join(directory, file.Name())
		raw, err := parser.Load(filename)
		if err != nil {
			return nil, fmt.Errorf("cannot parse input file %v: %w", filename, err)
		}
		problem, _, err := model.ProcessRawInput(raw)
		if err != nil {
			return nil, fmt.Errorf("cannot build problem %v: %w", filename, err)
		}

		tests = append(tests, TestMetadata{
			Name:          filename,
			Problem:       problem,
			Lectures:      len(problem.Lectures),
			Tutorials:     len(problem.Tutorials),
			LectureSlots:  len(problem.LectureSlots),
			TutorialSlots: len(problem.TutorialSlots),
		})
	}
	return tests, nil
}

func measure(test TestMetadata, cfg config.Config, seed uint64) (BenchmarkResult, error) {
	cfg.Search.Seed = seed
	algorithm, err := ga.New(test.Problem, cfg.GA(nil))
	if err != nil {
		return BenchmarkResult{}, err
	}

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	start := time.Now()

	result, err := algorithm.Run(context.Background())
	if err != nil {
		return BenchmarkResult{}, err
	}

	duration := time.Since(start)
	runtime.ReadMemStats(&after)

	return BenchmarkResult{
		Test:          test.Name,
		Lectures:      test.Lectures,
		Tutorials:     test.Tutorials,
		LectureSlots:  test.LectureSlots,
		TutorialSlots: test.TutorialSlots,
		Seed:          seed,
		Duration:      duration.Milliseconds(),
		Memory:        float32(after.TotalAlloc-before.TotalAlloc) / MB,
		Generations:   result.Generation,
		Status:        result.Status.String(),
		Hard:          result.Hard,
		Soft:          result.Soft,
		Fitness:       result.Fitness,
	}, nil
}

func toCsv(results []BenchmarkResult, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create CSV file: %w", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&results, file); err != nil {
		return fmt.Errorf("cannot write CSV results: %w", err)
	}
	return nil
}
