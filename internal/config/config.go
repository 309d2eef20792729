package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/limaJavier/gatimetabling/pkg/ga"
	"github.com/limaJavier/gatimetabling/pkg/model"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "TIMETABLE_"

type Search struct {
	WHard            float64 `yaml:"w_hard" env:"W_HARD" validate:"gte=0"`
	WSoft            float64 `yaml:"w_soft" env:"W_SOFT" validate:"gte=0"`
	PMutation        float64 `yaml:"p_mutation" env:"P_MUTATION" validate:"gte=0,lte=1"`
	TournamentSize   int     `yaml:"tournament_size" env:"TOURNAMENT_SIZE" validate:"gte=1"`
	MutationAttempts int     `yaml:"mutation_attempts" env:"MUTATION_ATTEMPTS" validate:"gte=1"`
	Seed             uint64  `yaml:"seed" env:"SEED"`
	Workers          int     `yaml:"workers" env:"WORKERS" validate:"gte=0"`
	ReportInterval   int     `yaml:"report_interval" env:"REPORT_INTERVAL" validate:"gte=0"`
	CheckFeasibility bool    `yaml:"check_feasibility" env:"CHECK_FEASIBILITY"`

	// Zero keeps the bound derived from the problem size
	Population     int `yaml:"population" env:"POPULATION" validate:"gte=0"`
	MaxGenerations int `yaml:"max_generations" env:"MAX_GENERATIONS" validate:"gte=0"`
	PlateauLimit   int `yaml:"plateau_limit" env:"PLATEAU_LIMIT" validate:"gte=0"`
}

type Log struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" env:"LOG_FORMAT" validate:"oneof=text json"`
}

type Config struct {
	Weights   model.Weights   `yaml:"weights"`
	Penalties model.Penalties `yaml:"penalties"`
	Search    Search          `yaml:"search"`
	Log       Log             `yaml:"log"`
}

func Default() Config {
	search := ga.DefaultConfig()
	return Config{
		Weights:   model.DefaultWeights(),
		Penalties: model.DefaultPenalties(),
		Search: Search{
			WHard:            search.WHard,
			WSoft:            search.WSoft,
			PMutation:        search.PMutation,
			TournamentSize:   search.TournamentSize,
			MutationAttempts: search.MutationAttempts,
			Seed:             search.Seed,
			ReportInterval:   search.ReportInterval,
			CheckFeasibility: search.CheckFeasibility,
		},
		Log: Log{Level: "info", Format: "text"},
	}
}

// Load layers the built-in defaults, the YAML file (if a path is given) and the TIMETABLE_ environment
// variables, in that order, and validates the result
func Load(path string) (Config, error) {
	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return Config{}, fmt.Errorf("unmarshal %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&config, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

var validate = validator.New()

func (config Config) Validate() error {
	return validate.Struct(config)
}

// GA translates the search section into the engine's configuration
func (config Config) GA(logger *slog.Logger) ga.Config {
	return ga.Config{
		PopulationSize:   config.Search.Population,
		MaxGenerations:   config.Search.MaxGenerations,
		PlateauLimit:     config.Search.PlateauLimit,
		WHard:            config.Search.WHard,
		WSoft:            config.Search.WSoft,
		PMutation:        config.Search.PMutation,
		TournamentSize:   config.Search.TournamentSize,
		MutationAttempts: config.Search.MutationAttempts,
		Seed:             config.Search.Seed,
		Workers:          config.Search.Workers,
		ReportInterval:   config.Search.ReportInterval,
		CheckFeasibility: config.Search.CheckFeasibility,
		Logger:           logger,
	}
}

func (config Config) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch config.Log.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	options := &slog.HandlerOptions{Level: level}
	if config.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, options))
	}
	return slog.New(slog.NewTextHandler(w, options))
}
