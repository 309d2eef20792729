package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

const (
	exitValid   = 10
	exitInvalid = 20
)

const knobsUsage = "<w_minfilled> <w_pref> <w_pair> <w_secdiff> <pen_lecturemin> <pen_tutorialmin> <pen_notpaired> <pen_section>"

var configPath string

func main() {
	log.SetFlags(0)

	cmdTimetable := &cobra.Command{
		Use:   "timetable",
		Short: "University course timetabler",
		Long: "Assigns every lecture and tutorial of a problem description to a time slot with a genetic\n" +
			"algorithm, minimizing hard-constraint violations first and soft penalties second",
	}
	cmdTimetable.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML run configuration; TIMETABLE_* environment variables override it")

	cmdTimetable.AddCommand(newSolveCommand())
	cmdTimetable.AddCommand(newCheckCommand())

	if err := cmdTimetable.Execute(); err != nil {
		log.Fatal(err)
	}
}

// problemArgs accepts an input file optionally followed by the eight weight and penalty knobs
func problemArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 1 && len(args) != 1+knobCount {
		return fmt.Errorf("accepts an input file optionally followed by %v weights and penalties, received %v argument(s)", knobCount, len(args))
	}
	return nil
}
