// Command timetable builds weekly school timetables from a room
// roster and a workload list: it runs the two-phase solver (time
// assignment, then room assignment) and writes the result as JSON.
//
// Command tree shape (root + subcommands with persistent/local flags)
// is grounded on the teacher repo's cli.go (cmdSchedule, CommandGen,
// CommandScore, CommandByInstructor/CommandByCourse).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/classbuilder/timetable/internal/config"
	"github.com/classbuilder/timetable/internal/logging"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "timetable",
		Short: "Generate and inspect school weekly timetables",
	}
	root.AddCommand(
		newGenCommand(),
		newScoreCommand(),
		newByTeacherCommand(),
		newByGroupCommand(),
		newImportRoomsCommand(),
		newImportWorkloadCommand(),
	)
	return root
}

func buildLogger() (func(), *loggerHandle) {
	cfg, err := config.Load()
	if err != nil {
		cfg = &config.Config{LogEnv: "development", LogLevel: "info"}
	}
	logger, err := logging.New(cfg.LogEnv, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	return func() { _ = logger.Sync() }, &loggerHandle{logger: logger, cfg: cfg}
}
