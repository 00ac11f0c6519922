package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/classbuilder/timetable/internal/domain"
	"github.com/classbuilder/timetable/internal/ingest"
	"github.com/classbuilder/timetable/internal/output"
)

// loadSchedule re-reads the workload input alongside a previously
// written schedule, reconstructing the typed slot grid and an
// assignment map keyed by workload ID (roomsPath is accepted but not
// read; no room data is loaded) — enough for the read-only
// report commands (score, byteacher, bygroup) to render without
// re-running the solver. Mirrors the teacher repo's CommandScore,
// CommandByInstructor and CommandByCourse, which all reload the same
// on-disk JSON schedule rather than re-solving.
func loadSchedule(roomsPath, workloadPath, schedulePath string, periodsPerDay int) (
	workloads []domain.Workload, slots []domain.TimeSlot, assignment map[string][]string, err error) {

	workloads, err = ingest.ImportWorkload(workloadPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrInput, err)
	}
	slots = domain.GenerateWeek(periodsPerDay)

	entries, err := output.ReadSchedule(schedulePath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrInput, err)
	}

	assignment = make(map[string][]string)
	for _, e := range entries {
		assignment[e.WorkloadID] = append(assignment[e.WorkloadID], e.SlotID)
	}
	return workloads, slots, assignment, nil
}

func newScoreCommand() *cobra.Command {
	var roomsPath, workloadPath, schedulePath string
	var periodsPerDay int

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Reload a written schedule and print a summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			workloads, _, assignment, err := loadSchedule(roomsPath, workloadPath, schedulePath, periodsPerDay)
			if err != nil {
				return err
			}
			placed := 0
			required := 0
			for _, wl := range workloads {
				required += wl.HoursPerWeek
				placed += len(assignment[wl.ID])
			}
			fmt.Printf("%d/%d lesson-hours placed across %d workloads\n", placed, required, len(workloads))
			return nil
		},
	}
	cmd.Flags().StringVar(&roomsPath, "rooms", "", "path to the rooms CSV/XLSX file")
	cmd.Flags().StringVar(&workloadPath, "workload", "", "path to the workload CSV/XLSX file (required)")
	cmd.Flags().StringVar(&schedulePath, "in", "schedule.json", "path to the written schedule")
	cmd.Flags().IntVar(&periodsPerDay, "periods-per-day", 13, "periods per day in the weekly slot grid")
	_ = cmd.MarkFlagRequired("workload")
	return cmd
}
