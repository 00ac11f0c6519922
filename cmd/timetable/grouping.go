package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/classbuilder/timetable/internal/domain"
)

// newByTeacherCommand and newByGroupCommand mirror the teacher repo's
// CommandByInstructor/CommandByCourse: read-only reports grouped by
// one dimension of the already-solved schedule.
func newByTeacherCommand() *cobra.Command {
	var roomsPath, workloadPath, schedulePath string
	var periodsPerDay int

	cmd := &cobra.Command{
		Use:   "byteacher",
		Short: "Print the schedule grouped by teacher",
		RunE: func(cmd *cobra.Command, args []string) error {
			workloads, slots, assignment, err := loadSchedule(roomsPath, workloadPath, schedulePath, periodsPerDay)
			if err != nil {
				return err
			}
			slotByID := indexSlots(slots)
			byTeacher := make(map[string][]string)
			names := make(map[string]string)
			for _, wl := range workloads {
				names[wl.Teacher.ID] = wl.Teacher.Name
				for _, sid := range assignment[wl.ID] {
					slot := slotByID[sid]
					byTeacher[wl.Teacher.ID] = append(byTeacher[wl.Teacher.ID],
						fmt.Sprintf("day %d period %2d: %s (%s)", slot.Day, slot.Period, wl.Subject.Name, wl.Group.Name))
				}
			}
			printGrouped(byTeacher, names)
			return nil
		},
	}
	addScoreFlags(cmd, &roomsPath, &workloadPath, &schedulePath, &periodsPerDay)
	return cmd
}

func newByGroupCommand() *cobra.Command {
	var roomsPath, workloadPath, schedulePath string
	var periodsPerDay int

	cmd := &cobra.Command{
		Use:   "bygroup",
		Short: "Print the schedule grouped by student group",
		RunE: func(cmd *cobra.Command, args []string) error {
			workloads, slots, assignment, err := loadSchedule(roomsPath, workloadPath, schedulePath, periodsPerDay)
			if err != nil {
				return err
			}
			slotByID := indexSlots(slots)
			byGroup := make(map[string][]string)
			names := make(map[string]string)
			for _, wl := range workloads {
				names[wl.Group.ID] = wl.Group.Name
				for _, sid := range assignment[wl.ID] {
					slot := slotByID[sid]
					byGroup[wl.Group.ID] = append(byGroup[wl.Group.ID],
						fmt.Sprintf("day %d period %2d: %s (%s)", slot.Day, slot.Period, wl.Subject.Name, wl.Teacher.Name))
				}
			}
			printGrouped(byGroup, names)
			return nil
		},
	}
	addScoreFlags(cmd, &roomsPath, &workloadPath, &schedulePath, &periodsPerDay)
	return cmd
}

func addScoreFlags(cmd *cobra.Command, roomsPath, workloadPath, schedulePath *string, periodsPerDay *int) {
	cmd.Flags().StringVar(roomsPath, "rooms", "", "path to the rooms CSV/XLSX file")
	cmd.Flags().StringVar(workloadPath, "workload", "", "path to the workload CSV/XLSX file (required)")
	cmd.Flags().StringVar(schedulePath, "in", "schedule.json", "path to the written schedule")
	cmd.Flags().IntVar(periodsPerDay, "periods-per-day", 13, "periods per day in the weekly slot grid")
	_ = cmd.MarkFlagRequired("workload")
}

func indexSlots(slots []domain.TimeSlot) map[string]domain.TimeSlot {
	out := make(map[string]domain.TimeSlot, len(slots))
	for _, s := range slots {
		out[s.ID] = s
	}
	return out
}

func printGrouped(byKey map[string][]string, names map[string]string) {
	var keys []string
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return names[keys[i]] < names[keys[j]] })
	for _, k := range keys {
		fmt.Printf("=== %s ===\n", names[k])
		lines := byKey[k]
		sort.Strings(lines)
		for _, line := range lines {
			fmt.Println(" ", line)
		}
	}
}
