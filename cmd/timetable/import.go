package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/classbuilder/timetable/internal/ingest"
)

func newImportRoomsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import-rooms <file>",
		Short: "Parse a rooms CSV/XLSX file and print a summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rooms, err := ingest.ImportRooms(args[0])
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInput, err)
			}
			counts := make(map[string]int)
			for _, r := range rooms {
				counts[string(r.Type)]++
			}
			fmt.Printf("%d rooms\n", len(rooms))
			for t, n := range counts {
				fmt.Printf("  %-10s %d\n", t, n)
			}
			return nil
		},
	}
}

func newImportWorkloadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import-workload <file>",
		Short: "Parse a workload CSV/XLSX file and print a summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workloads, err := ingest.ImportWorkload(args[0])
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInput, err)
			}
			vacancies := 0
			hours := 0
			for _, w := range workloads {
				if w.Teacher.IsVacancy {
					vacancies++
				}
				hours += w.HoursPerWeek
			}
			fmt.Printf("%d workloads, %d hours/week total, %d vacancy teachers\n",
				len(workloads), hours, vacancies)
			return nil
		},
	}
}
