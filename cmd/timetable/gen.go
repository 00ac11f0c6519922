package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/classbuilder/timetable/internal/catalogue"
	"github.com/classbuilder/timetable/internal/diagnostics"
	"github.com/classbuilder/timetable/internal/domain"
	"github.com/classbuilder/timetable/internal/ingest"
	"github.com/classbuilder/timetable/internal/output"
	"github.com/classbuilder/timetable/internal/roomassign"
	"github.com/classbuilder/timetable/internal/timesolver"
)

func newGenCommand() *cobra.Command {
	var (
		roomsPath    string
		workloadPath string
		outPath      string
		workers      int
		timeBudget   time.Duration
		seed         int64
		bestEffort   bool
		periodsPerDay int
	)

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Solve the time assignment, assign rooms, and write the schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			sync, lh := buildLogger()
			defer sync()
			logger := lh.logger

			rooms, err := ingest.ImportRooms(roomsPath)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInput, err)
			}
			workloads, err := ingest.ImportWorkload(workloadPath)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInput, err)
			}
			slots := domain.GenerateWeek(periodsPerDay)

			logger.Info("parsed input",
				zap.Int("rooms", len(rooms)),
				zap.Int("workloads", len(workloads)),
				zap.Int("slots", len(slots)),
			)

			if workers == 0 {
				workers = lh.cfg.Workers
			}
			if timeBudget == 0 {
				timeBudget = lh.cfg.TimeBudget
			}
			if seed == 0 {
				seed = lh.cfg.Seed
			}
			if !bestEffort {
				bestEffort = lh.cfg.BestEffort
			}

			prob, err := timesolver.Prepare(workloads, slots, rooms, catalogue.Default())
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInput, err)
			}

			report := &diagnostics.Report{}
			report.CheckUnplaceable(workloads, prob.Unplaceable)
			report.CheckTeacherHours(workloads)

			logger.Info("solving", zap.Int("workers", workers), zap.Duration("time_budget", timeBudget))
			ctx := context.Background()
			res, err := timesolver.Run(ctx, prob, timesolver.Options{
				Workers:    workers,
				TimeBudget: timeBudget,
				Seed:       seed,
				BestEffort: bestEffort,
			})
			if err != nil {
				return err
			}

			assignResult := roomassign.Assign(workloads, rooms, res.Assignment)
			for _, u := range assignResult.Unassigned {
				report.Warn("no room available for workload %s at slot %s", u.WorkloadID, u.SlotID)
			}

			report.Objective = res.Objective
			report.Complete = res.Complete && len(assignResult.Unassigned) == 0
			report.Attempts = res.Attempts
			report.Log(logger)

			if err := output.WriteSchedule(outPath, assignResult.Entries); err != nil {
				return err
			}
			fmt.Println(assignResult.Summary())

			if !report.Complete {
				return ErrPartial
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&roomsPath, "rooms", "", "path to the rooms CSV/XLSX file (required)")
	cmd.Flags().StringVar(&workloadPath, "workload", "", "path to the workload CSV/XLSX file (required)")
	cmd.Flags().StringVar(&outPath, "out", "schedule.json", "path to write the resulting schedule")
	cmd.Flags().IntVar(&workers, "workers", 0, "number of parallel search workers (0 = use config/runtime default)")
	cmd.Flags().DurationVar(&timeBudget, "time", 0, "wall-clock search budget (0 = use config default)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "search RNG seed (0 = use config default)")
	cmd.Flags().BoolVar(&bestEffort, "best-effort", false, "relax lesson demand instead of failing outright")
	cmd.Flags().IntVar(&periodsPerDay, "periods-per-day", 13, "periods per day when generating the weekly slot grid")
	_ = cmd.MarkFlagRequired("rooms")
	_ = cmd.MarkFlagRequired("workload")

	return cmd
}
