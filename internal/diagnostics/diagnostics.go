// Package diagnostics accumulates and reports the warnings and
// summary numbers produced while solving and assigning a schedule:
// missing-room-type workloads, over-subscribed teachers, unassigned
// lessons, and the final objective value.
//
// Generalizes the teacher repo's score.go (Problem, Schedule.Badness,
// PrintSchedule) from a room-by-time grid to this domain's
// day-by-period-by-group grid, and logs the finished report (its
// warnings and final numbers) through zap the way
// noah-isme-sma-adp-api/pkg/logger wires it up.
package diagnostics

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/classbuilder/timetable/internal/domain"
)

// Warning is one non-fatal problem spotted during the pipeline.
type Warning struct {
	Message string
}

// Report accumulates warnings and the run's final numbers.
type Report struct {
	Warnings  []Warning
	Objective int
	Complete  bool
	Attempts  int
}

// Warn appends a formatted warning.
func (r *Report) Warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, Warning{Message: fmt.Sprintf(format, args...)})
}

// CheckUnplaceable turns timesolver.Problem.Unplaceable workload IDs
// into warnings naming the subject/group, matching the original's
// "⚠️ ВНИМАНИЕ: Нет спортзалов..." console warning in spirit.
func (r *Report) CheckUnplaceable(workloads []domain.Workload, unplaceableIDs []string) {
	byID := make(map[string]domain.Workload, len(workloads))
	for _, wl := range workloads {
		byID[wl.ID] = wl
	}
	for _, id := range unplaceableIDs {
		wl := byID[id]
		r.Warn("no rooms of type %q available (and no standard-room fallback applies) for %s/%s",
			wl.RequiredRoom, wl.Subject.Name, wl.Group.Name)
	}
}

// CheckTeacherHours warns when a teacher's total assigned hours
// exceed their MaxHours. This is a diagnostic-only check (see
// SPEC_FULL.md §3) — the solver does not enforce it as a hard
// constraint.
func (r *Report) CheckTeacherHours(workloads []domain.Workload) {
	totals := make(map[string]int)
	names := make(map[string]string)
	caps := make(map[string]int)
	for _, wl := range workloads {
		if wl.Teacher.IsVacancy || wl.Teacher.MaxHours <= 0 {
			continue
		}
		totals[wl.Teacher.ID] += wl.HoursPerWeek
		names[wl.Teacher.ID] = wl.Teacher.Name
		caps[wl.Teacher.ID] = wl.Teacher.MaxHours
	}
	for id, total := range totals {
		if total > caps[id] {
			r.Warn("teacher %s assigned %d hours/week, over their max of %d", names[id], total, caps[id])
		}
	}
}

// Log emits the report through a zap logger at the level appropriate
// to each finding.
func (r *Report) Log(logger *zap.Logger) {
	for _, w := range r.Warnings {
		logger.Warn(w.Message)
	}
	logger.Info("schedule complete",
		zap.Int("objective", r.Objective),
		zap.Bool("complete", r.Complete),
		zap.Int("attempts", r.Attempts),
	)
}

// Grid renders a day-by-period-by-group ASCII table, generalizing the
// teacher repo's score.go PrintSchedule room-by-time grid to group
// lessons by (day, period, group) instead of (room, time).
func Grid(workloads []domain.Workload, slots []domain.TimeSlot, assignment map[string][]string) string {
	byID := make(map[string]domain.Workload, len(workloads))
	for _, wl := range workloads {
		byID[wl.ID] = wl
	}
	slotByID := make(map[string]domain.TimeSlot, len(slots))
	for _, s := range slots {
		slotByID[s.ID] = s
	}

	type cellKey struct {
		day, period int
		group       string
	}
	cells := make(map[cellKey][]string)
	groupNames := make(map[string]string)
	for wid, slotIDs := range assignment {
		wl := byID[wid]
		groupNames[wl.Group.ID] = wl.Group.Name
		for _, sid := range slotIDs {
			slot := slotByID[sid]
			key := cellKey{day: slot.Day, period: slot.Period, group: wl.Group.ID}
			cells[key] = append(cells[key], wl.Subject.Name)
		}
	}

	var groups []string
	for gid := range groupNames {
		groups = append(groups, gid)
	}
	sort.Strings(groups)

	var b strings.Builder
	for day := 1; day <= 5; day++ {
		fmt.Fprintf(&b, "=== Day %d ===\n", day)
		for period := 1; period <= 14; period++ {
			var entries []string
			for _, gid := range groups {
				subjects := cells[cellKey{day: day, period: period, group: gid}]
				if len(subjects) == 0 {
					continue
				}
				entries = append(entries, fmt.Sprintf("%s:%s", groupNames[gid], strings.Join(subjects, "+")))
			}
			if len(entries) == 0 {
				continue
			}
			fmt.Fprintf(&b, "  P%-2d %s\n", period, strings.Join(entries, "  "))
		}
	}
	return b.String()
}
