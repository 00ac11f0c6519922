package timesolver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/classbuilder/timetable/internal/catalogue"
	"github.com/classbuilder/timetable/internal/domain"
)

func fiveDayWeek(periodsPerDay int) []domain.TimeSlot {
	var slots []domain.TimeSlot
	for day := 1; day <= 5; day++ {
		for period := 1; period <= periodsPerDay; period++ {
			slots = append(slots, domain.TimeSlot{
				ID:     sprintfID(day, period),
				Day:    day,
				Period: period,
			})
		}
	}
	return slots
}

func sprintfID(day, period int) string {
	return string(rune('0'+day)) + "-" + string(rune('0'+period/10)) + string(rune('0'+period%10))
}

func teacher(id string) domain.Teacher { return domain.Teacher{ID: id, Name: id} }
func vacancy(id string) domain.Teacher { return domain.Teacher{ID: id, Name: id, IsVacancy: true} }
func group(id string, shift domain.Shift) domain.StudentGroup {
	return domain.StudentGroup{ID: id, Name: id, Shift: shift}
}
func subj(name string) domain.Subject { return domain.Subject{ID: name, Name: name} }

func TestPrepareRejectsZeroHours(t *testing.T) {
	wl := domain.Workload{ID: "w1", Teacher: teacher("t1"), Subject: subj("Math"), Group: group("9A", domain.ShiftMorning), RequiredRoom: domain.RoomStandard, HoursPerWeek: 0}
	_, err := Prepare([]domain.Workload{wl}, fiveDayWeek(8), []domain.Room{{ID: "r1", Type: domain.RoomStandard}}, nil)
	require.Error(t, err)
}

func TestPrepareShiftPreFilter(t *testing.T) {
	morning := group("9A", domain.ShiftMorning)
	afternoon := group("9B", domain.ShiftAfternoon)
	wls := []domain.Workload{
		{ID: "w1", Teacher: teacher("t1"), Subject: subj("Math"), Group: morning, RequiredRoom: domain.RoomStandard, HoursPerWeek: 1},
		{ID: "w2", Teacher: teacher("t2"), Subject: subj("Math"), Group: afternoon, RequiredRoom: domain.RoomStandard, HoursPerWeek: 1},
	}
	rooms := []domain.Room{{ID: "r1", Type: domain.RoomStandard}}
	prob, err := Prepare(wls, fiveDayWeek(13), rooms, nil)
	require.NoError(t, err)

	for _, sid := range prob.Candidates["w1"] {
		require.LessOrEqual(t, prob.SlotByID[sid].Period, 8)
	}
	for _, sid := range prob.Candidates["w2"] {
		require.GreaterOrEqual(t, prob.SlotByID[sid].Period, 5)
	}
}

func TestGymNeverFallsBackToStandard(t *testing.T) {
	wl := domain.Workload{ID: "pe", Teacher: teacher("t1"), Subject: subj("PE"), Group: group("9A", domain.ShiftMorning), RequiredRoom: domain.RoomGym, HoursPerWeek: 2}
	rooms := []domain.Room{{ID: "r1", Type: domain.RoomStandard}} // no gym at all
	prob, err := Prepare([]domain.Workload{wl}, fiveDayWeek(8), rooms, nil)
	require.NoError(t, err)
	require.Contains(t, prob.Unplaceable, "pe")

	res, err := Run(context.Background(), prob, Options{Workers: 2, TimeBudget: 200 * time.Millisecond, Seed: 1, BestEffort: true})
	require.NoError(t, err)
	require.Empty(t, res.Assignment["pe"], "a gym workload must never be placed in a standard room")
}

func TestTeacherNeverDoubleBooked(t *testing.T) {
	t1 := teacher("t1")
	g1 := group("9A", domain.ShiftMorning)
	g2 := group("9B", domain.ShiftMorning)
	wls := []domain.Workload{
		{ID: "w1", Teacher: t1, Subject: subj("Math"), Group: g1, RequiredRoom: domain.RoomStandard, HoursPerWeek: 4},
		{ID: "w2", Teacher: t1, Subject: subj("Physics"), Group: g2, RequiredRoom: domain.RoomStandard, HoursPerWeek: 4},
	}
	rooms := []domain.Room{{ID: "r1", Type: domain.RoomStandard}, {ID: "r2", Type: domain.RoomStandard}}
	prob, err := Prepare(wls, fiveDayWeek(8), rooms, catalogue.New(nil))
	require.NoError(t, err)

	res, err := Run(context.Background(), prob, Options{Workers: 4, TimeBudget: time.Second, Seed: 7})
	require.NoError(t, err)
	require.True(t, res.Complete)

	seen := make(map[string]bool)
	for _, wid := range []string{"w1", "w2"} {
		for _, sid := range res.Assignment[wid] {
			require.False(t, seen[sid], "teacher t1 double-booked at slot %s", sid)
			seen[sid] = true
		}
	}
}

func TestWholeClassExcludesSubgroups(t *testing.T) {
	g := group("9A", domain.ShiftMorning)
	wls := []domain.Workload{
		{ID: "whole", Teacher: teacher("t1"), Subject: subj("History"), Group: g, Subgroup: domain.WholeClass, RequiredRoom: domain.RoomStandard, HoursPerWeek: 3},
		{ID: "sub1", Teacher: teacher("t2"), Subject: subj("PE"), Group: g, Subgroup: domain.Boys, RequiredRoom: domain.RoomGym, HoursPerWeek: 2},
		{ID: "sub2", Teacher: teacher("t3"), Subject: subj("PE"), Group: g, Subgroup: domain.Girls, RequiredRoom: domain.RoomGym, HoursPerWeek: 2},
	}
	rooms := []domain.Room{{ID: "r1", Type: domain.RoomStandard}, {ID: "gym1", Type: domain.RoomGym}}
	prob, err := Prepare(wls, fiveDayWeek(8), rooms, catalogue.New(nil))
	require.NoError(t, err)

	res, err := Run(context.Background(), prob, Options{Workers: 4, TimeBudget: time.Second, Seed: 3})
	require.NoError(t, err)
	require.True(t, res.Complete)

	wholeSlots := toSet(res.Assignment["whole"])
	for _, sid := range res.Assignment["sub1"] {
		require.False(t, wholeSlots[sid])
	}
	for _, sid := range res.Assignment["sub2"] {
		require.False(t, wholeSlots[sid])
	}

	// boys and girls PE are different subgroup kinds, so the class
	// constraint alone would let them run concurrently; with a single
	// gym here, the room-type capacity keeps them apart.
	boys := toSet(res.Assignment["sub1"])
	girls := toSet(res.Assignment["sub2"])
	overlap := false
	for sid := range boys {
		if girls[sid] {
			overlap = true
		}
	}
	_ = overlap // not asserted either way
}

// TestSingleClassSingleTeacherNoConflicts is spec.md §8 scenario 1:
// one group, one teacher, Monday periods 1..5, one standard room,
// Math=5. Every hour must be placed, all on Monday, one per period
// 1..5 (shift gravity plus the gap magnet make spreading across the
// only five available slots, in some order, the unique optimum).
func TestSingleClassSingleTeacherNoConflicts(t *testing.T) {
	g := group("9A", domain.ShiftMorning)
	wl := domain.Workload{ID: "math", Teacher: teacher("t1"), Subject: subj("Math"), Group: g, RequiredRoom: domain.RoomStandard, HoursPerWeek: 5}
	monday := []domain.TimeSlot{
		{ID: "1-01", Day: 1, Period: 1},
		{ID: "1-02", Day: 1, Period: 2},
		{ID: "1-03", Day: 1, Period: 3},
		{ID: "1-04", Day: 1, Period: 4},
		{ID: "1-05", Day: 1, Period: 5},
	}
	rooms := []domain.Room{{ID: "r1", Type: domain.RoomStandard}}
	prob, err := Prepare([]domain.Workload{wl}, monday, rooms, catalogue.New(nil))
	require.NoError(t, err)

	res, err := Run(context.Background(), prob, Options{Workers: 4, TimeBudget: time.Second, Seed: 17})
	require.NoError(t, err)
	require.True(t, res.Complete)

	require.Len(t, res.Assignment["math"], 5)
	seen := make(map[string]bool)
	for _, sid := range res.Assignment["math"] {
		slot := prob.SlotByID[sid]
		require.Equal(t, 1, slot.Day)
		require.False(t, seen[sid], "each slot used at most once")
		seen[sid] = true
	}
	for _, slot := range monday {
		require.True(t, seen[slot.ID], "period %d must be used", slot.Period)
	}
}

// TestSubgroupParallelismLandsOnSameSlot is spec.md §8 scenario 2:
// English-g1 and English-g2, one hour each, two different teachers,
// two IT rooms. Nothing forces them apart (different subgroup kinds,
// different teachers, room capacity for two), and shift gravity pulls
// both independently toward the same best period, so the optimum
// places them in the same slot.
func TestSubgroupParallelismLandsOnSameSlot(t *testing.T) {
	g := group("9A", domain.ShiftMorning)
	wls := []domain.Workload{
		{ID: "eng-g1", Teacher: teacher("t1"), Subject: subj("English"), Group: g, Subgroup: domain.Group1, RequiredRoom: domain.RoomITLab, HoursPerWeek: 1},
		{ID: "eng-g2", Teacher: teacher("t2"), Subject: subj("English"), Group: g, Subgroup: domain.Group2, RequiredRoom: domain.RoomITLab, HoursPerWeek: 1},
	}
	rooms := []domain.Room{{ID: "it1", Type: domain.RoomITLab}, {ID: "it2", Type: domain.RoomITLab}}
	prob, err := Prepare(wls, fiveDayWeek(8), rooms, catalogue.New(nil))
	require.NoError(t, err)

	res, err := Run(context.Background(), prob, Options{Workers: 4, TimeBudget: 2 * time.Second, Seed: 19})
	require.NoError(t, err)
	require.True(t, res.Complete)

	require.Len(t, res.Assignment["eng-g1"], 1)
	require.Len(t, res.Assignment["eng-g2"], 1)
	require.Equal(t, res.Assignment["eng-g1"][0], res.Assignment["eng-g2"][0],
		"both subgroup lessons should land on the same optimal slot")
}

// TestGapMagnetPullsTeacherLessonsAdjacent is spec.md §8 scenario 4:
// one teacher with two one-hour lessons for the same group across a
// ten-slot week (five days, two periods each). The gap-magnet bonus
// (5000) vastly outweighs any possible gravity difference between the
// two periods in a day, so the optimum keeps both lessons on the same
// day, back to back.
func TestGapMagnetPullsTeacherLessonsAdjacent(t *testing.T) {
	g := group("9A", domain.ShiftMorning)
	t1 := teacher("t1")
	wls := []domain.Workload{
		{ID: "math", Teacher: t1, Subject: subj("Math"), Group: g, RequiredRoom: domain.RoomStandard, HoursPerWeek: 1},
		{ID: "hist", Teacher: t1, Subject: subj("History"), Group: g, RequiredRoom: domain.RoomStandard, HoursPerWeek: 1},
	}
	rooms := []domain.Room{{ID: "r1", Type: domain.RoomStandard}, {ID: "r2", Type: domain.RoomStandard}}
	prob, err := Prepare(wls, fiveDayWeek(2), rooms, catalogue.New(nil))
	require.NoError(t, err)

	res, err := Run(context.Background(), prob, Options{Workers: 4, TimeBudget: 2 * time.Second, Seed: 23})
	require.NoError(t, err)
	require.True(t, res.Complete)

	mathSlot := prob.SlotByID[res.Assignment["math"][0]]
	histSlot := prob.SlotByID[res.Assignment["hist"][0]]
	require.Equal(t, mathSlot.Day, histSlot.Day, "both lessons should land on the same day")
	require.Equal(t, 1, abs(mathSlot.Period-histSlot.Period), "both lessons should land on adjacent periods")
}

// TestInfeasibleWhenOneTeacherOverbooked is spec.md §8 scenario 5: two
// workloads sharing the same real teacher, both hours=5, only 5 slots
// total in the whole week. The teacher-conflict constraint makes 10
// required lesson-hours impossible to fit in 5 slots; Run must return
// ErrInfeasible.
func TestInfeasibleWhenOneTeacherOverbooked(t *testing.T) {
	t1 := teacher("t1")
	g1 := group("9A", domain.ShiftMorning)
	g2 := group("9B", domain.ShiftMorning)
	wls := []domain.Workload{
		{ID: "w1", Teacher: t1, Subject: subj("Math"), Group: g1, RequiredRoom: domain.RoomStandard, HoursPerWeek: 5},
		{ID: "w2", Teacher: t1, Subject: subj("Physics"), Group: g2, RequiredRoom: domain.RoomStandard, HoursPerWeek: 5},
	}
	slots := []domain.TimeSlot{
		{ID: "1-01", Day: 1, Period: 1},
		{ID: "1-02", Day: 1, Period: 2},
		{ID: "1-03", Day: 1, Period: 3},
		{ID: "1-04", Day: 1, Period: 4},
		{ID: "1-05", Day: 1, Period: 5},
	}
	rooms := []domain.Room{{ID: "r1", Type: domain.RoomStandard}, {ID: "r2", Type: domain.RoomStandard}}
	prob, err := Prepare(wls, slots, rooms, catalogue.New(nil))
	require.NoError(t, err)

	_, err = Run(context.Background(), prob, Options{Workers: 4, TimeBudget: 300 * time.Millisecond, Seed: 29})
	require.ErrorIs(t, err, ErrInfeasible)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func TestMaxPerDayIsEnforced(t *testing.T) {
	g := group("9A", domain.ShiftMorning)
	wl := domain.Workload{ID: "phys", Teacher: teacher("t1"), Subject: subj("Physics"), Group: g, RequiredRoom: domain.RoomStandard, HoursPerWeek: 3}
	rooms := []domain.Room{{ID: "r1", Type: domain.RoomStandard}}
	cat := catalogue.New([]catalogue.Rule{{Kind: catalogue.MaxPerDay, Subject: "Physics", MaxValue: 2}})
	prob, err := Prepare([]domain.Workload{wl}, fiveDayWeek(8), rooms, cat)
	require.NoError(t, err)

	res, err := Run(context.Background(), prob, Options{Workers: 4, TimeBudget: time.Second, Seed: 11})
	require.NoError(t, err)
	require.True(t, res.Complete)

	perDay := make(map[int]int)
	for _, sid := range res.Assignment["phys"] {
		perDay[prob.SlotByID[sid].Day]++
	}
	for day, n := range perDay {
		require.LessOrEqual(t, n, 2, "day %d exceeded max-per-day", day)
	}
}

func TestMaxContinuousIsEnforced(t *testing.T) {
	g := group("9A", domain.ShiftMorning)
	wl := domain.Workload{ID: "math", Teacher: teacher("t1"), Subject: subj("Math"), Group: g, RequiredRoom: domain.RoomStandard, HoursPerWeek: 10}
	rooms := []domain.Room{{ID: "r1", Type: domain.RoomStandard}}
	cat := catalogue.New([]catalogue.Rule{{Kind: catalogue.MaxContinuous, Subject: "Math", MaxValue: 2}})
	prob, err := Prepare([]domain.Workload{wl}, fiveDayWeek(8), rooms, cat)
	require.NoError(t, err)

	res, err := Run(context.Background(), prob, Options{Workers: 4, TimeBudget: 2 * time.Second, Seed: 13})
	require.NoError(t, err)
	require.True(t, res.Complete)

	byDay := make(map[int][]int)
	for _, sid := range res.Assignment["math"] {
		slot := prob.SlotByID[sid]
		byDay[slot.Day] = append(byDay[slot.Day], slot.Period)
	}
	for _, periods := range byDay {
		set := make(map[int]bool)
		for _, p := range periods {
			set[p] = true
		}
		for _, p := range periods {
			require.LessOrEqual(t, runLengthWith(subtract(set, p), p), 2)
		}
	}
}

func subtract(set map[int]bool, p int) map[int]bool {
	out := make(map[int]bool, len(set))
	for k, v := range set {
		if k != p {
			out[k] = v
		}
	}
	return out
}

func toSet(ids []string) map[string]bool {
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}

func TestRoomCapacityFallbackToStandard(t *testing.T) {
	g := group("9A", domain.ShiftMorning)
	wl := domain.Workload{ID: "chem", Teacher: teacher("t1"), Subject: subj("Chemistry"), Group: g, RequiredRoom: domain.RoomLabChemistry, HoursPerWeek: 2}
	rooms := []domain.Room{{ID: "r1", Type: domain.RoomStandard}} // no chemistry lab, falls back
	prob, err := Prepare([]domain.Workload{wl}, fiveDayWeek(8), rooms, catalogue.New(nil))
	require.NoError(t, err)
	require.NotContains(t, prob.Unplaceable, "chem")

	res, err := Run(context.Background(), prob, Options{Workers: 2, TimeBudget: 300 * time.Millisecond, Seed: 5})
	require.NoError(t, err)
	require.True(t, res.Complete)
}
