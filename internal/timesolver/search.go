package timesolver

import (
	"math/rand"

	"github.com/classbuilder/timetable/internal/domain"
)

// placement is one scheduled instance of a workload.
type placement struct {
	workloadID string
	slotID     string
}

// buildState tracks everything a single construction attempt needs to
// keep every hard constraint legal while it assigns slots one at a
// time. Mirrors the live tracking tables the teacher repo's
// SearchState keeps (InstructorTimeBadness, RoomTimeBadness, ...)
// generalized to this domain's constraints.
type buildState struct {
	prob *Problem

	teacherBusy map[string]map[string]bool            // teacherID -> slotID -> busy
	wholeBusy   map[string]map[string]bool            // groupID -> slotID -> whole-class lesson present
	subBusy     map[string]map[string]map[domain.Subgroup]bool // groupID -> slotID -> subgroup -> present
	typeUsage   map[string]map[domain.RoomType]int     // slotID -> required type -> count

	// subjectDayPeriods keys by groupID+"|"+subjectName and tracks,
	// per day, which periods are occupied by that subject for that
	// group — enough to evaluate both MaxPerDay (len of the set) and
	// MaxContinuous (longest run of consecutive periods).
	subjectDayPeriods map[string]map[int]map[int]bool // key -> day -> period -> true
}

func newBuildState(prob *Problem) *buildState {
	return &buildState{
		prob:              prob,
		teacherBusy:       make(map[string]map[string]bool),
		wholeBusy:         make(map[string]map[string]bool),
		subBusy:           make(map[string]map[string]map[domain.Subgroup]bool),
		typeUsage:         make(map[string]map[domain.RoomType]int),
		subjectDayPeriods: make(map[string]map[int]map[int]bool),
	}
}

func subjectKey(wl domain.Workload) string {
	return wl.Group.ID + "|" + wl.Subject.Name
}

// legal reports whether placing wl at slot keeps every hard
// constraint satisfied given what is already in the state.
func (b *buildState) legal(wl domain.Workload, slot domain.TimeSlot) bool {
	if !wl.Teacher.IsVacancy && b.teacherBusy[wl.Teacher.ID][slot.ID] {
		return false
	}
	if wl.Subgroup == domain.WholeClass {
		if b.wholeBusy[wl.Group.ID][slot.ID] {
			return false
		}
		if len(b.subBusy[wl.Group.ID][slot.ID]) > 0 {
			return false
		}
	} else {
		if b.wholeBusy[wl.Group.ID][slot.ID] {
			return false
		}
		if b.subBusy[wl.Group.ID][slot.ID][wl.Subgroup] {
			return false
		}
	}

	limit := b.prob.limitFor(wl.RequiredRoom)
	if b.typeUsage[slot.ID][wl.RequiredRoom]+1 > limit {
		return false
	}

	key := subjectKey(wl)
	dayPeriods := b.subjectDayPeriods[key][slot.Day]
	if max, ok := b.prob.Catalogue.MaxPerDayFor(wl.Subject.Name); ok {
		if len(dayPeriods) >= max {
			return false
		}
	}
	if max, ok := b.prob.Catalogue.MaxContinuousFor(wl.Subject.Name); ok {
		if runLengthWith(dayPeriods, slot.Period) > max {
			return false
		}
	}
	return true
}

// runLengthWith returns the length of the contiguous run of periods
// (within one day) that period would belong to if added to periods.
func runLengthWith(periods map[int]bool, period int) int {
	length := 1
	for p := period - 1; periods[p]; p-- {
		length++
	}
	for p := period + 1; periods[p]; p++ {
		length++
	}
	return length
}

// place commits wl at slot, updating every tracking table. Caller
// must have already checked legal.
func (b *buildState) place(wl domain.Workload, slot domain.TimeSlot) {
	if !wl.Teacher.IsVacancy {
		if b.teacherBusy[wl.Teacher.ID] == nil {
			b.teacherBusy[wl.Teacher.ID] = make(map[string]bool)
		}
		b.teacherBusy[wl.Teacher.ID][slot.ID] = true
	}
	if wl.Subgroup == domain.WholeClass {
		if b.wholeBusy[wl.Group.ID] == nil {
			b.wholeBusy[wl.Group.ID] = make(map[string]bool)
		}
		b.wholeBusy[wl.Group.ID][slot.ID] = true
	} else {
		if b.subBusy[wl.Group.ID] == nil {
			b.subBusy[wl.Group.ID] = make(map[string]map[domain.Subgroup]bool)
		}
		if b.subBusy[wl.Group.ID][slot.ID] == nil {
			b.subBusy[wl.Group.ID][slot.ID] = make(map[domain.Subgroup]bool)
		}
		b.subBusy[wl.Group.ID][slot.ID][wl.Subgroup] = true
	}
	if b.typeUsage[slot.ID] == nil {
		b.typeUsage[slot.ID] = make(map[domain.RoomType]int)
	}
	b.typeUsage[slot.ID][wl.RequiredRoom]++

	key := subjectKey(wl)
	if b.subjectDayPeriods[key] == nil {
		b.subjectDayPeriods[key] = make(map[int]map[int]bool)
	}
	if b.subjectDayPeriods[key][slot.Day] == nil {
		b.subjectDayPeriods[key][slot.Day] = make(map[int]bool)
	}
	b.subjectDayPeriods[key][slot.Day][slot.Period] = true
}

// gravityPenalty implements spec.md's shift-gravity soft term: lessons
// drift toward the start of the shift window.
func gravityPenalty(shift domain.Shift, period int) int {
	if shift == domain.ShiftAfternoon {
		d := period - 4
		return d * d
	}
	return period * period
}

const gapMagnetBonus = 5000

// goodness scores a candidate slot for wl given the state before
// placement: higher is better. Combines the negated shift-gravity
// penalty, the catalogue's period-priority bonus, and an estimate of
// the gap-magnet bonus (whether this placement abuts an already-busy
// period for the same teacher on the same day).
func (b *buildState) goodness(wl domain.Workload, slot domain.TimeSlot) int {
	score := -gravityPenalty(wl.Group.Shift, slot.Period)
	score += b.prob.Catalogue.PeriodBonus(wl.Subject.Name, slot.Period)
	if !wl.Teacher.IsVacancy {
		busy := b.teacherBusy[wl.Teacher.ID]
		if busy[slotIDAdjacent(b.prob, slot, -1)] {
			score += gapMagnetBonus
		}
		if busy[slotIDAdjacent(b.prob, slot, 1)] {
			score += gapMagnetBonus
		}
	}
	return score
}

// slotIDAdjacent finds the slot ID for (slot.Day, slot.Period+delta),
// or "" if no such slot exists.
func slotIDAdjacent(prob *Problem, slot domain.TimeSlot, delta int) string {
	target := slot.Period + delta
	for _, s := range prob.Slots {
		if s.Day == slot.Day && s.Period == target {
			return s.ID
		}
	}
	return ""
}

// attempt runs one full randomized construction: every workload's
// HoursPerWeek instances are placed via weighted lottery selection
// among its legal candidate slots. Returns the placements and whether
// every workload was fully satisfied (false means some instance ran
// out of legal candidates — the caller discards the attempt unless
// bestEffort is set, in which case a partial attempt is still scored
// and may become the incumbent).
func attempt(prob *Problem, rng *rand.Rand, bestEffort bool) ([]placement, bool) {
	state := newBuildState(prob)
	var placements []placement
	complete := true

	for _, wl := range prob.Workloads {
		cands := prob.Candidates[wl.ID]
		for i := 0; i < wl.HoursPerWeek; i++ {
			slotID, ok := pickSlot(prob, state, wl, cands, rng)
			if !ok {
				complete = false
				if !bestEffort {
					return placements, false
				}
				continue
			}
			slot := prob.SlotByID[slotID]
			state.place(wl, slot)
			placements = append(placements, placement{workloadID: wl.ID, slotID: slotID})
		}
	}
	return placements, complete
}

// pickSlot runs the weighted lottery: every legal candidate slot gets
// a number of tickets derived from its goodness (shifted so the worst
// legal candidate still gets at least one ticket), then a uniform
// draw over the ticket pool picks the winner. Mirrors the teacher
// repo's tickets-from-badness lottery in search.go's Solve.
func pickSlot(prob *Problem, state *buildState, wl domain.Workload, cands []string, rng *rand.Rand) (string, bool) {
	type option struct {
		slotID string
		score  int
	}
	var legal []option
	minScore := 0
	for _, sid := range cands {
		slot := prob.SlotByID[sid]
		if !state.legal(wl, slot) {
			continue
		}
		g := state.goodness(wl, slot)
		if len(legal) == 0 || g < minScore {
			minScore = g
		}
		legal = append(legal, option{slotID: sid, score: g})
	}
	if len(legal) == 0 {
		return "", false
	}

	total := 0
	tickets := make([]int, len(legal))
	for i, opt := range legal {
		w := (opt.score - minScore) + 1
		tickets[i] = w
		total += w
	}
	draw := rng.Intn(total)
	for i, w := range tickets {
		if draw < w {
			return legal[i].slotID, true
		}
		draw -= w
	}
	return legal[len(legal)-1].slotID, true
}

// demandWeight is spec.md §4.1/§9's "W_demand": a per-placed-hour
// bonus far larger than any one hour's gravity, period-priority and
// gap-magnet terms (a few thousand at most), so a schedule with fewer
// placed lesson-hours outscores one with more only if those terms
// differ between the two by more than 1,000,000 in total. It only matters in best-effort mode — a full-demand
// run always places every workload's HoursPerWeek, so every complete
// attempt earns the same constant total from this term and ordering
// among complete attempts is unaffected.
const demandWeight = 1_000_000

// objective recomputes spec.md's soft-objective value for a completed
// (or, under best-effort, partial) set of placements: a per-placed-hour
// demand bonus, shift gravity, period priority, and the gap-magnet
// bonus for every realized consecutive teaching pair.
func objective(prob *Problem, placements []placement) int {
	workloadByID := make(map[string]domain.Workload, len(prob.Workloads))
	for _, wl := range prob.Workloads {
		workloadByID[wl.ID] = wl
	}

	total := 0
	busy := make(map[string]map[int]map[int]bool) // teacherID -> day -> period -> true, for non-vacancy teachers
	for _, pl := range placements {
		wl := workloadByID[pl.workloadID]
		slot := prob.SlotByID[pl.slotID]
		total += demandWeight
		total -= gravityPenalty(wl.Group.Shift, slot.Period)
		total += prob.Catalogue.PeriodBonus(wl.Subject.Name, slot.Period)
		if !wl.Teacher.IsVacancy {
			if busy[wl.Teacher.ID] == nil {
				busy[wl.Teacher.ID] = make(map[int]map[int]bool)
			}
			if busy[wl.Teacher.ID][slot.Day] == nil {
				busy[wl.Teacher.ID][slot.Day] = make(map[int]bool)
			}
			busy[wl.Teacher.ID][slot.Day][slot.Period] = true
		}
	}
	for _, days := range busy {
		for _, periods := range days {
			for p := range periods {
				if periods[p+1] {
					total += gapMagnetBonus
				}
			}
		}
	}
	return total
}
