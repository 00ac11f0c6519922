// Package timesolver implements the time-assignment phase of the
// scheduler: deciding, for every Workload, which TimeSlots its
// HoursPerWeek lessons land on. It never touches concrete Rooms —
// that is internal/roomassign's job, kept deliberately separate to
// cut the search space from |workloads|*|slots|*|rooms| down to
// |workloads|*|slots| (see SPEC_FULL.md §9).
//
// There is no Go CP-SAT/MIP binding anywhere in the reference corpus
// this repo was built from, so the search here is a randomized,
// constructive multi-worker local search modeled on a lottery-style
// placement algorithm, not a call into an external solver. Hard
// constraints are enforced by construction: a candidate slot is only
// ever offered to a Workload if taking it keeps every tracked
// constraint table legal, so a complete Assignment is always correct
// by construction, never merely scored as correct after the fact.
package timesolver

import (
	"fmt"
	"sort"

	"github.com/classbuilder/timetable/internal/catalogue"
	"github.com/classbuilder/timetable/internal/domain"
)

// Problem is the prepared, read-only input to the search: sorted
// workloads/slots/rooms, per-workload shift-filtered candidate slots,
// and room-type capacity counts. Built once per run by Prepare and
// shared (read-only) across every search worker.
type Problem struct {
	Workloads  []domain.Workload
	Slots      []domain.TimeSlot
	Rooms      []domain.Room
	Catalogue  *catalogue.Catalogue
	Candidates map[string][]string // workload ID -> slot IDs passing the shift pre-filter
	Capacity   map[domain.RoomType]int
	SlotByID   map[string]domain.TimeSlot

	// Unplaceable lists workload IDs whose required room type has no
	// capacity at all (zero rooms of that type, and — for anything
	// other than gym — zero standard rooms to fall back to either).
	// These can never be scheduled; unless Options.BestEffort is set,
	// Run returns ErrInfeasible naming them rather than searching until
	// the time budget runs out.
	Unplaceable []string
}

// Prepare sorts the inputs for determinism (workloads by ID, slots by
// (Day, Period), rooms by ID — mirrors the ordering discipline
// original_source/src/solver/engine.py applies before building
// variables) and computes each workload's shift-filtered candidate
// slot list.
func Prepare(workloads []domain.Workload, slots []domain.TimeSlot, rooms []domain.Room, cat *catalogue.Catalogue) (*Problem, error) {
	if cat == nil {
		cat = catalogue.Default()
	}

	w := append([]domain.Workload(nil), workloads...)
	sort.Slice(w, func(i, j int) bool { return w[i].ID < w[j].ID })

	s := append([]domain.TimeSlot(nil), slots...)
	sort.Slice(s, func(i, j int) bool {
		if s[i].Day != s[j].Day {
			return s[i].Day < s[j].Day
		}
		return s[i].Period < s[j].Period
	})

	r := append([]domain.Room(nil), rooms...)
	sort.Slice(r, func(i, j int) bool { return r[i].ID < r[j].ID })

	capacity := make(map[domain.RoomType]int)
	for _, room := range r {
		capacity[room.Type]++
	}

	slotByID := make(map[string]domain.TimeSlot, len(s))
	for _, slot := range s {
		slotByID[slot.ID] = slot
	}

	p := &Problem{
		Workloads:  w,
		Slots:      s,
		Rooms:      r,
		Catalogue:  cat,
		Candidates: make(map[string][]string, len(w)),
		Capacity:   capacity,
		SlotByID:   slotByID,
	}

	for _, wl := range w {
		if wl.HoursPerWeek <= 0 {
			return nil, fmt.Errorf("workload %s: hours_per_week must be positive, got %d", wl.ID, wl.HoursPerWeek)
		}
		var cands []string
		for _, slot := range s {
			if !shiftAllows(wl.Group.Shift, slot.Period) {
				continue
			}
			cands = append(cands, slot.ID)
		}
		if len(cands) == 0 {
			return nil, fmt.Errorf("workload %s (%s/%s): no time slots pass the shift %d pre-filter",
				wl.ID, wl.Subject.Name, wl.Group.Name, wl.Group.Shift)
		}
		p.Candidates[wl.ID] = cands

		if p.limitFor(wl.RequiredRoom) == 0 {
			p.Unplaceable = append(p.Unplaceable, wl.ID)
		}
	}

	return p, nil
}

// shiftAllows implements spec.md's shift pre-filter: shift 1 may use
// periods 1..8, shift 2 periods 5 and up.
func shiftAllows(shift domain.Shift, period int) bool {
	if shift == domain.ShiftAfternoon {
		return period >= 5
	}
	return period <= 8
}

// limitFor returns how many simultaneous lessons of rt the school can
// host in one slot: rt's own room count if any exist, else the
// standard-room count as a fallback — except gym, which never falls
// back (a school with no gym simply cannot host PE, full stop).
func (p *Problem) limitFor(rt domain.RoomType) int {
	if rt == domain.RoomGym {
		return p.Capacity[domain.RoomGym]
	}
	if v := p.Capacity[rt]; v > 0 {
		return v
	}
	return p.Capacity[domain.RoomStandard]
}
