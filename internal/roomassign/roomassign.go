// Package roomassign implements the second phase of the scheduler:
// given a time assignment (which slot each workload instance landed
// on), greedily hand out concrete rooms, one slot at a time.
//
// Grounded on original_source/src/solver/engine.py's
// _assign_rooms_greedy: group the active assignments by slot, place
// non-standard-room-type lessons first (the scarce resource), and let
// standard-type lessons take whatever is left, falling back to a
// standard room for any type with no dedicated room (gym excepted).
package roomassign

import (
	"fmt"
	"sort"

	"github.com/classbuilder/timetable/internal/domain"
)

// Unassigned records a workload instance that could not be given a
// room at its slot — the room pool of its required type (and,
// non-gym, the standard fallback pool) was exhausted.
type Unassigned struct {
	WorkloadID string
	SlotID     string
}

// Result is the outcome of one Assign call.
type Result struct {
	Entries    []domain.ScheduleEntry
	Unassigned []Unassigned
}

// Assign takes a time assignment (workload ID -> slot IDs, as
// produced by timesolver.Result.Assignment) and hands out rooms.
func Assign(workloads []domain.Workload, rooms []domain.Room, assignment map[string][]string) Result {
	workloadByID := make(map[string]domain.Workload, len(workloads))
	for _, wl := range workloads {
		workloadByID[wl.ID] = wl
	}

	bySlot := make(map[string][]string) // slotID -> workload IDs landing there
	var slotIDs []string
	seenSlot := make(map[string]bool)
	for wid, slots := range assignment {
		for _, sid := range slots {
			bySlot[sid] = append(bySlot[sid], wid)
			if !seenSlot[sid] {
				seenSlot[sid] = true
				slotIDs = append(slotIDs, sid)
			}
		}
	}
	sort.Strings(slotIDs)

	var result Result
	for _, sid := range slotIDs {
		wids := append([]string(nil), bySlot[sid]...)
		sort.Slice(wids, func(i, j int) bool {
			wi, wj := workloadByID[wids[i]], workloadByID[wids[j]]
			iSpecial := wi.RequiredRoom != domain.RoomStandard
			jSpecial := wj.RequiredRoom != domain.RoomStandard
			if iSpecial != jSpecial {
				return iSpecial // special-room lessons go first
			}
			return wids[i] < wids[j]
		})

		available := append([]domain.Room(nil), rooms...)
		for _, wid := range wids {
			wl := workloadByID[wid]
			room, idx, ok := pickRoom(available, wl.RequiredRoom)
			if !ok {
				result.Unassigned = append(result.Unassigned, Unassigned{WorkloadID: wid, SlotID: sid})
				continue
			}
			available = append(available[:idx], available[idx+1:]...)
			result.Entries = append(result.Entries, domain.ScheduleEntry{
				WorkloadID: wid,
				SlotID:     sid,
				RoomID:     room.ID,
			})
		}
	}
	return result
}

// pickRoom finds the best available room for needed: an exact type
// match first, falling back to a standard room for anything except
// gym (gym lessons that find no gym go unassigned, never into a
// standard room — the room assigner respects the same no-fallback
// rule the time solver already enforced via capacity).
func pickRoom(available []domain.Room, needed domain.RoomType) (domain.Room, int, bool) {
	for i, r := range available {
		if r.Type == needed {
			return r, i, true
		}
	}
	if needed == domain.RoomGym {
		return domain.Room{}, -1, false
	}
	for i, r := range available {
		if r.Type == domain.RoomStandard {
			return r, i, true
		}
	}
	return domain.Room{}, -1, false
}

// Summary renders a short human-readable count, used by the CLI's gen
// command.
func (r Result) Summary() string {
	return fmt.Sprintf("%d lessons assigned a room, %d unassigned", len(r.Entries), len(r.Unassigned))
}
