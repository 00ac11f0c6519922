package ingest

import (
	"strings"

	"github.com/google/uuid"

	"github.com/classbuilder/timetable/internal/domain"
)

// ImportRooms reads a CSV or XLSX file of rooms. Recognized columns
// (case-insensitive): name, type/roomtype, capacity, building.
// Capacity is a seat count carried through for reporting; the
// scheduler's own room-type capacity constraint counts Room records
// per type, not this field (spec.md §4.1).
func ImportRooms(path string) ([]domain.Room, error) {
	header, rows, err := readRows(path)
	if err != nil {
		return nil, err
	}

	nameCol := columnIndex(header, "name", "название")
	typeCol := columnIndex(header, "type", "roomtype", "room_type", "тип")
	capacityCol := columnIndex(header, "capacity", "вместимость")
	buildingCol := columnIndex(header, "building", "корпус")

	var out []domain.Room
	for _, row := range rows {
		name := cell(row, nameCol)
		if name == "" {
			continue
		}
		out = append(out, domain.Room{
			ID:       uuid.NewString(),
			Name:     name,
			Type:     classifyRoomType(cell(row, typeCol)),
			Building: cell(row, buildingCol),
			Capacity: cellInt(row, capacityCol, 30),
		})
	}
	return out, nil
}

// classifyRoomType substring-matches the raw type column the way
// original_source/src/utils/importer.py does, defaulting to standard.
func classifyRoomType(raw string) domain.RoomType {
	s := strings.ToLower(raw)
	switch {
	case strings.Contains(s, "gym"):
		return domain.RoomGym
	case strings.Contains(s, "it"):
		return domain.RoomITLab
	case strings.Contains(s, "chem"):
		return domain.RoomLabChemistry
	case strings.Contains(s, "phys"):
		return domain.RoomLabPhysics
	case strings.Contains(s, "bio"):
		return domain.RoomLabBio
	default:
		return domain.RoomStandard
	}
}
