package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/classbuilder/timetable/internal/domain"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImportRoomsClassifiesTypes(t *testing.T) {
	path := writeCSV(t, "rooms.csv", "Name,Type,Capacity,Building\n"+
		"101,Standard,30,Main\n"+
		"Gym Hall,Gym,0,Annex\n"+
		"Chem Lab,Chemistry,24,Main\n")

	rooms, err := ImportRooms(path)
	require.NoError(t, err)
	require.Len(t, rooms, 3)
	require.Equal(t, domain.RoomStandard, rooms[0].Type)
	require.Equal(t, domain.RoomGym, rooms[1].Type)
	require.Equal(t, domain.RoomLabChemistry, rooms[2].Type)
	require.Equal(t, "Annex", rooms[1].Building)
	require.Equal(t, 30, rooms[0].Capacity)
	require.Equal(t, 0, rooms[1].Capacity)
	require.Equal(t, 24, rooms[2].Capacity)
}

func TestImportRoomsDefaultsMissingCapacity(t *testing.T) {
	path := writeCSV(t, "rooms.csv", "Name,Type,Building\n"+
		"101,Standard,Main\n")

	rooms, err := ImportRooms(path)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	require.Equal(t, 30, rooms[0].Capacity)
}

func TestImportWorkloadCreatesVacancyForEmptyTeacher(t *testing.T) {
	path := writeCSV(t, "workload.csv", "Teacher,Subject,Class,Hours,Shift,Subgroup\n"+
		",Math,9-A,4,1,\n"+
		"Jane Doe,Physics,9-A,3,1,\n")

	workloads, err := ImportWorkload(path)
	require.NoError(t, err)
	require.Len(t, workloads, 2)

	require.True(t, workloads[0].Teacher.IsVacancy)
	require.Equal(t, "Вакансия (Math)", workloads[0].Teacher.Name)
	require.Equal(t, 4, workloads[0].HoursPerWeek)
	require.Equal(t, domain.WholeClass, workloads[0].Subgroup)

	require.False(t, workloads[1].Teacher.IsVacancy)
	require.Equal(t, "Jane Doe", workloads[1].Teacher.Name)
}

func TestImportWorkloadDedupesTeachersAndGroups(t *testing.T) {
	path := writeCSV(t, "workload.csv", "Teacher,Subject,Class,Hours\n"+
		"Jane Doe,Physics,9-A,3\n"+
		"Jane Doe,Chemistry,9-A,2\n")

	workloads, err := ImportWorkload(path)
	require.NoError(t, err)
	require.Len(t, workloads, 2)
	require.Equal(t, workloads[0].Teacher.ID, workloads[1].Teacher.ID)
	require.Equal(t, workloads[0].Group.ID, workloads[1].Group.ID)
}

func TestImportWorkloadClassifiesSubgroups(t *testing.T) {
	path := writeCSV(t, "workload.csv", "Teacher,Subject,Class,Hours,Subgroup\n"+
		"Coach A,PE,9-A,2,boys\n"+
		"Coach B,PE,9-A,2,girls\n"+
		"Jane Doe,Math,9-A,4,\n")

	workloads, err := ImportWorkload(path)
	require.NoError(t, err)
	require.Equal(t, domain.Boys, workloads[0].Subgroup)
	require.Equal(t, domain.Girls, workloads[1].Subgroup)
	require.Equal(t, domain.WholeClass, workloads[2].Subgroup)
}
