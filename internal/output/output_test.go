package output

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/classbuilder/timetable/internal/domain"
)

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schedule.json")

	entries := []domain.ScheduleEntry{
		{WorkloadID: "w1", SlotID: "s1", RoomID: "r1"},
		{WorkloadID: "w2", SlotID: "s2", RoomID: "r2"},
	}
	require.NoError(t, WriteSchedule(path, entries))

	got, err := ReadSchedule(path)
	require.NoError(t, err)
	require.Equal(t, entries, got)
}

func TestWriteReplacesPreviousContentAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schedule.json")

	require.NoError(t, WriteSchedule(path, []domain.ScheduleEntry{{WorkloadID: "old"}}))
	require.NoError(t, WriteSchedule(path, []domain.ScheduleEntry{{WorkloadID: "new"}}))

	got, err := ReadSchedule(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "new", got[0].WorkloadID)
}
