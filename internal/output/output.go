// Package output persists the finished schedule: every run replaces
// the previous set of domain.ScheduleEntry records atomically, so a
// reader never observes a half-written file.
//
// Grounded on the teacher repo's cli.go writeJsonFile: write to a
// sibling *.tmp file, then os.Rename over the destination (rename is
// atomic on the same filesystem, the only guarantee this repo needs —
// a real multi-writer database is explicitly out of scope, see
// SPEC_FULL.md's "Dependencies ... not wired").
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/classbuilder/timetable/internal/domain"
)

// WriteSchedule atomically replaces path with the JSON encoding of
// entries.
func WriteSchedule(path string, entries []domain.ScheduleEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("output: marshal schedule: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("output: write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("output: replace %s: %w", path, err)
	}
	return nil
}

// ReadSchedule loads a schedule previously written by WriteSchedule.
func ReadSchedule(path string) ([]domain.ScheduleEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("output: read %s: %w", path, err)
	}
	var entries []domain.ScheduleEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("output: parse %s: %w", filepath.Base(path), err)
	}
	return entries, nil
}
