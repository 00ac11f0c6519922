// Package ingest provides the CSV/XLSX adapters spec.md names as
// external interfaces: trivial readers that normalize untyped
// spreadsheet rows into this repo's typed domain model and do
// nothing else.
//
// Dispatch-by-extension is grounded on the teacher repo's fetchFile
// (main.go/cli.go), which picks CSV vs. whitespace-delimited text by
// suffix; column aliasing and vacancy-teacher synthesis are grounded
// on original_source/src/utils/importer.py.
package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// readRows loads a CSV or XLSX file into a header row plus data rows.
// XLSX reads the first sheet.
func readRows(path string) (header []string, rows [][]string, err error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return readXLSX(path)
	default:
		return readCSV(path)
	}
}

func readCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("ingest: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("ingest: parse csv %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("ingest: %s is empty", path)
	}
	return all[0], all[1:], nil
}

func readXLSX(path string) ([]string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("ingest: open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("ingest: %s has no sheets", path)
	}
	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("ingest: read sheet %s: %w", sheets[0], err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("ingest: %s is empty", path)
	}
	return all[0], all[1:], nil
}

// columnIndex returns the index of the first header column that
// matches any of the aliases, case-insensitively, or -1 if none of
// the aliases appear.
func columnIndex(header []string, aliases ...string) int {
	for i, h := range header {
		lower := strings.ToLower(strings.TrimSpace(h))
		for _, alias := range aliases {
			if lower == alias {
				return i
			}
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func cellInt(row []string, idx, fallback int) int {
	s := cell(row, idx)
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
