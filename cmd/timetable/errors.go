package main

import (
	"errors"

	"go.uber.org/zap"

	"github.com/classbuilder/timetable/internal/config"
	"github.com/classbuilder/timetable/internal/timesolver"
)

// Sentinel error kinds mapped to the CLI exit codes spec.md §6 names:
// 0 feasible, and distinct non-zero codes for infeasible, partial
// (best-effort), and bad input.
var (
	ErrInfeasible = timesolver.ErrInfeasible
	ErrPartial    = errors.New("timetable: schedule produced is partial")
	ErrInput      = errors.New("timetable: invalid input")
)

const (
	exitInfeasible = 2
	exitPartial    = 3
	exitInput      = 4
	exitOther      = 1
)

func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, ErrInfeasible):
		return exitInfeasible
	case errors.Is(err, ErrPartial):
		return exitPartial
	case errors.Is(err, ErrInput):
		return exitInput
	default:
		return exitOther
	}
}

// loggerHandle bundles the constructed logger with the resolved
// config so subcommands can read tuning defaults without reloading.
type loggerHandle struct {
	logger *zap.Logger
	cfg    *config.Config
}
