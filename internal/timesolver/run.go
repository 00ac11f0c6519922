package timesolver

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"strings"
	"sync"
	"time"
)

// ErrInfeasible is returned by Run when Options.BestEffort was not set
// and either Problem.Unplaceable is non-empty (returned at once, naming
// those workloads) or, after exhausting the time budget, no worker ever
// produced a complete legal assignment.
var ErrInfeasible = errors.New("timesolver: no feasible assignment found within the time budget")

// Options tunes the search. Zero values are replaced with sane
// defaults by Run (mirrors the teacher repo's cli.go flag defaults:
// -workers, -time, -pin and friends).
type Options struct {
	// Workers is how many goroutines run independent randomized
	// construction attempts. Defaults to runtime.NumCPU().
	Workers int
	// TimeBudget bounds total wall-clock search time. Defaults to 60s
	// (spec.md's floor of its 60-600s configurable range).
	TimeBudget time.Duration
	// Seed makes the search reproducible: worker i seeds its private
	// *rand.Rand with Seed+int64(i), so the set of attempts any one
	// worker explores is deterministic (see DESIGN.md Open Question 4
	// for the residual, inherent nondeterminism of which attempt wins
	// under a wall-clock cutoff).
	Seed int64
	// BestEffort relaxes the lesson-demand hard constraint: an
	// attempt that fails to place every required instance is still
	// scored and may become the incumbent, instead of being discarded.
	// objective()'s demandWeight term makes the incumbent selection
	// (consider, by plain obj > bestObj) prefer an attempt with more
	// placed lesson-hours unless the two attempts' other objective terms
	// differ by more than demandWeight in total.
	BestEffort bool
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.TimeBudget <= 0 {
		o.TimeBudget = 60 * time.Second
	}
	return o
}

// Result is the best assignment Run found.
type Result struct {
	// Assignment maps workload ID to the slot IDs it was placed at.
	Assignment map[string][]string
	// Objective is the soft-objective value of Assignment (see
	// SPEC_FULL.md §4.1; higher is better).
	Objective int
	// Complete is false when BestEffort was set and some workload
	// instance went unplaced.
	Complete bool
	// Attempts is how many full construction attempts were scored,
	// for diagnostics.
	Attempts int
}

// incumbent is the mutex-guarded shared best-so-far, mirroring the
// teacher repo's main.go/cli.go worker-pool result-gathering pattern.
type incumbent struct {
	mu       sync.Mutex
	best     []placement
	bestObj  int
	haveBest bool
	attempts int
}

func (in *incumbent) consider(placements []placement, obj int) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.attempts++
	if !in.haveBest || obj > in.bestObj {
		in.best = placements
		in.bestObj = obj
		in.haveBest = true
	}
}

// Run launches Options.Workers goroutines, each repeatedly building a
// randomized complete assignment until ctx is cancelled or
// Options.TimeBudget elapses, and returns the best-scoring assignment
// found across all workers.
func Run(ctx context.Context, prob *Problem, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	if len(prob.Unplaceable) > 0 && !opts.BestEffort {
		return nil, fmt.Errorf("%w: no room capacity for workloads %s",
			ErrInfeasible, strings.Join(prob.Unplaceable, ", "))
	}

	deadline := time.Now().Add(opts.TimeBudget)
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	in := &incumbent{}
	var wg sync.WaitGroup
	for i := 0; i < opts.Workers; i++ {
		rng := rand.New(rand.NewSource(opts.Seed + int64(i)))
		wg.Add(1)
		go func(rng *rand.Rand) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				default:
				}
				placements, complete := attempt(prob, rng, opts.BestEffort)
				if !complete && !opts.BestEffort {
					continue
				}
				in.consider(placements, objective(prob, placements))
			}
		}(rng)
	}
	wg.Wait()

	in.mu.Lock()
	defer in.mu.Unlock()

	if !in.haveBest {
		return nil, ErrInfeasible
	}

	assignment := make(map[string][]string)
	for _, pl := range in.best {
		assignment[pl.workloadID] = append(assignment[pl.workloadID], pl.slotID)
	}

	complete := true
	for _, wl := range prob.Workloads {
		if len(assignment[wl.ID]) != wl.HoursPerWeek {
			complete = false
			break
		}
	}
	if !complete && !opts.BestEffort {
		return nil, ErrInfeasible
	}

	return &Result{
		Assignment: assignment,
		Objective:  in.bestObj,
		Complete:   complete,
		Attempts:   in.attempts,
	}, nil
}
