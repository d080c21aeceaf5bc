package tracker

import (
	"github.com/submeso-data/eddytrack/internal/eddy"
	"github.com/submeso-data/eddytrack/internal/rossby"
)

// Engine owns the mutable tracking state: the full track list (never
// shrunk, so indices stay stable) and the indices of terminated tracks.
// It advances one timestep at a time; steps must be applied in time
// order because each assignment depends on the state left by the
// previous step.
type Engine struct {
	Tracks     []*Track
	Terminated []int

	params matchParams
}

// EngineConfig carries the per-run matching constants.
type EngineConfig struct {
	Grid         Grid
	EastExtentKm float64
	ScaleMin     float64
	ScaleMax     float64
	StepDays     int
	Rossby       *rossby.Table // nil on cartesian grids
}

// NewEngine returns an engine with no tracks.
func NewEngine(cfg EngineConfig) *Engine {
	return &Engine{
		params: matchParams{
			grid:     cfg.Grid,
			eastKm:   cfg.EastExtentKm,
			scaleMin: cfg.ScaleMin,
			scaleMax: cfg.ScaleMax,
			dtDays:   cfg.StepDays,
			rossby:   cfg.Rossby,
		},
	}
}

// Resume installs externally supplied state from an earlier run so a
// new axis can continue where the previous one stopped.
func (e *Engine) Resume(tracks []*Track, terminated []int) {
	e.Tracks = tracks
	e.Terminated = terminated
}

// Seed creates one track per detection of the first processed step. All
// seeded tracks are flagged as existing at the start of the run.
func (e *Engine) Seed(dets []eddy.Detection) {
	for _, d := range dets {
		e.Tracks = append(e.Tracks, newTrack(d, true))
	}
}

// Step assigns the detections of one timestep to the active tracks.
//
// Tracks are scanned in creation order, never re-sorted: when two
// active tracks could claim the same candidate, the earlier-created
// track wins and the candidate is gone from the pool before the later
// track looks. This resolution order is part of the tracking contract,
// not an artefact of the loop.
//
// A track with no surviving candidate at any filter stage terminates on
// the spot. Detections left unclaimed after all active tracks have been
// scanned each seed a brand-new track.
func (e *Engine) Step(dets []eddy.Detection) {
	unassigned := make([]int, len(dets))
	for i := range dets {
		unassigned[i] = i
	}

	for ti, tr := range e.Tracks {
		if tr.Terminated {
			continue
		}

		match, ok := findContinuation(tr, dets, unassigned, e.params)
		if !ok {
			e.terminate(ti)
			continue
		}

		tr.extend(dets[match])
		unassigned = removeIndex(unassigned, match)
	}

	for _, di := range unassigned {
		e.Tracks = append(e.Tracks, newTrack(dets[di], false))
	}
}

// TerminateAll ends every active track. Used when a whole timestep's
// snapshot is unavailable.
func (e *Engine) TerminateAll() {
	for ti := range e.Tracks {
		e.terminate(ti)
	}
}

// terminate marks a track terminated and records its index. Already
// terminated tracks are left untouched so the terminated set holds each
// index exactly once.
func (e *Engine) terminate(ti int) {
	if e.Tracks[ti].Terminated {
		return
	}
	e.Tracks[ti].Terminated = true
	e.Terminated = append(e.Terminated, ti)
}

// ActiveCount returns the number of non-terminated tracks.
func (e *Engine) ActiveCount() int {
	n := 0
	for _, tr := range e.Tracks {
		if !tr.Terminated {
			n++
		}
	}
	return n
}

// removeIndex drops the element equal to v from an ordered index slice,
// keeping the remaining order intact. Candidates are keyed by value,
// not position, so earlier removals cannot shift later lookups.
func removeIndex(s []int, v int) []int {
	for i, x := range s {
		if x == v {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}
