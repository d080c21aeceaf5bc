package tracker

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"github.com/submeso-data/eddytrack/internal/config"
	"github.com/submeso-data/eddytrack/internal/eddy"
	"github.com/submeso-data/eddytrack/internal/monitoring"
	"github.com/submeso-data/eddytrack/internal/rossby"
	"github.com/submeso-data/eddytrack/internal/timeaxis"
)

// RossbyTableFile is the file name of the Chelton reference table,
// looked up under the configured ross_path.
const RossbyTableFile = "rossrad.dat"

// Run executes a complete tracking pass over the configured time range
// and returns the filtered result: a dense mapping from track number to
// trajectories at least two steps long. A run that finds no usable
// snapshot anywhere on the axis returns nil with no error.
func Run(p *config.TrackParams, provider eddy.Provider) (map[int]*Track, error) {
	filtered, _, _, err := RunPartial(p, provider, false, nil, nil)
	return filtered, err
}

// RunPartial executes one batch of a tracking run that may be split
// across several sequential calls. With continuing set, the supplied
// tracks and terminated state from the previous batch are installed and
// every axis step is processed as a continuation; otherwise the first
// step with available data seeds the track set, exactly as in Run.
//
// It returns the filtered view (length > 1 only), plus the raw track
// list and terminated set to hand back into the next batch.
func RunPartial(p *config.TrackParams, provider eddy.Provider, continuing bool, tracks []*Track, terminated []int) (map[int]*Track, []*Track, []int, error) {
	if err := p.Validate(); err != nil {
		return nil, nil, nil, err
	}

	var tbl *rossby.Table
	if p.Grid == config.GridLatLon {
		var err error
		tbl, err = rossby.Load(filepath.Join(p.RossbyPath, RossbyTableFile))
		if err != nil {
			return nil, nil, nil, err
		}
	}

	axis, err := timeaxis.Build(p)
	if err != nil {
		return nil, nil, nil, err
	}

	eng := NewEngine(EngineConfig{
		Grid:         Grid(p.Grid),
		EastExtentKm: p.GetSearchExtentEastKm(),
		ScaleMin:     p.GetEddyScaleMin(),
		ScaleMax:     p.GetEddyScaleMax(),
		StepDays:     p.GetStepDays(),
		Rossby:       tbl,
	})

	// Locate where this axis starts within the provider's sequence so a
	// resumed batch picks up at the right step.
	base, err := provider.Align(axis[0])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("aligning axis start %s: %w", axis[0], err)
	}

	start := 0
	if continuing {
		eng.Resume(tracks, terminated)
	} else {
		seeded := false
		for k := 0; k < len(axis); k++ {
			dets, snapErr := provider.Snapshot(base+k, axis[k])
			if snapErr != nil || len(dets) == 0 {
				continue
			}
			eng.Seed(dets)
			start = k + 1
			seeded = true
			break
		}
		if !seeded {
			monitoring.Logf("no eddies found to track")
			return nil, nil, nil, nil
		}
	}

	checkpoints := progressCheckpoints(len(axis))
	for k := start; k < len(axis); k++ {
		if checkpoints[k] {
			monitoring.Logf("tracking at time step %d of %d", k+1, len(axis))
		}

		dets, snapErr := provider.Snapshot(base+k, axis[k])
		if snapErr != nil {
			// A step without data ends every in-progress track; the run
			// itself carries on.
			if !errors.Is(snapErr, eddy.ErrUnavailable) {
				monitoring.Logf("snapshot at %s unusable: %v", axis[k], snapErr)
			}
			eng.TerminateAll()
			continue
		}
		eng.Step(dets)
	}

	return FilterShort(eng.Tracks), eng.Tracks, eng.Terminated, nil
}

// FilterShort builds the externally visible result: a dense integer
// mapping over the tracks spanning at least two steps, in creation
// order. A single-step entry is not a trajectory, but it stays in the
// raw list so a resumed batch can still extend it.
func FilterShort(tracks []*Track) map[int]*Track {
	out := make(map[int]*Track)
	n := 0
	for _, tr := range tracks {
		if tr.Length() > 1 {
			out[n] = tr
			n++
		}
	}
	return out
}

// progressCheckpoints marks ~10 evenly spaced axis indices for progress
// logging.
func progressCheckpoints(n int) map[int]bool {
	marks := make(map[int]bool, 10)
	for i := 0; i < 10; i++ {
		marks[int(math.Round(float64(i)*float64(n)/9))] = true
	}
	return marks
}
