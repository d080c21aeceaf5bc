package tracker

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/submeso-data/eddytrack/internal/eddy"
	"github.com/submeso-data/eddytrack/internal/rossby"
)

// matchParams carries the per-run constants consulted when matching a
// track against the candidate pool.
type matchParams struct {
	grid     Grid
	eastKm   float64
	scaleMin float64
	scaleMax float64
	dtDays   int
	rossby   *rossby.Table
}

// findContinuation runs the three matching stages for one track against
// the not-yet-assigned detections of the current step, in order:
// proximity (search ellipse), physical similarity (amplitude and area),
// and polarity. Each stage narrows the pool; an empty stage means the
// track has no continuation and must terminate. Among the survivors the
// candidate nearest to the track's last centre wins, with exact ties
// going to the first-occurring index.
//
// candidates holds indices into dets; the returned index is also an
// index into dets.
func findContinuation(tr *Track, dets []eddy.Detection, candidates []int, p matchParams) (int, bool) {
	x0, y0 := tr.lastPos()

	// Stage 1: candidate centre inside the search ellipse.
	ell := searchEllipseAt(x0, y0, p.eastKm, p.grid, p.rossby, p.dtDays)
	near := candidates[:0:0]
	for _, ci := range candidates {
		if ell.Contains(dets[ci].Lon, dets[ci].Lat) {
			near = append(near, ci)
		}
	}
	if len(near) == 0 {
		return 0, false
	}

	// Stage 2: amplitude and area both strictly within the allowed
	// change factors of the track's last values.
	lastAmp := tr.Amp[len(tr.Amp)-1]
	lastArea := tr.Area[len(tr.Area)-1]
	similar := near[:0:0]
	for _, ci := range near {
		d := dets[ci]
		ampOK := d.Amp > lastAmp*p.scaleMin && d.Amp < lastAmp*p.scaleMax
		areaOK := d.Area > lastArea*p.scaleMin && d.Area < lastArea*p.scaleMax
		if ampOK && areaOK {
			similar = append(similar, ci)
		}
	}
	if len(similar) == 0 {
		return 0, false
	}

	// Stage 3: same rotation sense.
	typed := similar[:0:0]
	for _, ci := range similar {
		if dets[ci].Type == tr.Type {
			typed = append(typed, ci)
		}
	}
	if len(typed) == 0 {
		return 0, false
	}

	// Nearest survivor by Euclidean distance in coordinate space.
	// floats.MinIdx keeps the first index on exact ties.
	dists := make([]float64, len(typed))
	for i, ci := range typed {
		dists[i] = math.Hypot(x0-dets[ci].Lon, y0-dets[ci].Lat)
	}
	return typed[floats.MinIdx(dists)], true
}
