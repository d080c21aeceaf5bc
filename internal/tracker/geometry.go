package tracker

import (
	"math"

	"github.com/submeso-data/eddytrack/internal/rossby"
)

// Grid selects the unit system of detection positions.
type Grid string

const (
	GridLatLon    Grid = "latlon"    // degrees
	GridCartesian Grid = "cartesian" // metres
)

// tropicsLatLimit bounds the band in which eddy propagation is governed
// by the local Rossby wave speed rather than a symmetric search region.
const tropicsLatLimit = 18.0

// rossbyExtentFactor is the empirical scaling applied to the distance a
// first-mode Rossby wave covers in one timestep.
const rossbyExtentFactor = 1.75

// SearchEllipse is the region around a track's last position within
// which a continuation candidate must lie. Computed per (track, step)
// pair and never persisted. X1, Y1 are the ellipse centre, A and B the
// semi-major and semi-minor axes, all in the grid's units.
type SearchEllipse struct {
	X1 float64
	Y1 float64
	A  float64
	B  float64
}

// westwardExtentKm returns the westward reach of the search region in
// km. Equatorward of the tropics limit it is the distance the local
// Rossby wave travels in one timestep; elsewhere eddies are assumed to
// propagate roughly symmetrically and the eastern extent is reused.
// A NaN wave speed (query outside the table's wet domain) also falls
// back to the eastern extent, so edge-of-table tracks keep a usable
// search region instead of a degenerate one.
func westwardExtentKm(eastKm, lon, lat float64, tbl *rossby.Table, dtDays int) float64 {
	if math.Abs(lat) >= tropicsLatLimit || tbl == nil {
		return eastKm
	}
	c := tbl.WaveSpeedAt(lon, lat) // [m/s]
	if math.IsNaN(c) {
		return eastKm
	}
	// m/s -> km/day, over dt days.
	return math.Abs(rossbyExtentFactor * c * 86400 / 1000 * float64(dtDays))
}

// lonDegreeLengthKm returns the length of one degree of longitude in km
// at the given latitude.
func lonDegreeLengthKm(lat float64) float64 {
	const earthRadiusKm = 6371.0
	return (math.Pi / 180) * earthRadiusKm * math.Cos(lat*math.Pi/180)
}

// buildEllipse assembles the search ellipse around (x0, y0) from the
// eastern and western extents, already converted to grid units. The
// western extent is floored at the eastern one, and the centre shifts
// west by half the difference to capture the westward drift tendency:
//
//	b  = dE
//	a  = (dE + dW) / 2
//	x1 = x0 + (dE - dW) / 2
func buildEllipse(x0, y0, dE, dW float64) SearchEllipse {
	if dW < dE {
		dW = dE
	}
	return SearchEllipse{
		X1: x0 + 0.5*(dE-dW),
		Y1: y0,
		A:  0.5 * (dE + dW),
		B:  dE,
	}
}

// Contains reports whether (x, y) lies within the ellipse, boundary
// inclusive.
func (e SearchEllipse) Contains(x, y float64) bool {
	dx := x - e.X1
	dy := y - e.Y1
	return dx*dx/(e.A*e.A)+dy*dy/(e.B*e.B) <= 1
}

// searchEllipseAt computes the search ellipse for a track's last
// position, converting the km extents into the grid's units: degrees of
// longitude at the track's latitude for latlon grids, metres for
// cartesian grids. Cartesian grids have no Rossby-derived asymmetry.
func searchEllipseAt(x0, y0, eastKm float64, grid Grid, tbl *rossby.Table, dtDays int) SearchEllipse {
	if grid == GridCartesian {
		dE := eastKm * 1e3
		return buildEllipse(x0, y0, dE, dE)
	}

	westKm := westwardExtentKm(eastKm, x0, y0, tbl, dtDays)
	lenLon := lonDegreeLengthKm(y0)
	return buildEllipse(x0, y0, eastKm/lenLon, westKm/lenLon)
}
