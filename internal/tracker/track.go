// Package tracker links per-timestep eddy detections into trajectories.
// It owns the search-region geometry, the three-stage candidate filter,
// the per-step assignment engine and the run drivers.
package tracker

import "github.com/submeso-data/eddytrack/internal/eddy"

// Track is one eddy's trajectory, built up one entry per matched
// timestep. The per-step slices always have equal length. Type is fixed
// at creation; Terminated is monotonic — once set, the track is never
// extended again, but it stays in the engine's track list so indices
// remain stable for the terminated set and for resumed runs.
type Track struct {
	Lon   []float64 `json:"lon"`
	Lat   []float64 `json:"lat"`
	Amp   []float64 `json:"amp"`
	Area  []float64 `json:"area"`
	Scale []float64 `json:"scale"`
	Time  []string  `json:"time"`

	// Footprint index sets per step. Footprints vary in size from step
	// to step, hence a step-keyed map rather than parallel slices.
	EddyI map[int][]int `json:"eddy_i"`
	EddyJ map[int][]int `json:"eddy_j"`

	Type eddy.Polarity `json:"type"`

	ExistAtStart bool `json:"exist_at_start"`
	Terminated   bool `json:"terminated"`
}

// newTrack starts a trajectory from a single detection.
func newTrack(d eddy.Detection, atStart bool) *Track {
	t := &Track{
		Type:         d.Type,
		ExistAtStart: atStart,
		EddyI:        make(map[int][]int),
		EddyJ:        make(map[int][]int),
	}
	t.extend(d)
	return t
}

// extend appends one matched detection to the trajectory.
func (t *Track) extend(d eddy.Detection) {
	step := len(t.Lon)
	t.Lon = append(t.Lon, d.Lon)
	t.Lat = append(t.Lat, d.Lat)
	t.Amp = append(t.Amp, d.Amp)
	t.Area = append(t.Area, d.Area)
	t.Scale = append(t.Scale, d.Scale)
	t.Time = append(t.Time, d.Time)
	t.EddyI[step] = d.EddyI
	t.EddyJ[step] = d.EddyJ
}

// Length returns the number of timesteps recorded on the track.
func (t *Track) Length() int {
	return len(t.Lon)
}

// lastPos returns the track's most recent centre position.
func (t *Track) lastPos() (x0, y0 float64) {
	n := len(t.Lon)
	return t.Lon[n-1], t.Lat[n-1]
}
