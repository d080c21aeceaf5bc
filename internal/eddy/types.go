// Package eddy defines the detected-eddy record produced by the
// detection stage and the snapshot providers that feed detections to
// the tracker one timestep at a time.
package eddy

// Polarity is the rotation sense of an eddy.
type Polarity string

const (
	Cyclonic     Polarity = "cyclonic"
	Anticyclonic Polarity = "anticyclonic"
)

// Detection is one eddy as detected at a single timestep. Detections
// carry no identity; the tracker links them into trajectories by
// content. Positions are degrees on a latlon grid or metres on a
// cartesian grid.
type Detection struct {
	Lon   float64  `json:"lon"`
	Lat   float64  `json:"lat"`
	Amp   float64  `json:"amp"`
	Area  float64  `json:"area"`
	Scale float64  `json:"scale"` // diameter
	Type  Polarity `json:"type"`
	Time  string   `json:"time"` // snapshot timestamp, "YYYY-MM-DD HH:00:00"

	// Grid index sets defining the eddy's footprint.
	EddyI []int `json:"eddy_i"`
	EddyJ []int `json:"eddy_j"`
}
