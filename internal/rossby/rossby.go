// Package rossby loads the Chelton et al. (1998) global table of first
// baroclinic wave speed and Rossby radius of deformation, and answers
// wave-speed queries at arbitrary positions. The tracker uses the wave
// speed to size the westward extent of its search region in the tropics.
package rossby

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
)

const (
	// earthRadius is the radius of the Earth in metres.
	earthRadius = 6371.0e3
	// earthRotation is the rotation frequency of the Earth in rad/s.
	earthRotation = 2 * math.Pi / (24 * 60 * 60)
)

// Entry is one tabulated point of the reference dataset.
type Entry struct {
	Lat       float64 // degrees north
	Lon       float64 // degrees east, [0, 360)
	C1        float64 // first baroclinic wave speed [m/s]
	RossbyRad float64 // Rossby radius of deformation [km]
	CR        float64 // first baroclinic Rossby wave speed [m/s], derived
}

// Table is the loaded reference dataset. It is read-only after Load; the
// tabulated points sit on a regular latitude/longitude raster with gaps
// over land, and queries interpolate linearly between wet points.
type Table struct {
	Entries []Entry

	lats  []float64 // unique latitudes, ascending
	lons  []float64 // unique longitudes, ascending
	cells []float64 // cR per (lat, lon) cell, NaN where the table has no point
}

// Load reads a whitespace-delimited table with columns lat, lon, c1,
// rossby_rad and derives the first baroclinic Rossby wave speed per row:
//
//	beta = 2*Omega/R * cos(lat)
//	cR   = -beta * (1000 * rossby_rad)^2
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rossby table: %w", err)
	}
	defer f.Close()

	t := &Table{}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 4 {
			return nil, fmt.Errorf("rossby table line %d: expected 4 columns, got %d", lineNo, len(fields))
		}
		vals := make([]float64, 4)
		for i, s := range fields {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("rossby table line %d: %w", lineNo, err)
			}
			vals[i] = v
		}

		lat, lon, c1, rad := vals[0], vals[1], vals[2], vals[3]
		beta := (2 * earthRotation / earthRadius) * math.Cos(lat*math.Pi/180)
		t.Entries = append(t.Entries, Entry{
			Lat:       lat,
			Lon:       normLon(lon),
			C1:        c1,
			RossbyRad: rad,
			CR:        -beta * (1e3 * rad) * (1e3 * rad),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rossby table: %w", err)
	}
	if len(t.Entries) == 0 {
		return nil, fmt.Errorf("rossby table %s is empty", path)
	}

	t.buildRaster()
	return t, nil
}

// WaveSpeedAt returns the first baroclinic Rossby wave speed [m/s] at
// the given position, interpolated linearly between the surrounding
// tabulated points. Longitude is normalised to [0, 360) to match the
// table convention. The result is NaN when the query point lies outside
// the tabulated domain (including over land); callers must treat NaN as
// "no constraint available".
func (t *Table) WaveSpeedAt(lon, lat float64) float64 {
	lon = normLon(lon)

	i, fy, ok := bracket(t.lats, lat)
	if !ok {
		return math.NaN()
	}
	j, fx, ok := bracket(t.lons, lon)
	if !ok {
		return math.NaN()
	}

	v00 := t.cell(i, j)
	v01, v10, v11 := v00, v00, v00
	if fx > 0 {
		v01 = t.cell(i, j+1)
	}
	if fy > 0 {
		v10 = t.cell(i+1, j)
	}
	if fx > 0 && fy > 0 {
		v11 = t.cell(i+1, j+1)
	}

	// A NaN corner (dry cell) propagates through the weighted sum, so
	// near-land queries come back undefined just as out-of-hull ones do.
	return v00*(1-fx)*(1-fy) + v01*fx*(1-fy) + v10*(1-fx)*fy + v11*fx*fy
}

func (t *Table) buildRaster() {
	latSet := map[float64]struct{}{}
	lonSet := map[float64]struct{}{}
	for _, e := range t.Entries {
		latSet[e.Lat] = struct{}{}
		lonSet[e.Lon] = struct{}{}
	}
	t.lats = sortedKeys(latSet)
	t.lons = sortedKeys(lonSet)

	t.cells = make([]float64, len(t.lats)*len(t.lons))
	for i := range t.cells {
		t.cells[i] = math.NaN()
	}
	for _, e := range t.Entries {
		i := sort.SearchFloat64s(t.lats, e.Lat)
		j := sort.SearchFloat64s(t.lons, e.Lon)
		t.cells[i*len(t.lons)+j] = e.CR
	}
}

func (t *Table) cell(i, j int) float64 {
	return t.cells[i*len(t.lons)+j]
}

// bracket locates v on an ascending axis, returning the lower index and
// the fractional distance to the next grid line. ok is false when v is
// outside the axis range.
func bracket(axis []float64, v float64) (int, float64, bool) {
	n := len(axis)
	if n == 0 || v < axis[0] || v > axis[n-1] {
		return 0, 0, false
	}
	j := sort.SearchFloat64s(axis, v)
	if j == 0 {
		return 0, 0, true
	}
	if j < n && axis[j] == v {
		if j == n-1 {
			return j - 1, 1, true
		}
		return j, 0, true
	}
	return j - 1, (v - axis[j-1]) / (axis[j] - axis[j-1]), true
}

func sortedKeys(set map[float64]struct{}) []float64 {
	out := make([]float64, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Float64s(out)
	return out
}

// normLon maps a longitude into [0, 360).
func normLon(lon float64) float64 {
	lon = math.Mod(lon, 360)
	if lon < 0 {
		lon += 360
	}
	return lon
}
