package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Model names recognised by the tracker. The model determines the hour
// convention of snapshot timestamps and the leap-year handling of the
// time axis.
const (
	ModelORCA   = "ORCA"
	ModelMITgcm = "MITgcm"
)

// Grid types recognised by the tracker.
const (
	GridLatLon    = "latlon"
	GridCartesian = "cartesian"
)

// Calendar modes recognised by the time axis.
const (
	CalendarStandard = "standard"
	Calendar360Day   = "360_day"
)

// ErrInvalidSearchExtent is returned by Validate when the eastern search
// extent is negative. This is a fatal configuration error: the run must
// not start.
var ErrInvalidSearchExtent = errors.New("eastern search extent must not be negative")

// TrackParams is the configuration surface of a tracking run. The schema
// matches the JSON parameter files used to drive detection and tracking,
// so the same file can configure both. Tunables are pointer-typed;
// fields omitted from the JSON fall back to the Get* defaults.
type TrackParams struct {
	Model     string `json:"model"`      // ORCA or MITgcm
	Grid      string `json:"grid"`       // latlon or cartesian
	StartTime string `json:"start_time"` // YYYY-MM-DD
	EndTime   string `json:"end_time"`   // YYYY-MM-DD
	Calendar  string `json:"calendar"`   // standard or 360_day

	StepDays *int `json:"dt,omitempty"` // days per timestep

	// Detection-region bounds. Degrees on a latlon grid, metres on a
	// cartesian grid. Informational to the tracker itself.
	Lon1 *float64 `json:"lon1,omitempty"`
	Lon2 *float64 `json:"lon2,omitempty"`
	Lat1 *float64 `json:"lat1,omitempty"`
	Lat2 *float64 `json:"lat2,omitempty"`

	// SearchExtentEastKm is the eastern extent of the search ellipse in
	// km. Zero (or omitted) derives it from the step size.
	SearchExtentEastKm *float64 `json:"de,omitempty"`

	// Bounds on the factor by which amplitude and area may change
	// between consecutive steps.
	EddyScaleMin *float64 `json:"eddy_scale_min,omitempty"`
	EddyScaleMax *float64 `json:"eddy_scale_max,omitempty"`

	// Snapshot file naming: data_path + file_root + "_" + date + "_" +
	// file_spec + ".json".
	DataPath string `json:"data_path"`
	FileRoot string `json:"file_root"`
	FileSpec string `json:"file_spec"`

	// RossbyPath is the directory holding rossrad.dat.
	RossbyPath string `json:"ross_path"`
}

// Load reads a TrackParams from a JSON file. Fields omitted from the
// file keep their Get* defaults, so partial configs are safe.
func Load(path string) (*TrackParams, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	p := &TrackParams{}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return p, nil
}

// Validate checks that the configuration values are usable. A negative
// search extent aborts the run (ErrInvalidSearchExtent); everything else
// reports the offending field.
func (p *TrackParams) Validate() error {
	switch p.Model {
	case ModelORCA, ModelMITgcm:
	default:
		return fmt.Errorf("model must be %s or %s, got %q", ModelORCA, ModelMITgcm, p.Model)
	}

	switch p.Grid {
	case GridLatLon, GridCartesian:
	default:
		return fmt.Errorf("grid must be %s or %s, got %q", GridLatLon, GridCartesian, p.Grid)
	}

	switch p.Calendar {
	case CalendarStandard, Calendar360Day:
	default:
		return fmt.Errorf("calendar must be %s or %s, got %q", CalendarStandard, Calendar360Day, p.Calendar)
	}

	if p.StepDays != nil && *p.StepDays <= 0 {
		return fmt.Errorf("dt must be positive, got %d", *p.StepDays)
	}

	if p.SearchExtentEastKm != nil && *p.SearchExtentEastKm < 0 {
		return fmt.Errorf("%w: got %f", ErrInvalidSearchExtent, *p.SearchExtentEastKm)
	}

	if p.EddyScaleMin != nil && p.EddyScaleMax != nil && *p.EddyScaleMin >= *p.EddyScaleMax {
		return fmt.Errorf("eddy_scale_min (%f) must be below eddy_scale_max (%f)",
			*p.EddyScaleMin, *p.EddyScaleMax)
	}

	return nil
}

// GetStepDays returns the dt value or the default.
func (p *TrackParams) GetStepDays() int {
	if p.StepDays == nil {
		return 5
	}
	return *p.StepDays
}

// GetEddyScaleMin returns the eddy_scale_min value or the default.
func (p *TrackParams) GetEddyScaleMin() float64 {
	if p.EddyScaleMin == nil {
		return 0.75
	}
	return *p.EddyScaleMin
}

// GetEddyScaleMax returns the eddy_scale_max value or the default.
func (p *TrackParams) GetEddyScaleMax() float64 {
	if p.EddyScaleMax == nil {
		return 1.5
	}
	return *p.EddyScaleMax
}

// GetSearchExtentEastKm returns the eastern search extent in km. A zero
// or omitted value is derived from the step size as 150/(7/dt), the
// distance a typical eddy covers per step at weekly cadence.
func (p *TrackParams) GetSearchExtentEastKm() float64 {
	if p.SearchExtentEastKm == nil || *p.SearchExtentEastKm == 0 {
		return 150.0 / (7.0 / float64(p.GetStepDays()))
	}
	return *p.SearchExtentEastKm
}

// SnapshotHour returns the hour-of-day string used in snapshot
// timestamps for the configured model. ORCA output is stamped at noon,
// MITgcm at midnight.
func (p *TrackParams) SnapshotHour() string {
	if p.Model == ModelORCA {
		return "12"
	}
	return "00"
}
