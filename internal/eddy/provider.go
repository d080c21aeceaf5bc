package eddy

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/submeso-data/eddytrack/internal/timeaxis"
)

// ErrUnavailable marks a timestep whose snapshot cannot be supplied.
// The driver absorbs it by force-terminating all active tracks for that
// step; it is never fatal.
var ErrUnavailable = errors.New("eddy snapshot unavailable")

// Provider supplies the detection set for one timestep.
//
// Snapshot returns the detections for the given absolute step index and
// axis timestamp, or an error wrapping ErrUnavailable when the step has
// no usable data. Loading is a single atomic operation: there is no
// separate existence probe that could race with the read.
//
// Align returns the provider-local step index corresponding to the
// given axis timestamp, so a resumed run can continue partway into a
// longer detection sequence.
type Provider interface {
	Snapshot(step int, timestamp string) ([]Detection, error)
	Align(timestamp string) (int, error)
}

// FileStore serves snapshots from per-date JSON files named
// {DataPath}{FileRoot}_{YYYY-MM-DD}_{FileSpec}.json.
type FileStore struct {
	FS       FileSystem
	DataPath string
	FileRoot string
	FileSpec string
}

// NewFileStore returns a FileStore reading from the real filesystem.
func NewFileStore(dataPath, fileRoot, fileSpec string) *FileStore {
	return &FileStore{
		FS:       OSFileSystem{},
		DataPath: dataPath,
		FileRoot: fileRoot,
		FileSpec: fileSpec,
	}
}

// Path returns the snapshot file path for a date string.
func (s *FileStore) Path(date string) string {
	return s.DataPath + s.FileRoot + "_" + date + "_" + s.FileSpec + ".json"
}

// Snapshot loads the detections for the step's date. Files are keyed by
// date alone, so the step index is not consulted.
func (s *FileStore) Snapshot(_ int, timestamp string) ([]Detection, error) {
	path := s.Path(timeaxis.DateOf(timestamp))

	data, err := s.FS.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrUnavailable, path, err)
	}

	var dets []Detection
	if err := json.Unmarshal(data, &dets); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrUnavailable, path, err)
	}
	return dets, nil
}

// Align is the identity for file-backed snapshots: dates key the files
// directly, so every axis starts at step zero.
func (s *FileStore) Align(string) (int, error) {
	return 0, nil
}

// MemStore serves snapshots from an in-memory sequence keyed by step
// index, as produced by an in-process detection run.
type MemStore struct {
	Steps map[int][]Detection
}

// NewMemStore returns a MemStore over the given per-step detections.
func NewMemStore(steps map[int][]Detection) *MemStore {
	return &MemStore{Steps: steps}
}

// Snapshot returns the detections at the given step index. A missing or
// empty step is unavailable.
func (m *MemStore) Snapshot(step int, _ string) ([]Detection, error) {
	dets, ok := m.Steps[step]
	if !ok || len(dets) == 0 {
		return nil, fmt.Errorf("%w: step %d", ErrUnavailable, step)
	}
	return dets, nil
}

// Align scans the steps in ascending order for the first whose leading
// detection is stamped with the given timestamp. When no step matches,
// the sequence is taken to be index-aligned with the axis and step zero
// is returned.
func (m *MemStore) Align(timestamp string) (int, error) {
	steps := make([]int, 0, len(m.Steps))
	for s := range m.Steps {
		steps = append(steps, s)
	}
	sort.Ints(steps)

	for _, s := range steps {
		dets := m.Steps[s]
		if len(dets) > 0 && dets[0].Time == timestamp {
			return s, nil
		}
	}
	return 0, nil
}
