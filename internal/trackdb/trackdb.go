// Package trackdb persists finished tracking runs to sqlite so results
// can be queried and compared across experiments without re-reading the
// snapshot files.
package trackdb

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"
	_ "modernc.org/sqlite"

	"github.com/submeso-data/eddytrack/internal/config"
	"github.com/submeso-data/eddytrack/internal/tracker"
)

// DB wraps the sqlite handle holding tracking results.
type DB struct {
	*sql.DB
}

// Open opens (creating if necessary) the results database at path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS eddy_runs (
			run_id TEXT PRIMARY KEY,
			model TEXT,
			grid TEXT,
			start_time TEXT,
			end_time TEXT,
			step_days INTEGER,
			track_count INTEGER,
			mean_amp DOUBLE,
			mean_area DOUBLE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS eddy_tracks (
			run_id TEXT,
			track_key INTEGER,
			type TEXT,
			exist_at_start BOOLEAN,
			terminated BOOLEAN,
			length INTEGER,
			PRIMARY KEY (run_id, track_key),
			FOREIGN KEY (run_id) REFERENCES eddy_runs(run_id)
		);
		CREATE TABLE IF NOT EXISTS eddy_track_obs (
			run_id TEXT,
			track_key INTEGER,
			step INTEGER,
			time TEXT,
			lon DOUBLE,
			lat DOUBLE,
			amp DOUBLE,
			area DOUBLE,
			scale DOUBLE,
			PRIMARY KEY (run_id, track_key, step)
		);
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &DB{db}, nil
}

// RunSummary is one row of the eddy_runs table.
type RunSummary struct {
	RunID      string
	Model      string
	Grid       string
	StartTime  string
	EndTime    string
	StepDays   int
	TrackCount int
	MeanAmp    float64
	MeanArea   float64
	CreatedAt  time.Time
}

// Observation is one recorded step of a stored track.
type Observation struct {
	Step  int
	Time  string
	Lon   float64
	Lat   float64
	Amp   float64
	Area  float64
	Scale float64
}

// SaveRun stores a filtered tracking result under a fresh run ID and
// returns the ID. Tracks are written in ascending key order.
func (db *DB) SaveRun(p *config.TrackParams, tracks map[int]*tracker.Track) (string, error) {
	runID := uuid.NewString()

	var amps, areas []float64
	for _, tr := range tracks {
		amps = append(amps, tr.Amp...)
		areas = append(areas, tr.Area...)
	}
	var meanAmp, meanArea float64
	if len(amps) > 0 {
		meanAmp = stat.Mean(amps, nil)
		meanArea = stat.Mean(areas, nil)
	}

	tx, err := db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO eddy_runs (run_id, model, grid, start_time, end_time, step_days, track_count, mean_amp, mean_area)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, p.Model, p.Grid, p.StartTime, p.EndTime, p.GetStepDays(), len(tracks), meanAmp, meanArea,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	keys := make([]int, 0, len(tracks))
	for k := range tracks {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	for _, k := range keys {
		tr := tracks[k]
		_, err = tx.Exec(`
			INSERT INTO eddy_tracks (run_id, track_key, type, exist_at_start, terminated, length)
			VALUES (?, ?, ?, ?, ?, ?)`,
			runID, k, string(tr.Type), tr.ExistAtStart, tr.Terminated, tr.Length(),
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert track %d: %w", k, err)
		}

		for s := 0; s < tr.Length(); s++ {
			_, err = tx.Exec(`
				INSERT INTO eddy_track_obs (run_id, track_key, step, time, lon, lat, amp, area, scale)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				runID, k, s, tr.Time[s], tr.Lon[s], tr.Lat[s], tr.Amp[s], tr.Area[s], tr.Scale[s],
			)
			if err != nil {
				return "", fmt.Errorf("failed to insert observation %d/%d: %w", k, s, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

// Runs lists stored runs, newest first.
func (db *DB) Runs() ([]RunSummary, error) {
	rows, err := db.Query(`
		SELECT run_id, model, grid, start_time, end_time, step_days, track_count, mean_amp, mean_area, created_at
		FROM eddy_runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.RunID, &r.Model, &r.Grid, &r.StartTime, &r.EndTime,
			&r.StepDays, &r.TrackCount, &r.MeanAmp, &r.MeanArea, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Observations returns the stored steps of one track in step order.
func (db *DB) Observations(runID string, trackKey int) ([]Observation, error) {
	rows, err := db.Query(`
		SELECT step, time, lon, lat, amp, area, scale
		FROM eddy_track_obs WHERE run_id = ? AND track_key = ? ORDER BY step`,
		runID, trackKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Observation
	for rows.Next() {
		var o Observation
		if err := rows.Scan(&o.Step, &o.Time, &o.Lon, &o.Lat, &o.Amp, &o.Area, &o.Scale); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
