package trackdb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/submeso-data/eddytrack/internal/config"
	"github.com/submeso-data/eddytrack/internal/eddy"
	"github.com/submeso-data/eddytrack/internal/tracker"
)

func testTrack(typ eddy.Polarity, lons []float64) *tracker.Track {
	tr := &tracker.Track{Type: typ, ExistAtStart: true, EddyI: map[int][]int{}, EddyJ: map[int][]int{}}
	for i, lon := range lons {
		tr.Lon = append(tr.Lon, lon)
		tr.Lat = append(tr.Lat, 10)
		tr.Amp = append(tr.Amp, 5)
		tr.Area = append(tr.Area, 100)
		tr.Scale = append(tr.Scale, 50)
		tr.Time = append(tr.Time, "1990-01-01 00:00:00")
		tr.EddyI[i] = []int{1}
		tr.EddyJ[i] = []int{1}
	}
	return tr
}

func TestSaveRun(t *testing.T) {
	t.Parallel()

	db, err := Open(filepath.Join(t.TempDir(), "tracks.db"))
	require.NoError(t, err)
	defer db.Close()

	dt := 5
	p := &config.TrackParams{
		Model:     config.ModelORCA,
		Grid:      config.GridLatLon,
		StartTime: "1990-01-01",
		EndTime:   "1990-01-21",
		Calendar:  config.CalendarStandard,
		StepDays:  &dt,
	}

	tracks := map[int]*tracker.Track{
		0: testTrack(eddy.Cyclonic, []float64{10, 10.05, 10.1}),
		1: testTrack(eddy.Anticyclonic, []float64{12, 12.05}),
	}

	runID, err := db.SaveRun(p, tracks)
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	runs, err := db.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].RunID)
	assert.Equal(t, config.ModelORCA, runs[0].Model)
	assert.Equal(t, 2, runs[0].TrackCount)
	assert.InDelta(t, 5.0, runs[0].MeanAmp, 1e-9)
	assert.InDelta(t, 100.0, runs[0].MeanArea, 1e-9)

	obs, err := db.Observations(runID, 0)
	require.NoError(t, err)
	require.Len(t, obs, 3)
	assert.Equal(t, 10.05, obs[1].Lon)
	assert.Equal(t, "1990-01-01 00:00:00", obs[1].Time)

	obs, err = db.Observations(runID, 1)
	require.NoError(t, err)
	assert.Len(t, obs, 2)
}

func TestSaveRunEmpty(t *testing.T) {
	t.Parallel()

	db, err := Open(filepath.Join(t.TempDir(), "tracks.db"))
	require.NoError(t, err)
	defer db.Close()

	p := &config.TrackParams{
		Model:     config.ModelMITgcm,
		Grid:      config.GridCartesian,
		StartTime: "1990-01-01",
		EndTime:   "1990-01-21",
		Calendar:  config.CalendarStandard,
	}

	runID, err := db.SaveRun(p, map[int]*tracker.Track{})
	require.NoError(t, err)

	runs, err := db.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].RunID)
	assert.Equal(t, 0, runs[0].TrackCount)
}
