package tracker

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/submeso-data/eddytrack/internal/rossby"
)

// loadTable writes a rossrad-format table and loads it.
func loadTable(t *testing.T, content string) *rossby.Table {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rossrad.dat")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	tbl, err := rossby.Load(path)
	require.NoError(t, err)
	return tbl
}

// tropicalTable covers (9N..11N, 199E..201E) so queries near (200E, 10N)
// resolve to a wet wave speed.
func tropicalTable(t *testing.T) *rossby.Table {
	t.Helper()
	return loadTable(t, `
9.0   199.0  2.5  80.0
9.0   200.0  2.5  80.0
9.0   201.0  2.5  80.0
10.0  199.0  2.5  80.0
10.0  200.0  2.5  80.0
10.0  201.0  2.5  80.0
11.0  199.0  2.5  80.0
11.0  200.0  2.5  80.0
11.0  201.0  2.5  80.0
`)
}

func TestWestwardExtentKm(t *testing.T) {
	t.Parallel()

	t.Run("outside the tropics it equals the eastern extent", func(t *testing.T) {
		t.Parallel()
		tbl := tropicalTable(t)
		assert.Equal(t, 100.0, westwardExtentKm(100, 200, 18, tbl, 5))
		assert.Equal(t, 100.0, westwardExtentKm(100, 200, -35, tbl, 5))
	})

	t.Run("tropical extent follows the Rossby wave", func(t *testing.T) {
		t.Parallel()
		tbl := tropicalTable(t)
		c := tbl.WaveSpeedAt(200, 10)
		require.False(t, math.IsNaN(c))

		want := math.Abs(1.75 * c * 86400 / 1000 * 5)
		assert.InDelta(t, want, westwardExtentKm(100, 200, 10, tbl, 5), 1e-9)
		assert.Positive(t, westwardExtentKm(100, 200, 10, tbl, 5))
	})

	t.Run("NaN wave speed falls back to the eastern extent", func(t *testing.T) {
		t.Parallel()
		tbl := tropicalTable(t)
		// 100E is nowhere near the tabulated domain.
		assert.Equal(t, 100.0, westwardExtentKm(100, 100, 10, tbl, 5))
	})

	t.Run("nil table falls back to the eastern extent", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 100.0, westwardExtentKm(100, 200, 10, nil, 5))
	})
}

func TestLonDegreeLengthKm(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 111.195, lonDegreeLengthKm(0), 0.01)
	assert.InDelta(t, lonDegreeLengthKm(0)*math.Cos(60*math.Pi/180), lonDegreeLengthKm(60), 1e-9)
}

func TestBuildEllipse(t *testing.T) {
	t.Parallel()

	t.Run("symmetric extents give a circle about the origin point", func(t *testing.T) {
		t.Parallel()
		e := buildEllipse(10, 20, 2, 2)
		assert.Equal(t, SearchEllipse{X1: 10, Y1: 20, A: 2, B: 2}, e)
	})

	t.Run("western extent is floored at the eastern one", func(t *testing.T) {
		t.Parallel()
		e := buildEllipse(10, 20, 2, 1)
		assert.Equal(t, SearchEllipse{X1: 10, Y1: 20, A: 2, B: 2}, e)
	})

	t.Run("a wider west shifts the centre west", func(t *testing.T) {
		t.Parallel()
		e := buildEllipse(10, 20, 1, 3)
		assert.Equal(t, SearchEllipse{X1: 9, Y1: 20, A: 2, B: 1}, e)
	})
}

func TestEllipseContains(t *testing.T) {
	t.Parallel()

	e := buildEllipse(10, 20, 1, 3)

	t.Run("centre is inside", func(t *testing.T) {
		t.Parallel()
		assert.True(t, e.Contains(e.X1, e.Y1))
	})

	t.Run("major-axis endpoint is on the boundary", func(t *testing.T) {
		t.Parallel()
		assert.True(t, e.Contains(e.X1+e.A, e.Y1))
		assert.True(t, e.Contains(e.X1-e.A, e.Y1))
	})

	t.Run("minor-axis endpoint is on the boundary", func(t *testing.T) {
		t.Parallel()
		assert.True(t, e.Contains(e.X1, e.Y1+e.B))
	})

	t.Run("just beyond the boundary is outside", func(t *testing.T) {
		t.Parallel()
		assert.False(t, e.Contains(e.X1+e.A+1e-9, e.Y1))
		assert.False(t, e.Contains(e.X1, e.Y1+e.B+1e-9))
	})
}

func TestSearchEllipseAt(t *testing.T) {
	t.Parallel()

	t.Run("cartesian grids use metres and stay symmetric", func(t *testing.T) {
		t.Parallel()
		e := searchEllipseAt(5000, 5000, 10, GridCartesian, nil, 5)
		assert.Equal(t, SearchEllipse{X1: 5000, Y1: 5000, A: 10000, B: 10000}, e)
	})

	t.Run("latlon grids scale km to degrees at the track latitude", func(t *testing.T) {
		t.Parallel()
		// Extra-tropical and no table: west == east, so the ellipse is a
		// circle of dE converted to degrees of longitude.
		e := searchEllipseAt(150, 45, 100, GridLatLon, nil, 5)
		wantDeg := 100 / lonDegreeLengthKm(45)
		assert.InDelta(t, wantDeg, e.A, 1e-12)
		assert.InDelta(t, wantDeg, e.B, 1e-12)
		assert.Equal(t, 150.0, e.X1)
		assert.Equal(t, 45.0, e.Y1)
	})

	t.Run("tropical latlon ellipse widens and shifts west", func(t *testing.T) {
		t.Parallel()
		tbl := tropicalTable(t)
		westKm := westwardExtentKm(10, 200, 10, tbl, 5)
		require.Greater(t, westKm, 10.0)

		e := searchEllipseAt(200, 10, 10, GridLatLon, tbl, 5)
		assert.Less(t, e.X1, 200.0)
		assert.Greater(t, e.A, e.B)
	})
}
