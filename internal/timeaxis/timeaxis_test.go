package timeaxis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/submeso-data/eddytrack/internal/config"
)

func params(model, calendar, start, end string, dt int) *config.TrackParams {
	return &config.TrackParams{
		Model:     model,
		Grid:      config.GridLatLon,
		StartTime: start,
		EndTime:   end,
		Calendar:  calendar,
		StepDays:  &dt,
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	t.Run("standard calendar, MITgcm hours", func(t *testing.T) {
		t.Parallel()
		axis, err := Build(params(config.ModelMITgcm, config.CalendarStandard, "1990-01-01", "1990-01-21", 5))
		require.NoError(t, err)
		assert.Equal(t, []string{
			"1990-01-01 00:00:00",
			"1990-01-06 00:00:00",
			"1990-01-11 00:00:00",
			"1990-01-16 00:00:00",
			"1990-01-21 00:00:00",
		}, axis)
	})

	t.Run("ORCA stamps noon", func(t *testing.T) {
		t.Parallel()
		axis, err := Build(params(config.ModelORCA, config.CalendarStandard, "1990-01-01", "1990-01-06", 5))
		require.NoError(t, err)
		assert.Equal(t, []string{"1990-01-01 12:00:00", "1990-01-06 12:00:00"}, axis)
	})

	t.Run("no-leap February rollover", func(t *testing.T) {
		t.Parallel()
		axis, err := Build(params(config.ModelMITgcm, config.CalendarStandard, "1993-02-24", "1993-03-06", 5))
		require.NoError(t, err)
		assert.Equal(t, []string{
			"1993-02-24 00:00:00",
			"1993-03-01 00:00:00",
			"1993-03-06 00:00:00",
		}, axis)
	})

	t.Run("ORCA rewrites Feb 27 in leap years", func(t *testing.T) {
		t.Parallel()
		axis, err := Build(params(config.ModelORCA, config.CalendarStandard, "1992-02-22", "1992-03-04", 5))
		require.NoError(t, err)
		assert.Equal(t, []string{
			"1992-02-22 12:00:00",
			"1992-02-28 00:00:00",
			"1992-03-04 12:00:00",
		}, axis)
	})

	t.Run("ORCA keeps Feb 27 in common years", func(t *testing.T) {
		t.Parallel()
		axis, err := Build(params(config.ModelORCA, config.CalendarStandard, "1993-02-27", "1993-02-27", 5))
		require.NoError(t, err)
		assert.Equal(t, []string{"1993-02-27 12:00:00"}, axis)
	})

	t.Run("MITgcm never rewrites", func(t *testing.T) {
		t.Parallel()
		axis, err := Build(params(config.ModelMITgcm, config.CalendarStandard, "1992-02-27", "1992-02-27", 5))
		require.NoError(t, err)
		assert.Equal(t, []string{"1992-02-27 00:00:00"}, axis)
	})

	t.Run("360-day months", func(t *testing.T) {
		t.Parallel()
		axis, err := Build(params(config.ModelMITgcm, config.Calendar360Day, "1990-02-26", "1990-03-06", 5))
		require.NoError(t, err)
		assert.Equal(t, []string{
			"1990-02-26 00:00:00",
			"1990-03-01 00:00:00",
			"1990-03-06 00:00:00",
		}, axis)
	})

	t.Run("year rollover", func(t *testing.T) {
		t.Parallel()
		axis, err := Build(params(config.ModelMITgcm, config.CalendarStandard, "1990-12-30", "1991-01-04", 5))
		require.NoError(t, err)
		assert.Equal(t, []string{
			"1990-12-30 00:00:00",
			"1991-01-04 00:00:00",
		}, axis)
	})

	t.Run("end not on step boundary is dropped", func(t *testing.T) {
		t.Parallel()
		axis, err := Build(params(config.ModelMITgcm, config.CalendarStandard, "1990-01-01", "1990-01-09", 5))
		require.NoError(t, err)
		assert.Equal(t, []string{"1990-01-01 00:00:00", "1990-01-06 00:00:00"}, axis)
	})

	t.Run("end before start", func(t *testing.T) {
		t.Parallel()
		_, err := Build(params(config.ModelMITgcm, config.CalendarStandard, "1990-02-01", "1990-01-01", 5))
		assert.Error(t, err)
	})

	t.Run("Feb 29 does not exist in the no-leap calendar", func(t *testing.T) {
		t.Parallel()
		_, err := Build(params(config.ModelMITgcm, config.CalendarStandard, "1992-02-29", "1992-03-04", 5))
		assert.Error(t, err)
	})

	t.Run("malformed date", func(t *testing.T) {
		t.Parallel()
		_, err := Build(params(config.ModelMITgcm, config.CalendarStandard, "nineteen-ninety", "1990-01-01", 5))
		assert.Error(t, err)
	})
}

func TestDateOf(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "1990-01-06", DateOf("1990-01-06 12:00:00"))
	assert.Equal(t, "1990", DateOf("1990"))
}
