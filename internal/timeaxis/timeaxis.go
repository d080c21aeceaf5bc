// Package timeaxis builds the ordered sequence of snapshot timestamps
// for a tracking run. Ocean model output does not follow the proleptic
// Gregorian calendar: the supported calendars are a no-leap 365-day year
// and a fixed 360-day year, so the arithmetic is done on explicit
// month-length tables rather than time.Time.
package timeaxis

import (
	"fmt"

	"github.com/submeso-data/eddytrack/internal/config"
)

var (
	monthDaysNoLeap = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	monthDays360    = [12]int{30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30}
)

type date struct {
	year, month, day int
}

func (d date) before(o date) bool {
	if d.year != o.year {
		return d.year < o.year
	}
	if d.month != o.month {
		return d.month < o.month
	}
	return d.day < o.day
}

// Build returns the timestamp sequence from start to end (both
// "YYYY-MM-DD", inclusive subject to step divisibility) at stepDays
// spacing, formatted "YYYY-MM-DD HH:00:00" with the model's hour
// convention.
//
// For the standard calendar the sequence is generated in a no-leap year
// first. ORCA 5-daily output collapses the leap day so that in leap
// years every date matches the non-leap sequence except Feb 27, which
// the model writes as Feb 28; those entries are rewritten accordingly.
func Build(p *config.TrackParams) ([]string, error) {
	stepDays := p.GetStepDays()

	var months [12]int
	switch p.Calendar {
	case config.CalendarStandard:
		months = monthDaysNoLeap
	case config.Calendar360Day:
		months = monthDays360
	default:
		return nil, fmt.Errorf("unsupported calendar %q", p.Calendar)
	}

	start, err := parseDate(p.StartTime, months)
	if err != nil {
		return nil, fmt.Errorf("invalid start_time: %w", err)
	}
	end, err := parseDate(p.EndTime, months)
	if err != nil {
		return nil, fmt.Errorf("invalid end_time: %w", err)
	}
	if end.before(start) {
		return nil, fmt.Errorf("end_time %s precedes start_time %s", p.EndTime, p.StartTime)
	}

	hour := p.SnapshotHour()

	var axis []string
	for d := start; !end.before(d); d = addDays(d, stepDays, months) {
		if p.Model == config.ModelORCA && d.month == 2 && d.day == 27 && isLeapYear(d.year) {
			axis = append(axis, fmt.Sprintf("%04d-02-28 00:00:00", d.year))
			continue
		}
		axis = append(axis, fmt.Sprintf("%04d-%02d-%02d %s:00:00", d.year, d.month, d.day, hour))
	}
	return axis, nil
}

// DateOf strips a timestamp down to its YYYY-MM-DD prefix, the form used
// to key snapshot files.
func DateOf(timestamp string) string {
	if len(timestamp) < 10 {
		return timestamp
	}
	return timestamp[:10]
}

// isLeapYear reports whether a year is a leap year in the real-world
// calendar the model output is labelled with.
func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func parseDate(s string, months [12]int) (date, error) {
	var d date
	if _, err := fmt.Sscanf(s, "%d-%d-%d", &d.year, &d.month, &d.day); err != nil {
		return date{}, fmt.Errorf("expected YYYY-MM-DD, got %q", s)
	}
	if d.month < 1 || d.month > 12 {
		return date{}, fmt.Errorf("month out of range in %q", s)
	}
	if d.day < 1 || d.day > months[d.month-1] {
		return date{}, fmt.Errorf("day out of range for calendar in %q", s)
	}
	return d, nil
}

func addDays(d date, n int, months [12]int) date {
	d.day += n
	for d.day > months[d.month-1] {
		d.day -= months[d.month-1]
		d.month++
		if d.month > 12 {
			d.month = 1
			d.year++
		}
	}
	return d
}
