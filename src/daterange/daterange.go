package daterange

import (
	"fmt"
	"time"

	"rvpark/src/config"
)

// Range is a half-open interval of calendar days: Start is occupied,
// End is checkout day and is not. Both are UTC midnight.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type InvalidRangeError struct {
	Reason string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid date range: %s", e.Reason)
}

// Overlaps reports whether two half-open ranges share at least one night.
// Ranges that only touch (a.End == b.Start) do not overlap, which allows
// same-day turnover of a site.
func Overlaps(a, b Range) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// Nights returns the number of nights covered by r.
func Nights(r Range) int {
	return int(r.End.Sub(r.Start).Hours() / 24)
}

// Contains reports whether day falls on an occupied night of r.
func Contains(r Range, day time.Time) bool {
	d := Day(day)
	return !d.Before(r.Start) && d.Before(r.End)
}

// Day truncates t to UTC midnight.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// New builds a Range from two timestamps, truncating each to its calendar
// day. Fails when the result would be empty or inverted.
func New(start, end time.Time) (Range, error) {
	r := Range{Start: Day(start), End: Day(end)}
	if !r.Start.Before(r.End) {
		return Range{}, &InvalidRangeError{Reason: "check-out must be after check-in"}
	}
	return r, nil
}

// Normalize parses two YYYY-MM-DD strings into a Range.
func Normalize(startStr, endStr string) (Range, error) {
	start, err := time.Parse(config.DATE_PARSE_FORMAT, startStr)
	if err != nil {
		return Range{}, &InvalidRangeError{Reason: fmt.Sprintf("could not parse check-in date %q", startStr)}
	}
	end, err := time.Parse(config.DATE_PARSE_FORMAT, endStr)
	if err != nil {
		return Range{}, &InvalidRangeError{Reason: fmt.Sprintf("could not parse check-out date %q", endStr)}
	}
	return New(start, end)
}

// Days lists every occupied day of r, start inclusive, end exclusive.
func Days(r Range) []time.Time {
	days := make([]time.Time, 0, Nights(r))
	for d := r.Start; d.Before(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Month returns the range covering the whole of the given month, usable as
// a window for calendar queries.
func Month(year int, month time.Month) Range {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Range{Start: start, End: start.AddDate(0, 1, 0)}
}

func (r Range) String() string {
	return fmt.Sprintf("%s..%s", r.Start.Format(config.DATE_PARSE_FORMAT), r.End.Format(config.DATE_PARSE_FORMAT))
}
