package daterange

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func mustRange(t *testing.T, start, end string) Range {
	t.Helper()
	r, err := Normalize(start, end)
	assert.NoError(t, err)
	return r
}

func TestOverlapsSymmetry(t *testing.T) {
	cases := []struct {
		a, b    Range
		overlap bool
	}{
		{mustRange(t, "2024-06-01", "2024-06-05"), mustRange(t, "2024-06-03", "2024-06-07"), true},
		{mustRange(t, "2024-06-01", "2024-06-05"), mustRange(t, "2024-06-05", "2024-06-07"), false},
		{mustRange(t, "2024-06-01", "2024-06-05"), mustRange(t, "2024-06-02", "2024-06-03"), true},
		{mustRange(t, "2024-06-01", "2024-06-02"), mustRange(t, "2024-07-01", "2024-07-02"), false},
		{mustRange(t, "2024-06-01", "2024-06-05"), mustRange(t, "2024-06-01", "2024-06-05"), true},
	}
	for _, c := range cases {
		assert.Equal(t, c.overlap, Overlaps(c.a, c.b), "%s vs %s", c.a, c.b)
		assert.Equal(t, Overlaps(c.a, c.b), Overlaps(c.b, c.a), "symmetry for %s vs %s", c.a, c.b)
	}
}

func TestTouchingRangesDoNotOverlap(t *testing.T) {
	a := mustRange(t, "2024-06-01", "2024-06-05")
	b := mustRange(t, "2024-06-05", "2024-06-09")
	assert.False(t, Overlaps(a, b))
	assert.False(t, Overlaps(b, a))
}

func TestNights(t *testing.T) {
	assert.Equal(t, 4, Nights(mustRange(t, "2024-06-01", "2024-06-05")))
	assert.Equal(t, 1, Nights(mustRange(t, "2024-06-01", "2024-06-02")))
}

func TestNormalizeRejectsInvertedAndEmpty(t *testing.T) {
	var invalid *InvalidRangeError

	_, err := Normalize("2024-06-05", "2024-06-01")
	assert.Error(t, err)
	assert.True(t, errors.As(err, &invalid))

	_, err = Normalize("2024-06-05", "2024-06-05")
	assert.Error(t, err)
	assert.True(t, errors.As(err, &invalid))
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	var invalid *InvalidRangeError

	_, err := Normalize("not-a-date", "2024-06-05")
	assert.True(t, errors.As(err, &invalid))

	_, err = Normalize("2024-06-01", "06/05/2024")
	assert.True(t, errors.As(err, &invalid))
}

func TestDaysExcludesCheckout(t *testing.T) {
	r := mustRange(t, "2024-06-01", "2024-06-04")
	days := Days(r)
	assert.Len(t, days, 3)
	assert.Equal(t, "2024-06-01", days[0].Format("2006-01-02"))
	assert.Equal(t, "2024-06-03", days[2].Format("2006-01-02"))
}

func TestContains(t *testing.T) {
	r := mustRange(t, "2024-06-01", "2024-06-04")
	assert.True(t, Contains(r, time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC)))
	assert.True(t, Contains(r, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)))
	assert.False(t, Contains(r, time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC)))
	assert.False(t, Contains(r, time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)))
}

func TestMonthWindow(t *testing.T) {
	w := Month(2024, time.June)
	assert.Equal(t, "2024-06-01", w.Start.Format("2006-01-02"))
	assert.Equal(t, "2024-07-01", w.End.Format("2006-01-02"))
	assert.Equal(t, 30, Nights(w))
}
