package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, value string) Date {
	t.Helper()
	d, err := ParseDate(value)
	require.NoError(t, err)
	return d
}

func mustRange(t *testing.T, start, end string) Range {
	t.Helper()
	r, err := NewRange(mustDate(t, start), mustDate(t, end))
	require.NoError(t, err)
	return r
}

func TestRangeOverlaps(t *testing.T) {
	cases := []struct {
		name     string
		a, b     Range
		overlaps bool
	}{
		{"disjoint before", mustRange(t, "2025-01-01", "2025-01-10"), mustRange(t, "2025-01-11", "2025-01-20"), false},
		{"touching boundary day", mustRange(t, "2025-01-01", "2025-01-10"), mustRange(t, "2025-01-10", "2025-01-20"), true},
		{"partial overlap", mustRange(t, "2025-01-01", "2025-01-31"), mustRange(t, "2025-01-15", "2025-02-01"), true},
		{"contained", mustRange(t, "2025-01-01", "2025-12-31"), mustRange(t, "2025-06-01", "2025-06-30"), true},
		{"identical", mustRange(t, "2025-03-01", "2025-03-31"), mustRange(t, "2025-03-01", "2025-03-31"), true},
		{"single day ranges equal", mustRange(t, "2025-05-05", "2025-05-05"), mustRange(t, "2025-05-05", "2025-05-05"), true},
		{"single day ranges adjacent", mustRange(t, "2025-05-05", "2025-05-05"), mustRange(t, "2025-05-06", "2025-05-06"), false},
		{"across year boundary", mustRange(t, "2024-12-20", "2025-01-05"), mustRange(t, "2025-01-01", "2025-01-31"), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.overlaps, tc.a.Overlaps(tc.b))
			require.Equal(t, tc.overlaps, tc.b.Overlaps(tc.a))
		})
	}
}

func TestNewRange_RejectsReversedBounds(t *testing.T) {
	_, err := NewRange(mustDate(t, "2025-02-01"), mustDate(t, "2025-01-01"))
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-01-31")
	require.NoError(t, err)
	require.Equal(t, "2025-01-31", d.String())

	_, err = ParseDate("31/01/2025")
	require.ErrorIs(t, err, ErrInvalidDate)
}

func TestRangeContains(t *testing.T) {
	r := mustRange(t, "2025-01-10", "2025-01-20")
	require.True(t, r.Contains(mustDate(t, "2025-01-10")))
	require.True(t, r.Contains(mustDate(t, "2025-01-20")))
	require.False(t, r.Contains(mustDate(t, "2025-01-09")))
	require.False(t, r.Contains(mustDate(t, "2025-01-21")))
}

func TestExcludeConflicting(t *testing.T) {
	existing := []TaggedRange{
		{PromotionID: 1, Range: mustRange(t, "2025-01-01", "2025-01-31"), BookIDs: []int64{1, 2}},
		{PromotionID: 2, Range: mustRange(t, "2025-02-01", "2025-02-28"), BookIDs: []int64{3}},
		{PromotionID: 3, Range: mustRange(t, "2025-01-20", "2025-02-10"), BookIDs: []int64{4}},
	}
	candidate := mustRange(t, "2025-01-15", "2025-01-25")

	conflicting := ExcludeConflicting(candidate, existing, 0)
	require.Len(t, conflicting, 2)
	require.Equal(t, int64(1), conflicting[0].PromotionID)
	require.Equal(t, int64(3), conflicting[1].PromotionID)

	// Editing promotion 1 against itself skips its own range.
	conflicting = ExcludeConflicting(candidate, existing, 1)
	require.Len(t, conflicting, 1)
	require.Equal(t, int64(3), conflicting[0].PromotionID)
}
