package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidRange = errors.New("end date must not be before start date")
	ErrInvalidDate  = errors.New("date must be formatted as YYYY-MM-DD")
)

// Date is a calendar day. Campaign boundaries compare by calendar day only,
// never by timestamp arithmetic, so time-of-day and timezone cannot shift a
// promotion window across a boundary.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates t to its calendar day in t's location.
func DateOf(t time.Time) Date {
	year, month, day := t.Date()
	return Date{Year: year, Month: month, Day: day}
}

// ParseDate reads a YYYY-MM-DD value.
func ParseDate(value string) (Date, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return DateOf(t), nil
}

func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Time returns the date at midnight UTC, for storage.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) Before(other Date) bool { return d.compare(other) < 0 }

func (d Date) After(other Date) bool { return d.compare(other) > 0 }

func (d Date) compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return d.Year - other.Year
	case d.Month != other.Month:
		return int(d.Month) - int(other.Month)
	default:
		return d.Day - other.Day
	}
}

// Range is an inclusive calendar-day interval.
type Range struct {
	Start Date
	End   Date
}

func NewRange(start, end Date) (Range, error) {
	r := Range{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

func (r Range) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return ErrInvalidDate
	}
	if r.End.Before(r.Start) {
		return ErrInvalidRange
	}
	return nil
}

// Overlaps reports whether two inclusive ranges share at least one calendar day.
func (r Range) Overlaps(other Range) bool {
	return !r.Start.After(other.End) && !other.Start.After(r.End)
}

// Contains reports whether d falls inside the range, boundaries included.
func (r Range) Contains(d Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// TaggedRange is a promotion's date range together with its owning id and book set.
type TaggedRange struct {
	PromotionID int64
	Range       Range
	BookIDs     []int64
}

// ExcludeConflicting returns the subset of existing ranges that overlap the
// candidate, skipping the range owned by excludeID. Passing the id of the
// promotion being edited lets it be validated against everyone but itself.
func ExcludeConflicting(candidate Range, existing []TaggedRange, excludeID int64) []TaggedRange {
	var conflicting []TaggedRange
	for _, tagged := range existing {
		if excludeID != 0 && tagged.PromotionID == excludeID {
			continue
		}
		if candidate.Overlaps(tagged.Range) {
			conflicting = append(conflicting, tagged)
		}
	}
	return conflicting
}
