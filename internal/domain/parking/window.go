package parking

import (
	"strings"
	"time"
)

// TimeWindow is the half-open interval [Start, End).
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

func NewTimeWindow(start, end time.Time) (TimeWindow, error) {
	if !end.After(start) {
		return TimeWindow{}, ErrInvalidWindow
	}
	return TimeWindow{Start: start.UTC(), End: end.UTC()}, nil
}

func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.Start.Before(other.End) && other.Start.Before(w.End)
}

func (w TimeWindow) Covers(at time.Time) bool {
	return !at.Before(w.Start) && at.Before(w.End)
}

func (w TimeWindow) Equal(other TimeWindow) bool {
	return w.Start.Equal(other.Start) && w.End.Equal(other.End)
}

func (w TimeWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Span is a booking length expressed in calendar units.
type Span struct {
	Hours  int
	Days   int
	Months int
}

// MaxEnd is the latest end a reservation may have. Later instants do not
// survive JSON encoding or a postgres tstzrange.
var MaxEnd = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

const (
	maxSpanMonths = 12 * 10000
	maxSpanDays   = 366 * 10000
)

// EndFrom adds months, then days, then hours. A month step that overflows
// the target month lands on its last day. Ends after MaxEnd are rejected.
func (s Span) EndFrom(start time.Time) (time.Time, error) {
	if s.Hours < 0 || s.Days < 0 || s.Months < 0 {
		return time.Time{}, ErrInvalidWindow
	}
	if s.Months > maxSpanMonths || s.Days > maxSpanDays || start.After(MaxEnd) {
		return time.Time{}, ErrInvalidWindow
	}

	end := addMonthsClamped(start, s.Months)
	end = end.AddDate(0, 0, s.Days)
	if end.After(MaxEnd) {
		return time.Time{}, ErrInvalidWindow
	}

	// Sub saturates at the largest Duration, so the quotient bounds Hours
	// before the multiplication can overflow.
	if s.Hours > int(MaxEnd.Sub(end)/time.Hour) {
		return time.Time{}, ErrInvalidWindow
	}
	end = end.Add(time.Duration(s.Hours) * time.Hour)

	if !end.After(start) {
		return time.Time{}, ErrInvalidWindow
	}
	return end, nil
}

func (s Span) Window(start time.Time) (TimeWindow, error) {
	end, err := s.EndFrom(start)
	if err != nil {
		return TimeWindow{}, err
	}
	return NewTimeWindow(start, end)
}

func addMonthsClamped(t time.Time, months int) time.Time {
	if months == 0 {
		return t
	}

	y, m, d := t.Date()
	hh, mm, ss := t.Clock()
	firstOfTarget := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	ty, tm, _ := firstOfTarget.Date()
	lastDay := daysIn(tm, ty)
	if d > lastDay {
		d = lastDay
	}
	return time.Date(ty, tm, d, hh, mm, ss, t.Nanosecond(), t.Location())
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseTimestamp accepts RFC 3339 and zone-less ISO forms. Zone-less input is read as UTC.
func ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrInvalidWindow
	}

	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &BookingError{msg: "invalid timestamp: " + raw}
}
