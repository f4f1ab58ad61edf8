package timeline

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date wire format used across cadence.
const DateLayout = "2006-01-02"

// Range is a span of time. Whether End is inclusive depends on the producer:
// week and month ranges end on the last nanosecond of their final day, day
// ranges are half-open.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t lies within [Start, End].
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Overlaps reports whether the open intervals (r.Start, r.End) and
// (start, end) intersect. Touching endpoints do not overlap.
func (r Range) Overlaps(start, end time.Time) bool {
	return r.Start.Before(end) && start.Before(r.End)
}

// StartOfDay returns midnight of the day containing t, in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last nanosecond of the day containing t.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// DayRange returns the half-open span [00:00, next 00:00) of the day
// containing t. DST days are 23 or 25 hours long.
func DayRange(t time.Time) Range {
	start := StartOfDay(t)
	return Range{Start: start, End: start.AddDate(0, 0, 1)}
}

// WeekRange returns the calendar week containing date, from the first
// instant of weekStartsOn through the last instant of the seventh day.
func WeekRange(date time.Time, weekStartsOn time.Weekday) Range {
	start := startOfWeek(date, weekStartsOn)
	return Range{Start: start, End: EndOfDay(start.AddDate(0, 0, 6))}
}

// MonthRange returns the calendar month containing date.
func MonthRange(date time.Time) Range {
	y, m, _ := date.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, date.Location())
	return Range{Start: start, End: EndOfDay(start.AddDate(0, 1, -1))}
}

// WeekDays returns the seven days of the week containing date, each at midnight.
func WeekDays(date time.Time, weekStartsOn time.Weekday) []time.Time {
	start := startOfWeek(date, weekStartsOn)
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// MonthGridDays returns the days of a month view: the month's days, padded
// backwards with the previous month's trailing days to the first day of the
// week and forwards to complete the final week. The result length is always
// a multiple of 7.
func MonthGridDays(date time.Time, weekStartsOn time.Weekday) []time.Time {
	month := MonthRange(date)
	first := startOfWeek(month.Start, weekStartsOn)
	last := StartOfDay(WeekRange(month.End, weekStartsOn).End)

	var days []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// HourSlots returns the 24 hour labels of a day grid, "00:00" through "23:00".
func HourSlots() []string {
	slots := make([]string, 24)
	for h := range slots {
		slots[h] = fmt.Sprintf("%02d:00", h)
	}
	return slots
}

// AddMonths adds n calendar months to t, clamping the day to the length of
// the resulting month (Jan 31 + 1 month is the last day of February).
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// MonthsBetween returns the whole-month difference from a to b using only
// their year and month fields. Days are ignored.
func MonthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// ParseWeekday maps a weekday name ("monday", "Sun", ...) to time.Weekday.
func ParseWeekday(name string) (time.Weekday, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if key == full || key == full[:3] {
			return d, nil
		}
	}
	return time.Monday, fmt.Errorf("unknown weekday %q", name)
}

// ParseDate parses a YYYY-MM-DD date at midnight in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return t, nil
}

// timestampLayouts are tried in order by ParseLocalTimestamp.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ParseLocalTimestamp parses an RFC3339 timestamp, or a "YYYY-MM-DD HH:MM"
// (or "YYYY-MM-DDTHH:MM") wall-clock time read in loc.
func ParseLocalTimestamp(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse timestamp %q: expected RFC3339 or YYYY-MM-DD HH:MM", value)
}

func startOfWeek(date time.Time, weekStartsOn time.Weekday) time.Time {
	day := StartOfDay(date)
	offset := (int(day.Weekday()) - int(weekStartsOn) + 7) % 7
	return day.AddDate(0, 0, -offset)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
