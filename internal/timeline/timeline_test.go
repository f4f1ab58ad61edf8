package timeline

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekRangeMondayStart(t *testing.T) {
	// 2025-01-15 is a Wednesday.
	r := WeekRange(time.Date(2025, 1, 15, 14, 30, 0, 0, time.UTC), time.Monday)
	if got, want := r.Start, date(2025, 1, 13); !got.Equal(want) {
		t.Fatalf("start = %s, want %s", got, want)
	}
	if got, want := r.End, date(2025, 1, 20).Add(-time.Nanosecond); !got.Equal(want) {
		t.Fatalf("end = %s, want %s", got, want)
	}
}

func TestWeekRangeSundayStart(t *testing.T) {
	r := WeekRange(date(2025, 1, 15), time.Sunday)
	if got, want := r.Start, date(2025, 1, 12); !got.Equal(want) {
		t.Fatalf("start = %s, want %s", got, want)
	}
}

func TestWeekRangeOnFirstDay(t *testing.T) {
	r := WeekRange(date(2025, 1, 13), time.Monday)
	if !r.Start.Equal(date(2025, 1, 13)) {
		t.Fatalf("start = %s, want the same Monday", r.Start)
	}
}

func TestMonthRange(t *testing.T) {
	r := MonthRange(time.Date(2024, 2, 10, 8, 0, 0, 0, time.UTC))
	if !r.Start.Equal(date(2024, 2, 1)) {
		t.Fatalf("start = %s", r.Start)
	}
	if got, want := r.End, date(2024, 3, 1).Add(-time.Nanosecond); !got.Equal(want) {
		t.Fatalf("end = %s, want %s", got, want)
	}
}

func TestWeekDays(t *testing.T) {
	days := WeekDays(date(2025, 1, 15), time.Monday)
	if len(days) != 7 {
		t.Fatalf("len = %d, want 7", len(days))
	}
	for i, d := range days {
		want := date(2025, 1, 13+i)
		if !d.Equal(want) {
			t.Fatalf("day %d = %s, want %s", i, d, want)
		}
	}
}

func TestMonthGridDays(t *testing.T) {
	tests := []struct {
		name      string
		month     time.Time
		start     time.Weekday
		wantFirst time.Time
		wantLen   int
	}{
		// Feb 2021 starts on Monday and has 28 days.
		{"exact four weeks", date(2021, 2, 1), time.Monday, date(2021, 2, 1), 28},
		// Jan 2025 starts on Wednesday.
		{"padded start", date(2025, 1, 20), time.Monday, date(2024, 12, 30), 35},
		// Mar 2025 starts on Saturday, 31 days.
		{"six rows", date(2025, 3, 5), time.Monday, date(2025, 2, 24), 42},
		{"sunday start", date(2025, 1, 1), time.Sunday, date(2024, 12, 29), 35},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := MonthGridDays(tt.month, tt.start)
			if len(days)%7 != 0 {
				t.Fatalf("len = %d, not a multiple of 7", len(days))
			}
			if len(days) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(days), tt.wantLen)
			}
			if !days[0].Equal(tt.wantFirst) {
				t.Fatalf("first = %s, want %s", days[0], tt.wantFirst)
			}
			if days[0].Weekday() != tt.start {
				t.Fatalf("grid starts on %s, want %s", days[0].Weekday(), tt.start)
			}
		})
	}
}

func TestHourSlots(t *testing.T) {
	slots := HourSlots()
	if len(slots) != 24 {
		t.Fatalf("len = %d, want 24", len(slots))
	}
	if slots[0] != "00:00" || slots[9] != "09:00" || slots[23] != "23:00" {
		t.Fatalf("unexpected slots: %v", slots)
	}
}

func TestAddMonthsClampsDay(t *testing.T) {
	tests := []struct {
		in   time.Time
		n    int
		want time.Time
	}{
		{date(2025, 1, 31), 1, date(2025, 2, 28)},
		{date(2024, 1, 31), 1, date(2024, 2, 29)},
		{date(2025, 1, 1), 12, date(2026, 1, 1)},
		{date(2025, 8, 31), 6, date(2026, 2, 28)},
		{date(2025, 3, 15), -2, date(2025, 1, 15)},
	}
	for _, tt := range tests {
		if got := AddMonths(tt.in, tt.n); !got.Equal(tt.want) {
			t.Fatalf("AddMonths(%s, %d) = %s, want %s", tt.in.Format(DateLayout), tt.n, got.Format(DateLayout), tt.want.Format(DateLayout))
		}
	}
}

func TestMonthsBetween(t *testing.T) {
	if got := MonthsBetween(date(2025, 1, 1), date(2026, 6, 1)); got != 17 {
		t.Fatalf("months = %d, want 17", got)
	}
	if got := MonthsBetween(date(2025, 1, 31), date(2025, 2, 1)); got != 1 {
		t.Fatalf("months = %d, want 1", got)
	}
	if got := MonthsBetween(date(2025, 5, 1), date(2025, 3, 1)); got != -2 {
		t.Fatalf("months = %d, want -2", got)
	}
}

func TestDayRangeIsHalfOpen(t *testing.T) {
	r := DayRange(time.Date(2025, 1, 15, 13, 0, 0, 0, time.UTC))
	if !r.Start.Equal(date(2025, 1, 15)) || !r.End.Equal(date(2025, 1, 16)) {
		t.Fatalf("unexpected day range %v", r)
	}
	if r.Overlaps(date(2025, 1, 16), date(2025, 1, 16).Add(time.Hour)) {
		t.Fatalf("interval starting at day end must not overlap")
	}
}

func TestParseWeekday(t *testing.T) {
	for name, want := range map[string]time.Weekday{"monday": time.Monday, "Sun": time.Sunday, " SATURDAY ": time.Saturday} {
		got, err := ParseWeekday(name)
		if err != nil {
			t.Fatalf("ParseWeekday(%q): %v", name, err)
		}
		if got != want {
			t.Fatalf("ParseWeekday(%q) = %s, want %s", name, got, want)
		}
	}
	if _, err := ParseWeekday("funday"); err == nil {
		t.Fatalf("expected error for unknown weekday")
	}
}

func TestParseLocalTimestamp(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2025-03-10T09:00:00Z", time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)},
		{"2025-03-10 09:00", time.Date(2025, 3, 10, 9, 0, 0, 0, loc)},
		{" 2025-03-10T09:00 ", time.Date(2025, 3, 10, 9, 0, 0, 0, loc)},
	}
	for _, tc := range cases {
		got, err := ParseLocalTimestamp(tc.in, loc)
		if err != nil {
			t.Fatalf("ParseLocalTimestamp(%q) error = %v", tc.in, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("ParseLocalTimestamp(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
	if _, err := ParseLocalTimestamp("10 March", loc); err == nil {
		t.Fatalf("expected error for unsupported layout")
	}
}
