package goldbook

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func endOf(y int, m time.Month, d int) time.Time { return date(y, m, d+1).Add(-time.Nanosecond) }

func TestResolveWindow(t *testing.T) {
	cal := fixedCalendar()
	today := endOf(2025, time.March, 12)

	tests := []struct {
		name       string
		kind       RangeKind
		start, end string
		want       Window
	}{
		{"all", All, "", "", Window{}},
		{"today", Today, "", "", Window{date(2025, time.March, 12), today}},
		{"yesterday", Yesterday, "", "", Window{date(2025, time.March, 11), endOf(2025, time.March, 11)}},
		{"day before yesterday", DayBeforeYesterday, "", "", Window{date(2025, time.March, 10), endOf(2025, time.March, 10)}},
		{"week starts on saturday", CurrentWeek, "", "", Window{date(2025, time.March, 8), today}},
		{"month", CurrentMonth, "", "", Window{date(2025, time.March, 1), today}},
		{"custom", Custom, "2025-02-01", "2025-02-10", Window{date(2025, time.February, 1), endOf(2025, time.February, 10)}},
		{"custom relative", Custom, "-7d", "-1d", Window{date(2025, time.March, 5), endOf(2025, time.March, 11)}},
		{"custom without end", Custom, "2025-03-01", "", Window{date(2025, time.March, 1), today}},
		{"custom without start", Custom, "", "2025-03-01", Window{To: endOf(2025, time.March, 1)}},
		{"unparsable start is ignored", Custom, "soon", "2025-03-01", Window{To: endOf(2025, time.March, 1)}},
		{"unparsable end is today", Custom, "2025-03-01", "later", Window{date(2025, time.March, 1), today}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cal.ResolveWindow(tt.kind, tt.start, tt.end)
			if !got.From.Equal(tt.want.From) || !got.To.Equal(tt.want.To) {
				t.Errorf("ResolveWindow(%v, %q, %q) = [%v, %v], want [%v, %v]", tt.kind, tt.start, tt.end, got.From, got.To, tt.want.From, tt.want.To)
			}
		})
	}
}

func TestResolveWindow_WeekStart(t *testing.T) {
	tests := []struct {
		start time.Weekday
		want  time.Time
	}{
		{time.Saturday, date(2025, time.March, 8)},
		{time.Sunday, date(2025, time.March, 9)},
		{time.Monday, date(2025, time.March, 10)},
		{time.Wednesday, date(2025, time.March, 12)},
		{time.Thursday, date(2025, time.March, 6)},
	}
	for _, tt := range tests {
		t.Run(tt.start.String(), func(t *testing.T) {
			cal := fixedCalendar()
			cal.WeekStart = tt.start
			if got := cal.ResolveWindow(CurrentWeek, "", "").From; !got.Equal(tt.want) {
				t.Errorf("week from = %v, want %v", got, tt.want)
			}
		})
	}
}

// Days are cut in the shop's time zone, not in UTC.
func TestResolveWindow_Location(t *testing.T) {
	tehran := time.FixedZone("IRST", 3*3600+1800)
	cal := NewCalendar(tehran, time.Saturday)
	// 22:00 UTC is already the next day in the shop.
	cal.Now = func() time.Time { return time.Date(2025, time.March, 12, 22, 0, 0, 0, time.UTC) }

	w := cal.ResolveWindow(Today, "", "")
	if want := time.Date(2025, time.March, 13, 0, 0, 0, 0, tehran); !w.From.Equal(want) {
		t.Errorf("today from = %v, want %v", w.From, want)
	}
	if w.Contains(time.Date(2025, time.March, 12, 20, 0, 0, 0, time.UTC)) {
		t.Error("today contains 23:30 of the previous local day")
	}
}

func TestWindow_Contains(t *testing.T) {
	w := Window{From: day(2), To: day(4)}
	tests := []struct {
		at   time.Time
		want bool
	}{
		{day(1), false},
		{day(2), true},
		{day(3), true},
		{day(4), true},
		{day(4).Add(time.Nanosecond), false},
	}
	for _, tt := range tests {
		if got := w.Contains(tt.at); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.at, got, tt.want)
		}
	}
	if !(Window{}).Contains(time.Time{}) || !(Window{}).IsAll() {
		t.Error("the zero window does not contain everything")
	}
}

func TestParseRangeKind(t *testing.T) {
	for k := All; k <= Custom; k++ {
		got, err := ParseRangeKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseRangeKind(%q) = %v, %v, want %v", k.String(), got, err, k)
		}
	}
	if _, err := ParseRangeKind("fortnight"); err == nil {
		t.Error("ParseRangeKind(fortnight) succeeded, want an error")
	}
	if got, _ := ParseRangeKind(""); got != All {
		t.Errorf("ParseRangeKind(\"\") = %v, want all", got)
	}
}

func TestCalendar_ParseDay(t *testing.T) {
	cal := fixedCalendar()
	tests := []struct {
		input string
		want  time.Time
		err   bool
	}{
		{"2025-01-15", date(2025, time.January, 15), false},
		{"2025-7-1", date(2025, time.July, 1), false},
		{"0d", date(2025, time.March, 12), false},
		{"-1d", date(2025, time.March, 11), false},
		{"+1d", date(2025, time.March, 13), false},
		{"-2w", date(2025, time.February, 26), false},
		{"-1m", date(2025, time.February, 12), false},
		{"+1y", date(2026, time.March, 12), false},
		{"1d", time.Time{}, true},
		{"invalid-date", time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := cal.ParseDay(tt.input)
			if (err != nil) != tt.err {
				t.Errorf("ParseDay(%q) error = %v, wantErr %v", tt.input, err, tt.err)
				return
			}
			if !tt.err && !got.Equal(tt.want) {
				t.Errorf("ParseDay(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestGregorian_Layout(t *testing.T) {
	cal := fixedCalendar()
	cal.Display = Gregorian{Layout: "02/01/2006"}

	got, err := cal.ParseDay("15/01/2025")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(date(2025, time.January, 15)) {
		t.Errorf("ParseDay(15/01/2025) = %v", got)
	}
	// Reading stays lenient.
	if _, err := cal.ParseDay("2025-1-15"); err != nil {
		t.Errorf("ParseDay(2025-1-15) error = %v", err)
	}
	if got := cal.FormatDay(day(3)); got != "03/03/2025" {
		t.Errorf("FormatDay() = %q, want 03/03/2025", got)
	}
}
