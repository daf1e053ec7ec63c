package goldbook

import (
	"fmt"
	"strings"
	"time"
)

// RangeKind names the periods a ledger view can be restricted to.
type RangeKind int

const (
	All RangeKind = iota
	Today
	Yesterday
	DayBeforeYesterday
	CurrentWeek
	CurrentMonth
	Custom
)

func (k RangeKind) String() string {
	switch k {
	case All:
		return "all"
	case Today:
		return "today"
	case Yesterday:
		return "yesterday"
	case DayBeforeYesterday:
		return "day-before-yesterday"
	case CurrentWeek:
		return "week"
	case CurrentMonth:
		return "month"
	case Custom:
		return "custom"
	default:
		panic(fmt.Sprintf("unknown range kind %d", k))
	}
}

// Title is the human name of the range.
func (k RangeKind) Title() string {
	switch k {
	case All:
		return "All time"
	case Today:
		return "Today"
	case Yesterday:
		return "Yesterday"
	case DayBeforeYesterday:
		return "Day before yesterday"
	case CurrentWeek:
		return "Week-to-Date"
	case CurrentMonth:
		return "Month-to-Date"
	default:
		return "Custom range"
	}
}

// ParseRangeKind parses a range name.
func ParseRangeKind(s string) (RangeKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all", "":
		return All, nil
	case "today", "day", "0d":
		return Today, nil
	case "yesterday", "-1d":
		return Yesterday, nil
	case "day-before-yesterday", "dby", "-2d":
		return DayBeforeYesterday, nil
	case "week", "weekly", "current-week":
		return CurrentWeek, nil
	case "month", "monthly", "current-month":
		return CurrentMonth, nil
	case "custom", "range":
		return Custom, nil
	default:
		return All, fmt.Errorf("unknown range %q", s)
	}
}

// Window is a closed interval of time. A zero bound is unbounded, so the
// zero Window contains every instant.
type Window struct{ From, To time.Time }

// IsAll reports whether the window applies no filtering.
func (w Window) IsAll() bool { return w.From.IsZero() && w.To.IsZero() }

// Contains returns true if t is within the window (boundaries included).
func (w Window) Contains(t time.Time) bool {
	if !w.From.IsZero() && t.Before(w.From) {
		return false
	}
	if !w.To.IsZero() && t.After(w.To) {
		return false
	}
	return true
}

// ResolveWindow returns the window of time covered by kind.
//
// For Custom, customStart and customEnd are days in the display calendar.
// An unparsable start is treated as absent (no lower bound); an absent or
// unparsable end stands for the end of the current day.
func (c *Calendar) ResolveWindow(kind RangeKind, customStart, customEnd string) Window {
	now := c.now()
	today := c.StartOfDay(now)
	endOfToday := c.EndOfDay(now)

	switch kind {
	case Today:
		return Window{From: today, To: endOfToday}
	case Yesterday:
		day := today.AddDate(0, 0, -1)
		return Window{From: day, To: c.EndOfDay(day)}
	case DayBeforeYesterday:
		day := today.AddDate(0, 0, -2)
		return Window{From: day, To: c.EndOfDay(day)}
	case CurrentWeek:
		return Window{From: c.StartOfWeek(now), To: endOfToday}
	case CurrentMonth:
		return Window{From: c.StartOfMonth(now), To: endOfToday}
	case Custom:
		w := Window{To: endOfToday}
		if strings.TrimSpace(customStart) != "" {
			if from, err := c.ParseDay(customStart); err != nil {
				Logger().WithError(err).Warn("ignoring custom start bound")
			} else {
				w.From = from
			}
		}
		if strings.TrimSpace(customEnd) != "" {
			if to, err := c.ParseDay(customEnd); err != nil {
				Logger().WithError(err).Warn("ignoring custom end bound")
			} else {
				w.To = c.EndOfDay(to)
			}
		}
		return w
	default:
		return Window{}
	}
}
