package goldbook

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const readDateFormat = "2006-1-2" // Permissive read date format (allows single-digit month/day).

// DateFormat is the format used to write Gregorian dates.
const DateFormat = "2006-01-02"

// DisplayCalendar converts days between the calendar shown to users and
// absolute instants.
type DisplayCalendar interface {
	// ParseDay returns the first instant, in loc, of the day written s.
	ParseDay(s string, loc *time.Location) (time.Time, error)
	// FormatDay writes the day containing t.
	FormatDay(t time.Time) string
}

// Gregorian is the display calendar used when none is configured.
type Gregorian struct {
	// Layout is the time layout used to write days. Reading is lenient and
	// also accepts single digit months and days.
	Layout string
}

// ParseDay implements DisplayCalendar.
func (g Gregorian) ParseDay(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	layouts := []string{readDateFormat}
	if g.Layout != "" && g.Layout != readDateFormat {
		layouts = append([]string{g.Layout}, layouts...)
	}
	var err error
	for _, layout := range layouts {
		var on time.Time
		on, err = time.ParseInLocation(layout, s, loc)
		if err == nil {
			y, m, d := on.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q want format %q: %w", s, layouts[0], err)
}

// FormatDay implements DisplayCalendar.
func (g Gregorian) FormatDay(t time.Time) string {
	if g.Layout == "" {
		return t.Format(DateFormat)
	}
	return t.Format(g.Layout)
}

// Calendar resolves named periods into windows of absolute time.
//
// Everything that depends on the shop's locale is explicit: the time zone,
// the first day of the week, the display calendar and the clock.
type Calendar struct {
	Location  *time.Location
	WeekStart time.Weekday
	Display   DisplayCalendar
	Now       func() time.Time // defaults to time.Now
}

// NewCalendar returns a Gregorian calendar in loc, with weeks starting on weekStart.
func NewCalendar(loc *time.Location, weekStart time.Weekday) *Calendar {
	return &Calendar{Location: loc, WeekStart: weekStart, Display: Gregorian{}}
}

func (c *Calendar) loc() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

func (c *Calendar) display() DisplayCalendar {
	if c.Display == nil {
		return Gregorian{}
	}
	return c.Display
}

// now returns the current instant in the calendar's location.
func (c *Calendar) now() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return now().In(c.loc())
}

// StartOfDay returns local midnight of the day containing t.
func (c *Calendar) StartOfDay(t time.Time) time.Time {
	y, m, d := t.In(c.loc()).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.loc())
}

// EndOfDay returns the last instant of the day containing t.
func (c *Calendar) EndOfDay(t time.Time) time.Time {
	return c.StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// StartOfWeek returns the first instant of the week containing t.
func (c *Calendar) StartOfWeek(t time.Time) time.Time {
	day := c.StartOfDay(t)
	offset := int(day.Weekday() - c.WeekStart)
	for offset < 0 {
		offset += 7
	}
	return day.AddDate(0, 0, -offset)
}

// StartOfMonth returns the first instant of the month containing t.
func (c *Calendar) StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.In(c.loc()).Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, c.loc())
}

// Today returns the first instant of the current day.
func (c *Calendar) Today() time.Time { return c.StartOfDay(c.now()) }

// FormatDay writes t in the display calendar.
func (c *Calendar) FormatDay(t time.Time) string { return c.display().FormatDay(t.In(c.loc())) }

var relativeDateRE = regexp.MustCompile(`^([+-])(\d+)([dwmy])$`)

// ParseDay parses a day written in the display calendar and returns its first
// instant. Relative days are accepted too: "0d" is today, "-1d" yesterday,
// "+2w" in two weeks, "-1m" a month ago, "-1y" a year ago.
func (c *Calendar) ParseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "0d" {
		return c.Today(), nil
	}
	if match := relativeDateRE.FindStringSubmatch(s); match != nil {
		num, err := strconv.Atoi(match[2])
		if err != nil {
			// This should not happen given the regex
			return time.Time{}, fmt.Errorf("invalid number in relative date %q: %w", s, err)
		}
		if match[1] == "-" {
			num = -num
		}
		today := c.Today()
		switch match[3] {
		case "d":
			return today.AddDate(0, 0, num), nil
		case "w":
			return today.AddDate(0, 0, 7*num), nil
		case "m":
			return today.AddDate(0, num, 0), nil
		case "y":
			return today.AddDate(num, 0, 0), nil
		}
	}
	return c.display().ParseDay(s, c.loc())
}
