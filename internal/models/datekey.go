package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Weekday is a Monday-first day-of-week enumeration. Only Monday-Friday
// count for streaks and attendance.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return "Unknown"
	}
	return weekdayNames[d]
}

// IsWorkday reports whether the day is Monday-Friday.
func (d Weekday) IsWorkday() bool {
	return d >= Monday && d <= Friday
}

// WeekdayOf converts time.Weekday (Sunday-first) to the Monday-first enum.
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

// IsWeekday reports whether t falls on Monday-Friday.
func IsWeekday(t time.Time) bool {
	return WeekdayOf(t).IsWorkday()
}

// DayKey identifies a calendar date, formatted YYYY-MM-DD.
type DayKey string

const dayKeyLayout = "2006-01-02"

func DayKeyOf(t time.Time) DayKey {
	return DayKey(t.Format(dayKeyLayout))
}

// Date parses the key back into a date (midnight UTC).
func (k DayKey) Date() (time.Time, error) {
	return time.Parse(dayKeyLayout, string(k))
}

// IsWorkday reports whether the key falls on a weekday. Unparsable keys are
// never workdays.
func (k DayKey) IsWorkday() bool {
	t, err := k.Date()
	if err != nil {
		return false
	}
	return IsWeekday(t)
}

// Weekday returns the Monday-first weekday of the key, Sunday on parse error.
func (k DayKey) Weekday() Weekday {
	t, err := k.Date()
	if err != nil {
		return Sunday
	}
	return WeekdayOf(t)
}

// MonthKey returns the YYYY-MM prefix of the key.
func (k DayKey) MonthKey() MonthKey {
	if len(k) < 7 {
		return ""
	}
	return MonthKey(k[:7])
}

// WeekKey identifies an ISO calendar week, formatted YYYY-Www with the ISO
// year. ISOWeek keeps the year attached to the week number, so the first
// and last days of a calendar year land in the week they belong to.
type WeekKey string

func WeekKeyOf(t time.Time) WeekKey {
	year, week := t.ISOWeek()
	return WeekKey(fmt.Sprintf("%d-W%02d", year, week))
}

// MonthKey identifies a calendar month, formatted YYYY-MM.
type MonthKey string

func MonthKeyOf(t time.Time) MonthKey {
	return MonthKey(t.Format("2006-01"))
}

// WeekStart returns the Monday of t's ISO week, at t's wall-clock midnight.
func WeekStart(t time.Time) time.Time {
	daysSinceMonday := int(WeekdayOf(t))
	y, m, d := t.AddDate(0, 0, -daysSinceMonday).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ResolveEditDay maps an edit-day selector to a concrete date relative to
// today: "today", "yesterday", a weekday name (most recent occurrence), or
// a number of days ago (1..windowDays).
func ResolveEditDay(arg string, today time.Time, windowDays int) (time.Time, error) {
	arg = strings.ToLower(strings.TrimSpace(arg))

	switch arg {
	case "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}

	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > windowDays {
			return time.Time{}, fmt.Errorf("can only edit the last %d days", windowDays)
		}
		return today.AddDate(0, 0, -n), nil
	}

	for i, name := range weekdayNames {
		if arg != strings.ToLower(name) {
			continue
		}
		daysBack := (int(WeekdayOf(today)) - i + 7) % 7
		if daysBack > windowDays {
			return time.Time{}, fmt.Errorf("can only edit the last %d days", windowDays)
		}
		return today.AddDate(0, 0, -daysBack), nil
	}

	return time.Time{}, fmt.Errorf("unknown day %q: use today, yesterday, a weekday name, or 1-%d", arg, windowDays)
}
