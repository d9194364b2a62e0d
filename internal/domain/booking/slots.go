package booking

import (
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	timeLayout = "03:04 PM"
)

var timeSlots = []string{
	"10:00 AM",
	"11:00 AM",
	"12:00 PM",
	"02:00 PM",
	"03:00 PM",
	"04:00 PM",
}

// earliestDate is the calendar's hard lower bound.
var earliestDate = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// TimeSlots returns the offered time labels in display order. The list is
// static and never depends on existing bookings.
func TimeSlots() []string {
	out := make([]string, len(timeSlots))
	copy(out, timeSlots)
	return out
}

func IsTimeSlot(label string) bool {
	for _, s := range timeSlots {
		if s == label {
			return true
		}
	}
	return false
}

// IsDateDisabled reports whether the calendar day of d can not be picked:
// any day before today (in now's location) or before 1900-01-01.
func IsDateDisabled(d, now time.Time) bool {
	loc := now.Location()
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)

	y, m, dd := now.Date()
	today := time.Date(y, m, dd, 0, 0, 0, 0, loc)
	floor := time.Date(earliestDate.Year(), earliestDate.Month(), earliestDate.Day(), 0, 0, 0, 0, loc)

	return day.Before(today) || day.Before(floor)
}

// StartAt combines a yyyy-MM-dd date and a slot label into an instant in loc.
func StartAt(date, label string, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	tod, err := time.Parse(timeLayout, label)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", label, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), tod.Hour(), tod.Minute(), 0, 0, loc), nil
}

// LongDate renders a day as "October 18th, 2026".
func LongDate(d time.Time) string {
	return fmt.Sprintf("%s %s, %d", d.Month(), ordinal(d.Day()), d.Year())
}

// ShortDate renders a day as "Oct 18th".
func ShortDate(d time.Time) string {
	return fmt.Sprintf("%s %s", d.Format("Jan"), ordinal(d.Day()))
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
