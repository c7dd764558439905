package core

import (
	"encoding/json"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar day. The zero value means "not set" and is used for
// optional dates such as an obligation's end date.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar day in UTC.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// DateOf truncates a time.Time to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, Validationf("invalid date %q", s)
	}
	return Date{Time: t}, nil
}

// Day returns the day of the month.
func (d Date) Day() int { return d.Time.Day() }

// Month returns the month as an int.
func (d Date) Month() int { return int(d.Time.Month()) }

// Year returns the year.
func (d Date) Year() int { return d.Time.Year() }

// SameMonth reports whether both dates fall in the same calendar month of the
// same year.
func (d Date) SameMonth(other Date) bool {
	return d.Year() == other.Year() && d.Month() == other.Month()
}

// InPeriod reports whether the date falls inside [from, to] inclusive.
func (d Date) InPeriod(from, to Date) bool {
	return !d.Before(from.Time) && !d.After(to.Time)
}

// AfterToday reports whether the date lies in the future.
func (d Date) AfterToday() bool {
	return d.After(Today().Time)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// MarshalJSON encodes the date as "YYYY-MM-DD", or null when unset.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

// UnmarshalJSON accepts "YYYY-MM-DD" or null.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == nil || *s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(*s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// LastDayOfMonth returns the number of days in (year, month).
func LastDayOfMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ScheduledFireDate places an obligation's day-of-month inside (year, month),
// clamping down to the month's last day when the month is shorter. Day 31 in
// February yields Feb 28 or Feb 29 depending on the year.
func ScheduledFireDate(year, month, dayOfMonth int) Date {
	if last := LastDayOfMonth(year, month); dayOfMonth > last {
		dayOfMonth = last
	}
	return NewDate(year, month, dayOfMonth)
}

// MonthPeriod returns the first and last day of (year, month).
func MonthPeriod(year, month int) (Date, Date) {
	return NewDate(year, month, 1), NewDate(year, month, LastDayOfMonth(year, month))
}
