// Package dates buckets instants into calendar days. A "day" is computed in
// the deployment timezone and stored as the UTC midnight of that date, so the
// same wall-clock day always maps to the same stored instant regardless of
// the server's own zone.
package dates

import (
	"fmt"
	"time"
)

const dayFormat = "2006-01-02"

// Today returns the current calendar day in loc as "YYYY-MM-DD".
func Today(loc *time.Location) string {
	return time.Now().In(loc).Format(dayFormat)
}

// Yesterday returns the calendar day before Today(loc).
func Yesterday(loc *time.Location) string {
	today, _ := time.ParseInLocation(dayFormat, Today(loc), time.UTC)
	return today.AddDate(0, 0, -1).Format(dayFormat)
}

// DayStartUTC parses a "YYYY-MM-DD" string into that day's UTC midnight.
func DayStartUTC(day string) (time.Time, error) {
	t, err := time.ParseInLocation(dayFormat, day, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", day)
	}
	return t, nil
}
