// Package period maps a reference date to the half-open interval
// [start, end) of the day, week, month, or year it falls in. Start is
// inclusive, end is exclusive, so a completion at exactly midnight belongs
// to the new period.
package period

import "time"

// Day returns the interval covering d's calendar day.
func Day(d time.Time) (time.Time, time.Time) {
	start := truncate(d)
	return start, start.AddDate(0, 0, 1)
}

// Week returns the interval covering d's week. Weeks start on Monday.
func Week(d time.Time) (time.Time, time.Time) {
	day := truncate(d)
	// time.Weekday counts from Sunday; shift so Monday is offset 0.
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 7)
}

// Month returns the interval covering d's month. December rolls over into
// January of the next year.
func Month(d time.Time) (time.Time, time.Time) {
	start := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
	return start, start.AddDate(0, 1, 0)
}

// Year returns the interval covering d's year.
func Year(d time.Time) (time.Time, time.Time) {
	start := time.Date(d.Year(), time.January, 1, 0, 0, 0, 0, d.Location())
	return start, start.AddDate(1, 0, 0)
}

func truncate(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}
