package domain

import "time"

// CivilDate truncates t to its UTC calendar date (midnight UTC).
// Loan dates are stored and compared at day granularity.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from one civil date to
// another. Negative when to precedes from.
func DaysBetween(from, to time.Time) int {
	return int(CivilDate(to).Sub(CivilDate(from)) / (24 * time.Hour))
}
