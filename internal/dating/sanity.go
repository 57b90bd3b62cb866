package dating

import "time"

type ymd struct {
	year  int
	month time.Month
	day   int
}

// Placeholder dates written by cameras with an unset or reset clock.
var sentinelDates = []ymd{
	{1010, time.January, 1},
	{1980, time.January, 1},
	{1999, time.January, 1},
	{2000, time.January, 1},
	{1970, time.January, 1},
}

// Plausible reports whether t could be a real capture date, judged against
// the reference instant now.
func Plausible(t, now time.Time) bool {
	if t.Year() < 1970 || t.Year() > now.Year()+1 {
		return false
	}
	for _, s := range sentinelDates {
		if t.Year() == s.year && t.Month() == s.month && t.Day() == s.day {
			return false
		}
	}
	return true
}
