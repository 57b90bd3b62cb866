package dating

import (
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Parsed is a date read out of a text fragment, before sanity checks and
// provenance tagging.
type Parsed struct {
	Instant time.Time
	Shape   Shape
}

// Bare years outside this window are noise, not dates.
const (
	minBareYear = 1900
	maxBareYear = 2100
)

type builder func(g []string, loc *time.Location) []Parsed

// builders holds all format-specific construction. Adding a catalogue shape
// means adding one entry here.
var builders = map[Format]builder{
	FormatDateTimeSeconds: func(g []string, loc *time.Location) []Parsed {
		return at(ShapeDateTimeSeconds, loc, atoi(g[0]), atoi(g[1]), atoi(g[2]), atoi(g[3]), atoi(g[4]), atoi(g[5]))
	},
	FormatDateTimeMinutes: func(g []string, loc *time.Location) []Parsed {
		return at(ShapeDateTimeMinutes, loc, atoi(g[0]), atoi(g[1]), atoi(g[2]), atoi(g[3]), atoi(g[4]), 0)
	},
	FormatCompactDateTime: func(g []string, loc *time.Location) []Parsed {
		return at(ShapeCompactDateTime, loc, atoi(g[0]), atoi(g[1]), atoi(g[2]), atoi(g[3]), atoi(g[4]), atoi(g[5]))
	},
	FormatYMD: func(g []string, loc *time.Location) []Parsed {
		return at(ShapeYMD, loc, atoi(g[0]), atoi(g[1]), atoi(g[2]), 0, 0, 0)
	},
	FormatDayMonthAmbiguous: func(g []string, loc *time.Location) []Parsed {
		a, b, y := atoi(g[0]), atoi(g[1]), atoi(g[2])
		return append(at(ShapeDMY, loc, y, b, a, 0, 0, 0), at(ShapeMDY, loc, y, a, b, 0, 0, 0)...)
	},
	FormatCompactYMD: func(g []string, loc *time.Location) []Parsed {
		return at(ShapeCompactYMD, loc, atoi(g[0]), atoi(g[1]), atoi(g[2]), 0, 0, 0)
	},
	FormatDMYShort: func(g []string, loc *time.Location) []Parsed {
		return at(ShapeDMYShort, loc, twoDigitYear(atoi(g[2])), atoi(g[1]), atoi(g[0]), 0, 0, 0)
	},
	FormatYMDShort: func(g []string, loc *time.Location) []Parsed {
		return at(ShapeYMDShort, loc, twoDigitYear(atoi(g[0])), atoi(g[1]), atoi(g[2]), 0, 0, 0)
	},
	FormatDayMonAbbrev: func(g []string, loc *time.Location) []Parsed {
		return abbrev(loc, g[2], g[1], g[0], ShapeDayMonAbbrev)
	},
	FormatMonAbbrevDay: func(g []string, loc *time.Location) []Parsed {
		return abbrev(loc, g[2], g[0], g[1], ShapeMonAbbrevDay)
	},
	FormatYearMonAbbrevDay: func(g []string, loc *time.Location) []Parsed {
		return abbrev(loc, g[0], g[1], g[2], ShapeYearMonAbbrevDay)
	},
	FormatYearMonth: func(g []string, loc *time.Location) []Parsed {
		return at(ShapeYearMonth, loc, atoi(g[0]), atoi(g[1]), 1, 0, 0, 0)
	},
	FormatCompactYearMonth: func(g []string, loc *time.Location) []Parsed {
		return at(ShapeCompactYearMonth, loc, atoi(g[0]), atoi(g[1]), 1, 0, 0, 0)
	},
	FormatYear: func(g []string, loc *time.Location) []Parsed {
		y := atoi(g[0])
		if y < minBareYear || y > maxBareYear {
			return nil
		}
		return at(ShapeYear, loc, y, 1, 1, 0, 0, 0)
	},
}

// Parse returns every date the entry can read out of text. Occurrences that
// do not form a valid calendar date are dropped silently.
func Parse(text string, e Entry, loc *time.Location) []Parsed {
	build, ok := builders[e.Format]
	if !ok {
		return nil
	}
	if loc == nil {
		loc = time.Local
	}
	var out []Parsed
	for _, groups := range findTokens(text, e) {
		out = append(out, build(groups, loc)...)
	}
	return out
}

// findTokens returns the capture groups of every non-overlapping match that
// stands on its own: a match may not be glued to more digits or letters of
// the same kind on either side.
func findTokens(text string, e Entry) [][]string {
	var out [][]string
	for pos := 0; pos < len(text); {
		loc := e.Pattern.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if !bounded(text, start, end) {
			pos = start + 1
			continue
		}
		groups := make([]string, 0, len(loc)/2-1)
		for i := 2; i < len(loc); i += 2 {
			if loc[i] < 0 {
				groups = append(groups, "")
				continue
			}
			groups = append(groups, text[pos+loc[i]:pos+loc[i+1]])
		}
		out = append(out, groups)
		pos = end
	}
	return out
}

func bounded(text string, start, end int) bool {
	if start > 0 {
		before, _ := utf8.DecodeLastRuneInString(text[:start])
		first, _ := utf8.DecodeRuneInString(text[start:])
		if sameKind(before, first) {
			return false
		}
	}
	if end < len(text) {
		last, _ := utf8.DecodeLastRuneInString(text[:end])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if sameKind(last, after) {
			return false
		}
	}
	return true
}

func sameKind(a, b rune) bool {
	switch {
	case unicode.IsDigit(a):
		return unicode.IsDigit(b)
	case unicode.IsLetter(a):
		return unicode.IsLetter(b)
	}
	return false
}

var monthAbbrevs = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

func abbrev(loc *time.Location, year, month, day string, shape Shape) []Parsed {
	m, ok := monthAbbrevs[strings.ToLower(month)]
	if !ok {
		return nil
	}
	y := atoi(year)
	if len(year) == 2 {
		y = twoDigitYear(y)
	}
	return at(shape, loc, y, int(m), atoi(day), 0, 0, 0)
}

// twoDigitYear pivots at 69: 00-68 are 2000s, 69-99 are 1900s.
func twoDigitYear(yy int) int {
	if yy < 69 {
		return 2000 + yy
	}
	return 1900 + yy
}

// civil builds a wall-clock time, refusing values time.Date would normalize.
func civil(loc *time.Location, year, month, day, hour, minute, sec int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || sec < 0 || sec > 59 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, hour, minute, sec, 0, loc)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func at(shape Shape, loc *time.Location, year, month, day, hour, minute, sec int) []Parsed {
	t, ok := civil(loc, year, month, day, hour, minute, sec)
	if !ok {
		return nil
	}
	return []Parsed{{Instant: t, Shape: shape}}
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}
