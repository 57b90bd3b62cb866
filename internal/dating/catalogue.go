package dating

import "regexp"

// Format identifies the semantic date shape a catalogue entry recognizes.
type Format int

const (
	FormatDateTimeSeconds   Format = iota // Y-M-D H:M:S
	FormatDateTimeMinutes                 // Y-M-D H:M
	FormatCompactDateTime                 // YYYYMMDD_HHMMSS
	FormatYMD                             // Y-M-D
	FormatDayMonthAmbiguous               // D-M-Y or M-D-Y
	FormatCompactYMD                      // YYYYMMDD
	FormatDMYShort                        // D-M-YY
	FormatYMDShort                        // YY-M-D
	FormatDayMonAbbrev                    // D-Mon-YY
	FormatMonAbbrevDay                    // Mon-D-YY
	FormatYearMonAbbrevDay                // YY-Mon-D
	FormatYearMonth                       // Y-M
	FormatCompactYearMonth                // YYYYMM
	FormatYear                            // YYYY
)

// Entry pairs a text pattern with the date shape it matches.
type Entry struct {
	Pattern *regexp.Regexp
	Format  Format
}

// catalogue is ordered from most to least specific. Order only affects
// which candidates get generated, never which one wins.
var catalogue = []Entry{
	{regexp.MustCompile(`(\d{4})[_\-/](\d{1,2})[_\-/](\d{1,2})[_\-\s](\d{1,2})[:\-](\d{1,2})[:\-](\d{1,2})`), FormatDateTimeSeconds},
	{regexp.MustCompile(`(\d{4})[_\-/](\d{1,2})[_\-/](\d{1,2})[_\-\s](\d{1,2})[:\-](\d{1,2})`), FormatDateTimeMinutes},
	{regexp.MustCompile(`(\d{4})(\d{2})(\d{2})[_\-T ]?(\d{2})(\d{2})(\d{2})`), FormatCompactDateTime},

	{regexp.MustCompile(`(\d{4})[_\-/](\d{1,2})[_\-/](\d{1,2})`), FormatYMD},
	{regexp.MustCompile(`(\d{1,2})[_\-/](\d{1,2})[_\-/](\d{4})`), FormatDayMonthAmbiguous},
	{regexp.MustCompile(`(\d{4})(\d{2})(\d{2})`), FormatCompactYMD},

	{regexp.MustCompile(`(\d{1,2})[_\-/](\d{1,2})[_\-/](\d{2})`), FormatDMYShort},
	{regexp.MustCompile(`(\d{2})[_\-/](\d{1,2})[_\-/](\d{1,2})`), FormatYMDShort},

	{regexp.MustCompile(`(?i)(\d{1,2})[_\-\s]?([a-z]{3})[_\-\s]?(\d{4}|\d{2})`), FormatDayMonAbbrev},
	{regexp.MustCompile(`(?i)([a-z]{3})[_\-\s](\d{1,2})[_\-\s](\d{4}|\d{2})`), FormatMonAbbrevDay},
	{regexp.MustCompile(`(?i)(\d{4}|\d{2})[_\-\s]([a-z]{3})[_\-\s](\d{1,2})`), FormatYearMonAbbrevDay},

	{regexp.MustCompile(`(\d{4})[_\-/](\d{1,2})`), FormatYearMonth},
	{regexp.MustCompile(`(\d{4})(\d{2})`), FormatCompactYearMonth},

	{regexp.MustCompile(`(\d{4})`), FormatYear},
}

// Catalogue returns the fixed pattern list. The entries are shared and must
// not be modified by callers.
func Catalogue() []Entry {
	return catalogue
}

// Shape is the concrete interpretation a candidate was built from.
type Shape int

const (
	ShapeNone Shape = iota
	ShapeDateTimeSeconds
	ShapeDateTimeMinutes
	ShapeCompactDateTime
	ShapeYMD
	ShapeDMY
	ShapeMDY
	ShapeCompactYMD
	ShapeDMYShort
	ShapeYMDShort
	ShapeDayMonAbbrev
	ShapeMonAbbrevDay
	ShapeYearMonAbbrevDay
	ShapeYearMonth
	ShapeCompactYearMonth
	ShapeYear
)

var shapeNames = map[Shape]string{
	ShapeDateTimeSeconds:  "YYYY-MM-DD HH:MM:SS",
	ShapeDateTimeMinutes:  "YYYY-MM-DD HH:MM",
	ShapeCompactDateTime:  "YYYYMMDD_HHMMSS",
	ShapeYMD:              "YYYY-MM-DD",
	ShapeDMY:              "DD-MM-YYYY",
	ShapeMDY:              "MM-DD-YYYY",
	ShapeCompactYMD:       "YYYYMMDD",
	ShapeDMYShort:         "DD-MM-YY",
	ShapeYMDShort:         "YY-MM-DD",
	ShapeDayMonAbbrev:     "DD-MMM-YY",
	ShapeMonAbbrevDay:     "MMM-DD-YY",
	ShapeYearMonAbbrevDay: "YY-MMM-DD",
	ShapeYearMonth:        "YYYY-MM",
	ShapeCompactYearMonth: "YYYYMM",
	ShapeYear:             "YYYY",
}

func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return "none"
}

// Granularity is how much of a timestamp a shape pins down.
type Granularity int

const (
	GranularityNone Granularity = iota
	GranularitySeconds
	GranularityMinutes
	GranularityDate
	GranularityYearMonth
	GranularityOther
	GranularityYear
)

// Granularity classifies the shape for scoring.
func (s Shape) Granularity() Granularity {
	switch s {
	case ShapeDateTimeSeconds, ShapeCompactDateTime:
		return GranularitySeconds
	case ShapeDateTimeMinutes:
		return GranularityMinutes
	case ShapeYMD, ShapeDMY, ShapeMDY, ShapeCompactYMD:
		return GranularityDate
	case ShapeYearMonth, ShapeCompactYearMonth:
		return GranularityYearMonth
	case ShapeDMYShort, ShapeYMDShort, ShapeDayMonAbbrev, ShapeMonAbbrevDay, ShapeYearMonAbbrevDay:
		return GranularityOther
	case ShapeYear:
		return GranularityYear
	}
	return GranularityNone
}
