package dating

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func entryFor(t *testing.T, f Format) Entry {
	t.Helper()
	for _, e := range Catalogue() {
		if e.Format == f {
			return e
		}
	}
	t.Fatalf("no catalogue entry for format %d", f)
	return Entry{}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParse_FullDate(t *testing.T) {
	got := Parse("2024-03-15", entryFor(t, FormatYMD), time.UTC)
	want := []Parsed{{Instant: day(2024, time.March, 15), Shape: ShapeYMD}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_DateTimeSeconds(t *testing.T) {
	got := Parse("party_2019-05-01_12-30-45", entryFor(t, FormatDateTimeSeconds), time.UTC)
	if len(got) != 1 {
		t.Fatalf("Expected 1 candidate, got %d", len(got))
	}
	want := time.Date(2019, time.May, 1, 12, 30, 45, 0, time.UTC)
	if !got[0].Instant.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got[0].Instant)
	}
}

func TestParse_CompactDateTime(t *testing.T) {
	got := Parse("IMG_20190501_120000", entryFor(t, FormatCompactDateTime), time.UTC)
	if len(got) != 1 {
		t.Fatalf("Expected 1 candidate, got %d", len(got))
	}
	want := time.Date(2019, time.May, 1, 12, 0, 0, 0, time.UTC)
	if !got[0].Instant.Equal(want) || got[0].Shape != ShapeCompactDateTime {
		t.Errorf("Expected %v/%s, got %v/%s", want, ShapeCompactDateTime, got[0].Instant, got[0].Shape)
	}
}

func TestParse_AmbiguousDayMonthYieldsBoth(t *testing.T) {
	got := Parse("03-04-2024", entryFor(t, FormatDayMonthAmbiguous), time.UTC)
	want := []Parsed{
		{Instant: day(2024, time.April, 3), Shape: ShapeDMY},
		{Instant: day(2024, time.March, 4), Shape: ShapeMDY},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_AmbiguousDayMonthOnlyOneValid(t *testing.T) {
	got := Parse("25-04-2024", entryFor(t, FormatDayMonthAmbiguous), time.UTC)
	want := []Parsed{{Instant: day(2024, time.April, 25), Shape: ShapeDMY}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_InvalidCalendarValues(t *testing.T) {
	for _, text := range []string{"2024-13-01", "2023-02-29", "2024-04-31", "2024-00-10"} {
		if got := Parse(text, entryFor(t, FormatYMD), time.UTC); len(got) != 0 {
			t.Errorf("Expected no candidate for %q, got %v", text, got)
		}
	}
}

func TestParse_MonthAbbreviations(t *testing.T) {
	tests := []struct {
		text   string
		format Format
		want   time.Time
	}{
		{"25Jan23", FormatDayMonAbbrev, day(2023, time.January, 25)},
		{"trip 7 dec 2019", FormatDayMonAbbrev, day(2019, time.December, 7)},
		{"Mar-05-2021", FormatMonAbbrevDay, day(2021, time.March, 5)},
		{"OCT_31_99", FormatMonAbbrevDay, day(1999, time.October, 31)},
		{"21-feb-03", FormatYearMonAbbrevDay, day(2021, time.February, 3)},
	}
	for _, tt := range tests {
		got := Parse(tt.text, entryFor(t, tt.format), time.UTC)
		if len(got) != 1 {
			t.Errorf("%q: expected 1 candidate, got %d", tt.text, len(got))
			continue
		}
		if !got[0].Instant.Equal(tt.want) {
			t.Errorf("%q: expected %v, got %v", tt.text, tt.want, got[0].Instant)
		}
	}
}

func TestParse_UnknownMonthAbbreviation(t *testing.T) {
	if got := Parse("25Xyz23", entryFor(t, FormatDayMonAbbrev), time.UTC); len(got) != 0 {
		t.Errorf("Expected no candidate, got %v", got)
	}
}

func TestParse_MonthAbbreviationInsideWord(t *testing.T) {
	// "mar" is the tail of "Hamar", not a month.
	if got := Parse("Hamar_12_2018", entryFor(t, FormatMonAbbrevDay), time.UTC); len(got) != 0 {
		t.Errorf("Expected no candidate, got %v", got)
	}
}

func TestParse_YearMonthFixesFirstDay(t *testing.T) {
	got := Parse("2021-07", entryFor(t, FormatYearMonth), time.UTC)
	if len(got) != 1 || !got[0].Instant.Equal(day(2021, time.July, 1)) {
		t.Errorf("Expected 2021-07-01, got %v", got)
	}
	got = Parse("scan202107", entryFor(t, FormatCompactYearMonth), time.UTC)
	if len(got) != 1 || !got[0].Instant.Equal(day(2021, time.July, 1)) {
		t.Errorf("Expected 2021-07-01 from compact form, got %v", got)
	}
}

func TestParse_BareYear(t *testing.T) {
	e := entryFor(t, FormatYear)

	got := Parse("Vacation_2018", e, time.UTC)
	if len(got) != 1 || !got[0].Instant.Equal(day(2018, time.January, 1)) {
		t.Errorf("Expected 2018-01-01, got %v", got)
	}

	if got := Parse("IMG_123456", e, time.UTC); len(got) != 0 {
		t.Errorf("Expected no year inside a longer number, got %v", got)
	}
	if got := Parse("map_1850", e, time.UTC); len(got) != 0 {
		t.Errorf("Expected year outside 1900-2100 to be dropped, got %v", got)
	}
}

func TestParse_MultipleOccurrences(t *testing.T) {
	got := Parse("2018_to_2019", entryFor(t, FormatYear), time.UTC)
	want := []Parsed{
		{Instant: day(2018, time.January, 1), Shape: ShapeYear},
		{Instant: day(2019, time.January, 1), Shape: ShapeYear},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_TwoDigitYearPivot(t *testing.T) {
	got := Parse("31-12-68", entryFor(t, FormatDMYShort), time.UTC)
	if len(got) != 1 || got[0].Instant.Year() != 2068 {
		t.Errorf("Expected 2068, got %v", got)
	}
	got = Parse("31-12-69", entryFor(t, FormatDMYShort), time.UTC)
	if len(got) != 1 || got[0].Instant.Year() != 1969 {
		t.Errorf("Expected 1969, got %v", got)
	}
}

func TestShape_Granularity(t *testing.T) {
	tests := map[Shape]Granularity{
		ShapeDateTimeSeconds:  GranularitySeconds,
		ShapeCompactDateTime:  GranularitySeconds,
		ShapeDateTimeMinutes:  GranularityMinutes,
		ShapeYMD:              GranularityDate,
		ShapeDMY:              GranularityDate,
		ShapeMDY:              GranularityDate,
		ShapeCompactYMD:       GranularityDate,
		ShapeYearMonth:        GranularityYearMonth,
		ShapeCompactYearMonth: GranularityYearMonth,
		ShapeDayMonAbbrev:     GranularityOther,
		ShapeYMDShort:         GranularityOther,
		ShapeYear:             GranularityYear,
		ShapeNone:             GranularityNone,
	}
	for shape, want := range tests {
		if got := shape.Granularity(); got != want {
			t.Errorf("%s: expected granularity %d, got %d", shape, want, got)
		}
	}
}
