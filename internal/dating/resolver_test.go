package dating

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func newTestEngine() *Engine {
	return NewEngine(newTestScanner(), DedupFirstSeen)
}

func TestScore_Table(t *testing.T) {
	tests := []struct {
		p    Provenance
		want int
	}{
		{Provenance{Source: SourceMetadata, Field: FieldDateTimeOriginal}, 100},
		{Provenance{Source: SourceMetadata, Field: FieldCreateDate}, 95},
		{Provenance{Source: SourceMetadata, Field: FieldDateTime}, 90},
		{Provenance{Source: SourceMetadata, Field: FieldDateTimeDigitized}, 85},
		{Provenance{Source: SourceMetadata, Field: FieldModifyDate}, 80},
		{Provenance{Source: SourceMetadata, Field: FieldFileModifyDate}, 75},
		{Provenance{Source: SourceMetadata, Field: "GPSDateStamp"}, 0},
		{Provenance{Source: SourceFilename, Shape: ShapeDateTimeSeconds}, 70},
		{Provenance{Source: SourceFilename, Shape: ShapeDateTimeMinutes}, 65},
		{Provenance{Source: SourceFilename, Shape: ShapeMDY}, 60},
		{Provenance{Source: SourceFilename, Shape: ShapeCompactYearMonth}, 55},
		{Provenance{Source: SourceFilename, Shape: ShapeDayMonAbbrev}, 50},
		{Provenance{Source: SourceFilename, Shape: ShapeYear}, 20},
		{Provenance{Source: SourcePath, Shape: ShapeCompactDateTime}, 45},
		{Provenance{Source: SourcePath, Shape: ShapeDateTimeMinutes}, 40},
		{Provenance{Source: SourcePath, Shape: ShapeYMD}, 35},
		{Provenance{Source: SourcePath, Shape: ShapeYearMonth}, 30},
		{Provenance{Source: SourcePath, Shape: ShapeYMDShort}, 25},
		{Provenance{Source: SourcePath, Shape: ShapeYear}, 10},
		{Provenance{Source: SourcePath}, 0},
		{Provenance{}, 0},
	}
	for _, tt := range tests {
		if got := Score(tt.p); got != tt.want {
			t.Errorf("Score(%s) = %d, expected %d", tt.p, got, tt.want)
		}
	}
}

func TestResolve_Empty(t *testing.T) {
	res := Resolve(nil, DedupFirstSeen)
	if res.Found {
		t.Errorf("Expected no date found, got %v", res.Best)
	}
	if len(res.Ranked) != 0 {
		t.Errorf("Expected empty ranking, got %v", res.Ranked)
	}
}

func TestResolve_SortsByScoreThenEarliest(t *testing.T) {
	in := []Candidate{
		{day(2020, time.May, 5), Provenance{Source: SourcePath, Shape: ShapeYear}},
		{day(2021, time.June, 1), Provenance{Source: SourceFilename, Shape: ShapeYMD}},
		{day(2021, time.March, 1), Provenance{Source: SourceFilename, Shape: ShapeDMY}},
		{day(2019, time.January, 9), Provenance{Source: SourceMetadata, Field: FieldModifyDate}},
	}
	res := Resolve(in, DedupFirstSeen)

	var got []time.Time
	for _, r := range res.Ranked {
		got = append(got, r.Instant)
	}
	want := []time.Time{
		day(2019, time.January, 9),
		day(2021, time.March, 1),
		day(2021, time.June, 1),
		day(2020, time.May, 5),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Ranking mismatch (-want +got):\n%s", diff)
	}
	if !in[0].Instant.Equal(day(2020, time.May, 5)) || in[0].Provenance.Shape != ShapeYear {
		t.Error("Resolve modified its input")
	}
}

func TestResolve_DedupPolicies(t *testing.T) {
	when := day(2018, time.January, 1)
	in := []Candidate{
		{when, Provenance{Source: SourceFilename, Shape: ShapeYear}},
		{when, Provenance{Source: SourceMetadata, Field: FieldDateTimeOriginal}},
	}

	first := Resolve(in, DedupFirstSeen)
	if len(first.Ranked) != 1 || first.Best.Score != 20 {
		t.Errorf("Expected first-seen to keep the year-only candidate, got %v", first.Ranked)
	}

	best := Resolve(in, DedupHighestScore)
	if len(best.Ranked) != 1 || best.Best.Score != 100 {
		t.Errorf("Expected highest-score to keep the metadata candidate, got %v", best.Ranked)
	}
}

func TestParseDedupPolicy(t *testing.T) {
	if p, err := ParseDedupPolicy("highest-score"); err != nil || p != DedupHighestScore {
		t.Errorf("Expected highest-score, got %v, %v", p, err)
	}
	if p, err := ParseDedupPolicy(""); err != nil || p != DedupFirstSeen {
		t.Errorf("Expected first-seen default, got %v, %v", p, err)
	}
	if _, err := ParseDedupPolicy("newest"); err == nil {
		t.Error("Expected error for unknown policy")
	}
}

func TestEngine_MetadataBeatsFilename(t *testing.T) {
	res := newTestEngine().Resolve(Sources{
		Path:     "/home/user/IMG_20190501_120000.jpg",
		Metadata: map[string]string{FieldFileModifyDate: "2019:05:02 10:00:00"},
	})
	if !res.Found {
		t.Fatal("Expected a date")
	}

	want := time.Date(2019, time.May, 2, 10, 0, 0, 0, time.UTC)
	if !res.Best.Instant.Equal(want) || res.Best.Score != 75 {
		t.Errorf("Expected %v at 75, got %v at %d", want, res.Best.Instant, res.Best.Score)
	}

	filenameDT := time.Date(2019, time.May, 1, 12, 0, 0, 0, time.UTC)
	found := false
	for _, r := range res.Ranked {
		if r.Instant.Equal(filenameDT) {
			found = true
			if r.Score != 70 {
				t.Errorf("Expected filename date-time at 70, got %d", r.Score)
			}
		}
	}
	if !found {
		t.Error("Expected the filename date-time in the ranking")
	}
}

func TestEngine_YearOnlyFilename(t *testing.T) {
	res := newTestEngine().Resolve(Sources{Path: "Vacation_2018.jpg"})
	if !res.Found {
		t.Fatal("Expected a date")
	}
	if !res.Best.Instant.Equal(day(2018, time.January, 1)) {
		t.Errorf("Expected 2018-01-01, got %v", res.Best.Instant)
	}
	if res.Best.Score != 20 || res.Best.Provenance.Source != SourceFilename || res.Best.Provenance.Shape != ShapeYear {
		t.Errorf("Expected filename year-only at 20, got %s at %d", res.Best.Provenance, res.Best.Score)
	}
}

func TestEngine_YearOnlyPath(t *testing.T) {
	res := newTestEngine().Resolve(Sources{Path: "/photos/2020-Summer/beach.jpg"})
	if !res.Found {
		t.Fatal("Expected a date")
	}
	if !res.Best.Instant.Equal(day(2020, time.January, 1)) || res.Best.Score != 10 {
		t.Errorf("Expected 2020-01-01 at 10, got %v at %d", res.Best.Instant, res.Best.Score)
	}
	if len(res.Ranked) != 1 {
		t.Errorf("Expected a single candidate, got %v", res.Ranked)
	}
}

func TestEngine_AmbiguousPicksEarliest(t *testing.T) {
	res := newTestEngine().Resolve(Sources{Path: "scan_03-04-2024.png"})
	if !res.Best.Instant.Equal(day(2024, time.March, 4)) {
		t.Errorf("Expected 2024-03-04, got %v", res.Best.Instant)
	}

	var atSixty int
	for _, r := range res.Ranked {
		if r.Score == 60 {
			atSixty++
		}
	}
	if atSixty != 2 {
		t.Errorf("Expected both interpretations at 60, got %d", atSixty)
	}
}

func TestEngine_SentinelExcludedEverywhere(t *testing.T) {
	res := newTestEngine().Resolve(Sources{
		Path:     "/2000-01-01/2000-01-01 00-00.jpg",
		Metadata: map[string]string{FieldDateTimeOriginal: "2000:01:01 12:00:00"},
	})
	for _, r := range res.Ranked {
		if r.Instant.Year() == 2000 && r.Instant.YearDay() == 1 {
			t.Errorf("Sentinel date leaked into ranking: %v from %s", r.Instant, r.Provenance)
		}
	}
	if len(res.Rejections) == 0 {
		t.Error("Expected rejections to be reported")
	}
}

func TestEngine_NothingFound(t *testing.T) {
	res := newTestEngine().Resolve(Sources{
		Path:     "/photos/holiday/beach.jpg",
		Metadata: map[string]string{FieldDateTimeOriginal: "garbage"},
	})
	if res.Found {
		t.Errorf("Expected no date, got %v", res.Best)
	}
}

func TestEngine_Idempotent(t *testing.T) {
	e := newTestEngine()
	src := Sources{
		Path:     "/2019/trip 2019-06/IMG_20190614_101500.jpg",
		Metadata: map[string]string{FieldCreateDate: "2019:06:14 10:15:00", FieldModifyDate: "2020:01:02 03:04:05"},
	}
	a := e.Resolve(src)
	b := e.Resolve(src)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("Resolve not idempotent (-first +second):\n%s", diff)
	}
}

type countingPaths struct {
	calls int
	inner *Scanner
}

func (c *countingPaths) ScanPath(path string) ([]Candidate, []Rejection) {
	c.calls++
	return c.inner.ScanPath(path)
}

func TestEngine_UsesPathScanner(t *testing.T) {
	e := newTestEngine()
	paths := &countingPaths{inner: e.Scanner}
	e.Paths = paths

	res := e.Resolve(Sources{Path: "/2016/a.jpg"})
	if paths.calls != 1 {
		t.Errorf("Expected the path scanner to be used once, got %d", paths.calls)
	}
	if !res.Found || res.Best.Instant.Year() != 2016 {
		t.Errorf("Expected 2016 from path, got %v", res.Best)
	}
}
