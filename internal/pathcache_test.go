package internal

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"exfix/internal/dating"
)

func TestPathCache_MatchesScanner(t *testing.T) {
	scanner := dating.NewScanner(testNow, time.UTC)
	cache := NewPathCache(scanner, 100)

	for _, path := range []string{
		"/photos/2020-Summer/a.jpg",
		"/photos/2020-Summer/b.jpg",
		"/photos/1999-01-01/c.jpg",
		"/photos/misc/d.jpg",
	} {
		wantC, wantR := scanner.ScanPath(path)
		gotC, gotR := cache.ScanPath(path)
		if diff := cmp.Diff(wantC, gotC); diff != "" {
			t.Errorf("%s candidates mismatch (-want +got):\n%s", path, diff)
		}
		if diff := cmp.Diff(wantR, gotR); diff != "" {
			t.Errorf("%s rejections mismatch (-want +got):\n%s", path, diff)
		}
	}
}

func TestPathCache_ReturnsCopies(t *testing.T) {
	cache := NewPathCache(dating.NewScanner(testNow, time.UTC), 0)

	first, _ := cache.ScanPath("/photos/2020-05/a.jpg")
	if len(first) == 0 {
		t.Fatal("Expected path candidates")
	}
	first[0].Instant = time.Time{}

	second, _ := cache.ScanPath("/photos/2020-05/b.jpg")
	if second[0].Instant.IsZero() {
		t.Error("Modifying a result should not affect the cache")
	}
}

func TestPathCache_InEngine(t *testing.T) {
	scanner := dating.NewScanner(testNow, time.UTC)
	engine := dating.NewEngine(scanner, dating.DedupFirstSeen)
	engine.Paths = NewPathCache(scanner, 10)

	res := engine.Resolve(dating.Sources{Path: "/photos/2020-Summer/beach.jpg"})
	if !res.Found {
		t.Fatal("Expected a path date")
	}
	if res.Best.Score != 10 || res.Best.Instant.Year() != 2020 {
		t.Errorf("Expected 2020 at 10, got %v at %d", res.Best.Instant, res.Best.Score)
	}
}
