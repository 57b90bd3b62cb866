package internal

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// ErrManualDateUnparseable is returned when a user-supplied date matches
// none of the accepted layouts.
var ErrManualDateUnparseable = errors.New("could not parse manual date")

// manualLayouts are tried in order; the first that parses wins.
var manualLayouts = []string{
	"2006-01-02",
	"2006:01:02",
	"02-01-2006",
	"01-02-2006",
	"20060102",
	"2006-01-02 15:04:05",
	"2006:01:02 15:04:05",
}

// ParseManualDate parses a date given on the command line in loc.
func ParseManualDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s = strings.TrimSpace(s)
	for _, layout := range manualLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrManualDateUnparseable, s)
}

// getFileModTime returns the filesystem modification time.
func getFileModTime(path string) (time.Time, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return fi.ModTime(), nil
}

// setFileTimes sets both access and modification time to t.
func setFileTimes(path string, t time.Time) error {
	return os.Chtimes(path, t, t)
}
