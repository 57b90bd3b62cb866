package dating

import (
	"path/filepath"
	"strings"
	"time"
)

// MetadataLayout is the textual form metadata readers hand over.
const MetadataLayout = "2006:01:02 15:04:05"

// Scanner turns raw text from each evidence source into candidates. It holds
// no mutable state and is safe for concurrent use.
type Scanner struct {
	// Now bounds the sanity filter.
	Now time.Time
	// Location interprets wall-clock dates; nil means time.Local.
	Location  *time.Location
	Catalogue []Entry
}

// NewScanner returns a scanner over the standard catalogue.
func NewScanner(now time.Time, loc *time.Location) *Scanner {
	return &Scanner{Now: now, Location: loc, Catalogue: Catalogue()}
}

func (s *Scanner) location() *time.Location {
	if s.Location == nil {
		return time.Local
	}
	return s.Location
}

// ScanMetadata reads the recognized fields in preference order. Values that
// do not parse are skipped; values that parse but are implausible come back
// as rejections.
func (s *Scanner) ScanMetadata(fields map[string]string) ([]Candidate, []Rejection) {
	var (
		out      []Candidate
		rejected []Rejection
	)
	for _, field := range MetadataFields {
		raw, ok := fields[field]
		if !ok {
			continue
		}
		t, ok := ParseMetadataValue(raw, s.location())
		if !ok {
			continue
		}
		p := Provenance{Source: SourceMetadata, Field: field}
		if !Plausible(t, s.Now) {
			rejected = append(rejected, Rejection{Instant: t, Provenance: p})
			continue
		}
		out = append(out, Candidate{Instant: t, Provenance: p})
	}
	return out, rejected
}

// ParseMetadataValue parses "YYYY:MM:DD HH:MM:SS". Anything after the
// seconds, such as sub-seconds or a zone offset, is ignored.
func ParseMetadataValue(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if len(raw) < len(MetadataLayout) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(MetadataLayout, raw[:len(MetadataLayout)], loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ScanFilename scans the base name of path with its extension removed.
func (s *Scanner) ScanFilename(path string) ([]Candidate, []Rejection) {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return s.ScanText(stem, SourceFilename)
}

// ScanPath scans every directory component of path independently.
func (s *Scanner) ScanPath(path string) ([]Candidate, []Rejection) {
	var (
		out      []Candidate
		rejected []Rejection
	)
	for _, seg := range DirSegments(path) {
		c, r := s.ScanText(seg, SourcePath)
		out = append(out, c...)
		rejected = append(rejected, r...)
	}
	return out, rejected
}

// ScanText runs the whole catalogue over text and tags the results.
func (s *Scanner) ScanText(text string, src Source) ([]Candidate, []Rejection) {
	var (
		out      []Candidate
		rejected []Rejection
	)
	for _, e := range s.Catalogue {
		for _, p := range Parse(text, e, s.location()) {
			prov := Provenance{Source: src, Shape: p.Shape}
			if !Plausible(p.Instant, s.Now) {
				rejected = append(rejected, Rejection{Instant: p.Instant, Provenance: prov})
				continue
			}
			out = append(out, Candidate{Instant: p.Instant, Provenance: prov})
		}
	}
	return out, rejected
}

// DirSegments returns the directory components of path, outermost first.
func DirSegments(path string) []string {
	dir := filepath.ToSlash(filepath.Dir(path))
	var segs []string
	for _, seg := range strings.Split(dir, "/") {
		if seg == "" || seg == "." || seg == ".." {
			continue
		}
		segs = append(segs, seg)
	}
	return segs
}
