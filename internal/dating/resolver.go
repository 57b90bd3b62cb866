package dating

import (
	"fmt"
	"slices"
)

// DedupPolicy decides which provenance survives when two candidates share
// an instant.
type DedupPolicy int

const (
	// DedupFirstSeen keeps the first candidate seen for an instant, even if a
	// later one scores higher.
	DedupFirstSeen DedupPolicy = iota
	// DedupHighestScore keeps the best-scoring candidate for an instant.
	DedupHighestScore
)

// ParseDedupPolicy accepts "first-seen" and "highest-score".
func ParseDedupPolicy(s string) (DedupPolicy, error) {
	switch s {
	case "", "first-seen":
		return DedupFirstSeen, nil
	case "highest-score":
		return DedupHighestScore, nil
	}
	return DedupFirstSeen, fmt.Errorf("unknown dedup policy %q", s)
}

func (p DedupPolicy) String() string {
	if p == DedupHighestScore {
		return "highest-score"
	}
	return "first-seen"
}

// Ranked is a candidate with its score.
type Ranked struct {
	Candidate
	Score int
}

// Result is the outcome of one resolution. Ranked is sorted best first;
// Best is Ranked[0] when Found.
type Result struct {
	Found      bool
	Best       Ranked
	Ranked     []Ranked
	Rejections []Rejection
}

// Resolve deduplicates candidates by instant and ranks them by score
// descending, then instant ascending. The input slice is not modified.
func Resolve(candidates []Candidate, policy DedupPolicy) Result {
	index := make(map[int64]int, len(candidates))
	ranked := make([]Ranked, 0, len(candidates))
	for _, c := range candidates {
		r := Ranked{Candidate: c, Score: Score(c.Provenance)}
		key := c.Instant.Unix()
		if i, seen := index[key]; seen {
			if policy == DedupHighestScore && r.Score > ranked[i].Score {
				ranked[i] = r
			}
			continue
		}
		index[key] = len(ranked)
		ranked = append(ranked, r)
	}

	slices.SortStableFunc(ranked, func(a, b Ranked) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		return a.Instant.Compare(b.Instant)
	})

	res := Result{Ranked: ranked}
	if len(ranked) > 0 {
		res.Found = true
		res.Best = ranked[0]
	}
	return res
}

// Sources is the raw evidence for one file.
type Sources struct {
	Path string
	// Metadata maps field name to "YYYY:MM:DD HH:MM:SS". Nil when the
	// metadata could not be read.
	Metadata map[string]string
}

// PathScanner produces directory candidates; it lets callers put a cache in
// front of Scanner.ScanPath.
type PathScanner interface {
	ScanPath(path string) ([]Candidate, []Rejection)
}

// Engine runs the three scanners and the resolver for one file at a time.
type Engine struct {
	Scanner *Scanner
	Paths   PathScanner
	Policy  DedupPolicy
}

// NewEngine returns an engine using s for every source.
func NewEngine(s *Scanner, policy DedupPolicy) *Engine {
	return &Engine{Scanner: s, Policy: policy}
}

// Resolve scans metadata, filename and path, in that order, and ranks the
// result.
func (e *Engine) Resolve(src Sources) Result {
	paths := e.Paths
	if paths == nil {
		paths = e.Scanner
	}

	meta, metaRejected := e.Scanner.ScanMetadata(src.Metadata)
	name, nameRejected := e.Scanner.ScanFilename(src.Path)
	dirs, dirRejected := paths.ScanPath(src.Path)

	all := make([]Candidate, 0, len(meta)+len(name)+len(dirs))
	all = append(all, meta...)
	all = append(all, name...)
	all = append(all, dirs...)

	res := Resolve(all, e.Policy)
	res.Rejections = slices.Concat(metaRejected, nameRejected, dirRejected)
	return res
}
