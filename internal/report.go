package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"exfix/internal/dating"
)

// Summary output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

var (
	bestColor     = color.New(color.FgGreen, color.Bold)
	rejectedColor = color.New(color.FgHiBlack)
)

// PrintRanked writes the ranked candidate listing for one file. Rejected
// candidates follow, greyed out.
func PrintRanked(w io.Writer, res dating.Result) {
	if !res.Found {
		fmt.Fprintln(w, "No dates found in metadata, filename, or path")
	} else {
		fmt.Fprintln(w, "Found dates (sorted by precision):")
		for i, r := range res.Ranked {
			line := fmt.Sprintf("  %s from %s (score: %d)", r.Instant.Format(dating.ReportLayout), r.Provenance, r.Score)
			if i == 0 {
				bestColor.Fprintln(w, line+" <- BEST (most precise)")
				continue
			}
			fmt.Fprintln(w, line)
		}
	}
	for _, rej := range res.Rejections {
		rejectedColor.Fprintf(w, "  rejected %s (implausible)\n", rej)
	}
}

// Summary aggregates the outcomes of a run.
type Summary struct {
	Files     int            `json:"files" yaml:"files"`
	Dated     int            `json:"dated" yaml:"dated"`
	Undated   int            `json:"undated" yaml:"undated"`
	Failed    int            `json:"failed" yaml:"failed"`
	Bytes     int64          `json:"bytes" yaml:"bytes"`
	BySource  map[string]int `json:"by_source" yaml:"by_source"`
	ByOrigin  map[string]int `json:"by_origin" yaml:"by_origin"`
	Earliest  string         `json:"earliest,omitempty" yaml:"earliest,omitempty"`
	Latest    string         `json:"latest,omitempty" yaml:"latest,omitempty"`
	NoDate    []string       `json:"no_date,omitempty" yaml:"no_date,omitempty"`
	Rejected  int            `json:"rejected" yaml:"rejected"`
	earliest  time.Time
	latest    time.Time
}

func NewSummary() *Summary {
	return &Summary{
		BySource: make(map[string]int),
		ByOrigin: make(map[string]int),
	}
}

// Add folds one outcome into the summary. A nil outcome counts as a failed
// file.
func (s *Summary) Add(o *Outcome, err error) {
	s.Files++
	if o == nil {
		s.Failed++
		return
	}
	s.Bytes += o.Size
	s.Rejected += len(o.Result.Rejections)

	if o.Applied.IsZero() {
		s.Undated++
		s.NoDate = append(s.NoDate, o.Path)
		return
	}
	if err != nil {
		s.Failed++
	}

	s.Dated++
	s.BySource[o.Source]++
	s.ByOrigin[o.Origin]++

	if s.earliest.IsZero() || o.Applied.Before(s.earliest) {
		s.earliest = o.Applied
		s.Earliest = o.Applied.Format(dating.ReportLayout)
	}
	if s.latest.IsZero() || o.Applied.After(s.latest) {
		s.latest = o.Applied
		s.Latest = o.Applied.Format(dating.ReportLayout)
	}
}

// Render writes the summary as a table, JSON or YAML.
func (s *Summary) Render(w io.Writer, format string) error {
	switch format {
	case "", FormatTable:
		s.renderTable(w)
		return nil
	case FormatJSON:
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal summary: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("failed to marshal summary: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q: want table, json or yaml", format)
}

func (s *Summary) renderTable(w io.Writer) {
	fmt.Fprintf(w, "\nFiles:     %s (%s)\n", humanize.Comma(int64(s.Files)), humanize.Bytes(uint64(s.Bytes)))
	fmt.Fprintf(w, "Dated:     %s\n", humanize.Comma(int64(s.Dated)))
	fmt.Fprintf(w, "Undated:   %s\n", humanize.Comma(int64(s.Undated)))
	if s.Failed > 0 {
		fmt.Fprintf(w, "Failed:    %s\n", humanize.Comma(int64(s.Failed)))
	}
	if s.Rejected > 0 {
		fmt.Fprintf(w, "Rejected:  %s implausible candidates\n", humanize.Comma(int64(s.Rejected)))
	}
	if s.Earliest != "" {
		fmt.Fprintf(w, "Range:     %s .. %s\n", s.Earliest, s.Latest)
	}

	if len(s.BySource) > 0 {
		fmt.Fprintln(w, "\nBy source:")
		writeCounts(w, s.BySource)
	}
	if len(s.ByOrigin) > 0 {
		fmt.Fprintln(w, "\nBy origin:")
		writeCounts(w, s.ByOrigin)
	}
	if len(s.NoDate) > 0 {
		fmt.Fprintln(w, "\nNo date:")
		for _, p := range s.NoDate {
			fmt.Fprintf(w, "  %s\n", p)
		}
	}
}

// writeCounts prints counts largest first, ties by name.
func writeCounts(w io.Writer, counts map[string]int) {
	keys := make([]string, 0, len(counts))
	width := 0
	for k := range counts {
		keys = append(keys, k)
		width = max(width, len(k))
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys {
		fmt.Fprintf(w, "  %s%s  %s\n", k, strings.Repeat(" ", width-len(k)), humanize.Comma(int64(counts[k])))
	}
}
