package internal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/sourcegraph/conc/pool"

	"exfix/internal/dating"
)

// SourceManual tags dates given on the command line.
const SourceManual = "manual"

// Outcome is what happened to one file.
type Outcome struct {
	Path   string
	Size   int64
	Result dating.Result
	// Applied is the chosen date; zero when none was found.
	Applied time.Time
	Source  string // metadata, filename, path or manual
	Origin  string // full provenance, e.g. metadata:DateTimeOriginal
	Score   int
	Written bool
	Write   WriteResult
}

// Processor resolves and applies dates to files. It is safe for concurrent
// use once configured.
type Processor struct {
	Engine  *dating.Engine
	Reader  MetadataReader
	Writer  DateWriter
	Logger  *Logger
	Session *FixSession

	// Out receives the per-file report; nil discards it.
	Out io.Writer
	// Progress receives the progress bar in batch runs; nil hides it.
	Progress io.Writer

	Timeout time.Duration
	DryRun  bool
	// Manual overrides resolution for every file when set.
	Manual *time.Time

	outMu sync.Mutex
}

// ProcessFile resolves a date for path and, unless in dry-run mode, writes
// it back. The returned outcome is non-nil whenever path exists.
func (p *Processor) ProcessFile(ctx context.Context, path string) (*Outcome, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("file %s does not exist: %w", path, err)
	}

	var buf bytes.Buffer
	defer p.flush(&buf)

	fmt.Fprintf(&buf, "\nProcessing: %s\n", path)
	out := &Outcome{Path: path, Size: info.Size()}

	if p.Manual != nil {
		out.Applied = *p.Manual
		out.Source = SourceManual
		out.Origin = SourceManual
		fmt.Fprintf(&buf, "Using manually specified date: %s\n", out.Applied.Format(dating.ReportLayout))
	} else {
		fields, err := readWithTimeout(ctx, p.Reader, path, p.Timeout)
		if err != nil {
			p.log().File(path).Warnf("metadata skipped: %v", err)
			p.logError(path, err)
		}

		out.Result = p.Engine.Resolve(dating.Sources{Path: path, Metadata: fields})
		for _, rej := range out.Result.Rejections {
			p.log().File(path).Debugf("rejected %s", rej)
		}
		PrintRanked(&buf, out.Result)

		if !out.Result.Found {
			p.logNoDate(path)
			return out, ErrNoDateFound
		}
		best := out.Result.Best
		out.Applied = best.Instant
		out.Source = best.Provenance.Source.String()
		out.Origin = best.Provenance.String()
		out.Score = best.Score
		fmt.Fprintf(&buf, "Using most precise date from: %s\n", out.Origin)
	}

	if p.DryRun {
		fmt.Fprintf(&buf, "Would set date to: %s\n", out.Applied.Format(dating.ReportLayout))
		return out, nil
	}

	fmt.Fprintf(&buf, "Setting date to: %s\n", out.Applied.Format(dating.ReportLayout))
	out.Write = p.Writer.WriteDates(ctx, path, out.Applied)
	out.Written = true

	werr := writeError(out.Write)
	if errors.Is(out.Write.MetadataErr, ErrMetadataWriteUnsupported) && out.Write.TimesErr == nil {
		fmt.Fprintf(&buf, "Updated file times for %s (metadata fields need exiftool)\n", path)
	} else if werr == nil {
		fmt.Fprintf(&buf, "Successfully updated dates for %s\n", path)
	} else {
		fmt.Fprintf(&buf, "Error updating dates: %v\n", werr)
	}
	p.logFixed(out, werr != nil)

	if werr != nil {
		p.logError(path, werr)
		return out, werr
	}
	p.log().File(path).Infof("set %s from %s", out.Applied.Format(dating.ReportLayout), out.Origin)
	return out, nil
}

// writeError drops the expected "unsupported" metadata half so a
// times-only write of a good date counts as success.
func writeError(r WriteResult) error {
	if errors.Is(r.MetadataErr, ErrMetadataWriteUnsupported) {
		r.MetadataErr = nil
	}
	return r.Err()
}

// BatchResult collects per-file outcomes in input order.
type BatchResult struct {
	Outcomes []*Outcome
	Errors   []error
	Stats    *ErrorStats
	Aborted  string
}

// Succeeded counts files that got a date without error.
func (b *BatchResult) Succeeded() int {
	n := 0
	for i, o := range b.Outcomes {
		if o != nil && b.Errors[i] == nil {
			n++
		}
	}
	return n
}

// ProcessFiles runs files through a bounded worker pool. A critical error or
// a long streak of failures cancels the files not yet started.
func (p *Processor) ProcessFiles(ctx context.Context, files []string, workers int) *BatchResult {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	res := &BatchResult{
		Outcomes: make([]*Outcome, len(files)),
		Errors:   make([]error, len(files)),
		Stats:    NewErrorStats(),
	}

	var bar *progressbar.ProgressBar
	if p.Progress != nil {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetWriter(p.Progress),
			progressbar.OptionSetDescription("Fixing"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	var statsMu sync.Mutex
	wp := pool.New().WithMaxGoroutines(workers)
	for i, f := range files {
		wp.Go(func() {
			if ctx.Err() != nil {
				return
			}
			out, err := p.ProcessFile(ctx, f)
			res.Outcomes[i], res.Errors[i] = out, err
			if bar != nil {
				bar.Add(1)
			}

			statsMu.Lock()
			defer statsMu.Unlock()
			if err == nil {
				res.Stats.ResetConsecutive()
				return
			}
			res.Stats.Add(CategorizeError(f, err))
			if abort, reason := res.Stats.ShouldAbort(); abort && res.Aborted == "" {
				res.Aborted = reason
				p.log().Error("aborting: %s", reason)
				cancel()
			}
		})
	}
	wp.Wait()
	if bar != nil {
		bar.Finish()
	}
	return res
}

var discardLogger = NewDiscardLogger()

func (p *Processor) log() *Logger {
	if p.Logger == nil {
		return discardLogger
	}
	return p.Logger
}

func (p *Processor) flush(buf *bytes.Buffer) {
	if p.Out == nil {
		return
	}
	p.outMu.Lock()
	defer p.outMu.Unlock()
	p.Out.Write(buf.Bytes())
}

func (p *Processor) logFixed(out *Outcome, partial bool) {
	if p.Session == nil {
		return
	}
	if err := p.Session.LogFixed(out.Path, out.Applied, out.Origin, out.Score, out.Source == SourceManual, partial); err != nil {
		p.log().Warn("session manifest: %v", err)
	}
}

func (p *Processor) logNoDate(path string) {
	p.log().File(path).Warn("no date found")
	if p.Session == nil {
		return
	}
	if err := p.Session.LogNoDate(path); err != nil {
		p.log().Warn("session manifest: %v", err)
	}
}

func (p *Processor) logError(path string, err error) {
	if p.Session == nil {
		return
	}
	if err := p.Session.LogDetailedError(path, CategorizeError(path, err)); err != nil {
		p.log().Warn("session manifest: %v", err)
	}
}
