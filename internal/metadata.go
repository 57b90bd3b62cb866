package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	mp4 "github.com/abema/go-mp4"
	"github.com/barasher/go-exiftool"
	"github.com/rwcarlsen/goexif/exif"

	"exfix/internal/dating"
)

// ErrMetadataUnavailable means the file's metadata could not be read at all.
// The metadata source then contributes nothing; it is not fatal.
var ErrMetadataUnavailable = errors.New("metadata unavailable")

// MetadataReader returns raw timestamps keyed by field name, each in
// "YYYY:MM:DD HH:MM:SS" form. Missing fields are simply absent.
type MetadataReader interface {
	ReadDates(ctx context.Context, path string) (map[string]string, error)
}

// ExifTool drives one long-lived exiftool process for both reading and
// writing. Calls are serialized; exiftool handles one request at a time.
type ExifTool struct {
	mu      sync.Mutex
	et      *exiftool.Exiftool
	retries uint
	logger  *Logger
}

// NewExifTool starts exiftool. binary may be empty to use the one on PATH.
func NewExifTool(binary string, retries uint, logger *Logger) (*ExifTool, error) {
	var opts []func(*exiftool.Exiftool) error
	if binary != "" {
		opts = append(opts, exiftool.SetExiftoolBinaryPath(binary))
	}
	et, err := exiftool.NewExiftool(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to start exiftool: %w", err)
	}
	return &ExifTool{et: et, retries: retries, logger: logger}, nil
}

func (e *ExifTool) ReadDates(ctx context.Context, path string) (map[string]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMetadataUnavailable, err)
	}

	infos := e.et.ExtractMetadata(path)
	if len(infos) == 0 {
		return nil, fmt.Errorf("%w: exiftool returned nothing for %s", ErrMetadataUnavailable, path)
	}
	fi := infos[0]
	if fi.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMetadataUnavailable, fi.Err)
	}

	out := make(map[string]string)
	for _, field := range dating.MetadataFields {
		if s, err := fi.GetString(field); err == nil && s != "" {
			out[field] = s
		}
	}
	return out, nil
}

func (e *ExifTool) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.et.Close()
}

// NativeReader reads dates without external tools: EXIF for images, the
// mvhd box for ISO-BMFF video, and the filesystem modification time.
type NativeReader struct {
	Location *time.Location
	Logger   *Logger
}

// appleEpochOffset is the number of seconds between 1904-01-01 and
// 1970-01-01, the mvhd and Unix epochs.
const appleEpochOffset = 2082844800

var isoBMFFExts = map[string]bool{
	".mp4": true,
	".mov": true,
	".m4v": true,
	".3gp": true,
	".3g2": true,
}

var exifDateFields = map[exif.FieldName]string{
	exif.DateTimeOriginal:  dating.FieldDateTimeOriginal,
	exif.DateTime:          dating.FieldDateTime,
	exif.DateTimeDigitized: dating.FieldDateTimeDigitized,
}

func (r NativeReader) ReadDates(ctx context.Context, path string) (map[string]string, error) {
	loc := r.Location
	if loc == nil {
		loc = time.Local
	}

	mod, err := getFileModTime(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMetadataUnavailable, err)
	}
	out := map[string]string{
		dating.FieldFileModifyDate: mod.In(loc).Format(dating.MetadataLayout),
	}

	ext := strings.ToLower(filepath.Ext(path))
	if isoBMFFExts[ext] {
		err = readMvhdDates(path, loc, out)
	} else {
		err = readExifDates(path, out)
	}
	if err != nil && r.Logger != nil {
		r.Logger.File(path).Debugf("no embedded dates: %v", err)
	}
	return out, nil
}

func readExifDates(path string, out map[string]string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return err
	}

	for name, field := range exifDateFields {
		tag, err := x.Get(name)
		if err != nil {
			continue
		}
		s, err := tag.StringVal()
		if err != nil {
			continue
		}
		out[field] = strings.TrimRight(s, "\x00 ")
	}
	return nil
}

func readMvhdDates(path string, loc *time.Location, out map[string]string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	boxes, err := mp4.ExtractBoxesWithPayload(f, nil, []mp4.BoxPath{
		{mp4.BoxTypeMoov(), mp4.BoxTypeMvhd()},
	})
	if err != nil {
		return fmt.Errorf("error reading MP4 structure: %w", err)
	}

	for _, box := range boxes {
		mvhd, ok := box.Payload.(*mp4.Mvhd)
		if !ok {
			continue
		}
		if t, ok := mvhdTime(mvhd.GetCreationTime()); ok {
			out[dating.FieldCreateDate] = t.In(loc).Format(dating.MetadataLayout)
		}
		if t, ok := mvhdTime(mvhd.GetModificationTime()); ok {
			out[dating.FieldModifyDate] = t.In(loc).Format(dating.MetadataLayout)
		}
		return nil
	}
	return fmt.Errorf("mvhd box not found in %s", path)
}

func mvhdTime(secs uint64) (time.Time, bool) {
	if secs == 0 {
		return time.Time{}, false
	}
	return time.Unix(int64(secs)-appleEpochOffset, 0), true
}

// readWithTimeout bounds a metadata read. A read that runs out of time is
// reported as unavailable metadata.
func readWithTimeout(ctx context.Context, r MetadataReader, path string, timeout time.Duration) (map[string]string, error) {
	if timeout <= 0 {
		return r.ReadDates(ctx, path)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		fields map[string]string
		err    error
	}
	ch := make(chan result, 1)
	go func() {
		fields, err := r.ReadDates(ctx, path)
		ch <- result{fields, err}
	}()

	select {
	case res := <-ch:
		return res.fields, res.err
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: reading %s: %v", ErrMetadataUnavailable, path, ctx.Err())
	}
}

// Metadata bundles the reader and writer picked for a run.
type Metadata struct {
	Reader MetadataReader
	Writer DateWriter
	close  func() error
}

func (m *Metadata) Close() error {
	if m.close == nil {
		return nil
	}
	return m.close()
}

// OpenMetadata picks the backends named by cfg.Reader. In auto mode a
// missing exiftool falls back to the native reader, which cannot write
// metadata fields.
func OpenMetadata(cfg *Config, logger *Logger) (*Metadata, error) {
	native := func() *Metadata {
		return &Metadata{Reader: NativeReader{Logger: logger}, Writer: TimesOnlyWriter{}}
	}

	switch cfg.Reader {
	case ReaderNative:
		return native(), nil
	case ReaderExifTool, ReaderAuto:
		et, err := NewExifTool(cfg.ExifToolPath, cfg.WriteRetries, logger)
		if err == nil {
			return &Metadata{Reader: et, Writer: et, close: et.Close}, nil
		}
		if cfg.Reader == ReaderExifTool {
			return nil, err
		}
		logger.Warn("exiftool not available, using native reader: %v", err)
		return native(), nil
	}
	return nil, fmt.Errorf("unknown reader %q", cfg.Reader)
}
