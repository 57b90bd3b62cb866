package internal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/barasher/go-exiftool"
	"github.com/codeGROOVE-dev/retry"

	"exfix/internal/dating"
)

var (
	// ErrMetadataWrite wraps failures writing the metadata fields.
	ErrMetadataWrite = errors.New("metadata write failed")
	// ErrFileTimes wraps failures setting filesystem times.
	ErrFileTimes = errors.New("file times update failed")
	// ErrMetadataWriteUnsupported is the metadata half of a write when no
	// backend can write metadata fields.
	ErrMetadataWriteUnsupported = errors.New("metadata writing needs exiftool")
)

// WrittenFields are set to the chosen date on write-back.
var WrittenFields = []string{
	dating.FieldDateTimeOriginal,
	dating.FieldCreateDate,
	dating.FieldDateTime,
}

// WriteResult reports the two halves of a write-back separately.
type WriteResult struct {
	MetadataErr error
	TimesErr    error
}

func (r WriteResult) OK() bool {
	return r.MetadataErr == nil && r.TimesErr == nil
}

// Err joins both halves, each wrapped in its own sentinel.
func (r WriteResult) Err() error {
	var errs []error
	if r.MetadataErr != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrMetadataWrite, r.MetadataErr))
	}
	if r.TimesErr != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrFileTimes, r.TimesErr))
	}
	return errors.Join(errs...)
}

// DateWriter applies a date to a file's metadata and filesystem times.
type DateWriter interface {
	WriteDates(ctx context.Context, path string, t time.Time) WriteResult
}

// WriteDates sets the primary metadata fields, then the filesystem times.
// The second step runs even when the first fails.
func (e *ExifTool) WriteDates(ctx context.Context, path string, t time.Time) WriteResult {
	var res WriteResult
	value := t.Format(dating.MetadataLayout)

	attempts := e.retries
	if attempts == 0 {
		attempts = 1
	}
	res.MetadataErr = retry.Do(
		func() error {
			return e.writeFields(path, value)
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(200*time.Millisecond),
		retry.MaxDelay(5*time.Second),
		retry.DelayType(retry.FullJitterBackoffDelay),
		retry.OnRetry(func(n uint, err error) {
			if e.logger != nil {
				e.logger.File(path).Warnf("retrying metadata write (attempt %d): %v", n+1, err)
			}
		}),
	)

	res.TimesErr = setFileTimes(path, t)
	return res
}

func (e *ExifTool) writeFields(path, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	fm := exiftool.FileMetadata{File: path, Fields: make(map[string]interface{})}
	for _, field := range WrittenFields {
		fm.SetString(field, value)
	}
	batch := []exiftool.FileMetadata{fm}
	e.et.WriteMetadata(batch)
	return batch[0].Err
}

// TimesOnlyWriter only touches filesystem times.
type TimesOnlyWriter struct{}

func (TimesOnlyWriter) WriteDates(_ context.Context, path string, t time.Time) WriteResult {
	return WriteResult{
		MetadataErr: ErrMetadataWriteUnsupported,
		TimesErr:    setFileTimes(path, t),
	}
}
