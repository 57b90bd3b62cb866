package internal

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNoDateFound means no source yielded a usable date. Nothing is written.
var ErrNoDateFound = errors.New("no date found in metadata, filename or path")

// ErrorCategory represents the type of error encountered
type ErrorCategory string

const (
	ErrorCategoryIO            ErrorCategory = "io_error"       // File system, permissions
	ErrorCategoryMetadataRead  ErrorCategory = "metadata_read"  // Metadata could not be read
	ErrorCategoryMetadataWrite ErrorCategory = "metadata_write" // Metadata fields could not be written
	ErrorCategoryFileTimes     ErrorCategory = "fs_times"       // Access/modify times could not be set
	ErrorCategoryManualDate    ErrorCategory = "manual_date"    // User-supplied date did not parse
	ErrorCategoryNoDate        ErrorCategory = "no_date"        // Nothing to apply
	ErrorCategoryUnknown       ErrorCategory = "unknown_error"
)

// ErrorSeverity indicates how critical the error is
type ErrorSeverity string

const (
	ErrorSeverityCritical ErrorSeverity = "critical" // Stop the run
	ErrorSeverityError    ErrorSeverity = "error"    // This file failed
	ErrorSeverityWarning  ErrorSeverity = "warning"  // This file was skipped or partly fixed
)

// ProcessError represents a categorized error during file processing
type ProcessError struct {
	FilePath    string
	Category    ErrorCategory
	Severity    ErrorSeverity
	OriginalErr error
	Suggestion  string
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("[%s/%s] %s: %v", e.Severity, e.Category, e.FilePath, e.OriginalErr)
}

func (e *ProcessError) Unwrap() error {
	return e.OriginalErr
}

// CategorizeError classifies err, checking known sentinels before falling
// back to the message text.
func CategorizeError(filePath string, err error) *ProcessError {
	if err == nil {
		return nil
	}

	procErr := &ProcessError{
		FilePath:    filePath,
		OriginalErr: err,
	}
	errStr := strings.ToLower(err.Error())

	switch {
	case errors.Is(err, ErrManualDateUnparseable):
		procErr.Category = ErrorCategoryManualDate
		procErr.Severity = ErrorSeverityCritical
		procErr.Suggestion = "Use YYYY-MM-DD, YYYY:MM:DD, DD-MM-YYYY, MM-DD-YYYY, YYYYMMDD or 'YYYY-MM-DD HH:MM:SS'"

	case errors.Is(err, ErrNoDateFound):
		procErr.Category = ErrorCategoryNoDate
		procErr.Severity = ErrorSeverityWarning
		procErr.Suggestion = "Pass a date explicitly: exfix fix FILE YYYY-MM-DD"

	case errors.Is(err, ErrMetadataWriteUnsupported):
		procErr.Category = ErrorCategoryMetadataWrite
		procErr.Severity = ErrorSeverityWarning
		procErr.Suggestion = "Install exiftool to write metadata fields; file times were still updated"

	case strings.Contains(errStr, "no space left"),
		strings.Contains(errStr, "read-only file system"),
		strings.Contains(errStr, "too many open files"):
		procErr.Category = ErrorCategoryIO
		procErr.Severity = ErrorSeverityCritical
		procErr.Suggestion = "System-level problem - check disk space, mount options and ulimit"

	case strings.Contains(errStr, "permission denied"):
		procErr.Category = ErrorCategoryIO
		procErr.Severity = ErrorSeverityError
		procErr.Suggestion = "Check write permissions on the file and its directory"

	case errors.Is(err, ErrMetadataWrite):
		procErr.Category = ErrorCategoryMetadataWrite
		procErr.Severity = ErrorSeverityError
		procErr.Suggestion = "exiftool refused the write - the format may not support these tags"

	case errors.Is(err, ErrFileTimes):
		procErr.Category = ErrorCategoryFileTimes
		procErr.Severity = ErrorSeverityError
		procErr.Suggestion = "Filesystem times could not be set - check ownership of the file"

	case errors.Is(err, ErrMetadataUnavailable):
		procErr.Category = ErrorCategoryMetadataRead
		procErr.Severity = ErrorSeverityWarning
		procErr.Suggestion = "Metadata could not be read - filename and path were used instead"

	case strings.Contains(errStr, "no such file"):
		procErr.Category = ErrorCategoryIO
		procErr.Severity = ErrorSeverityError
		procErr.Suggestion = "File disappeared during processing"

	default:
		procErr.Category = ErrorCategoryUnknown
		procErr.Severity = ErrorSeverityError
		procErr.Suggestion = "Unexpected error - check logs for details"
	}

	return procErr
}

// ErrorStats tracks error statistics during a run
type ErrorStats struct {
	Total       int
	Critical    int
	Errors      int
	Warnings    int
	ByCategory  map[ErrorCategory]int
	LastErrors  []*ProcessError // Last 5 errors for quick diagnosis
	Consecutive int             // Consecutive failures, reset by a success
}

func NewErrorStats() *ErrorStats {
	return &ErrorStats{
		ByCategory: make(map[ErrorCategory]int),
		LastErrors: make([]*ProcessError, 0, 5),
	}
}

// Add records err. Warnings do not count towards consecutive failures.
func (s *ErrorStats) Add(err *ProcessError) {
	s.Total++
	s.ByCategory[err.Category]++

	switch err.Severity {
	case ErrorSeverityCritical:
		s.Critical++
		s.Consecutive++
	case ErrorSeverityError:
		s.Errors++
		s.Consecutive++
	case ErrorSeverityWarning:
		s.Warnings++
	}

	if len(s.LastErrors) >= 5 {
		s.LastErrors = s.LastErrors[1:]
	}
	s.LastErrors = append(s.LastErrors, err)
}

func (s *ErrorStats) ResetConsecutive() {
	s.Consecutive = 0
}

// ShouldAbort returns true if the run should stop based on error patterns
func (s *ErrorStats) ShouldAbort() (bool, string) {
	if s.Critical > 0 {
		return true, "Critical error detected - aborting remaining files"
	}
	if s.Consecutive >= 10 {
		return true, "10 consecutive errors detected - likely systemic issue (permissions, missing exiftool support)"
	}
	return false, ""
}

// GenerateReport creates a human-readable error report
func (s *ErrorStats) GenerateReport() string {
	var report strings.Builder

	fmt.Fprintf(&report, "\nEncountered %d problems:\n\n", s.Total)
	if s.Critical > 0 {
		fmt.Fprintf(&report, "  Critical: %d\n", s.Critical)
	}
	if s.Errors > 0 {
		fmt.Fprintf(&report, "  Errors:   %d\n", s.Errors)
	}
	if s.Warnings > 0 {
		fmt.Fprintf(&report, "  Warnings: %d\n", s.Warnings)
	}

	report.WriteString("\nCategories:\n")
	cats := make([]string, 0, len(s.ByCategory))
	for cat := range s.ByCategory {
		cats = append(cats, string(cat))
	}
	sort.Strings(cats)
	for _, cat := range cats {
		fmt.Fprintf(&report, "  - %s: %d\n", cat, s.ByCategory[ErrorCategory(cat)])
	}

	report.WriteString("\nRecent:\n")
	for i, err := range s.LastErrors {
		fmt.Fprintf(&report, "\n%d. %s\n", i+1, err.FilePath)
		fmt.Fprintf(&report, "   Category: %s | Severity: %s\n", err.Category, err.Severity)
		fmt.Fprintf(&report, "   Error: %v\n", err.OriginalErr)
		if err.Suggestion != "" {
			fmt.Fprintf(&report, "   Suggestion: %s\n", err.Suggestion)
		}
	}

	report.WriteString("\n")
	report.WriteString(s.generateSuggestions())
	return report.String()
}

func (s *ErrorStats) generateSuggestions() string {
	var suggestions strings.Builder
	suggestions.WriteString("Suggested next steps:\n")

	if s.ByCategory[ErrorCategoryIO] > 0 || s.ByCategory[ErrorCategoryFileTimes] > 0 {
		suggestions.WriteString("  - Check disk space and permissions\n")
	}
	if s.ByCategory[ErrorCategoryMetadataWrite] > 0 {
		suggestions.WriteString("  - Check that exiftool is installed and supports these formats\n")
	}
	if s.ByCategory[ErrorCategoryMetadataRead] > s.Total/2 {
		suggestions.WriteString("  - Many unreadable files - try --reader exiftool for wider format support\n")
	}
	if s.ByCategory[ErrorCategoryNoDate] > 0 {
		suggestions.WriteString("  - Files without dates can be fixed with an explicit date argument\n")
	}
	suggestions.WriteString("  - Check the session manifest for the full event log\n")

	return suggestions.String()
}
