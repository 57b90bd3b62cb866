package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"exfix/internal/dating"
)

// FixSession records one run of exfix as an append-only JSONL manifest.
type FixSession struct {
	ID           string   // Session ID (timestamp: 2025-01-15-103045)
	Dir          string   // Full path to session directory
	Root         string   // File or directory being fixed
	DryRun       bool
	ManifestFile *os.File // Open file handle for manifest.jsonl

	mu    sync.Mutex
	stats SessionStats
}

// SessionStats tracks what happened to each file in a session.
type SessionStats struct {
	Fixed   int
	NoDate  int
	Partial int
	Errors  int
}

// ManifestEvent represents a single event in the manifest log
type ManifestEvent struct {
	Event string `json:"event"`
	Ts    string `json:"ts"`
	Src   string `json:"src,omitempty"`

	// fixed
	Date   string `json:"date,omitempty"`
	Source string `json:"source,omitempty"`
	Score  int    `json:"score,omitempty"`
	Manual bool   `json:"manual,omitempty"`

	Error           string `json:"error,omitempty"`
	ErrorCategory   string `json:"error_category,omitempty"`
	ErrorSeverity   string `json:"error_severity,omitempty"`
	ErrorSuggestion string `json:"error_suggestion,omitempty"`

	// session start/end
	Root       string `json:"root,omitempty"`
	DryRun     bool   `json:"dry_run,omitempty"`
	TotalFiles int    `json:"total_files,omitempty"`
	Fixed      int    `json:"fixed,omitempty"`
	NoDate     int    `json:"no_date,omitempty"`
	Partial    int    `json:"partial,omitempty"`
	ErrorCount int    `json:"errors,omitempty"`
}

// NewFixSession creates <stateDir>/sessions/<id>/manifest.jsonl.
func NewFixSession(stateDir, root string, dryRun bool) (*FixSession, error) {
	sessionID := time.Now().Format("2006-01-02-150405")
	sessionDir := filepath.Join(stateDir, "sessions", sessionID)

	if err := os.MkdirAll(sessionDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	manifestPath := filepath.Join(sessionDir, "manifest.jsonl")
	manifestFile, err := os.OpenFile(manifestPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create manifest file: %w", err)
	}

	return &FixSession{
		ID:           sessionID,
		Dir:          sessionDir,
		Root:         root,
		DryRun:       dryRun,
		ManifestFile: manifestFile,
	}, nil
}

func (s *FixSession) LogSessionStart(totalFiles int) error {
	return s.writeEvent(ManifestEvent{
		Event:      "session_start",
		Root:       s.Root,
		DryRun:     s.DryRun,
		TotalFiles: totalFiles,
	})
}

// LogFixed records the date applied to src. A partial write is also logged
// as an error event by the caller.
func (s *FixSession) LogFixed(src string, applied time.Time, source string, score int, manual, partial bool) error {
	s.mu.Lock()
	if partial {
		s.stats.Partial++
	} else {
		s.stats.Fixed++
	}
	s.mu.Unlock()

	return s.writeEvent(ManifestEvent{
		Event:  "fixed",
		Src:    src,
		Date:   applied.Format(dating.ReportLayout),
		Source: source,
		Score:  score,
		Manual: manual,
	})
}

func (s *FixSession) LogNoDate(src string) error {
	s.mu.Lock()
	s.stats.NoDate++
	s.mu.Unlock()

	return s.writeEvent(ManifestEvent{Event: "no_date", Src: src})
}

// LogDetailedError logs a categorized error with full details
func (s *FixSession) LogDetailedError(src string, procErr *ProcessError) error {
	s.mu.Lock()
	s.stats.Errors++
	s.mu.Unlock()

	return s.writeEvent(ManifestEvent{
		Event:           "error",
		Src:             src,
		Error:           procErr.OriginalErr.Error(),
		ErrorCategory:   string(procErr.Category),
		ErrorSeverity:   string(procErr.Severity),
		ErrorSuggestion: procErr.Suggestion,
	})
}

func (s *FixSession) LogSessionEnd() error {
	stats := s.GetStats()
	return s.writeEvent(ManifestEvent{
		Event:      "session_end",
		Fixed:      stats.Fixed,
		NoDate:     stats.NoDate,
		Partial:    stats.Partial,
		ErrorCount: stats.Errors,
	})
}

func (s *FixSession) GetStats() SessionStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *FixSession) Close() error {
	if s.ManifestFile != nil {
		return s.ManifestFile.Close()
	}
	return nil
}

// writeEvent writes a manifest event as a JSON line
func (s *FixSession) writeEvent(event ManifestEvent) error {
	event.Ts = time.Now().UTC().Format(time.RFC3339)
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.ManifestFile.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write to manifest: %w", err)
	}
	return s.ManifestFile.Sync()
}
