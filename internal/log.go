package internal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Logger writes diagnostics to a log file. Console output stays with the
// commands.
type Logger struct {
	f   *os.File
	log *logrus.Logger
}

// NewLogger appends to path at the given level. An empty path discards
// everything.
func NewLogger(path, level string) (*Logger, error) {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	l.SetLevel(lvl)

	if path == "" {
		l.SetOutput(io.Discard)
		return &Logger{log: l}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	l.SetOutput(f)
	return &Logger{f: f, log: l}, nil
}

// NewDiscardLogger returns a logger that writes nowhere.
func NewDiscardLogger() *Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &Logger{log: l}
}

func (l *Logger) Log(format string, args ...interface{}) {
	l.log.Infof(format, args...)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.log.Debugf(format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.log.Warnf(format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.log.Errorf(format, args...)
}

// File returns an entry tagged with the file being processed.
func (l *Logger) File(path string) *logrus.Entry {
	return l.log.WithField("file", path)
}

func (l *Logger) Close() error {
	if l.f == nil {
		return nil
	}
	return l.f.Close()
}
