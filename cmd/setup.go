package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"exfix/internal"
	"exfix/internal/dating"
)

// Flags shared by fix, scan and watch.
var (
	readerFlag  string
	dedupFlag   string
	workersFlag int
)

func loadConfig() (*internal.Config, error) {
	if configDirFlag != "" {
		return internal.LoadConfigFrom(configDirFlag)
	}
	return internal.LoadConfig()
}

// env holds what every command opens: config, logger and metadata backends.
type env struct {
	conf   *internal.Config
	logger *internal.Logger
	meta   *internal.Metadata
}

// openEnv loads config, applies command-line overrides and opens the logger
// and metadata backends.
func openEnv() (*env, error) {
	conf, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if readerFlag != "" {
		conf.Reader = readerFlag
	}
	if dedupFlag != "" {
		conf.Dedup = dedupFlag
	}
	if workersFlag > 0 {
		conf.Workers = workersFlag
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	logger, err := internal.NewLogger(conf.LogFile, conf.LogLevel)
	if err != nil {
		return nil, err
	}

	meta, err := internal.OpenMetadata(conf, logger)
	if err != nil {
		logger.Close()
		return nil, err
	}
	return &env{conf: conf, logger: logger, meta: meta}, nil
}

func (e *env) Close() {
	if err := e.meta.Close(); err != nil {
		e.logger.Warn("closing metadata backend: %v", err)
	}
	e.logger.Close()
}

// processor builds a Processor resolving against the current time in the
// local zone.
func (e *env) processor(out io.Writer, dryRun bool) (*internal.Processor, error) {
	policy, err := dating.ParseDedupPolicy(e.conf.Dedup)
	if err != nil {
		return nil, err
	}
	scanner := dating.NewScanner(time.Now(), time.Local)
	engine := dating.NewEngine(scanner, policy)
	engine.Paths = internal.NewPathCache(scanner, 0)

	return &internal.Processor{
		Engine:  engine,
		Reader:  e.meta.Reader,
		Writer:  e.meta.Writer,
		Logger:  e.logger,
		Out:     out,
		Timeout: e.conf.MetadataTimeout,
		DryRun:  dryRun,
	}, nil
}

// openSession starts a manifest when sessions are enabled. A failure is
// logged and the run continues without one.
func (e *env) openSession(root string, dryRun bool) *internal.FixSession {
	if !e.conf.Sessions {
		return nil
	}
	session, err := internal.NewFixSession(e.conf.StateDir, root, dryRun)
	if err != nil {
		e.logger.Warn("session manifest disabled: %v", err)
		return nil
	}
	return session
}

func closeSession(s *internal.FixSession, logger *internal.Logger) {
	if s == nil {
		return
	}
	if err := s.LogSessionEnd(); err != nil {
		logger.Warn("session manifest: %v", err)
	}
	s.Close()
}

func addBackendFlags(c *cobra.Command) {
	c.Flags().StringVar(&readerFlag, "reader", "", "Metadata backend: auto, exiftool or native (default from config)")
	c.Flags().StringVar(&dedupFlag, "dedup", "", "Same-instant policy: first-seen or highest-score (default from config)")
}

func describe(o *internal.Outcome) string {
	if o == nil || o.Applied.IsZero() {
		return "no date"
	}
	return fmt.Sprintf("%s from %s", o.Applied.Format(dating.ReportLayout), o.Origin)
}
