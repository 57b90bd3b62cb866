package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"exfix/internal"
)

var (
	formatFlag        string
	maxDepthFlag      int
	includeHiddenFlag bool
)

var scanCmd = &cobra.Command{
	Use:   "scan PATH",
	Short: "Show the dates exfix would choose, without writing anything",
	Long: `Resolve every media file under PATH and print the ranked candidates per file
followed by a summary: which sources won, the date range and the files for
which no date was found.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch formatFlag {
		case internal.FormatTable, internal.FormatJSON, internal.FormatYAML:
		default:
			return fmt.Errorf("unknown format %q: want table, json or yaml", formatFlag)
		}

		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		files, err := internal.ScanMediaFiles(args[0], e.conf, internal.ScanOptions{
			MaxDepth:      maxDepthFlag,
			IncludeHidden: includeHiddenFlag,
		})
		if err != nil {
			return err
		}

		// Structured output stays machine-readable: no per-file report.
		var report io.Writer
		if formatFlag == internal.FormatTable {
			report = cmd.OutOrStdout()
		}
		p, err := e.processor(report, true)
		if err != nil {
			return err
		}
		p.Progress = cmd.ErrOrStderr()

		res := p.ProcessFiles(cmd.Context(), files, e.conf.Workers)

		summary := internal.NewSummary()
		for i, o := range res.Outcomes {
			if o == nil && res.Errors[i] == nil {
				continue
			}
			summary.Add(o, res.Errors[i])
		}
		if err := summary.Render(cmd.OutOrStdout(), formatFlag); err != nil {
			return err
		}
		if res.Aborted != "" {
			return fmt.Errorf("scan aborted: %s", res.Aborted)
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().StringVar(&formatFlag, "format", internal.FormatTable, "Output format: table, json, yaml")
	scanCmd.Flags().IntVar(&maxDepthFlag, "max-depth", 0, "Maximum recursion depth (0 = unlimited)")
	scanCmd.Flags().BoolVar(&includeHiddenFlag, "include-hidden", false, "Include hidden files and folders")
	scanCmd.Flags().IntVar(&workersFlag, "workers", 0, "Files resolved in parallel (default from config)")
	addBackendFlags(scanCmd)

	rootCmd.AddCommand(scanCmd)
}
