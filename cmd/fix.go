package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"exfix/internal"
)

var fixDryRunFlag bool

var fixCmd = &cobra.Command{
	Use:   "fix PATH [DATE]",
	Short: "Set the best date on a file or every media file in a directory",
	Long: `Resolve the most precise date for each file and write it to DateTimeOriginal,
CreateDate and DateTime plus the filesystem access and modification times.

DATE overrides resolution for every file. Accepted forms: YYYY-MM-DD,
YYYY:MM:DD, DD-MM-YYYY, MM-DD-YYYY, YYYYMMDD, 'YYYY-MM-DD HH:MM:SS' and
'YYYY:MM:DD HH:MM:SS'.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		var manual *time.Time
		if len(args) == 2 {
			t, err := internal.ParseManualDate(args[1], time.Local)
			if err != nil {
				return err
			}
			manual = &t
		}

		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("%s is not a valid file or directory", path)
		}

		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		out := cmd.OutOrStdout()
		p, err := e.processor(out, fixDryRunFlag)
		if err != nil {
			return err
		}
		p.Manual = manual

		if !info.IsDir() {
			p.Session = e.openSession(path, fixDryRunFlag)
			defer closeSession(p.Session, e.logger)
			if p.Session != nil {
				p.Session.LogSessionStart(1)
			}
			_, err := p.ProcessFile(cmd.Context(), path)
			return err
		}

		files, err := internal.ScanMediaFiles(path, e.conf, internal.ScanOptions{})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Found %d media files\n", len(files))
		if fixDryRunFlag {
			fmt.Fprintln(out, "Dry run mode: no files will be modified")
		}

		p.Session = e.openSession(path, fixDryRunFlag)
		defer closeSession(p.Session, e.logger)
		if p.Session != nil {
			p.Session.LogSessionStart(len(files))
		}
		p.Progress = cmd.ErrOrStderr()

		res := p.ProcessFiles(cmd.Context(), files, e.conf.Workers)
		fmt.Fprintf(out, "\nProcessed %d files, %d successful\n", len(files), res.Succeeded())
		if res.Stats.Total > 0 {
			fmt.Fprint(cmd.ErrOrStderr(), res.Stats.GenerateReport())
		}
		if res.Aborted != "" {
			return fmt.Errorf("run aborted: %s", res.Aborted)
		}
		return nil
	},
}

func init() {
	fixCmd.Flags().BoolVar(&fixDryRunFlag, "dry-run", false, "Show the chosen dates without writing anything")
	fixCmd.Flags().IntVar(&workersFlag, "workers", 0, "Files processed in parallel (default from config)")
	addBackendFlags(fixCmd)

	rootCmd.AddCommand(fixCmd)
}
