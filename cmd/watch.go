package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"exfix/internal"
)

var (
	settleFlag      time.Duration
	watchDryRunFlag bool
)

var watchCmd = &cobra.Command{
	Use:   "watch DIR",
	Short: "Fix media files as they arrive in a directory",
	Long: `Watch DIR and its subdirectories. Each new or changed media file is fixed
once writes to it have settled. Stops on SIGINT or SIGTERM.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("folder does not exist or is not a directory: %s", dir)
		}

		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		out := cmd.OutOrStdout()
		p, err := e.processor(out, watchDryRunFlag)
		if err != nil {
			return err
		}
		p.Session = e.openSession(dir, watchDryRunFlag)
		defer closeSession(p.Session, e.logger)
		if p.Session != nil {
			p.Session.LogSessionStart(0)
		}

		w, err := internal.NewWatcher(dir, e.conf, settleFlag)
		if err != nil {
			return fmt.Errorf("failed to start watcher: %w", err)
		}
		defer w.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", dir)
		e.logger.Log("watching %s", dir)

		// Our own write re-triggers the watcher; mute the file for longer
		// than a write plus one settle period can take.
		mute := e.conf.MetadataTimeout + 2*settleFlag
		for {
			select {
			case <-ctx.Done():
				fmt.Fprintln(out, "\nStopped")
				return nil

			case path := <-w.Events():
				w.Mute(path, mute)
				o, err := p.ProcessFile(ctx, path)
				switch {
				case errors.Is(err, context.Canceled):
					return nil
				case err != nil:
					e.logger.File(path).Errorf("fix failed: %v", err)
				default:
					e.logger.File(path).Infof("watch: %s", describe(o))
				}

			case err := <-w.Errors():
				e.logger.Error("watcher: %v", err)
			}
		}
	},
}

func init() {
	watchCmd.Flags().DurationVar(&settleFlag, "settle", internal.DefaultSettle, "Quiet period before a changed file is processed")
	watchCmd.Flags().BoolVar(&watchDryRunFlag, "dry-run", false, "Show the chosen dates without writing anything")
	addBackendFlags(watchCmd)

	rootCmd.AddCommand(watchCmd)
}
