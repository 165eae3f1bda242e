package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/reconcile"
)

var syncWatch bool

func init() {
	syncCmd.Flags().BoolVar(&syncWatch, "watch", false,
		"keep running and re-sync when agent config files change")
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile installation records with agent config files",
	Long: `Compare installation records against what the detected agents' config
files actually contain, then repair the records: servers found only in
an agent file get a record, records whose server vanished from the file
are dropped.

With --watch, sync keeps running and repeats the pass whenever an agent
config file changes. Stop it with Ctrl-C.`,
	Example: `  mcpdock sync
  mcpdock sync --watch`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		if syncWatch {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			fmt.Fprintln(cmd.OutOrStdout(), "Watching agent config files; Ctrl-C to stop.")
			if err := a.reconciler.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		}

		report, err := a.reconciler.Run(cmd.Context())
		if err != nil {
			return err
		}
		printSyncReport(cmd, report)
		return nil
	},
}

func printSyncReport(cmd *cobra.Command, report *reconcile.Report) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Scanned %d agent(s).\n", report.AgentsScanned)
	for _, change := range report.Added {
		fmt.Fprintf(w, "  + recorded %s on %s\n", change.ServerID, change.AgentID)
	}
	for _, change := range report.Removed {
		fmt.Fprintf(w, "  - dropped %s on %s\n", change.ServerID, change.AgentID)
	}
	if len(report.Added) == 0 && len(report.Removed) == 0 {
		fmt.Fprintln(w, "Everything in sync.")
	}
}
