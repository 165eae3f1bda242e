package commands

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mcpdock/mcpdock/internal/daemon"
)

var (
	daemonAddr  string
	daemonWatch bool
)

func init() {
	daemonCmd.Flags().StringVar(&daemonAddr, "addr", "",
		"listen address (default: daemon.addr from config)")
	daemonCmd.Flags().BoolVar(&daemonWatch, "watch", false,
		"also watch agent config files and reconcile on change")
	rootCmd.AddCommand(daemonCmd)
}

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the HTTP API daemon",
	Long: `Serve the mcpdock HTTP API. The daemon exposes the catalog, agents,
installations, the registry, and sync over REST, with an OpenAPI
document at /openapi.json.

With --watch the daemon also reconciles installation records whenever
an agent config file changes.`,
	Example: `  mcpdock daemon
  mcpdock daemon --addr localhost:9000 --watch`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		addr := daemonAddr
		if addr == "" {
			addr = a.cfg.Daemon.Addr
		}

		d, err := daemon.New(a.apiDependencies(), daemon.Options{
			Addr:        addr,
			CORSOrigins: a.cfg.Daemon.CORSOrigins,
			Watch:       daemonWatch,
			Version:     rootCmd.Version,
		}, slog.Default())
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(cmd.OutOrStdout(), "mcpdock daemon listening on %s\n", addr)
		return d.Run(ctx)
	},
}
