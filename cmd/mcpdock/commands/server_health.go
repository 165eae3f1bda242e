package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/health"
)

var healthTimeout = health.DefaultTimeout

func init() {
	serverHealthCmd.Flags().DurationVar(&healthTimeout, "timeout", health.DefaultTimeout,
		"how long to wait for the initialize handshake")
	serverCmd.AddCommand(serverHealthCmd)
}

var serverHealthCmd = &cobra.Command{
	Use:   "health <id>",
	Short: "Probe a server's health",
	Long: `Launch a server with its global configuration and perform the MCP
initialize handshake. A server that completes the handshake is healthy.`,
	Example: `  mcpdock server health github`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp()
		if err != nil {
			return err
		}

		id := args[0]
		srv, err := a.servers.Store().Get(ctx, id)
		if err != nil {
			return err
		}
		if srv == nil {
			return errors.Wrapf(errors.ErrServerNotFound, "%q", id)
		}

		prober := health.NewProber(healthTimeout)
		status, err := prober.Probe(ctx, id, srv.Configuration)
		if err != nil {
			if errors.Is(err, health.ErrNoCommand) {
				return errors.NewUserError(err,
					"Set a launch command with 'mcpdock server config set "+id+" command=...'")
			}
			return err
		}

		w := cmd.OutOrStdout()
		if status.Healthy {
			fmt.Fprintf(w, "%s: healthy (%s, %s)\n", id, status.Detail, status.Latency.Round(timePrecision))
			return nil
		}
		fmt.Fprintf(w, "%s: unhealthy: %s\n", id, status.Detail)
		return errors.NewSystemError(
			errors.Newf("server %q failed its health check", id),
			"Check the server's command and configuration with 'mcpdock server show "+id+"'")
	},
}
