package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/mcp"
)

var installConfig []string

func init() {
	installCmd.Flags().StringSliceVar(&installConfig, "config", nil,
		"configuration overrides in KEY=VALUE format (repeatable)")
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(toggleCmd)
}

var installCmd = &cobra.Command{
	Use:   "install <server> [agents...]",
	Short: "Install a catalog server for agents",
	Long: `Install a catalog server into agents' native configuration files.

Agents can be named positionally or with --agent; with neither, the
server is installed for every detected agent in default_agents.

Without --config the installation follows the server's global
configuration: later 'server config set' changes reach it. With
--config the given keys are laid over the global configuration and the
installation keeps its custom value from then on.`,
	Example: `  mcpdock install github
  mcpdock install github claude copilot
  mcpdock install github claude --config GITHUB_TOKEN=ghp_personal`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInstall,
}

func runInstall(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp()
	if err != nil {
		return err
	}

	serverID := args[0]
	srv, err := a.servers.Store().Get(ctx, serverID)
	if err != nil {
		return err
	}
	if srv == nil {
		return errors.NewUserError(
			errors.Wrapf(errors.ErrServerNotFound, "%q", serverID),
			"Add it first with 'mcpdock server add "+serverID+"'")
	}

	overrides, err := parseKeyValueSlice(installConfig, "--config")
	if err != nil {
		return errors.NewUserError(err, "")
	}
	cfg := mcp.CloneConfig(srv.Configuration)
	if len(overrides) > 0 {
		if cfg == nil {
			cfg = make(map[string]string, len(overrides))
		}
		for k, v := range overrides {
			cfg[k] = v
		}
	}

	targets := args[1:]
	if len(targets) == 0 {
		detected, err := a.agents.DetectedAgents(ctx)
		if err != nil {
			return err
		}
		ids := make([]string, 0, len(detected))
		for _, ag := range detected {
			ids = append(ids, ag.ID)
		}
		targets = a.targetAgents(ids)
	}
	if len(targets) == 0 {
		return errors.NewUserError(
			errors.New("no target agents"),
			"No configured default agent is detected; name one explicitly, e.g. 'mcpdock install "+serverID+" claude'")
	}

	w := cmd.OutOrStdout()
	var failed []string
	for _, agentID := range targets {
		rec, err := a.installations.AddServerToAgent(ctx, serverID, agentID, cfg)
		if err != nil {
			failed = append(failed, agentID)
			fmt.Fprintf(w, "%s: failed: %v\n", agentID, err)
			continue
		}
		fmt.Fprintf(w, "%s: installed (%s)\n", agentID, rec.ID)
	}

	if len(failed) > 0 {
		return errors.NewSystemError(
			errors.Newf("installation failed for: %s", strings.Join(failed, ", ")), "")
	}
	return nil
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <server> [agents...]",
	Short: "Remove a server from agents",
	Long: `Remove a server from agents' native configuration files and drop the
installation records. With no agents named, the server is removed from
every agent it is installed for.`,
	Example: `  mcpdock uninstall github
  mcpdock uninstall github claude`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUninstall,
}

func runUninstall(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp()
	if err != nil {
		return err
	}

	serverID := args[0]
	targets := args[1:]
	if len(targets) == 0 {
		if len(agentFlag) > 0 {
			targets = agentFlag
		} else {
			installations, err := a.installations.InstallationsByServer(ctx, serverID)
			if err != nil {
				return err
			}
			for _, rec := range installations {
				targets = append(targets, rec.AgentID)
			}
		}
	}
	if len(targets) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%q is not installed for any agent.\n", serverID)
		return nil
	}

	w := cmd.OutOrStdout()
	var failed []string
	for _, agentID := range targets {
		removed, err := a.installations.RemoveServerFromAgent(ctx, serverID, agentID)
		if err != nil {
			failed = append(failed, agentID)
			fmt.Fprintf(w, "%s: failed: %v\n", agentID, err)
			continue
		}
		if !removed {
			fmt.Fprintf(w, "%s: nothing to remove\n", agentID)
			continue
		}
		fmt.Fprintf(w, "%s: removed\n", agentID)
	}

	if len(failed) > 0 {
		return errors.NewSystemError(
			errors.Newf("uninstall failed for: %s", strings.Join(failed, ", ")), "")
	}
	return nil
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <server> <agent>",
	Short: "Enable or disable an installed server",
	Long: `Flip a server between enabled and disabled for one agent. The
installation record keeps the configuration, so enabling restores the
previous state.`,
	Example: `  mcpdock toggle github claude`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp()
		if err != nil {
			return err
		}

		serverID, agentID := args[0], args[1]
		enabled, found, err := a.installations.ToggleServerEnabled(ctx, serverID, agentID)
		if err != nil {
			return err
		}
		if !found {
			return errors.NewUserError(
				errors.Wrapf(errors.ErrInstallationNotFound, "server %q on agent %q", serverID, agentID),
				"Install it first with 'mcpdock install "+serverID+" "+agentID+"'")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s for %s.\n", serverID, boolWord(enabled), agentID)
		return nil
	},
}
