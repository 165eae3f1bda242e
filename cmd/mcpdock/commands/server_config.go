package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcpdock/mcpdock/internal/configuration"
	"github.com/mcpdock/mcpdock/internal/errors"
)

// serverConfigReplace switches 'config set' from merge to replace mode.
var serverConfigReplace bool

func init() {
	serverConfigSetCmd.Flags().BoolVar(&serverConfigReplace, "replace", false,
		"replace the whole configuration instead of merging the given keys")
	serverConfigCmd.AddCommand(serverConfigSetCmd)
	serverConfigCmd.AddCommand(serverConfigShowCmd)
	serverCmd.AddCommand(serverConfigCmd)
}

var serverConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage a server's global configuration",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var serverConfigSetCmd = &cobra.Command{
	Use:   "set <id> KEY=VALUE...",
	Short: "Update a server's global configuration",
	Long: `Update a server's global configuration.

By default the given keys are merged into the existing configuration;
--replace swaps the whole configuration for exactly the given keys.

Installations still tracking the previous global value follow the
change. Installations with their own override keep it; update those with
'mcpdock install <server> <agent> --config'.`,
	Example: `  mcpdock server config set github GITHUB_TOKEN=ghp_new
  mcpdock server config set github command=npx "args=-y @modelcontextprotocol/server-github" --replace`,
	Args: cobra.MinimumNArgs(2),
	RunE: runServerConfigSet,
}

func runServerConfigSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp()
	if err != nil {
		return err
	}

	id := args[0]
	updates, err := parseKeyValueSlice(args[1:], "configuration")
	if err != nil {
		return errors.NewUserError(err, "")
	}

	newCfg := updates
	if !serverConfigReplace {
		srv, err := a.servers.Store().Get(ctx, id)
		if err != nil {
			return err
		}
		if srv == nil {
			return errors.Wrapf(errors.ErrServerNotFound, "%q", id)
		}
		merged := make(map[string]string, len(srv.Configuration)+len(updates))
		for k, v := range srv.Configuration {
			merged[k] = v
		}
		for k, v := range updates {
			merged[k] = v
		}
		newCfg = merged
	}

	updated, err := a.servers.UpdateConfiguration(ctx, id, newCfg)
	if err != nil {
		// Partial propagation still changed something; report it.
		if len(updated) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(),
				"Updated global configuration; %d installation(s) followed before a failure.\n", len(updated))
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(),
		"Updated global configuration for %q; %d installation(s) followed.\n", id, len(updated))
	return nil
}

var serverConfigShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a server's configuration everywhere",
	Long: `Show a server's global configuration and, per installation, the
effective configuration each agent is using.`,
	Args: cobra.ExactArgs(1),
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

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Global: %s\n", configuration.Serialize(srv.Configuration))

		installations, err := a.installations.InstallationsByServer(ctx, id)
		if err != nil {
			return err
		}
		for _, rec := range installations {
			effective := configuration.Effective(srv, rec)
			state := "tracking global"
			if !configuration.MatchesGlobal(srv, rec) {
				state = "custom"
			}
			fmt.Fprintf(w, "%s (%s, %s): %s\n",
				rec.AgentID, boolWord(rec.IsEnabled), state, configuration.Serialize(effective))
		}

		return nil
	},
}
