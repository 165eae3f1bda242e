package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcpdock/mcpdock/internal/connector"
	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/mcp"
)

// Package-level flag variables for server add.
var (
	serverAddName        string
	serverAddDescription string
	serverAddEnv         []string
	serverAddFromReg     bool
)

func init() {
	serverAddCmd.Flags().StringVar(&serverAddName, "name", "",
		"human-readable name (default: the ID)")
	serverAddCmd.Flags().StringVar(&serverAddDescription, "description", "",
		"what the server provides")
	serverAddCmd.Flags().StringSliceVar(&serverAddEnv, "env", nil,
		"environment variables in KEY=VALUE format (repeatable)")
	serverAddCmd.Flags().BoolVar(&serverAddFromReg, "from-registry", false,
		"take name, description, and configuration from the registry entry")
	// The launch command's own flags (npx -y, --port, ...) are positional
	// payload, not mcpdock flags; stop flag parsing at the first positional.
	serverAddCmd.Flags().SetInterspersed(false)
	serverCmd.AddCommand(serverAddCmd)

	serverCmd.AddCommand(serverRemoveCmd)
}

var serverAddCmd = &cobra.Command{
	Use:   "add <id> [command] [args...]",
	Short: "Add a server to the catalog",
	Long: `Add an MCP server to the local catalog.

Provide the launch command and arguments positionally; environment
variables with --env. Flags must come before the positional arguments:
everything after the first positional belongs to the launch command, so
its own flags pass through untouched. The resulting configuration
becomes the server's global configuration, which installations use
unless given an override.

With --from-registry, the entry is looked up in the server registry and
its metadata and configuration defaults are used instead.`,
	Example: `  mcpdock server add --env GITHUB_TOKEN=ghp_xxx \
    github npx -y @modelcontextprotocol/server-github

  mcpdock server add --from-registry github`,
	Args: cobra.MinimumNArgs(1),
	RunE: runServerAdd,
}

func runServerAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp()
	if err != nil {
		return err
	}

	id := args[0]
	srv := &mcp.Server{ID: id, Name: serverAddName}

	if serverAddFromReg {
		if len(args) > 1 || len(serverAddEnv) > 0 {
			return errors.NewUserError(nil, "--from-registry cannot be combined with a command or --env")
		}
		entry, err := registryLookup(ctx, a, id)
		if err != nil {
			return err
		}
		srv = entry
	} else {
		env, err := parseKeyValueSlice(serverAddEnv, "--env")
		if err != nil {
			return errors.NewUserError(err, "")
		}
		var command string
		var cmdArgs []string
		if len(args) > 1 {
			command = args[1]
			cmdArgs = args[2:]
		}
		srv.Description = serverAddDescription
		srv.Configuration = connector.JoinConfig(command, cmdArgs, env)
	}

	if srv.Name == "" {
		srv.Name = id
	}

	if err := a.servers.Store().Add(ctx, srv); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added %q to the catalog. Install it with 'mcpdock install %s'.\n", id, id)
	return nil
}

// registryLookup finds one registry entry by exact ID.
func registryLookup(ctx context.Context, a *app, id string) (*mcp.Server, error) {
	servers, err := a.registry.Servers(ctx, false)
	if err != nil {
		return nil, err
	}
	for _, srv := range servers {
		if srv.ID == id {
			out := *srv
			return &out, nil
		}
	}
	return nil, errors.NewUserError(
		errors.Wrapf(errors.ErrServerNotFound, "%q in registry", id),
		"Run 'mcpdock search "+id+"' to look for similar entries")
}

var serverRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a server from the catalog",
	Long: `Remove a server from the local catalog.

Installations for the server are not touched; uninstall it from agents
first with 'mcpdock uninstall' if that is what you want.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp()
		if err != nil {
			return err
		}

		id := args[0]
		installations, err := a.installations.InstallationsByServer(ctx, id)
		if err != nil {
			return err
		}
		if len(installations) > 0 {
			agents := make([]string, 0, len(installations))
			for _, rec := range installations {
				agents = append(agents, rec.AgentID)
			}
			return errors.NewUserError(
				errors.Newf("server %q is still installed for: %s", id, strings.Join(agents, ", ")),
				"Run 'mcpdock uninstall "+id+"' first")
		}

		ok, err := a.servers.Store().Remove(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return errors.Wrapf(errors.ErrServerNotFound, "%q", id)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Removed %q from the catalog.\n", id)
		return nil
	},
}
