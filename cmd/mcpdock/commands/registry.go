package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/registry"
)

func init() {
	registryCmd.AddCommand(registryRefreshCmd)
	registryCmd.AddCommand(registryImportCmd)
	rootCmd.AddCommand(registryCmd)
}

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Manage the server registry cache",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var registryRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh the registry cache",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a, err := newApp()
		if err != nil {
			return err
		}

		servers, err := a.registry.Servers(ctx, true)
		if err != nil {
			return errors.NewSystemError(err,
				"Check the registry URL in your config and your network connection")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Registry refreshed: %d servers.\n", len(servers))
		return nil
	},
}

var registryImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import registry entries from a file",
	Long: `Merge a local registry document into the cache. The file uses the same
JSON format as the remote registry; imported entries replace cached
entries with the same ID.`,
	Example: `  mcpdock registry import ./team-servers.json`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp()
		if err != nil {
			return err
		}

		count, err := a.registry.Import(ctx, args[0])
		if err != nil {
			if errors.Is(err, registry.ErrInvalidRegistry) {
				return errors.NewUserError(err,
					"The file must be a registry document with a servers array")
			}
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d servers from %s.\n", count, args[0])
		return nil
	},
}
