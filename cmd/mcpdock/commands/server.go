package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mcpdock/mcpdock/internal/configuration"
	"github.com/mcpdock/mcpdock/internal/errors"
)

var serverListJSON bool

func init() {
	serverListCmd.Flags().BoolVar(&serverListJSON, "json", false, "Output in JSON format")
	serverCmd.AddCommand(serverListCmd)
	serverCmd.AddCommand(serverShowCmd)
	rootCmd.AddCommand(serverCmd)
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Manage the local server catalog",
	Long: `Manage the local catalog of MCP servers.

The catalog is the machine-local list of servers you have added; it is
separate from the remote registry (see 'mcpdock search') and from the
per-agent installations (see 'mcpdock install').`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var serverListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog servers",
	Example: `  mcpdock server list
  mcpdock server list --json`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runServerList(cmd.Context(), os.Stdout)
	},
}

func runServerList(ctx context.Context, w io.Writer) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	servers, err := a.servers.Store().All(ctx)
	if err != nil {
		return err
	}

	if serverListJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(servers)
	}

	if len(servers) == 0 {
		fmt.Fprintln(w, "No servers in the catalog. Add one with 'mcpdock server add'.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION\tCONFIG KEYS")
	for _, srv := range servers {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n",
			srv.ID, srv.Name, truncate(srv.Description, 40), len(srv.Configuration))
	}
	return tw.Flush()
}

var serverShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a catalog server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServerShow(cmd.Context(), os.Stdout, args[0])
	},
}

func runServerShow(ctx context.Context, w io.Writer, id string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	srv, err := a.servers.Store().Get(ctx, id)
	if err != nil {
		return err
	}
	if srv == nil {
		return errors.NewUserError(
			errors.Wrapf(errors.ErrServerNotFound, "%q", id),
			"Run 'mcpdock server list' to see the catalog")
	}

	fmt.Fprintf(w, "ID:          %s\n", srv.ID)
	fmt.Fprintf(w, "Name:        %s\n", srv.Name)
	if srv.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", srv.Description)
	}
	if srv.Version != "" {
		fmt.Fprintf(w, "Version:     %s\n", srv.Version)
	}
	if len(srv.Tags) > 0 {
		fmt.Fprintf(w, "Tags:        %s\n", strings.Join(srv.Tags, ", "))
	}
	if srv.InstalledAt != nil {
		fmt.Fprintf(w, "Added:       %s\n", srv.InstalledAt.Format("2006-01-02 15:04"))
	}

	fmt.Fprintf(w, "Configuration: %s\n", configuration.Serialize(srv.Configuration))

	installations, err := a.installations.InstallationsByServer(ctx, id)
	if err != nil {
		return err
	}
	if len(installations) > 0 {
		fmt.Fprintln(w, "Installed for:")
		for _, rec := range installations {
			marker := ""
			if !configuration.MatchesGlobal(srv, rec) {
				marker = " (custom config)"
			}
			fmt.Fprintf(w, "  %s: %s%s\n", rec.AgentID, boolWord(rec.IsEnabled), marker)
		}
	}

	return nil
}
