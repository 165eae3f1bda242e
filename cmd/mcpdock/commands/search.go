package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/mcpdock/mcpdock/internal/configuration"
	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/mcp"
)

var (
	searchRefresh     bool
	searchJSON        bool
	searchInteractive bool
)

func init() {
	searchCmd.Flags().BoolVar(&searchRefresh, "refresh", false,
		"refresh the registry cache before searching")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output in JSON format")
	searchCmd.Flags().BoolVarP(&searchInteractive, "interactive", "i", false,
		"pick a server interactively with a fuzzy finder")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the server registry",
	Long: `Search the remote server registry. The registry is cached locally and
refreshed when the cache goes stale; --refresh forces a fetch.

With --interactive the matches open in a fuzzy finder and the selected
entry is printed, ready for 'mcpdock server add --from-registry'.`,
	Example: `  mcpdock search github
  mcpdock search --interactive
  mcpdock search database --refresh --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp()
	if err != nil {
		return err
	}

	if searchRefresh {
		if _, err := a.registry.Servers(ctx, true); err != nil {
			return errors.NewSystemError(err,
				"Check the registry URL in your config and your network connection")
		}
	}

	var query string
	if len(args) > 0 {
		query = args[0]
	}

	servers, err := a.registry.Search(ctx, query)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if searchInteractive {
		return runInteractiveSearch(w, servers)
	}

	if searchJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(servers)
	}

	if len(servers) == 0 {
		fmt.Fprintln(w, "No matching servers in the registry.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION\tTAGS")
	for _, srv := range servers {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			srv.ID, srv.Name, truncate(srv.Description, 40), strings.Join(srv.Tags, ","))
	}
	return tw.Flush()
}

func runInteractiveSearch(w io.Writer, servers []*mcp.Server) error {
	if len(servers) == 0 {
		fmt.Fprintln(w, "No matching servers in the registry.")
		return nil
	}

	idx, err := fuzzyfinder.Find(
		servers,
		func(i int) string {
			return fmt.Sprintf("%s: %s", servers[i].ID, servers[i].Name)
		},
		fuzzyfinder.WithPreviewWindow(func(i, width, height int) string {
			if i == -1 {
				return ""
			}
			srv := servers[i]
			return fmt.Sprintf("ID: %s\nName: %s\nTags: %s\n\n%s\n\nConfiguration:\n%s",
				srv.ID,
				srv.Name,
				strings.Join(srv.Tags, ", "),
				srv.Description,
				configuration.Serialize(srv.Configuration),
			)
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil
		}
		return errors.Wrap(err, "interactive search failed")
	}

	srv := servers[idx]
	fmt.Fprintf(w, "Selected: %s (%s)\n", srv.ID, srv.Name)
	fmt.Fprintf(w, "Add it with 'mcpdock server add %s --from-registry'.\n", srv.ID)
	return nil
}
