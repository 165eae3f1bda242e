package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mcpdock/mcpdock/internal/errors"
)

var agentListJSON bool

func init() {
	agentListCmd.Flags().BoolVar(&agentListJSON, "json", false, "Output in JSON format")
	agentCmd.AddCommand(agentListCmd)
	agentCmd.AddCommand(agentShowCmd)
	rootCmd.AddCommand(agentCmd)
}

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Inspect supported AI agents",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var agentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List supported agents and their detection state",
	Example: `  mcpdock agent list
  mcpdock agent list --json`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a, err := newApp()
		if err != nil {
			return err
		}

		agents, err := a.agents.Agents(ctx)
		if err != nil {
			return err
		}

		if agentListJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(agents)
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tDETECTED\tSERVERS")
		for _, ag := range agents {
			detected := "no"
			if ag.IsDetected {
				detected = "yes"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", ag.ID, ag.Name, detected, len(ag.ConfiguredServerIDs))
		}
		return tw.Flush()
	},
}

var agentShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one agent's configuration state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp()
		if err != nil {
			return err
		}

		id := args[0]
		ag, err := a.agents.GetAgent(ctx, id)
		if err != nil {
			return err
		}
		if ag == nil {
			return errors.NewUserError(
				errors.Wrapf(errors.ErrAgentNotFound, "%q", id),
				"Run 'mcpdock agent list' to see supported agents")
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "ID:       %s\n", ag.ID)
		fmt.Fprintf(w, "Name:     %s\n", ag.Name)
		fmt.Fprintf(w, "Type:     %s\n", ag.Type)
		fmt.Fprintf(w, "Config:   %s\n", a.agents.ConfigPath(id))
		fmt.Fprintf(w, "Detected: %v\n", ag.IsDetected)
		if len(ag.ConfiguredServerIDs) > 0 {
			fmt.Fprintln(w, "Servers:")
			for _, sid := range ag.ConfiguredServerIDs {
				fmt.Fprintf(w, "  %s\n", sid)
			}
		}
		return nil
	},
}
