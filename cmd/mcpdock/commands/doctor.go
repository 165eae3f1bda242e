package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mcpdock/mcpdock/internal/doctor"
	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/paths"
)

var doctorJSON bool

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose the mcpdock setup",
	Long: `Run diagnostic checks: configuration, data directory, agent config
files, the registry cache, and installation record consistency.

Exits non-zero when any check reports an error.`,
	Example: `  mcpdock doctor
  mcpdock doctor --json`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		runner := doctor.NewRunner()

		a, appErr := newApp()
		runner.AddCheck(&doctor.ConfigCheck{LoadErr: appErr})
		if appErr == nil {
			dataDir := a.cfg.ResolvedDataDir()
			runner.AddCheck(&doctor.DataDirCheck{Dir: dataDir})
			for _, agentID := range paths.Agents() {
				runner.AddCheck(&doctor.AgentCheck{Agents: a.agents, AgentID: agentID})
			}
			runner.AddCheck(&doctor.RegistryCacheCheck{
				Path: filepath.Join(dataDir, "registry.json"),
				TTL:  a.cfg.Registry.TTL,
			})
			runner.AddCheck(&doctor.RecordsCheck{
				Store:   a.installationStore,
				Catalog: a.servers.Store(),
				Agents:  a.agents,
			})
		}

		report := runner.Run(cmd.Context())

		if doctorJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
		} else {
			printDoctorReport(cmd, report)
		}

		if report.HasErrors() {
			return errors.NewSystemError(
				errors.Newf("%d check(s) failed", report.Summary.Errors), "")
		}
		return nil
	},
}

func printDoctorReport(cmd *cobra.Command, report *doctor.Report) {
	w := cmd.OutOrStdout()
	for _, result := range report.Results {
		fmt.Fprintf(w, "[%s] %s: %s\n", result.Status, result.Name, result.Message)
		if result.FixHint != "" {
			fmt.Fprintf(w, "       hint: %s\n", result.FixHint)
		}
	}
	fmt.Fprintf(w, "\n%d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info,
		report.Summary.Warnings, report.Summary.Errors)
}
