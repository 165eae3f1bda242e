// Package commands implements the CLI commands for mcpdock.
package commands

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcpdock/mcpdock/cmd"
	"github.com/mcpdock/mcpdock/internal/config"
	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/logging"
	"github.com/mcpdock/mcpdock/internal/paths"
)

// agentFlag holds the value of the --agent flag.
var agentFlag []string

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// loadedConfig is the app configuration loaded during initialization.
var loadedConfig *config.Config

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringSliceVarP(&agentFlag, "agent", "a", nil,
		`target agent(s): claude, copilot, claudecode, codex (default: all detected)`)
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("mcpdock version {{.Version}}\n")

	// Silence errors and usage so main controls error output.
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	loadedConfig, configLoadErr = config.Load("")
}

var rootCmd = &cobra.Command{
	Use:   "mcpdock",
	Short: "Manage MCP server configurations across AI agents",
	Long: `mcpdock keeps Model Context Protocol server configurations in sync
across the AI agents on this machine: Claude Desktop, GitHub Copilot,
Claude Code, and the OpenAI Codex CLI.

Add a server once, install it into any agent, and mcpdock writes each
agent's native config file. Change a server's global configuration and
every installation still tracking it follows; agent-specific overrides
stay put.`,
	Example: `  # Add a server to the catalog and install it everywhere
  mcpdock server add github npx -y @modelcontextprotocol/server-github
  mcpdock install github

  # Install for one agent with an override
  mcpdock install github claude --config GITHUB_TOKEN=ghp_xxx

  # Update the global configuration; tracking installations follow
  mcpdock server config set github GITHUB_TOKEN=ghp_yyy

  # Reconcile records after editing agent configs by hand
  mcpdock sync`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return validateAgentFlag(cmd, args)
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(nil, "cannot use --quiet and --verbose together")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity
		if v == 0 {
			if val, ok := os.LookupEnv("MCPDOCK_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 1
				case "2":
					v = 2
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{Level: level}

	var primaryHandler slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// validateAgentFlag checks that all specified agents are valid.
func validateAgentFlag(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "help" || cmd.Name() == "version" {
		return nil
	}

	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}

	if len(agentFlag) == 0 {
		return nil
	}

	var invalid []string
	for _, a := range agentFlag {
		if !paths.ValidAgent(a) {
			invalid = append(invalid, a)
		}
	}
	if len(invalid) > 0 {
		err := errors.Newf("invalid agent(s): %s (valid: %s)",
			strings.Join(invalid, ", "),
			strings.Join(paths.Agents(), ", "))
		return errors.NewUserError(err, "Run 'mcpdock agent list' to see supported agents")
	}

	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
