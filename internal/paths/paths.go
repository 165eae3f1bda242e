package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// Agent identifiers for supported AI agents.
const (
	AgentClaude     = "claude"
	AgentCopilot    = "copilot"
	AgentClaudeCode = "claudecode"
	AgentCodex      = "codex"
)

// AppName is the application name used for config and data directories.
const AppName = "mcpdock"

// agentConfigFiles maps agent identifiers to their native MCP config files.
// Claude Desktop and Copilot paths are relative to the XDG config home,
// Claude Code and Codex paths are relative to the user's home directory.
var agentConfigFiles = map[string]struct {
	rel     string
	fromXDG bool
}{
	AgentClaude:     {rel: filepath.Join("Claude", "claude_desktop_config.json"), fromXDG: true},
	AgentCopilot:    {rel: filepath.Join("Code", "User", "mcp.json"), fromXDG: true},
	AgentClaudeCode: {rel: ".claude.json"},
	AgentCodex:      {rel: filepath.Join(".codex", "config.toml")},
}

// agentDisplayNames maps agent identifiers to human-readable names.
var agentDisplayNames = map[string]string{
	AgentClaude:     "Claude Desktop",
	AgentCopilot:    "GitHub Copilot",
	AgentClaudeCode: "Claude Code",
	AgentCodex:      "OpenAI Codex",
}

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")

	// ErrUnknownAgent indicates the agent identifier is not recognized.
	ErrUnknownAgent = errors.New("unknown agent")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// Home returns the user's home directory.
// Note: It returns an empty string on error; use ResolveHome for error handling.
func Home() string {
	h, _ := ResolveHome()
	return h
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
func ConfigHome() string {
	return xdg.ConfigHome
}

// DataHome returns the XDG data home directory.
// On Linux: ~/.local/share
// On macOS: ~/Library/Application Support
func DataHome() string {
	return xdg.DataHome
}

// AppConfigDir returns the directory for mcpdock's own configuration.
// Returns: <ConfigHome>/mcpdock/
func AppConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// AppDataDir returns the directory for mcpdock's persisted state
// (installed server catalog, installation records, registry cache).
// Returns: <DataHome>/mcpdock/
func AppDataDir() string {
	return filepath.Join(DataHome(), AppName)
}

// ValidAgent returns true if the agent identifier is recognized.
func ValidAgent(agent string) bool {
	_, ok := agentConfigFiles[agent]
	return ok
}

// Agents returns all supported agent identifiers in deterministic order.
func Agents() []string {
	return []string{
		AgentClaude,
		AgentCopilot,
		AgentClaudeCode,
		AgentCodex,
	}
}

// AgentDisplayName returns the human-readable name for an agent identifier.
// Returns the identifier unchanged for unknown agents.
func AgentDisplayName(agent string) string {
	if name, ok := agentDisplayNames[agent]; ok {
		return name
	}
	return agent
}

// AgentConfigPath returns the native MCP config file path for an agent.
//
// Agent paths:
//   - claude: <ConfigHome>/Claude/claude_desktop_config.json
//   - copilot: <ConfigHome>/Code/User/mcp.json
//   - claudecode: ~/.claude.json
//   - codex: ~/.codex/config.toml
//
// Returns an empty string for unknown agents.
func AgentConfigPath(agent string) string {
	entry, ok := agentConfigFiles[agent]
	if !ok {
		return ""
	}
	if entry.fromXDG {
		return filepath.Join(ConfigHome(), entry.rel)
	}
	home := Home()
	if home == "" {
		return ""
	}
	return filepath.Join(home, entry.rel)
}
