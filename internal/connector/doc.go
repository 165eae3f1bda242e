// Package connector defines the adapter contract for reading and writing
// AI agents' native MCP configuration files, and a registry that selects
// the adapter for an agent variant.
//
// One subpackage per supported agent implements [Connector]:
//
//   - claude: Claude Desktop (claude_desktop_config.json, JSON)
//   - claudecode: Claude Code (~/.claude.json, JSON)
//   - copilot: GitHub Copilot in VS Code (mcp.json, JSON)
//   - codex: OpenAI Codex CLI (~/.codex/config.toml, TOML)
//
// # Configuration mapping
//
// Connectors receive the effective configuration as a flat string mapping.
// Two keys are reserved: "command" is the executable that launches the
// server and "args" its space-separated arguments. Every other entry
// becomes an environment variable for the server process.
//
// # File handling
//
// A missing config file reads as an empty configuration, never as an
// error. All writes are atomic (temp file + rename) and the previous file
// contents are backed up first. Unrelated entries in the agent's file are
// preserved byte-for-byte where the format allows it.
package connector
