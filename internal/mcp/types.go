package mcp

import (
	"time"
)

// AgentType identifies a supported AI agent variant.
type AgentType string

// Supported agent variants.
const (
	AgentTypeClaude        AgentType = "claude"
	AgentTypeGitHubCopilot AgentType = "copilot"
	AgentTypeClaudeCode    AgentType = "claudecode"
	AgentTypeOpenAICodex   AgentType = "codex"
	AgentTypeOther         AgentType = "other"
)

// Valid returns true for known agent variants. AgentTypeOther is valid;
// it exists for agents detected by plugins this build doesn't know about.
func (t AgentType) Valid() bool {
	switch t {
	case AgentTypeClaude, AgentTypeGitHubCopilot, AgentTypeClaudeCode,
		AgentTypeOpenAICodex, AgentTypeOther:
		return true
	}
	return false
}

// Server is a catalog entry for an MCP server installed on this machine.
type Server struct {
	// ID is the stable server identifier, assigned by the author or registry.
	ID string `json:"id"`

	// Name is the human-readable server name.
	Name string `json:"name"`

	// Description explains what the server provides.
	Description string `json:"description,omitempty"`

	// Version is the installed server version.
	Version string `json:"version,omitempty"`

	// Author is the server author or publisher.
	Author string `json:"author,omitempty"`

	// RepositoryURL points at the server's source repository.
	RepositoryURL string `json:"repositoryUrl,omitempty"`

	// InstallCommand describes how the server was installed (informational).
	InstallCommand string `json:"installCommand,omitempty"`

	// Tags categorize the server. Order is preserved; tags do not have to be unique.
	Tags []string `json:"tags,omitempty"`

	// IsInstalled reports whether the server is present in the local catalog.
	IsInstalled bool `json:"isInstalled"`

	// InstalledAt is when the server was added to the local catalog.
	InstalledAt *time.Time `json:"installedAt,omitempty"`

	// Configuration is the global (default) configuration, used by any
	// agent installation that carries no override of its own.
	Configuration map[string]string `json:"configuration,omitempty"`
}

// Agent describes an AI agent discovered on this machine.
//
// ConfiguredServerIDs is a read-through view of the agent's live config
// file, not state owned by mcpdock.
type Agent struct {
	// ID is the agent identifier (see the paths package constants).
	ID string `json:"id"`

	// Name is the human-readable agent name.
	Name string `json:"name"`

	// Type selects the connector used to read and write the agent's config.
	Type AgentType `json:"type"`

	// IsDetected reports whether the agent appears to be present on this machine.
	IsDetected bool `json:"isDetected"`

	// ConfigPath is the agent's native MCP configuration file.
	ConfigPath string `json:"configPath"`

	// ConfiguredServerIDs lists the server IDs currently present in the
	// agent's native config file.
	ConfiguredServerIDs []string `json:"configuredServerIds,omitempty"`
}

// ServerInstallation records that a server is configured for an agent.
// At most one record exists per (ServerID, AgentID) pair; the installation
// manager enforces this.
type ServerInstallation struct {
	// ID is an opaque unique token for this record. IDs are never reused.
	ID string `json:"id"`

	// ServerID references the installed server.
	ServerID string `json:"serverId"`

	// AgentID references the agent the server is configured for.
	AgentID string `json:"agentId"`

	// IsEnabled reports whether the server is active in the agent's config.
	IsEnabled bool `json:"isEnabled"`

	// InstalledAt is when this record was created.
	InstalledAt time.Time `json:"installedAt"`

	// UpdatedAt is when this record was last modified, nil if never.
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`

	// AgentSpecificConfig overrides the server's global configuration for
	// this agent. Empty or nil means "defer to global".
	AgentSpecificConfig map[string]string `json:"agentSpecificConfig,omitempty"`
}

// CloneConfig returns a copy of a configuration mapping.
// A nil input yields an empty, non-nil map so callers can mutate freely.
func CloneConfig(cfg map[string]string) map[string]string {
	out := make(map[string]string, len(cfg))
	for k, v := range cfg {
		out[k] = v
	}
	return out
}
