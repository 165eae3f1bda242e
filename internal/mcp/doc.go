// Package mcp defines the core data model for MCP server management:
// the locally installed server catalog entry ([Server]), the AI agents
// discovered on the machine ([Agent]), and the per-agent installation
// record ([ServerInstallation]) that ties the two together.
//
// # Ownership
//
// Server values are owned by the server store, Agent values are derived
// from on-disk state by the agent manager, and ServerInstallation values
// are owned exclusively by the installation record store. Configuration
// mappings handed out by accessors are copies; mutating them does not
// affect stored state.
//
// # Configuration semantics
//
// Server.Configuration is the global (default) configuration. A
// ServerInstallation may carry an AgentSpecificConfig override; when that
// override is empty or nil the installation defers to the global
// configuration. The configuration package implements the comparison and
// propagation rules built on this distinction.
package mcp
