// Package agent discovers the AI agents present on this machine and
// exposes them as [mcp.Agent] values.
//
// Agents are not persisted. Each lookup probes the agent's native config
// path on disk and, when a connector is registered for the agent's type,
// reads the server IDs straight out of the live config file. The returned
// values are therefore a snapshot, never a cache.
package agent
