package configuration

import (
	"github.com/mcpdock/mcpdock/internal/mcp"
)

// Equal reports whether two configuration mappings are equal.
//
// Equality requires the same number of entries and, for every key in a,
// an identical string value in b. Key order is irrelevant. Nil and empty
// maps both have zero entries and are therefore equal: "no configuration"
// is its own equivalence class.
func Equal(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, va := range a {
		vb, ok := b[k]
		if !ok || va != vb {
			return false
		}
	}
	return true
}

// Effective returns the configuration an agent connector should apply for
// an installation: the installation's override when it has at least one
// entry, otherwise the server's global configuration.
//
// The result is always a copy; mutating it never affects stored state.
func Effective(server *mcp.Server, inst *mcp.ServerInstallation) map[string]string {
	if inst != nil && len(inst.AgentSpecificConfig) > 0 {
		return mcp.CloneConfig(inst.AgentSpecificConfig)
	}
	if server != nil {
		return mcp.CloneConfig(server.Configuration)
	}
	return map[string]string{}
}

// MatchesGlobal reports whether an installation is tracking the server's
// global configuration, as opposed to carrying a pinned/customized override.
func MatchesGlobal(server *mcp.Server, inst *mcp.ServerInstallation) bool {
	var global, override map[string]string
	if server != nil {
		global = server.Configuration
	}
	if inst != nil {
		override = inst.AgentSpecificConfig
	}
	return Equal(global, override)
}
