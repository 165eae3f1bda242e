// Package redact masks sensitive values before they reach logs or terminal output.
//
// MCP server configurations routinely carry API keys and tokens (the typical
// entry is something like apiKey=sk-...), so every code path that renders a
// configuration mapping runs it through this package first.
package redact

import (
	"strings"
)

// secretKeyPatterns contains substrings that indicate a key likely holds
// sensitive data. Keys are matched case-insensitively.
var secretKeyPatterns = []string{
	"TOKEN",
	"KEY",
	"SECRET",
	"PASSWORD",
	"AUTH",
	"CREDENTIAL",
	"PRIVATE",
}

// tokenPrefixes contains known API token prefixes that indicate sensitive
// values regardless of key name.
var tokenPrefixes = []string{
	"ghp_",  // GitHub personal access token
	"gho_",  // GitHub OAuth token
	"ghs_",  // GitHub server-to-server token
	"sk-",   // OpenAI/Anthropic keys
	"AKIA",  // AWS access key prefix
	"xoxb-", // Slack bot token
	"xoxp-", // Slack user token
}

// Configuration masks sensitive values in a configuration mapping.
// Keys matching secret patterns or values with known token prefixes are
// masked. Returns a new map; the input is never modified.
func Configuration(cfg map[string]string) map[string]string {
	if cfg == nil {
		return nil
	}

	masked := make(map[string]string, len(cfg))
	for k, v := range cfg {
		if SensitiveKey(k) || TokenValue(v) {
			masked[k] = Value(v)
		} else {
			masked[k] = v
		}
	}
	return masked
}

// Value masks a potentially sensitive string value.
// Values with 4 or fewer characters are fully masked as "********".
// Longer values show the last 4 characters: "****xxxx".
func Value(value string) string {
	if len(value) <= 4 {
		return "********"
	}
	return "****" + value[len(value)-4:]
}

// SensitiveKey returns true if the key name suggests it contains sensitive data.
// Matching is case-insensitive.
func SensitiveKey(key string) bool {
	upper := strings.ToUpper(key)
	for _, pattern := range secretKeyPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}

// TokenValue returns true if the value starts with a known token prefix.
// This catches cases where the key name doesn't indicate sensitivity but the
// value is clearly a token (e.g., "MY_VAR=ghp_abc123").
func TokenValue(value string) bool {
	for _, prefix := range tokenPrefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}
