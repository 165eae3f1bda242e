package commands

import (
	"strings"
	"time"

	"github.com/mcpdock/mcpdock/internal/errors"
)

// timePrecision rounds latencies for display.
const timePrecision = time.Millisecond

// truncate shortens a string to maxLen characters, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// parseKeyValueSlice parses repeated KEY=VALUE flag values into a map.
// flagName is used in error messages.
func parseKeyValueSlice(pairs []string, flagName string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, errors.Newf("invalid %s value %q: expected KEY=VALUE", flagName, pair)
		}
		out[key] = value
	}
	return out, nil
}

// boolWord renders an enabled flag the way the list views print it.
func boolWord(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
