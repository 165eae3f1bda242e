package configuration

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Result accumulates the outcome of a configuration validation pass.
// Validation never short-circuits; every violation is reported.
type Result struct {
	// Valid is true when no violations were found.
	Valid bool

	// Errors holds one human-readable message per violation.
	Errors []string
}

// Validate checks a configuration mapping.
//
// A nil mapping is invalid ("no configuration" must be represented as an
// empty map at this layer). Keys must be non-empty and not whitespace-only.
// Empty string values are explicitly permitted.
func Validate(cfg map[string]string) Result {
	if cfg == nil {
		return Result{Errors: []string{"configuration is required"}}
	}

	var errs []string
	for _, k := range sortedKeys(cfg) {
		if strings.TrimSpace(k) == "" {
			errs = append(errs, "configuration keys cannot be null or empty")
		}
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

// ValidateJSON checks a raw JSON configuration object.
//
// In addition to the Validate rules it flags JSON null values: the Go
// representation (map[string]string) cannot hold null, so the null-value
// rule is enforced here at the serialization boundary. Malformed JSON
// yields a single "invalid JSON" violation.
func ValidateJSON(data []byte) Result {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return Result{Errors: []string{"configuration is required"}}
	}

	var raw map[string]*string
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return Result{Errors: []string{"configuration is not a valid JSON object"}}
	}

	var errs []string
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if strings.TrimSpace(k) == "" {
			errs = append(errs, "configuration keys cannot be null or empty")
		}
		if raw[k] == nil {
			errs = append(errs, fmt.Sprintf("value for key '%s' cannot be null", k))
		}
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
