package configuration

import (
	"encoding/json"
	"strings"

	"github.com/mcpdock/mcpdock/internal/errors"
)

// Serialize renders a configuration mapping as a canonical JSON object.
// Nil and empty mappings serialize to "{}". Keys are emitted in sorted
// order (encoding/json sorts map keys), so equal mappings serialize
// identically regardless of insertion order.
func Serialize(cfg map[string]string) string {
	if len(cfg) == 0 {
		return "{}"
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		// A map[string]string cannot fail to marshal.
		return "{}"
	}
	return string(data)
}

// Deserialize parses a serialized configuration.
//
// Blank input means "no data" and yields an empty mapping with no error.
// Malformed input yields a nil mapping and ErrMalformedConfig so callers
// can distinguish corrupt data from an empty configuration.
func Deserialize(s string) (map[string]string, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return map[string]string{}, nil
	}

	var cfg map[string]string
	if err := json.Unmarshal([]byte(trimmed), &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrMalformedConfig, err.Error())
	}
	if cfg == nil {
		// JSON "null" decodes to a nil map; treat it as no entries.
		return map[string]string{}, nil
	}
	return cfg, nil
}
