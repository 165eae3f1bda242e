package connector

import (
	"sync"

	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/mcp"
)

// Sentinel errors for registry operations.
var (
	// ErrAlreadyRegistered is returned when a connector for the agent type
	// is already registered.
	ErrAlreadyRegistered = errors.New("connector already registered")

	// ErrInvalidAgentType is returned when registering a connector for an
	// unknown agent type.
	ErrInvalidAgentType = errors.New("invalid agent type")
)

// Registry maps agent variants to their connectors.
// It replaces scattered switch-on-type dispatch; call sites resolve a
// connector once through ForType. Safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	connectors map[mcp.AgentType]Connector
}

// NewRegistry creates an empty connector registry.
func NewRegistry() *Registry {
	return &Registry{
		connectors: make(map[mcp.AgentType]Connector),
	}
}

// Register adds a connector for its agent type.
// Returns an error if the type is invalid or already has a connector.
func (r *Registry) Register(c Connector) error {
	t := c.Type()
	if !t.Valid() {
		return errors.Wrapf(ErrInvalidAgentType, "%q", t)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.connectors[t]; exists {
		return errors.Wrapf(ErrAlreadyRegistered, "%q", t)
	}

	r.connectors[t] = c
	return nil
}

// ForType returns the connector registered for the agent type.
func (r *Registry) ForType(t mcp.AgentType) (Connector, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.connectors[t]
	return c, ok
}

// Types returns the agent types that have a registered connector.
func (r *Registry) Types() []mcp.AgentType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]mcp.AgentType, 0, len(r.connectors))
	for t := range r.connectors {
		types = append(types, t)
	}
	return types
}
