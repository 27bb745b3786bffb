// Package registry holds the set of agents the gateway can dispatch to.
//
// Agents are registered once at process start; the registry is read-only
// thereafter. The Registry is an explicit object passed down to the
// dispatcher and HTTP layer, never a package-level singleton.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hallwayhq/agenthub/core"
)

// Sentinel errors for registry lookups and registration.
var (
	ErrAgentNotFound  = errors.New("agent not found")
	ErrDuplicateAgent = errors.New("agent id already registered")
)

// Descriptor describes a dispatchable agent: identifying metadata, the
// runner that produces its conversation turns, and the tool middleware the
// dispatcher composes around the agent's tool-call boundary. Immutable once
// registered.
type Descriptor struct {
	ID             string
	Name           string
	Description    string
	Runner         core.AgentRunner
	ToolMiddleware []core.ToolMiddleware
}

// Registry maps agent ids to descriptors preserving registration order.
type Registry struct {
	mu    sync.RWMutex
	byID  map[string]Descriptor
	order []string
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{byID: map[string]Descriptor{}}
}

// Register adds a descriptor. It fails with ErrDuplicateAgent when the id is
// already taken and rejects descriptors without an id or runner.
func (r *Registry) Register(d Descriptor) error {
	if d.ID == "" {
		return fmt.Errorf("descriptor id must not be empty")
	}
	if d.Runner == nil {
		return fmt.Errorf("descriptor %q has no runner", d.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[d.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateAgent, d.ID)
	}

	r.byID[d.ID] = d
	r.order = append(r.order, d.ID)

	return nil
}

// Get returns the descriptor for id or ErrAgentNotFound.
func (r *Registry) Get(id string) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byID[id]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrAgentNotFound, id)
	}

	return d, nil
}

// List returns all descriptors in registration order.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}

	return out
}
