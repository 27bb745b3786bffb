package agent

import (
	"fmt"

	"github.com/hallwayhq/agenthub/core"
)

// RunnerFunc adapts a plain function to core.AgentRunner.
type RunnerFunc func(rc *core.RunContext) error

// Run implements core.AgentRunner.
func (f RunnerFunc) Run(rc *core.RunContext) error { return f(rc) }

// Sequential coordinates child runners one after another over the same run
// context. Each child sees the session state and events its predecessors
// produced, so later stages can build on earlier results. The first error
// stops the pipeline.
type Sequential struct {
	name     string
	children []core.AgentRunner
}

// NewSequential creates a sequential coordinator over the given children.
func NewSequential(name string, children ...core.AgentRunner) *Sequential {
	return &Sequential{name: name, children: children}
}

// Name returns the coordinator's display name.
func (s *Sequential) Name() string { return s.name }

// Run implements core.AgentRunner. Children execute in declaration order;
// cancellation is checked between stages.
func (s *Sequential) Run(rc *core.RunContext) error {
	for i, child := range s.children {
		select {
		case <-rc.Done():
			return rc.Err()
		default:
		}
		if err := child.Run(rc); err != nil {
			return fmt.Errorf("%s: stage %s failed: %w", s.name, runnerName(child, i), err)
		}
	}
	return nil
}

// runnerName resolves a child's display name, falling back to its position.
func runnerName(r core.AgentRunner, idx int) string {
	if n, ok := r.(interface{ Name() string }); ok && n.Name() != "" {
		return n.Name()
	}
	return fmt.Sprintf("#%d", idx+1)
}
