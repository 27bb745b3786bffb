package agent

import (
	"fmt"
	"sync"

	"github.com/hallwayhq/agenthub/core"
)

// Parallel coordinates child runners concurrently over a shared session.
// Each child receives its own copy of the run context with a branch-scoped
// logger; session state, event emission and the call budget are all safe for
// concurrent use. Children should write distinct state keys.
type Parallel struct {
	name     string
	children []core.AgentRunner
}

// NewParallel creates a parallel coordinator over the given children.
func NewParallel(name string, children ...core.AgentRunner) *Parallel {
	return &Parallel{name: name, children: children}
}

// Name returns the coordinator's display name.
func (p *Parallel) Name() string { return p.name }

// Run implements core.AgentRunner. All children run to completion even when
// siblings fail; the first error collected is returned.
func (p *Parallel) Run(rc *core.RunContext) error {
	var wg sync.WaitGroup
	errCh := make(chan error, len(p.children))

	for i, child := range p.children {
		wg.Add(1)
		go func(idx int, c core.AgentRunner) {
			defer wg.Done()

			branch := *rc
			branch.Logger = rc.Logger.With().
				Str("branch", fmt.Sprintf("%s.%s", p.name, runnerName(c, idx))).
				Logger()

			if err := c.Run(&branch); err != nil {
				errCh <- fmt.Errorf("%s: branch %s failed: %w", p.name, runnerName(c, idx), err)
			}
		}(i, child)
	}

	wg.Wait()
	close(errCh)

	if len(errCh) > 0 {
		return <-errCh
	}
	return nil
}
