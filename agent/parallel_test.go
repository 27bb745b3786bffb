package agent

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallwayhq/agenthub/core"
)

func TestParallelRunsAllBranches(t *testing.T) {
	sess := core.NewSession("fanout", "s1", "EMP001")
	par := NewParallel("fanout",
		RunnerFunc(func(rc *core.RunContext) error {
			rc.Session.SetState("news", "3 articles")
			return nil
		}),
		RunnerFunc(func(rc *core.RunContext) error {
			rc.Session.SetState("papers", "2 papers")
			return nil
		}),
		RunnerFunc(func(rc *core.RunContext) error {
			rc.Session.SetState("stats", "1 dataset")
			return nil
		}),
	)

	require.NoError(t, par.Run(newRunContext(sess)))

	for _, key := range []string{"news", "papers", "stats"} {
		_, ok := sess.GetState(key)
		assert.True(t, ok, "missing state for branch %s", key)
	}
}

func TestParallelSiblingsFinishDespiteFailure(t *testing.T) {
	sess := core.NewSession("fanout", "s1", "EMP001")
	boom := errors.New("branch exploded")

	var completed int32
	par := NewParallel("fanout",
		RunnerFunc(func(rc *core.RunContext) error { return boom }),
		RunnerFunc(func(rc *core.RunContext) error {
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&completed, 1)
			return nil
		}),
		RunnerFunc(func(rc *core.RunContext) error {
			atomic.AddInt32(&completed, 1)
			return nil
		}),
	)

	err := par.Run(newRunContext(sess))
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "fanout")
	assert.Equal(t, int32(2), atomic.LoadInt32(&completed))
}

func TestParallelBranchLoggerDoesNotLeak(t *testing.T) {
	sess := core.NewSession("fanout", "s1", "EMP001")
	rc := newRunContext(sess)
	parent := rc.Logger

	par := NewParallel("fanout", RunnerFunc(func(branch *core.RunContext) error {
		// The branch gets its own context copy; mutations stay local.
		branch.AgentID = "mutated"
		return nil
	}))

	require.NoError(t, par.Run(rc))
	assert.Equal(t, sess.AgentID, rc.AgentID)
	assert.Equal(t, parent, rc.Logger)
}
