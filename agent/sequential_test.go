package agent

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallwayhq/agenthub/core"
)

// appendStep records its execution order in session state under "steps".
func appendStep(name string) RunnerFunc {
	return func(rc *core.RunContext) error {
		steps, _ := rc.Session.GetState("steps")
		s, _ := steps.(string)
		if s != "" {
			s += ","
		}
		rc.Session.SetState("steps", s+name)
		return nil
	}
}

func TestSequentialRunsInOrder(t *testing.T) {
	sess := core.NewSession("pipeline", "s1", "EMP001")
	seq := NewSequential("pipeline", appendStep("extract"), appendStep("transform"), appendStep("load"))

	require.NoError(t, seq.Run(newRunContext(sess)))

	steps, _ := sess.GetState("steps")
	assert.Equal(t, "extract,transform,load", steps)
}

func TestSequentialStopsOnError(t *testing.T) {
	sess := core.NewSession("pipeline", "s1", "EMP001")
	boom := errors.New("stage exploded")
	seq := NewSequential("pipeline",
		appendStep("first"),
		RunnerFunc(func(rc *core.RunContext) error { return boom }),
		appendStep("never"),
	)

	err := seq.Run(newRunContext(sess))
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "pipeline")

	steps, _ := sess.GetState("steps")
	assert.Equal(t, "first", steps)
}

func TestSequentialLaterStageSeesEarlierState(t *testing.T) {
	sess := core.NewSession("pipeline", "s1", "EMP001")
	seq := NewSequential("pipeline",
		RunnerFunc(func(rc *core.RunContext) error {
			rc.Session.SetState("total", 40)
			return nil
		}),
		RunnerFunc(func(rc *core.RunContext) error {
			v, ok := rc.Session.GetState("total")
			if !ok {
				return fmt.Errorf("total not set")
			}
			rc.Session.SetState("total", v.(int)+2)
			return nil
		}),
	)

	require.NoError(t, seq.Run(newRunContext(sess)))

	total, _ := sess.GetState("total")
	assert.Equal(t, 42, total)
}

func TestSequentialHonorsCancellation(t *testing.T) {
	sess := core.NewSession("pipeline", "s1", "EMP001")
	ctx, cancel := context.WithCancel(context.Background())

	var ran int
	seq := NewSequential("pipeline",
		RunnerFunc(func(rc *core.RunContext) error {
			ran++
			cancel()
			return nil
		}),
		RunnerFunc(func(rc *core.RunContext) error {
			ran++
			return nil
		}),
	)

	rc := newRunContext(sess)
	rc.Context = ctx

	err := seq.Run(rc)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, ran)
}
