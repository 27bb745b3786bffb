package agent

import (
	"fmt"
	"time"

	"github.com/hallwayhq/agenthub/core"
)

// LoopOptions configures a Loop coordinator.
type LoopOptions struct {
	// MaxIterations bounds the loop. The loop completes normally once the
	// bound is reached.
	MaxIterations int

	// Interval delays between iterations, honoring cancellation. Zero runs
	// iterations back to back.
	Interval time.Duration

	// StopOnError aborts the loop on the first child failure. When false a
	// failed iteration is logged and the loop continues.
	StopOnError bool

	// Until terminates the loop early when it returns true for the latest
	// assistant response in the session.
	Until func(lastResponse string) bool
}

// Loop coordinates the repeated execution of a child runner over the same
// run context, accumulating session state across iterations. Useful for
// polling and converge-then-stop workflows.
type Loop struct {
	name  string
	child core.AgentRunner
	opts  LoopOptions
}

// NewLoop creates a loop coordinator with defaults: 10 iterations, no
// interval, stop on first error.
func NewLoop(name string, child core.AgentRunner, optFns ...func(o *LoopOptions)) *Loop {
	opts := LoopOptions{
		MaxIterations: 10,
		StopOnError:   true,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Loop{name: name, child: child, opts: opts}
}

// Name returns the coordinator's display name.
func (l *Loop) Name() string { return l.name }

// Run implements core.AgentRunner.
func (l *Loop) Run(rc *core.RunContext) error {
	for i := 0; i < l.opts.MaxIterations; i++ {
		select {
		case <-rc.Done():
			return rc.Err()
		default:
		}

		if err := l.child.Run(rc); err != nil {
			if l.opts.StopOnError {
				return fmt.Errorf("%s: iteration %d failed: %w", l.name, i+1, err)
			}
			rc.Logger.Warn().Err(err).Int("iteration", i+1).Msg("loop iteration failed, continuing")
		}

		if l.opts.Until != nil && l.opts.Until(lastAssistantText(rc.Session)) {
			rc.Logger.Debug().Int("iterations", i+1).Msg("loop condition met")
			return nil
		}

		if l.opts.Interval > 0 && i < l.opts.MaxIterations-1 {
			select {
			case <-rc.Done():
				return rc.Err()
			case <-time.After(l.opts.Interval):
			}
		}
	}
	return nil
}

// lastAssistantText returns the text of the most recent assistant message in
// the session, or "" when there is none.
func lastAssistantText(sess *core.Session) string {
	if sess == nil {
		return ""
	}
	history := sess.GetConversationHistory()
	for i := len(history) - 1; i >= 0; i-- {
		ev := history[i]
		if ev.Content != nil && ev.Content.Role == "assistant" {
			if txt := ev.Text(); txt != "" {
				return txt
			}
		}
	}
	return ""
}
