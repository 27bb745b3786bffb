// Package dispatch orchestrates a chat request end to end: agent resolution,
// identity lookup and merge, session continuity, the tool middleware chain,
// and the run of the agent itself, drained into a single exchange or
// forwarded as a live event stream.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"github.com/hallwayhq/agenthub/core"
	"github.com/hallwayhq/agenthub/eventlog"
	"github.com/hallwayhq/agenthub/identity"
	"github.com/hallwayhq/agenthub/registry"
)

// Options configures a Dispatcher.
type Options struct {
	// DirectoryTimeout bounds every directory lookup. A lookup that misses
	// the deadline falls back to a guest record; it never fails the request.
	DirectoryTimeout time.Duration

	// MaxModelCalls bounds model turns per run to stop runaway tool loops.
	MaxModelCalls int

	// EventBufferSize sizes the per-run event channel. A slow stream
	// consumer applies backpressure to the runner once the buffer fills.
	EventBufferSize int

	// Logger receives structured dispatch logs.
	Logger zerolog.Logger

	// EventLog records the request lifecycle trail. A fresh log backed by
	// Logger is created when nil.
	EventLog *eventlog.Log
}

// Dispatcher is the orchestration entry point for chat requests. It is
// immutable after construction and safe for concurrent use; independent
// sessions never contend with each other. Concurrent requests against the
// same session are not serialized: session state mutations are atomic, but
// callers that need turn ordering must sequence their own requests.
type Dispatcher struct {
	registry  *registry.Registry
	store     core.SessionStore
	directory identity.Directory
	trail     *eventlog.Log
	logger    zerolog.Logger
	opts      Options
}

// New creates a Dispatcher over the given registry, session store and user
// directory.
func New(reg *registry.Registry, store core.SessionStore, dir identity.Directory, optFns ...func(o *Options)) *Dispatcher {
	opts := Options{
		DirectoryTimeout: 2 * time.Second,
		MaxModelCalls:    10,
		EventBufferSize:  100,
		Logger:           zerolog.Nop(),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	trail := opts.EventLog
	if trail == nil {
		trail = eventlog.New(opts.Logger)
	}

	return &Dispatcher{
		registry:  reg,
		store:     store,
		directory: dir,
		trail:     trail,
		logger:    opts.Logger,
		opts:      opts,
	}
}

// Agents returns the registered descriptors in registration order.
func (d *Dispatcher) Agents() []registry.Descriptor { return d.registry.List() }

// Agent returns the descriptor for id or registry.ErrAgentNotFound.
func (d *Dispatcher) Agent(id string) (registry.Descriptor, error) { return d.registry.Get(id) }

// EventLog exposes the lifecycle trail for inspection.
func (d *Dispatcher) EventLog() *eventlog.Log { return d.trail }

// CreateSession mints a session for the agent pre-populated with resolved
// identity, so the first chat on it already carries user state.
func (d *Dispatcher) CreateSession(ctx context.Context, agentID, userID string) (*core.Session, error) {
	if _, err := d.registry.Get(agentID); err != nil {
		return nil, err
	}

	rec, registered := d.resolveIdentity(ctx, userID)
	sess := d.store.Create(agentID, userID)
	identity.Merge(sess, rec, registered)

	return sess, nil
}

// Chat runs a full exchange and returns the drained result: the final
// response text plus every tool event in execution order. An empty sessionID
// starts a fresh session; a non-empty one must already exist.
func (d *Dispatcher) Chat(ctx context.Context, agentID, userID, message, sessionID string) (*ChatExchange, error) {
	r, err := d.start(ctx, agentID, userID, message, sessionID)
	if err != nil {
		return nil, err
	}

	var (
		response   string
		toolEvents []ToolEvent
		pending    []pendingCall
	)

	for ev := range r.events {
		for _, fc := range ev.GetFunctionCalls() {
			pending = append(pending, pendingCall{id: fc.ID, name: fc.Name, args: parseArguments(fc.Arguments)})
		}
		for _, fr := range ev.GetFunctionResponses() {
			args, rest := takePending(pending, fr.ID, fr.Name)
			pending = rest
			result := fr.Response
			if result == nil && fr.Error != "" {
				result = map[string]any{"error": fr.Error}
			}
			toolEvents = append(toolEvents, ToolEvent{
				ToolName:  fr.Name,
				Arguments: args,
				Result:    result,
				Offset:    time.Since(r.started),
			})
		}
		if !ev.IsPartial() && ev.Content != nil && ev.Content.Role == "assistant" {
			if txt := ev.Text(); txt != "" {
				response = txt
			}
		}
	}

	if err := r.wait(); err != nil {
		d.recordFailure(r, err)
		return nil, fmt.Errorf("agent run failed: %w", err)
	}

	d.trail.Record(eventlog.Entry{
		Stage: eventlog.StageResponseProduced, AgentID: r.desc.ID, SessionID: r.sess.ID,
		RunID: r.runID, UserID: r.userID,
		Detail: map[string]any{"response_chars": len(response), "tool_events": len(toolEvents)},
	})
	d.trail.Record(eventlog.Entry{
		Stage: eventlog.StageCompleted, AgentID: r.desc.ID, SessionID: r.sess.ID,
		RunID: r.runID, UserID: r.userID,
	})

	return &ChatExchange{
		AgentID:    r.desc.ID,
		SessionID:  r.sess.ID,
		UserID:     r.userID,
		UserName:   stateString(r.sess, core.StateKeyUserName),
		Response:   response,
		ToolEvents: toolEvents,
	}, nil
}

// ChatStream runs an exchange and forwards its events live. The returned
// channel carries fragments and tool records as the runner produces them and
// always terminates with exactly one done record; a runner failure surfaces
// as an error record immediately before it. Setup failures (unknown agent,
// unknown session) are returned synchronously instead.
func (d *Dispatcher) ChatStream(ctx context.Context, agentID, userID, message, sessionID string) (<-chan StreamEvent, error) {
	r, err := d.start(ctx, agentID, userID, message, sessionID)
	if err != nil {
		return nil, err
	}

	out := make(chan StreamEvent, d.opts.EventBufferSize)

	go func() {
		defer close(out)

		send := func(se StreamEvent) bool {
			select {
			case <-ctx.Done():
				return false
			case out <- se:
				return true
			}
		}

		// Streaming models emit per-fragment partials followed by a final
		// event carrying the whole turn; forward the final text only when
		// no fragments preceded it so concatenation reconstructs the
		// response exactly once.
		sawFragment := false
		responseChars := 0

		for ev := range r.events {
			if ev.IsPartial() {
				if txt := ev.Text(); txt != "" {
					responseChars += len(txt)
					if !send(StreamEvent{Type: StreamFragment, Text: txt}) {
						return
					}
					sawFragment = true
				}
				continue
			}

			for _, fc := range ev.GetFunctionCalls() {
				if !send(StreamEvent{Type: StreamToolCall, ToolName: fc.Name, Arguments: parseArguments(fc.Arguments)}) {
					return
				}
			}
			for _, fr := range ev.GetFunctionResponses() {
				result := fr.Response
				if result == nil && fr.Error != "" {
					result = map[string]any{"error": fr.Error}
				}
				if !send(StreamEvent{Type: StreamToolResult, ToolName: fr.Name, Result: result}) {
					return
				}
			}

			if ev.Content != nil && ev.Content.Role == "assistant" {
				if len(ev.GetFunctionCalls()) == 0 {
					if txt := ev.Text(); txt != "" && !sawFragment {
						responseChars += len(txt)
						if !send(StreamEvent{Type: StreamFragment, Text: txt}) {
							return
						}
					}
				}
				// Every non-partial assistant event closes a turn, including
				// tool-call turns whose partials never carried text.
				sawFragment = false
			}
		}

		if err := r.wait(); err != nil {
			d.recordFailure(r, err)
			if !send(StreamEvent{Type: StreamError, Error: err.Error()}) {
				return
			}
			send(StreamEvent{Type: StreamDone})
			return
		}

		d.trail.Record(eventlog.Entry{
			Stage: eventlog.StageResponseProduced, AgentID: r.desc.ID, SessionID: r.sess.ID,
			RunID: r.runID, UserID: r.userID,
			Detail: map[string]any{"response_chars": responseChars, "streamed": true},
		})
		d.trail.Record(eventlog.Entry{
			Stage: eventlog.StageCompleted, AgentID: r.desc.ID, SessionID: r.sess.ID,
			RunID: r.runID, UserID: r.userID,
		})

		send(StreamEvent{Type: StreamDone})
	}()

	return out, nil
}

// run tracks one in-flight agent execution.
type run struct {
	desc    registry.Descriptor
	sess    *core.Session
	runID   string
	userID  string
	started time.Time
	events  <-chan core.Event
	errs    <-chan error
}

// wait reports the runner's terminal error once events is drained.
func (r *run) wait() error {
	if err, ok := <-r.errs; ok && err != nil {
		return err
	}
	return nil
}

// start performs the shared request pipeline: descriptor resolution,
// identity lookup and merge, session continuity, middleware composition and
// launching the runner goroutine.
func (d *Dispatcher) start(ctx context.Context, agentID, userID, message, sessionID string) (*run, error) {
	desc, err := d.registry.Get(agentID)
	if err != nil {
		return nil, err
	}

	rec, registered := d.resolveIdentity(ctx, userID)

	sess, created, err := d.store.GetOrCreate(agentID, userID, sessionID)
	if err != nil {
		return nil, err
	}

	// Merge after get-or-create so a brand-new session already carries
	// identity before the runner sees it, and a resumed one gets refreshed.
	identity.Merge(sess, rec, registered)

	runID := newRunID()

	d.trail.Record(eventlog.Entry{
		Stage: eventlog.StageRequestReceived, AgentID: desc.ID, SessionID: sess.ID,
		RunID: runID, UserID: userID,
		Detail: map[string]any{"message_chars": len(message), "new_session": created, "registered": registered},
	})

	sess.AddEvent(core.NewUserMessageEvent(runID, message))

	base := func(tc *core.ToolContext, t core.Tool, args map[string]any) (any, error) {
		return t.Call(tc, args)
	}
	invoke := core.ChainToolMiddleware(base, desc.ToolMiddleware...)

	events := make(chan core.Event, d.opts.EventBufferSize)
	errs := make(chan error, 1)

	rc := &core.RunContext{
		Context:     ctx,
		AgentID:     desc.ID,
		SessionID:   sess.ID,
		RunID:       runID,
		UserID:      userID,
		UserMessage: message,
		Emit:        events,
		Session:     sess,
		InvokeTool:  invoke,
		Budget:      core.NewCallBudget(d.opts.MaxModelCalls),
		Logger:      d.logger.With().Str("agent_id", desc.ID).Str("run_id", runID).Logger(),
	}

	go func() {
		if err := desc.Runner.Run(rc); err != nil {
			errs <- err
		}
		close(errs)
		close(events)
	}()

	return &run{
		desc:    desc,
		sess:    sess,
		runID:   runID,
		userID:  userID,
		started: time.Now(),
		events:  events,
		errs:    errs,
	}, nil
}

// resolveIdentity looks up the user within the configured deadline, falling
// back to a guest record on any failure. The boolean reports a genuine hit.
func (d *Dispatcher) resolveIdentity(ctx context.Context, userID string) (identity.UserRecord, bool) {
	lookupCtx, cancel := context.WithTimeout(ctx, d.opts.DirectoryTimeout)
	defer cancel()

	rec, err := d.directory.Lookup(lookupCtx, userID)
	if err != nil {
		d.logger.Debug().Str("user_id", userID).Err(err).Msg("directory lookup failed, using guest record")
		return identity.Guest(userID), false
	}
	return rec, true
}

func (d *Dispatcher) recordFailure(r *run, err error) {
	d.trail.Record(eventlog.Entry{
		Stage: eventlog.StageFailed, AgentID: r.desc.ID, SessionID: r.sess.ID,
		RunID: r.runID, UserID: r.userID,
		Detail: map[string]any{"error": err.Error()},
	})
}

type pendingCall struct {
	id   string
	name string
	args map[string]any
}

// takePending pairs a function response with its originating call, matching
// by call id first and falling back to the earliest call with the same name.
func takePending(pending []pendingCall, id, name string) (map[string]any, []pendingCall) {
	for i, pc := range pending {
		if pc.id != "" && pc.id == id {
			return pc.args, append(pending[:i:i], pending[i+1:]...)
		}
	}
	for i, pc := range pending {
		if pc.name == name {
			return pc.args, append(pending[:i:i], pending[i+1:]...)
		}
	}
	return nil, pending
}

func parseArguments(raw string) map[string]any {
	if raw == "" {
		return nil
	}
	args := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil
	}
	return args
}

func stateString(sess *core.Session, key string) string {
	v, ok := sess.GetState(key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func newRunID() string {
	id, err := gonanoid.New()
	if err != nil {
		return core.NewID()
	}
	return id
}
