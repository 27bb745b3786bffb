// Package agenthub provides a high-level façade over the dispatcher and its
// services (agent registry, session store, user directory, event log) for
// embedding the gateway in another program. Most applications interact with
// this package by:
//  1. Creating a hub via New() (optionally overriding the in-memory services)
//  2. Registering one or more agent descriptors
//  3. Calling Chat or ChatStream
//
// The HTTP gateway in cmd/agenthub wires the same pieces directly; the
// façade exists for embedders and examples. All defaults are safe for local
// development and testing.
package agenthub

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/hallwayhq/agenthub/core"
	"github.com/hallwayhq/agenthub/dispatch"
	"github.com/hallwayhq/agenthub/eventlog"
	"github.com/hallwayhq/agenthub/identity"
	"github.com/hallwayhq/agenthub/registry"
	"github.com/hallwayhq/agenthub/session"
)

// Options configures a Hub. Any unset service is initialized with an
// in-memory implementation.
type Options struct {
	SessionStore core.SessionStore
	Directory    identity.Directory
	Logger       zerolog.Logger
	EventLog     *eventlog.Log

	// Dispatch forwards tuning options (timeouts, budgets, buffers) to the
	// underlying dispatcher.
	Dispatch []func(o *dispatch.Options)
}

// Hub aggregates the registry and dispatcher behind a compact API.
type Hub struct {
	registry   *registry.Registry
	dispatcher *dispatch.Dispatcher
}

// New creates a Hub with optional overrides.
func New(optFns ...func(o *Options)) *Hub {
	opts := Options{
		SessionStore: session.NewInMemoryStore(),
		Directory:    identity.NewInMemoryDirectory(),
		Logger:       zerolog.Nop(),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	reg := registry.New()

	dispatchOpts := append([]func(o *dispatch.Options){func(o *dispatch.Options) {
		o.Logger = opts.Logger
		o.EventLog = opts.EventLog
	}}, opts.Dispatch...)

	return &Hub{
		registry:   reg,
		dispatcher: dispatch.New(reg, opts.SessionStore, opts.Directory, dispatchOpts...),
	}
}

// Register adds an agent descriptor to the hub.
func (h *Hub) Register(d registry.Descriptor) error { return h.registry.Register(d) }

// Agents returns the registered descriptors in registration order.
func (h *Hub) Agents() []registry.Descriptor { return h.registry.List() }

// Chat runs a full exchange and returns the drained result.
func (h *Hub) Chat(ctx context.Context, agentID, userID, message, sessionID string) (*dispatch.ChatExchange, error) {
	return h.dispatcher.Chat(ctx, agentID, userID, message, sessionID)
}

// ChatStream runs an exchange and forwards its events live.
func (h *Hub) ChatStream(ctx context.Context, agentID, userID, message, sessionID string) (<-chan dispatch.StreamEvent, error) {
	return h.dispatcher.ChatStream(ctx, agentID, userID, message, sessionID)
}

// CreateSession mints a session with identity already merged.
func (h *Hub) CreateSession(ctx context.Context, agentID, userID string) (*core.Session, error) {
	return h.dispatcher.CreateSession(ctx, agentID, userID)
}

// Dispatcher exposes the underlying dispatcher for advanced wiring, e.g.
// serving it over HTTP.
func (h *Hub) Dispatcher() *dispatch.Dispatcher { return h.dispatcher }
