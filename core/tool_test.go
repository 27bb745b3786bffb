package core

import (
	"context"
	"testing"
)

type fakeTool struct{ name string }

func (f fakeTool) Name() string                { return f.name }
func (f fakeTool) Description() string         { return "fake" }
func (f fakeTool) Parameters() map[string]any  { return map[string]any{"type": "object"} }
func (f fakeTool) Call(tc *ToolContext, args map[string]any) (any, error) {
	return "base", nil
}

func TestChainToolMiddleware_Order(t *testing.T) {
	var order []string
	base := func(tc *ToolContext, tool Tool, args map[string]any) (any, error) {
		order = append(order, "base")
		return tool.Call(tc, args)
	}
	outer := func(next ToolHandler) ToolHandler {
		return func(tc *ToolContext, tool Tool, args map[string]any) (any, error) {
			order = append(order, "outer")
			return next(tc, tool, args)
		}
	}
	inner := func(next ToolHandler) ToolHandler {
		return func(tc *ToolContext, tool Tool, args map[string]any) (any, error) {
			order = append(order, "inner")
			return next(tc, tool, args)
		}
	}

	rc := &RunContext{Context: context.Background(), SessionID: "s1"}
	tc := NewToolContext(rc, "fc-1")

	h := ChainToolMiddleware(base, outer, inner)
	res, err := h(tc, fakeTool{name: "t"}, map[string]any{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != "base" {
		t.Errorf("unexpected result: %v", res)
	}
	want := []string{"outer", "inner", "base"}
	for i, step := range want {
		if order[i] != step {
			t.Fatalf("order %v, want %v", order, want)
		}
	}
}

func TestChainToolMiddleware_ShortCircuit(t *testing.T) {
	base := func(tc *ToolContext, tool Tool, args map[string]any) (any, error) {
		t.Fatal("base should not be reached")
		return nil, nil
	}
	block := func(next ToolHandler) ToolHandler {
		return func(tc *ToolContext, tool Tool, args map[string]any) (any, error) {
			return map[string]any{"status": "blocked"}, nil
		}
	}

	rc := &RunContext{Context: context.Background(), SessionID: "s1"}
	tc := NewToolContext(rc, "fc-1")

	h := ChainToolMiddleware(base, block)
	res, err := h(tc, fakeTool{name: "t"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m, ok := res.(map[string]any)
	if !ok || m["status"] != "blocked" {
		t.Errorf("unexpected result: %v", res)
	}
}

func TestToolContext_StateRoundTrip(t *testing.T) {
	sess := NewSession("concierge", "s1", "EMP001")
	rc := &RunContext{Context: context.Background(), SessionID: "s1", Session: sess}
	tc := NewToolContext(rc, "fc-1")

	tc.SetState("lastBooking", "bk-42")
	v, ok := tc.GetState("lastBooking")
	if !ok || v != "bk-42" {
		t.Errorf("state round trip failed: %v %v", v, ok)
	}
	if tc.IsRegistered() {
		t.Error("unregistered session reported registered")
	}
	sess.SetState(StateKeyIsRegistered, true)
	if !tc.IsRegistered() {
		t.Error("expected registered")
	}
}
