package meetingroom

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallwayhq/agenthub/core"
)

func newToolContext(t *testing.T, registered bool) *core.ToolContext {
	t.Helper()

	sess := core.NewSession(AgentID, "sess-1", "EMP001")
	sess.SetState(core.StateKeyUserID, "EMP001")
	sess.SetState(core.StateKeyUserName, "Alice")
	sess.SetState(core.StateKeyDepartment, "Engineering")
	sess.SetState(core.StateKeyEmail, "alice@company.com")
	sess.SetState(core.StateKeyIsRegistered, registered)

	rc := &core.RunContext{
		Context:   context.Background(),
		AgentID:   AgentID,
		SessionID: sess.ID,
		RunID:     "run-1",
		UserID:    "EMP001",
		Session:   sess,
		Logger:    zerolog.Nop(),
	}
	return core.NewToolContext(rc, "call-1")
}

func findTool(t *testing.T, tools []core.Tool, name string) core.Tool {
	t.Helper()
	for _, tl := range tools {
		if tl.Name() == name {
			return tl
		}
	}
	t.Fatalf("tool %s not found", name)
	return nil
}

func TestToolSet(t *testing.T) {
	tools := Tools(NewStore())
	require.Len(t, tools, 6)

	names := make([]string, 0, len(tools))
	for _, tl := range tools {
		names = append(names, tl.Name())
	}
	assert.Equal(t, []string{
		"get_current_user", "list_buildings", "list_available_rooms",
		"book_room", "list_my_bookings", "cancel_booking",
	}, names)
}

func TestGetCurrentUser(t *testing.T) {
	tools := Tools(NewStore())
	tl := findTool(t, tools, "get_current_user")

	res, err := tl.Call(newToolContext(t, true), map[string]any{})
	require.NoError(t, err)
	m := res.(map[string]any)
	assert.Equal(t, "success", m["status"])
	info := m["user_info"].(map[string]any)
	assert.Equal(t, "Alice", info[core.StateKeyUserName])

	res, err = tl.Call(newToolContext(t, false), map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "error", res.(map[string]any)["status"])
}

func TestBookRoomTool(t *testing.T) {
	store := NewStore()
	tl := findTool(t, Tools(store), "book_room")

	res, err := tl.Call(newToolContext(t, true), map[string]any{
		"room_id":   "A-101",
		"user_id":   "EMP001",
		"date":      futureDate(7),
		"time_slot": "09:00-10:00",
		"title":     "standup",
		"attendees": float64(5),
	})
	require.NoError(t, err)
	m := res.(map[string]any)
	require.Equal(t, "success", m["status"])

	booking := m["booking"].(Booking)
	assert.Equal(t, "A-101", booking.RoomID)
	assert.Equal(t, 5, booking.Attendees)

	// The conflicting retry is a tool result, not a Go error.
	res, err = tl.Call(newToolContext(t, true), map[string]any{
		"room_id":   "A-101",
		"user_id":   "EMP002",
		"date":      futureDate(7),
		"time_slot": "09:00-10:00",
		"title":     "clash",
	})
	require.NoError(t, err)
	m = res.(map[string]any)
	assert.Equal(t, "error", m["status"])
	assert.Contains(t, m["error_message"], "already booked")
}

func TestListMyBookingsTool(t *testing.T) {
	store := NewStore()
	_, err := store.Book("A-101", "EMP001", futureDate(7), "09:00-10:00", "standup", 3)
	require.NoError(t, err)

	tl := findTool(t, Tools(store), "list_my_bookings")

	res, callErr := tl.Call(newToolContext(t, true), map[string]any{"user_id": "EMP001"})
	require.NoError(t, callErr)
	m := res.(map[string]any)
	assert.Equal(t, "success", m["status"])
	assert.Len(t, m["bookings"], 1)

	res, callErr = tl.Call(newToolContext(t, true), map[string]any{"user_id": "EMP999"})
	require.NoError(t, callErr)
	m = res.(map[string]any)
	assert.Equal(t, "success", m["status"])
	assert.Contains(t, m["message"], "no bookings")
}
