package meetingroom

import (
	"fmt"

	"github.com/hallwayhq/agenthub/core"
	"github.com/hallwayhq/agenthub/tool"
)

// Tools builds the agent's tool set over the given store. Results follow
// the status/error_message convention so the model can relay failures
// conversationally.
func Tools(store *Store) []core.Tool {
	return []core.Tool{
		newCurrentUserTool(),
		newListBuildingsTool(store),
		newListAvailableRoomsTool(store),
		newBookRoomTool(store),
		newListMyBookingsTool(store),
		newCancelBookingTool(store),
	}
}

func success(fields map[string]any) map[string]any {
	out := map[string]any{"status": "success"}
	for k, v := range fields {
		out[k] = v
	}
	return out
}

func failure(err error) map[string]any {
	return map[string]any{"status": "error", "error_message": err.Error()}
}

func newCurrentUserTool() core.Tool {
	return tool.NewFunctionTool(
		"get_current_user",
		"Look up the profile of the currently signed-in user.",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			if !tc.IsRegistered() {
				return map[string]any{
					"status":  "error",
					"message": "User profile is unavailable. Please contact the system administrator.",
				}, nil
			}

			info := map[string]any{}
			for _, key := range []string{core.StateKeyUserID, core.StateKeyUserName, core.StateKeyDepartment, core.StateKeyEmail} {
				if v, ok := tc.GetState(key); ok {
					info[key] = v
				}
			}
			return success(map[string]any{"user_info": info}), nil
		},
	)
}

func newListBuildingsTool(store *Store) core.Tool {
	return tool.NewFunctionTool(
		"list_buildings",
		"List every building that has bookable meeting rooms.",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			buildings := store.Buildings()
			return success(map[string]any{
				"buildings": buildings,
				"message":   fmt.Sprintf("%d buildings are available for booking.", len(buildings)),
			}), nil
		},
	)
}

func newListAvailableRoomsTool(store *Store) core.Tool {
	return tool.NewFunctionTool(
		"list_available_rooms",
		"List the meeting rooms of a building with their free and taken slots on a given date.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"building_id": map[string]any{"type": "string", "description": "Building code, e.g. A, B or C"},
				"date":        map[string]any{"type": "string", "description": "Date in YYYY-MM-DD format"},
			},
			"required": []string{"building_id", "date"},
		},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			building, rooms, err := store.Availability(stringArg(args, "building_id"), stringArg(args, "date"))
			if err != nil {
				return failure(err), nil
			}
			return success(map[string]any{
				"building": building.Name,
				"date":     stringArg(args, "date"),
				"rooms":    rooms,
				"message":  fmt.Sprintf("%s has %d meeting rooms on %s.", building.Name, len(rooms), stringArg(args, "date")),
			}), nil
		},
	)
}

func newBookRoomTool(store *Store) core.Tool {
	return tool.NewFunctionTool(
		"book_room",
		"Book a meeting room slot. The user id is supplied by the system.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"room_id":   map[string]any{"type": "string", "description": "Room code, e.g. A-101"},
				"user_id":   map[string]any{"type": "string", "description": "Booking owner, injected automatically"},
				"date":      map[string]any{"type": "string", "description": "Date in YYYY-MM-DD format"},
				"time_slot": map[string]any{"type": "string", "description": "Slot such as 09:00-10:00"},
				"title":     map[string]any{"type": "string", "description": "Meeting subject"},
				"attendees": map[string]any{"type": "integer", "description": "Expected headcount"},
			},
			"required": []string{"room_id", "user_id", "date", "time_slot", "title"},
		},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			b, err := store.Book(
				stringArg(args, "room_id"),
				stringArg(args, "user_id"),
				stringArg(args, "date"),
				stringArg(args, "time_slot"),
				stringArg(args, "title"),
				intArg(args, "attendees"),
			)
			if err != nil {
				return failure(err), nil
			}
			return success(map[string]any{
				"booking": b,
				"message": fmt.Sprintf("Booked! Your booking id is %s.", b.BookingID),
			}), nil
		},
	)
}

func newListMyBookingsTool(store *Store) core.Tool {
	return tool.NewFunctionTool(
		"list_my_bookings",
		"List the current user's confirmed bookings. The user id is supplied by the system.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"user_id": map[string]any{"type": "string", "description": "Booking owner, injected automatically"},
			},
			"required": []string{"user_id"},
		},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			userID := stringArg(args, "user_id")
			bookings := store.BookingsFor(userID)
			if len(bookings) == 0 {
				return success(map[string]any{
					"bookings": []Booking{},
					"message":  fmt.Sprintf("User %s has no bookings.", userID),
				}), nil
			}
			return success(map[string]any{
				"user_id":  userID,
				"bookings": bookings,
				"message":  fmt.Sprintf("User %s has %d bookings.", userID, len(bookings)),
			}), nil
		},
	)
}

func newCancelBookingTool(store *Store) core.Tool {
	return tool.NewFunctionTool(
		"cancel_booking",
		"Cancel one of the current user's bookings by booking id.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"booking_id": map[string]any{"type": "string", "description": "Booking id, e.g. BK202512200001"},
				"user_id":    map[string]any{"type": "string", "description": "Booking owner, injected automatically"},
			},
			"required": []string{"booking_id", "user_id"},
		},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			b, err := store.Cancel(stringArg(args, "booking_id"), stringArg(args, "user_id"))
			if err != nil {
				return failure(err), nil
			}
			return success(map[string]any{
				"booking_id": b.BookingID,
				"message":    fmt.Sprintf("Booking %s cancelled (%s, %s %s).", b.BookingID, b.RoomName, b.Date, b.TimeSlot),
			}), nil
		},
	)
}

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

func intArg(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
