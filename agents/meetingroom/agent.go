package meetingroom

import (
	"github.com/hallwayhq/agenthub/agent"
	"github.com/hallwayhq/agenthub/core"
	"github.com/hallwayhq/agenthub/eventlog"
	"github.com/hallwayhq/agenthub/gate"
	"github.com/hallwayhq/agenthub/model"
	"github.com/hallwayhq/agenthub/registry"
)

// AgentID is the id the meeting room agent registers under.
const AgentID = "meeting_room"

const instruction = `You are a professional meeting room booking assistant.
Be friendly and concise.

## User identity
The current user is {{.userName}} from {{.department}}. Their identity is
provided by the system; never ask for an employee id.

## Your tools
1. get_current_user - look up the signed-in user's profile
2. list_buildings - list bookable buildings
3. list_available_rooms - list a building's rooms and free slots on a date
4. book_room - book a room (user_id is filled in automatically)
5. list_my_bookings - list the user's confirmed bookings
6. cancel_booking - cancel a booking by its id

## Booking workflow
1. Greet the user by name.
2. Use list_buildings when they don't know the buildings.
3. Use list_available_rooms for a specific building and date.
4. Use book_room with the room, date, slot and meeting subject.

## Reminders
- Dates use YYYY-MM-DD; slots use HH:MM-HH:MM.
- Valid slots: 09:00-10:00 through 17:00-18:00, lunch hour excluded.
- Present results clearly, confirm bookings with their full details, and
  explain any error with a suggested next step.`

// NewDescriptor wires the booking agent: its model loop, its tool set over
// the store, and a gate requiring registration for user-scoped tools.
func NewDescriptor(llm model.Model, store *Store, trail *eventlog.Log) registry.Descriptor {
	g := gate.New(gate.Config{
		RequiredTools: []string{"book_room", "list_my_bookings", "cancel_booking"},
	}, trail)

	runner := agent.New(AgentID, llm, func(o *agent.Options) {
		o.Instruction = agent.NewInstructionFromText(instruction)
		o.Tools = Tools(store)
	})

	return registry.Descriptor{
		ID:             AgentID,
		Name:           "Meeting Room Agent",
		Description:    "Books and manages meeting rooms. Knows who you are without asking.",
		Runner:         runner,
		ToolMiddleware: []core.ToolMiddleware{g.Middleware()},
	}
}
