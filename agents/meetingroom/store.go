// Package meetingroom is a sample booking agent: five tools over an
// in-memory reservation store, with registration required for anything that
// touches a user's own bookings.
package meetingroom

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// TimeSlots are the bookable hourly slots of a working day (lunch hour
// excluded).
var TimeSlots = []string{
	"09:00-10:00", "10:00-11:00", "11:00-12:00",
	"13:00-14:00", "14:00-15:00", "15:00-16:00",
	"16:00-17:00", "17:00-18:00",
}

// Booking errors surfaced as ordinary tool results, not run failures.
var (
	ErrBuildingNotFound = errors.New("building not found")
	ErrRoomNotFound     = errors.New("room not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrInvalidDate      = errors.New("invalid date format, expected YYYY-MM-DD")
	ErrPastDate         = errors.New("date is in the past")
	ErrInvalidSlot      = errors.New("invalid time slot")
	ErrSlotTaken        = errors.New("slot already booked")
	ErrOverCapacity     = errors.New("attendees exceed room capacity")
	ErrNotOwner         = errors.New("only the booking owner can cancel it")
	ErrAlreadyCancelled = errors.New("booking already cancelled")
)

// Building is a bookable site.
type Building struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Floors int    `json:"floors"`
}

// Room is a bookable meeting room within a building.
type Room struct {
	ID       string `json:"id"`
	Building string `json:"building"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// Booking is one confirmed or cancelled reservation.
type Booking struct {
	BookingID   string `json:"booking_id"`
	RoomID      string `json:"room_id"`
	RoomName    string `json:"room_name"`
	Building    string `json:"building"`
	UserID      string `json:"user_id"`
	Date        string `json:"date"`
	TimeSlot    string `json:"time_slot"`
	Title       string `json:"title"`
	Attendees   int    `json:"attendees"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	CancelledAt string `json:"cancelled_at,omitempty"`
}

// RoomAvailability is a room plus its free and taken slots on one date.
type RoomAvailability struct {
	RoomID         string   `json:"room_id"`
	RoomName       string   `json:"room_name"`
	Capacity       int      `json:"capacity"`
	AvailableSlots []string `json:"available_slots"`
	BookedSlots    []string `json:"booked_slots"`
}

// Store is the in-memory reservation database. Safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	buildings []Building
	rooms     []Room
	bookings  map[string]*Booking
	counter   int
	now       func() time.Time
}

// NewStore seeds the demo campus: three buildings, seven rooms.
func NewStore() *Store {
	return &Store{
		buildings: []Building{
			{ID: "A", Name: "Building A - Headquarters", Floors: 10},
			{ID: "B", Name: "Building B - R&D Center", Floors: 8},
			{ID: "C", Name: "Building C - Conference Center", Floors: 5},
		},
		rooms: []Room{
			{ID: "A-101", Building: "A", Name: "Main Conference Room", Capacity: 20},
			{ID: "A-102", Building: "A", Name: "Small Meeting Room A", Capacity: 8},
			{ID: "A-201", Building: "A", Name: "Boardroom", Capacity: 30},
			{ID: "B-101", Building: "B", Name: "R&D Huddle Room", Capacity: 10},
			{ID: "B-102", Building: "B", Name: "Tech Briefing Room", Capacity: 15},
			{ID: "C-101", Building: "C", Name: "Multipurpose Hall", Capacity: 50},
			{ID: "C-201", Building: "C", Name: "VIP Meeting Room", Capacity: 12},
		},
		bookings: map[string]*Booking{},
		now:      time.Now,
	}
}

// Buildings returns every building in seed order.
func (s *Store) Buildings() []Building {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Building, len(s.buildings))
	copy(out, s.buildings)
	return out
}

// Availability returns each room of a building with its free and taken
// slots for the given date.
func (s *Store) Availability(buildingID, date string) (Building, []RoomAvailability, error) {
	buildingID = strings.ToUpper(buildingID)

	s.mu.Lock()
	defer s.mu.Unlock()

	building, ok := s.buildingLocked(buildingID)
	if !ok {
		return Building{}, nil, fmt.Errorf("%w: %s", ErrBuildingNotFound, buildingID)
	}
	if err := s.validateDateLocked(date); err != nil {
		return Building{}, nil, err
	}

	var rooms []RoomAvailability
	for _, room := range s.rooms {
		if room.Building != buildingID {
			continue
		}
		booked := s.bookedSlotsLocked(room.ID, date)
		available := make([]string, 0, len(TimeSlots))
		for _, slot := range TimeSlots {
			if !contains(booked, slot) {
				available = append(available, slot)
			}
		}
		rooms = append(rooms, RoomAvailability{
			RoomID:         room.ID,
			RoomName:       room.Name,
			Capacity:       room.Capacity,
			AvailableSlots: available,
			BookedSlots:    booked,
		})
	}

	return building, rooms, nil
}

// Book reserves a room slot for a user. Conflicts, capacity overruns and
// past dates are rejected.
func (s *Store) Book(roomID, userID, date, timeSlot, title string, attendees int) (Booking, error) {
	roomID = strings.ToUpper(roomID)

	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.roomLocked(roomID)
	if !ok {
		return Booking{}, fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}
	if err := s.validateDateLocked(date); err != nil {
		return Booking{}, err
	}
	if !contains(TimeSlots, timeSlot) {
		return Booking{}, fmt.Errorf("%w: %q (valid slots: %s)", ErrInvalidSlot, timeSlot, strings.Join(TimeSlots, ", "))
	}
	if contains(s.bookedSlotsLocked(roomID, date), timeSlot) {
		return Booking{}, fmt.Errorf("%w: room %s on %s at %s", ErrSlotTaken, roomID, date, timeSlot)
	}
	if attendees > room.Capacity {
		return Booking{}, fmt.Errorf("%w: %d attendees, capacity %d", ErrOverCapacity, attendees, room.Capacity)
	}

	s.counter++
	b := &Booking{
		BookingID: fmt.Sprintf("BK%s%04d", s.now().Format("20060102"), s.counter),
		RoomID:    room.ID,
		RoomName:  room.Name,
		Building:  room.Building,
		UserID:    userID,
		Date:      date,
		TimeSlot:  timeSlot,
		Title:     title,
		Attendees: attendees,
		Status:    "confirmed",
		CreatedAt: s.now().Format(time.RFC3339),
	}
	s.bookings[b.BookingID] = b

	return *b, nil
}

// BookingsFor returns a user's confirmed bookings ordered by date and slot.
func (s *Store) BookingsFor(userID string) []Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Booking
	for _, b := range s.bookings {
		if b.UserID == userID && b.Status == "confirmed" {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].TimeSlot < out[j].TimeSlot
	})
	return out
}

// Cancel marks a booking cancelled. Only the owner may cancel, and only
// before the booked date has passed.
func (s *Store) Cancel(bookingID, userID string) (Booking, error) {
	bookingID = strings.ToUpper(bookingID)

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[bookingID]
	if !ok {
		return Booking{}, fmt.Errorf("%w: %s", ErrBookingNotFound, bookingID)
	}
	if b.Status == "cancelled" {
		return Booking{}, fmt.Errorf("%w: %s", ErrAlreadyCancelled, bookingID)
	}
	if b.UserID != userID {
		return Booking{}, ErrNotOwner
	}
	if err := s.validateDateLocked(b.Date); err != nil {
		return Booking{}, err
	}

	b.Status = "cancelled"
	b.CancelledAt = s.now().Format(time.RFC3339)

	return *b, nil
}

func (s *Store) buildingLocked(id string) (Building, bool) {
	for _, b := range s.buildings {
		if b.ID == id {
			return b, true
		}
	}
	return Building{}, false
}

func (s *Store) roomLocked(id string) (Room, bool) {
	for _, r := range s.rooms {
		if r.ID == id {
			return r, true
		}
	}
	return Room{}, false
}

func (s *Store) bookedSlotsLocked(roomID, date string) []string {
	var slots []string
	for _, b := range s.bookings {
		if b.RoomID == roomID && b.Date == date && b.Status == "confirmed" {
			slots = append(slots, b.TimeSlot)
		}
	}
	sort.Strings(slots)
	return slots
}

func (s *Store) validateDateLocked(date string) error {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	// Build today's midnight from the clock's own calendar date so the
	// comparison is day-granular regardless of the host timezone.
	y, m, day := s.now().Date()
	today := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	if d.Before(today) {
		return fmt.Errorf("%w: %s", ErrPastDate, date)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
