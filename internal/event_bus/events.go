package event_bus

import "time"

const BookingCommittedEvent EventType = "booking.committed"

// BookingCommitted is published after an event has been created in the
// external calendar.
type BookingCommitted struct {
	Ref                string
	EventTypeId        string
	AssignedCalendarId string
	StartTime          time.Time
	EndTime            time.Time
	Strategy           string
	GuestCount         int
}
