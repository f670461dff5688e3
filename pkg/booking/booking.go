package booking

import "errors"

var (
	// ErrInvalidInput rejects a request before any external call is
	// made: unparseable slot or missing attendee fields.
	ErrInvalidInput = errors.New("invalid booking input")
	// ErrSlotUnavailable means the re-check found the slot taken:
	// collective needs every calendar free, round robin at least one.
	// The caller should re-fetch availability.
	ErrSlotUnavailable = errors.New("timeslot not available")
	// ErrBookingFailed wraps an EventSink failure during commit. No
	// partial state is cleaned up; the external calendar is the sole
	// source of truth.
	ErrBookingFailed = errors.New("failed to create event")
)

type Attendee struct {
	Name  string
	Email string
	Phone string
	Note  string
}

// BookingRequest is consumed exactly once; a failed booking is never
// retried by the coordinator.
type BookingRequest struct {
	Timeslot    string
	EventTypeId string
	Attendee    Attendee
}

// BookingResult is the resolved outcome of a successful booking.
type BookingResult struct {
	Ref                string
	AssignedCalendarId string
	GuestList          []string
	EventId            string
}
