package schedule

import (
	"context"
	"time"
)

// BusyInterval is a half-open [Start, End) range during which a calendar
// is occupied. Intervals are fetched fresh per request and never stored.
type BusyInterval struct {
	CalendarId string
	Start      time.Time
	End        time.Time
}

// Overlaps reports whether the interval conflicts with the half-open
// slot [start, end).
func (b BusyInterval) Overlaps(start, end time.Time) bool {
	return b.Start.Before(end) && b.End.After(start)
}

// TimeSlot is a fixed-width candidate appointment interval,
// End = Start + duration.
type TimeSlot struct {
	Start time.Time
	End   time.Time
}

// AvailabilitySource answers free/busy queries against an external
// calendar store. Implementations must return one map entry per requested
// calendar ID, even when the calendar has no busy intervals in the range.
type AvailabilitySource interface {
	QueryFreeBusy(ctx context.Context, calendarIds []string, timeMin, timeMax time.Time) (map[string][]BusyInterval, error)
}

// EventOptions carries the guest and visibility settings applied to a
// created calendar event.
type EventOptions struct {
	Description           string
	Guests                []string
	Visibility            Visibility
	GuestsCanModify       bool
	GuestsCanInviteOthers bool
	GuestsCanSeeGuests    bool
}

// EventSink creates events in the external calendar store. The store is
// the sole source of truth for bookings; there is no local rollback
// primitive when a create fails.
type EventSink interface {
	CreateEvent(ctx context.Context, calendarId string, title string, start, end time.Time, options EventOptions) (string, error)
}
