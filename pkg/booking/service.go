package booking

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rbbydotdev/someday/internal/event_bus"
	"github.com/rbbydotdev/someday/pkg/availability"
	"github.com/rbbydotdev/someday/pkg/schedule"
	log "github.com/sirupsen/logrus"
)

type Coordinator interface {
	Book(ctx context.Context, req BookingRequest) (BookingResult, error)
}

type CoordinatorImpl struct {
	config schedule.Service
	source schedule.AvailabilitySource
	sink   schedule.EventSink
	bus    *event_bus.EventBus
	rng    *rand.Rand
}

// NewCoordinator builds the booking write path. rng drives the round
// robin calendar pick; pass a seeded source in tests for determinism,
// nil for production randomness.
func NewCoordinator(config schedule.Service, source schedule.AvailabilitySource, sink schedule.EventSink, bus *event_bus.EventBus, rng *rand.Rand) *CoordinatorImpl {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &CoordinatorImpl{config: config, source: source, sink: sink, bus: bus, rng: rng}
}

// Book re-validates the requested slot against live busy data, selects
// the target calendar per the effective strategy and creates the event.
//
// The gap between the free/busy re-check and the event creation is not
// protected by any lock on the external calendar: two concurrent round
// robin bookings can observe the same free calendar and both commit.
// The external API offers no conditional create, so the race is accepted
// rather than papered over.
func (c *CoordinatorImpl) Book(ctx context.Context, req BookingRequest) (BookingResult, error) {
	// Validating
	if req.Attendee.Name == "" {
		return BookingResult{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if req.Attendee.Email == "" {
		return BookingResult{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	start, err := time.Parse(time.RFC3339, req.Timeslot)
	if err != nil {
		return BookingResult{}, fmt.Errorf("%w: invalid start time %q", ErrInvalidInput, req.Timeslot)
	}

	cfg, err := c.config.GetConfig(ctx)
	if err != nil {
		return BookingResult{}, err
	}
	eventType, policy, err := schedule.Resolve(cfg, req.EventTypeId)
	if err != nil {
		return BookingResult{}, err
	}
	end := start.Add(time.Duration(eventType.DurationMinutes) * time.Minute)

	// Checking: a fresh free/busy query for exactly the requested
	// interval. A snapshot from slot discovery would be stale by now.
	busyByCalendar, err := c.source.QueryFreeBusy(ctx, policy.Calendars, start, end)
	if err != nil {
		return BookingResult{}, fmt.Errorf("failed to query free/busy: %w", err)
	}
	slot := schedule.TimeSlot{Start: start, End: end}
	freeCalendars := availability.FreeCalendars(slot, busyByCalendar, policy.Calendars)

	// Assigning
	var assigned string
	var guests []string
	switch policy.Strategy {
	case schedule.StrategyRoundRobin:
		if len(freeCalendars) == 0 {
			return BookingResult{}, ErrSlotUnavailable
		}
		// Uniform pick over the free calendars, not the first one:
		// load distribution across the team is intentional. Only the
		// attendee is invited; unselected team members stay out of it.
		assigned = freeCalendars[c.rng.Intn(len(freeCalendars))]
		guests = []string{req.Attendee.Email}
	default:
		if len(freeCalendars) != len(policy.Calendars) {
			return BookingResult{}, ErrSlotUnavailable
		}
		// Collective blocks the whole team: the event lands on the
		// first calendar and every other monitored calendar is invited.
		assigned = policy.Calendars[0]
		guests = []string{req.Attendee.Email}
		for _, calendarId := range policy.Calendars {
			if calendarId != assigned {
				guests = append(guests, calendarId)
			}
		}
	}

	// Committed
	ref := uuid.NewString()
	visibility := eventType.Visibility
	if visibility == "" {
		visibility = schedule.VisibilityDefault
	}
	title := fmt.Sprintf("Appointment with %s", req.Attendee.Name)
	description := fmt.Sprintf("Phone: %s\nNote: %s\nRef: %s", req.Attendee.Phone, req.Attendee.Note, ref)

	eventId, err := c.sink.CreateEvent(ctx, assigned, title, start, end, schedule.EventOptions{
		Description:           description,
		Guests:                guests,
		Visibility:            visibility,
		GuestsCanModify:       eventType.GuestPermissions.CanModify,
		GuestsCanInviteOthers: eventType.GuestPermissions.CanInvite,
		GuestsCanSeeGuests:    eventType.GuestPermissions.CanSeeGuests,
	})
	if err != nil {
		return BookingResult{}, fmt.Errorf("%w: %v", ErrBookingFailed, err)
	}

	log.Infof("booked %s - %s on %s (ref %s)", start.Format(time.RFC3339), end.Format(time.RFC3339), assigned, ref)
	if c.bus != nil {
		c.bus.Publish(event_bus.NewEvent(ctx, event_bus.BookingCommittedEvent, event_bus.BookingCommitted{
			Ref:                ref,
			EventTypeId:        eventType.ID,
			AssignedCalendarId: assigned,
			StartTime:          start,
			EndTime:            end,
			Strategy:           string(policy.Strategy),
			GuestCount:         len(guests),
		}))
	}

	return BookingResult{
		Ref:                ref,
		AssignedCalendarId: assigned,
		GuestList:          guests,
		EventId:            eventId,
	}, nil
}
