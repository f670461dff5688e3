package booking

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/rbbydotdev/someday/internal/event_bus"
	"github.com/rbbydotdev/someday/pkg/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingConfig(calendars []string, strategy schedule.Strategy) schedule.Config {
	return schedule.Config{
		Policy: schedule.SchedulingPolicy{
			TimeZone:      "UTC",
			Workdays:      []time.Weekday{time.Tuesday},
			WorkHours:     schedule.WorkHours{Start: 9, End: 16},
			DaysInAdvance: 28,
			Calendars:     calendars,
			Strategy:      strategy,
		},
		EventTypes: []schedule.EventType{
			{
				ID:              "30min",
				Name:            "30 Minute Meeting",
				DurationMinutes: 30,
				Selectable:      true,
				GuestPermissions: schedule.GuestPermissions{
					CanSeeGuests: true,
				},
			},
		},
	}
}

func setupCoordinatorTest(t *testing.T, cfg schedule.Config) (*CoordinatorImpl, *schedule.StubCalendarClient) {
	configService := schedule.NewService(schedule.NewStubRepository())
	require.NoError(t, configService.SetConfig(context.Background(), cfg))

	client := schedule.NewStubCalendarClient()
	rng := rand.New(rand.NewSource(42))
	coordinator := NewCoordinator(configService, client, client, nil, rng)
	return coordinator, client
}

func validRequest() BookingRequest {
	return BookingRequest{
		Timeslot:    "2026-01-06T10:00:00Z",
		EventTypeId: "30min",
		Attendee: Attendee{
			Name:  "Jane Doe",
			Email: "jane@example.com",
			Phone: "555-0100",
			Note:  "Looking forward to it",
		},
	}
}

func TestBook_InvalidInput(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(req *BookingRequest)
	}{
		{name: "missing name", modify: func(req *BookingRequest) { req.Attendee.Name = "" }},
		{name: "missing email", modify: func(req *BookingRequest) { req.Attendee.Email = "" }},
		{name: "malformed timeslot", modify: func(req *BookingRequest) { req.Timeslot = "tomorrow at ten" }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			coordinator, client := setupCoordinatorTest(t, bookingConfig([]string{"primary"}, schedule.StrategyCollective))

			req := validRequest()
			tc.modify(&req)

			_, err := coordinator.Book(context.Background(), req)

			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, client.CreatedEvents)
		})
	}
}

func TestBook_CollectiveInvitesWholeTeam(t *testing.T) {
	calendars := []string{"alice@example.com", "bob@example.com", "carol@example.com"}
	coordinator, client := setupCoordinatorTest(t, bookingConfig(calendars, schedule.StrategyCollective))

	result, err := coordinator.Book(context.Background(), validRequest())
	require.NoError(t, err)

	// The event lands on the first calendar and blocks everyone else via
	// the guest list.
	assert.Equal(t, "alice@example.com", result.AssignedCalendarId)
	assert.Equal(t, []string{"jane@example.com", "bob@example.com", "carol@example.com"}, result.GuestList)
	assert.NotEmpty(t, result.Ref)

	require.Len(t, client.CreatedEvents, 1)
	created := client.CreatedEvents[0]
	assert.Equal(t, "alice@example.com", created.CalendarId)
	assert.Equal(t, "Appointment with Jane Doe", created.Title)
	assert.True(t, created.Start.Equal(time.Date(2026, 1, 6, 10, 0, 0, 0, time.UTC)))
	assert.True(t, created.End.Equal(time.Date(2026, 1, 6, 10, 30, 0, 0, time.UTC)))
	assert.Contains(t, created.Options.Description, "Phone: 555-0100")
	assert.Contains(t, created.Options.Description, "Note: Looking forward to it")
	assert.Contains(t, created.Options.Description, fmt.Sprintf("Ref: %s", result.Ref))
	assert.True(t, created.Options.GuestsCanSeeGuests)
}

func TestBook_CollectiveRejectsPartiallyBusySlot(t *testing.T) {
	calendars := []string{"alice@example.com", "bob@example.com"}
	coordinator, client := setupCoordinatorTest(t, bookingConfig(calendars, schedule.StrategyCollective))
	client.AddBusy("bob@example.com",
		time.Date(2026, 1, 6, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 6, 10, 30, 0, 0, time.UTC))

	_, err := coordinator.Book(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.Empty(t, client.CreatedEvents)
}

func TestBook_RoundRobinSkipsBusyCalendars(t *testing.T) {
	calendars := []string{"alice@example.com", "bob@example.com"}
	coordinator, client := setupCoordinatorTest(t, bookingConfig(calendars, schedule.StrategyRoundRobin))
	client.AddBusy("alice@example.com",
		time.Date(2026, 1, 6, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 6, 10, 30, 0, 0, time.UTC))

	result, err := coordinator.Book(context.Background(), validRequest())
	require.NoError(t, err)

	// Only bob is free, so the pick is forced; the rest of the team is not
	// invited and does not learn about the booking.
	assert.Equal(t, "bob@example.com", result.AssignedCalendarId)
	assert.Equal(t, []string{"jane@example.com"}, result.GuestList)
}

func TestBook_RoundRobinAllBusy(t *testing.T) {
	calendars := []string{"alice@example.com", "bob@example.com"}
	coordinator, client := setupCoordinatorTest(t, bookingConfig(calendars, schedule.StrategyRoundRobin))
	for _, calendarId := range calendars {
		client.AddBusy(calendarId,
			time.Date(2026, 1, 6, 10, 0, 0, 0, time.UTC),
			time.Date(2026, 1, 6, 10, 30, 0, 0, time.UTC))
	}

	_, err := coordinator.Book(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestBook_RoundRobinPickIsDeterministicWithSeededRand(t *testing.T) {
	calendars := []string{"alice@example.com", "bob@example.com", "carol@example.com"}

	pick := func() string {
		coordinator, _ := setupCoordinatorTest(t, bookingConfig(calendars, schedule.StrategyRoundRobin))
		result, err := coordinator.Book(context.Background(), validRequest())
		require.NoError(t, err)
		return result.AssignedCalendarId
	}

	first := pick()
	assert.Contains(t, calendars, first)
	// Same seed, same pick.
	assert.Equal(t, first, pick())
}

func TestBook_RoundRobinSpreadsAcrossFreeCalendars(t *testing.T) {
	calendars := []string{"alice@example.com", "bob@example.com", "carol@example.com"}
	configService := schedule.NewService(schedule.NewStubRepository())
	require.NoError(t, configService.SetConfig(context.Background(), bookingConfig(calendars, schedule.StrategyRoundRobin)))

	rng := rand.New(rand.NewSource(7))
	picked := make(map[string]int)
	for i := 0; i < 60; i++ {
		// Fresh calendar state each round so every calendar stays free.
		client := schedule.NewStubCalendarClient()
		coordinator := NewCoordinator(configService, client, client, nil, rng)
		result, err := coordinator.Book(context.Background(), validRequest())
		require.NoError(t, err)
		picked[result.AssignedCalendarId]++
	}

	// Not a distribution test, just that no free calendar is starved.
	for _, calendarId := range calendars {
		assert.Greater(t, picked[calendarId], 0, "calendar %s was never picked", calendarId)
	}
}

func TestBook_SinkFailure(t *testing.T) {
	coordinator, client := setupCoordinatorTest(t, bookingConfig([]string{"primary"}, schedule.StrategyCollective))
	client.CreateErr = fmt.Errorf("calendar API is down")

	_, err := coordinator.Book(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrBookingFailed)
	assert.Contains(t, err.Error(), "calendar API is down")
}

func TestBook_BookedSlotBlocksTheNextBooking(t *testing.T) {
	coordinator, _ := setupCoordinatorTest(t, bookingConfig([]string{"primary"}, schedule.StrategyCollective))

	_, err := coordinator.Book(context.Background(), validRequest())
	require.NoError(t, err)

	_, err = coordinator.Book(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestBook_PublishesCommittedEvent(t *testing.T) {
	configService := schedule.NewService(schedule.NewStubRepository())
	require.NoError(t, configService.SetConfig(context.Background(), bookingConfig([]string{"primary"}, schedule.StrategyCollective)))

	client := schedule.NewStubCalendarClient()
	bus := event_bus.NewEventBus()
	var published []event_bus.BookingCommitted
	bus.Subscribe(event_bus.BookingCommittedEvent, func(e event_bus.Event) error {
		published = append(published, e.Data.(event_bus.BookingCommitted))
		return nil
	})

	coordinator := NewCoordinator(configService, client, client, bus, rand.New(rand.NewSource(1)))
	result, err := coordinator.Book(context.Background(), validRequest())
	require.NoError(t, err)

	require.Len(t, published, 1)
	assert.Equal(t, result.Ref, published[0].Ref)
	assert.Equal(t, "30min", published[0].EventTypeId)
	assert.Equal(t, "primary", published[0].AssignedCalendarId)
	assert.Equal(t, 1, published[0].GuestCount)
}
