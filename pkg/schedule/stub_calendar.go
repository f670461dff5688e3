package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// StubCalendarClient is an in-memory AvailabilitySource and EventSink for
// tests. Busy intervals are seeded per calendar; created events are
// recorded and also become busy intervals, so a booking immediately
// blocks the slot for subsequent queries.
type StubCalendarClient struct {
	mu   sync.Mutex
	busy map[string][]BusyInterval

	CreatedEvents []StubEvent
	CreateErr     error
}

type StubEvent struct {
	ID         string
	CalendarId string
	Title      string
	Start      time.Time
	End        time.Time
	Options    EventOptions
}

func NewStubCalendarClient() *StubCalendarClient {
	return &StubCalendarClient{busy: map[string][]BusyInterval{}}
}

// AddBusy seeds a busy interval for the given calendar.
func (c *StubCalendarClient) AddBusy(calendarId string, start, end time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy[calendarId] = append(c.busy[calendarId], BusyInterval{
		CalendarId: calendarId,
		Start:      start,
		End:        end,
	})
}

func (c *StubCalendarClient) QueryFreeBusy(_ context.Context, calendarIds []string, timeMin, timeMax time.Time) (map[string][]BusyInterval, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make(map[string][]BusyInterval, len(calendarIds))
	for _, id := range calendarIds {
		intervals := make([]BusyInterval, 0)
		for _, interval := range c.busy[id] {
			if interval.Overlaps(timeMin, timeMax) {
				intervals = append(intervals, interval)
			}
		}
		result[id] = intervals
	}
	return result, nil
}

func (c *StubCalendarClient) CreateEvent(_ context.Context, calendarId string, title string, start, end time.Time, options EventOptions) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.CreateErr != nil {
		return "", c.CreateErr
	}

	id := uuid.NewString()
	c.CreatedEvents = append(c.CreatedEvents, StubEvent{
		ID:         id,
		CalendarId: calendarId,
		Title:      title,
		Start:      start,
		End:        end,
		Options:    options,
	})
	c.busy[calendarId] = append(c.busy[calendarId], BusyInterval{
		CalendarId: calendarId,
		Start:      start,
		End:        end,
	})
	return id, nil
}
