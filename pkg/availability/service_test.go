package availability

import (
	"context"
	"testing"
	"time"

	"github.com/rbbydotdev/someday/internal/utils"
	"github.com/rbbydotdev/someday/pkg/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingSource wraps the stub calendar to count free/busy queries.
type countingSource struct {
	*schedule.StubCalendarClient
	queries int
}

func (c *countingSource) QueryFreeBusy(ctx context.Context, calendarIds []string, timeMin, timeMax time.Time) (map[string][]schedule.BusyInterval, error) {
	c.queries++
	return c.StubCalendarClient.QueryFreeBusy(ctx, calendarIds, timeMin, timeMax)
}

func setupServiceTest(t *testing.T, cfg schedule.Config) (*ServiceImpl, *countingSource, *utils.MockClock) {
	configService := schedule.NewService(schedule.NewStubRepository())
	require.NoError(t, configService.SetConfig(context.Background(), cfg))

	source := &countingSource{StubCalendarClient: schedule.NewStubCalendarClient()}
	clock := &utils.MockClock{}
	service := NewService(configService, source, clock)
	return service, source, clock
}

func tuesdayConfig(calendars []string, strategy schedule.Strategy) schedule.Config {
	return schedule.Config{
		Policy: schedule.SchedulingPolicy{
			TimeZone:      "UTC",
			Workdays:      []time.Weekday{time.Tuesday},
			WorkHours:     schedule.WorkHours{Start: 9, End: 16},
			DaysInAdvance: 1,
			Calendars:     calendars,
			Strategy:      strategy,
		},
		EventTypes: []schedule.EventType{
			{ID: "30min", Name: "30 Minute Meeting", DurationMinutes: 30, Selectable: true},
		},
	}
}

func TestFetchAvailability_BusySlotIsHidden(t *testing.T) {
	cfg := tuesdayConfig([]string{"primary"}, schedule.StrategyCollective)
	service, source, clock := setupServiceTest(t, cfg)

	// 2026-01-06 is a Tuesday.
	clock.SetNow(time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC))
	source.AddBusy("primary", time.Date(2026, 1, 6, 10, 0, 0, 0, time.UTC), time.Date(2026, 1, 6, 10, 30, 0, 0, time.UTC))

	result, err := service.FetchAvailability(context.Background(), "30min")
	require.NoError(t, err)

	assert.Equal(t, 30, result.DurationMinutes)
	// 14 candidate starts between 09:00 and 15:30, one of them taken.
	assert.Len(t, result.Timeslots, 13)
	assert.Contains(t, result.Timeslots, time.Date(2026, 1, 6, 9, 30, 0, 0, time.UTC))
	assert.NotContains(t, result.Timeslots, time.Date(2026, 1, 6, 10, 0, 0, 0, time.UTC))
	assert.Contains(t, result.Timeslots, time.Date(2026, 1, 6, 10, 30, 0, 0, time.UTC))
}

func TestFetchAvailability_SingleFreeBusyQuery(t *testing.T) {
	cfg := tuesdayConfig([]string{"alice@example.com", "bob@example.com"}, schedule.StrategyCollective)
	service, source, clock := setupServiceTest(t, cfg)
	clock.SetNow(time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC))

	_, err := service.FetchAvailability(context.Background(), "30min")
	require.NoError(t, err)

	// One snapshot serves the whole evaluation, regardless of slot count.
	assert.Equal(t, 1, source.queries)
}

func TestFetchAvailability_RoundRobinKeepsPartiallyFreeSlots(t *testing.T) {
	busyStart := time.Date(2026, 1, 6, 10, 0, 0, 0, time.UTC)
	busyEnd := busyStart.Add(30 * time.Minute)

	testCases := []struct {
		name          string
		strategy      schedule.Strategy
		wantTenOClock bool
	}{
		{name: "collective hides it", strategy: schedule.StrategyCollective, wantTenOClock: false},
		{name: "round robin keeps it", strategy: schedule.StrategyRoundRobin, wantTenOClock: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tuesdayConfig([]string{"alice@example.com", "bob@example.com"}, tc.strategy)
			service, source, clock := setupServiceTest(t, cfg)
			clock.SetNow(time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC))
			source.AddBusy("alice@example.com", busyStart, busyEnd)

			result, err := service.FetchAvailability(context.Background(), "30min")
			require.NoError(t, err)

			if tc.wantTenOClock {
				assert.Contains(t, result.Timeslots, busyStart)
			} else {
				assert.NotContains(t, result.Timeslots, busyStart)
			}
		})
	}
}

func TestFetchAvailability_UnknownEventTypeFallsBack(t *testing.T) {
	cfg := tuesdayConfig([]string{"primary"}, schedule.StrategyCollective)
	service, _, clock := setupServiceTest(t, cfg)
	clock.SetNow(time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC))

	result, err := service.FetchAvailability(context.Background(), "does-not-exist")
	require.NoError(t, err)

	assert.Equal(t, 30, result.DurationMinutes)
	assert.NotEmpty(t, result.Timeslots)
}
