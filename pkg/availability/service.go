package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/rbbydotdev/someday/internal/utils"
	"github.com/rbbydotdev/someday/pkg/schedule"
	log "github.com/sirupsen/logrus"
)

// Availability is the public slot list for one event type.
type Availability struct {
	Timeslots       []time.Time
	DurationMinutes int
}

type Service interface {
	FetchAvailability(ctx context.Context, eventTypeId string) (Availability, error)
}

type ServiceImpl struct {
	config schedule.Service
	source schedule.AvailabilitySource
	clock  utils.Clock
}

func NewService(config schedule.Service, source schedule.AvailabilitySource, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{config: config, source: source, clock: clock}
}

// FetchAvailability computes the bookable slots for the event type. There
// is no partial-failure mode: the evaluation needs one consistent
// free/busy snapshot across every monitored calendar, so any error fails
// the whole call.
func (s *ServiceImpl) FetchAvailability(ctx context.Context, eventTypeId string) (Availability, error) {
	cfg, err := s.config.GetConfig(ctx)
	if err != nil {
		return Availability{}, err
	}

	eventType, policy, err := schedule.Resolve(cfg, eventTypeId)
	if err != nil {
		return Availability{}, err
	}

	now := s.clock.Now()
	candidates, err := Slots(policy, eventType.DurationMinutes, now)
	if err != nil {
		return Availability{}, err
	}

	duration := time.Duration(eventType.DurationMinutes) * time.Minute
	start := RoundToSlot(now, duration)
	horizon := HorizonEnd(start, policy.DaysInAdvance)

	busyByCalendar, err := s.source.QueryFreeBusy(ctx, policy.Calendars, start, horizon)
	if err != nil {
		return Availability{}, fmt.Errorf("failed to query free/busy: %w", err)
	}

	available := Evaluate(candidates, busyByCalendar, policy.Calendars, policy.Strategy)
	log.Debugf("availability for event type %q: %d of %d candidate slots free", eventType.ID, len(available), len(candidates))

	timeslots := make([]time.Time, 0, len(available))
	for _, slot := range available {
		timeslots = append(timeslots, slot.Start)
	}

	return Availability{
		Timeslots:       timeslots,
		DurationMinutes: eventType.DurationMinutes,
	}, nil
}
