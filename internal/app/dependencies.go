package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rbbydotdev/someday/internal/config"
	"github.com/rbbydotdev/someday/internal/event_bus"
	"github.com/rbbydotdev/someday/internal/utils"
	"github.com/rbbydotdev/someday/pkg/availability"
	"github.com/rbbydotdev/someday/pkg/booking"
	"github.com/rbbydotdev/someday/pkg/google"
	"github.com/rbbydotdev/someday/pkg/schedule"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	GoogleAuth    *google.GoogleAuth
	GoogleService *google.ServiceImpl
	GoogleHandler *google.Handler

	ScheduleRepo    schedule.Repository
	ScheduleService schedule.Service
	ScheduleHandler *schedule.Handler

	AvailabilityService availability.Service
	AvailabilityHandler *availability.Handler

	BookingCoordinator booking.Coordinator
	BookingHandler     *booking.Handler

	EventBus *event_bus.EventBus
	Clock    utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.GoogleAuth = google.NewGoogleAuth(db, cfg)
	deps.GoogleService = google.NewService(deps.GoogleAuth)
	deps.GoogleHandler = google.NewHandler(deps.GoogleService)

	deps.ScheduleRepo = schedule.NewRepository(db)
	deps.ScheduleService = schedule.NewService(deps.ScheduleRepo)
	deps.ScheduleHandler = schedule.NewHandler(deps.ScheduleService)

	deps.Clock = &utils.SystemClock{}
	deps.AvailabilityService = availability.NewService(deps.ScheduleService, deps.GoogleService, deps.Clock)
	deps.AvailabilityHandler = availability.NewHandler(deps.AvailabilityService)

	deps.EventBus = event_bus.NewEventBus()
	deps.EventBus.Subscribe(event_bus.BookingCommittedEvent, func(e event_bus.Event) error {
		committed, ok := e.Data.(event_bus.BookingCommitted)
		if !ok {
			return nil
		}
		log.WithFields(log.Fields{
			"ref":        committed.Ref,
			"eventType":  committed.EventTypeId,
			"calendarId": committed.AssignedCalendarId,
			"start":      committed.StartTime,
			"strategy":   committed.Strategy,
			"guests":     committed.GuestCount,
		}).Info("booking committed")
		return nil
	})

	deps.BookingCoordinator = booking.NewCoordinator(deps.ScheduleService, deps.GoogleService, deps.GoogleService, deps.EventBus, nil)
	deps.BookingHandler = booking.NewHandler(deps.BookingCoordinator)

	return deps
}
