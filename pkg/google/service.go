package google

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

var ErrUnauthenticated = fmt.Errorf("no Google account is connected, authentication is required")

type CalendarItem struct {
	ID      string
	Summary string
}

type Service interface {
	ListCalendars(ctx context.Context) ([]CalendarItem, error)
}

// ServiceImpl talks to the Google Calendar API on behalf of the
// connected account. It also implements schedule.AvailabilitySource and
// schedule.EventSink (see calendar.go).
type ServiceImpl struct {
	auth *GoogleAuth
}

func NewService(auth *GoogleAuth) *ServiceImpl {
	return &ServiceImpl{
		auth: auth,
	}
}

func (s *ServiceImpl) ListCalendars(ctx context.Context) ([]CalendarItem, error) {
	googleService, err := s.prepareGoogleService(ctx)
	if err != nil {
		return nil, err
	}
	calendars, err := googleService.CalendarList.List().Do()
	if err != nil {
		err := fmt.Errorf("unable to retrieve calendars from Google Calendar: %v", err)
		log.Error(err)
		return nil, err
	}
	var googleCalendars []CalendarItem
	for _, cal := range calendars.Items {
		googleCalendars = append(googleCalendars, CalendarItem{
			ID:      cal.Id,
			Summary: cal.Summary,
		})
	}
	return googleCalendars, nil
}

func (s *ServiceImpl) prepareGoogleService(ctx context.Context) (*calendar.Service, error) {
	client, err := s.auth.getClient(ctx)
	if err != nil {
		err := fmt.Errorf("unable to retrieve Google auth client: %v", err)
		log.Error(err)
		return nil, err
	}
	if client == nil {
		log.Debug("no Google account connected, authentication is required")
		return nil, ErrUnauthenticated
	}
	service, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		err := fmt.Errorf("unable to retrieve Calendar client: %v", err)
		log.Error(err)
		return nil, err
	}

	return service, nil
}
