package google

import (
	"context"
	"fmt"
	"time"

	"github.com/rbbydotdev/someday/pkg/schedule"
	log "github.com/sirupsen/logrus"
	gcal "google.golang.org/api/calendar/v3"
)

// QueryFreeBusy implements schedule.AvailabilitySource on the Google
// Calendar free/busy endpoint. The result has one entry per requested
// calendar ID even when Google returns nothing for it.
func (s *ServiceImpl) QueryFreeBusy(ctx context.Context, calendarIds []string, timeMin, timeMax time.Time) (map[string][]schedule.BusyInterval, error) {
	service, err := s.prepareGoogleService(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]*gcal.FreeBusyRequestItem, 0, len(calendarIds))
	for _, id := range calendarIds {
		items = append(items, &gcal.FreeBusyRequestItem{Id: id})
	}

	response, err := service.Freebusy.Query(&gcal.FreeBusyRequest{
		TimeMin: timeMin.Format(time.RFC3339),
		TimeMax: timeMax.Format(time.RFC3339),
		Items:   items,
	}).Context(ctx).Do()
	if err != nil {
		err := fmt.Errorf("unable to query free/busy from Google Calendar: %v", err)
		log.Error(err)
		return nil, err
	}

	busyByCalendar := make(map[string][]schedule.BusyInterval, len(calendarIds))
	for _, id := range calendarIds {
		intervals := make([]schedule.BusyInterval, 0)
		if cal, ok := response.Calendars[id]; ok {
			for _, period := range cal.Busy {
				start, err := time.Parse(time.RFC3339, period.Start)
				if err != nil {
					return nil, fmt.Errorf("unable to parse busy interval start %q: %v", period.Start, err)
				}
				end, err := time.Parse(time.RFC3339, period.End)
				if err != nil {
					return nil, fmt.Errorf("unable to parse busy interval end %q: %v", period.End, err)
				}
				intervals = append(intervals, schedule.BusyInterval{
					CalendarId: id,
					Start:      start,
					End:        end,
				})
			}
		}
		busyByCalendar[id] = intervals
	}
	return busyByCalendar, nil
}

// CreateEvent implements schedule.EventSink. Guests receive invitations;
// visibility and guest permissions come from the booked event type.
func (s *ServiceImpl) CreateEvent(ctx context.Context, calendarId string, title string, start, end time.Time, options schedule.EventOptions) (string, error) {
	service, err := s.prepareGoogleService(ctx)
	if err != nil {
		return "", err
	}

	attendees := make([]*gcal.EventAttendee, 0, len(options.Guests))
	for _, guest := range options.Guests {
		attendees = append(attendees, &gcal.EventAttendee{Email: guest})
	}

	guestsCanInvite := options.GuestsCanInviteOthers
	guestsCanSee := options.GuestsCanSeeGuests
	event := &gcal.Event{
		Summary:     title,
		Description: options.Description,
		Start: &gcal.EventDateTime{
			DateTime: start.Format(time.RFC3339),
		},
		End: &gcal.EventDateTime{
			DateTime: end.Format(time.RFC3339),
		},
		Attendees:               attendees,
		Visibility:              string(options.Visibility),
		GuestsCanModify:         options.GuestsCanModify,
		GuestsCanInviteOthers:   &guestsCanInvite,
		GuestsCanSeeOtherGuests: &guestsCanSee,
	}

	created, err := service.Events.Insert(calendarId, event).SendUpdates("all").Context(ctx).Do()
	if err != nil {
		err := fmt.Errorf("unable to insert event in Google Calendar: %v", err)
		log.Error(err)
		return "", err
	}

	return created.Id, nil
}
