package availability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rbbydotdev/someday/pkg/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAvailabilityService struct {
	result         Availability
	err            error
	gotEventTypeId string
}

func (s *stubAvailabilityService) FetchAvailability(ctx context.Context, eventTypeId string) (Availability, error) {
	s.gotEventTypeId = eventTypeId
	if s.err != nil {
		return Availability{}, s.err
	}
	return s.result, nil
}

func TestGetAvailability_FormatsTimeslotsAsRFC3339(t *testing.T) {
	service := &stubAvailabilityService{
		result: Availability{
			Timeslots: []time.Time{
				time.Date(2026, 1, 6, 9, 0, 0, 0, time.UTC),
				time.Date(2026, 1, 6, 9, 30, 0, 0, time.UTC),
			},
			DurationMinutes: 30,
		},
	}
	handler := NewHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/api/availability?eventTypeId=30min", nil)
	w := httptest.NewRecorder()
	handler.GetAvailability(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "30min", service.gotEventTypeId)

	var dto AvailabilityDTO
	err := json.NewDecoder(w.Body).Decode(&dto)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-01-06T09:00:00Z", "2026-01-06T09:30:00Z"}, dto.Timeslots)
	assert.Equal(t, 30, dto.DurationMinutes)
}

func TestGetAvailability_EmptyListStaysAList(t *testing.T) {
	handler := NewHandler(&stubAvailabilityService{result: Availability{DurationMinutes: 30}})

	req := httptest.NewRequest(http.MethodGet, "/api/availability", nil)
	w := httptest.NewRecorder()
	handler.GetAvailability(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"timeslots":[]`)
}

func TestGetAvailability_InvalidConfiguration(t *testing.T) {
	handler := NewHandler(&stubAvailabilityService{err: schedule.ErrConfigurationInvalid})

	req := httptest.NewRequest(http.MethodGet, "/api/availability", nil)
	w := httptest.NewRecorder()
	handler.GetAvailability(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errResponse struct {
		Error string `json:"error"`
	}
	err := json.NewDecoder(w.Body).Decode(&errResponse)
	require.NoError(t, err)
	assert.Equal(t, "Invalid scheduling configuration", errResponse.Error)
}
