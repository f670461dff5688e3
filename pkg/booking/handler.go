package booking

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rbbydotdev/someday/internal/metrics"
	"github.com/rbbydotdev/someday/internal/rest"
	"github.com/rbbydotdev/someday/pkg/schedule"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	coordinator Coordinator
}

func NewHandler(coordinator Coordinator) *Handler {
	return &Handler{coordinator}
}

type BookingRequestDTO struct {
	Timeslot    string `json:"timeslot"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Note        string `json:"note"`
	EventTypeId string `json:"eventTypeId,omitempty"`
}

type BookingResponseDTO struct {
	Message            string `json:"message"`
	Ref                string `json:"ref"`
	AssignedCalendarId string `json:"assignedCalendarId"`
}

func (h *Handler) BookTimeslot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto BookingRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		metrics.Bookings.WithLabelValues(metrics.OutcomeInvalid).Inc()
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Invalid booking body",
			Details: err.Error(),
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return
	}

	result, err := h.coordinator.Book(r.Context(), BookingRequest{
		Timeslot:    dto.Timeslot,
		EventTypeId: dto.EventTypeId,
		Attendee: Attendee{
			Name:  dto.Name,
			Email: dto.Email,
			Phone: dto.Phone,
			Note:  dto.Note,
		},
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	metrics.Bookings.WithLabelValues(metrics.OutcomeCommitted).Inc()
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(BookingResponseDTO{
		Message:            "Timeslot booked successfully",
		Ref:                result.Ref,
		AssignedCalendarId: result.AssignedCalendarId,
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var status int
	var message string
	switch {
	case errors.Is(err, ErrInvalidInput):
		metrics.Bookings.WithLabelValues(metrics.OutcomeInvalid).Inc()
		status, message = http.StatusBadRequest, "Invalid booking request"
	case errors.Is(err, schedule.ErrConfigurationInvalid):
		metrics.Bookings.WithLabelValues(metrics.OutcomeInvalid).Inc()
		status, message = http.StatusBadRequest, "Invalid scheduling configuration"
	case errors.Is(err, ErrSlotUnavailable):
		metrics.Bookings.WithLabelValues(metrics.OutcomeConflict).Inc()
		status, message = http.StatusConflict, "Timeslot not available"
	case errors.Is(err, ErrBookingFailed):
		metrics.Bookings.WithLabelValues(metrics.OutcomeSinkFailure).Inc()
		status, message = http.StatusBadGateway, "Failed to create event"
	default:
		log.Errorf("booking failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
		Error:   message,
		Details: err.Error(),
	})
	if encodeErr != nil {
		http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
	}
}
