package availability

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rbbydotdev/someday/internal/metrics"
	"github.com/rbbydotdev/someday/internal/rest"
	"github.com/rbbydotdev/someday/pkg/schedule"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service Service
}

type AvailabilityDTO struct {
	Timeslots       []string `json:"timeslots"`
	DurationMinutes int      `json:"durationMinutes"`
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	metrics.AvailabilityRequests.Inc()

	eventTypeId := r.URL.Query().Get("eventTypeId")

	result, err := h.service.FetchAvailability(r.Context(), eventTypeId)
	if err != nil {
		if errors.Is(err, schedule.ErrConfigurationInvalid) {
			w.WriteHeader(http.StatusBadRequest)
			encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
				Error:   "Invalid scheduling configuration",
				Details: err.Error(),
			})
			if encodeErr != nil {
				http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			}
			return
		}
		log.Errorf("failed to fetch availability: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dto := AvailabilityDTO{
		Timeslots:       make([]string, 0, len(result.Timeslots)),
		DurationMinutes: result.DurationMinutes,
	}
	for _, t := range result.Timeslots {
		dto.Timeslots = append(dto.Timeslots, t.UTC().Format(time.RFC3339))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
