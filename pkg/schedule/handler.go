package schedule

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rbbydotdev/someday/internal/rest"
	"github.com/rbbydotdev/someday/pkg/owner"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

type WorkHoursDTO struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type EventTypeDTO struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Description     string        `json:"description,omitempty"`
	DurationMinutes int           `json:"durationMinutes"`
	Selectable      bool          `json:"selectable"`
	Workdays        []int         `json:"workdays,omitempty"`
	WorkHours       *WorkHoursDTO `json:"workHours,omitempty"`
	DaysInAdvance   *int          `json:"daysInAdvance,omitempty"`
	Calendars       []string      `json:"calendars,omitempty"`
	Strategy        string        `json:"strategy,omitempty"`
	Visibility      string        `json:"visibility,omitempty"`
	GuestsCanModify bool          `json:"guestsCanModify"`
	GuestsCanInvite bool          `json:"guestsCanInvite"`
	GuestsCanSee    bool          `json:"guestsCanSeeGuests"`
}

type ConfigDTO struct {
	TimeZone      string         `json:"timeZone"`
	Workdays      []int          `json:"workdays"`
	WorkHours     WorkHoursDTO   `json:"workHours"`
	DaysInAdvance int            `json:"daysInAdvance"`
	Calendars     []string       `json:"calendars"`
	Strategy      string         `json:"strategy"`
	EventTypes    []EventTypeDTO `json:"eventTypes"`
}

// SelectableEventTypeDTO is the public shape of an event type offered on
// the booking page. Policy overrides stay private to the owner.
type SelectableEventTypeDTO struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	DurationMinutes int    `json:"durationMinutes"`
}

func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if !owner.IsOwner(r.Context()) {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	cfg, err := h.service.GetConfig(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(configToDTO(cfg)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) SetConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if !owner.IsOwner(r.Context()) {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	var dto ConfigDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Invalid configuration body",
			Details: err.Error(),
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return
	}

	if err := h.service.SetConfig(r.Context(), dtoToConfig(dto)); err != nil {
		if errors.Is(err, ErrConfigurationInvalid) {
			w.WriteHeader(http.StatusBadRequest)
			encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
				Error:   "Invalid configuration",
				Details: err.Error(),
			})
			if encodeErr != nil {
				http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			}
			return
		}
		log.Errorf("failed to store configuration: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListEventTypes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	cfg, err := h.service.GetConfig(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]SelectableEventTypeDTO, 0, len(cfg.EventTypes))
	for _, et := range cfg.EventTypes {
		if !et.Selectable {
			continue
		}
		dtos = append(dtos, SelectableEventTypeDTO{
			ID:              et.ID,
			Name:            et.Name,
			Description:     et.Description,
			DurationMinutes: et.DurationMinutes,
		})
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func configToDTO(cfg Config) ConfigDTO {
	dto := ConfigDTO{
		TimeZone:      cfg.Policy.TimeZone,
		Workdays:      weekdaysToInts(cfg.Policy.Workdays),
		WorkHours:     WorkHoursDTO{Start: cfg.Policy.WorkHours.Start, End: cfg.Policy.WorkHours.End},
		DaysInAdvance: cfg.Policy.DaysInAdvance,
		Calendars:     cfg.Policy.Calendars,
		Strategy:      string(cfg.Policy.Strategy),
		EventTypes:    make([]EventTypeDTO, 0, len(cfg.EventTypes)),
	}
	for _, et := range cfg.EventTypes {
		etDTO := EventTypeDTO{
			ID:              et.ID,
			Name:            et.Name,
			Description:     et.Description,
			DurationMinutes: et.DurationMinutes,
			Selectable:      et.Selectable,
			DaysInAdvance:   et.DaysInAdvance,
			Calendars:       et.Calendars,
			Strategy:        string(et.Strategy),
			Visibility:      string(et.Visibility),
			GuestsCanModify: et.GuestPermissions.CanModify,
			GuestsCanInvite: et.GuestPermissions.CanInvite,
			GuestsCanSee:    et.GuestPermissions.CanSeeGuests,
		}
		if et.Workdays != nil {
			etDTO.Workdays = weekdaysToInts(et.Workdays)
		}
		if et.WorkHours != nil {
			etDTO.WorkHours = &WorkHoursDTO{Start: et.WorkHours.Start, End: et.WorkHours.End}
		}
		dto.EventTypes = append(dto.EventTypes, etDTO)
	}
	return dto
}

func dtoToConfig(dto ConfigDTO) Config {
	cfg := Config{
		Policy: SchedulingPolicy{
			TimeZone:      dto.TimeZone,
			Workdays:      intsToWeekdays(dto.Workdays),
			WorkHours:     WorkHours{Start: dto.WorkHours.Start, End: dto.WorkHours.End},
			DaysInAdvance: dto.DaysInAdvance,
			Calendars:     dto.Calendars,
			Strategy:      Strategy(dto.Strategy),
		},
		EventTypes: make([]EventType, 0, len(dto.EventTypes)),
	}
	for _, etDTO := range dto.EventTypes {
		et := EventType{
			ID:              etDTO.ID,
			Name:            etDTO.Name,
			Description:     etDTO.Description,
			DurationMinutes: etDTO.DurationMinutes,
			Selectable:      etDTO.Selectable,
			DaysInAdvance:   etDTO.DaysInAdvance,
			Calendars:       etDTO.Calendars,
			Strategy:        Strategy(etDTO.Strategy),
			Visibility:      Visibility(etDTO.Visibility),
			GuestPermissions: GuestPermissions{
				CanModify:    etDTO.GuestsCanModify,
				CanInvite:    etDTO.GuestsCanInvite,
				CanSeeGuests: etDTO.GuestsCanSee,
			},
		}
		if etDTO.Workdays != nil {
			et.Workdays = intsToWeekdays(etDTO.Workdays)
		}
		if etDTO.WorkHours != nil {
			et.WorkHours = &WorkHours{Start: etDTO.WorkHours.Start, End: etDTO.WorkHours.End}
		}
		cfg.EventTypes = append(cfg.EventTypes, et)
	}
	return cfg
}

func weekdaysToInts(days []time.Weekday) []int {
	ints := make([]int, 0, len(days))
	for _, d := range days {
		ints = append(ints, int(d))
	}
	return ints
}

func intsToWeekdays(days []int) []time.Weekday {
	weekdays := make([]time.Weekday, 0, len(days))
	for _, d := range days {
		weekdays = append(weekdays, time.Weekday(d))
	}
	return weekdays
}
