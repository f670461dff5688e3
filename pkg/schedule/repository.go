package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists the scheduling configuration. GetConfig returns
// nil when no configuration has been stored yet.
type Repository interface {
	GetConfig(ctx context.Context) (*Config, error)
	StoreConfig(ctx context.Context, cfg Config) error
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) GetConfig(ctx context.Context) (*Config, error) {
	cfg := &Config{}

	var workdays []int32
	var workStart, workEnd int16
	err := r.db.QueryRow(ctx,
		"SELECT time_zone, workdays, work_start, work_end, days_in_advance, strategy FROM schedule_config WHERE id = 1").
		Scan(&cfg.Policy.TimeZone, &workdays, &workStart, &workEnd, &cfg.Policy.DaysInAdvance, &cfg.Policy.Strategy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // no configuration stored yet
		}
		return nil, fmt.Errorf("failed to retrieve scheduling config: %w", err)
	}
	cfg.Policy.Workdays = toWeekdays(workdays)
	cfg.Policy.WorkHours = WorkHours{Start: int(workStart), End: int(workEnd)}

	cfg.Policy.Calendars, err = r.getCalendars(ctx,
		"SELECT calendar_id FROM schedule_calendar WHERE config_id = 1 ORDER BY position")
	if err != nil {
		return nil, err
	}

	cfg.EventTypes, err = r.getEventTypes(ctx)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func (r *RepositoryImpl) getCalendars(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve calendars: %w", err)
	}
	defer rows.Close()

	var calendars []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan calendar row: %w", err)
		}
		calendars = append(calendars, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}
	return calendars, nil
}

func (r *RepositoryImpl) getEventTypes(ctx context.Context) ([]EventType, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, description, duration_minutes, selectable,
		        workdays, work_start, work_end, days_in_advance, strategy, visibility,
		        guests_can_modify, guests_can_invite, guests_can_see_guests
		   FROM event_type ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve event types: %w", err)
	}
	defer rows.Close()

	var eventTypes []EventType
	for rows.Next() {
		var et EventType
		var workdays []int32
		var workStart, workEnd *int16
		var daysInAdvance *int
		var strategy *string
		err := rows.Scan(&et.ID, &et.Name, &et.Description, &et.DurationMinutes, &et.Selectable,
			&workdays, &workStart, &workEnd, &daysInAdvance, &strategy, &et.Visibility,
			&et.GuestPermissions.CanModify, &et.GuestPermissions.CanInvite, &et.GuestPermissions.CanSeeGuests)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event type row: %w", err)
		}
		if workdays != nil {
			et.Workdays = toWeekdays(workdays)
		}
		if workStart != nil && workEnd != nil {
			et.WorkHours = &WorkHours{Start: int(*workStart), End: int(*workEnd)}
		}
		et.DaysInAdvance = daysInAdvance
		if strategy != nil {
			et.Strategy = Strategy(*strategy)
		}
		eventTypes = append(eventTypes, et)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}

	for i, et := range eventTypes {
		calendars, err := r.getCalendars(ctx,
			"SELECT calendar_id FROM event_type_calendar WHERE event_type_id = $1 ORDER BY position", et.ID)
		if err != nil {
			return nil, err
		}
		eventTypes[i].Calendars = calendars
	}

	return eventTypes, nil
}

// StoreConfig replaces the whole configuration atomically.
func (r *RepositoryImpl) StoreConfig(ctx context.Context, cfg Config) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	const upsertConfig = `
		INSERT INTO schedule_config (id, time_zone, workdays, work_start, work_end, days_in_advance, strategy)
		VALUES (1, $1, $2, $3, $4, $5, $6)
		ON CONFLICT (id)
		DO UPDATE SET
			time_zone = EXCLUDED.time_zone,
			workdays = EXCLUDED.workdays,
			work_start = EXCLUDED.work_start,
			work_end = EXCLUDED.work_end,
			days_in_advance = EXCLUDED.days_in_advance,
			strategy = EXCLUDED.strategy`

	strategy := cfg.Policy.Strategy
	if strategy == "" {
		strategy = StrategyCollective
	}
	_, err = tx.Exec(ctx, upsertConfig,
		cfg.Policy.TimeZone,
		fromWeekdays(cfg.Policy.Workdays),
		int16(cfg.Policy.WorkHours.Start),
		int16(cfg.Policy.WorkHours.End),
		cfg.Policy.DaysInAdvance,
		string(strategy),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert scheduling config: %w", err)
	}

	if _, err := tx.Exec(ctx, "DELETE FROM schedule_calendar WHERE config_id = 1"); err != nil {
		return fmt.Errorf("failed to delete monitored calendars: %w", err)
	}
	for i, calendarId := range cfg.Policy.Calendars {
		_, err := tx.Exec(ctx,
			"INSERT INTO schedule_calendar (config_id, calendar_id, position) VALUES (1, $1, $2)",
			calendarId, i)
		if err != nil {
			return fmt.Errorf("failed to insert monitored calendar: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, "DELETE FROM event_type"); err != nil {
		return fmt.Errorf("failed to delete event types: %w", err)
	}
	for i, et := range cfg.EventTypes {
		var workdays []int32
		if et.Workdays != nil {
			workdays = fromWeekdays(et.Workdays)
		}
		var workStart, workEnd *int16
		if et.WorkHours != nil {
			s, e := int16(et.WorkHours.Start), int16(et.WorkHours.End)
			workStart, workEnd = &s, &e
		}
		var etStrategy *string
		if et.Strategy != "" {
			s := string(et.Strategy)
			etStrategy = &s
		}
		visibility := et.Visibility
		if visibility == "" {
			visibility = VisibilityDefault
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO event_type (id, name, description, duration_minutes, selectable, position,
			                         workdays, work_start, work_end, days_in_advance, strategy, visibility,
			                         guests_can_modify, guests_can_invite, guests_can_see_guests)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
			et.ID, et.Name, et.Description, et.DurationMinutes, et.Selectable, i,
			workdays, workStart, workEnd, et.DaysInAdvance, etStrategy, string(visibility),
			et.GuestPermissions.CanModify, et.GuestPermissions.CanInvite, et.GuestPermissions.CanSeeGuests)
		if err != nil {
			return fmt.Errorf("failed to insert event type: %w", err)
		}
		for j, calendarId := range et.Calendars {
			_, err := tx.Exec(ctx,
				"INSERT INTO event_type_calendar (event_type_id, calendar_id, position) VALUES ($1, $2, $3)",
				et.ID, calendarId, j)
			if err != nil {
				return fmt.Errorf("failed to insert event type calendar: %w", err)
			}
		}
	}

	return tx.Commit(ctx)
}

func toWeekdays(days []int32) []time.Weekday {
	weekdays := make([]time.Weekday, 0, len(days))
	for _, d := range days {
		weekdays = append(weekdays, time.Weekday(d))
	}
	return weekdays
}

func fromWeekdays(days []time.Weekday) []int32 {
	ints := make([]int32, 0, len(days))
	for _, d := range days {
		ints = append(ints, int32(d))
	}
	return ints
}
