package schedule

import (
	"errors"
	"fmt"
	"time"
)

// ErrConfigurationInvalid is returned when the stored or submitted
// scheduling configuration violates the schema. The wrapping message
// names the offending field.
var ErrConfigurationInvalid = errors.New("invalid scheduling configuration")

type Strategy string

const (
	// StrategyCollective requires every monitored calendar to be free;
	// the whole team is invited to the booked event.
	StrategyCollective Strategy = "collective"
	// StrategyRoundRobin requires at least one monitored calendar to be
	// free; one of the free calendars is picked at random.
	StrategyRoundRobin Strategy = "round_robin"
)

type Visibility string

const (
	VisibilityDefault Visibility = "default"
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

type WorkHours struct {
	Start int
	End   int
}

// SchedulingPolicy is the set of rules that bound slot generation and
// booking assignment. A policy produced by Resolve has every field
// populated; on an EventType the optional fields may be unset, meaning
// "inherit from the global policy".
type SchedulingPolicy struct {
	TimeZone      string
	Workdays      []time.Weekday
	WorkHours     WorkHours
	DaysInAdvance int
	Calendars     []string
	Strategy      Strategy
}

type GuestPermissions struct {
	CanModify    bool
	CanInvite    bool
	CanSeeGuests bool
}

// EventType is one bookable appointment kind. Nil/empty override fields
// fall back to the global policy field-by-field; overrides replace the
// whole field, they are never merged element-wise.
type EventType struct {
	ID              string
	Name            string
	Description     string
	DurationMinutes int
	Selectable      bool

	// Policy overrides. A nil slice or pointer (or empty Strategy)
	// inherits the global value. WorkHours is overridden only as a whole
	// {start, end} pair.
	Workdays      []time.Weekday
	WorkHours     *WorkHours
	DaysInAdvance *int
	Calendars     []string
	Strategy      Strategy

	GuestPermissions GuestPermissions
	Visibility       Visibility
}

// Config is the full scheduling configuration of an installation: the
// global policy plus all event types.
type Config struct {
	Policy     SchedulingPolicy
	EventTypes []EventType
}

// DefaultConfig mirrors the out-of-the-box setup: the primary calendar,
// Monday to Friday 9-16, a 28 day horizon and a single selectable
// 30 minute meeting.
func DefaultConfig() Config {
	return Config{
		Policy: SchedulingPolicy{
			TimeZone:      "America/Los_Angeles",
			Workdays:      []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
			WorkHours:     WorkHours{Start: 9, End: 16},
			DaysInAdvance: 28,
			Calendars:     []string{"primary"},
			Strategy:      StrategyCollective,
		},
		EventTypes: []EventType{
			{
				ID:              "30min",
				Name:            "30 Minute Meeting",
				DurationMinutes: 30,
				Selectable:      true,
				Visibility:      VisibilityDefault,
				GuestPermissions: GuestPermissions{
					CanSeeGuests: true,
				},
			},
		},
	}
}

// Validate checks the configuration against the schema and returns
// ErrConfigurationInvalid naming the first violated field.
func (c Config) Validate() error {
	if err := validatePolicy(c.Policy); err != nil {
		return err
	}
	if len(c.EventTypes) == 0 {
		return fmt.Errorf("%w: eventTypes: at least one event type is required", ErrConfigurationInvalid)
	}
	seen := make(map[string]bool, len(c.EventTypes))
	for _, et := range c.EventTypes {
		if et.ID == "" {
			return fmt.Errorf("%w: eventTypes.id: must not be empty", ErrConfigurationInvalid)
		}
		if seen[et.ID] {
			return fmt.Errorf("%w: eventTypes.id: duplicate id %q", ErrConfigurationInvalid, et.ID)
		}
		seen[et.ID] = true
		if et.DurationMinutes <= 0 {
			return fmt.Errorf("%w: eventTypes[%s].durationMinutes: must be positive", ErrConfigurationInvalid, et.ID)
		}
		if err := validateOverrides(et); err != nil {
			return err
		}
	}
	return nil
}

func validatePolicy(p SchedulingPolicy) error {
	if _, err := time.LoadLocation(p.TimeZone); err != nil {
		return fmt.Errorf("%w: timeZone: unknown time zone %q", ErrConfigurationInvalid, p.TimeZone)
	}
	if len(p.Workdays) == 0 {
		return fmt.Errorf("%w: workdays: must not be empty", ErrConfigurationInvalid)
	}
	if err := validateWorkdays("workdays", p.Workdays); err != nil {
		return err
	}
	if err := validateWorkHours("workHours", p.WorkHours); err != nil {
		return err
	}
	if p.DaysInAdvance < 1 {
		return fmt.Errorf("%w: daysInAdvance: must be at least 1", ErrConfigurationInvalid)
	}
	if len(p.Calendars) == 0 {
		return fmt.Errorf("%w: calendars: must not be empty", ErrConfigurationInvalid)
	}
	if !validStrategy(p.Strategy) {
		return fmt.Errorf("%w: strategy: unknown strategy %q", ErrConfigurationInvalid, p.Strategy)
	}
	return nil
}

func validateOverrides(et EventType) error {
	field := func(name string) string { return fmt.Sprintf("eventTypes[%s].%s", et.ID, name) }
	if et.Workdays != nil {
		if len(et.Workdays) == 0 {
			return fmt.Errorf("%w: %s: must not be empty", ErrConfigurationInvalid, field("workdays"))
		}
		if err := validateWorkdays(field("workdays"), et.Workdays); err != nil {
			return err
		}
	}
	if et.WorkHours != nil {
		if err := validateWorkHours(field("workHours"), *et.WorkHours); err != nil {
			return err
		}
	}
	if et.DaysInAdvance != nil && *et.DaysInAdvance < 1 {
		return fmt.Errorf("%w: %s: must be at least 1", ErrConfigurationInvalid, field("daysInAdvance"))
	}
	if et.Calendars != nil && len(et.Calendars) == 0 {
		return fmt.Errorf("%w: %s: must not be empty", ErrConfigurationInvalid, field("calendars"))
	}
	if !validStrategy(et.Strategy) {
		return fmt.Errorf("%w: %s: unknown strategy %q", ErrConfigurationInvalid, field("strategy"), et.Strategy)
	}
	switch et.Visibility {
	case "", VisibilityDefault, VisibilityPublic, VisibilityPrivate:
	default:
		return fmt.Errorf("%w: %s: unknown visibility %q", ErrConfigurationInvalid, field("visibility"), et.Visibility)
	}
	return nil
}

func validateWorkdays(field string, days []time.Weekday) error {
	for _, d := range days {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("%w: %s: weekday out of range: %d", ErrConfigurationInvalid, field, d)
		}
	}
	return nil
}

func validateWorkHours(field string, wh WorkHours) error {
	if wh.Start < 0 || wh.End > 24 {
		return fmt.Errorf("%w: %s: hours must be within 0..24", ErrConfigurationInvalid, field)
	}
	if wh.Start >= wh.End {
		return fmt.Errorf("%w: %s: start must be before end", ErrConfigurationInvalid, field)
	}
	return nil
}

func validStrategy(s Strategy) bool {
	switch s {
	case "", StrategyCollective, StrategyRoundRobin:
		return true
	}
	return false
}
