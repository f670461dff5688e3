package schedule

import "fmt"

// Resolve merges the global policy with the overrides of the requested
// event type into one effective policy. An empty or unknown eventTypeId
// falls back to the first configured event type, which keeps
// single-event-type installations working without the caller passing an
// id. Each override replaces its field as a whole unit.
func Resolve(cfg Config, eventTypeId string) (EventType, SchedulingPolicy, error) {
	if len(cfg.EventTypes) == 0 {
		return EventType{}, SchedulingPolicy{}, fmt.Errorf("%w: eventTypes: at least one event type is required", ErrConfigurationInvalid)
	}

	eventType := cfg.EventTypes[0]
	if eventTypeId != "" {
		for _, et := range cfg.EventTypes {
			if et.ID == eventTypeId {
				eventType = et
				break
			}
		}
	}

	policy := cfg.Policy
	if eventType.Workdays != nil {
		policy.Workdays = eventType.Workdays
	}
	if eventType.WorkHours != nil {
		policy.WorkHours = *eventType.WorkHours
	}
	if eventType.DaysInAdvance != nil {
		policy.DaysInAdvance = *eventType.DaysInAdvance
	}
	if eventType.Calendars != nil {
		policy.Calendars = eventType.Calendars
	}
	if eventType.Strategy != "" {
		policy.Strategy = eventType.Strategy
	}
	if policy.Strategy == "" {
		policy.Strategy = StrategyCollective
	}

	return eventType, policy, nil
}
