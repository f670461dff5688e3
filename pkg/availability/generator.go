package availability

import (
	"fmt"
	"time"

	"github.com/rbbydotdev/someday/pkg/schedule"
)

// RoundToSlot rounds t down to the nearest multiple of the slot duration
// in epoch time. Any two instants inside the same duration bucket round
// to the same boundary, so repeated availability calls yield an identical
// first slot and clients can cache responses coherently.
func RoundToSlot(t time.Time, duration time.Duration) time.Time {
	step := duration.Milliseconds()
	return time.UnixMilli(t.UnixMilli() / step * step).UTC()
}

// HorizonEnd is UTC midnight of the rounded start's UTC date plus
// daysInAdvance days. Derived from calendar fields rather than wall-clock
// arithmetic so the horizon does not drift across DST or month changes.
func HorizonEnd(start time.Time, daysInAdvance int) time.Time {
	utc := start.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day()+daysInAdvance, 0, 0, 0, 0, time.UTC)
}

// Slots enumerates the contiguous fixed-width candidate slots between the
// rounded now and the policy horizon, keeping only those whose local
// start falls on a workday inside the work hours. The work-hour end is
// exclusive, and only the slot start is checked: a slot may run past the
// last working hour or across a workday boundary.
func Slots(policy schedule.SchedulingPolicy, durationMinutes int, now time.Time) ([]schedule.TimeSlot, error) {
	location, err := time.LoadLocation(policy.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("%w: timeZone: unknown time zone %q", schedule.ErrConfigurationInvalid, policy.TimeZone)
	}

	duration := time.Duration(durationMinutes) * time.Minute
	start := RoundToSlot(now, duration)
	horizon := HorizonEnd(start, policy.DaysInAdvance)

	workdays := make(map[time.Weekday]bool, len(policy.Workdays))
	for _, d := range policy.Workdays {
		workdays[d] = true
	}

	slots := make([]schedule.TimeSlot, 0)
	for t := start; !t.Add(duration).After(horizon); t = t.Add(duration) {
		local := t.In(location)
		if local.Hour() < policy.WorkHours.Start {
			continue
		}
		if local.Hour() >= policy.WorkHours.End {
			continue
		}
		if !workdays[local.Weekday()] {
			continue
		}
		slots = append(slots, schedule.TimeSlot{Start: t, End: t.Add(duration)})
	}
	return slots, nil
}
