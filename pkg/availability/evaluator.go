package availability

import "github.com/rbbydotdev/someday/pkg/schedule"

// FreeCalendars returns the calendars, in configured order, whose busy
// intervals do not overlap the slot. The snapshot must already be in
// memory: availability is always judged against one free/busy query per
// request, never re-fetched per slot.
func FreeCalendars(slot schedule.TimeSlot, busyByCalendar map[string][]schedule.BusyInterval, calendars []string) []string {
	free := make([]string, 0, len(calendars))
	for _, calendarId := range calendars {
		conflict := false
		for _, interval := range busyByCalendar[calendarId] {
			if interval.Overlaps(slot.Start, slot.End) {
				conflict = true
				break
			}
		}
		if !conflict {
			free = append(free, calendarId)
		}
	}
	return free
}

// Evaluate filters candidate slots by the strategy's visibility rule:
// collective surfaces a slot only when every monitored calendar is free,
// round robin when at least one is (without revealing which one would be
// assigned).
func Evaluate(candidates []schedule.TimeSlot, busyByCalendar map[string][]schedule.BusyInterval, calendars []string, strategy schedule.Strategy) []schedule.TimeSlot {
	available := make([]schedule.TimeSlot, 0, len(candidates))
	for _, slot := range candidates {
		freeCount := len(FreeCalendars(slot, busyByCalendar, calendars))
		switch strategy {
		case schedule.StrategyRoundRobin:
			if freeCount > 0 {
				available = append(available, slot)
			}
		default:
			if freeCount == len(calendars) {
				available = append(available, slot)
			}
		}
	}
	return available
}
