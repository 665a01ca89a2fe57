package analytics

import (
	"sort"
	"time"
)

// CurrentStreak computes the number of consecutive calendar days, ending
// today or yesterday, with at least one completed check-in. completedDates
// are the dates carrying a completed record; they need not be sorted and may
// contain duplicates (several tasks completed on the same day count once).
func CurrentStreak(completedDates []time.Time, today time.Time) int {
	if len(completedDates) == 0 {
		return 0
	}

	days := dedupeDays(completedDates)

	today = DayOf(today)
	yesterday := today.AddDate(0, 0, -1)

	mostRecent := days[0]
	if !mostRecent.Equal(today) && !mostRecent.Equal(yesterday) {
		return 0
	}

	streak := 1
	expected := mostRecent.AddDate(0, 0, -1)
	for _, d := range days[1:] {
		if !d.Equal(expected) {
			break
		}
		streak++
		expected = expected.AddDate(0, 0, -1)
	}
	return streak
}

// DayOf truncates a timestamp to its local calendar date.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// dedupeDays normalizes timestamps to calendar days and returns them sorted
// descending.
func dedupeDays(dates []time.Time) []time.Time {
	seen := make(map[time.Time]struct{}, len(dates))
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		day := DayOf(d)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}

	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })
	return days
}
