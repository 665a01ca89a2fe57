// Package analytics implements the progress analytics engine: streak
// computation, leaderboard scoring/ranking, and the check-in scoring policy.
// Everything here is a pure function over check-in snapshots supplied by the
// storage layer; the engine keeps no state and is recomputed per request.
package analytics

import (
	"math"
	"sort"
	"time"
)

// Period selects the rolling leaderboard window. Windows are day-count
// windows anchored to the comparison date, not calendar weeks or months.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodAll   Period = "all"
)

// ParsePeriod maps a query value onto a Period; anything unrecognized means
// no date filter.
func ParsePeriod(s string) Period {
	switch Period(s) {
	case PeriodWeek, PeriodMonth:
		return Period(s)
	default:
		return PeriodAll
	}
}

// WindowStart returns the inclusive lower bound of the period relative to
// today, and whether a bound applies at all.
func (p Period) WindowStart(today time.Time) (time.Time, bool) {
	today = DayOf(today)
	switch p {
	case PeriodWeek:
		return today.AddDate(0, 0, -7), true
	case PeriodMonth:
		return today.AddDate(0, 0, -30), true
	default:
		return time.Time{}, false
	}
}

// User identifies a leaderboard candidate; the slice order given to
// Leaderboard is the tie-breaking order of last resort.
type User struct {
	ID       uint
	Username string
}

// Record is one check-in fact as seen by the engine.
type Record struct {
	Date      time.Time
	Completed bool
	Score     float64
}

// RecordSource supplies one user's check-in records. When windowed is true
// the supplier may pre-filter to records dated on or after since; the engine
// applies the same bound again so suppliers without date predicates stay
// correct.
type RecordSource func(userID uint, since time.Time, windowed bool) []Record

// Entry is one ranked leaderboard row. Rank is implied by slice position.
type Entry struct {
	UserID         uint    `json:"id"`
	Username       string  `json:"username"`
	CompletedTasks int     `json:"completed_tasks"`
	TotalCheckins  int     `json:"total_checkins"`
	AvgScore       float64 `json:"avg_score"`
	TotalScore     float64 `json:"total_score"`
}

// Leaderboard aggregates every user's check-ins within the period window,
// ranks by total score (ties by completed count, then input order) and
// filters to users with activity plus the requesting user. The requester is
// always visible to themselves, even with zero activity.
func Leaderboard(users []User, fetch RecordSource, period Period, currentUserID uint, today time.Time) []Entry {
	since, windowed := period.WindowStart(today)

	entries := make([]Entry, 0, len(users))
	for _, u := range users {
		entries = append(entries, aggregate(u, fetch(u.ID, since, windowed), since, windowed))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalScore != entries[j].TotalScore {
			return entries[i].TotalScore > entries[j].TotalScore
		}
		return entries[i].CompletedTasks > entries[j].CompletedTasks
	})

	result := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.TotalScore > 0 || e.CompletedTasks > 0 || e.UserID == currentUserID {
			result = append(result, e)
		}
	}

	// Guard: the requester's entry must keep the board non-empty.
	if len(result) == 0 {
		for _, e := range entries {
			if e.UserID == currentUserID {
				result = append(result, e)
				break
			}
		}
	}

	return result
}

func aggregate(u User, records []Record, since time.Time, windowed bool) Entry {
	e := Entry{UserID: u.ID, Username: u.Username}
	for _, r := range records {
		if windowed && DayOf(r.Date).Before(since) {
			continue
		}
		e.TotalCheckins++
		if r.Completed {
			e.CompletedTasks++
		}
		e.TotalScore += r.Score
	}
	if e.TotalCheckins > 0 {
		e.AvgScore = Round1(e.TotalScore / float64(e.TotalCheckins))
	}
	return e
}

// Round1 rounds to one decimal place, matching the SQL ROUND(x, 1) the
// stats aggregates use.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}
