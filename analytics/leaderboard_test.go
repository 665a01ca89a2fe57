package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sourceFromMap builds a RecordSource over a fixed per-user record map,
// ignoring the window hint so the engine's own filtering is exercised.
func sourceFromMap(byUser map[uint][]Record) RecordSource {
	return func(userID uint, since time.Time, windowed bool) []Record {
		return byUser[userID]
	}
}

func TestLeaderboardOrdering(t *testing.T) {
	users := []User{{1, "ann"}, {2, "bob"}, {3, "cleo"}}
	records := map[uint][]Record{
		1: {{Date: day(0), Completed: true, Score: 10}},
		2: {{Date: day(0), Completed: true, Score: 10}, {Date: day(-1), Completed: true, Score: 10}},
		3: {{Date: day(0), Completed: false, Score: 5}, {Date: day(-1), Completed: true, Score: 10}},
	}

	got := Leaderboard(users, sourceFromMap(records), PeriodAll, 1, testToday)

	require.Len(t, got, 3)
	assert.Equal(t, "bob", got[0].Username)
	assert.Equal(t, "cleo", got[1].Username)
	assert.Equal(t, "ann", got[2].Username)

	for i := 1; i < len(got); i++ {
		prev, cur := got[i-1], got[i]
		ordered := prev.TotalScore > cur.TotalScore ||
			(prev.TotalScore == cur.TotalScore && prev.CompletedTasks >= cur.CompletedTasks)
		assert.True(t, ordered, "entries %d and %d out of order", i-1, i)
	}
}

func TestLeaderboardTiesKeepInputOrder(t *testing.T) {
	users := []User{{1, "ann"}, {2, "bob"}, {3, "cleo"}}
	same := []Record{{Date: day(0), Completed: true, Score: 10}}
	records := map[uint][]Record{1: same, 2: same, 3: same}

	got := Leaderboard(users, sourceFromMap(records), PeriodAll, 1, testToday)

	require.Len(t, got, 3)
	assert.Equal(t, []uint{1, 2, 3}, []uint{got[0].UserID, got[1].UserID, got[2].UserID})
}

func TestLeaderboardVisibility(t *testing.T) {
	users := []User{{1, "ann"}, {2, "bob"}, {3, "idle"}}
	records := map[uint][]Record{
		1: {{Date: day(0), Completed: true, Score: 10}},
	}

	// bob requests: visible despite zero activity, idle is not.
	got := Leaderboard(users, sourceFromMap(records), PeriodAll, 2, testToday)
	require.Len(t, got, 2)
	assert.Equal(t, uint(1), got[0].UserID)
	assert.Equal(t, uint(2), got[1].UserID)

	seen := 0
	for _, e := range got {
		if e.UserID == 2 {
			seen++
		}
	}
	assert.Equal(t, 1, seen, "requester appears exactly once")
}

func TestLeaderboardUnknownRequesterDegrades(t *testing.T) {
	users := []User{{1, "ann"}}
	records := map[uint][]Record{
		1: {{Date: day(0), Completed: true, Score: 10}},
	}

	got := Leaderboard(users, sourceFromMap(records), PeriodAll, 99, testToday)
	require.Len(t, got, 1)
	assert.Equal(t, uint(1), got[0].UserID)
}

func TestLeaderboardEmptyUsers(t *testing.T) {
	got := Leaderboard(nil, sourceFromMap(nil), PeriodAll, 1, testToday)
	assert.Empty(t, got)
}

func TestLeaderboardWindowing(t *testing.T) {
	users := []User{{1, "ann"}}
	records := map[uint][]Record{
		1: {
			{Date: day(0), Completed: true, Score: 10},
			{Date: day(-10), Completed: true, Score: 10},
		},
	}

	week := Leaderboard(users, sourceFromMap(records), PeriodWeek, 1, testToday)
	require.Len(t, week, 1)
	assert.Equal(t, 1, week[0].TotalCheckins)
	assert.Equal(t, float64(10), week[0].TotalScore)

	all := Leaderboard(users, sourceFromMap(records), PeriodAll, 1, testToday)
	require.Len(t, all, 1)
	assert.Equal(t, 2, all[0].TotalCheckins)
	assert.Equal(t, float64(20), all[0].TotalScore)
}

func TestLeaderboardWindowBoundaryInclusive(t *testing.T) {
	users := []User{{1, "ann"}}
	records := map[uint][]Record{
		1: {
			{Date: day(-7), Completed: true, Score: 10},
			{Date: day(-8), Completed: true, Score: 10},
		},
	}

	got := Leaderboard(users, sourceFromMap(records), PeriodWeek, 1, testToday)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].TotalCheckins, "date == today-7 is inside the week window")
}

func TestLeaderboardRequesterWithZeroScore(t *testing.T) {
	users := []User{{1, "ann"}, {2, "bob"}}
	records := map[uint][]Record{
		1: {
			{Date: day(0), Completed: true, Score: 10},
			{Date: day(-1), Completed: true, Score: 10},
		},
		2: {{Date: day(0), Completed: false, Score: 0}},
	}

	got := Leaderboard(users, sourceFromMap(records), PeriodAll, 2, testToday)

	require.Len(t, got, 2)
	assert.Equal(t, "ann", got[0].Username)
	assert.Equal(t, float64(20), got[0].TotalScore)
	assert.Equal(t, 2, got[0].CompletedTasks)
	assert.Equal(t, "bob", got[1].Username)
	assert.Equal(t, float64(0), got[1].TotalScore)
	assert.Equal(t, 1, got[1].TotalCheckins)
}

func TestLeaderboardAvgScoreRounding(t *testing.T) {
	users := []User{{1, "ann"}}
	records := map[uint][]Record{
		1: {
			{Date: day(0), Completed: true, Score: 10},
			{Date: day(-1), Completed: false, Score: 5},
			{Date: day(-2), Completed: false, Score: 5},
		},
	}

	got := Leaderboard(users, sourceFromMap(records), PeriodAll, 1, testToday)
	require.Len(t, got, 1)
	// 20/3 = 6.666... rounds to 6.7
	assert.Equal(t, 6.7, got[0].AvgScore)
}

func TestLeaderboardIdempotent(t *testing.T) {
	users := []User{{1, "ann"}, {2, "bob"}}
	records := map[uint][]Record{
		1: {{Date: day(0), Completed: true, Score: 10}},
		2: {{Date: day(-1), Completed: false, Score: 5}},
	}

	first := Leaderboard(users, sourceFromMap(records), PeriodWeek, 2, testToday)
	second := Leaderboard(users, sourceFromMap(records), PeriodWeek, 2, testToday)
	assert.Equal(t, first, second)
}

func TestParsePeriod(t *testing.T) {
	assert.Equal(t, PeriodWeek, ParsePeriod("week"))
	assert.Equal(t, PeriodMonth, ParsePeriod("month"))
	assert.Equal(t, PeriodAll, ParsePeriod("all"))
	assert.Equal(t, PeriodAll, ParsePeriod(""))
	assert.Equal(t, PeriodAll, ParsePeriod("quarter"))
}

func TestWindowStart(t *testing.T) {
	start, windowed := PeriodWeek.WindowStart(testToday)
	assert.True(t, windowed)
	assert.Equal(t, day(-7), start)

	start, windowed = PeriodMonth.WindowStart(testToday)
	assert.True(t, windowed)
	assert.Equal(t, day(-30), start)

	_, windowed = PeriodAll.WindowStart(testToday)
	assert.False(t, windowed)
}
