package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testToday = time.Date(2024, 6, 15, 14, 30, 0, 0, time.Local)

func day(offset int) time.Time {
	return DayOf(testToday).AddDate(0, 0, offset)
}

func TestCurrentStreakEmpty(t *testing.T) {
	assert.Equal(t, 0, CurrentStreak(nil, testToday))
	assert.Equal(t, 0, CurrentStreak([]time.Time{}, testToday))
}

func TestCurrentStreakSingleDay(t *testing.T) {
	assert.Equal(t, 1, CurrentStreak([]time.Time{day(0)}, testToday), "completed today")
	assert.Equal(t, 1, CurrentStreak([]time.Time{day(-1)}, testToday), "completed yesterday keeps the streak alive")
	assert.Equal(t, 0, CurrentStreak([]time.Time{day(-2)}, testToday), "two days ago breaks the streak")
}

func TestCurrentStreakStopsAtGap(t *testing.T) {
	dates := []time.Time{day(0), day(-1), day(-2), day(-4)}
	assert.Equal(t, 3, CurrentStreak(dates, testToday))
}

func TestCurrentStreakUnsortedInput(t *testing.T) {
	dates := []time.Time{day(-2), day(0), day(-1)}
	assert.Equal(t, 3, CurrentStreak(dates, testToday))
}

func TestCurrentStreakDeduplicatesDates(t *testing.T) {
	// Two tasks completed on the same day count once.
	dates := []time.Time{day(0), day(0), day(-1), day(-1)}
	assert.Equal(t, 2, CurrentStreak(dates, testToday))
}

func TestCurrentStreakIgnoresTimeOfDay(t *testing.T) {
	dates := []time.Time{
		day(0).Add(23*time.Hour + 59*time.Minute),
		day(-1).Add(5 * time.Minute),
	}
	assert.Equal(t, 2, CurrentStreak(dates, testToday))
}

func TestCurrentStreakAnchoredAtYesterday(t *testing.T) {
	// No activity today yet; the run ending yesterday still counts.
	dates := []time.Time{day(-1), day(-2), day(-3)}
	assert.Equal(t, 3, CurrentStreak(dates, testToday))
}

func TestCurrentStreakIdempotent(t *testing.T) {
	dates := []time.Time{day(0), day(-1), day(-3)}
	first := CurrentStreak(dates, testToday)
	second := CurrentStreak(dates, testToday)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, first)
}
