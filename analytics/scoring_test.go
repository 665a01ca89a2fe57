package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreForCompleted(t *testing.T) {
	for _, tt := range []TaskType{TaskCheckbox, TaskNumber, TaskTimeRange, TaskMCQ, TaskDropdown, TaskText, TaskWorkout, TaskRating} {
		assert.Equal(t, float64(10), ScoreFor(tt, "", true), "type %s", tt)
	}
}

func TestScoreForPartialAndEmpty(t *testing.T) {
	cases := []struct {
		name     string
		taskType TaskType
		value    string
		want     float64
	}{
		{"blank text", TaskText, "  ", 0},
		{"text note", TaskText, "slept well", 5},
		{"checkbox never partial", TaskCheckbox, "anything", 0},
		{"number zero", TaskNumber, "0", 0},
		{"number progress", TaskNumber, "3", 5},
		{"number garbage", TaskNumber, "abc", 0},
		{"rating set", TaskRating, "4", 5},
		{"time range empty object", TaskTimeRange, "{}", 0},
		{"time range blank fields", TaskTimeRange, `{"sleep":"","wake":""}`, 0},
		{"time range partial", TaskTimeRange, `{"sleep":"23:00","wake":""}`, 5},
		{"time range invalid json", TaskTimeRange, "{", 0},
		{"workout empty array", TaskWorkout, "[]", 0},
		{"workout entries", TaskWorkout, `[{"name":"squats","reps":20}]`, 5},
		{"mcq picked", TaskMCQ, "Option 2", 5},
		{"dropdown picked", TaskDropdown, "Morning", 5},
		{"dropdown unset", TaskDropdown, "", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ScoreFor(tc.taskType, tc.value, false))
		})
	}
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 6.7, Round1(20.0/3.0))
	assert.Equal(t, 7.5, Round1(7.5))
	assert.Equal(t, 0.0, Round1(0))
}
