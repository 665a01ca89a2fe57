package analytics

import (
	"encoding/json"
	"strconv"
	"strings"
)

// TaskType enumerates the input widget kinds a task template can use. The
// stored check-in value is widget dependent: plain text for text-like types,
// a number for counters and ratings, a JSON object for time ranges and a
// JSON array for workout entries.
type TaskType string

const (
	TaskCheckbox  TaskType = "checkbox"
	TaskNumber    TaskType = "number"
	TaskTimeRange TaskType = "time_range"
	TaskMCQ       TaskType = "mcq"
	TaskDropdown  TaskType = "dropdown"
	TaskText      TaskType = "text"
	TaskWorkout   TaskType = "workout"
	TaskRating    TaskType = "rating"
)

const (
	scoreCompleted = 10
	scorePartial   = 5
)

// ScoreFor is the check-in scoring policy: full credit for a completed
// check-in, partial credit for a recorded but incomplete value, nothing
// otherwise. It is computed server side; client-claimed scores are ignored.
func ScoreFor(taskType TaskType, value string, completed bool) float64 {
	if completed {
		return scoreCompleted
	}
	if IsEmptyValue(taskType, value) {
		return 0
	}
	return scorePartial
}

// IsEmptyValue reports whether a raw check-in value carries no data for the
// given task type. Structured values are parsed rather than compared against
// "[]"/"{}" sentinels.
func IsEmptyValue(taskType TaskType, raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return true
	}

	switch taskType {
	case TaskCheckbox:
		// A checkbox has no partial state; only completion counts.
		return true
	case TaskNumber, TaskRating:
		n, err := strconv.ParseFloat(raw, 64)
		return err != nil || n == 0
	case TaskTimeRange:
		var fields map[string]string
		if err := json.Unmarshal([]byte(raw), &fields); err != nil {
			return true
		}
		for _, v := range fields {
			if strings.TrimSpace(v) != "" {
				return false
			}
		}
		return true
	case TaskWorkout:
		var items []json.RawMessage
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return true
		}
		return len(items) == 0
	default:
		// text, mcq, dropdown: any non-blank string is a value.
		return false
	}
}
