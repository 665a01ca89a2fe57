package models

import "time"

// CheckIn is one recorded data point for a task template on a calendar date.
// At most one row exists per (user, task, date); re-check-ins upsert on that
// key. Date is a DATE column compared in server-local time.
type CheckIn struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;index:idx_checkin_user_task_date,unique;not null" json:"user_id"`
	TaskID    uint      `gorm:"index;index:idx_checkin_user_task_date,unique;not null" json:"task_id"`
	Date      time.Time `gorm:"index:idx_checkin_user_task_date,unique;type:date;not null" json:"date"`
	Value     string    `gorm:"type:text" json:"value"`
	Completed bool      `gorm:"not null;default:false" json:"completed"`
	Score     float64   `gorm:"not null;default:0" json:"score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DateString renders the check-in date in the wire format used by the API.
func (c *CheckIn) DateString() string {
	return c.Date.Format("2006-01-02")
}
