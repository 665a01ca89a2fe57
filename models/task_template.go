package models

import (
	"encoding/json"
	"time"
)

// TaskTemplate is a user-defined habit: what to track, which input widget
// renders it and how it looks. Config holds widget settings (target, unit,
// options...) as a JSON object string.
type TaskTemplate struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Type      string    `gorm:"size:32;not null" json:"type"`
	Config    string    `gorm:"type:text" json:"-"`
	Color     string    `gorm:"size:16;default:'#6366f1'" json:"color"`
	Icon      string    `gorm:"size:16" json:"icon"`
	IsWeekly  bool      `gorm:"default:false" json:"is_weekly"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ConfigMap decodes the stored widget configuration; malformed or missing
// config decodes to an empty object.
func (t *TaskTemplate) ConfigMap() map[string]any {
	cfg := map[string]any{}
	if t.Config != "" {
		_ = json.Unmarshal([]byte(t.Config), &cfg)
	}
	return cfg
}
