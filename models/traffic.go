package models

import "time"

// TrafficStat stores aggregated request counts per day and path, feeding the
// admin dashboard's activity numbers.
type TrafficStat struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Date      time.Time `gorm:"index:idx_traffic_date_path,unique;type:date;not null" json:"date"`
	Path      string    `gorm:"index;index:idx_traffic_date_path,unique;size:255;not null" json:"path"`
	Count     int64     `gorm:"not null;default:0" json:"count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
