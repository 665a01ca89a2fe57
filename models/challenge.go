package models

import "time"

// Challenge is a time-boxed group goal created by one user and joined by
// others. Start/end dates are calendar dates in wire format (YYYY-MM-DD).
type Challenge struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatorID   uint      `gorm:"index;not null" json:"creator_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	StartDate   string    `gorm:"size:10" json:"start_date"`
	EndDate     string    `gorm:"size:10" json:"end_date"`
	CreatedAt   time.Time `json:"created_at"`
	Creator     User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// ChallengeParticipant records a user's membership in a challenge.
type ChallengeParticipant struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ChallengeID uint      `gorm:"index;index:idx_challenge_user,unique;not null" json:"challenge_id"`
	UserID      uint      `gorm:"index:idx_challenge_user,unique;not null" json:"user_id"`
	JoinedAt    time.Time `gorm:"autoCreateTime" json:"joined_at"`
}
