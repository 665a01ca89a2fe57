package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/habitflow/habitflow/analytics"
	"github.com/habitflow/habitflow/utils"
)

// StatsController serves the current user's aggregate progress numbers.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a StatsController.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// Summary returns days tracked, completions, total check-ins, average score
// and the current streak for the authenticated user.
func (s *StatsController) Summary(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	type aggregates struct {
		DaysTracked    int64   `json:"days_tracked"`
		TasksCompleted int64   `json:"tasks_completed"`
		TotalCheckins  int64   `json:"total_checkins"`
		AvgScore       float64 `json:"avg_score"`
	}

	var agg aggregates
	err := s.db.Table("check_ins").
		Select("COUNT(DISTINCT date) AS days_tracked, "+
			"COUNT(CASE WHEN completed THEN 1 END) AS tasks_completed, "+
			"COUNT(*) AS total_checkins, "+
			"COALESCE(ROUND(AVG(score), 1), 0) AS avg_score").
		Where("user_id = ?", userID).
		Scan(&agg).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to load stats")
		return
	}

	var rawDates []string
	err = s.db.Table("check_ins").
		Where("user_id = ? AND completed = ?", userID, true).
		Distinct().
		Pluck("DATE_FORMAT(date, '%Y-%m-%d')", &rawDates).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to load stats")
		return
	}

	dates := make([]time.Time, 0, len(rawDates))
	for _, raw := range rawDates {
		if parsed, ok := parseDate(raw); ok {
			dates = append(dates, parsed)
		}
	}

	utils.Success(ctx, gin.H{
		"days_tracked":    agg.DaysTracked,
		"tasks_completed": agg.TasksCompleted,
		"total_checkins":  agg.TotalCheckins,
		"avg_score":       agg.AvgScore,
		"current_streak":  analytics.CurrentStreak(dates, time.Now()),
	})
}
