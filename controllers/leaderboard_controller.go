package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/habitflow/habitflow/analytics"
	"github.com/habitflow/habitflow/models"
	"github.com/habitflow/habitflow/utils"
)

// LeaderboardController ranks users over a rolling period.
type LeaderboardController struct {
	db *gorm.DB
}

// NewLeaderboardController creates a LeaderboardController.
func NewLeaderboardController(db *gorm.DB) *LeaderboardController {
	return &LeaderboardController{db: db}
}

// Rankings returns the leaderboard for ?period=week|month|all (week default).
func (l *LeaderboardController) Rankings(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	period := analytics.ParsePeriod(ctx.DefaultQuery("period", "week"))

	var rows []models.User
	if err := l.db.Order("id ASC").Find(&rows).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to load users")
		return
	}

	users := make([]analytics.User, 0, len(rows))
	for _, u := range rows {
		users = append(users, analytics.User{ID: u.ID, Username: u.Username})
	}

	fetch := func(uid uint, since time.Time, windowed bool) []analytics.Record {
		query := l.db.Table("check_ins").
			Select("date, completed, score").
			Where("user_id = ?", uid)
		if windowed {
			query = query.Where("date >= ?", since.Format(dateLayout))
		}

		var checkins []models.CheckIn
		if err := query.Scan(&checkins).Error; err != nil {
			utils.Sugar.Warnw("leaderboard record fetch failed", "user_id", uid, "error", err)
			return nil
		}

		records := make([]analytics.Record, 0, len(checkins))
		for _, c := range checkins {
			records = append(records, analytics.Record{
				Date:      c.Date,
				Completed: c.Completed,
				Score:     c.Score,
			})
		}
		return records
	}

	entries := analytics.Leaderboard(users, fetch, period, userID, time.Now())
	utils.Success(ctx, gin.H{
		"period":  string(period),
		"entries": entries,
	})
}
