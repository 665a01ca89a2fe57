package controllers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/habitflow/habitflow/config"
	"github.com/habitflow/habitflow/models"
	"github.com/habitflow/habitflow/utils"
)

const (
	adminTokenLifetime  = 24 * time.Hour
	adminStatsCacheKey  = "admin:stats"
	adminRecentCheckins = 100
)

// AdminController provides the operator dashboard endpoints.
type AdminController struct {
	db *gorm.DB
}

// NewAdminController creates an AdminController.
func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{db: db}
}

// Login verifies the operator password and issues a short-lived admin token.
// Admin access is disabled entirely when no password is configured.
func (a *AdminController) Login(ctx *gin.Context) {
	type request struct {
		Password string `json:"password" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}

	adminPassword := config.Get().AdminPassword
	if adminPassword == "" {
		utils.Error(ctx, http.StatusForbidden, 40302, "admin access is disabled")
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(adminPassword)) != 1 {
		utils.Sugar.Warnw("admin login rejected", "ip", ctx.ClientIP())
		utils.Error(ctx, http.StatusUnauthorized, 40109, "invalid password")
		return
	}

	token, err := utils.GenerateAdminToken(adminTokenLifetime)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{"token": token, "expires_in": int(adminTokenLifetime.Seconds())})
}

// Stats returns platform-wide counters, cached briefly in redis.
func (a *AdminController) Stats(ctx *gin.Context) {
	if cached, ok := utils.CacheGetBytes(adminStatsCacheKey); ok {
		var payload map[string]any
		if err := json.Unmarshal(cached, &payload); err == nil {
			utils.Success(ctx, payload)
			return
		}
	}

	var totalUsers, totalTasks, totalCheckins, totalChallenges int64
	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.User{}, &totalUsers},
		{&models.TaskTemplate{}, &totalTasks},
		{&models.CheckIn{}, &totalCheckins},
		{&models.Challenge{}, &totalChallenges},
	}
	for _, c := range counts {
		if err := a.db.Model(c.model).Count(c.dest).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50066, "failed to load stats")
			return
		}
	}

	todayStr := today().Format(dateLayout)

	var checkinsToday int64
	if err := a.db.Model(&models.CheckIn{}).Where("date = ?", todayStr).Count(&checkinsToday).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50066, "failed to load stats")
		return
	}

	weekAgo := today().AddDate(0, 0, -7).Format(dateLayout)
	var activeUsersWeek int64
	if err := a.db.Model(&models.CheckIn{}).
		Where("date >= ?", weekAgo).
		Distinct("user_id").
		Count(&activeUsersWeek).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50066, "failed to load stats")
		return
	}

	type trafficRow struct {
		Path  string `json:"path"`
		Count int64  `json:"count"`
	}
	var traffic []trafficRow
	if err := a.db.Model(&models.TrafficStat{}).
		Select("path, count").
		Where("date = ?", todayStr).
		Order("count DESC").
		Limit(20).
		Scan(&traffic).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50066, "failed to load stats")
		return
	}

	payload := gin.H{
		"total_users":       totalUsers,
		"total_tasks":       totalTasks,
		"total_checkins":    totalCheckins,
		"total_challenges":  totalChallenges,
		"checkins_today":    checkinsToday,
		"active_users_week": activeUsersWeek,
		"traffic_today":     traffic,
	}

	utils.CacheSetJSON(adminStatsCacheKey, payload, 30*time.Second)
	utils.Success(ctx, payload)
}

// Users lists users with per-user activity aggregates, paginated.
func (a *AdminController) Users(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))

	type row struct {
		ID            uint      `json:"id"`
		Username      string    `json:"username"`
		Email         string    `json:"email"`
		Provider      string    `json:"provider"`
		CreatedAt     time.Time `json:"created_at"`
		TaskCount     int64     `json:"task_count"`
		CheckinCount  int64     `json:"checkin_count"`
		LastCheckinAt *string   `json:"last_checkin_at"`
	}

	var rows []row
	err := a.db.Table("users").
		Select("users.id, users.username, users.email, users.provider, users.created_at, " +
			"(SELECT COUNT(*) FROM task_templates WHERE task_templates.user_id = users.id) AS task_count, " +
			"(SELECT COUNT(*) FROM check_ins WHERE check_ins.user_id = users.id) AS checkin_count, " +
			"(SELECT DATE_FORMAT(MAX(date), '%Y-%m-%d') FROM check_ins WHERE check_ins.user_id = users.id) AS last_checkin_at").
		Where("users.deleted_at IS NULL").
		Order("users.id ASC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Scan(&rows).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to load users")
		return
	}

	var total int64
	a.db.Model(&models.User{}).Count(&total)

	utils.Success(ctx, gin.H{
		"users":     rows,
		"page":      page,
		"page_size": pageSize,
		"total":     total,
	})
}

// Checkins lists the most recent check-ins across all users.
func (a *AdminController) Checkins(ctx *gin.Context) {
	type row struct {
		ID        uint    `json:"id"`
		Username  string  `json:"username"`
		TaskName  string  `json:"task_name"`
		Date      string  `json:"date"`
		Completed bool    `json:"completed"`
		Score     float64 `json:"score"`
	}

	var rows []row
	err := a.db.Table("check_ins").
		Select("check_ins.id, users.username, task_templates.name AS task_name, "+
			"DATE_FORMAT(check_ins.date, '%Y-%m-%d') AS date, check_ins.completed, check_ins.score").
		Joins("JOIN users ON users.id = check_ins.user_id").
		Joins("JOIN task_templates ON task_templates.id = check_ins.task_id").
		Order("check_ins.id DESC").
		Limit(adminRecentCheckins).
		Scan(&rows).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to load check-ins")
		return
	}

	utils.Success(ctx, rows)
}

// Challenges lists all challenges with creator and participant counts.
func (a *AdminController) Challenges(ctx *gin.Context) {
	type row struct {
		ID               uint   `json:"id"`
		Title            string `json:"title"`
		CreatorName      string `json:"creator_name"`
		StartDate        string `json:"start_date"`
		EndDate          string `json:"end_date"`
		ParticipantCount int64  `json:"participant_count"`
	}

	var rows []row
	err := a.db.Table("challenges").
		Select("challenges.id, challenges.title, users.username AS creator_name, " +
			"challenges.start_date, challenges.end_date, " +
			"(SELECT COUNT(*) FROM challenge_participants WHERE challenge_participants.challenge_id = challenges.id) AS participant_count").
		Joins("JOIN users ON users.id = challenges.creator_id").
		Order("challenges.id DESC").
		Scan(&rows).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to load challenges")
		return
	}

	utils.Success(ctx, rows)
}

// DeleteUser removes a user and everything owned by them.
func (a *AdminController) DeleteUser(ctx *gin.Context) {
	userID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40041, "invalid user id")
		return
	}

	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
		return
	}

	err = a.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.CheckIn{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.TaskTemplate{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.ChallengeParticipant{}).Error; err != nil {
			return err
		}
		// Challenges the user created go away with them, including other
		// users' membership rows in those challenges.
		created := tx.Model(&models.Challenge{}).Select("id").Where("creator_id = ?", user.ID)
		if err := tx.Where("challenge_id IN (?)", created).Delete(&models.ChallengeParticipant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("creator_id = ?", user.ID).Delete(&models.Challenge{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&user).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50063, "failed to delete user")
		return
	}

	utils.CacheDelete(adminStatsCacheKey)
	utils.Sugar.Infow("admin deleted user", "user_id", user.ID, "username", user.Username)
	utils.Success(ctx, gin.H{"deleted": user.ID})
}

// DeleteCheckin removes a single check-in record.
func (a *AdminController) DeleteCheckin(ctx *gin.Context) {
	checkinID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40042, "invalid check-in id")
		return
	}

	result := a.db.Delete(&models.CheckIn{}, checkinID)
	if result.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50064, "failed to delete check-in")
		return
	}
	if result.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40405, "check-in not found")
		return
	}

	utils.CacheDelete(adminStatsCacheKey)
	utils.Success(ctx, gin.H{"deleted": checkinID})
}

// DeleteChallenge removes a challenge and its participant rows.
func (a *AdminController) DeleteChallenge(ctx *gin.Context) {
	challengeID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40034, "invalid challenge id")
		return
	}

	var challenge models.Challenge
	if err := a.db.First(&challenge, challengeID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40403, "challenge not found")
		return
	}

	err = a.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("challenge_id = ?", challenge.ID).Delete(&models.ChallengeParticipant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&challenge).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50065, "failed to delete challenge")
		return
	}

	utils.CacheDelete(adminStatsCacheKey)
	utils.Success(ctx, gin.H{"deleted": challenge.ID})
}
