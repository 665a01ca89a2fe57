package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/habitflow/habitflow/analytics"
	"github.com/habitflow/habitflow/models"
	"github.com/habitflow/habitflow/utils"
)

// CheckInController handles daily check-in reads and the save upsert.
type CheckInController struct {
	db *gorm.DB
}

// NewCheckInController creates a CheckInController.
func NewCheckInController(db *gorm.DB) *CheckInController {
	return &CheckInController{db: db}
}

type checkinView struct {
	ID        uint           `json:"id"`
	TaskID    uint           `json:"task_id"`
	TaskName  string         `json:"task_name"`
	TaskType  string         `json:"task_type"`
	Config    map[string]any `json:"config"`
	Color     string         `json:"color"`
	Icon      string         `json:"icon"`
	Date      string         `json:"date"`
	Value     string         `json:"value"`
	Completed bool           `json:"completed"`
	Score     float64        `json:"score"`
}

// ListByDate returns the user's check-ins for a given date joined with the
// owning task's metadata. Defaults to today when date is absent.
func (c *CheckInController) ListByDate(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	day := today()
	if raw := ctx.Query("date"); raw != "" {
		parsed, ok := parseDate(raw)
		if !ok {
			utils.Error(ctx, http.StatusBadRequest, 40020, "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}

	type row struct {
		models.CheckIn
		TaskName   string
		TaskType   string
		TaskConfig string
		TaskColor  string
		TaskIcon   string
	}

	var rows []row
	err := c.db.Table("check_ins").
		Select("check_ins.*, task_templates.name AS task_name, task_templates.type AS task_type, task_templates.config AS task_config, task_templates.color AS task_color, task_templates.icon AS task_icon").
		Joins("JOIN task_templates ON task_templates.id = check_ins.task_id").
		Where("check_ins.user_id = ? AND check_ins.date = ?", userID, day.Format(dateLayout)).
		Order("check_ins.task_id ASC").
		Scan(&rows).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to load check-ins")
		return
	}

	views := make([]checkinView, 0, len(rows))
	for _, r := range rows {
		task := models.TaskTemplate{Config: r.TaskConfig}
		views = append(views, checkinView{
			ID:        r.CheckIn.ID,
			TaskID:    r.CheckIn.TaskID,
			TaskName:  r.TaskName,
			TaskType:  r.TaskType,
			Config:    task.ConfigMap(),
			Color:     r.TaskColor,
			Icon:      r.TaskIcon,
			Date:      r.CheckIn.DateString(),
			Value:     r.CheckIn.Value,
			Completed: r.CheckIn.Completed,
			Score:     r.CheckIn.Score,
		})
	}
	utils.Success(ctx, views)
}

// Save upserts a check-in keyed by (user, task, date). The score is
// recomputed server side from the task type and submitted value.
func (c *CheckInController) Save(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	type request struct {
		TaskID    uint   `json:"task_id" binding:"required"`
		Date      string `json:"date" binding:"required"`
		Value     string `json:"value"`
		Completed bool   `json:"completed"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid request payload")
		return
	}

	day, ok := parseDate(req.Date)
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40020, "date must be YYYY-MM-DD")
		return
	}

	var task models.TaskTemplate
	if err := c.db.Where("id = ? AND user_id = ?", req.TaskID, userID).First(&task).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40402, "task not found")
		return
	}

	score := analytics.ScoreFor(analytics.TaskType(task.Type), req.Value, req.Completed)

	checkin := models.CheckIn{
		UserID:    userID,
		TaskID:    task.ID,
		Date:      day,
		Value:     req.Value,
		Completed: req.Completed,
		Score:     score,
	}

	err := c.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "task_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      req.Value,
			"completed":  req.Completed,
			"score":      score,
			"updated_at": time.Now(),
		}),
	}).Create(&checkin).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to save check-in")
		return
	}

	utils.Success(ctx, gin.H{
		"task_id":   task.ID,
		"date":      day.Format(dateLayout),
		"value":     req.Value,
		"completed": req.Completed,
		"score":     score,
	})
}
