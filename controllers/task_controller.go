package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/habitflow/habitflow/analytics"
	"github.com/habitflow/habitflow/models"
	"github.com/habitflow/habitflow/utils"
)

// TaskController handles task template CRUD for the current user.
type TaskController struct {
	db *gorm.DB
}

// NewTaskController creates a TaskController.
func NewTaskController(db *gorm.DB) *TaskController {
	return &TaskController{db: db}
}

var allowedTaskTypes = map[string]bool{
	string(analytics.TaskCheckbox):  true,
	string(analytics.TaskNumber):    true,
	string(analytics.TaskTimeRange): true,
	string(analytics.TaskMCQ):       true,
	string(analytics.TaskDropdown):  true,
	string(analytics.TaskText):      true,
	string(analytics.TaskWorkout):   true,
	string(analytics.TaskRating):    true,
}

type taskView struct {
	ID       uint           `json:"id"`
	Name     string         `json:"name"`
	Type     string         `json:"type"`
	Config   map[string]any `json:"config"`
	Color    string         `json:"color"`
	Icon     string         `json:"icon"`
	IsWeekly bool           `json:"is_weekly"`
}

func taskToView(t models.TaskTemplate) taskView {
	return taskView{
		ID:       t.ID,
		Name:     t.Name,
		Type:     t.Type,
		Config:   t.ConfigMap(),
		Color:    t.Color,
		Icon:     t.Icon,
		IsWeekly: t.IsWeekly,
	}
}

// List returns the current user's task templates ordered by creation.
func (t *TaskController) List(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	var tasks []models.TaskTemplate
	if err := t.db.Where("user_id = ?", userID).Order("id ASC").Find(&tasks).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to load tasks")
		return
	}

	views := make([]taskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, taskToView(task))
	}
	utils.Success(ctx, views)
}

// Create adds a new task template for the current user.
func (t *TaskController) Create(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	type request struct {
		Name     string         `json:"name" binding:"required,max=128"`
		Type     string         `json:"type" binding:"required"`
		Config   map[string]any `json:"config"`
		Color    string         `json:"color"`
		Icon     string         `json:"icon"`
		IsWeekly bool           `json:"is_weekly"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}

	if !allowedTaskTypes[req.Type] {
		utils.Error(ctx, http.StatusBadRequest, 40011, "unsupported task type")
		return
	}

	name := utils.Sanitize(strings.TrimSpace(req.Name))
	if name == "" {
		utils.Error(ctx, http.StatusBadRequest, 40012, "task name is required")
		return
	}

	configJSON := "{}"
	if req.Config != nil {
		raw, err := json.Marshal(req.Config)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40013, "invalid task config")
			return
		}
		configJSON = string(raw)
	}

	task := models.TaskTemplate{
		UserID:   userID,
		Name:     name,
		Type:     req.Type,
		Config:   configJSON,
		Icon:     utils.Sanitize(req.Icon),
		IsWeekly: req.IsWeekly,
	}
	if color := strings.TrimSpace(req.Color); color != "" {
		task.Color = color
	}

	if err := t.db.Create(&task).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to create task")
		return
	}

	utils.Success(ctx, taskToView(task))
}

// Update modifies an existing task template owned by the current user.
func (t *TaskController) Update(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	taskID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40014, "invalid task id")
		return
	}

	var task models.TaskTemplate
	if err := t.db.Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40402, "task not found")
		return
	}

	type request struct {
		Name     *string         `json:"name"`
		Type     *string         `json:"type"`
		Config   *map[string]any `json:"config"`
		Color    *string         `json:"color"`
		Icon     *string         `json:"icon"`
		IsWeekly *bool           `json:"is_weekly"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}

	if req.Name != nil {
		name := utils.Sanitize(strings.TrimSpace(*req.Name))
		if name == "" {
			utils.Error(ctx, http.StatusBadRequest, 40012, "task name is required")
			return
		}
		task.Name = name
	}
	if req.Type != nil {
		if !allowedTaskTypes[*req.Type] {
			utils.Error(ctx, http.StatusBadRequest, 40011, "unsupported task type")
			return
		}
		task.Type = *req.Type
	}
	if req.Config != nil {
		raw, err := json.Marshal(*req.Config)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40013, "invalid task config")
			return
		}
		task.Config = string(raw)
	}
	if req.Color != nil && strings.TrimSpace(*req.Color) != "" {
		task.Color = strings.TrimSpace(*req.Color)
	}
	if req.Icon != nil {
		task.Icon = utils.Sanitize(*req.Icon)
	}
	if req.IsWeekly != nil {
		task.IsWeekly = *req.IsWeekly
	}

	if err := t.db.Save(&task).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to update task")
		return
	}

	utils.Success(ctx, taskToView(task))
}

// Delete removes a task template and its check-in history.
func (t *TaskController) Delete(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	taskID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40014, "invalid task id")
		return
	}

	var task models.TaskTemplate
	if err := t.db.Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40402, "task not found")
		return
	}

	err = t.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ? AND user_id = ?", task.ID, userID).Delete(&models.CheckIn{}).Error; err != nil {
			return err
		}
		return tx.Delete(&task).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to delete task")
		return
	}

	utils.Success(ctx, gin.H{"deleted": task.ID})
}
