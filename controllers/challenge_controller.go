package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/habitflow/habitflow/models"
	"github.com/habitflow/habitflow/utils"
)

// ChallengeController handles group challenges and membership.
type ChallengeController struct {
	db *gorm.DB
}

// NewChallengeController creates a ChallengeController.
func NewChallengeController(db *gorm.DB) *ChallengeController {
	return &ChallengeController{db: db}
}

type challengeView struct {
	ID               uint   `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	CreatorID        uint   `json:"creator_id"`
	CreatorName      string `json:"creator_name"`
	ParticipantCount int64  `json:"participant_count"`
	Joined           bool   `json:"joined"`
}

// List returns all challenges with participant counts and whether the
// current user has joined each.
func (c *ChallengeController) List(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	type row struct {
		models.Challenge
		CreatorName      string
		ParticipantCount int64
		Joined           int64
	}

	var rows []row
	err := c.db.Table("challenges").
		Select("challenges.*, users.username AS creator_name, "+
			"(SELECT COUNT(*) FROM challenge_participants WHERE challenge_participants.challenge_id = challenges.id) AS participant_count, "+
			"(SELECT COUNT(*) FROM challenge_participants WHERE challenge_participants.challenge_id = challenges.id AND challenge_participants.user_id = ?) AS joined", userID).
		Joins("JOIN users ON users.id = challenges.creator_id").
		Order("challenges.id DESC").
		Scan(&rows).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to load challenges")
		return
	}

	views := make([]challengeView, 0, len(rows))
	for _, r := range rows {
		views = append(views, challengeView{
			ID:               r.Challenge.ID,
			Title:            r.Challenge.Title,
			Description:      r.Challenge.Description,
			StartDate:        r.Challenge.StartDate,
			EndDate:          r.Challenge.EndDate,
			CreatorID:        r.Challenge.CreatorID,
			CreatorName:      r.CreatorName,
			ParticipantCount: r.ParticipantCount,
			Joined:           r.Joined > 0,
		})
	}
	utils.Success(ctx, views)
}

// Create adds a challenge and joins the creator in the same transaction.
func (c *ChallengeController) Create(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	type request struct {
		Title       string `json:"title" binding:"required,max=200"`
		Description string `json:"description" binding:"max=2000"`
		StartDate   string `json:"start_date" binding:"required"`
		EndDate     string `json:"end_date" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}

	start, okStart := parseDate(req.StartDate)
	end, okEnd := parseDate(req.EndDate)
	if !okStart || !okEnd {
		utils.Error(ctx, http.StatusBadRequest, 40031, "dates must be YYYY-MM-DD")
		return
	}
	if end.Before(start) {
		utils.Error(ctx, http.StatusBadRequest, 40032, "end_date must not precede start_date")
		return
	}

	title := utils.Sanitize(strings.TrimSpace(req.Title))
	if title == "" {
		utils.Error(ctx, http.StatusBadRequest, 40033, "title is required")
		return
	}

	challenge := models.Challenge{
		CreatorID:   userID,
		Title:       title,
		Description: utils.Sanitize(req.Description),
		StartDate:   start.Format(dateLayout),
		EndDate:     end.Format(dateLayout),
	}

	err := c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&challenge).Error; err != nil {
			return err
		}
		participant := models.ChallengeParticipant{
			ChallengeID: challenge.ID,
			UserID:      userID,
		}
		return tx.Create(&participant).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to create challenge")
		return
	}

	utils.Success(ctx, gin.H{
		"id":          challenge.ID,
		"title":       challenge.Title,
		"description": challenge.Description,
		"start_date":  challenge.StartDate,
		"end_date":    challenge.EndDate,
		"creator_id":  challenge.CreatorID,
	})
}

// Join adds the current user to a challenge. Joining twice is rejected.
func (c *ChallengeController) Join(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	challengeID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40034, "invalid challenge id")
		return
	}

	var challenge models.Challenge
	if err := c.db.First(&challenge, challengeID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40403, "challenge not found")
		return
	}

	var count int64
	if err := c.db.Model(&models.ChallengeParticipant{}).
		Where("challenge_id = ? AND user_id = ?", challenge.ID, userID).
		Count(&count).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to join challenge")
		return
	}
	if count > 0 {
		utils.Error(ctx, http.StatusBadRequest, 40035, "already joined")
		return
	}

	participant := models.ChallengeParticipant{
		ChallengeID: challenge.ID,
		UserID:      userID,
	}
	if err := c.db.Create(&participant).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to join challenge")
		return
	}

	utils.Success(ctx, gin.H{"challenge_id": challenge.ID, "joined": true})
}

// Leave removes the current user from a challenge.
func (c *ChallengeController) Leave(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	challengeID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40034, "invalid challenge id")
		return
	}

	result := c.db.Where("challenge_id = ? AND user_id = ?", challengeID, userID).
		Delete(&models.ChallengeParticipant{})
	if result.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50053, "failed to leave challenge")
		return
	}
	if result.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40404, "not a participant")
		return
	}

	utils.Success(ctx, gin.H{"challenge_id": challengeID, "joined": false})
}
