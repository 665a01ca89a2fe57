package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/habitflow/habitflow/models"
	"github.com/habitflow/habitflow/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.TaskTemplate{},
		&models.CheckIn{},
		&models.Challenge{},
		&models.ChallengeParticipant{},
		&models.TrafficStat{},
	))
	return db
}

func adminTestContext(method string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(method, "/", nil)
	return ctx, w
}

func TestAdminDeleteUserCascadesCreatedChallenges(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")
	utils.Sugar = zap.NewNop().Sugar()
	db := newTestDB(t)
	admin := NewAdminController(db)

	creator := models.User{Username: "creator", Email: "creator@example.com"}
	other := models.User{Username: "other", Email: "other@example.com"}
	require.NoError(t, db.Create(&creator).Error)
	require.NoError(t, db.Create(&other).Error)

	task := models.TaskTemplate{UserID: creator.ID, Name: "Read", Type: "checkbox"}
	require.NoError(t, db.Create(&task).Error)
	require.NoError(t, db.Create(&models.CheckIn{
		UserID: creator.ID, TaskID: task.ID, Date: today(), Completed: true, Score: 10,
	}).Error)

	owned := models.Challenge{CreatorID: creator.ID, Title: "March sprint", StartDate: "2024-03-01", EndDate: "2024-03-31"}
	require.NoError(t, db.Create(&owned).Error)
	require.NoError(t, db.Create(&models.ChallengeParticipant{ChallengeID: owned.ID, UserID: creator.ID}).Error)
	require.NoError(t, db.Create(&models.ChallengeParticipant{ChallengeID: owned.ID, UserID: other.ID}).Error)

	kept := models.Challenge{CreatorID: other.ID, Title: "April sprint", StartDate: "2024-04-01", EndDate: "2024-04-30"}
	require.NoError(t, db.Create(&kept).Error)
	require.NoError(t, db.Create(&models.ChallengeParticipant{ChallengeID: kept.ID, UserID: other.ID}).Error)
	require.NoError(t, db.Create(&models.ChallengeParticipant{ChallengeID: kept.ID, UserID: creator.ID}).Error)

	ctx, w := adminTestContext(http.MethodDelete)
	ctx.Params = gin.Params{{Key: "id", Value: fmt.Sprint(creator.ID)}}
	admin.DeleteUser(ctx)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.Challenge{}).Where("creator_id = ?", creator.ID).Count(&count)
	assert.Zero(t, count, "challenges created by the deleted user must go away")

	db.Model(&models.ChallengeParticipant{}).Where("challenge_id = ?", owned.ID).Count(&count)
	assert.Zero(t, count, "memberships of the deleted challenge must go away")

	db.Model(&models.Challenge{}).Count(&count)
	assert.Equal(t, int64(1), count, "other creators' challenges survive")

	db.Model(&models.ChallengeParticipant{}).Where("challenge_id = ?", kept.ID).Count(&count)
	assert.Equal(t, int64(1), count, "only the deleted user's membership is removed from surviving challenges")

	db.Model(&models.CheckIn{}).Where("user_id = ?", creator.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.TaskTemplate{}).Where("user_id = ?", creator.ID).Count(&count)
	assert.Zero(t, count)
	db.Unscoped().Model(&models.User{}).Where("id = ?", creator.ID).Count(&count)
	assert.Zero(t, count)
}

func TestAdminDeleteUserNotFound(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")
	utils.Sugar = zap.NewNop().Sugar()
	db := newTestDB(t)
	admin := NewAdminController(db)

	ctx, w := adminTestContext(http.MethodDelete)
	ctx.Params = gin.Params{{Key: "id", Value: "9999"}}
	admin.DeleteUser(ctx)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "40401")
}

func TestAdminStatsFailsClosedOnDatabaseError(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")
	utils.Sugar = zap.NewNop().Sugar()
	db := newTestDB(t)
	admin := NewAdminController(db)

	utils.CacheDelete(adminStatsCacheKey)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	ctx, w := adminTestContext(http.MethodGet)
	admin.Stats(ctx)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "50066")
}
