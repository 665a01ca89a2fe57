package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/habitflow/habitflow/models"
)

// TrafficRecorder counts successful API requests per day and route path,
// feeding the admin dashboard's activity numbers.
func TrafficRecorder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 400 {
			return
		}

		// Route templates keep cardinality bounded (/api/v1/tasks/:id
		// instead of per-resource paths).
		path := c.FullPath()
		if path == "" || path == "/health" || strings.HasPrefix(path, "/static") || strings.Contains(path, "/admin") {
			return
		}

		// Local midnight aligns with the DATE column.
		now := time.Now().In(time.Local)
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

		// Atomic upsert to avoid duplicate key errors under concurrency.
		_ = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}, {Name: "path"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("count + 1"), "updated_at": time.Now()}),
		}).Create(&models.TrafficStat{Date: day, Path: path, Count: 1}).Error
	}
}
