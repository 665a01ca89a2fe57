package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/habitflow/habitflow/config"
	"github.com/habitflow/habitflow/controllers"
	"github.com/habitflow/habitflow/middleware"
	"github.com/habitflow/habitflow/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Access log goes to a rolling file instead of gin's default console logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Use(middleware.TrafficRecorder(db))

	r.Static("/static", "./static")

	r.GET("/", func(c *gin.Context) {
		c.File("./static/index.html")
	})

	r.GET("/admin", func(c *gin.Context) {
		c.File("./static/admin.html")
	})

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	taskController := controllers.NewTaskController(db)
	checkinController := controllers.NewCheckInController(db)
	statsController := controllers.NewStatsController(db)
	leaderboardController := controllers.NewLeaderboardController(db)
	challengeController := controllers.NewChallengeController(db)
	adminController := controllers.NewAdminController(db)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.GET("/oauth/:provider/login", authController.OAuthRedirect)
	authGroup.GET("/oauth/:provider/callback", authController.OAuthCallback)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())
	protected.GET("/tasks", taskController.List)
	protected.POST("/tasks", taskController.Create)
	protected.PUT("/tasks/:id", taskController.Update)
	protected.DELETE("/tasks/:id", taskController.Delete)
	protected.GET("/checkins", checkinController.ListByDate)
	protected.POST("/checkins", checkinController.Save)
	protected.GET("/stats", statsController.Summary)
	protected.GET("/leaderboard", leaderboardController.Rankings)
	protected.GET("/challenges", challengeController.List)
	protected.POST("/challenges", challengeController.Create)
	protected.POST("/challenges/:id/join", challengeController.Join)
	protected.POST("/challenges/:id/leave", challengeController.Leave)

	api.POST("/admin/login", middleware.RateLimitMiddleware(), adminController.Login)

	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AdminRequired())
	adminGroup.GET("/stats", adminController.Stats)
	adminGroup.GET("/users", adminController.Users)
	adminGroup.GET("/checkins", adminController.Checkins)
	adminGroup.GET("/challenges", adminController.Challenges)
	adminGroup.DELETE("/users/:id", adminController.DeleteUser)
	adminGroup.DELETE("/checkins/:id", adminController.DeleteCheckin)
	adminGroup.DELETE("/challenges/:id", adminController.DeleteChallenge)

	r.NoRoute(func(ctx *gin.Context) {
		path := ctx.Request.URL.Path
		if strings.HasPrefix(path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		if strings.HasPrefix(path, "/static/") {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "static asset not found"})
			return
		}
		// Client-side routes fall back to the SPA entry
		ctx.Status(http.StatusOK)
		ctx.File("./static/index.html")
	})

	return r
}
