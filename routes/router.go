package routes

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/skillforge/engage/config"
	"github.com/skillforge/engage/controllers"
	"github.com/skillforge/engage/middleware"
	"github.com/skillforge/engage/services"
	"github.com/skillforge/engage/utils"
)

// SetupRouter wires routes, middlewares, services, and controllers.
func SetupRouter(db *gorm.DB, hub *services.Hub) *gin.Engine {
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
	// Replace default console logger with file-based zap logger
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

	contentService := services.NewContentService(db)
	voteService := services.NewVoteService(db)
	bookmarkService := services.NewBookmarkService(db)
	reviewService := services.NewReviewService(db, hub)

	authController := controllers.NewAuthController(db)
	contentController := controllers.NewContentController(contentService)
	voteController := controllers.NewVoteController(contentService, voteService)
	bookmarkController := controllers.NewBookmarkController(contentService, bookmarkService)
	reviewController := controllers.NewReviewController(contentService, reviewService, hub)

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	// Public reads
	api.GET("/content", contentController.List)
	api.GET("/content/:cid", contentController.Get)
	api.GET("/content/:cid/reviews", reviewController.List)
	api.GET("/content/:cid/reviews/watch", reviewController.Watch)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())

	protected.POST("/content", contentController.Create)
	protected.DELETE("/content/:cid", contentController.Delete)
	protected.POST("/content/:cid/pin", contentController.Pin)

	protected.POST("/content/:cid/vote", voteController.Toggle)
	protected.GET("/content/:cid/vote", voteController.Status)

	protected.POST("/content/:cid/bookmark", bookmarkController.Toggle)
	protected.GET("/content/:cid/bookmark", bookmarkController.Status)
	protected.GET("/users/me/bookmarks", bookmarkController.ListMine)

	protected.POST("/content/:cid/reviews", reviewController.Create)
	protected.PUT("/reviews/:id", reviewController.Update)
	protected.DELETE("/reviews/:id", reviewController.Delete)
	protected.POST("/reviews/:id/replies", reviewController.CreateReply)
	protected.DELETE("/replies/:id", reviewController.DeleteReply)
	protected.POST("/reviews/:id/like", reviewController.ToggleLike)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, 404, 40400, "route not found")
	})

	return r
}
