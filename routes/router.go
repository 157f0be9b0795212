package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/tracknest/tracknest/config"
	"github.com/tracknest/tracknest/controllers"
	"github.com/tracknest/tracknest/middleware"
	"github.com/tracknest/tracknest/services"
	"github.com/tracknest/tracknest/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(svc *services.Service) *gin.Engine {
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
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-API-Key"},
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

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(config.DB())
	trackableController := controllers.NewTrackableController(svc)
	historyController := controllers.NewHistoryController(svc)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(svc), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(svc), authController.Me)
	authGroup.POST("/api-key", middleware.AuthRequired(svc), authController.GenerateAPIKey)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(svc), middleware.RateLimitMiddleware())

	protected.GET("/trackables", trackableController.List)
	protected.POST("/trackables", trackableController.Create)
	protected.DELETE("/trackables/:id", trackableController.Delete)

	protected.GET("/history", historyController.Query)
	protected.PUT("/history", historyController.Track)
	protected.DELETE("/history", historyController.Delete)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
