package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/yatube/config"
	"github.com/cppla/yatube/controllers"
	"github.com/cppla/yatube/middleware"
	"github.com/cppla/yatube/store"
	"github.com/cppla/yatube/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, cache *utils.ResponseCache) *gin.Engine {
	// Load config and set Gin mode from configuration
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
	r.RedirectTrailingSlash = true
	r.MaxMultipartMemory = int64(max(cfg.MaxUploadMB, 1)) << 20

	// Access log goes to its own rolling file when configured
	gl := utils.Logger
	if cfg.GinPath != "" {
		if fl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg); err == nil {
			gl = fl
		} else {
			utils.Sugar.Warnf("gin log %s unavailable, using application logger: %v", cfg.GinPath, err)
		}
	}
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(gl))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	s := store.New(db)
	r.Use(middleware.Authenticate(s))
	r.Use(middleware.AccessLog(gl, time.RFC3339, true))

	if cfg.MediaRoot != "" {
		r.Static("/media", cfg.MediaRoot)
	}

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	postController := controllers.NewPostController(s, cache, cfg.MediaRoot, int64(cfg.MaxUploadMB)<<20)
	followController := controllers.NewFollowController(s)
	authController := controllers.NewAuthController(s)
	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute)

	r.GET("/", postController.Index)
	r.GET("/group/:slug/", postController.GroupPosts)
	r.GET("/profile/:username/", postController.Profile)
	r.GET("/posts/:post_id/", postController.PostDetail)

	protected := r.Group("")
	protected.Use(middleware.LoginRequired())
	protected.GET("/create/", postController.CreateForm)
	protected.GET("/posts/:post_id/edit/", postController.EditForm)
	protected.GET("/follow/", postController.FollowIndex)

	mutations := protected.Group("")
	mutations.Use(limiter.Middleware())
	mutations.POST("/create/", postController.Create)
	mutations.POST("/posts/:post_id/edit/", postController.Edit)
	mutations.POST("/posts/:post_id/comment/", postController.AddComment)
	mutations.POST("/profile/:username/follow/", followController.Follow)
	mutations.POST("/profile/:username/unfollow/", followController.Unfollow)

	authGroup := r.Group("/auth")
	authGroup.GET("/login/", authController.LoginPage)
	authGroup.POST("/login/", limiter.Middleware(), authController.Login)
	authGroup.POST("/signup/", limiter.Middleware(), authController.Signup)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "page not found")
	})

	return r
}
