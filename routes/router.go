package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/blogicum/blogicum/config"
	"github.com/blogicum/blogicum/controllers"
	"github.com/blogicum/blogicum/middleware"
	"github.com/blogicum/blogicum/utils"
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
	if utils.Logger != nil {
		r.Use(utils.Ginzap(utils.Logger))
		r.Use(utils.RecoveryWithZap(utils.Logger))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
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

	r.Static("/static", "./static")

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	postController := controllers.NewPostController(db)
	commentController := controllers.NewCommentController(db)
	categoryController := controllers.NewCategoryController(db)
	profileController := controllers.NewProfileController(db)

	limited := middleware.RateLimitMiddleware()
	authRequired := middleware.AuthRequired()
	authOptional := middleware.AuthOptional()

	// Public reads
	r.GET("/", postController.Index)
	r.GET("/categories/", categoryController.ListCategories)
	r.GET("/category/:slug/", categoryController.CategoryPosts)
	r.GET("/posts/:id/", authOptional, postController.GetPost)
	r.GET("/profile/:username/", authOptional, profileController.GetProfile)

	// Account endpoints
	r.POST("/register/", limited, authController.Register)
	r.POST("/login/", limited, authController.Login)
	r.POST("/logout/", authRequired, authController.Logout)
	r.GET("/me/", authRequired, authController.Me)

	// Mutations, owner-gated inside the handlers
	r.POST("/posts/new/", authRequired, limited, postController.CreatePost)
	r.POST("/posts/:id/edit/", authRequired, limited, postController.UpdatePost)
	r.POST("/posts/:id/delete/", authRequired, limited, postController.DeletePost)
	r.POST("/posts/:id/comment/", authRequired, limited, commentController.CreateComment)
	r.POST("/comments/:id/edit/", authRequired, limited, commentController.UpdateComment)
	r.POST("/comments/:id/delete/", authRequired, limited, commentController.DeleteComment)
	r.POST("/profile/:username/edit/", authRequired, limited, profileController.UpdateProfile)
	r.POST("/profile/:username/delete/", authRequired, limited, profileController.DeleteProfile)
	r.POST("/upload/", authRequired, limited, postController.UploadImage)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
