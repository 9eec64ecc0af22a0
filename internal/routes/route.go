package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/joshua-takyi/devconnector/internal/container"
	"github.com/joshua-takyi/devconnector/internal/handlers"
	"github.com/joshua-takyi/devconnector/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	if container.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	handlers.RegisterValidation()

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     container.Config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", middleware.TokenHeader},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":  "OK",
				"service": "devconnector-api",
			})
		})

		// public routes
		api.POST("/users", handlers.CreateUser(container.UserService))
		api.POST("/auth", handlers.AuthenticateUser(container.UserService))
		api.GET("/profile", handlers.ListProfiles(container.ProfileService))
		api.GET("/profile/user/:user_id", handlers.GetProfileByUser(container.ProfileService))
	}

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(container.Tokens, container.Logger))

	protected.GET("/auth", handlers.GetUser(container.UserService))

	profileRoutes := protected.Group("/profile")
	{
		profileRoutes.GET("/me", handlers.GetMyProfile(container.ProfileService))
		profileRoutes.POST("", handlers.UpsertProfile(container.ProfileService))
		profileRoutes.DELETE("", handlers.DeleteAccount(container.AccountService))

		profileRoutes.PUT("/experience", handlers.AddExperience(container.ProfileService))
		profileRoutes.PUT("/experience/:exp_id", handlers.UpdateExperience(container.ProfileService))
		profileRoutes.DELETE("/experience/:exp_id", handlers.RemoveExperience(container.ProfileService))

		profileRoutes.PUT("/education", handlers.AddEducation(container.ProfileService))
		profileRoutes.PUT("/education/:edu_id", handlers.UpdateEducation(container.ProfileService))
		profileRoutes.DELETE("/education/:edu_id", handlers.RemoveEducation(container.ProfileService))
	}

	postRoutes := protected.Group("/posts")
	{
		postRoutes.POST("", handlers.CreatePost(container.PostService))
		postRoutes.GET("", handlers.ListPosts(container.PostService))
		postRoutes.GET("/:post_id", handlers.GetPost(container.PostService))
		postRoutes.DELETE("/:post_id", handlers.DeletePost(container.PostService))
		postRoutes.PUT("/like/:post_id", handlers.LikePost(container.PostService))
		postRoutes.PUT("/unlike/:post_id", handlers.UnlikePost(container.PostService))
		postRoutes.PUT("/comment/:post_id", handlers.AddComment(container.PostService))
		postRoutes.DELETE("/comment/:post_id/:comment_id", handlers.DeleteComment(container.PostService))
	}

	return r
}
