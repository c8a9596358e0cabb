package handlers

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"vocablearn/internal/application/usecase"
	"vocablearn/internal/transport/http/middleware"
)

func NewRouter(
	authUsecase *usecase.AuthUsecase,
	authHandler *AuthHandler,
	levelHandler *LevelHandler,
	topicHandler *TopicHandler,
	wordHandler *WordHandler,
	limiter *middleware.RateLimiter,
	allowedOrigins string,
) *gin.Engine {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	if allowedOrigins == "" || allowedOrigins == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = strings.Split(allowedOrigins, ",")
		corsCfg.AllowCredentials = true
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	r.Use(cors.New(corsCfg))

	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", limiter.Limit("login", 5, 1*time.Minute), authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(authUsecase))
		{
			protected.POST("/update-profile", authHandler.UpdateProfile)
			protected.POST("/change-password", authHandler.ChangePassword)
		}
	}

	level := r.Group("/level")
	{
		level.GET("", levelHandler.List)
		level.GET("/CheckAllTopicsCompletedInLevel", levelHandler.CheckAllTopicsCompleted)
		level.GET("/:id", levelHandler.GetOne)
		level.POST("", levelHandler.Create)
		level.PUT("/:id", levelHandler.Update)
		level.DELETE("/:id", levelHandler.Delete)
	}

	topic := r.Group("/topic")
	{
		topic.GET("", topicHandler.List)
		topic.GET("/check-complete", topicHandler.CheckComplete)
		topic.GET("/CompletedByUser/:userId", topicHandler.CompletedByUser)
		topic.GET("/:id", topicHandler.GetOne)
		topic.POST("", topicHandler.Create)
		topic.PUT("/:id", topicHandler.Update)
		topic.DELETE("/:id", topicHandler.Delete)
	}

	words := r.Group("/words")
	{
		words.GET("", wordHandler.List)
		words.GET("/by-topic/:topicId", wordHandler.ByTopic)
		words.GET("/by-level/:levelId", wordHandler.ByLevel)
		words.GET("/by-topic-user", wordHandler.ByTopicUser)
		words.GET("/:id", wordHandler.GetOne)
		words.POST("", wordHandler.Create)
		words.PUT("/:id", wordHandler.Update)
		words.DELETE("/:id", wordHandler.Delete)
		words.POST("/learned", wordHandler.MarkLearned)
	}

	return r
}
