// Package routes assembles the gin engine.
package routes

import (
	"log/slog"
	"net/http"

	"newsdesk/handlers"
	"newsdesk/helper"
	"newsdesk/metrics"
	"newsdesk/middleware"
	"newsdesk/services"

	"github.com/gin-gonic/gin"
)

// Deps carries everything the HTTP layer needs.
type Deps struct {
	Auth          services.AuthService
	Articles      services.ArticleService
	Subscriptions services.SubscriptionService
	Reviews       services.ReviewService
	Feeds         services.FeedService

	Helper      *helper.HTTPHelper
	Logger      *slog.Logger
	Metrics     metrics.Recorder
	MetricsHTTP http.Handler
	AuthLimiter *middleware.RateLimiter
	BaseURL     string
}

func NewRouter(d Deps) *gin.Engine {
	if d.Metrics == nil {
		d.Metrics = metrics.Nop{}
	}

	authHandler := handlers.NewAuthHandler(d.Auth, d.Helper)
	articleHandler := handlers.NewArticleHandler(d.Articles, d.Helper)
	subscriptionHandler := handlers.NewSubscriptionHandler(d.Subscriptions, d.Helper)
	reviewHandler := handlers.NewReviewHandler(d.Reviews, d.BaseURL, d.Helper)
	feedHandler := handlers.NewFeedHandler(d.Feeds, d.Helper)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(d.Logger, d.Metrics))

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	if d.MetricsHTTP != nil {
		router.GET("/metrics", gin.WrapH(d.MetricsHTTP))
	}

	requireAuth := middleware.AuthMiddleware(d.Auth, d.Helper)

	// Read API, readers only. Anonymous callers get 401 from the policy.
	feed := router.Group("/api/articles", middleware.OptionalAuth(d.Auth))
	{
		feed.GET("/feed/", feedHandler.Feed)
		feed.GET("/publishers/", feedHandler.Publishers)
		feed.GET("/journalists/", feedHandler.Journalists)
	}

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		if d.AuthLimiter != nil {
			auth.Use(d.AuthLimiter.Middleware(d.Helper))
		}
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Public article routes (approved only)
		v1.GET("/articles", articleHandler.GetPublicArticles)
		v1.GET("/articles/:id", articleHandler.GetPublicArticle)

		protected := v1.Group("/")
		protected.Use(requireAuth)
		{
			protected.GET("/profile", authHandler.GetProfile)

			protected.GET("/publishers", subscriptionHandler.ListPublishers)
			protected.POST("/publishers/:id/toggle", subscriptionHandler.TogglePublisher)
			protected.GET("/journalists", subscriptionHandler.ListJournalists)
			protected.POST("/journalists/:id/toggle", subscriptionHandler.ToggleJournalist)
			protected.GET("/me/subscriptions", subscriptionHandler.MySubscriptions)

			journalist := protected.Group("/journalist")
			{
				journalist.GET("/articles", articleHandler.Dashboard)
				journalist.POST("/articles", articleHandler.CreateArticle)
			}

			editor := protected.Group("/editor")
			{
				editor.GET("/queue", reviewHandler.Queue)
				editor.POST("/articles/:id/decide", reviewHandler.Decide)
			}
		}
	}

	return router
}
