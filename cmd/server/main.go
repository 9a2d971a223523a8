package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/nafishahmed/blogspace/internal/auth"
	"github.com/nafishahmed/blogspace/internal/cache"
	"github.com/nafishahmed/blogspace/internal/config"
	"github.com/nafishahmed/blogspace/internal/database"
	"github.com/nafishahmed/blogspace/internal/email"
	"github.com/nafishahmed/blogspace/internal/engagement"
	"github.com/nafishahmed/blogspace/internal/feed"
	"github.com/nafishahmed/blogspace/internal/handlers"
	"github.com/nafishahmed/blogspace/internal/hashtag"
	"github.com/nafishahmed/blogspace/internal/logger"
	"github.com/nafishahmed/blogspace/internal/metrics"
	"github.com/nafishahmed/blogspace/internal/middleware"
	"github.com/nafishahmed/blogspace/internal/search"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	logger.Log.Info("=== BlogSpace server starting ===")

	// Initialize database
	if err := database.Initialize(); err != nil {
		logger.FatalWithFields("Failed to initialize database", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.Migrate(); err != nil {
		logger.FatalWithFields("Failed to run migrations", err)
	}

	// Redis backs the trending cache and rate limiting. The server still
	// works without it, just slower and unthrottled.
	redisClient, err := cache.NewRedisClient(cfg.RedisURL)
	if err != nil {
		logger.ErrorWithFields("Redis unavailable, continuing without cache", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	metrics.Initialize()

	// Services
	authService := auth.NewService(cfg.JWTSecret)
	feedService := feed.NewService()
	engagementService := engagement.NewService()
	trendingService := hashtag.NewService(redisClient, cfg.TrendingWindowDays, cfg.TrendingCacheTTL)

	h := handlers.NewHandlers(authService, feedService, engagementService, trendingService)

	if cfg.SESEnabled {
		emailService, err := email.NewEmailService(cfg.SESRegion, cfg.SESSender, "BlogSpace")
		if err != nil {
			logger.ErrorWithFields("SES unavailable, newsletter emails disabled", err)
		} else {
			h.SetEmailService(emailService)
		}
	}

	if cfg.SearchEnabled {
		searchClient, err := search.NewClient()
		if err != nil {
			logger.ErrorWithFields("Elasticsearch unavailable, search falls back to SQL", err)
		} else if err := searchClient.InitializeIndices(context.Background()); err != nil {
			logger.ErrorWithFields("Failed to initialize search indices, search falls back to SQL", err)
		} else {
			h.SetSearchClient(searchClient)
		}
	}

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.GinLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// CORS middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"} // Configure properly for production
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		status := "ok"
		code := http.StatusOK
		if err := database.Health(); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().UTC(),
			"service":   "blogspace-backend",
		})
	})

	// Prometheus scrape endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authMiddleware := authService.Middleware()

	// API routes
	api := r.Group("/api/v1")
	{
		// Authentication routes (public, rate limited)
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", middleware.RedisRateLimitMiddleware(10, time.Minute), h.Register)
			authGroup.POST("/login", middleware.RedisRateLimitMiddleware(20, time.Minute), h.Login)
			authGroup.GET("/me", authMiddleware, h.Me)
		}

		// Feed routes
		feedGroup := api.Group("/feed")
		{
			feedGroup.Use(authMiddleware)
			feedGroup.GET("/timeline", h.GetTimeline)
			feedGroup.GET("/global", h.GetGlobalFeed)
		}

		// Post routes
		posts := api.Group("/posts")
		{
			posts.Use(authMiddleware)
			posts.POST("", h.CreatePost)
			posts.GET("/:id", h.GetPost)
			posts.PUT("/:id", h.UpdatePost)
			posts.DELETE("/:id", h.DeletePost)
			posts.POST("/:id/like", h.ToggleLike)
			posts.GET("/:id/likes", h.GetPostLikes)
			posts.POST("/:id/share", h.ToggleShare)
			posts.POST("/:id/save", h.ToggleSave)
			posts.GET("/:id/saved", h.IsPostSaved)
			posts.GET("/:id/comments", h.GetComments)
			posts.POST("/:id/comments", h.AddComment)
		}

		// Comment routes
		comments := api.Group("/comments")
		{
			comments.Use(authMiddleware)
			comments.PUT("/:id", h.EditComment)
			comments.DELETE("/:id", h.DeleteComment)
		}

		// User routes
		users := api.Group("/users")
		{
			users.Use(authMiddleware)
			users.GET("", h.ListUsers)
			users.PUT("/me", h.UpdateProfile)
			users.DELETE("/me", h.DeleteAccount)
			users.GET("/me/saved", h.GetSavedPosts)
			users.GET("/:id", h.GetUser)
			users.PUT("/:id", h.UpdateUser)
			users.GET("/:id/posts", h.GetUserPosts)
			users.GET("/:id/followers", h.GetFollowers)
			users.GET("/:id/following", h.GetFollowing)
			users.POST("/:id/follow", h.FollowUser)
			users.DELETE("/:id/follow", h.UnfollowUser)
		}

		// Notification routes
		notifications := api.Group("/notifications")
		{
			notifications.Use(authMiddleware)
			notifications.GET("", h.GetNotifications)
			notifications.POST("/:id/read", h.MarkNotificationRead)
			notifications.POST("/read-all", h.MarkAllNotificationsRead)
			notifications.DELETE("", h.DeleteAllNotifications)
			notifications.DELETE("/:id", h.DeleteNotification)
		}

		// Hashtag routes
		hashtags := api.Group("/hashtags")
		{
			hashtags.Use(authMiddleware)
			hashtags.GET("/trending", h.GetTrendingHashtags)
			hashtags.GET("/:tag/posts", h.GetPostsByHashtag)
		}

		// Search routes
		searchGroup := api.Group("/search")
		{
			searchGroup.Use(authMiddleware)
			searchGroup.GET("/posts", h.SearchPosts)
			searchGroup.GET("/users", h.SearchUsers)
		}

		// Category routes
		api.GET("/categories", authMiddleware, h.GetCategories)

		// Admin routes
		admin := api.Group("/admin")
		{
			admin.Use(authMiddleware, middleware.RequireAdmin())
			admin.GET("/stats", h.GetAdminStats)
		}

		// Newsletter signup (public, rate limited)
		api.POST("/newsletter/subscribe", middleware.RedisRateLimitMiddleware(5, time.Minute), h.SubscribeNewsletter)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("BlogSpace backend starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.FatalWithFields("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.FatalWithFields("Server forced to shutdown", err)
	}

	logger.Log.Info("Server exited")
}
