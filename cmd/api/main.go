package main

import (
	"fmt"
	"net/http"
	"os"

	"alphastock/internal/config"
	"alphastock/internal/database"
	"alphastock/internal/handlers"
	"alphastock/internal/logger"
	"alphastock/internal/middleware"
	"alphastock/internal/quotes"
	"alphastock/internal/services"
	"alphastock/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "alphastock/internal/docs" // Import swagger docs
)

// @title           AlphaStock API
// @version         1.0
// @description     AlphaStock is a paper-trading dashboard backend: simulated orders against a cash balance, portfolio tracking, price alerts, watchlists, and market data.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Create database manager and run migrations
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Quote gateway with optional Redis cache
	quoteOpts := []quotes.Option{
		quotes.WithBaseURL(appConfig.QuoteBaseURL),
		quotes.WithTimeout(appConfig.QuoteTimeout),
	}
	if appConfig.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     appConfig.RedisAddr,
			Password: appConfig.RedisPassword,
		})
		quoteOpts = append(quoteOpts, quotes.WithCache(rdb))
		log.Infof("Quote cache enabled at %s", appConfig.RedisAddr)
	}
	quoteClient := quotes.NewClient(nil, quoteOpts...)

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	tradeService := services.NewTradeService(db)
	portfolioService := services.NewPortfolioService(db, quoteClient)
	alertService := services.NewAlertService(db, quoteClient)
	notificationService := services.NewNotificationService(db)
	watchlistService := services.NewWatchlistService(db)
	marketService := services.NewMarketService(quoteClient)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	tradeHandler := handlers.NewTradeHandler(tradeService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
	alertHandler := handlers.NewAlertHandler(alertService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	watchlistHandler := handlers.NewWatchlistHandler(watchlistService)
	marketHandler := handlers.NewMarketHandler(marketService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.Profile)

	// Trade routes
	trades := protected.Group("/trades")
	trades.POST("", tradeHandler.ExecuteTrade)
	trades.GET("", tradeHandler.GetTrades)
	trades.DELETE("", tradeHandler.ClearTrades)

	// Portfolio routes
	portfolio := protected.Group("/portfolio")
	portfolio.GET("", portfolioHandler.GetPortfolio)
	portfolio.POST("/refresh-prices", portfolioHandler.RefreshPrices)
	portfolio.PUT("/price", portfolioHandler.UpdatePrice)
	portfolio.POST("/reset-balance", portfolioHandler.ResetBalance)

	// Alert routes
	alerts := protected.Group("/alerts")
	alerts.POST("", alertHandler.CreateAlert)
	alerts.GET("", alertHandler.GetAlerts)
	alerts.POST("/check", alertHandler.CheckAlerts)
	alerts.PATCH("/:id/toggle", alertHandler.ToggleAlert)
	alerts.DELETE("/:id", alertHandler.DeleteAlert)

	// Notification routes
	notifications := protected.Group("/notifications")
	notifications.GET("", notificationHandler.GetNotifications)
	notifications.PATCH("/read-all", notificationHandler.MarkAllRead)
	notifications.PATCH("/:id/read", notificationHandler.MarkRead)
	notifications.DELETE("/:id", notificationHandler.DeleteNotification)

	// Watchlist routes
	watchlist := protected.Group("/watchlist")
	watchlist.GET("", watchlistHandler.GetWatchlist)
	watchlist.POST("", watchlistHandler.AddTicker)
	watchlist.DELETE("/:ticker", watchlistHandler.RemoveTicker)

	// Market data routes
	market := protected.Group("/market")
	market.GET("/chart/:ticker", marketHandler.GetChart)
	market.GET("/prices", marketHandler.GetPrices)
	market.GET("/movers", marketHandler.GetMovers)
	market.GET("/news/:ticker", marketHandler.GetNews)

	log.Infof("Starting AlphaStock backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
