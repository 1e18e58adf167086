package main

import (
	"fmt"
	"net/http"
	"os"

	"survivalist/internal/config"
	"survivalist/internal/database"
	"survivalist/internal/handlers"
	"survivalist/internal/logger"
	"survivalist/internal/middleware"
	"survivalist/internal/services"
	"survivalist/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "survivalist/internal/docs" // Import swagger docs
)

// @title           Survivalist API
// @version         1.0
// @description     Survivalist is a monthly budgeting API: plan your spending per category, record expenses, and evaluate savings goals against what you actually spent.
// @termsOfService  http://swagger.io/terms/

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

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom binding validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	planService := services.NewPlanService(db)
	planItemService := services.NewPlanItemService(db)
	expenseService := services.NewExpenseService(db)
	goalService := services.NewGoalService(db)
	planGoalService := services.NewPlanGoalService(db, expenseService)
	statsService := services.NewStatsService(db, expenseService)
	auditService := services.NewAuditService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	planHandler := handlers.NewPlanHandler(planService, auditService)
	planItemHandler := handlers.NewPlanItemHandler(planItemService, auditService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, auditService)
	goalHandler := handlers.NewGoalHandler(goalService, auditService)
	planGoalHandler := handlers.NewPlanGoalHandler(planGoalService)
	statsHandler := handlers.NewStatsHandler(statsService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
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
	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/profile/password", authHandler.ChangePassword)

	// Plan routes
	plans := protected.Group("/plans")
	plans.POST("", planHandler.CreatePlan)
	plans.GET("", planHandler.GetPlans)
	plans.GET("/:id", planHandler.GetPlan)
	plans.PUT("/:id", planHandler.UpdatePlan)
	plans.DELETE("/:id", planHandler.DeletePlan)
	plans.PUT("/:id/goals", planHandler.SetPlanGoals)
	plans.GET("/:id/goals", planGoalHandler.ListGoals)
	plans.GET("/:id/goals/:goal_id", planGoalHandler.GetGoal)

	// Plan item routes
	planItems := protected.Group("/plan-items")
	planItems.POST("", planItemHandler.CreatePlanItem)
	planItems.GET("", planItemHandler.GetPlanItems)
	planItems.GET("/:id", planItemHandler.GetPlanItem)
	planItems.PUT("/:id", planItemHandler.UpdatePlanItem)
	planItems.DELETE("/:id", planItemHandler.DeletePlanItem)

	// Expense routes
	expenses := protected.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	// Goal routes
	goals := protected.Group("/goals")
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.GetGoals)
	goals.GET("/:id", goalHandler.GetGoal)
	goals.PUT("/:id", goalHandler.UpdateGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)

	// Stats routes
	stats := protected.Group("/stats")
	stats.GET("/monthly", statsHandler.MonthlyStats)
	stats.GET("/monthly/:month", statsHandler.MonthlyStats)
	stats.GET("/yearly", statsHandler.YearlyStats)
	stats.GET("/yearly/:year", statsHandler.YearlyStats)
	stats.GET("/category/:category/monthly", statsHandler.MonthlyCategoryStats)
	stats.GET("/category/:category/monthly/:month", statsHandler.MonthlyCategoryStats)
	stats.GET("/category/:category/yearly", statsHandler.YearlyCategoryStats)
	stats.GET("/category/:category/yearly/:year", statsHandler.YearlyCategoryStats)

	log.Infof("Starting Survivalist backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
