// Package server assembles the HTTP API.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"spendwise/internal/config"
	_ "spendwise/internal/docs" // swagger docs
	"spendwise/internal/export"
	"spendwise/internal/handlers"
	"spendwise/internal/middleware"
	"spendwise/internal/reports"
	"spendwise/internal/services"
)

// NewRouter wires services and handlers over db into a gin engine.
func NewRouter(cfg *config.Config, db *gorm.DB, statsService services.StatsServicer) *gin.Engine {
	// Services
	expenseService := services.NewExpenseService(db)
	categoryService := services.NewCategoryService(db)
	budgetService := services.NewBudgetService(db)
	auditService := services.NewAuditService(db)
	store := services.NewLedgerStore(db)

	// Handlers
	expenseHandler := handlers.NewExpenseHandler(expenseService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	analyticsHandler := handlers.NewAnalyticsHandler(store, reports.Options{
		ChartWidth:     cfg.ChartWidth,
		SparklineWidth: cfg.SparklineWidth,
		CurrencySymbol: cfg.CurrencySymbol,
	})
	statsHandler := handlers.NewStatsHandler(statsService, export.NewExporter(store, nil))
	pipelineHandler := handlers.NewPipelineHandler(expenseService, categoryService, auditService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Bulk ingestion authenticates with an API key instead of a token.
	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(cfg.PipelineAPIKey))
	pipeline.POST("/expenses", pipelineHandler.IngestExpenses)

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	expenses := protected.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.ListExpenses)
	expenses.GET("/search", expenseHandler.SearchExpenses)
	expenses.GET("/:id", expenseHandler.GetExpenseByID)
	expenses.PATCH("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.ListCategories)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.PATCH("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	budgets := protected.Group("/budgets")
	budgets.PUT("", budgetHandler.SetBudget)
	budgets.GET("", budgetHandler.ListBudgets)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)

	analyticsGroup := protected.Group("/analytics")
	analyticsGroup.GET("/breakdown", analyticsHandler.Breakdown)
	analyticsGroup.GET("/monthly/:year/:month", analyticsHandler.Monthly)
	analyticsGroup.GET("/yearly/:year", analyticsHandler.Yearly)
	analyticsGroup.GET("/insights/:year/:month", analyticsHandler.Insights)
	analyticsGroup.GET("/budgets", analyticsHandler.Budgets)

	protected.GET("/reports/:kind", analyticsHandler.Report)
	protected.GET("/stats", statsHandler.GetStats)
	protected.GET("/export", statsHandler.Export)

	return router
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
