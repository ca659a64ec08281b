// Package server assembles the HTTP router.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "finsight/internal/docs" // registers the swagger docs
	"finsight/internal/handlers"
	"finsight/internal/middleware"
	"finsight/internal/services"
)

// Services are the dependencies the router hands to its handlers.
type Services struct {
	Users           services.UserServicer
	Categories      services.CategoryServicer
	Expenses        services.ExpenseServicer
	Budgets         services.BudgetServicer
	Insights        services.InsightServicer
	Analytics       services.AnalyticsServicer
	Profiles        services.ProfileServicer
	Recommendations services.RecommendationServicer
	Audit           services.AuditServicer
	Storage         handlers.StorageStatus
	Hub             handlers.WSServer
}

// NewRouter builds the gin engine with every route mounted. corsOrigin is sent
// as Access-Control-Allow-Origin.
func NewRouter(corsOrigin string, svc Services) *gin.Engine {
	authHandler := handlers.NewAuthHandler(svc.Users, svc.Audit)
	categoryHandler := handlers.NewCategoryHandler(svc.Categories, svc.Audit)
	expenseHandler := handlers.NewExpenseHandler(svc.Expenses, svc.Audit)
	budgetHandler := handlers.NewBudgetHandler(svc.Budgets, svc.Audit)
	insightHandler := handlers.NewInsightHandler(svc.Insights, svc.Audit)
	analyticsHandler := handlers.NewAnalyticsHandler(svc.Analytics)
	aiHandler := handlers.NewAIHandler(svc.Recommendations)
	profileHandler := handlers.NewProfileHandler(svc.Profiles, svc.Audit)
	auditHandler := handlers.NewAuditHandler(svc.Audit)
	healthHandler := handlers.NewHealthHandler(svc.Storage)
	wsHandler := handlers.NewWSHandler(svc.Hub)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.Metrics())
	router.Use(middleware.ErrorHandler())
	router.Use(cors(corsOrigin))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/api/health", healthHandler.Health)

	v1 := router.Group("/api/v1")

	// The handshake carries its token in the query string.
	v1.GET("/ws", wsHandler.Connect)

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/me", authHandler.GetMe)
	protected.PUT("/me", authHandler.UpdateMe)

	protected.GET("/profile", profileHandler.GetProfile)
	protected.PUT("/profile", profileHandler.UpdateProfile)

	categories := protected.Group("/categories")
	categories.GET("", categoryHandler.GetCategories)
	categories.POST("", categoryHandler.CreateCategory)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	expenses := protected.Group("/expenses")
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	budgets := protected.Group("/budgets")
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("/status", budgetHandler.GetBudgetStatus)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)

	insights := protected.Group("/insights")
	insights.GET("", insightHandler.GetInsights)
	insights.POST("/generate", insightHandler.GenerateInsights)
	insights.PUT("/:id/read", insightHandler.MarkInsightRead)

	protected.GET("/analytics/stats", analyticsHandler.GetStats)

	aiRoutes := protected.Group("/ai")
	aiRoutes.POST("/categorize", aiHandler.Categorize)
	aiRoutes.GET("/recommendations", aiHandler.GetRecommendations)

	protected.GET("/audit-logs", auditHandler.GetAuditLogs)

	return router
}

func cors(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
