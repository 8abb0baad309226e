// internal/handler/router.go
package handler

import (
	"finance-tracker/internal/config"
	"finance-tracker/internal/middleware"
	"finance-tracker/internal/service"
	"finance-tracker/internal/storage"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	cfg   config.Config
	svc   *service.Services
	store storage.Store
}

func New(cfg config.Config, svc *service.Services, store storage.Store) *Handler {
	return &Handler{cfg: cfg, svc: svc, store: store}
}

// NewRouter wires every route under /api.
func NewRouter(cfg config.Config, svc *service.Services, store storage.Store) *gin.Engine {
	switch {
	case cfg.IsProduction():
		gin.SetMode(gin.ReleaseMode)
	case cfg.IsDevelopment():
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.TestMode)
	}

	h := New(cfg, svc, store)
	authMiddleware := middleware.NewAuthMiddleware(svc.Auth)

	router := gin.New()
	router.Use(
		middleware.RequestLogger(),
		gin.Recovery(),
		middleware.CORS(cfg.CORSOrigin),
		middleware.ErrorHandler(cfg.IsDevelopment()),
	)

	api := router.Group("/api")
	api.GET("/health", h.Health)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/signup", h.Signup)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/logout", h.Logout)
		authGroup.GET("/me", authMiddleware.RequireAuth(), h.Me)
	}

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/transactions", h.ListTransactions)
		protected.POST("/transactions", h.CreateTransaction)
		protected.GET("/transactions/:id", h.GetTransaction)
		protected.PUT("/transactions/:id", h.UpdateTransaction)
		protected.DELETE("/transactions/:id", h.DeleteTransaction)

		protected.GET("/categories", h.ListCategories)
		protected.POST("/categories", h.CreateCategory)
		protected.GET("/categories/:id", h.GetCategory)
		protected.PUT("/categories/:id", h.UpdateCategory)
		protected.DELETE("/categories/:id", h.DeleteCategory)

		protected.GET("/budgets", h.ListBudgets)
		protected.POST("/budgets", h.CreateBudget)
		protected.GET("/budgets/alerts", h.BudgetAlerts)
		protected.GET("/budgets/:id", h.GetBudget)
		protected.PUT("/budgets/:id", h.UpdateBudget)
		protected.DELETE("/budgets/:id", h.DeleteBudget)

		protected.GET("/dashboard/summary", h.DashboardSummary)
		protected.GET("/dashboard/trends", h.DashboardTrends)
		protected.GET("/dashboard/insights", h.DashboardInsights)

		protected.GET("/export/transactions/csv", h.ExportCSV)
		protected.GET("/export/report/pdf", h.ExportReport)

		protected.PUT("/settings/profile", h.UpdateProfile)
		protected.PUT("/settings/password", h.ChangePassword)
		protected.PUT("/settings/preferences", h.UpdatePreferences)
		protected.DELETE("/settings/account", h.DeleteAccount)
	}

	return router
}
