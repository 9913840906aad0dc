package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/middleware"
)

// Handlers groups every HTTP handler registered by RegisterRoutes
type Handlers struct {
	Auth       *AuthHandler
	User       *UserHandler
	Category   *CategoryHandler
	Expense    *ExpenseHandler
	Sales      *SalesHandler
	Order      *OrderHandler
	Dashboard  *DashboardHandler
	CustomCard *CustomCardHandler
	Upload     *UploadHandler
	WebSocket  *WebSocketHandler
}

// RouteOptions configures the parts of routing that depend on the deployment
type RouteOptions struct {
	// UploadDir serves attachments straight from disk when set; otherwise
	// /uploads/:name redirects to a signed object-store URL
	UploadDir    string
	LoginLimiter *middleware.RateLimiter
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, h Handlers, opts RouteOptions) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/openapi.json", ServeOpenAPI3Spec)

	staffUp := middleware.RequireAtLeast(domain.RoleStaff)
	accountantUp := middleware.RequireAtLeast(domain.RoleAccountant)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// Auth routes
	auth := e.Group("/auth")
	if opts.LoginLimiter != nil {
		auth.POST("/login", h.Auth.Login, middleware.LoginRateLimit(opts.LoginLimiter))
	} else {
		auth.POST("/login", h.Auth.Login)
	}
	authed := auth.Group("", authMiddleware.Authenticate())
	authed.GET("/me", h.Auth.Me)
	authed.POST("/logout", h.Auth.Logout)
	authed.PUT("/password", h.Auth.ChangePassword)
	authed.GET("/permissions", h.Auth.Permissions)

	// Category routes
	categories := e.Group("/categories", authMiddleware.Authenticate())
	categories.GET("", h.Category.ListCategories, accountantUp)
	categories.GET("/:id", h.Category.GetCategory, accountantUp)
	categories.POST("", h.Category.CreateCategory, adminOnly)
	categories.PUT("/:id", h.Category.UpdateCategory, adminOnly)
	categories.DELETE("/:id", h.Category.DeleteCategory, adminOnly)
	categories.POST("/:id/subcategories", h.Category.AddSubCategory, adminOnly)
	categories.PUT("/:id/subcategories/:name", h.Category.RenameSubCategory, adminOnly)
	categories.DELETE("/:id/subcategories/:name", h.Category.RemoveSubCategory, adminOnly)

	// Expense routes
	expense := e.Group("/expense", authMiddleware.Authenticate())
	expense.POST("/add-expense", h.Expense.AddExpense, accountantUp)
	expense.GET("/monthly-expense", h.Expense.Summary(domain.WindowMonth), accountantUp)
	expense.GET("/yearly-expense", h.Expense.Summary(domain.WindowYear), accountantUp)
	expense.GET("/date-range-expense", h.Expense.Summary(domain.WindowRange), accountantUp)
	expense.GET("/monthly-expense-list", h.Expense.List(domain.WindowMonth), accountantUp)
	expense.GET("/yearly-expense-list", h.Expense.List(domain.WindowYear), accountantUp)
	expense.GET("/date-range-expense-list", h.Expense.List(domain.WindowRange), accountantUp)
	expense.GET("/daily-expense", h.Expense.DailyExpenses, accountantUp)
	expense.GET("/export", h.Expense.Export, accountantUp)
	expense.GET("/:id", h.Expense.GetExpense, accountantUp)
	expense.PUT("/update-expense/:id", h.Expense.UpdateExpense, adminOnly)
	expense.DELETE("/delete-expense/:id", h.Expense.DeleteExpense, adminOnly)

	// Sales routes
	sales := e.Group("/sales", authMiddleware.Authenticate())
	sales.POST("/add-sales", h.Sales.AddSales, staffUp)
	sales.GET("/monthly-sales", h.Sales.Summary(domain.WindowMonth), accountantUp)
	sales.GET("/yearly-sales", h.Sales.Summary(domain.WindowYear), accountantUp)
	sales.GET("/date-range-sales", h.Sales.Summary(domain.WindowRange), accountantUp)
	sales.GET("/monthly-sales-list", h.Sales.List(domain.WindowMonth), accountantUp)
	sales.GET("/yearly-sales-list", h.Sales.List(domain.WindowYear), accountantUp)
	sales.GET("/date-range-sales-list", h.Sales.List(domain.WindowRange), accountantUp)
	sales.GET("/daily-sales", h.Sales.DailySales, accountantUp)
	sales.GET("/export", h.Sales.Export, accountantUp)
	sales.GET("/:id", h.Sales.GetSales, accountantUp)
	sales.PUT("/update-sales/:id", h.Sales.UpdateSales, adminOnly)
	sales.DELETE("/delete-sales/:id", h.Sales.DeleteSales, adminOnly)

	// Order routes
	order := e.Group("/order", authMiddleware.Authenticate())
	order.POST("/add-order", h.Order.AddOrder, accountantUp)
	order.GET("/monthly-order", h.Order.Summary(domain.WindowMonth), accountantUp)
	order.GET("/yearly-order", h.Order.Summary(domain.WindowYear), accountantUp)
	order.GET("/date-range-order", h.Order.Summary(domain.WindowRange), accountantUp)
	order.GET("/monthly-order-list", h.Order.List(domain.WindowMonth), accountantUp)
	order.GET("/yearly-order-list", h.Order.List(domain.WindowYear), accountantUp)
	order.GET("/date-range-order-list", h.Order.List(domain.WindowRange), accountantUp)
	order.GET("/export", h.Order.Export, accountantUp)
	order.GET("/:id", h.Order.GetOrder, accountantUp)
	order.PUT("/update-order/:id", h.Order.UpdateOrder, adminOnly)
	order.DELETE("/delete-order/:id", h.Order.DeleteOrder, adminOnly)

	// Dashboard routes
	dashboard := e.Group("/dashboard", authMiddleware.Authenticate(), accountantUp)
	dashboard.GET("/summary", h.Dashboard.GetSummary)

	// User management routes
	users := e.Group("/users", authMiddleware.Authenticate(), adminOnly)
	users.GET("", h.User.ListUsers)
	users.GET("/:id", h.User.GetUser)
	users.POST("", h.User.CreateUser)
	users.PUT("/:id", h.User.UpdateUser)
	users.PATCH("/:id/deactivate", h.User.DeactivateUser)
	users.PATCH("/:id/reactivate", h.User.ReactivateUser)
	users.DELETE("/:id", h.User.DeleteUser)

	// Custom card routes, scoped to the caller. Card totals expose the same
	// figures as the reports, so they share the reports' role gate.
	cards := e.Group("/custom-cards", authMiddleware.Authenticate(), accountantUp)
	cards.GET("", h.CustomCard.ListCards)
	cards.POST("", h.CustomCard.CreateCard)
	cards.GET("/evaluate", h.CustomCard.Evaluate)
	cards.PUT("/:id", h.CustomCard.UpdateCard)
	cards.DELETE("/:id", h.CustomCard.DeleteCard)

	inHand := e.Group("/custom-in-hand", authMiddleware.Authenticate(), accountantUp)
	inHand.GET("", h.CustomCard.GetInHand)
	inHand.PUT("", h.CustomCard.SaveInHand)

	// Attachments
	if opts.UploadDir != "" {
		e.Static("/uploads", opts.UploadDir)
	} else if h.Upload != nil {
		e.GET("/uploads/:name", h.Upload.GetUpload)
	}

	if h.WebSocket != nil {
		e.GET("/ws", h.WebSocket.HandleWS)
	}
}
