// Package routes defines HTTP routes for the library service.
package routes

import (
	"github.com/akila4352/library-service/internal/config"
	"github.com/akila4352/library-service/internal/handlers"
	"github.com/akila4352/library-service/internal/metrics"
	"github.com/akila4352/library-service/internal/middleware"
	"github.com/akila4352/library-service/internal/models"
	"github.com/akila4352/library-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Auth   *handlers.AuthHandler
	Books  *handlers.BookHandler
	Loans  *handlers.LoanHandler
	Health *handlers.HealthHandler
}

// Setup configures all HTTP routes for the application.
func Setup(router *gin.Engine, h Handlers, cfg *config.Config, jwtService service.JWTService, log *zap.Logger, metricsCollector *metrics.Metrics, gatherer prometheus.Gatherer) {
	router.Use(middleware.RequestLogger(log))
	router.Use(metricsCollector.Middleware())
	router.Use(middleware.Origins(middleware.OriginConfig{AllowedOrigins: cfg.AllowedOrigins}))

	// Pass-through guards unless enforcement is switched on
	requireUser := func(c *gin.Context) { c.Next() }
	requireAdmin := requireUser
	if cfg.AuthEnforce {
		requireUser = middleware.RequireAuth(jwtService)
		requireAdmin = middleware.RequireAuth(jwtService, models.UserTypeAdmin)
	}

	router.GET("/health", h.Health.Check)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	auth := router.Group("/api/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/logout", h.Auth.Logout)
		auth.POST("/send-otp", h.Auth.SendOTP)
		auth.POST("/verify-otp", h.Auth.VerifyOTP)
	}

	books := router.Group("/api/books")
	{
		books.GET("", h.Books.List)
		books.GET("/:id", h.Books.Get)
		books.POST("", requireAdmin, h.Books.Create)
		books.DELETE("/:id", requireAdmin, h.Books.Delete)
	}

	router.POST("/api/borrow-book", requireUser, h.Loans.Borrow)
	router.POST("/borrow-book", requireUser, h.Loans.Borrow)
	router.GET("/borrowed-books", requireUser, h.Loans.ListByUser)

	loans := router.Group("/api/borrowedbooks", requireAdmin)
	{
		loans.GET("", h.Loans.ListAll)
		loans.PUT("/:id", h.Loans.UpdateStatus)
	}
}
