package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/fitforge/fitforge-backend/internal/http/handlers"
	httpMW "github.com/fitforge/fitforge-backend/internal/http/middleware"
)

type RouterConfig struct {
	ServiceName string

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware

	LedgerHandler       *httpH.LedgerHandler
	TopupHandler        *httpH.TopupHandler
	CoachHandler        *httpH.CoachHandler
	BookingHandler      *httpH.BookingHandler
	PricingHandler      *httpH.PricingHandler
	CoachRequestHandler *httpH.CoachRequestHandler
	CourseHandler       *httpH.CourseHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "fitforge"
	}
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachRequestContext())
	r.Use(httpMW.CORS())

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.LedgerHandler != nil {
			protected.GET("/me/balance", cfg.LedgerHandler.GetBalance)
			protected.GET("/me/transactions", cfg.LedgerHandler.GetTransactions)
		}

		if cfg.TopupHandler != nil {
			protected.GET("/topups/packages", cfg.TopupHandler.ListPackages)
			protected.POST("/topups", cfg.TopupHandler.Purchase)
		}

		if cfg.CoachHandler != nil {
			protected.GET("/coaches", cfg.CoachHandler.List)
			protected.GET("/coaches/:slug", cfg.CoachHandler.GetBySlug)
		}

		if cfg.BookingHandler != nil {
			protected.POST("/bookings", cfg.BookingHandler.Create)
			protected.GET("/bookings", cfg.BookingHandler.List)
			protected.POST("/bookings/:id/cancel", cfg.BookingHandler.Cancel)
		}

		if cfg.PricingHandler != nil {
			protected.GET("/pricing/coach-request", cfg.PricingHandler.QuoteCoachRequest)
			protected.POST("/pricing/course", cfg.PricingHandler.QuoteCourse)
		}

		if cfg.CoachRequestHandler != nil {
			protected.POST("/coach-requests", cfg.CoachRequestHandler.Submit)
			protected.GET("/coach-requests", cfg.CoachRequestHandler.List)
			protected.GET("/coach-requests/:id", cfg.CoachRequestHandler.GetStatus)
		}

		if cfg.CourseHandler != nil {
			protected.POST("/courses/generate", cfg.CourseHandler.Generate)
			protected.GET("/courses", cfg.CourseHandler.List)
			protected.GET("/courses/:id", cfg.CourseHandler.Get)
			protected.POST("/courses/:id/regenerate-day", cfg.CourseHandler.RegenerateDay)
			protected.POST("/courses/:id/regenerate-week", cfg.CourseHandler.RegenerateWeek)
		}
	}

	return r
}
