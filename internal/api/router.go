package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/vedaclinic/booking-api/docs"
	"github.com/vedaclinic/booking-api/internal/api/handler"
	"github.com/vedaclinic/booking-api/internal/api/metrics"
	"github.com/vedaclinic/booking-api/internal/api/middleware"
	"github.com/vedaclinic/booking-api/internal/core/ports"
)

// Deps are the collaborators the HTTP layer is wired against.
type Deps struct {
	Appointments ports.AppointmentService
	Availability ports.AvailabilityChecker
	Directory    ports.Directory
	Auth         ports.IdentityProvider
	Gate         ports.IdentityGate
	Admin        ports.AdminService
	Contact      ports.ContactService
	Health       map[string]handler.CheckFunc

	// RateLimitRPS and RateLimitBurst bound the public write routes per IP.
	RateLimitRPS   float64
	RateLimitBurst int

	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(metrics.Middleware())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(middleware.Identity(d.Gate))

	limiter := middleware.NewRateLimiter(d.RateLimitRPS, d.RateLimitBurst)
	limited := limiter.Middleware()
	requireAuth := middleware.RequireAuth()

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	directoryHandler := handler.NewDirectoryHandler(d.Directory, d.Availability)
	appointmentHandler := handler.NewAppointmentHandler(d.Appointments)
	adminHandler := handler.NewAdminHandler(d.Appointments, d.Admin, d.Contact)
	contactHandler := handler.NewContactHandler(d.Contact)
	healthHandler := handler.NewHealthHandler(d.Health)

	v1 := e.Group("/v1")

	// --- Auth routes ---
	v1.POST("/auth/signup", authHandler.SignUp, limited)
	v1.POST("/auth/signin", authHandler.SignIn, limited)
	v1.POST("/auth/signout", authHandler.SignOut)
	v1.POST("/auth/refresh", authHandler.Refresh)
	v1.GET("/auth/session", authHandler.Session)

	// --- Directory (public) ---
	v1.GET("/practitioners", directoryHandler.Practitioners)
	v1.GET("/practitioners/:id/slots", directoryHandler.OpenSlots)
	v1.GET("/services", directoryHandler.Services)

	// --- Appointments ---
	appts := v1.Group("/appointments", requireAuth)
	appts.POST("", appointmentHandler.Create)
	appts.GET("", appointmentHandler.List)
	appts.GET("/:id", appointmentHandler.Get)
	appts.PATCH("/:id", appointmentHandler.Update)
	appts.POST("/:id/cancel", appointmentHandler.Cancel)
	v1.GET("/users/:id/appointments", appointmentHandler.ListForUser, requireAuth)

	v1.POST("/contact", contactHandler.Submit, limited)

	// --- Admin ---
	admin := v1.Group("/admin", middleware.RequireAdmin())
	admin.GET("/appointments", adminHandler.ListAppointments)
	admin.POST("/appointments", adminHandler.CreateAppointment)
	admin.PUT("/appointments/:id/status", adminHandler.UpdateStatus)
	admin.GET("/dashboard", adminHandler.Dashboard)
	admin.GET("/users", adminHandler.Users)
	admin.POST("/promotions", adminHandler.Promote)
	admin.GET("/contact", adminHandler.ContactMessages)
	admin.POST("/contact/:id/read", adminHandler.MarkContactRead)

	// --- Operational (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
