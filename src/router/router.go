// Package router assembles the HTTP routes of the employee directory
package router

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/staffdesk/employee-directory/src/handlers"
	"github.com/staffdesk/employee-directory/src/middleware"
	"github.com/staffdesk/employee-directory/src/services"
)

// Deps are the services the routes are built from
type Deps struct {
	Health    handlers.HealthChecker
	Auth      *services.AuthService
	Employees *services.EmployeeService

	// AllowedOrigins is a comma-separated CORS allow list; empty allows any origin
	AllowedOrigins string

	LoginRateLimitPerMinute int
	LoginRateLimitBurst     int
}

// New creates the Gin engine with middleware and all routes registered.
// stop releases the background work of the login rate limiter.
func New(deps Deps) (engine *gin.Engine, stop func()) {
	router := gin.New()

	// Add middleware
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(deps.AllowedOrigins)))

	healthHandler := handlers.NewHealthHandler(deps.Health)
	authHandler := handlers.NewAuthHandler(deps.Auth)
	employeeHandler := handlers.NewEmployeeHandler(deps.Employees)

	// Health check endpoints
	router.GET("/health", healthHandler.HandleHealth)
	router.GET("/ready", healthHandler.HandleReady)
	router.GET("/info", healthHandler.HandleInfo)

	api := router.Group("/api")

	// Login endpoints with per-IP rate limiting
	loginLimit, stopLoginLimit := middleware.LoginRateLimitMiddleware(deps.LoginRateLimitPerMinute, deps.LoginRateLimitBurst)
	api.POST("/login", loginLimit, authHandler.HandleLogin)
	api.POST("/auth/google", loginLimit, authHandler.HandleGoogleLogin)

	// Employee directory (requires bearer token)
	employees := api.Group("/employees")
	employees.Use(middleware.RequireBearerToken(deps.Auth))
	{
		employees.GET("", employeeHandler.HandleList)
		employees.POST("", employeeHandler.HandleCreate)
		employees.PUT("/:id", employeeHandler.HandleUpdate)
		employees.DELETE("/:id", employeeHandler.HandleDelete)
	}

	return router, stopLoginLimit
}

func corsConfig(allowedOrigins string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}

	origins := splitOrigins(allowedOrigins)
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

func splitOrigins(s string) []string {
	var origins []string
	for _, origin := range strings.Split(s, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
