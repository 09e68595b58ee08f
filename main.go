package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/staffdesk/employee-directory/src/config"
	"github.com/staffdesk/employee-directory/src/database"
	"github.com/staffdesk/employee-directory/src/logging"
	"github.com/staffdesk/employee-directory/src/repositories/postgres"
	"github.com/staffdesk/employee-directory/src/router"
	"github.com/staffdesk/employee-directory/src/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logging
	logging.Setup(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	log.Info().
		Int("port", cfg.Port).
		Str("log_level", cfg.LogLevel).
		Dur("token_ttl", cfg.TokenTTL).
		Msg("starting server")

	if cfg.SecretGenerated {
		log.Warn().Msg("JWT_SECRET not set - using a random secret, tokens will not survive a restart")
	}

	// Initialize database
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := database.New(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	log.Info().Msg("database connected")

	// Initialize Analytics Service
	analyticsService, err := services.NewAnalyticsService(services.AnalyticsConfig{
		PostHogAPIKey: cfg.PostHogAPIKey,
		PostHogHost:   cfg.PostHogHost,
		Enabled:       cfg.PostHogEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize analytics service")
	}
	defer analyticsService.Close()

	if analyticsService.Enabled() {
		log.Info().Str("host", cfg.PostHogHost).Msg("PostHog analytics enabled")
	} else {
		log.Info().Msg("PostHog analytics disabled")
	}

	// Initialize repositories and services
	adminRepo := postgres.NewAdminRepository(db.GetPool())
	employeeRepo := postgres.NewEmployeeRepository(db.GetPool())

	adminService := services.NewAdminService(adminRepo, analyticsService)
	employeeService := services.NewEmployeeService(employeeRepo, analyticsService)

	if cfg.NoticesEnabled() {
		adminService.SetNotifier(services.NewEmailService(services.EmailConfig{
			Domain:    cfg.MailgunDomain,
			APIKey:    cfg.MailgunAPIKey,
			FromEmail: cfg.MailgunFromEmail,
			FromName:  cfg.MailgunFromName,
			Recipient: cfg.SecurityNoticeEmail,
		}))
		log.Info().Str("domain", cfg.MailgunDomain).Msg("Mailgun provisioning notices enabled")
	} else {
		log.Info().Msg("Mailgun not configured - provisioning notices disabled")
	}

	tokenService, err := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize token service")
	}

	// Google Sign-In is optional
	var identityVerifier services.IdentityVerifier
	if cfg.GoogleLoginEnabled() {
		googleVerifier, err := services.NewGoogleVerifier(context.Background(), services.GoogleVerifierConfig{
			ClientID:  cfg.GoogleClientID,
			ClockSkew: cfg.GoogleClockSkew,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Google sign-in")
		}
		identityVerifier = googleVerifier
		log.Info().Dur("clock_skew", cfg.GoogleClockSkew).Msg("Google sign-in enabled")
	} else {
		log.Warn().Msg("GOOGLE_CLIENT_ID not set - Google sign-in disabled")
	}

	authService := services.NewAuthService(adminRepo, adminService, tokenService, identityVerifier, analyticsService)

	// Seed the bootstrap administrator on first run
	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	created, err := adminService.EnsureBootstrapAdmin(ctx, cfg.BootstrapAdminUsername, cfg.BootstrapAdminPassword)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create initial admin user")
	}
	if created {
		log.Warn().
			Str("username", cfg.BootstrapAdminUsername).
			Msg("initial admin user created with the bootstrap password - change it before exposing this service")
	}

	// Create Gin router
	handler, stopRouter := router.New(router.Deps{
		Health:                  db,
		Auth:                    authService,
		Employees:               employeeService,
		AllowedOrigins:          cfg.AllowedOrigins,
		LoginRateLimitPerMinute: cfg.LoginRateLimitPerMinute,
		LoginRateLimitBurst:     cfg.LoginRateLimitBurst,
	})
	defer stopRouter()

	// Create HTTP server with timeouts (G112: protect from Slowloris attack)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Int("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	sig := <-sigChan

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	// Graceful shutdown with timeout
	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server shut down successfully")
}
