package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clearharbor/vaultgate/internal/background"
	"github.com/clearharbor/vaultgate/internal/config"
	"github.com/clearharbor/vaultgate/internal/gscript"
	"github.com/clearharbor/vaultgate/internal/handlers"
	middlewareCustom "github.com/clearharbor/vaultgate/internal/middleware"
	"github.com/clearharbor/vaultgate/internal/ratelimit"
	"github.com/clearharbor/vaultgate/internal/routes"
	"github.com/clearharbor/vaultgate/internal/services"
	pkghttp "github.com/clearharbor/vaultgate/pkg/http"
	pkglogger "github.com/clearharbor/vaultgate/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))
	if cfg.Backend.ScriptURL == "" {
		logger.Warn("GOOGLE_APPS_SCRIPT_URL is not set; backend calls will fail as not configured")
	}

	// Backend client
	scriptClient := gscript.NewClient(cfg.Backend.ScriptURL, logger)

	// Failed-login store: constructed once, shared for the process lifetime
	attemptStore := ratelimit.NewStore(ratelimit.Config{
		MaxAttempts:   cfg.RateLimit.MaxAttempts,
		BlockDuration: cfg.RateLimit.BlockDuration,
	}, logger)

	sweeper := background.NewSweeper(attemptStore, logger, cfg.RateLimit.SweepInterval)

	// Services
	auditLogger := pkglogger.NewAuditLogger(logger)
	verifier := services.NewCredentialVerifier(scriptClient, logger)
	loginService := services.NewLoginService(verifier, scriptClient, scriptClient, attemptStore, logger, auditLogger)
	accessService := services.NewAccessLogService(scriptClient, logger, auditLogger)

	// Handlers
	ipConfig := &pkghttp.IPConfig{TrustedProxies: cfg.Server.TrustedProxies}
	authHandler := handlers.NewAuthHandler(loginService, ipConfig)
	accessHandler := handlers.NewAccessHandler(accessService, ipConfig)
	healthHandler := handlers.NewHealthHandler(scriptClient)

	// CORS policy from configuration
	corsConfig := middlewareCustom.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.Server.AllowedOrigins

	// Router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(corsConfig))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(30 * time.Second))

	routes.RegisterRoutes(router, authHandler, accessHandler, healthHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background sweeper
	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	defer sweepCancel()

	go sweeper.Start(sweepCtx)

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	sweepCancel()
	sweeper.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}
