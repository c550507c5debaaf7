package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"outrexo/internal/ai"
	"outrexo/internal/auth"
	"outrexo/internal/config"
	"outrexo/internal/crypto"
	"outrexo/internal/db"
	"outrexo/internal/handler"
	"outrexo/internal/mailer"
	"outrexo/internal/metrics"
	"outrexo/internal/router"
	"outrexo/internal/service"
)

// Run initializes and starts the application
func Run() error {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	logrus.Info("Starting Outrexo outreach service")

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	dbConn, err := db.Init(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	m := metrics.NewMetrics()

	cipher, err := crypto.New(cfg.Encryption.Key)
	if err != nil {
		return fmt.Errorf("failed to initialize encryption: %w", err)
	}

	gmailChannel := mailer.NewGmailChannel(&cfg.Google, dbConn)
	smtpChannel := mailer.NewSMTPChannel()
	sender := mailer.NewSender(dbConn, gmailChannel, smtpChannel, cipher, cfg.Sender.AllowSMTPFallback)

	users := service.NewUserService(dbConn, cfg.Auth.BcryptCost)
	templates := service.NewTemplateService(dbConn)
	campaigns := service.NewCampaignService(dbConn)
	email := service.NewEmailService(dbConn, sender, m)
	runner := service.NewRunner(dbConn, email, m, cfg.Sender.MinDelay, cfg.Sender.MaxDelay)
	stats := service.NewStatsService(dbConn)
	reconciler := service.NewReconciler(dbConn, 5*time.Minute)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	google := auth.NewGoogleFlow(&cfg.Google)
	copywriter := ai.NewCopywriter(&cfg.OpenRouter)

	h := handler.NewHandlers(dbConn, users, templates, campaigns, email, runner, stats, tokens, google, copywriter, smtpChannel, cipher, m)
	r := router.SetupRouter(h)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	if err := reconciler.Start(); err != nil {
		return fmt.Errorf("failed to start reconciler: %w", err)
	}

	go func() {
		logrus.Infof("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	reconciler.Stop()
	runner.Shutdown()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("HTTP server shutdown error: %v", err)
	}

	logrus.Info("Server stopped gracefully")
	return nil
}
