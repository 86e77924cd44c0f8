package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/akila4352/library-service/internal/config"
	"github.com/akila4352/library-service/internal/handlers"
	"github.com/akila4352/library-service/internal/metrics"
	"github.com/akila4352/library-service/internal/repository"
	"github.com/akila4352/library-service/internal/routes"
	"github.com/akila4352/library-service/internal/service"
	"github.com/akila4352/library-service/pkg/database"
	"github.com/akila4352/library-service/pkg/logger"
	"github.com/akila4352/library-service/pkg/mailer"
	"github.com/akila4352/library-service/pkg/redis"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func newServeCommand() *cobra.Command {
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), autoMigrate)
		},
	}
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", true, "migrate the schema before serving")
	return cmd
}

func serve(ctx context.Context, autoMigrate bool) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	if autoMigrate {
		if err := database.Migrate(db); err != nil {
			return err
		}
	}

	redisClient, err := redis.NewClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = redisClient.Close() }()

	sender, err := mailer.NewSMTPSender(mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	})
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metricsCollector := metrics.New(registry)

	hasher, err := service.NewPasswordHasher(cfg.PasswordPepper)
	if err != nil {
		return err
	}
	jwtService, err := service.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry)
	if err != nil {
		return err
	}

	userRepo := repository.NewUserRepository(db)
	bookRepo := repository.NewBookRepository(db)
	loanRepo := repository.NewLoanRepository(db)

	authService := service.NewAuthService(userRepo, hasher, jwtService, metricsCollector)
	otpService := service.NewOTPService(sender, redisClient, cfg.OTPTTL, metricsCollector)
	bookService := service.NewBookService(bookRepo)
	loanService := service.NewLoanService(loanRepo, cfg.LoanPeriod, metricsCollector)

	cookieHelper := handlers.NewCookieHelper(handlers.CookieConfig{
		Domain: cfg.CookieDomain,
		Secure: cfg.CookieSecure,
	})

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	routes.Setup(router, routes.Handlers{
		Auth:  handlers.NewAuthHandler(authService, otpService, cookieHelper, cfg.OTPEchoCode),
		Books: handlers.NewBookHandler(bookService),
		Loans: handlers.NewLoanHandler(loanService),
		Health: handlers.NewHealthHandler(map[string]handlers.HealthCheck{
			"database": func(ctx context.Context) error { return database.Ping(ctx, db) },
			"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		}),
	}, cfg, jwtService, log, metricsCollector, registry)

	if cfg.OTPEchoCode {
		log.Warn("OTP_ECHO_CODE is enabled, send-otp responses expose the code")
	}
	if !cfg.AuthEnforce {
		log.Warn("AUTH_ENFORCE is disabled, admin and loan routes accept anonymous callers")
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting library service", zap.String("port", cfg.Port), zap.String("db_driver", cfg.DBDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
