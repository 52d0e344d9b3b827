package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"eventpages/config"
	"eventpages/internal/adapters/analytics"
	"eventpages/internal/adapters/auth"
	"eventpages/internal/adapters/email"
	"eventpages/internal/adapters/ratelimit"
	"eventpages/internal/adapters/storage"
	delivery "eventpages/internal/delivery/http"
	"eventpages/internal/delivery/http/controllers"
	"eventpages/internal/delivery/http/middleware"
	"eventpages/internal/domain"
	"eventpages/internal/repository/postgres"
	"eventpages/internal/services"
	"eventpages/internal/templates"
	"eventpages/migrations"
)

const (
	serviceTimeout    = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
	outboxInterval    = 30 * time.Second
	outboxBatchSize   = 25
	rateLimitRequests = 60
	rateLimitWindow   = time.Minute
)

// @title Event Pages API
// @version 1.0
// @description Event landing pages with versioned page configs, invitations, and RSVP.
// @BasePath /
func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	if err := runMigrations(db); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	codeRepo := postgres.NewLoginCodeRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	versionRepo := postgres.NewPageVersionRepository(db)
	assetRepo := postgres.NewMediaAssetRepository(db)
	invitationRepo := postgres.NewInvitationRepository(db)
	previewRepo := postgres.NewPreviewTokenRepository(db)
	outboxRepo := postgres.NewEmailOutboxRepository(db)

	// Adapters
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.SESRegion,
			AccessKeyID:        cfg.Email.SESAccessKeyID,
			SecretAccessKey:    cfg.Email.SESSecretAccessKey,
			InsecureSkipVerify: cfg.Email.InsecureSkipVerify,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "error", err)
		os.Exit(1)
	}
	objectStore, err := storage.NewObjectStorage(storage.StoreConfig{
		Provider: cfg.Storage.Provider,
		S3: storage.S3Config{
			Bucket:          cfg.Storage.Bucket,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			PublicBaseURL:   cfg.Storage.PublicBaseURL,
		},
	})
	if err != nil {
		logger.Error("failed to create object storage", "error", err)
		os.Exit(1)
	}
	renderer := email.NewTemplateRenderer()
	issuer := auth.NewJWTIssuer(cfg.JWTSecret)
	verifier := auth.NewJWTVerifier(cfg.JWTSecret)
	hasher := auth.NewBcryptCodeHasher(bcrypt.DefaultCost)
	limiter := ratelimit.NewRedisLimiter(rdb, rateLimitRequests, rateLimitWindow)
	viewCounter := analytics.NewRedisCounter(rdb)
	registry := templates.NewRegistry()

	// Services
	emailService := services.NewEmailService(outboxRepo, mailer, renderer, serviceTimeout)
	userService := services.NewUserService(userRepo, codeRepo, hasher, issuer, emailService, serviceTimeout)
	eventService := services.NewEventService(eventRepo, registry, serviceTimeout)
	pageService := services.NewPageService(eventRepo, versionRepo, assetRepo, previewRepo, registry, viewCounter, serviceTimeout)
	invitationService := services.NewInvitationService(invitationRepo, eventRepo, userRepo, emailService, cfg.BaseURL, serviceTimeout)
	assetService := services.NewAssetService(assetRepo, eventRepo, objectStore, serviceTimeout)
	analyticsService := services.NewAnalyticsService(eventRepo, viewCounter, serviceTimeout)

	mux := delivery.NewRouter(delivery.RouterConfig{
		Logger:      logger,
		Verifier:    verifier,
		Limiter:     limiter,
		Auth:        controllers.NewAuthController(logger, userService),
		Users:       controllers.NewUserController(logger, userService),
		Events:      controllers.NewEventController(logger, eventService),
		Pages:       controllers.NewPageController(logger, pageService),
		Invitations: controllers.NewInvitationController(logger, invitationService),
		Assets:      controllers.NewAssetController(logger, assetService),
		Analytics:   controllers.NewAnalyticsController(logger, analyticsService),
		Public:      controllers.NewPublicController(logger, pageService, invitationService),
	})

	allowedOrigins := []string{cfg.BaseURL}
	if cfg.Environment != "production" {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://localhost:5173")
	}
	handler := middleware.LoggingMiddleware(logger, middleware.CORS(allowedOrigins, mux))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go drainOutbox(ctx, logger, emailService)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}
}

// runMigrations applies the embedded schema migrations against the
// connected database. A database already at the latest version is not an
// error.
func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migration setup: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// drainOutbox periodically sends queued emails until the context ends.
func drainOutbox(ctx context.Context, logger *slog.Logger, emails domain.EmailService) {
	ticker := time.NewTicker(outboxInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sent, err := emails.ProcessOutbox(ctx, outboxBatchSize)
			if err != nil {
				logger.Warn("outbox processing failed", "error", err)
				continue
			}
			if sent > 0 {
				logger.Info("outbox processed", "sent", sent)
			}
		}
	}
}
