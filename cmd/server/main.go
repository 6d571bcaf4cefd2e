// @title Conference Central API
// @version 1.0
// @description Conference and session management API with seat inventory, wishlists, and derived announcement caches.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"conferencecentral/config"
	_ "conferencecentral/docs"
	authadapter "conferencecentral/internal/adapters/auth"
	"conferencecentral/internal/adapters/cache"
	"conferencecentral/internal/adapters/email"
	"conferencecentral/internal/adapters/tasks"
	httpdelivery "conferencecentral/internal/delivery/http"
	"conferencecentral/internal/delivery/http/controllers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
	"conferencecentral/internal/repository/postgres"
	"conferencecentral/internal/services"
)

const (
	serviceTimeout  = 5 * time.Second
	shutdownTimeout = 10 * time.Second
	taskQueueSize   = 64
	taskWorkers     = 4
	bcryptCost      = 12
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logger := config.NewLogger()
	slog.SetDefault(logger)

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	pingCtx, cancel := context.WithTimeout(context.Background(), serviceTimeout)
	if err := db.PingContext(pingCtx); err != nil {
		cancel()
		logger.Error("ping database", "err", err)
		os.Exit(1)
	}
	cancel()

	var cacheStore domain.Cache
	if cfg.RedisAddr != "" {
		cacheStore, err = cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Error("connect redis", "addr", cfg.RedisAddr, "err", err)
			os.Exit(1)
		}
		logger.Info("using redis cache", "addr", cfg.RedisAddr)
	} else {
		cacheStore = cache.NewMemoryCache()
		logger.Info("using in-memory cache")
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.MailerProvider,
		FromAddress: cfg.MailFromAddress,
		FromName:    cfg.MailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretAccessKey,
		},
	})
	if err != nil {
		logger.Error("create mailer", "err", err)
		os.Exit(1)
	}

	// Repositories
	confRepo := postgres.NewConferenceRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	registrationRepo := postgres.NewRegistrationRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	speakerRepo := postgres.NewSpeakerRepository(db)
	userRepo := postgres.NewUserRepository(db)

	// Background task queue
	queue := tasks.NewQueue(logger, taskQueueSize)

	// Services
	emailSvc := services.NewEmailService(mailer, email.NewTemplateRenderer())
	summarySvc := services.NewSummaryService(confRepo, sessionRepo, cacheStore, serviceTimeout)
	confSvc := services.NewConferenceService(confRepo, profileRepo, userRepo, queue, serviceTimeout)
	attendeeSvc := services.NewAttendeeService(registrationRepo, confRepo, profileRepo, queue)
	sessionSvc := services.NewSessionService(sessionRepo, confRepo, speakerRepo, queue, serviceTimeout)
	speakerSvc := services.NewSpeakerService(speakerRepo, serviceTimeout)
	profileSvc := services.NewProfileService(profileRepo, sessionRepo, userRepo, serviceTimeout)
	authSvc := services.NewAuthService(userRepo, authadapter.NewBcryptHasher(bcryptCost), authadapter.NewJWTIssuer(cfg.JWTSecret))

	queue.Register(domain.TaskSendConfirmationEmail, func(ctx context.Context, params map[string]string) error {
		return emailSvc.SendConferenceConfirmation(ctx, &domain.ConferenceConfirmationEmailData{
			Email:          params["email"],
			OrganizerName:  params["organizer_name"],
			ConferenceName: params["conference_name"],
			City:           params["city"],
		})
	})
	queue.Register(domain.TaskRecomputeAnnouncement, func(ctx context.Context, params map[string]string) error {
		_, err := summarySvc.RecomputeAnnouncement(ctx)
		return err
	})
	queue.Register(domain.TaskRecomputeFeaturedSpeaker, func(ctx context.Context, params map[string]string) error {
		return summarySvc.RecomputeFeaturedSpeaker(ctx, params["conference_id"], params["speaker"])
	})
	queue.Start(taskWorkers)
	defer queue.Stop()

	// Delivery
	verifier := authadapter.NewJWTVerifier(cfg.JWTSecret)
	mux := httpdelivery.NewRouter(
		logger,
		verifier,
		controllers.NewAuthController(logger, authSvc),
		controllers.NewConferenceController(logger, confSvc, attendeeSvc, summarySvc),
		controllers.NewSessionController(logger, sessionSvc, summarySvc),
		controllers.NewSpeakerController(logger, speakerSvc),
		controllers.NewProfileController(logger, profileSvc),
	)
	handler := middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "err", err)
		}
	}
}
