package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/hris-go-api/internal/config"
	"github.com/noah-isme/hris-go-api/internal/database"
	"github.com/noah-isme/hris-go-api/internal/handler"
	"github.com/noah-isme/hris-go-api/internal/middleware"
	"github.com/noah-isme/hris-go-api/internal/repository"
	"github.com/noah-isme/hris-go-api/internal/router"
	"github.com/noah-isme/hris-go-api/internal/service"
	cloud "github.com/noah-isme/hris-go-api/pkg/cloudinary"
	"github.com/noah-isme/hris-go-api/pkg/mailer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("env", cfg.AppEnv).Logger()

	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(context.Background(), cfg.RedisURL, cfg.AppName)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	var emailSender service.EmailSender
	if cfg.EmailEnabled() {
		m, err := mailer.New(mailer.Config{
			Host:          cfg.SMTPHost,
			Port:          cfg.SMTPPort,
			User:          cfg.SMTPUser,
			Pass:          cfg.SMTPPass,
			From:          cfg.SMTPFrom,
			SkipTLSVerify: cfg.SMTPSkipTLSVerify,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create mailer: %v", err)
		}
		emailSender = m
	}

	var evidenceStorage service.EvidenceStorage
	if cfg.CloudinaryCloudName != "" {
		storage, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create cloudinary client: %v", err)
		}
		evidenceStorage = storage
	} else {
		logger.Warn().Msg("cloudinary not configured, evidence uploads are disabled")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	appraisalRepo := repository.NewAppraisalRepository(db)
	directoryRepo := repository.NewDirectoryRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	directoryService := service.NewDirectoryService(directoryRepo, redisClient, cfg.DirectoryCacheTTL, logger)
	activityService := service.NewActivityService(activityRepo, logger)
	notificationService := service.NewNotificationService(notificationRepo, service.NotificationOptions{
		Redis:       redisClient,
		NATS:        natsConn,
		ChannelBase: cfg.NotificationChannelBase,
		Directory:   directoryService,
		Email:       emailSender,
	}, logger)
	appraisalService := service.NewAppraisalService(
		appraisalRepo,
		directoryService,
		notificationService,
		activityService,
		redisClient,
		service.AppraisalServiceConfig{
			BulkConcurrency: cfg.BulkConcurrency,
			SummaryCacheTTL: cfg.SummaryCacheTTL,
		},
		validate,
		logger,
	)
	evidenceService := service.NewEvidenceService(appraisalRepo, evidenceStorage, activityService, cfg.UploadMaxBytes(), logger)
	seedService := service.NewSeedService(directoryRepo, directoryService, validate, cfg.SeedEnabled, cfg.SeedToken, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	notificationService.Start(ctx)

	probes := map[string]handler.HealthProbe{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if redisClient != nil {
		probes["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    int(cfg.UploadMaxBytes()) + 1024*1024,
	})

	middleware.Register(app, middleware.Config{
		Logger:         &logger,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AccessLog:      cfg.AppEnv == "development",
	})
	router.Register(app, cfg, router.Dependencies{
		AppraisalHandler:    handler.NewAppraisalHandler(appraisalService, evidenceService, logger),
		NotificationHandler: handler.NewNotificationHandler(notificationService, logger, 30*time.Second),
		AuditHandler:        handler.NewAuditHandler(activityService, logger),
		PayrollHandler:      handler.NewPayrollHandler(validate, logger),
		SeedHandler:         handler.NewSeedHandler(seedService, logger),
		HealthProbes:        probes,
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
		WriteRateLimit:      60,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
