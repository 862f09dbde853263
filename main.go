package main

import (
	"context"
	stdlog "log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"marketplace/internal/config"
	"marketplace/internal/handlers"
	"marketplace/internal/logger"
	"marketplace/internal/notifications"
	"marketplace/internal/repositories"
	"marketplace/internal/services"
	"marketplace/internal/storage"
	"marketplace/pkg/rabbitmq"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding})
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := setup(ctx, cfg, log)
	if err != nil {
		log.Fatal("startup failed", zap.Error(err))
	}
	defer cleanup()

	go func() {
		log.Info("starting server",
			zap.String("addr", cfg.AppPort),
			zap.String("database", cfg.DatabaseDriver),
			zap.String("storage", cfg.StorageDriver))
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Error("error during fiber shutdown", zap.Error(err))
	}
	log.Info("server gracefully stopped")
}

// setup builds every dependency named by cfg and returns the app plus a
// function releasing the external connections. On error nothing is left open.
func setup(ctx context.Context, cfg *config.Config, log *zap.Logger) (*fiber.App, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var (
		listingRepo repositories.ListingRepository
		messageRepo repositories.MessageRepository
		dbPing      func(ctx context.Context) error
	)
	if cfg.DatabaseDriver == config.DriverMemory {
		listingRepo = repositories.NewMockListingRepository()
		messageRepo = repositories.NewMockMessageRepository()
	} else {
		db, err := repositories.OpenDatabase(cfg.DatabaseDriver, cfg.DatabaseDSN, log)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { closeDB(db, log) })
		listingRepo = repositories.NewGORMListingRepository(db)
		messageRepo = repositories.NewGORMMessageRepository(db)
		dbPing = func(ctx context.Context) error { return repositories.Ping(ctx, db) }
	}

	var (
		imageStore storage.ImageStore
		memImages  *storage.MemoryStore
	)
	if cfg.StorageDriver == config.DriverMinio {
		minioStore, err := storage.NewMinioStore(ctx, storage.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.StorageBucket,
			UseSSL:    cfg.MinioUseSSL,
			PublicURL: cfg.StoragePublicURL,
		}, log)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		imageStore = minioStore
	} else {
		baseURL := cfg.StoragePublicURL
		if baseURL == "" {
			baseURL = memoryImageBaseURL(cfg.AppPort)
		}
		memImages = storage.NewMemoryStore(baseURL)
		imageStore = memImages
	}

	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, log)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, func() {
			if err := mq.Close(); err != nil {
				log.Warn("rabbitmq close failed", zap.Error(err))
			}
		})
		publisher = mq

		notifier := notifications.NewNotifier(listingRepo, newMailer(cfg, log), log)
		if err := mq.Consume(notifier.HandleDelivery); err != nil {
			cleanup()
			return nil, nil, err
		}
	} else {
		log.Info("RABBITMQ_URL not set, events and seller notifications disabled")
	}

	var verifier services.URLVerifier
	if cfg.VerifyUploads {
		verifier = services.HeadVerifier{Timeout: 5 * time.Second}
	}

	app := handlers.NewApp(handlers.AppDeps{
		Listings:  services.NewListingService(listingRepo, publisher, log),
		Messages:  services.NewMessageService(messageRepo, publisher, log),
		Uploads:   services.NewUploadService(imageStore, verifier, log),
		BodyLimit: cfg.BodyLimitBytes,
		DBPing:    dbPing,
		Images:    memImages,
		Log:       log,
	})
	return app, cleanup, nil
}

func newMailer(cfg *config.Config, log *zap.Logger) notifications.Mailer {
	if !cfg.SMTPEnabled() {
		return notifications.NewLogMailer(log)
	}
	mailer, err := notifications.NewSMTPMailer(notifications.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
	if err != nil {
		log.Warn("SMTP misconfigured, logging notifications instead", zap.Error(err))
		return notifications.NewLogMailer(log)
	}
	return mailer
}

// memoryImageBaseURL is where the in-memory image store's objects are served.
func memoryImageBaseURL(addr string) string {
	host := addr
	if strings.HasPrefix(addr, ":") {
		host = "localhost" + addr
	}
	return "http://" + host + "/images"
}

func closeDB(db *gorm.DB, log *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn("database close failed", zap.Error(err))
	}
}
