package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/jmadden452/SlotLink/config"
	appmodel "github.com/jmadden452/SlotLink/internal/app/model"
	apprepository "github.com/jmadden452/SlotLink/internal/app/repository"
	appserver "github.com/jmadden452/SlotLink/internal/app/server"
	appservice "github.com/jmadden452/SlotLink/internal/app/service"
	"github.com/jmadden452/SlotLink/internal/infra/logger"
	infraNATS "github.com/jmadden452/SlotLink/internal/infra/nats"
	infraPostgres "github.com/jmadden452/SlotLink/internal/infra/postgres"
	infraPrometheus "github.com/jmadden452/SlotLink/internal/infra/prometheus"
	infraRedis "github.com/jmadden452/SlotLink/internal/infra/redis"
	"go.uber.org/zap"
)

const defaultNotifyPendingTTL = 5 * time.Minute

func main() {
	ctx := context.Background()

	isDev := os.Getenv("APP_ENV") != "production"
	log := logger.MustInit(logger.Config{
		Development: isDev,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	log.Info("Configuration loaded successfully",
		zap.String("postgres_user", cfg.Postgres.User),
		zap.String("postgres_host", cfg.Postgres.Host),
		zap.Int("postgres_port", cfg.Postgres.Port),
		zap.String("postgres_db", cfg.Postgres.Database),
		zap.String("redis_host", cfg.Redis.Host),
		zap.Int("redis_port", cfg.Redis.Port),
		zap.String("nats_host", cfg.NATS.Host),
		zap.Int("nats_port", cfg.NATS.Port),
	)

	gormDB, err := infraPostgres.NewGorm(cfg.Postgres)
	if err != nil {
		log.Fatal("Failed to open GORM connection", zap.Error(err))
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatal("Failed to access underlying SQL DB", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := infraPostgres.AutoMigrate(ctx, gormDB,
		&appmodel.Advisor{},
		&appmodel.TimeWindow{},
		&appmodel.SchedulingLink{},
		&appmodel.Meeting{},
		&appmodel.BookingEvent{},
	); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}

	pool, err := infraPostgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal("Failed to connect to Postgres", zap.Error(err))
	}
	defer pool.Close()

	log.Info("Connected to Postgres successfully")

	redisClient, err := infraRedis.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	log.Info("Connected to Redis successfully")

	natsConn, js, err := infraNATS.Connect(cfg.NATS)
	if err != nil {
		log.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer natsConn.Drain()
	log.Info("Connected to NATS successfully", zap.Bool("jetstream_ready", js != nil))

	if !isDev {
		promServer := infraPrometheus.NewServer(cfg.Prometheus)
		go func() {
			log.Info("Starting Prometheus metrics server",
				zap.Int("port", cfg.Prometheus.Port))
			if err := promServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Prometheus metrics server stopped unexpectedly", zap.Error(err))
			}
		}()
		defer func() {
			if err := promServer.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Warn("Failed to close Prometheus server", zap.Error(err))
			}
		}()
	} else {
		log.Info("Skipping Prometheus metrics server in development mode")
	}

	advisorRepo := apprepository.NewAdvisorRepository(gormDB)
	windowRepo := apprepository.NewWindowRepository(gormDB)
	linkRepo := apprepository.NewLinkRepository(gormDB)
	meetingRepo := apprepository.NewMeetingRepository(gormDB)
	eventRepo := apprepository.NewBookingEventRepository(gormDB)

	tokenFilter := appservice.NewTokenFilter()
	slotCache := appservice.NewSlotCache(redisClient, log)

	advisorService := appservice.NewAdvisorService(advisorRepo)
	windowService := appservice.NewWindowService(windowRepo)
	linkService := appservice.NewLinkService(linkRepo, advisorRepo, tokenFilter)
	if err := linkService.SeedTokenFilter(ctx); err != nil {
		log.Fatal("Failed to seed link token filter", zap.Error(err))
	}

	availabilityService := appservice.NewAvailabilityService(appservice.AvailabilityDeps{
		Links:    linkRepo,
		Windows:  windowRepo,
		Meetings: meetingRepo,
		Advisors: advisorRepo,
		Tokens:   tokenFilter,
		Cache:    slotCache,
		Logger:   log,
	})

	publisher := appservice.NewBookingPublisher(js)
	bookingService := appservice.NewBookingService(appservice.BookingDeps{
		Links:     linkRepo,
		Meetings:  meetingRepo,
		Advisors:  advisorRepo,
		Publisher: publisher,
		Cache:     slotCache,
		Logger:    log,
	})

	// Enrichment sources are registered here when configured; the pipeline
	// with no sources resolves to "no enrichment" for every booking.
	enrichment := appservice.NewEnrichmentPipeline(log)

	consumer := appservice.NewNotifyConsumer(js, log, eventRepo, appservice.NewLogNotifier(log))
	if err := consumer.Start(); err != nil {
		log.Fatal("Failed to start notification consumer", zap.Error(err))
	}

	pendingTTL := defaultNotifyPendingTTL
	if cfg.Notify.PendingTTL != "" {
		if ttl, err := time.ParseDuration(cfg.Notify.PendingTTL); err == nil {
			pendingTTL = ttl
		}
	}
	timeoutChecker := appservice.NewNotifyTimeoutChecker(log, eventRepo, pendingTTL)
	timeoutChecker.Start()
	defer timeoutChecker.Stop()

	server := appserver.New(appserver.Dependencies{
		Logger:       log,
		Postgres:     pool,
		Redis:        redisClient,
		Advisors:     advisorService,
		Windows:      windowService,
		Links:        linkService,
		Availability: availabilityService,
		Bookings:     bookingService,
		Enrichment:   enrichment,
		Secret:       []byte(cfg.Identity.Secret),
	})

	addr := cfg.Server.Addr
	if addr == "" {
		addr = ":8080"
	}
	if err := server.Listen(addr); err != nil {
		log.Fatal("Fiber server exited", zap.Error(err))
	}
}
