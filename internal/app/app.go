package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/vindenez/Matplaner-backend/internal/catalog"
	"github.com/vindenez/Matplaner-backend/internal/config"
	"github.com/vindenez/Matplaner-backend/internal/event"
	handler "github.com/vindenez/Matplaner-backend/internal/handler/http"
	"github.com/vindenez/Matplaner-backend/internal/ingest"
	"github.com/vindenez/Matplaner-backend/internal/repository"
	repopg "github.com/vindenez/Matplaner-backend/internal/repository/postgres"
	reporedis "github.com/vindenez/Matplaner-backend/internal/repository/redis"
	"github.com/vindenez/Matplaner-backend/internal/service"
	"github.com/vindenez/Matplaner-backend/pkg/database"
	"github.com/vindenez/Matplaner-backend/pkg/health"
	"github.com/vindenez/Matplaner-backend/pkg/httpclient"
	pkgkafka "github.com/vindenez/Matplaner-backend/pkg/kafka"
	"github.com/vindenez/Matplaner-backend/pkg/tracing"
)

// App wires together all dependencies and runs the Matplaner backend.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	pool            *pgxpool.Pool
	redisClient     *redis.Client
	producer        *pkgkafka.Producer
	consumer        *pkgkafka.Consumer
	productService  *service.ProductService
	scheduler       *cron.Cron
	httpServer      *http.Server
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Tracing.
	traceCfg := tracing.DefaultConfig("matplaner-backend")
	traceCfg.Environment = cfg.Environment
	traceCfg.OTLPEndpoint = cfg.OTLPEndpoint
	traceCfg.Enabled = cfg.TracingEnabled
	tracingShutdown, err := tracing.InitTracer(ctx, traceCfg)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	// PostgreSQL connection pool.
	pgCfg := database.DefaultPostgresConfig()
	pgCfg.Host = cfg.PostgresHost
	pgCfg.Port = cfg.PostgresPort
	pgCfg.User = cfg.PostgresUser
	pgCfg.Password = cfg.PostgresPass
	pgCfg.DBName = cfg.PostgresDB
	pgCfg.SSLMode = cfg.PostgresSSL

	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)

	// Redis product cache. The service degrades to database-only reads
	// when Redis is unreachable.
	var (
		redisClient *redis.Client
		cache       *reporedis.ProductCache
	)
	redisCfg := database.RedisConfig{Host: cfg.RedisHost, Port: cfg.RedisPort, DB: cfg.RedisDB}
	redisClient, err = database.NewRedisClient(ctx, redisCfg)
	if err != nil {
		logger.Warn("redis unavailable, product cache disabled",
			slog.String("addr", redisCfg.Addr()),
			slog.String("error", err.Error()),
		)
		redisClient = nil
	} else {
		cache = reporedis.NewProductCache(redisClient, reporedis.DefaultTTL)
		logger.Info("connected to Redis", slog.String("addr", redisCfg.Addr()))
	}

	// Kafka producer for catalog events.
	producer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	instanceID := uuid.New().String()
	publisher := event.NewPublisher(producer, instanceID)

	// Build the dependency graph.
	repo := repopg.NewProductRepository(pool)
	holder := catalog.NewHolder()

	// A typed nil must not reach the service as a non-nil interface.
	var cacheIface repository.ProductCache
	if cache != nil {
		cacheIface = cache
	}
	svc := service.NewProductService(repo, cacheIface, holder, publisher, logger)

	// Initial snapshot. Serving an empty catalog is better than not starting;
	// the scheduled ingestion or a peer event fills it in.
	if _, err := svc.ReloadSnapshot(ctx); err != nil {
		logger.Warn("initial catalog load failed, starting with empty snapshot",
			slog.String("error", err.Error()),
		)
	}

	// Kafka consumer so peer-triggered reloads reach this instance. Each
	// instance uses its own consumer group to get every event.
	catalogConsumer := event.NewCatalogConsumer(svc, instanceID, logger)
	consumer := pkgkafka.NewConsumer(pkgkafka.ConsumerConfig{
		Brokers:  cfg.KafkaBrokers,
		GroupID:  fmt.Sprintf("%s-%s", cfg.KafkaConsumerGroup, instanceID),
		Topic:    event.TopicCatalogRefreshed,
		MinBytes: 1,
		MaxBytes: 1 << 20,
	}, catalogConsumer.Handle, logger)

	// Scheduled catalog ingestion from the price feed.
	scheduler := cron.New()
	if cfg.IngestEnabled && cfg.FeedToken != "" {
		feedClient := ingest.NewClient(
			httpclient.NewCircuitBreakerClient(
				httpclient.New(httpclient.DefaultConfig()),
				httpclient.DefaultCircuitBreakerConfig("price-feed"),
				logger,
			),
			ingest.FeedConfig{
				BaseURL:  cfg.FeedBaseURL,
				Token:    cfg.FeedToken,
				PageSize: cfg.FeedPageSize,
			},
		)
		ingestor := ingest.NewIngestor(feedClient, repo, cacheIface, svc, cfg.FeedMaxPages, logger)
		if _, err := ingestor.Schedule(context.Background(), scheduler, cfg.IngestSchedule); err != nil {
			return nil, fmt.Errorf("schedule catalog ingestion: %w", err)
		}
		logger.Info("catalog ingestion scheduled", slog.String("spec", cfg.IngestSchedule))
	} else {
		logger.Info("catalog ingestion disabled")
	}

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if redisClient != nil {
		healthHandler.Register("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return pkgkafka.PingBrokers(ctx, cfg.KafkaBrokers)
	})

	// HTTP router.
	router := handler.NewRouter(svc, healthHandler, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		pool:            pool,
		redisClient:     redisClient,
		producer:        producer,
		consumer:        consumer,
		productService:  svc,
		scheduler:       scheduler,
		httpServer:      httpServer,
		tracingShutdown: tracingShutdown,
	}, nil
}

// Run starts the HTTP server, event consumer and scheduler, and blocks
// until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	consumerCtx, cancelConsumer := context.WithCancel(ctx)
	defer cancelConsumer()
	go func() {
		if err := a.consumer.Start(consumerCtx); err != nil {
			a.logger.Error("catalog event consumer stopped", slog.String("error", err.Error()))
		}
	}()

	a.scheduler.Start()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	cronCtx := a.scheduler.Stop()
	select {
	case <-cronCtx.Done():
	case <-shutdownCtx.Done():
		a.logger.Warn("timed out waiting for scheduled jobs")
	}

	if err := a.consumer.Close(); err != nil {
		a.logger.Error("kafka consumer close error", slog.String("error", err.Error()))
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	a.pool.Close()

	if err := a.tracingShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
