package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/pricing-engine/internal/cfg"
	v1Grpc "github.com/DRSN-tech/pricing-engine/internal/delivery/v1/grpc"
	v1Http "github.com/DRSN-tech/pricing-engine/internal/delivery/v1/http"
	"github.com/DRSN-tech/pricing-engine/internal/infrastructure/kafka"
	minioInfra "github.com/DRSN-tech/pricing-engine/internal/infrastructure/minio"
	"github.com/DRSN-tech/pricing-engine/internal/pricing"
	s3Repo "github.com/DRSN-tech/pricing-engine/internal/repository/minio"
	"github.com/DRSN-tech/pricing-engine/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/pricing-engine/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/pricing-engine/internal/repository/redis"
	redisConv "github.com/DRSN-tech/pricing-engine/internal/repository/redis/converter"
	"github.com/DRSN-tech/pricing-engine/internal/usecase"
	"github.com/DRSN-tech/pricing-engine/pkg/clients"
	"github.com/DRSN-tech/pricing-engine/pkg/clock"
	"github.com/DRSN-tech/pricing-engine/pkg/closer"
	"github.com/DRSN-tech/pricing-engine/pkg/e"
	"github.com/DRSN-tech/pricing-engine/pkg/logger"
	"github.com/DRSN-tech/pricing-engine/pkg/postgres"
	"github.com/DRSN-tech/pricing-engine/pkg/tr"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jimlawless/whereami"
)

const (
	shutdownTimeout    = 15 * time.Second
	forcedCloseTimeout = 3 * time.Second
	outboxStaleAfter   = 5 * time.Minute
	topicEnsureTimeout = 10 * time.Second
	dependencyTimeout  = 10 * time.Second
)

// App держит собранный граф зависимостей и порядок их остановки.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer

	httpSrv *v1Http.Server
	grpcSrv *v1Grpc.GRPCServer
	worker  *kafka.OutboxWorker

	bgCtx    context.Context
	bgCancel context.CancelFunc
}

// NewApp подключается к внешним системам и собирает use case. При ошибке уже открытые
// ресурсы закрываются.
func NewApp(cfg *config.Config, logger logger.Logger) (*App, error) {
	bgCtx, bgCancel := context.WithCancel(context.Background())

	a := &App{
		cfg:      cfg,
		logger:   logger,
		closer:   closer.NewCloser(forcedCloseTimeout),
		bgCtx:    bgCtx,
		bgCancel: bgCancel,
	}
	a.closer.Add("background context", func(context.Context) error {
		a.bgCancel()
		return nil
	})

	if err := a.init(); err != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if cErr := a.closer.Close(ctx); cErr != nil {
			logger.Warnf("cleanup after failed start: %v", cErr)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return a, nil
}

func (a *App) init() error {
	cfg, logger := a.cfg, a.logger

	db, err := initPGDB(logger, cfg)
	if err != nil {
		return err
	}
	a.closer.Add("postgres", func(context.Context) error {
		db.Close()
		return nil
	})

	productRepo := pgdb.NewProductRepo(db.Pool, pgdbConv.NewProductConverterImpl())
	historyRepo := pgdb.NewPriceHistoryRepo(db.Pool, pgdbConv.NewPriceHistoryConverterImpl())
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, pgdbConv.NewOutboxEventConverterImpl(), outboxStaleAfter)
	txManager := tr.NewManager(db.Pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})

	redisClient := clients.NewRedisClient(cfg.Redis)
	a.closer.Add("redis", func(context.Context) error {
		return redisClient.Close()
	})
	redisCtx, redisCancel := context.WithTimeout(context.Background(), dependencyTimeout)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		return e.Wrap("failed to connect to redis", err)
	}
	cacheRepo := redis.NewCacheRepo(redisClient, redisConv.NewLatestPriceConverterImpl(), cfg.Redis, logger)

	minioClient, err := clients.NewMinIOClient(cfg.Minio)
	if err != nil {
		return e.Wrap("failed to initialize minio client", err)
	}
	minioCtx, minioCancel := context.WithTimeout(context.Background(), dependencyTimeout)
	defer minioCancel()
	if err := clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName); err != nil {
		return e.Wrap("failed to initialize MinIO bucket", err)
	}
	calcLogRepo := s3Repo.NewCalcLogRepo(minioClient, cfg.Minio)
	archiver := minioInfra.NewMinioInfrastructure(calcLogRepo, cfg.Minio, logger, a.bgCtx)
	a.closer.Add("calculation log archive", archiver.WaitForFlush)

	producer, err := kafka.NewProducer(logger, cfg.Kafka)
	if err != nil {
		return e.Wrap("failed to initialize kafka producer", err)
	}
	a.closer.Add("kafka producer", func(context.Context) error {
		return producer.Close()
	})
	if err := producer.EnsureTopic(topicEnsureTimeout); err != nil {
		logger.Warnf("kafka topic %s was not ensured, relying on broker auto-create: %v", cfg.Kafka.Topic, err)
	}

	a.worker = kafka.NewOutboxWorker(outboxRepo, logger, producer, db.Dsn)
	a.closer.Add("outbox worker", func(context.Context) error {
		a.worker.Stop()
		return nil
	})

	engine := pricing.NewEngine(pricing.NewDefaultDispatcher())
	pricingUC := usecase.NewPricingUC(
		engine,
		productRepo,
		historyRepo,
		outboxRepo,
		cacheRepo,
		archiver,
		txManager,
		clock.NewRealClock(cfg.Pricing.Location),
		cfg.Pricing,
		logger,
	)

	a.grpcSrv = v1Grpc.NewGRPCServer(cfg.Grpc, logger)
	a.grpcSrv.RegisterServices(pricingUC)
	a.closer.Add("grpc server", a.grpcSrv.Stop)

	r := chi.NewRouter()
	v1Http.NewRouter(r, logger).Init(pricingUC)
	a.httpSrv = v1Http.NewServer(r, cfg.Http)
	a.closer.Add("http server", a.httpSrv.Stop)

	return nil
}

// Run запускает серверы и воркер outbox и блокируется до сигнала остановки
// или падения одного из серверов.
func (a *App) Run() error {
	a.worker.Start(a.bgCtx)

	errCh := make(chan error, 2)
	go func() {
		a.logger.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		if err := a.grpcSrv.Start(); err != nil {
			errCh <- e.Wrap("gRPC server failed", err)
		}
	}()

	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- e.Wrap("HTTP server failed", err)
		}
	}()

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown ===
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.closer.Close(ctx); err != nil {
		a.logger.Errorf(err, "shutdown finished with errors")
		if appErr == nil {
			appErr = err
		}
	}

	a.logger.Infof("Application shutdown complete")
	return appErr
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		db.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		logger.Errorf(err, "failed to ping database")
		db.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
