package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DRSN-tech/vending-machine/internal/catalog"
	config "github.com/DRSN-tech/vending-machine/internal/cfg"
	"github.com/DRSN-tech/vending-machine/internal/delivery/console"
	v1Grpc "github.com/DRSN-tech/vending-machine/internal/delivery/v1/grpc"
	v1Http "github.com/DRSN-tech/vending-machine/internal/delivery/v1/http"
	"github.com/DRSN-tech/vending-machine/internal/infrastructure/kafka"
	"github.com/DRSN-tech/vending-machine/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/vending-machine/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/vending-machine/internal/repository/redis"
	redisConv "github.com/DRSN-tech/vending-machine/internal/repository/redis/converter"
	"github.com/DRSN-tech/vending-machine/internal/usecase"
	"github.com/DRSN-tech/vending-machine/internal/vault"
	"github.com/DRSN-tech/vending-machine/pkg/clients"
	"github.com/DRSN-tech/vending-machine/pkg/closer"
	"github.com/DRSN-tech/vending-machine/pkg/e"
	"github.com/DRSN-tech/vending-machine/pkg/logger"
	"github.com/DRSN-tech/vending-machine/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	migrationsSource = "file://db/migrations"
	initTimeout      = 10 * time.Second
	topicTimeout     = 10 * time.Second
)

type App struct {
	cfg      *config.Config
	logger   logger.Logger
	closer   *closer.Closer
	machine  *usecase.MachineUseCase
	checkout *usecase.CheckoutUseCase
	outbox   *kafka.OutboxWorker
	in       io.Reader
	out      io.Writer
}

// NewApp собирает автомат и подключает интеграции, включённые в конфигурации.
// При ошибке уже открытые ресурсы закрываются.
func NewApp(cfg *config.Config, logger logger.Logger) (*App, error) {
	a := &App{
		cfg:    cfg,
		logger: logger,
		closer: closer.NewCloser(0),
		in:     os.Stdin,
		out:    os.Stdout,
	}

	if err := a.init(); err != nil {
		a.shutdown()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return a, nil
}

func (a *App) init() error {
	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	journal, err := a.initJournal(ctx)
	if err != nil {
		return err
	}

	idemRepo, err := a.initIdempotency(ctx)
	if err != nil {
		return err
	}

	a.machine = usecase.NewMachineUC(catalog.New(), vault.New(), journal, a.logger)
	a.checkout = usecase.NewCheckoutUC(a.machine, idemRepo, a.logger)

	seed, err := LoadSeed(a.cfg.Machine.SeedFile)
	if err != nil {
		return e.Wrap("failed to load seed", err)
	}
	if err := seed.Apply(a.machine); err != nil {
		return e.Wrap("failed to apply seed", err)
	}

	return nil
}

// initJournal возвращает nil, если Postgres не настроен: продажи тогда не журналируются.
func (a *App) initJournal(ctx context.Context) (usecase.SalesJournal, error) {
	if a.cfg.Db == nil {
		a.logger.Infof("POSTGRES_DB is not set, sales journal disabled")
		return nil, nil
	}

	db, err := postgres.Connect(ctx, a.cfg.Db)
	if err != nil {
		return nil, e.Wrap("failed to connect to database", err)
	}
	a.closer.Add("postgres", func(context.Context) error {
		db.Close()
		return nil
	})

	if err := db.RunMigrations(migrationsSource, a.logger); err != nil {
		return nil, e.Wrap("failed to run migrations", err)
	}

	saleEventRepo := pgdb.NewSaleEventRepo(db.Pool, pgdbConv.NewSaleEventConverter())

	if a.cfg.Kafka != nil {
		producer := kafka.NewProducer(a.logger, a.cfg.Kafka)
		a.closer.Add("kafka producer", producer.Close)

		if err := producer.EnsureTopic(topicTimeout); err != nil {
			return nil, e.Wrap("failed to ensure kafka topic", err)
		}

		a.outbox = kafka.NewOutboxWorker(saleEventRepo, a.logger, producer, db.Dsn, pgdb.SaleEventsChannel)
	}

	return usecase.NewSalesJournalUC(saleEventRepo, db.Pool, a.logger), nil
}

// initIdempotency возвращает nil, если Redis не настроен: ключи идемпотентности тогда игнорируются.
func (a *App) initIdempotency(ctx context.Context) (usecase.IdempotencyRepository, error) {
	if a.cfg.Redis == nil {
		return nil, nil
	}

	redisClient := clients.NewRedisClient(a.cfg.Redis)
	a.closer.Add("redis", redisClient.Close)

	if err := redisClient.Ping(ctx); err != nil {
		return nil, e.Wrap("failed to connect to redis", err)
	}

	return redis.NewIdempotencyRepo(redisClient, redisConv.NewCheckoutConverter(), a.cfg.Redis, a.logger), nil
}

// Run работает до сигнала завершения, конца ввода (консоль) или фатальной ошибки сервера.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.outbox != nil {
		a.outbox.Start(ctx)
		a.closer.Add("outbox worker", a.outbox.Stop)
	}

	var err error
	switch a.cfg.Machine.Mode {
	case config.ModeServer:
		err = a.runServer(ctx)
	default:
		err = console.NewConsole(a.machine, a.in, a.out, a.logger).Run(ctx)
	}

	a.shutdown()
	return err
}

func (a *App) runServer(ctx context.Context) error {
	grpcSrv := v1Grpc.NewGRPCServer(a.cfg.Grpc, a.logger)
	grpcSrv.RegisterServices(a.machine, a.checkout)

	r := chi.NewRouter()
	v1Http.NewRouter(r, a.logger).Init(a.machine, a.checkout)
	httpSrv := v1Http.NewServer(r, a.cfg.Http)

	// Серверы останавливаются первыми, до хранилищ
	a.closer.Add("http server", httpSrv.Stop)
	a.closer.Add("grpc server", grpcSrv.Stop)

	errCh := make(chan error, 2)
	go func() {
		a.logger.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		if err := grpcSrv.Start(); err != nil {
			errCh <- e.Wrap("gRPC server failed", err)
		}
	}()
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- e.Wrap("HTTP server failed", err)
		}
	}()

	select {
	case err := <-errCh:
		a.logger.Errorf(err, "server fatal error")
		return err
	case <-ctx.Done():
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
		return nil
	}
}

func (a *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Machine.ShutdownTimeout)
	defer cancel()

	if err := a.closer.Close(ctx); err != nil {
		a.logger.Errorf(err, "shutdown completed with errors")
		return
	}

	a.logger.Infof("Application shutdown complete")
}
