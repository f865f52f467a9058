package di

import (
	"database/sql"
	"fmt"

	"klarnasync/internal/adapters/inbound/http/controllers"
	httpRouter "klarnasync/internal/adapters/inbound/http/router"
	configcredentials "klarnasync/internal/adapters/outbound/credentials/config"
	"klarnasync/internal/adapters/outbound/docs"
	klarnahttp "klarnasync/internal/adapters/outbound/klarna/http"
	nooplock "klarnasync/internal/adapters/outbound/lock/noop"
	redislock "klarnasync/internal/adapters/outbound/lock/redis"
	postgresqlacknowledgement "klarnasync/internal/adapters/outbound/persistence/postgresql/acknowledgement"
	postgresqlbootstrap "klarnasync/internal/adapters/outbound/persistence/postgresql/bootstrap"
	postgresqlorder "klarnasync/internal/adapters/outbound/persistence/postgresql/order"
	postgresqlshared "klarnasync/internal/adapters/outbound/persistence/postgresql/shared"
	"klarnasync/internal/application/messages"
	portsin "klarnasync/internal/application/ports/in"
	portsout "klarnasync/internal/application/ports/out"
	"klarnasync/internal/application/use_cases"
	"klarnasync/internal/infrastructure/config"
	"klarnasync/internal/infrastructure/httpserver"
	"klarnasync/internal/infrastructure/reconciler"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Container struct {
	Database                     *sql.DB
	Redis                        goredis.UniversalClient
	Server                       *httpserver.Server
	InitializePersistenceUseCase portsin.InitializePersistenceUseCase
	SyncWorker                   *reconciler.Worker
}

// Close releases the database pool and the Redis client.
func (c Container) Close() error {
	var firstErr error
	if c.Redis != nil {
		firstErr = c.Redis.Close()
	}
	if c.Database != nil {
		if err := c.Database.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

func Build(cfg config.Config, logger *zap.Logger) (Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	databasePool, err := postgresqlshared.NewDatabasePool(cfg.Database.URL, postgresqlshared.PoolConfig{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	}, logger)
	if err != nil {
		return Container{}, fmt.Errorf("open database pool: %w", err)
	}

	credentialResolver, appErr := configcredentials.NewResolver(
		configcredentials.Entry{
			MerchantID: cfg.Klarna.MerchantID,
			Password:   cfg.Klarna.Password,
			Mode:       cfg.Klarna.Mode,
		},
		countryEntries(cfg.Klarna.Countries),
	)
	if appErr != nil {
		_ = databasePool.Close()
		return Container{}, fmt.Errorf("build klarna credentials: %s: %w", appErr.Code, appErr)
	}

	redisClient, orderLocker := buildOrderLocker(cfg.Redis, logger)

	persistenceGateway := postgresqlbootstrap.NewGateway(databasePool, cfg.Database.Target, logger)
	orderRepository := postgresqlorder.NewRepository(databasePool)
	acknowledgementRepository := postgresqlacknowledgement.NewRepository(databasePool)
	klarnaGateway := klarnahttp.NewGateway(klarnahttp.Config{
		Timeout:   cfg.Klarna.HTTPTimeout,
		BaseURL:   cfg.Klarna.BaseURL,
		UserAgent: cfg.Klarna.UserAgent,
	}, credentialResolver, logger.Named("klarna"))

	orderReconciler := use_cases.NewOrderReconciler(
		orderRepository,
		klarnaGateway,
		credentialResolver,
		cfg.Klarna.DefaultCountryISO,
	)

	healthUseCase := use_cases.NewGetHealthUseCase(persistenceGateway)
	openAPIUseCase := use_cases.NewGetOpenAPISpecUseCase(docs.NewFileOpenAPISpecReadModel(cfg.OpenAPISpecPath))
	initializePersistenceUseCase := use_cases.NewInitializePersistenceUseCase(persistenceGateway)
	acknowledgeUseCase := use_cases.NewAcknowledgeOrderUseCase(
		orderRepository,
		acknowledgementRepository,
		klarnaGateway,
		cfg.Klarna.DefaultCountryISO,
		use_cases.NewSystemClock(),
	)
	syncUseCase := use_cases.NewSyncKlarnaOrdersUseCase(orderRepository, orderReconciler, orderLocker)
	syncWorker := reconciler.NewWorker(
		true,
		cfg.Sync.PollInterval,
		cfg.Sync.BatchSize,
		syncUseCase,
		logger.Named("sync"),
	)

	healthController := controllers.NewHealthController(healthUseCase, logger)
	swaggerController := controllers.NewSwaggerController(openAPIUseCase, logger)
	ordersController := controllers.NewOrdersController(controllers.OrderUseCases{
		Overview: use_cases.NewGetOrderOverviewUseCase(orderRepository, orderReconciler),
		Details:  use_cases.NewGetKlarnaOrderDetailsUseCase(orderRepository, orderReconciler, cfg.DisplayLocation()),
		Capture:  use_cases.NewCaptureOrderUseCase(orderRepository, klarnaGateway, orderReconciler, orderLocker),
		Refund:   use_cases.NewRefundOrderUseCase(orderRepository, klarnaGateway, orderReconciler, orderLocker),
		Cancel:   use_cases.NewCancelOrderUseCase(orderRepository, klarnaGateway, orderReconciler, orderLocker),
	}, messages.NewCatalog(), logger)
	acknowledgeController := controllers.NewAcknowledgeController(acknowledgeUseCase, logger)

	router := httpRouter.New(httpRouter.Dependencies{
		HealthController:      healthController,
		SwaggerController:     swaggerController,
		OrdersController:      ordersController,
		AcknowledgeController: acknowledgeController,
	})

	server := httpserver.New(cfg.Address(), router, logger)

	return Container{
		Database:                     databasePool,
		Redis:                        redisClient,
		Server:                       server,
		InitializePersistenceUseCase: initializePersistenceUseCase,
		SyncWorker:                   syncWorker,
	}, nil
}

func buildOrderLocker(cfg config.RedisConfig, logger *zap.Logger) (goredis.UniversalClient, portsout.OrderLocker) {
	if !cfg.Enabled() {
		logger.Info("redis not configured, order locks disabled")
		return nil, nooplock.Locker{}
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return client, redislock.NewLocker(client, redislock.Config{
		TTL:       cfg.LockTTL,
		KeyPrefix: cfg.LockKeyPrefix,
	}, logger.Named("lock"))
}

func countryEntries(countries map[string]config.KlarnaCredentials) map[string]configcredentials.Entry {
	entries := make(map[string]configcredentials.Entry, len(countries))
	for countryISO, credentials := range countries {
		entries[countryISO] = configcredentials.Entry(credentials)
	}

	return entries
}
