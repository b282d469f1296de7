package main

import (
	"context"
	"log/slog"
	"os"

	"stringbox/config"
	"stringbox/internal/delivery"
	"stringbox/internal/delivery/http"
	"stringbox/internal/delivery/http/middleware"
	"stringbox/internal/delivery/http/router/handler"
	"stringbox/internal/domain/repository"
	"stringbox/internal/infra/auth"
	logs "stringbox/internal/infra/log"
	"stringbox/internal/infra/metrics"
	"stringbox/internal/infra/persistence/memory"
	"stringbox/internal/infra/persistence/postgres"
	"stringbox/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		metrics.NewDefault,
	)
}

// storageOut bundles the persistence interfaces a backend must provide.
type storageOut struct {
	fx.Out

	TxManager     repository.TransactionManager
	UserRepo      repository.UserRepository
	StringRepo    repository.StringRepository
	HealthChecker repository.HealthChecker
}

// newStorage selects the persistence backend from configuration: the
// in-memory store for development and testing, PostgreSQL otherwise.
func newStorage(cfg *config.Config, logger *slog.Logger, lc fx.Lifecycle) (storageOut, error) {
	if cfg.Storage.Backend == config.StorageMemory {
		logger.Warn("Using in-memory storage, state is lost on restart")
		store := memory.NewStore()

		return storageOut{
			TxManager:     memory.NewTransactionManager(store),
			UserRepo:      memory.NewUserRepository(store),
			StringRepo:    memory.NewStringRepository(store),
			HealthChecker: store,
		}, nil
	}

	db, err := postgres.New(cfg, logger, lc)
	if err != nil {
		return storageOut{}, err
	}
	checker, err := postgres.NewHealthChecker(db)
	if err != nil {
		return storageOut{}, err
	}

	return storageOut{
		TxManager:     postgres.NewTransactionManager(db),
		UserRepo:      postgres.NewUserRepository(db),
		StringRepo:    postgres.NewStringRepository(db),
		HealthChecker: checker,
	}, nil
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			newStorage,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAuthService,
			impl.NewStringService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
			middleware.NewMetricsMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewStringHandler,
			handler.NewHealthHandler,
			handler.NewDocsHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
