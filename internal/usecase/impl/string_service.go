package impl

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"

	"stringbox/internal/domain/entity"
	domainerrors "stringbox/internal/domain/errors"
	"stringbox/internal/domain/repository"
	"stringbox/internal/infra/metrics"
	"stringbox/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// stringService implements the StringUsecase interface.
type stringService struct {
	txManager  repository.TransactionManager
	stringRepo repository.StringRepository
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// StringServiceParams holds dependencies for stringService, injected by Fx.
type StringServiceParams struct {
	fx.In

	TxManager  repository.TransactionManager
	StringRepo repository.StringRepository
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
}

// NewStringService is the constructor for stringService.
func NewStringService(params StringServiceParams) usecase.StringUsecase {
	return &stringService{
		txManager:  params.TxManager,
		stringRepo: params.StringRepo,
		metrics:    params.Metrics,
		logger:     params.Logger,
	}
}

// Save validates and persists a string, returning its generated ID.
// Length is counted in bytes, the same unit the maximum is defined in.
func (srv *stringService) Save(ctx context.Context, input usecase.SaveStringInput) (*usecase.SaveStringOutput, error) {
	if input.Value == "" {
		return nil, domainerrors.ErrNoStringProvided
	}
	if len(input.Value) > entity.StoredStringMaxLength {
		return nil, domainerrors.ErrStringTooLong
	}
	if strings.TrimSpace(input.Value) == "" {
		return nil, domainerrors.ErrStringWhitespace
	}

	stored := &entity.StoredString{Value: input.Value}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.NewStringRepository().Insert(ctx, stored)
	})
	if err != nil {
		srv.logger.Error("Failed to execute string save transaction", slog.Any("error", err))

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to save string")
	}

	srv.metrics.StringsSaved.Inc()
	srv.logger.Debug("String saved", slog.Int64("id", stored.ID))

	return &usecase.SaveStringOutput{ID: stored.ID}, nil
}

// Random returns one stored string chosen uniformly. Count and offset run as
// two queries; if a concurrent insert shifts things in between, the offset
// still lands on a valid row because rows are never deleted.
func (srv *stringService) Random(ctx context.Context) (*usecase.RandomStringOutput, error) {
	count, err := srv.stringRepo.Count(ctx)
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to count strings")
	}
	if count == 0 {
		return nil, domainerrors.ErrNoStringsFound
	}

	stored, err := srv.stringRepo.FindByOffset(ctx, rand.Int64N(count))
	if err != nil {
		if errors.Is(err, repository.ErrStringNotFound) {
			return nil, domainerrors.ErrNoStringsFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to fetch random string")
	}

	srv.metrics.StringsRetrieved.Inc()

	return &usecase.RandomStringOutput{Value: stored.Value}, nil
}
