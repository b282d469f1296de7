// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	"stringbox/internal/domain/entity"
	domainerrors "stringbox/internal/domain/errors"
	"stringbox/internal/domain/repository"
	"stringbox/internal/domain/service"
	"stringbox/internal/infra/metrics"
	"stringbox/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// dummyBcryptHash is a valid bcrypt hash of a random throwaway value. Login
// compares against it when the email is unknown so that the request costs
// one bcrypt verification whether or not the account exists.
const dummyBcryptHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// authService implements the AuthUsecase interface.
type authService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Metrics      *metrics.Metrics
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		metrics:      params.Metrics,
		logger:       params.Logger,
	}
}

// Register creates a new account and returns a full token pair, so the
// client is signed in immediately after registering.
func (srv *authService) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	// Hash outside the transaction; bcrypt is deliberately slow and must not
	// hold a database transaction open.
	passwordHash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	user := &entity.User{
		Email:        input.Email,
		PasswordHash: passwordHash,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.NewUserRepository().Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			srv.metrics.AuthFailure.WithLabelValues(metrics.TypeRegister).Inc()

			return nil, domainerrors.ErrEmailAlreadyRegistered
		}
		srv.logger.Error("Failed to execute registration transaction", slog.String("email", input.Email), slog.Any("error", err))

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to register user")
	}

	accessToken, refreshToken, err := srv.issueTokenPair(user)
	if err != nil {
		return nil, err
	}

	srv.metrics.AuthSuccess.WithLabelValues(metrics.TypeRegister).Inc()
	srv.logger.Info("User registered", slog.String("userID", user.ID.String()))

	return &usecase.RegisterOutput{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Login verifies the credentials and mints a fresh token pair. Unknown email
// and wrong password are indistinguishable to the caller, both in response
// and in timing.
func (srv *authService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Burn a bcrypt comparison so the miss takes as long as a hit.
			srv.hasher.Check(input.Password, dummyBcryptHash)
			srv.metrics.AuthFailure.WithLabelValues(metrics.TypeLogin).Inc()

			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find user for login")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.metrics.AuthFailure.WithLabelValues(metrics.TypeLogin).Inc()

		return nil, domainerrors.ErrInvalidCredentials
	}

	accessToken, refreshToken, err := srv.issueTokenPair(user)
	if err != nil {
		return nil, err
	}

	srv.metrics.AuthSuccess.WithLabelValues(metrics.TypeLogin).Inc()
	srv.logger.Info("User logged in", slog.String("userID", user.ID.String()))

	return &usecase.LoginOutput{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh validates the presented refresh token and mints a new access token.
// The user must still exist: deleting an account invalidates its outstanding
// refresh tokens at the next renewal.
func (srv *authService) Refresh(ctx context.Context, input usecase.RefreshInput) (*usecase.RefreshOutput, error) {
	claims, err := srv.tokenService.DecodeRefreshToken(input.RefreshToken)
	if err != nil {
		srv.metrics.AuthFailure.WithLabelValues(metrics.TypeRefresh).Inc()
		if errors.Is(err, service.ErrTokenExpired) {
			return nil, domainerrors.ErrRefreshTokenExpired
		}

		return nil, domainerrors.ErrRefreshTokenInvalid
	}

	user, err := srv.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.metrics.AuthFailure.WithLabelValues(metrics.TypeRefresh).Inc()

			return nil, domainerrors.ErrUserNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find user for refresh")
	}

	accessToken, err := srv.tokenService.IssueAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue access token")
	}

	srv.metrics.AuthSuccess.WithLabelValues(metrics.TypeRefresh).Inc()

	return &usecase.RefreshOutput{AccessToken: accessToken}, nil
}

func (srv *authService) issueTokenPair(user *entity.User) (accessToken, refreshToken string, err error) {
	accessToken, err = srv.tokenService.IssueAccessToken(user.ID, user.Email)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to issue access token")
	}

	refreshToken, err = srv.tokenService.IssueRefreshToken(user.ID, user.Email)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to issue refresh token")
	}

	return accessToken, refreshToken, nil
}
