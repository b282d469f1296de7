// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"
	"strings"

	"stringbox/internal/delivery/http/response"
	domainerrors "stringbox/internal/domain/errors"
	"stringbox/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// credentialsRequest is the body of register and login.
type credentialsRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// refreshRequest is the body of the token refresh endpoint.
type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthHandler holds dependencies for the authentication endpoints.
type AuthHandler struct {
	uc usecase.AuthUsecase
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Register handles the account registration request.
func (h *AuthHandler) Register(c echo.Context) error {
	var input credentialsRequest
	if err := bindJSON(c, &input); err != nil {
		return err
	}
	if err := c.Validate(&input); err != nil {
		return credentialsValidationError(err)
	}

	output, err := h.uc.Register(c.Request().Context(), usecase.RegisterInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusCreated,
		response.NewTokenPair("User registered successfully", output.AccessToken, output.RefreshToken))
}

// Login handles the login request.
func (h *AuthHandler) Login(c echo.Context) error {
	var input credentialsRequest
	if err := bindJSON(c, &input); err != nil {
		return err
	}
	if err := c.Validate(&input); err != nil {
		return credentialsValidationError(err)
	}

	output, err := h.uc.Login(c.Request().Context(), usecase.LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK,
		response.NewTokenPair("Login successful", output.AccessToken, output.RefreshToken))
}

// Refresh handles the access token renewal request.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var input refreshRequest
	if err := bindJSON(c, &input); err != nil {
		return err
	}
	if err := c.Validate(&input); err != nil {
		return domainerrors.ErrMissingRefreshToken
	}

	output, err := h.uc.Refresh(c.Request().Context(), usecase.RefreshInput{
		RefreshToken: input.RefreshToken,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK,
		response.NewAccessToken("Token refreshed successfully", output.AccessToken))
}

// bindJSON rejects non-JSON bodies before any validation or storage work,
// then binds the body into dst.
func bindJSON(c echo.Context, dst any) error {
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(contentType, echo.MIMEApplicationJSON) {
		return domainerrors.ErrNotJSON
	}

	if err := c.Bind(dst); err != nil {
		return domainerrors.ErrNotJSON
	}

	return nil
}

// credentialsValidationError maps validation failures on the credentials
// body to the endpoint's client messages.
func credentialsValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, fieldErr := range validationErrs {
			if fieldErr.Field() == "Password" && fieldErr.Tag() == "min" {
				return domainerrors.ErrPasswordTooShort
			}
		}
	}

	return domainerrors.ErrMissingCredentials
}
