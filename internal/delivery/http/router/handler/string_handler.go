package handler

import (
	"net/http"

	"stringbox/internal/delivery/http/response"
	"stringbox/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// saveStringRequest is the body of the string save endpoint. Validation of
// the value itself (presence, length, whitespace) lives in the use case.
type saveStringRequest struct {
	String string `json:"string"`
}

// StringHandler holds dependencies for the string store endpoints.
type StringHandler struct {
	uc usecase.StringUsecase
}

// NewStringHandler is the constructor for StringHandler, injected by Fx.
func NewStringHandler(uc usecase.StringUsecase) *StringHandler {
	return &StringHandler{uc: uc}
}

// Save persists the submitted string. The route is gated by the auth
// middleware, so only authenticated callers reach this handler.
func (h *StringHandler) Save(c echo.Context) error {
	var input saveStringRequest
	if err := bindJSON(c, &input); err != nil {
		return err
	}

	output, err := h.uc.Save(c.Request().Context(), usecase.SaveStringInput{Value: input.String})
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusCreated,
		response.NewSavedString("String saved successfully", output.ID))
}

// Random returns one stored string chosen uniformly at random.
func (h *StringHandler) Random(c echo.Context) error {
	output, err := h.uc.Random(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, response.RandomString{RandomString: output.Value})
}
