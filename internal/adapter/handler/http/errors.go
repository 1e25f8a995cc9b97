package http

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	customErr "github.com/shiv90154/CarrerPath-sub002/internal/domain/errors"
	pkgerrors "github.com/shiv90154/CarrerPath-sub002/pkg/errors"
	"go.uber.org/zap"
)

// respondError writes err as an ErrorResponse. Causes of server errors are
// logged but never sent.
func respondError(c echo.Context, logger *zap.Logger, err error) error {
	pkgerrors.LogRequestError(logger, err, "Request failed",
		zap.String("method", c.Request().Method),
		zap.String("path", c.Path()))
	httpErr := pkgerrors.ToHTTPError(err)
	return c.JSON(httpErr.Code, pkgerrors.ToErrorResponse(httpErr))
}

// bindAndValidate binds the request into req and runs its validate tags.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return customErr.NewInvalidArgumentError("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return customErr.NewInvalidArgumentError(validationMessage(err))
	}
	return nil
}

func parseOrderID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, customErr.NewInvalidArgumentError("order id must be a UUID")
	}
	return id, nil
}
