package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shiv90154/CarrerPath-sub002/internal/middleware/auth"
	"go.uber.org/zap"
)

type EntitlementHandler struct {
	grantor EntitlementUsecase
	logger  *zap.Logger
}

func NewEntitlementHandler(grantor EntitlementUsecase, logger *zap.Logger) *EntitlementHandler {
	return &EntitlementHandler{
		grantor: grantor,
		logger:  logger,
	}
}

// ListEntitlements returns the caller's entitlements, or another buyer's for admins (?buyer=).
func (h *EntitlementHandler) ListEntitlements(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	list, err := h.grantor.ListEntitlements(c.Request().Context(), user.Actor(), c.QueryParam("buyer"))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, list)
}
