package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/entity"
	"github.com/shiv90154/CarrerPath-sub002/internal/middleware/auth"
	"go.uber.org/zap"
)

type DecisionHandler struct {
	approvals DecisionUsecase
	logger    *zap.Logger
}

func NewDecisionHandler(approvals DecisionUsecase, logger *zap.Logger) *DecisionHandler {
	return &DecisionHandler{
		approvals: approvals,
		logger:    logger,
	}
}

// DecisionRequest carries the proof the admin reviewed. When proofId is set and
// the buyer has since replaced the proof, the decision is refused.
type DecisionRequest struct {
	Outcome string     `json:"outcome" validate:"required,oneof=approved rejected"`
	Note    string     `json:"note"`
	ProofID *uuid.UUID `json:"proofId"`
}

func (h *DecisionHandler) Decide(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	orderID, err := parseOrderID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	var req DecisionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	order, err := h.approvals.Decide(c.Request().Context(), user.Actor(), orderID, entity.Decision{
		Outcome: req.Outcome,
		Note:    req.Note,
		ProofID: req.ProofID,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}

	h.logger.Info("Order decision recorded",
		zap.String("order_id", order.ID.String()),
		zap.String("admin_id", user.UserID),
		zap.String("outcome", req.Outcome))

	return c.JSON(http.StatusOK, order)
}
