package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/entity"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/model"
	"github.com/shiv90154/CarrerPath-sub002/internal/middleware/auth"
	"go.uber.org/zap"
)

type OrderHandler struct {
	purchases PurchaseUsecase
	orders    OrderQueryUsecase
	logger    *zap.Logger
}

func NewOrderHandler(purchases PurchaseUsecase, orders OrderQueryUsecase, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		purchases: purchases,
		orders:    orders,
		logger:    logger,
	}
}

// CreateOrderRequest carries no amount: prices always come from the catalog.
type CreateOrderRequest struct {
	ItemType string `json:"itemType" validate:"required,oneof=course testSeries ebook studyMaterial"`
	ItemRef  string `json:"itemRef" validate:"required,max=100"`
}

type ListOrdersRequest struct {
	State string `query:"state" validate:"omitempty,oneof=created pending_proof pending_review approved rejected"`
	Buyer string `query:"buyer" validate:"omitempty,max=100"`
	Page  int    `query:"page" validate:"omitempty,min=1"`
	Limit int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var req CreateOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	h.logger.Info("Creating order",
		zap.String("buyer_id", user.UserID),
		zap.String("item_type", req.ItemType),
		zap.String("item_ref", req.ItemRef))

	result, err := h.purchases.Purchase(c.Request().Context(), user.Actor(), model.ItemType(req.ItemType), req.ItemRef)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusCreated, result)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	orderID, err := parseOrderID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	order, err := h.orders.GetOrder(c.Request().Context(), user.Actor(), orderID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) GetStatus(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	orderID, err := parseOrderID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	status, err := h.purchases.Status(c.Request().Context(), user.Actor(), orderID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, status)
}

// ListOrders serves both a buyer's order history and the admin review queue
// (state=pending_review).
func (h *OrderHandler) ListOrders(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var req ListOrdersRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	filter := entity.OrderFilter{
		BuyerID: req.Buyer,
		State:   model.OrderState(req.State),
	}
	page := entity.PaginationParams{Page: req.Page, Limit: req.Limit}

	result, err := h.orders.ListOrders(c.Request().Context(), user.Actor(), filter, page)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	h.logger.Debug("Listed orders",
		zap.String("user_id", user.UserID),
		zap.String("state", req.State),
		zap.Int("count", len(result.Data)))

	return c.JSON(http.StatusOK, result)
}

func (h *OrderHandler) GetHistory(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	orderID, err := parseOrderID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	history, err := h.orders.History(c.Request().Context(), user.Actor(), orderID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"data": history})
}
