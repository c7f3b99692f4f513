package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"nemora-backend/internal/models"
	"nemora-backend/internal/store"
)

const createdAtLayout = "2006-01-02T15:04:05.000Z"

// idAttempts bounds retries when a freshly generated id is already taken.
const idAttempts = 3

// OrderNotifier schedules notifications for a stored order without blocking.
type OrderNotifier interface {
	Enqueue(order *models.Order) error
}

type OrdersHandler struct {
	store     *store.Store
	notifier  OrderNotifier
	publicURL string
	logger    *zap.Logger
	now       func() time.Time
}

func NewOrdersHandler(s *store.Store, notifier OrderNotifier, publicURL string, logger *zap.Logger) *OrdersHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrdersHandler{
		store:     s,
		notifier:  notifier,
		publicURL: publicURL,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateOrder godoc
// @Summary     Create a new order
// @Description Persists an order for a previously uploaded design and notifies the shop in the background.
// @Tags        orders
// @Accept      json
// @Produce     json
// @Param       request body models.CreateOrderRequest true "Order"
// @Success     200 {object} models.CreateOrderResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /orders [post]
func (h *OrdersHandler) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Details == nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Missing order data"})
		return
	}

	base := publicBase(c, h.publicURL)
	var order *models.Order
	for attempt := 0; attempt < idAttempts; attempt++ {
		now := h.now()
		id, err := store.NewOrderID(now)
		if err != nil {
			h.logger.Error("failed to generate order id", zap.Error(err))
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to save order"})
			return
		}

		order = &models.Order{
			ID:        id,
			FileURL:   req.FileURL,
			FileName:  req.FileName,
			Details:   *req.Details,
			OrderURL:  base + "/orders/" + id,
			CreatedAt: now.UTC().Format(createdAtLayout),
		}
		err = h.store.CreateOrder(order)
		if err == nil {
			break
		}
		if errors.Is(err, store.ErrOrderExists) && attempt < idAttempts-1 {
			continue
		}
		h.logger.Error("failed to persist order", zap.String("order_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to save order"})
		return
	}

	h.logger.Info("order stored", zap.String("order_id", order.ID))
	c.JSON(http.StatusOK, models.CreateOrderResponse{ID: order.ID, URL: order.OrderURL})

	if h.notifier != nil {
		if err := h.notifier.Enqueue(order); err != nil {
			h.logger.Warn("order notifications not scheduled", zap.String("order_id", order.ID), zap.Error(err))
		}
	}
}

// GetOrderPage godoc
// @Summary     Order page
// @Description Renders a stored order as an HTML page.
// @Tags        orders
// @Produce     html
// @Param       id path string true "Order ID"
// @Success     200 {string} string "HTML page"
// @Failure     404 {string} string "Order not found"
// @Router      /orders/{id} [get]
func (h *OrdersHandler) GetOrderPage(c *gin.Context) {
	order, err := h.store.GetOrder(c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrOrderNotFound) {
			c.String(http.StatusNotFound, "Order not found")
			return
		}
		h.logger.Error("failed to load order", zap.String("order_id", c.Param("id")), zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to load order")
		return
	}

	page, err := renderOrderPage(order)
	if err != nil {
		h.logger.Error("failed to render order page", zap.String("order_id", order.ID), zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to render order")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// ListOrders godoc
// @Summary     List orders
// @Description Lists every stored order, newest first.
// @Tags        admin
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.OrderListResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /admin/orders [get]
func (h *OrdersHandler) ListOrders(c *gin.Context) {
	orders, err := h.store.ListOrders()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list orders",
			Message: err.Error(),
		})
		return
	}

	summaries := make([]models.OrderSummary, len(orders))
	for i, o := range orders {
		summaries[i] = models.OrderSummary{
			ID:        o.ID,
			Name:      o.Details.Name,
			BrandName: o.Details.BrandName,
			FileURL:   o.FileURL,
			OrderURL:  o.OrderURL,
			CreatedAt: o.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, models.OrderListResponse{Orders: summaries})
}
