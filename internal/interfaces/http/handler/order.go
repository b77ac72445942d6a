package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	orderapp "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/infrastructure/logger"
)

// CustomerOrderService is the shopper side of the order workflow
type CustomerOrderService interface {
	Create(ctx context.Context, userID uuid.UUID, req orderapp.CreateOrderRequest) (*orderapp.OrderResponse, error)
	Get(ctx context.Context, userID, orderID uuid.UUID) (*orderapp.OrderResponse, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]orderapp.OrderResponse, error)
	Cancel(ctx context.Context, userID, orderID uuid.UUID) (*orderapp.OrderResponse, error)
	InitiatePayment(ctx context.Context, userID, orderID uuid.UUID) (*orderapp.InitiatePaymentResponse, error)
	ConfirmPaymentForUser(ctx context.Context, userID, orderID uuid.UUID, merchantTxnID string) (*orderapp.OrderResponse, error)
	TrackShipment(ctx context.Context, userID, orderID uuid.UUID) (*orderapp.TrackingResponse, error)
	ShippingQuote(ctx context.Context, req orderapp.ShippingQuoteRequest) (*orderapp.ShippingQuoteResponse, error)
}

// OrderHandler serves a shopper's own orders
type OrderHandler struct {
	BaseHandler
	orders CustomerOrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders CustomerOrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Create handles POST /orders
func (h *OrderHandler) Create(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req orderapp.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.orders.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List handles GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	orders, err := h.orders.ListMine(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// Get handles GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	h.withOrder(c, func(ctx context.Context, userID, orderID uuid.UUID) (any, error) {
		return h.orders.Get(ctx, userID, orderID)
	})
}

// Cancel handles POST /orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	h.withOrder(c, func(ctx context.Context, userID, orderID uuid.UUID) (any, error) {
		return h.orders.Cancel(ctx, userID, orderID)
	})
}

// InitiatePayment handles POST /orders/:id/payment
func (h *OrderHandler) InitiatePayment(c *gin.Context) {
	h.withOrder(c, func(ctx context.Context, userID, orderID uuid.UUID) (any, error) {
		return h.orders.InitiatePayment(ctx, userID, orderID)
	})
}

// ConfirmPayment handles POST /orders/:id/payment/confirm. The transaction id
// is optional; the one stored on the order is checked when it is absent.
func (h *OrderHandler) ConfirmPayment(c *gin.Context) {
	var req orderapp.ConfirmPaymentRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	h.withOrder(c, func(ctx context.Context, userID, orderID uuid.UUID) (any, error) {
		return h.orders.ConfirmPaymentForUser(ctx, userID, orderID, req.TransactionID)
	})
}

// Track handles GET /orders/:id/tracking
func (h *OrderHandler) Track(c *gin.Context) {
	h.withOrder(c, func(ctx context.Context, userID, orderID uuid.UUID) (any, error) {
		return h.orders.TrackShipment(ctx, userID, orderID)
	})
}

// ShippingQuote handles GET /shipping/quote
func (h *OrderHandler) ShippingQuote(c *gin.Context) {
	var req orderapp.ShippingQuoteRequest
	if !bindQuery(c, &req) {
		return
	}
	quote, err := h.orders.ShippingQuote(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

func (h *OrderHandler) withOrder(c *gin.Context, fn func(ctx context.Context, userID, orderID uuid.UUID) (any, error)) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	orderID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	c.Request = c.Request.WithContext(logger.WithOrderID(c.Request.Context(), orderID.String()))
	resp, err := fn(c.Request.Context(), userID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
