package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	orderapp "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/application/storefront"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// ViewSelector resolves a navigation against a session
type ViewSelector interface {
	Navigate(ctx context.Context, sess *storefront.Session, nav storefront.Navigation) (*storefront.Screen, error)
}

// SessionHandler exposes the storefront session: one Session is built per
// request from the bearer token and the services behind it.
type SessionHandler struct {
	BaseHandler
	carts     storefront.CartManager
	orders    storefront.OrderManager
	navigator ViewSelector
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(carts storefront.CartManager, orders storefront.OrderManager, navigator ViewSelector) *SessionHandler {
	return &SessionHandler{
		carts:     carts,
		orders:    orders,
		navigator: navigator,
	}
}

// ConfirmSessionPaymentRequest confirms payment for one of the shopper's orders
type ConfirmSessionPaymentRequest struct {
	OrderID       uuid.UUID `json:"order_id" binding:"required"`
	TransactionID string    `json:"transaction_id" binding:"max=64"`
}

// SessionStateResponse is the refreshed session
type SessionStateResponse struct {
	Result   storefront.Result   `json:"result"`
	Snapshot storefront.Snapshot `json:"snapshot"`
}

func (h *SessionHandler) session(c *gin.Context) *storefront.Session {
	var viewer *storefront.Viewer
	if claims := middleware.GetJWTClaims(c); claims != nil {
		if id, err := claims.UserUUID(); err == nil {
			viewer = &storefront.Viewer{ID: id, Email: claims.Email, Role: claims.Role}
		}
	}
	return storefront.NewSession(viewer, h.carts, h.orders, logger.FromContext(c.Request.Context()))
}

// State handles GET /session
func (h *SessionHandler) State(c *gin.Context) {
	sess := h.session(c)
	result := sess.Refresh(c.Request.Context())
	h.Success(c, SessionStateResponse{Result: result, Snapshot: sess.Snapshot()})
}

// Navigate handles POST /session/navigate
func (h *SessionHandler) Navigate(c *gin.Context) {
	var nav storefront.Navigation
	if !bindJSON(c, &nav) {
		return
	}
	screen, err := h.navigator.Navigate(c.Request.Context(), h.session(c), nav)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, screen)
}

// Checkout handles POST /session/checkout. A placed order whose payment
// could not be started is still answered with 201 and the order, with the
// failure carried in the result.
func (h *SessionHandler) Checkout(c *gin.Context) {
	var req orderapp.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	result := h.session(c).Checkout(c.Request.Context(), req)
	if !result.Success && result.Order == nil {
		h.resultError(c, result.Result)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(result))
}

// ConfirmPayment handles POST /session/payment/confirm
func (h *SessionHandler) ConfirmPayment(c *gin.Context) {
	var req ConfirmSessionPaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	sess := h.session(c)
	result := sess.ConfirmPayment(c.Request.Context(), req.OrderID, req.TransactionID)
	if !result.Success {
		h.resultError(c, result)
		return
	}
	h.Success(c, SessionStateResponse{Result: result, Snapshot: sess.Snapshot()})
}

func (h *SessionHandler) resultError(c *gin.Context, r storefront.Result) {
	code := r.Code
	if code == "" {
		code = dto.ErrCodeInternal
	}
	h.ErrorWithCode(c, code, r.Message)
}
