package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	adminapp "github.com/storefront/backend/internal/application/admin"
	identityapp "github.com/storefront/backend/internal/application/identity"
	orderapp "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// BackOfficeService serves the dashboard and order search
type BackOfficeService interface {
	Dashboard(ctx context.Context) (*adminapp.DashboardResponse, error)
	Orders(ctx context.Context, f adminapp.OrderListFilter) (*adminapp.OrderListResponse, error)
}

// FulfilmentService is the admin side of the order workflow
type FulfilmentService interface {
	GetByID(ctx context.Context, orderID uuid.UUID) (*orderapp.OrderResponse, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, req orderapp.UpdateStatusRequest) (*orderapp.OrderResponse, error)
	CreateShipment(ctx context.Context, orderID uuid.UUID) (*orderapp.OrderResponse, error)
	CancelShipment(ctx context.Context, orderID uuid.UUID) (*orderapp.CancelShipmentResponse, error)
	TrackShipmentByID(ctx context.Context, orderID uuid.UUID) (*orderapp.TrackingResponse, error)
	Refund(ctx context.Context, orderID uuid.UUID) (*orderapp.RefundResponse, error)
}

// UserAdminService lists users and changes roles
type UserAdminService interface {
	List(ctx context.Context, f identityapp.UserListFilter) (*identityapp.UserListResponse, error)
	SetRole(ctx context.Context, actorID, userID uuid.UUID, req identityapp.SetRoleRequest) (*identityapp.ProfileResponse, error)
}

// AdminHandler serves the back office. Routes are mounted behind RequireAdmin.
type AdminHandler struct {
	BaseHandler
	backOffice BackOfficeService
	orders     FulfilmentService
	users      UserAdminService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(backOffice BackOfficeService, orders FulfilmentService, users UserAdminService) *AdminHandler {
	return &AdminHandler{
		backOffice: backOffice,
		orders:     orders,
		users:      users,
	}
}

// Dashboard handles GET /admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	resp, err := h.backOffice.Dashboard(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListOrders handles GET /admin/orders
func (h *AdminHandler) ListOrders(c *gin.Context) {
	var filter adminapp.OrderListFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.backOffice.Orders(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetOrder handles GET /admin/orders/:id
func (h *AdminHandler) GetOrder(c *gin.Context) {
	h.onOrder(c, func(ctx context.Context, id uuid.UUID) (any, error) {
		return h.orders.GetByID(ctx, id)
	})
}

// UpdateOrderStatus handles PUT /admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	var req orderapp.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	h.onOrder(c, func(ctx context.Context, id uuid.UUID) (any, error) {
		return h.orders.UpdateStatus(ctx, id, req)
	})
}

// CreateShipment handles POST /admin/orders/:id/shipment
func (h *AdminHandler) CreateShipment(c *gin.Context) {
	h.onOrder(c, func(ctx context.Context, id uuid.UUID) (any, error) {
		return h.orders.CreateShipment(ctx, id)
	})
}

// CancelShipment handles DELETE /admin/orders/:id/shipment
func (h *AdminHandler) CancelShipment(c *gin.Context) {
	h.onOrder(c, func(ctx context.Context, id uuid.UUID) (any, error) {
		return h.orders.CancelShipment(ctx, id)
	})
}

// TrackShipment handles GET /admin/orders/:id/tracking
func (h *AdminHandler) TrackShipment(c *gin.Context) {
	h.onOrder(c, func(ctx context.Context, id uuid.UUID) (any, error) {
		return h.orders.TrackShipmentByID(ctx, id)
	})
}

// Refund handles POST /admin/orders/:id/refund
func (h *AdminHandler) Refund(c *gin.Context) {
	h.onOrder(c, func(ctx context.Context, id uuid.UUID) (any, error) {
		return h.orders.Refund(ctx, id)
	})
}

// ListUsers handles GET /admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var filter identityapp.UserListFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.users.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetUserRole handles PUT /admin/users/:id/role
func (h *AdminHandler) SetUserRole(c *gin.Context) {
	userID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req identityapp.SetRoleRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.users.SetRole(c.Request.Context(), middleware.GetUserID(c), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *AdminHandler) onOrder(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (any, error)) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	c.Request = c.Request.WithContext(logger.WithOrderID(c.Request.Context(), id.String()))
	resp, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
