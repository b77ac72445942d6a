package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	cartapp "github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/domain/cart"
)

// CartService is the cart manager
type CartService interface {
	List(ctx context.Context, userID uuid.UUID) (*cartapp.CartResponse, error)
	Summary(ctx context.Context, userID uuid.UUID) (*cart.Summary, error)
	Add(ctx context.Context, userID uuid.UUID, req cartapp.AddItemRequest) (*cartapp.CartResponse, error)
	UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*cartapp.CartResponse, error)
	Remove(ctx context.Context, userID, productID uuid.UUID) (*cartapp.CartResponse, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

// CartHandler serves the signed-in user's cart
type CartHandler struct {
	BaseHandler
	carts CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(carts CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

// List handles GET /cart
func (h *CartHandler) List(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	resp, err := h.carts.List(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Summary handles GET /cart/summary
func (h *CartHandler) Summary(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	summary, err := h.carts.Summary(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req cartapp.AddItemRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.carts.Add(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateItem handles PUT /cart/items/:product_id
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	productID, ok := h.pathUUID(c, "product_id")
	if !ok {
		return
	}
	var req cartapp.UpdateQuantityRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.carts.UpdateQuantity(c.Request.Context(), userID, productID, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveItem handles DELETE /cart/items/:product_id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	productID, ok := h.pathUUID(c, "product_id")
	if !ok {
		return
	}
	resp, err := h.carts.Remove(c.Request.Context(), userID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Clear handles DELETE /cart
func (h *CartHandler) Clear(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	if err := h.carts.Clear(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
