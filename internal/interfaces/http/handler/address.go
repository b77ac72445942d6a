package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	customerapp "github.com/storefront/backend/internal/application/customer"
)

// AddressService is the address book
type AddressService interface {
	List(ctx context.Context, userID uuid.UUID) ([]customerapp.AddressResponse, error)
	Create(ctx context.Context, userID uuid.UUID, req customerapp.AddressRequest) (*customerapp.AddressResponse, error)
	Update(ctx context.Context, userID, id uuid.UUID, req customerapp.AddressRequest) (*customerapp.AddressResponse, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	SetDefault(ctx context.Context, userID, id uuid.UUID) ([]customerapp.AddressResponse, error)
}

// AddressHandler serves the signed-in user's address book
type AddressHandler struct {
	BaseHandler
	addresses AddressService
}

// NewAddressHandler creates a new AddressHandler
func NewAddressHandler(addresses AddressService) *AddressHandler {
	return &AddressHandler{addresses: addresses}
}

// List handles GET /addresses
func (h *AddressHandler) List(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	list, err := h.addresses.List(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// Create handles POST /addresses
func (h *AddressHandler) Create(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req customerapp.AddressRequest
	if !bindJSON(c, &req) {
		return
	}
	addr, err := h.addresses.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, addr)
}

// Update handles PUT /addresses/:id
func (h *AddressHandler) Update(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req customerapp.AddressRequest
	if !bindJSON(c, &req) {
		return
	}
	addr, err := h.addresses.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, addr)
}

// Delete handles DELETE /addresses/:id
func (h *AddressHandler) Delete(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.addresses.Delete(c.Request.Context(), userID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SetDefault handles POST /addresses/:id/default
func (h *AddressHandler) SetDefault(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	list, err := h.addresses.SetDefault(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}
