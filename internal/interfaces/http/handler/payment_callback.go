package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	orderapp "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// XVerifyHeader carries the PhonePe checksum of a callback body
const XVerifyHeader = "X-VERIFY"

// PaymentCallbackService applies gateway callbacks
type PaymentCallbackService interface {
	HandlePaymentCallback(ctx context.Context, xVerify, response string) (*orderapp.OrderResponse, error)
}

// PaymentCallbackHandler receives the gateway's server-to-server callback.
// It is not authenticated; the checksum is the proof of origin.
type PaymentCallbackHandler struct {
	BaseHandler
	payments PaymentCallbackService
}

// NewPaymentCallbackHandler creates a new PaymentCallbackHandler
func NewPaymentCallbackHandler(payments PaymentCallbackService) *PaymentCallbackHandler {
	return &PaymentCallbackHandler{payments: payments}
}

// PaymentCallbackResponse is what the gateway gets back
type PaymentCallbackResponse struct {
	OrderID       string `json:"order_id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

// PhonePe handles POST /payments/phonepe/callback
func (h *PaymentCallbackHandler) PhonePe(c *gin.Context) {
	xVerify := c.GetHeader(XVerifyHeader)
	if xVerify == "" {
		h.ErrorWithCode(c, dto.ErrCodeBadRequest, "Missing "+XVerifyHeader+" header")
		return
	}
	var req orderapp.PaymentCallbackRequest
	if !bindJSON(c, &req) {
		return
	}
	o, err := h.payments.HandlePaymentCallback(c.Request.Context(), xVerify, req.Response)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, PaymentCallbackResponse{
		OrderID:       o.ID.String(),
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
	})
}
