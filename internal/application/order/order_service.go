package order

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// OrderService runs the order workflow: checkout, payment, shipment and status changes.
// The payment and shipment gateways are optional; operations needing a missing
// gateway fail with GATEWAY_NOT_CONFIGURED.
type OrderService struct {
	orders      order.Repository
	carts       cart.Repository
	addresses   customer.AddressRepository
	pricing     order.PricingPolicy
	payments    order.PaymentGateway
	shipments   order.ShipmentGateway
	idempotency shared.IdempotencyStore
	callbackTTL time.Duration
	origin      string
	logger      *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orders order.Repository,
	carts cart.Repository,
	addresses customer.AddressRepository,
	pricing order.PricingPolicy,
	logger *zap.Logger,
) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orders:      orders,
		carts:       carts,
		addresses:   addresses,
		pricing:     pricing,
		callbackTTL: shared.DefaultIdempotencyConfig().TTL,
		logger:      logger,
	}
}

// SetPaymentGateway sets the online payment provider
func (s *OrderService) SetPaymentGateway(gw order.PaymentGateway) {
	s.payments = gw
}

// SetShipmentGateway sets the courier
func (s *OrderService) SetShipmentGateway(gw order.ShipmentGateway) {
	s.shipments = gw
}

// SetIdempotencyStore enables deduplication of payment callbacks
func (s *OrderService) SetIdempotencyStore(store shared.IdempotencyStore, ttl time.Duration) {
	s.idempotency = store
	if ttl > 0 {
		s.callbackTTL = ttl
	}
}

// SetOriginPincode sets the warehouse pincode used for shipping quotes
func (s *OrderService) SetOriginPincode(pincode string) {
	s.origin = pincode
}

// Create turns the user's cart into a pending order priced at current catalog prices
func (s *OrderService) Create(ctx context.Context, userID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "create")
	defer span.End()

	if userID == uuid.Nil {
		return nil, shared.ErrAuthRequired
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrUserID, userID.String())

	method := order.PaymentMethod(req.PaymentMethod)
	if !method.IsValid() {
		return nil, shared.NewValidationError("Unsupported payment method: %q", req.PaymentMethod)
	}

	items, err := s.carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to load cart")
	}
	if len(items) == 0 {
		return nil, shared.NewValidationError("Cart is empty")
	}

	lines := make([]order.Line, 0, len(items))
	for _, item := range items {
		if item.Product == nil {
			return nil, shared.NewValidationError("A product in your cart is no longer available")
		}
		if !item.Product.IsPurchasable() {
			return nil, shared.NewValidationError("%s is no longer available", item.Product.Name)
		}
		lines = append(lines, order.Line{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Product: order.ProductSnapshot{
				Name:          item.Product.Name,
				Images:        append([]string(nil), item.Product.Images...),
				Price:         item.Product.Price,
				OriginalPrice: item.Product.OriginalPrice,
			},
		})
	}

	address, err := s.resolveAddress(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	o, err := order.NewOrder(userID, lines, address, method, s.pricing)
	if err != nil {
		return nil, err
	}
	o.Notes = req.Notes

	if err := s.orders.Create(ctx, o); err != nil {
		telemetry.RecordError(span, err)
		return nil, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to place order")
	}

	if err := s.carts.Clear(ctx, userID); err != nil {
		s.logger.Warn("Failed to clear cart after checkout",
			zap.String("user_id", userID.String()),
			zap.String("order_id", o.ID.String()),
			zap.Error(err))
	}

	s.logger.Info("Order placed",
		zap.String("order_id", o.ID.String()),
		zap.String("order_number", o.OrderNumber),
		zap.String("total", o.TotalAmount.StringFixed(2)),
		zap.String("payment_method", method.String()))
	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, o.ID.String(),
		telemetry.SpanAttrAmount, o.TotalAmount.String(),
	)
	telemetry.SetOK(span)

	resp := ToOrderResponse(o)
	return &resp, nil
}

func (s *OrderService) resolveAddress(ctx context.Context, userID uuid.UUID, req CreateOrderRequest) (valueobject.ShippingAddress, error) {
	if req.AddressID != nil {
		saved, err := s.addresses.FindByID(ctx, userID, *req.AddressID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return valueobject.ShippingAddress{}, shared.NewValidationError("Shipping address not found")
			}
			return valueobject.ShippingAddress{}, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to load address")
		}
		return saved.Location, nil
	}
	if req.ShippingAddress != nil {
		return req.ShippingAddress.ToValue(), nil
	}
	return valueobject.ShippingAddress{}, nil
}

// Get returns one of the user's orders. Orders of other users are reported as not found.
func (s *OrderService) Get(ctx context.Context, userID, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.findForUser(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// GetByID returns any order; admin only
func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// ListMine returns the user's orders with items, newest first
func (s *OrderService) ListMine(ctx context.Context, userID uuid.UUID) ([]OrderResponse, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrAuthRequired
	}
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to load orders")
	}
	return ToOrderResponses(orders), nil
}

// Cancel cancels one of the user's orders while it is pending or confirmed
func (s *OrderService) Cancel(ctx context.Context, userID, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.findForUser(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if err := o.Cancel(); err != nil {
		return nil, err
	}
	if err := s.save(ctx, o); err != nil {
		return nil, err
	}
	s.logger.Info("Order cancelled by customer", zap.String("order_id", o.ID.String()))
	resp := ToOrderResponse(o)
	return &resp, nil
}

// UpdateStatus applies an admin status change along the transition table
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "update_status")
	defer span.End()

	o, err := s.find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	from := o.Status
	if err := o.UpdateStatus(order.Status(req.Status)); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.save(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info("Order status updated",
		zap.String("order_id", o.ID.String()),
		zap.String("from", from.String()),
		zap.String("to", o.Status.String()))
	telemetry.SetAttributes(span, telemetry.SpanAttrOrderStatus, o.Status.String())
	resp := ToOrderResponse(o)
	return &resp, nil
}

func (s *OrderService) find(ctx context.Context, orderID uuid.UUID) (*order.Order, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to load order")
	}
	return o, nil
}

func (s *OrderService) findForUser(ctx context.Context, userID, orderID uuid.UUID) (*order.Order, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrAuthRequired
	}
	o, err := s.orders.FindByIDForUser(ctx, orderID, userID)
	if err != nil {
		return nil, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to load order")
	}
	return o, nil
}

func (s *OrderService) save(ctx context.Context, o *order.Order) error {
	if err := s.orders.Save(ctx, o); err != nil {
		return shared.EnsureDomainError(err, shared.CodePersistence, "Failed to update order")
	}
	return nil
}
