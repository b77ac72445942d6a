// Package storefront holds the per-user application state and the view
// selector that the storefront UI drives.
package storefront

import (
	"context"
	"errors"

	"github.com/google/uuid"
	cartapp "github.com/storefront/backend/internal/application/cart"
	orderapp "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CartManager is the single mutation entry point for the cart
type CartManager interface {
	List(ctx context.Context, userID uuid.UUID) (*cartapp.CartResponse, error)
	Add(ctx context.Context, userID uuid.UUID, req cartapp.AddItemRequest) (*cartapp.CartResponse, error)
	UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*cartapp.CartResponse, error)
	Remove(ctx context.Context, userID, productID uuid.UUID) (*cartapp.CartResponse, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

// OrderManager is the single mutation entry point for orders
type OrderManager interface {
	Create(ctx context.Context, userID uuid.UUID, req orderapp.CreateOrderRequest) (*orderapp.OrderResponse, error)
	Get(ctx context.Context, userID, orderID uuid.UUID) (*orderapp.OrderResponse, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]orderapp.OrderResponse, error)
	InitiatePayment(ctx context.Context, userID, orderID uuid.UUID) (*orderapp.InitiatePaymentResponse, error)
	ConfirmPaymentForUser(ctx context.Context, userID, orderID uuid.UUID, merchantTxnID string) (*orderapp.OrderResponse, error)
}

// Viewer is the signed-in user a session belongs to
type Viewer struct {
	ID    uuid.UUID     `json:"id"`
	Email string        `json:"email"`
	Role  identity.Role `json:"role"`
}

// IsAdmin reports whether the viewer may open the back office; nil is never an admin
func (v *Viewer) IsAdmin() bool {
	return v != nil && v.Role == identity.RoleAdmin
}

// Result is what every session action reports back to the UI. Store and
// gateway failures end here instead of propagating.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// CheckoutResult adds the created order and, for online payment, the
// gateway page the shopper must be sent to
type CheckoutResult struct {
	Result
	Order       *orderapp.OrderResponse `json:"order,omitempty"`
	RedirectURL string                  `json:"redirect_url,omitempty"`
}

// Snapshot is the serialisable session state
type Snapshot struct {
	User   *Viewer                  `json:"user"`
	Cart   cartapp.CartResponse     `json:"cart"`
	Orders []orderapp.OrderResponse `json:"orders"`
}

// Session is the state of one shopper: who they are, their cart and their
// orders. It is built per request and never shared between users.
type Session struct {
	viewer *Viewer
	cart   cartapp.CartResponse
	orders []orderapp.OrderResponse

	carts    CartManager
	ordering OrderManager
	logger   *zap.Logger
}

// NewSession creates a session; viewer is nil for anonymous shoppers
func NewSession(viewer *Viewer, carts CartManager, ordering OrderManager, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		viewer:   viewer,
		cart:     cartapp.CartResponse{Items: []cartapp.ItemResponse{}},
		orders:   []orderapp.OrderResponse{},
		carts:    carts,
		ordering: ordering,
		logger:   logger,
	}
}

// User returns the signed-in viewer, or nil for an anonymous session
func (s *Session) User() *Viewer {
	return s.viewer
}

// IsAuthenticated reports whether a user is signed in
func (s *Session) IsAuthenticated() bool {
	return s.viewer != nil && s.viewer.ID != uuid.Nil
}

// Cart returns the last loaded cart
func (s *Session) Cart() cartapp.CartResponse {
	return s.cart
}

// Orders returns the last loaded order history
func (s *Session) Orders() []orderapp.OrderResponse {
	return s.orders
}

// Snapshot returns the current state
func (s *Session) Snapshot() Snapshot {
	return Snapshot{User: s.viewer, Cart: s.cart, Orders: s.orders}
}

// Refresh reloads the cart and order history. Anonymous sessions keep an
// empty state.
func (s *Session) Refresh(ctx context.Context) Result {
	if !s.IsAuthenticated() {
		return ok("")
	}
	if err := s.loadCart(ctx); err != nil {
		return s.fail("Refresh", err)
	}
	if err := s.loadOrders(ctx); err != nil {
		return s.fail("Refresh", err)
	}
	return ok("")
}

// AddToCart adds quantity units of a product, merging with an existing line
func (s *Session) AddToCart(ctx context.Context, productID uuid.UUID, quantity int) Result {
	return s.mutateCart(ctx, "AddToCart", "Added to cart", func(userID uuid.UUID) (*cartapp.CartResponse, error) {
		return s.carts.Add(ctx, userID, cartapp.AddItemRequest{ProductID: productID, Quantity: quantity})
	})
}

// UpdateCartQuantity sets a line's quantity; zero or less removes it
func (s *Session) UpdateCartQuantity(ctx context.Context, productID uuid.UUID, quantity int) Result {
	return s.mutateCart(ctx, "UpdateCartQuantity", "Cart updated", func(userID uuid.UUID) (*cartapp.CartResponse, error) {
		return s.carts.UpdateQuantity(ctx, userID, productID, quantity)
	})
}

// RemoveFromCart drops the product's line from the cart
func (s *Session) RemoveFromCart(ctx context.Context, productID uuid.UUID) Result {
	return s.mutateCart(ctx, "RemoveFromCart", "Removed from cart", func(userID uuid.UUID) (*cartapp.CartResponse, error) {
		return s.carts.Remove(ctx, userID, productID)
	})
}

// ClearCart empties the cart
func (s *Session) ClearCart(ctx context.Context) Result {
	return s.mutateCart(ctx, "ClearCart", "Cart cleared", func(userID uuid.UUID) (*cartapp.CartResponse, error) {
		if err := s.carts.Clear(ctx, userID); err != nil {
			return nil, err
		}
		return &cartapp.CartResponse{Items: []cartapp.ItemResponse{}}, nil
	})
}

// Checkout places an order from the cart. For online payment it also
// starts the gateway flow; if that fails the order stays pending and the
// shopper can retry payment from their order history.
func (s *Session) Checkout(ctx context.Context, req orderapp.CreateOrderRequest) CheckoutResult {
	if !s.IsAuthenticated() {
		return CheckoutResult{Result: s.fail("Checkout", shared.ErrAuthRequired)}
	}
	o, err := s.ordering.Create(ctx, s.viewer.ID, req)
	if err != nil {
		return CheckoutResult{Result: s.fail("Checkout", err)}
	}
	s.cart = cartapp.CartResponse{Items: []cartapp.ItemResponse{}}
	s.orders = append([]orderapp.OrderResponse{*o}, s.orders...)

	if o.PaymentMethod != string(order.PaymentMethodPhonePe) {
		return CheckoutResult{Result: ok("Order placed"), Order: o}
	}
	payment, err := s.ordering.InitiatePayment(ctx, s.viewer.ID, o.ID)
	if err != nil {
		return CheckoutResult{Result: s.fail("Checkout", err), Order: o}
	}
	return CheckoutResult{Result: ok("Redirecting to payment"), Order: o, RedirectURL: payment.RedirectURL}
}

// ConfirmPayment checks the gateway after the shopper returns from the
// payment page. An empty transaction id uses the one stored on the order.
func (s *Session) ConfirmPayment(ctx context.Context, orderID uuid.UUID, merchantTxnID string) Result {
	if !s.IsAuthenticated() {
		return s.fail("ConfirmPayment", shared.ErrAuthRequired)
	}
	o, err := s.ordering.ConfirmPaymentForUser(ctx, s.viewer.ID, orderID, merchantTxnID)
	if err != nil {
		return s.fail("ConfirmPayment", err)
	}
	s.replaceOrder(*o)
	return ok("Payment confirmed")
}

func (s *Session) mutateCart(ctx context.Context, op, message string, fn func(uuid.UUID) (*cartapp.CartResponse, error)) Result {
	if !s.IsAuthenticated() {
		return s.fail(op, shared.ErrAuthRequired)
	}
	c, err := fn(s.viewer.ID)
	if err != nil {
		// reload so the snapshot matches the store, not a half applied change
		if reloadErr := s.loadCart(ctx); reloadErr != nil {
			s.logger.Debug("Cart reload failed", zap.Error(reloadErr))
		}
		return s.fail(op, err)
	}
	s.cart = *c
	return ok(message)
}

func (s *Session) loadCart(ctx context.Context) error {
	c, err := s.carts.List(ctx, s.viewer.ID)
	if err != nil {
		return err
	}
	s.cart = *c
	return nil
}

func (s *Session) loadOrders(ctx context.Context) error {
	orders, err := s.ordering.ListMine(ctx, s.viewer.ID)
	if err != nil {
		return err
	}
	s.orders = orders
	return nil
}

func (s *Session) replaceOrder(o orderapp.OrderResponse) {
	for i := range s.orders {
		if s.orders[i].ID == o.ID {
			s.orders[i] = o
			return
		}
	}
	s.orders = append([]orderapp.OrderResponse{o}, s.orders...)
}

func (s *Session) fail(op string, err error) Result {
	r := resultFromError(err)
	s.logger.Info("Session action failed",
		zap.String("action", op),
		zap.String("code", r.Code),
		zap.Error(err),
	)
	return r
}

func ok(message string) Result {
	return Result{Success: true, Message: message}
}

func resultFromError(err error) Result {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return Result{Message: domainErr.Message, Code: domainErr.Code}
	}
	return Result{Message: "Something went wrong, please try again", Code: shared.CodeInternal}
}
