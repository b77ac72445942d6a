package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock implementation of order.Repository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByPaymentTransactionID(ctx context.Context, merchantTxnID string) (*order.Order, error) {
	args := m.Called(ctx, merchantTxnID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, filter order.ListFilter) ([]*order.Order, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*order.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) CountByStatus(ctx context.Context) (map[order.Status]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[order.Status]int64), args.Error(1)
}

func (m *MockOrderRepository) Stats(ctx context.Context) (*order.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Stats), args.Error(1)
}

func (m *MockOrderRepository) Recent(ctx context.Context, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]*order.Order), args.Error(1)
}

// MockCartRepository is a mock implementation of cart.Repository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*cart.Item, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*cart.Item), args.Error(1)
}

func (m *MockCartRepository) FindByProduct(ctx context.Context, userID, productID uuid.UUID) (*cart.Item, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Item), args.Error(1)
}

func (m *MockCartRepository) Upsert(ctx context.Context, item *cart.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockCartRepository) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	return m.Called(ctx, userID, productID).Error(0)
}

func (m *MockCartRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

// MockAddressRepository is a mock implementation of customer.AddressRepository
type MockAddressRepository struct {
	mock.Mock
}

func (m *MockAddressRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*customer.Address, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*customer.Address), args.Error(1)
}

func (m *MockAddressRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*customer.Address, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Address), args.Error(1)
}

func (m *MockAddressRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAddressRepository) Save(ctx context.Context, address *customer.Address) error {
	return m.Called(ctx, address).Error(0)
}

func (m *MockAddressRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockAddressRepository) SetDefault(ctx context.Context, userID, id uuid.UUID) error {
	return m.Called(ctx, userID, id).Error(0)
}

// MockPaymentGateway is a mock implementation of order.PaymentGateway
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) Initiate(ctx context.Context, req order.InitiatePaymentRequest) (*order.InitiatePaymentResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.InitiatePaymentResult), args.Error(1)
}

func (m *MockPaymentGateway) CheckStatus(ctx context.Context, merchantTxnID string) (*order.PaymentStatusResult, error) {
	args := m.Called(ctx, merchantTxnID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.PaymentStatusResult), args.Error(1)
}

func (m *MockPaymentGateway) Refund(ctx context.Context, req order.RefundRequest) (*order.RefundResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.RefundResult), args.Error(1)
}

func (m *MockPaymentGateway) VerifyCallback(ctx context.Context, xVerify, response string) (*order.PaymentCallback, error) {
	args := m.Called(ctx, xVerify, response)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.PaymentCallback), args.Error(1)
}

// MockShipmentGateway is a mock implementation of order.ShipmentGateway
type MockShipmentGateway struct {
	mock.Mock
}

func (m *MockShipmentGateway) CreateShipment(ctx context.Context, req order.CreateShipmentRequest) (*order.CreateShipmentResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.CreateShipmentResult), args.Error(1)
}

func (m *MockShipmentGateway) Track(ctx context.Context, waybill string) (*order.TrackResult, error) {
	args := m.Called(ctx, waybill)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.TrackResult), args.Error(1)
}

func (m *MockShipmentGateway) Cancel(ctx context.Context, waybill string) (*order.CancelShipmentResult, error) {
	args := m.Called(ctx, waybill)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.CancelShipmentResult), args.Error(1)
}

func (m *MockShipmentGateway) CheckServiceability(ctx context.Context, pincode string) (*order.ServiceabilityResult, error) {
	args := m.Called(ctx, pincode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.ServiceabilityResult), args.Error(1)
}

func (m *MockShipmentGateway) CalculateRate(ctx context.Context, req order.RateRequest) (*order.RateResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.RateResult), args.Error(1)
}

// MockIdempotencyStore is a mock implementation of shared.IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockIdempotencyStore) Close() error {
	return m.Called().Error(0)
}
