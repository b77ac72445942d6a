package storefront

import (
	"context"

	"github.com/google/uuid"
	adminapp "github.com/storefront/backend/internal/application/admin"
	cartapp "github.com/storefront/backend/internal/application/cart"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	customerapp "github.com/storefront/backend/internal/application/customer"
	identityapp "github.com/storefront/backend/internal/application/identity"
	orderapp "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

type MockCartManager struct {
	mock.Mock
}

func (m *MockCartManager) List(ctx context.Context, userID uuid.UUID) (*cartapp.CartResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cartapp.CartResponse), args.Error(1)
}

func (m *MockCartManager) Add(ctx context.Context, userID uuid.UUID, req cartapp.AddItemRequest) (*cartapp.CartResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cartapp.CartResponse), args.Error(1)
}

func (m *MockCartManager) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*cartapp.CartResponse, error) {
	args := m.Called(ctx, userID, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cartapp.CartResponse), args.Error(1)
}

func (m *MockCartManager) Remove(ctx context.Context, userID, productID uuid.UUID) (*cartapp.CartResponse, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cartapp.CartResponse), args.Error(1)
}

func (m *MockCartManager) Clear(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

type MockOrderManager struct {
	mock.Mock
}

func (m *MockOrderManager) Create(ctx context.Context, userID uuid.UUID, req orderapp.CreateOrderRequest) (*orderapp.OrderResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderapp.OrderResponse), args.Error(1)
}

func (m *MockOrderManager) Get(ctx context.Context, userID, orderID uuid.UUID) (*orderapp.OrderResponse, error) {
	args := m.Called(ctx, userID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderapp.OrderResponse), args.Error(1)
}

func (m *MockOrderManager) ListMine(ctx context.Context, userID uuid.UUID) ([]orderapp.OrderResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]orderapp.OrderResponse), args.Error(1)
}

func (m *MockOrderManager) InitiatePayment(ctx context.Context, userID, orderID uuid.UUID) (*orderapp.InitiatePaymentResponse, error) {
	args := m.Called(ctx, userID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderapp.InitiatePaymentResponse), args.Error(1)
}

func (m *MockOrderManager) ConfirmPaymentForUser(ctx context.Context, userID, orderID uuid.UUID, merchantTxnID string) (*orderapp.OrderResponse, error) {
	args := m.Called(ctx, userID, orderID, merchantTxnID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderapp.OrderResponse), args.Error(1)
}

type MockProductReader struct {
	mock.Mock
}

func (m *MockProductReader) List(ctx context.Context, filter catalogapp.ProductListFilter) (shared.Paginated[catalogapp.ProductResponse], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[catalogapp.ProductResponse]), args.Error(1)
}

func (m *MockProductReader) ListAll(ctx context.Context, filter catalogapp.ProductListFilter) (shared.Paginated[catalogapp.ProductResponse], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[catalogapp.ProductResponse]), args.Error(1)
}

func (m *MockProductReader) Get(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

type MockCategoryReader struct {
	mock.Mock
}

func (m *MockCategoryReader) List(ctx context.Context, includeInactive bool) ([]catalogapp.CategoryResponse, error) {
	args := m.Called(ctx, includeInactive)
	return args.Get(0).([]catalogapp.CategoryResponse), args.Error(1)
}

func (m *MockCategoryReader) Get(ctx context.Context, id uuid.UUID) (*catalogapp.CategoryResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.CategoryResponse), args.Error(1)
}

type MockAddressReader struct {
	mock.Mock
}

func (m *MockAddressReader) List(ctx context.Context, userID uuid.UUID) ([]customerapp.AddressResponse, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]customerapp.AddressResponse), args.Error(1)
}

type MockProfileReader struct {
	mock.Mock
}

func (m *MockProfileReader) Me(ctx context.Context, userID uuid.UUID) (*identityapp.ProfileResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.ProfileResponse), args.Error(1)
}

type MockBackOffice struct {
	mock.Mock
}

func (m *MockBackOffice) Dashboard(ctx context.Context) (*adminapp.DashboardResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*adminapp.DashboardResponse), args.Error(1)
}

func (m *MockBackOffice) Orders(ctx context.Context, f adminapp.OrderListFilter) (*adminapp.OrderListResponse, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*adminapp.OrderListResponse), args.Error(1)
}

type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) List(ctx context.Context, f identityapp.UserListFilter) (*identityapp.UserListResponse, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.UserListResponse), args.Error(1)
}
