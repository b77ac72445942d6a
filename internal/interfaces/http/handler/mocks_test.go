package handler

import (
	"context"

	"github.com/google/uuid"
	adminapp "github.com/storefront/backend/internal/application/admin"
	cartapp "github.com/storefront/backend/internal/application/cart"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	identityapp "github.com/storefront/backend/internal/application/identity"
	orderapp "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/application/storefront"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/stretchr/testify/mock"
)

func ret[T any](args mock.Arguments, i int) T {
	v, _ := args.Get(i).(T)
	return v
}

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) SignUp(ctx context.Context, req identityapp.SignUpRequest) (*identityapp.AuthResponse, error) {
	args := m.Called(ctx, req)
	return ret[*identityapp.AuthResponse](args, 0), args.Error(1)
}

func (m *MockAuthService) SignIn(ctx context.Context, req identityapp.SignInRequest) (*identityapp.AuthResponse, error) {
	args := m.Called(ctx, req)
	return ret[*identityapp.AuthResponse](args, 0), args.Error(1)
}

func (m *MockAuthService) SignOut(ctx context.Context, claims *auth.Claims) error {
	return m.Called(ctx, claims).Error(0)
}

func (m *MockAuthService) Me(ctx context.Context, userID uuid.UUID) (*identityapp.ProfileResponse, error) {
	args := m.Called(ctx, userID)
	return ret[*identityapp.ProfileResponse](args, 0), args.Error(1)
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req identityapp.UpdateProfileRequest) (*identityapp.ProfileResponse, error) {
	args := m.Called(ctx, userID, req)
	return ret[*identityapp.ProfileResponse](args, 0), args.Error(1)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req identityapp.ChangePasswordRequest) error {
	return m.Called(ctx, userID, req).Error(0)
}

type MockProductService struct{ mock.Mock }

func (m *MockProductService) List(ctx context.Context, f catalogapp.ProductListFilter) (shared.Paginated[catalogapp.ProductResponse], error) {
	args := m.Called(ctx, f)
	return ret[shared.Paginated[catalogapp.ProductResponse]](args, 0), args.Error(1)
}

func (m *MockProductService) ListAll(ctx context.Context, f catalogapp.ProductListFilter) (shared.Paginated[catalogapp.ProductResponse], error) {
	args := m.Called(ctx, f)
	return ret[shared.Paginated[catalogapp.ProductResponse]](args, 0), args.Error(1)
}

func (m *MockProductService) Get(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, id)
	return ret[*catalogapp.ProductResponse](args, 0), args.Error(1)
}

func (m *MockProductService) GetAny(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, id)
	return ret[*catalogapp.ProductResponse](args, 0), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, req)
	return ret[*catalogapp.ProductResponse](args, 0), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, id uuid.UUID, req catalogapp.UpdateProductRequest) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, id, req)
	return ret[*catalogapp.ProductResponse](args, 0), args.Error(1)
}

func (m *MockProductService) Activate(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, id)
	return ret[*catalogapp.ProductResponse](args, 0), args.Error(1)
}

func (m *MockProductService) Deactivate(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, id)
	return ret[*catalogapp.ProductResponse](args, 0), args.Error(1)
}

type MockCategoryService struct{ mock.Mock }

func (m *MockCategoryService) List(ctx context.Context, includeInactive bool) ([]catalogapp.CategoryResponse, error) {
	args := m.Called(ctx, includeInactive)
	return ret[[]catalogapp.CategoryResponse](args, 0), args.Error(1)
}

func (m *MockCategoryService) Get(ctx context.Context, id uuid.UUID) (*catalogapp.CategoryResponse, error) {
	args := m.Called(ctx, id)
	return ret[*catalogapp.CategoryResponse](args, 0), args.Error(1)
}

func (m *MockCategoryService) Create(ctx context.Context, req catalogapp.CategoryRequest) (*catalogapp.CategoryResponse, error) {
	args := m.Called(ctx, req)
	return ret[*catalogapp.CategoryResponse](args, 0), args.Error(1)
}

func (m *MockCategoryService) Update(ctx context.Context, id uuid.UUID, req catalogapp.CategoryRequest) (*catalogapp.CategoryResponse, error) {
	args := m.Called(ctx, id, req)
	return ret[*catalogapp.CategoryResponse](args, 0), args.Error(1)
}

type MockImageService struct{ mock.Mock }

func (m *MockImageService) PresignUpload(ctx context.Context, req catalogapp.ImageUploadRequest) (*catalog.PresignedUpload, error) {
	args := m.Called(ctx, req)
	return ret[*catalog.PresignedUpload](args, 0), args.Error(1)
}

func (m *MockImageService) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type MockCartService struct{ mock.Mock }

func (m *MockCartService) List(ctx context.Context, userID uuid.UUID) (*cartapp.CartResponse, error) {
	args := m.Called(ctx, userID)
	return ret[*cartapp.CartResponse](args, 0), args.Error(1)
}

func (m *MockCartService) Summary(ctx context.Context, userID uuid.UUID) (*cart.Summary, error) {
	args := m.Called(ctx, userID)
	return ret[*cart.Summary](args, 0), args.Error(1)
}

func (m *MockCartService) Add(ctx context.Context, userID uuid.UUID, req cartapp.AddItemRequest) (*cartapp.CartResponse, error) {
	args := m.Called(ctx, userID, req)
	return ret[*cartapp.CartResponse](args, 0), args.Error(1)
}

func (m *MockCartService) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*cartapp.CartResponse, error) {
	args := m.Called(ctx, userID, productID, quantity)
	return ret[*cartapp.CartResponse](args, 0), args.Error(1)
}

func (m *MockCartService) Remove(ctx context.Context, userID, productID uuid.UUID) (*cartapp.CartResponse, error) {
	args := m.Called(ctx, userID, productID)
	return ret[*cartapp.CartResponse](args, 0), args.Error(1)
}

func (m *MockCartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

// MockOrderService covers both the shopper and the admin side
type MockOrderService struct{ mock.Mock }

func (m *MockOrderService) Create(ctx context.Context, userID uuid.UUID, req orderapp.CreateOrderRequest) (*orderapp.OrderResponse, error) {
	args := m.Called(ctx, userID, req)
	return ret[*orderapp.OrderResponse](args, 0), args.Error(1)
}

func (m *MockOrderService) Get(ctx context.Context, userID, orderID uuid.UUID) (*orderapp.OrderResponse, error) {
	args := m.Called(ctx, userID, orderID)
	return ret[*orderapp.OrderResponse](args, 0), args.Error(1)
}

func (m *MockOrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*orderapp.OrderResponse, error) {
	args := m.Called(ctx, orderID)
	return ret[*orderapp.OrderResponse](args, 0), args.Error(1)
}

func (m *MockOrderService) ListMine(ctx context.Context, userID uuid.UUID) ([]orderapp.OrderResponse, error) {
	args := m.Called(ctx, userID)
	return ret[[]orderapp.OrderResponse](args, 0), args.Error(1)
}

func (m *MockOrderService) Cancel(ctx context.Context, userID, orderID uuid.UUID) (*orderapp.OrderResponse, error) {
	args := m.Called(ctx, userID, orderID)
	return ret[*orderapp.OrderResponse](args, 0), args.Error(1)
}

func (m *MockOrderService) InitiatePayment(ctx context.Context, userID, orderID uuid.UUID) (*orderapp.InitiatePaymentResponse, error) {
	args := m.Called(ctx, userID, orderID)
	return ret[*orderapp.InitiatePaymentResponse](args, 0), args.Error(1)
}

func (m *MockOrderService) ConfirmPaymentForUser(ctx context.Context, userID, orderID uuid.UUID, txnID string) (*orderapp.OrderResponse, error) {
	args := m.Called(ctx, userID, orderID, txnID)
	return ret[*orderapp.OrderResponse](args, 0), args.Error(1)
}

func (m *MockOrderService) TrackShipment(ctx context.Context, userID, orderID uuid.UUID) (*orderapp.TrackingResponse, error) {
	args := m.Called(ctx, userID, orderID)
	return ret[*orderapp.TrackingResponse](args, 0), args.Error(1)
}

func (m *MockOrderService) ShippingQuote(ctx context.Context, req orderapp.ShippingQuoteRequest) (*orderapp.ShippingQuoteResponse, error) {
	args := m.Called(ctx, req)
	return ret[*orderapp.ShippingQuoteResponse](args, 0), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req orderapp.UpdateStatusRequest) (*orderapp.OrderResponse, error) {
	args := m.Called(ctx, orderID, req)
	return ret[*orderapp.OrderResponse](args, 0), args.Error(1)
}

func (m *MockOrderService) CreateShipment(ctx context.Context, orderID uuid.UUID) (*orderapp.OrderResponse, error) {
	args := m.Called(ctx, orderID)
	return ret[*orderapp.OrderResponse](args, 0), args.Error(1)
}

func (m *MockOrderService) CancelShipment(ctx context.Context, orderID uuid.UUID) (*orderapp.CancelShipmentResponse, error) {
	args := m.Called(ctx, orderID)
	return ret[*orderapp.CancelShipmentResponse](args, 0), args.Error(1)
}

func (m *MockOrderService) TrackShipmentByID(ctx context.Context, orderID uuid.UUID) (*orderapp.TrackingResponse, error) {
	args := m.Called(ctx, orderID)
	return ret[*orderapp.TrackingResponse](args, 0), args.Error(1)
}

func (m *MockOrderService) Refund(ctx context.Context, orderID uuid.UUID) (*orderapp.RefundResponse, error) {
	args := m.Called(ctx, orderID)
	return ret[*orderapp.RefundResponse](args, 0), args.Error(1)
}

func (m *MockOrderService) HandlePaymentCallback(ctx context.Context, xVerify, response string) (*orderapp.OrderResponse, error) {
	args := m.Called(ctx, xVerify, response)
	return ret[*orderapp.OrderResponse](args, 0), args.Error(1)
}

type MockBackOffice struct{ mock.Mock }

func (m *MockBackOffice) Dashboard(ctx context.Context) (*adminapp.DashboardResponse, error) {
	args := m.Called(ctx)
	return ret[*adminapp.DashboardResponse](args, 0), args.Error(1)
}

func (m *MockBackOffice) Orders(ctx context.Context, f adminapp.OrderListFilter) (*adminapp.OrderListResponse, error) {
	args := m.Called(ctx, f)
	return ret[*adminapp.OrderListResponse](args, 0), args.Error(1)
}

type MockUserAdmin struct{ mock.Mock }

func (m *MockUserAdmin) List(ctx context.Context, f identityapp.UserListFilter) (*identityapp.UserListResponse, error) {
	args := m.Called(ctx, f)
	return ret[*identityapp.UserListResponse](args, 0), args.Error(1)
}

func (m *MockUserAdmin) SetRole(ctx context.Context, actorID, userID uuid.UUID, req identityapp.SetRoleRequest) (*identityapp.ProfileResponse, error) {
	args := m.Called(ctx, actorID, userID, req)
	return ret[*identityapp.ProfileResponse](args, 0), args.Error(1)
}

type MockViewSelector struct{ mock.Mock }

func (m *MockViewSelector) Navigate(ctx context.Context, sess *storefront.Session, nav storefront.Navigation) (*storefront.Screen, error) {
	args := m.Called(ctx, sess, nav)
	return ret[*storefront.Screen](args, 0), args.Error(1)
}
