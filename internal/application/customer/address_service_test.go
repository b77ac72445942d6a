package customer

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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

func validRequest() AddressRequest {
	return AddressRequest{
		Type:         "home",
		FullName:     "Meera Nair",
		Phone:        "9847012345",
		AddressLine1: "22 Marine Drive",
		City:         "Kochi",
		State:        "Kerala",
		Pincode:      "682031",
	}
}

func TestAddressService_Create_FirstBecomesDefault(t *testing.T) {
	repo := new(MockAddressRepository)
	svc := NewAddressService(repo)
	userID := uuid.New()
	repo.On("CountByUser", mock.Anything, userID).Return(int64(0), nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*customer.Address")).Return(nil)

	resp, err := svc.Create(context.Background(), userID, validRequest())
	require.NoError(t, err)
	assert.True(t, resp.IsDefault)
	assert.Equal(t, "Kochi", resp.City)
	assert.Equal(t, "India", resp.Country)
}

func TestAddressService_Create_LaterIsNotDefault(t *testing.T) {
	repo := new(MockAddressRepository)
	svc := NewAddressService(repo)
	userID := uuid.New()
	repo.On("CountByUser", mock.Anything, userID).Return(int64(2), nil)
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.Create(context.Background(), userID, validRequest())
	require.NoError(t, err)
	assert.False(t, resp.IsDefault)

	req := validRequest()
	req.IsDefault = true
	resp, err = svc.Create(context.Background(), userID, req)
	require.NoError(t, err)
	assert.True(t, resp.IsDefault)
}

func TestAddressService_Create_Validation(t *testing.T) {
	repo := new(MockAddressRepository)
	svc := NewAddressService(repo)
	userID := uuid.New()
	repo.On("CountByUser", mock.Anything, userID).Return(int64(0), nil)

	req := validRequest()
	req.Pincode = "68203"
	_, err := svc.Create(context.Background(), userID, req)
	assert.ErrorIs(t, err, shared.ErrValidation)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)

	_, err = svc.Create(context.Background(), uuid.Nil, validRequest())
	assert.ErrorIs(t, err, shared.ErrAuthRequired)
}

func TestAddressService_Update(t *testing.T) {
	repo := new(MockAddressRepository)
	svc := NewAddressService(repo)
	userID := uuid.New()
	a, err := customer.NewAddress(userID, customer.AddressTypeHome, validRequest().location(), false)
	require.NoError(t, err)
	repo.On("FindByID", mock.Anything, userID, a.ID).Return(a, nil)
	repo.On("Save", mock.Anything, a).Return(nil)

	req := validRequest()
	req.Type = "work"
	req.City = "Ernakulam"
	req.IsDefault = true
	resp, err := svc.Update(context.Background(), userID, a.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "work", resp.Type)
	assert.Equal(t, "Ernakulam", resp.City)
	assert.True(t, resp.IsDefault)
}

func TestAddressService_ForeignAddress(t *testing.T) {
	repo := new(MockAddressRepository)
	svc := NewAddressService(repo)
	userID := uuid.New()
	id := uuid.New()
	repo.On("FindByID", mock.Anything, userID, id).Return(nil, shared.NewDomainError(shared.CodeNotFound, "address not found"))

	assert.ErrorIs(t, svc.Delete(context.Background(), userID, id), shared.ErrNotFound)
	_, err := svc.SetDefault(context.Background(), userID, id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "SetDefault", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddressService_SetDefault(t *testing.T) {
	repo := new(MockAddressRepository)
	svc := NewAddressService(repo)
	userID := uuid.New()
	a, err := customer.NewAddress(userID, customer.AddressTypeOther, validRequest().location(), false)
	require.NoError(t, err)
	repo.On("FindByID", mock.Anything, userID, a.ID).Return(a, nil)
	repo.On("SetDefault", mock.Anything, userID, a.ID).Return(nil)
	a.IsDefault = true
	repo.On("ListByUser", mock.Anything, userID).Return([]*customer.Address{a}, nil)

	list, err := svc.SetDefault(context.Background(), userID, a.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsDefault)
}
