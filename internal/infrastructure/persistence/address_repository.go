package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAddressRepository implements AddressRepository using GORM
type GormAddressRepository struct {
	db *gorm.DB
}

// NewGormAddressRepository creates a new GormAddressRepository
func NewGormAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// ListByUser returns the default address first, then newest first
func (r *GormAddressRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*customer.Address, error) {
	var rows []models.AddressModel
	if err := r.db.WithContext(ctx).
		Scopes(ownedBy(userID)).
		Order("is_default DESC").
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, translateError(err, "addresses")
	}

	addresses := make([]*customer.Address, len(rows))
	for i := range rows {
		addresses[i] = rows[i].ToDomain()
	}
	return addresses, nil
}

// FindByID finds one of the user's addresses
func (r *GormAddressRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*customer.Address, error) {
	var model models.AddressModel
	if err := r.db.WithContext(ctx).
		Scopes(ownedBy(userID)).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "address")
	}
	return model.ToDomain(), nil
}

// CountByUser returns the number of saved addresses
func (r *GormAddressRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.AddressModel{}).
		Scopes(ownedBy(userID)).
		Count(&count).Error; err != nil {
		return 0, translateError(err, "addresses")
	}
	return count, nil
}

// Save creates or updates the address, keeping at most one default per user
func (r *GormAddressRepository) Save(ctx context.Context, address *customer.Address) error {
	model := &models.AddressModel{}
	model.FromDomain(address)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := clearDefault(tx, address.UserID, address.ID); err != nil {
				return err
			}
		}
		return tx.Save(model).Error
	})
	return translateError(err, "address")
}

// Delete removes one of the user's addresses
func (r *GormAddressRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Scopes(ownedBy(userID)).
		Delete(&models.AddressModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error, "address")
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.CodeNotFound, "address not found")
	}
	return nil
}

// SetDefault makes id the user's only default address
func (r *GormAddressRepository) SetDefault(ctx context.Context, userID, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := clearDefault(tx, userID, id); err != nil {
			return err
		}
		result := tx.Model(&models.AddressModel{}).
			Scopes(ownedBy(userID)).
			Where("id = ?", id).
			Update("is_default", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translateError(err, "address")
}

func clearDefault(tx *gorm.DB, userID, exceptID uuid.UUID) error {
	return tx.Model(&models.AddressModel{}).
		Scopes(ownedBy(userID)).
		Where("id <> ? AND is_default = ?", exceptID, true).
		Update("is_default", false).Error
}
