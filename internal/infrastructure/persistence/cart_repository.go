package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements cart.Repository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// ListByUser returns the user's cart with products, oldest line first
func (r *GormCartRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*cart.Item, error) {
	var rows []models.CartItemModel
	if err := r.db.WithContext(ctx).
		Scopes(ownedBy(userID)).
		Preload("Product").
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, translateError(err, "cart")
	}

	items := make([]*cart.Item, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return items, nil
}

// FindByProduct returns the user's line for productID
func (r *GormCartRepository) FindByProduct(ctx context.Context, userID, productID uuid.UUID) (*cart.Item, error) {
	var model models.CartItemModel
	if err := r.db.WithContext(ctx).
		Scopes(ownedBy(userID)).
		Where("product_id = ?", productID).
		First(&model).Error; err != nil {
		return nil, translateError(err, "cart item")
	}
	return model.ToDomain(), nil
}

// Upsert inserts the line or overwrites the quantity of the existing one
func (r *GormCartRepository) Upsert(ctx context.Context, item *cart.Item) error {
	model := &models.CartItemModel{}
	model.FromDomain(item)
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
		}).
		Create(model).Error
	return translateError(err, "cart item")
}

// Remove deletes the user's line for productID. Removing a missing line is not an error.
func (r *GormCartRepository) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Scopes(ownedBy(userID)).
		Where("product_id = ?", productID).
		Delete(&models.CartItemModel{}).Error
	return translateError(err, "cart item")
}

// Clear empties the user's cart
func (r *GormCartRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Scopes(ownedBy(userID)).
		Delete(&models.CartItemModel{}).Error
	return translateError(err, "cart")
}
