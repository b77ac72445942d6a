package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create stores the order with all of its items in one transaction
func (r *GormOrderRepository) Create(ctx context.Context, o *order.Order) error {
	model := models.OrderModelFromDomain(o)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return err
		}
		if len(model.Items) > 0 {
			if err := tx.Create(&model.Items).Error; err != nil {
				return err
			}
		}
		return savePaymentAttempts(tx, model.PaymentAttempts)
	})
	return translateError(err, "order")
}

// Save updates the order header and records new payment attempts.
// Items are never rewritten.
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	model := models.OrderModelFromDomain(o)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		return savePaymentAttempts(tx, model.PaymentAttempts)
	})
	return translateError(err, "order")
}

// savePaymentAttempts inserts attempts not stored yet; stored ones are left as they are
func savePaymentAttempts(tx *gorm.DB, attempts []models.OrderPaymentAttemptModel) error {
	if len(attempts) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&attempts).Error
}

// FindByID finds an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Scopes(withItems).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "order")
	}
	return model.ToDomain(), nil
}

// FindByIDForUser finds an order only if userID owns it
func (r *GormOrderRepository) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*order.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Scopes(withItems, ownedBy(userID)).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "order")
	}
	return model.ToDomain(), nil
}

// FindByPaymentTransactionID finds the order a gateway transaction belongs to,
// including transactions superseded by a later payment attempt
func (r *GormOrderRepository) FindByPaymentTransactionID(ctx context.Context, merchantTxnID string) (*order.Order, error) {
	var model models.OrderModel
	attempts := r.db.Model(&models.OrderPaymentAttemptModel{}).
		Select("order_id").
		Where("merchant_transaction_id = ?", merchantTxnID)
	if err := r.db.WithContext(ctx).
		Scopes(withItems).
		Where("payment_transaction_id = ?", merchantTxnID).
		Or("id IN (?)", attempts).
		First(&model).Error; err != nil {
		return nil, translateError(err, "order")
	}
	return model.ToDomain(), nil
}

// ListByUser returns the user's orders, newest first
func (r *GormOrderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*order.Order, error) {
	var rows []models.OrderModel
	if err := r.db.WithContext(ctx).
		Scopes(withItems, ownedBy(userID)).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, translateError(err, "orders")
	}
	return ordersToDomain(rows), nil
}

// List returns a page of orders for the admin listing
func (r *GormOrderRepository) List(ctx context.Context, filter order.ListFilter) ([]*order.Order, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Scopes(orderFilterScope(filter)).
		Count(&total).Error; err != nil {
		return nil, 0, translateError(err, "orders")
	}

	var rows []models.OrderModel
	if err := r.db.WithContext(ctx).
		Scopes(orderFilterScope(filter), withItems, paginate(filter.Filter)).
		Order(orderClause(filter.OrderBy, filter.OrderDir, OrderSortFields)).
		Find(&rows).Error; err != nil {
		return nil, 0, translateError(err, "orders")
	}
	return ordersToDomain(rows), total, nil
}

// CountByStatus returns the number of orders in each status
func (r *GormOrderRepository) CountByStatus(ctx context.Context) (map[order.Status]int64, error) {
	var rows []struct {
		Status order.Status
		Count  int64
	}
	if err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, translateError(err, "orders")
	}

	counts := make(map[order.Status]int64, len(order.AllStatuses))
	for _, s := range order.AllStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// Stats returns order totals for the dashboard
func (r *GormOrderRepository) Stats(ctx context.Context) (*order.Stats, error) {
	stats := &order.Stats{}
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.OrderModel{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, translateError(err, "orders")
	}
	if err := db.Model(&models.OrderModel{}).
		Where("status = ?", order.StatusPending).
		Count(&stats.PendingOrders).Error; err != nil {
		return nil, translateError(err, "orders")
	}

	var revenue decimal.NullDecimal
	if err := db.Model(&models.OrderModel{}).
		Select("SUM(total_amount)").
		Where("payment_status = ?", order.PaymentCompleted).
		Row().Scan(&revenue); err != nil {
		return nil, translateError(err, "orders")
	}
	stats.Revenue = decimal.Zero
	if revenue.Valid {
		stats.Revenue = revenue.Decimal
	}
	return stats, nil
}

// Recent returns the latest orders
func (r *GormOrderRepository) Recent(ctx context.Context, limit int) ([]*order.Order, error) {
	if limit <= 0 {
		limit = 5
	}
	var rows []models.OrderModel
	if err := r.db.WithContext(ctx).
		Scopes(withItems).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, translateError(err, "orders")
	}
	return ordersToDomain(rows), nil
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC").Order("id ASC")
	}).Preload("PaymentAttempts", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC").Order("merchant_transaction_id ASC")
	})
}

func orderFilterScope(filter order.ListFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.Status != "" {
			db = db.Where("status = ?", filter.Status)
		}
		if filter.UserID != nil {
			db = db.Where("user_id = ?", *filter.UserID)
		}
		if filter.Search != "" {
			db = db.Where(`LOWER(order_number) LIKE ? ESCAPE '\'`, searchPattern(filter.Search))
		}
		return db
	}
}

func ordersToDomain(rows []models.OrderModel) []*order.Order {
	orders := make([]*order.Order, len(rows))
	for i := range rows {
		orders[i] = rows[i].ToDomain()
	}
	return orders
}
