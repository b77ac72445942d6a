package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "product")
	}
	return model.ToDomain(), nil
}

// FindByIDs finds multiple products by their IDs
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.Product, error) {
	if len(ids) == 0 {
		return []*catalog.Product{}, nil
	}

	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, translateError(err, "products")
	}
	return productsToDomain(rows), nil
}

// List returns a page of products matching the filter
func (r *GormProductRepository) List(ctx context.Context, filter catalog.ProductFilter) ([]*catalog.Product, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Scopes(productFilterScope(filter)).
		Count(&total).Error; err != nil {
		return nil, 0, translateError(err, "products")
	}

	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).
		Scopes(productFilterScope(filter), paginate(filter.Filter)).
		Order(orderClause(filter.OrderBy, filter.OrderDir, ProductSortFields)).
		Find(&rows).Error; err != nil {
		return nil, 0, translateError(err, "products")
	}
	return productsToDomain(rows), total, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return translateError(r.db.WithContext(ctx).Save(models.ProductModelFromDomain(product)).Error, "product")
}

// Counts returns total and active product counts
func (r *GormProductRepository) Counts(ctx context.Context) (catalog.ProductCounts, error) {
	var counts catalog.ProductCounts
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).Count(&counts.Total).Error; err != nil {
		return counts, translateError(err, "products")
	}
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("is_active = ?", true).
		Count(&counts.Active).Error; err != nil {
		return counts, translateError(err, "products")
	}
	return counts, nil
}

func productFilterScope(filter catalog.ProductFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !filter.IncludeInactive {
			db = db.Where("is_active = ?", true)
		}
		if filter.CategoryID != nil {
			db = db.Where("category_id = ?", *filter.CategoryID)
		}
		if filter.Featured != nil {
			db = db.Where("is_featured = ?", *filter.Featured)
		}
		if filter.Search != "" {
			pattern := searchPattern(filter.Search)
			db = db.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(sku) LIKE ? ESCAPE '\')`,
				pattern, pattern, pattern)
		}
		return db
	}
}

func productsToDomain(rows []models.ProductModel) []*catalog.Product {
	products := make([]*catalog.Product, len(rows))
	for i := range rows {
		products[i] = rows[i].ToDomain()
	}
	return products
}

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "category")
	}
	return model.ToDomain(), nil
}

// List returns categories ordered by name
func (r *GormCategoryRepository) List(ctx context.Context, includeInactive bool) ([]*catalog.Category, error) {
	query := r.db.WithContext(ctx).Order("name ASC")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var rows []models.CategoryModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, translateError(err, "categories")
	}

	categories := make([]*catalog.Category, len(rows))
	for i := range rows {
		categories[i] = rows[i].ToDomain()
	}
	return categories, nil
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	model := &models.CategoryModel{}
	model.FromDomain(category)
	return translateError(r.db.WithContext(ctx).Save(model).Error, "category")
}
