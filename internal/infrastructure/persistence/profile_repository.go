package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProfileRepository implements ProfileRepository using GORM
type GormProfileRepository struct {
	db *gorm.DB
}

// NewGormProfileRepository creates a new GormProfileRepository
func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

// FindByID finds a profile by ID
func (r *GormProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Profile, error) {
	var model models.ProfileModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "user")
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a profile by its normalized email
func (r *GormProfileRepository) FindByEmail(ctx context.Context, email string) (*identity.Profile, error) {
	var model models.ProfileModel
	if err := r.db.WithContext(ctx).
		Where("email = ?", identity.NormalizeEmail(email)).
		First(&model).Error; err != nil {
		return nil, translateError(err, "user")
	}
	return model.ToDomain(), nil
}

// ExistsByEmail checks if a profile with the email exists
func (r *GormProfileRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProfileModel{}).
		Where("email = ?", identity.NormalizeEmail(email)).
		Count(&count).Error; err != nil {
		return false, translateError(err, "user")
	}
	return count > 0, nil
}

// Save creates or updates a profile
func (r *GormProfileRepository) Save(ctx context.Context, profile *identity.Profile) error {
	return translateError(r.db.WithContext(ctx).Save(models.ProfileModelFromDomain(profile)).Error, "user")
}

// List returns a page of profiles, optionally narrowed by role and search text
func (r *GormProfileRepository) List(ctx context.Context, filter identity.ProfileFilter) ([]*identity.Profile, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.ProfileModel{}).
		Scopes(profileFilterScope(filter)).
		Count(&total).Error; err != nil {
		return nil, 0, translateError(err, "users")
	}

	var rows []models.ProfileModel
	if err := r.db.WithContext(ctx).
		Scopes(profileFilterScope(filter), paginate(filter.Filter)).
		Order(orderClause(filter.OrderBy, filter.OrderDir, ProfileSortFields)).
		Find(&rows).Error; err != nil {
		return nil, 0, translateError(err, "users")
	}

	profiles := make([]*identity.Profile, len(rows))
	for i := range rows {
		profiles[i] = rows[i].ToDomain()
	}
	return profiles, total, nil
}

func profileFilterScope(filter identity.ProfileFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.Role != "" {
			db = db.Where("role = ?", filter.Role)
		}
		if filter.Search != "" {
			pattern := searchPattern(filter.Search)
			db = db.Where(`(LOWER(email) LIKE ? ESCAPE '\' OR LOWER(full_name) LIKE ? ESCAPE '\')`, pattern, pattern)
		}
		return db
	}
}

// CountByRole returns the number of profiles per role
func (r *GormProfileRepository) CountByRole(ctx context.Context) (map[identity.Role]int64, error) {
	var rows []struct {
		Role  identity.Role
		Count int64
	}
	if err := r.db.WithContext(ctx).Model(&models.ProfileModel{}).
		Select("role, COUNT(*) AS count").
		Group("role").
		Scan(&rows).Error; err != nil {
		return nil, translateError(err, "users")
	}

	counts := make(map[identity.Role]int64, len(rows))
	for _, row := range rows {
		counts[row.Role] = row.Count
	}
	return counts, nil
}
