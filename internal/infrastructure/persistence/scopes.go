package persistence

import (
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ownedBy restricts a query to rows belonging to userID
func ownedBy(userID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

// paginate applies the filter's page window
func paginate(filter shared.Filter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(filter.Offset()).Limit(filter.Limit())
	}
}

// searchPattern returns a lower-cased LIKE pattern for a free-text search.
// Works the same on postgres and sqlite.
func searchPattern(search string) string {
	s := strings.ToLower(strings.TrimSpace(search))
	s = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
	return "%" + s + "%"
}
