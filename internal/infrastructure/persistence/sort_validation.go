package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// orderClause builds a safe ORDER BY expression from user input
func orderClause(field, dir string, allowed map[string]bool) string {
	return ValidateSortField(field, allowed, "created_at") + " " + ValidateSortOrder(dir)
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"created_at":     true,
	"updated_at":     true,
	"name":           true,
	"price":          true,
	"stock_quantity": true,
	"sku":            true,
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"created_at":     true,
	"updated_at":     true,
	"order_number":   true,
	"status":         true,
	"payment_status": true,
	"total_amount":   true,
}

// ProfileSortFields contains allowed sort fields for profiles
var ProfileSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"email":      true,
	"full_name":  true,
	"role":       true,
}
