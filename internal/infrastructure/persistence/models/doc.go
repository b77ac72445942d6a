// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Structure:
// - base.go: BaseModel shared by every table
// - identity.go: profiles
// - catalog.go: products and categories
// - cart.go: cart items
// - customer.go: address book
// - order.go: orders and order items
package models
