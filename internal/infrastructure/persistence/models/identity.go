package models

import (
	"github.com/storefront/backend/internal/domain/identity"
)

// ProfileModel is the persistence model for the Profile domain entity.
type ProfileModel struct {
	BaseModel
	Email        string        `gorm:"type:varchar(254);not null;uniqueIndex"`
	PasswordHash string        `gorm:"type:varchar(255);not null"`
	FullName     string        `gorm:"type:varchar(100)"`
	Phone        string        `gorm:"type:varchar(20)"`
	Role         identity.Role `gorm:"type:varchar(20);not null;default:'customer';index"`
}

// TableName returns the table name for GORM
func (ProfileModel) TableName() string {
	return "profiles"
}

// ToDomain converts the persistence model to a domain Profile entity.
func (m *ProfileModel) ToDomain() *identity.Profile {
	return &identity.Profile{
		BaseEntity:   m.BaseModel.ToDomain(),
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		FullName:     m.FullName,
		Phone:        m.Phone,
		Role:         m.Role,
	}
}

// FromDomain populates the persistence model from a domain Profile entity.
func (m *ProfileModel) FromDomain(p *identity.Profile) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Email = p.Email
	m.PasswordHash = p.PasswordHash
	m.FullName = p.FullName
	m.Phone = p.Phone
	m.Role = p.Role
}

// ProfileModelFromDomain creates a new persistence model from a domain Profile entity.
func ProfileModelFromDomain(p *identity.Profile) *ProfileModel {
	m := &ProfileModel{}
	m.FromDomain(p)
	return m
}
