package models

import (
	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User domain entity.
// OwnerID is null for owners.
type UserModel struct {
	BaseModel
	OwnerID *uuid.UUID    `gorm:"type:uuid;index"`
	StoreID *uuid.UUID    `gorm:"type:uuid;index"`
	Email   string        `gorm:"type:varchar(200);not null;uniqueIndex"`
	Name    string        `gorm:"type:varchar(100);not null"`
	Role    identity.Role `gorm:"type:varchar(20);not null"`
	Active  bool          `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity: m.BaseModel.ToDomain(),
		OwnerID:    m.OwnerID,
		StoreID:    m.StoreID,
		Email:      m.Email,
		Name:       m.Name,
		Role:       m.Role,
		Active:     m.Active,
	}
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		OwnerID: u.OwnerID,
		StoreID: u.StoreID,
		Email:   u.Email,
		Name:    u.Name,
		Role:    u.Role,
		Active:  u.Active,
	}
	m.FromDomainBaseEntity(u.BaseEntity)
	return m
}
