package models

import (
	"time"

	"github.com/shopfront/storefront/pkg/collection"
)

// User is an account holder. Password is the bcrypt hash and never leaves
// the server.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Roles     []Role    `gorm:"many2many:user_roles" json:"roles,omitempty"`
	Addresses []Address `gorm:"constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoleNames returns the names of the loaded roles.
func (u User) RoleNames() []string {
	return collection.Map(u.Roles, func(r Role) string { return r.Name })
}

type Role struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:50;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// PersonalAccessToken backs one issued bearer token; deleting the row
// revokes the token.
type PersonalAccessToken struct {
	ID         uint       `gorm:"primaryKey"`
	TokenID    string     `gorm:"size:36;not null;uniqueIndex"`
	UserID     uint       `gorm:"not null;index"`
	Name       string     `gorm:"size:255;not null"`
	LastUsedAt *time.Time
	ExpiresAt  time.Time `gorm:"not null"`
	CreatedAt  time.Time
}

type Address struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Address   string    `gorm:"size:255;not null" json:"address"`
	City      string    `gorm:"size:255;not null" json:"city"`
	ZipCode   string    `gorm:"size:20;not null" json:"zip_code"`
	Country   string    `gorm:"size:255;not null" json:"country"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
