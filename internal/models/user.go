// Package models defines the persisted entities and error types shared across layers.
package models

import (
	"time"
)

// Roles assigned to accounts.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// User is a registered account. Email is stored lowercased; nick uniqueness
// is checked case-insensitively by the service layer.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Surname   string    `gorm:"not null" json:"surname"`
	Nick      string    `gorm:"uniqueIndex;not null" json:"nick"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Role      string    `gorm:"default:ROLE_USER" json:"role,omitempty"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PublicUserColumns lists the columns safe to embed in other resources.
var PublicUserColumns = []string{"id", "name", "surname", "nick", "image"}
