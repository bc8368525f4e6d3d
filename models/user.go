package models

import (
	"time"
)

// Role values stored in users.role.
const (
	RoleUser         = "user"
	RoleReviewer     = "reviewer"
	RoleAdmin        = "admin"
	RoleTechnician   = "technician"
	RoleSupportAdmin = "support_admin"
)

type User struct {
	ID           int       `gorm:"primaryKey;column:id" json:"id"`
	Name         string    `gorm:"column:name" json:"name"`
	Email        string    `gorm:"column:email;unique" json:"email"`
	Password     *string   `gorm:"column:password" json:"-"`
	Role         string    `gorm:"column:role;default:user" json:"role"`
	Track        *string   `gorm:"column:track" json:"track,omitempty"`
	IsFirstLogin bool      `gorm:"column:isFirstLogin" json:"is_first_login,omitempty"`
	CreatedAt    time.Time `gorm:"column:createdAt" json:"created_at"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

// ValidRole reports whether role belongs to the fixed role enumeration.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleReviewer, RoleAdmin, RoleTechnician, RoleSupportAdmin:
		return true
	}
	return false
}
