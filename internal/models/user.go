package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	gorm.Model
	Email               string  `gorm:"uniqueIndex;not null"` // Unique index on Email; immutable after creation
	Password            string  `gorm:"not null"`
	Name                string  `gorm:"not null"`
	Phone               string  // stored encrypted, see crypto.EncryptFields
	Role                string  `gorm:"default:'user'"`
	WalletID            *uint   `gorm:"unique;default:null"`
	Wallet              *Wallet `gorm:"foreignKey:WalletID"`
	Status              string  `gorm:"default:'active'"`
	LastLoginAt         time.Time
	LastLoginIP         string
	FailedLoginAttempts int `gorm:"default:0"`
	TokenVersion        int `gorm:"default:1"`
}

// IsActive reports whether the account may authenticate.
func (u *User) IsActive() bool {
	return u.Status == "active"
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
