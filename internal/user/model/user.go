package model

import (
	"time"
)

const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

// User is the account row. Accounts are never hard-deleted; IsActive carries
// the soft lifecycle and the Product service mirrors it per owner.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"type:varchar(16);not null;uniqueIndex" json:"username"`
	FirstName      string    `gorm:"type:varchar(50);not null" json:"first_name"`
	LastName       string    `gorm:"type:varchar(50);not null" json:"last_name"`
	Email          string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash   string    `gorm:"type:varchar(255);not null" json:"-"`
	Role           string    `gorm:"type:varchar(20);not null;default:'User'" json:"role"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	EmailConfirmed bool      `gorm:"not null;default:false" json:"email_confirmed"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`

	// Single active refresh token per user; rotated on every refresh and
	// cleared on password reset or deactivation.
	RefreshToken       *string    `gorm:"type:varchar(500)" json:"-"`
	RefreshTokenExpiry *time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}

// HasValidRefreshToken reports whether the stored refresh token matches and
// has not expired.
func (u *User) HasValidRefreshToken(candidate string) bool {
	if u.RefreshToken == nil || u.RefreshTokenExpiry == nil {
		return false
	}
	if *u.RefreshToken != candidate {
		return false
	}
	return time.Now().Before(*u.RefreshTokenExpiry)
}
