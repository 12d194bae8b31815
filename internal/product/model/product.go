package model

import (
	"time"
)

// Product is a catalog row. UserID is a by-value reference to the owner in
// the User service; IsUserActive caches the owner's account status and is
// written only by the internal status-sync endpoint.
type Product struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(150);not null" json:"name"`
	Description  string    `gorm:"type:varchar(255);not null" json:"description"`
	Price        float64   `gorm:"type:numeric(12,2);not null" json:"price"`
	IsAvailable  bool      `gorm:"not null" json:"is_available"`
	IsDeleted    bool      `gorm:"not null;default:false;index" json:"-"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	IsUserActive bool      `gorm:"not null;default:true;index" json:"-"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

func (Product) TableName() string {
	return "products"
}
