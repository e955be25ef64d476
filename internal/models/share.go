package models

import (
	"time"

	"gorm.io/gorm"
)

// Share is an unlisted/pre-IPO equity listing shown to buyers. The
// catalogue is curated by admins; pricing here is indicative, not a
// live order book.
type Share struct {
	gorm.Model
	CompanyName     string  `gorm:"not null"`
	Symbol          string  `gorm:"uniqueIndex;not null"`
	Sector          string  `gorm:"index"`
	PricePerShare   float64 `gorm:"not null"`
	LotSize         int     `gorm:"default:1"`
	AvailableLots   int     `gorm:"default:0"`
	Description     string
	ExpectedIPODate *time.Time
	Active          bool `gorm:"default:true;index"`
}

// Order statuses
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusCancelled = "cancelled"
)

// Order is a buy request against a listing. Orders are recorded and
// left pending for manual settlement; there is no matching engine.
type Order struct {
	gorm.Model
	UserID  uint    `gorm:"index;not null"`
	ShareID uint    `gorm:"index;not null"`
	Share   Share   `gorm:"foreignKey:ShareID"`
	Lots    int     `gorm:"not null"`
	Price   float64 `gorm:"not null"` // price per share at order time
	Status  string  `gorm:"default:'pending'"`
}
